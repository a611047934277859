package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/somah-market/backend/internal/cache"
	"github.com/somah-market/backend/internal/config"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
	"github.com/somah-market/backend/internal/service"
)

const catalogCacheTTL = 30 * time.Second

type Server struct {
	cfg    config.Config
	auth   *service.AuthService
	orders *service.OrderService

	users     port.UserRepository
	stores    port.StoreRepository
	products  port.ProductRepository
	carts     port.CartRepository
	orderRepo port.OrderRepository

	catalog *cache.TTL[string, []domain.Product]
	logger  *slog.Logger
}

type Deps struct {
	Auth      *service.AuthService
	Orders    *service.OrderService
	Users     port.UserRepository
	Stores    port.StoreRepository
	Products  port.ProductRepository
	Carts     port.CartRepository
	OrderRepo port.OrderRepository
	Logger    *slog.Logger
}

func New(cfg config.Config, deps Deps) *Server {
	return &Server{
		cfg:       cfg,
		auth:      deps.Auth,
		orders:    deps.Orders,
		users:     deps.Users,
		stores:    deps.Stores,
		products:  deps.Products,
		carts:     deps.Carts,
		orderRepo: deps.OrderRepo,
		catalog:   cache.NewTTL[string, []domain.Product](catalogCacheTTL, 256),
		logger:    deps.Logger,
	}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	api.GET("/stores", s.handleListStores)
	api.GET("/stores/:id", s.handleGetStore)
	api.GET("/stores/:id/products", s.handleListStoreProducts)
	api.GET("/products", s.handleListProducts)
	api.GET("/products/:id", s.handleGetProduct)

	user := api.Group("", s.requireUser())
	user.GET("/cart", s.handleGetCart)
	user.POST("/cart/items", s.handleAddCartItem)
	user.DELETE("/cart/items/:productId", s.handleDeleteCartItem)
	user.POST("/checkout", s.handleCheckout)
	user.GET("/orders", s.handleMyOrders)
	user.GET("/orders/:id", s.handleGetOrder)

	admin := api.Group("/admin", s.requireUser(), s.requireAdmin())
	admin.GET("/orders", s.handleSearchOrders)
	admin.PATCH("/orders/:id/status", s.handleUpdateOrderStatus)
	admin.POST("/stores", s.handleCreateStore)
	admin.POST("/products", s.handleCreateProduct)
	admin.PUT("/stores/:id/pickup", s.handleUpsertPickup)
	admin.GET("/users", s.handleListUsers)

	return r
}

func errJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
