package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/repository"
	"github.com/somah-market/backend/internal/service"
)

func (s *Server) handleGetCart(c *gin.Context) {
	cart, err := s.carts.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.logger.Error("get cart", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, cart)
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

func (s *Server) handleAddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity < 1 {
		errJSON(c, http.StatusBadRequest, "quantity must be positive")
		return
	}

	ctx := c.Request.Context()

	if _, err := s.products.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			errJSON(c, http.StatusNotFound, "product not found")
			return
		}
		s.logger.Error("get product", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	item := domain.CartItem{ProductID: req.ProductID, Quantity: req.Quantity}
	if err := s.carts.AddItem(ctx, currentUserID(c), item); err != nil {
		s.logger.Error("add cart item", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteCartItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid product id")
		return
	}

	deleted, err := s.carts.DeleteItem(c.Request.Context(), currentUserID(c), productID)
	if err != nil {
		s.logger.Error("delete cart item", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		errJSON(c, http.StatusNotFound, "item not in cart")
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleCheckout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}

	order, err := s.orders.Checkout(c.Request.Context(), currentUserID(c), req)
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		errJSON(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, repository.ErrInsufficientStock):
		errJSON(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (s *Server) handleMyOrders(c *gin.Context) {
	filter := domain.OrderFilter{UserIDs: []uuid.UUID{currentUserID(c)}}

	orders, err := s.orderRepo.SearchOrders(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("search orders", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleGetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orderRepo.GetOrder(c.Request.Context(), orderID)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		errJSON(c, http.StatusNotFound, "order not found")
		return
	case err != nil:
		s.logger.Error("get order", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	// Customers only see their own orders.
	if order.UserID != currentUserID(c) && currentRole(c) != domain.RoleAdmin {
		errJSON(c, http.StatusNotFound, "order not found")
		return
	}

	c.JSON(http.StatusOK, order)
}
