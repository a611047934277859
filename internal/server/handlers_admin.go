package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/repository"
	"github.com/somah-market/backend/internal/service"
)

func (s *Server) handleSearchOrders(c *gin.Context) {
	var filter domain.OrderFilter

	if v := c.Query("status"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			status, err := domain.ToOrderStatus(strings.TrimSpace(raw))
			if err != nil {
				errJSON(c, http.StatusBadRequest, "invalid status")
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	if v := c.Query("userId"); v != "" {
		userID, err := uuid.Parse(v)
		if err != nil {
			errJSON(c, http.StatusBadRequest, "invalid user id")
			return
		}
		filter.UserIDs = []uuid.UUID{userID}
	}

	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		tr := &domain.TimeRange{}
		if from != "" {
			ts, err := time.Parse(time.RFC3339, from)
			if err != nil {
				errJSON(c, http.StatusBadRequest, "invalid from timestamp")
				return
			}
			tr.After = &ts
		}
		if to != "" {
			ts, err := time.Parse(time.RFC3339, to)
			if err != nil {
				errJSON(c, http.StatusBadRequest, "invalid to timestamp")
				return
			}
			tr.Before = &ts
		}
		filter.CreatedAt = tr
	}

	if err := filter.Validate(); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.orderRepo.SearchOrders(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("search orders", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}

	status, err := domain.ToOrderStatus(req.Status)
	if err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	err = s.orders.UpdateStatus(c.Request.Context(), orderID, status)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		errJSON(c, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, service.ErrInvalidTransition):
		errJSON(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.logger.Error("update order status", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.Status(http.StatusNoContent)
}

type createStoreRequest struct {
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func (s *Server) handleCreateStore(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		errJSON(c, http.StatusBadRequest, "store name is required")
		return
	}

	store := domain.Store{
		OwnerID:     req.OwnerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	storeID, err := s.stores.InsertStore(c.Request.Context(), store)
	if err != nil {
		s.logger.Error("create store", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	store.ID = storeID

	c.JSON(http.StatusCreated, store)
}

type createProductRequest struct {
	StoreID       uuid.UUID `json:"storeId"`
	Name          string    `json:"name"`
	Price         string    `json:"price"`
	OriginalPrice string    `json:"originalPrice"`
	Stock         int       `json:"stock"`
	ImageURL      string    `json:"imageUrl"`
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Stock < 0 {
		errJSON(c, http.StatusBadRequest, "product name and non-negative stock are required")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		errJSON(c, http.StatusBadRequest, "invalid price")
		return
	}
	original := price
	if req.OriginalPrice != "" {
		if original, err = decimal.NewFromString(req.OriginalPrice); err != nil || original.IsNegative() {
			errJSON(c, http.StatusBadRequest, "invalid original price")
			return
		}
	}

	ctx := c.Request.Context()

	if _, err := s.stores.GetStore(ctx, req.StoreID); err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			errJSON(c, http.StatusNotFound, "store not found")
			return
		}
		s.logger.Error("get store", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	product := domain.Product{
		StoreID:       req.StoreID,
		Name:          strings.TrimSpace(req.Name),
		Price:         domain.NewMoney(price),
		OriginalPrice: domain.NewMoney(original),
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
	}

	product.ID, err = s.products.InsertProduct(ctx, product)
	if err != nil {
		s.logger.Error("create product", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, product)
}

type upsertPickupRequest struct {
	LocationType string `json:"locationType"`
	StreetNumber string `json:"streetNumber"`
	StreetName   string `json:"streetName"`
	PlaceName    string `json:"placeName"`
	Notes        string `json:"notes"`
}

func (s *Server) handleUpsertPickup(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid store id")
		return
	}

	var req upsertPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}

	ctx := c.Request.Context()

	if _, err := s.stores.GetStore(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			errJSON(c, http.StatusNotFound, "store not found")
			return
		}
		s.logger.Error("get store", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	loc := domain.PickupLocation{
		StoreID:      storeID,
		LocationType: req.LocationType,
		StreetNumber: req.StreetNumber,
		StreetName:   req.StreetName,
		PlaceName:    req.PlaceName,
		Notes:        req.Notes,
	}

	if err := s.stores.UpsertPickupLocation(ctx, loc); err != nil {
		s.logger.Error("upsert pickup location", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, loc)
}

func (s *Server) handleListUsers(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 200 || offset < 0 {
		errJSON(c, http.StatusBadRequest, "invalid pagination")
		return
	}

	users, err := s.users.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list users", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, users)
}
