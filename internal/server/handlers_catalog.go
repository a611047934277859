package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/repository"
)

func (s *Server) handleListStores(c *gin.Context) {
	stores, err := s.stores.ListStores(c.Request.Context())
	if err != nil {
		s.logger.Error("list stores", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (s *Server) handleGetStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid store id")
		return
	}

	store, err := s.stores.GetStore(c.Request.Context(), storeID)
	switch {
	case errors.Is(err, repository.ErrStoreNotFound):
		errJSON(c, http.StatusNotFound, "store not found")
		return
	case err != nil:
		s.logger.Error("get store", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, store)
}

func (s *Server) handleListStoreProducts(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid store id")
		return
	}

	products, err := s.products.ListStoreProducts(c.Request.Context(), storeID)
	if err != nil {
		s.logger.Error("list store products", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, products)
}

// handleListProducts serves the public catalog page behind a short TTL cache.
func (s *Server) handleListProducts(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 200 || offset < 0 {
		errJSON(c, http.StatusBadRequest, "invalid pagination")
		return
	}

	key := fmt.Sprintf("products:%d:%d", limit, offset)
	if products, ok := s.catalog.Get(key); ok {
		c.JSON(http.StatusOK, products)
		return
	}

	products, err := s.products.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list products", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	s.catalog.Set(key, products)
	c.JSON(http.StatusOK, products)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := s.products.GetProduct(c.Request.Context(), productID)
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		errJSON(c, http.StatusNotFound, "product not found")
		return
	case err != nil:
		s.logger.Error("get product", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, product)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
