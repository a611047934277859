package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/somah-market/backend/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := s.auth.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		errJSON(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}

	token, user, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		errJSON(c, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		s.logger.Error("login", "error", err)
		errJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
