package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/somah-market/backend/internal/domain"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			errJSON(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, role, err := s.auth.Verify(token)
		if err != nil {
			errJSON(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ctxRole); role != domain.RoleAdmin {
			errJSON(c, http.StatusForbidden, "admin only")
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(uuid.UUID)
	return id
}

func currentRole(c *gin.Context) domain.UserRole {
	v, _ := c.Get(ctxRole)
	role, _ := v.(domain.UserRole)
	return role
}
