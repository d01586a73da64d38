package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brand-suitability/backend/internal/store"
)

const userContextKey = "user"

// authMiddleware resolves the caller from X-API-Key. Requests without a
// key fall back to the provisioned dev user so local setups work out of
// the box; a present but unknown key is rejected.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if apiKey == "" {
			c.Set(userContextKey, s.devUser)
			c.Next()
			return
		}
		user, err := s.db.FindUserByAPIKey(apiKey)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "invalid API key"
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusInternalServerError
				msg = "user lookup failed"
			}
			c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *store.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*store.User)
	return user
}
