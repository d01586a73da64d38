package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// handleCurrentUser returns the authenticated caller's profile and usage.
func (s *Server) handleCurrentUser(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": FromUserModel(*user)})
}

// handleRegenerateAPIKey rotates the caller's API key. The new key is
// returned once in the response; it is never exposed on the profile.
func (s *Server) handleRegenerateAPIKey(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
		return
	}
	updated, err := s.db.RegenerateAPIKey(user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("regenerate api key")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to regenerate API key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"api_key": updated.APIKey}})
}
