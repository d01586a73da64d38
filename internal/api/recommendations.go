package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"brand-suitability/backend/internal/store"
)

// handleTrackRecommendation records that the user is acting on one of the
// suggested text replacements from an analysis.
func (s *Server) handleTrackRecommendation(c *gin.Context) {
	var req TrackRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON payload"})
		return
	}
	if strings.TrimSpace(req.AnalysisID) == "" || strings.TrimSpace(req.OriginalText) == "" || strings.TrimSpace(req.SuggestedText) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "analysis_id, original_text and suggested_text are required"})
		return
	}

	user := currentUser(c)
	if _, err := s.db.FindAnalysis(req.AnalysisID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "analysis not found"})
			return
		}
		logrus.WithError(err).Error("load analysis for tracking")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to track recommendation"})
		return
	}

	row := &store.RecommendationTracking{
		AnalysisID:          req.AnalysisID,
		UserID:              user.ID,
		PostID:              req.PostID,
		RecommendationIndex: req.RecommendationIndex,
		OriginalText:        req.OriginalText,
		SuggestedText:       req.SuggestedText,
	}
	if err := s.db.TrackRecommendation(row); err != nil {
		logrus.WithError(err).Error("track recommendation")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to track recommendation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": FromTrackingModel(*row)})
}

// handleListRecommendations returns the user's tracked recommendations.
func (s *Server) handleListRecommendations(c *gin.Context) {
	user := currentUser(c)
	var implemented *bool
	if raw := c.Query("implemented"); raw != "" {
		value := raw == "true" || raw == "1"
		implemented = &value
	}

	rows, err := s.db.ListRecommendations(user.ID, c.Query("analysis_id"), implemented)
	if err != nil {
		logrus.WithError(err).Error("list recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to retrieve recommendations"})
		return
	}
	items := make([]RecommendationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromTrackingModel(row))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// handleMarkImplemented stamps a tracked recommendation as applied.
func (s *Server) handleMarkImplemented(c *gin.Context) {
	user := currentUser(c)
	row, err := s.db.MarkRecommendationImplemented(c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "recommendation not found"})
			return
		}
		logrus.WithError(err).Error("mark recommendation implemented")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update recommendation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": FromTrackingModel(*row)})
}

// handleRecommendationFeedback stores a 1-5 rating with optional comment.
func (s *Server) handleRecommendationFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON payload"})
		return
	}

	user := currentUser(c)
	row, err := s.db.SaveRecommendationFeedback(c.Param("id"), user.ID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "recommendation not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": FromTrackingModel(*row)})
}
