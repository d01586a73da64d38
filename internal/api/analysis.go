package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"brand-suitability/backend/internal/engine"
	"brand-suitability/backend/internal/store"
)

const (
	analyzeMaxRetries     = 2
	analyzeInitialBackoff = 500 * time.Millisecond
)

// handleAnalyze classifies submitted content and persists the record.
// Transient deep-analyzer failures are retried here because retry policy
// belongs to the caller of the engine, not the engine itself.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON payload"})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title and content are required"})
		return
	}

	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
		return
	}

	in := engine.Input{Title: req.Title, Content: req.Content, Excerpt: req.Excerpt}

	var out engine.Outcome
	backoff := retry.WithMaxRetries(analyzeMaxRetries, retry.NewFibonacci(analyzeInitialBackoff))
	err := retry.Do(c.Request.Context(), backoff, func(ctx context.Context) error {
		attemptCtx, cancel := s.classifyContext(ctx)
		defer cancel()
		var classifyErr error
		out, classifyErr = s.engine.Classify(attemptCtx, in, user.TierValue())
		if classifyErr != nil && engine.Retryable(classifyErr) {
			logrus.WithError(classifyErr).Warn("transient classification failure, retrying")
			return retry.RetryableError(classifyErr)
		}
		return classifyErr
	})
	if err != nil {
		status, msg := classifyErrorResponse(err)
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}

	// Cached outcomes still get their own row so recommendation tracking
	// has an analysis id to point at, but they don't count against the
	// monthly usage counter.
	row := store.NewAnalysis(user.ID, req.PostID, req.PostURL, out.Record)
	if err := s.db.SaveAnalysis(row); err != nil {
		logrus.WithError(err).Error("persist analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to persist analysis"})
		return
	}
	if !out.Cached {
		if err := s.db.IncrementAnalysisCount(user.ID); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("increment usage counter")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cached":  out.Cached,
		"data":    FromRecord(row.ID, out.Record),
	})
}

func classifyErrorResponse(err error) (int, string) {
	kind, ok := engine.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, "classification failed"
	}
	switch kind {
	case engine.KindInvalidInput:
		return http.StatusBadRequest, "Title and content are required"
	case engine.KindAnalyzerDisabled:
		return http.StatusServiceUnavailable, "deep analysis is not available"
	case engine.KindAnalyzerTimeout:
		return http.StatusGatewayTimeout, "deep analysis timed out"
	default:
		return http.StatusBadGateway, "deep analysis failed"
	}
}

// handleGetAnalysis returns one persisted analysis scoped to its owner.
func (s *Server) handleGetAnalysis(c *gin.Context) {
	user := currentUser(c)
	row, err := s.db.FindAnalysis(c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "analysis not found"})
			return
		}
		logrus.WithError(err).Error("load analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to retrieve analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": FromModel(*row)})
}

// handleListAnalyses returns the user's history page.
func (s *Server) handleListAnalyses(c *gin.Context) {
	user := currentUser(c)
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	riskLevel := c.Query("risk_level")

	rows, total, err := s.db.ListAnalyses(user.ID, riskLevel, limit, offset)
	if err != nil {
		logrus.WithError(err).Error("list analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to retrieve analyses"})
		return
	}
	items := make([]AnalysisDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    AnalysesResponse{Items: items, Total: total, Limit: limit, Offset: offset},
	})
}

// handleAnalysisStats aggregates the user's history.
func (s *Server) handleAnalysisStats(c *gin.Context) {
	user := currentUser(c)
	stats, err := s.db.AnalysisStats(user.ID)
	if err != nil {
		logrus.WithError(err).Error("analysis stats")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
