package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brand-suitability/backend/internal/ai"
	"brand-suitability/backend/internal/cache"
	"brand-suitability/backend/internal/engine"
	"brand-suitability/backend/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	AllowedOrigins []string
	SilentDB       bool
	AIConfig       ai.Config
	DisableAI      bool
	CacheOptions   *cache.Options
	CacheTTL       time.Duration
	AITimeout      time.Duration
	DevUserEmail   string
	DevUserTier    string

	// Analyzer and Cache override the config-built collaborators; used by
	// tests to inject fakes.
	Analyzer ai.Analyzer
	Cache    cache.Cache
}

// Server wires HTTP handlers with the classification engine and store.
type Server struct {
	db             *store.Database
	engine         *engine.Engine
	allowedOrigins []string
	aiTimeout      time.Duration
	aiEnabled      bool
	cacheEnabled   bool
	modelVersion   string
	devUser        *store.User
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	analyzer := cfg.Analyzer
	if analyzer == nil && !cfg.DisableAI {
		client, err := ai.NewClient(cfg.AIConfig)
		switch {
		case err == nil:
			analyzer = client
		case errors.Is(err, ai.ErrDisabled):
			logrus.Info("deep analyzer disabled - no API key configured")
		default:
			return nil, fmt.Errorf("analyzer client: %w", err)
		}
	}
	if cfg.DisableAI {
		logrus.Info("deep analyzer disabled via configuration")
	}

	resultCache := cfg.Cache
	if resultCache == nil && cfg.CacheOptions != nil {
		resultCache = cache.NewRedis(*cfg.CacheOptions)
		logrus.WithField("address", cfg.CacheOptions.Address).Info("analysis cache enabled")
	}
	if resultCache == nil {
		logrus.Info("analysis cache disabled")
	}

	var engineOpts []engine.Option
	if cfg.CacheTTL > 0 {
		engineOpts = append(engineOpts, engine.WithCacheTTL(cfg.CacheTTL))
	}

	aiTimeout := cfg.AITimeout
	if aiTimeout <= 0 {
		aiTimeout = 90 * time.Second
	}

	devEmail := cfg.DevUserEmail
	if devEmail == "" {
		devEmail = "dev@localhost"
	}
	devTier := cfg.DevUserTier
	if devTier == "" {
		devTier = "free"
	}
	devUser, err := db.EnsureUser(devEmail, devTier)
	if err != nil {
		return nil, fmt.Errorf("ensure dev user: %w", err)
	}

	server := &Server{
		db:             db,
		engine:         engine.New(analyzer, resultCache, engineOpts...),
		allowedOrigins: cfg.AllowedOrigins,
		aiTimeout:      aiTimeout,
		aiEnabled:      analyzer != nil && analyzer.Enabled(),
		cacheEnabled:   resultCache != nil,
		modelVersion:   cfg.AIConfig.Model,
		devUser:        devUser,
	}
	return server, nil
}

// Close releases server resources.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	v1 := r.Group("/api/v1")
	v1.Use(s.authMiddleware())
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.GET("/analyze", s.handleListAnalyses)
		v1.GET("/analyze/stats", s.handleAnalysisStats)
		v1.GET("/analyze/:id", s.handleGetAnalysis)

		v1.POST("/recommendations/track", s.handleTrackRecommendation)
		v1.GET("/recommendations", s.handleListRecommendations)
		v1.POST("/recommendations/:id/implemented", s.handleMarkImplemented)
		v1.POST("/recommendations/:id/feedback", s.handleRecommendationFeedback)

		v1.GET("/user/me", s.handleCurrentUser)
		v1.POST("/user/regenerate-key", s.handleRegenerateAPIKey)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(200, gin.H{
		"ai_enabled":    s.aiEnabled,
		"cache_enabled": s.cacheEnabled,
		"model_version": s.modelVersion,
		"tiers":         []string{"free", "pro", "enterprise"},
	})
}

// classifyContext bounds the engine call; the deep analyzer honors this
// deadline, everything else in the pipeline is fast and local.
func (s *Server) classifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.aiTimeout)
}
