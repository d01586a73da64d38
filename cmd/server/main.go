package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"brand-suitability/backend/internal/ai"
	"brand-suitability/backend/internal/api"
	"brand-suitability/backend/internal/cache"
)

func main() {
	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.Fatalf("create data directory: %v", err)
	}

	aiCfg := ai.Config{
		APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		Model:   os.Getenv("ANTHROPIC_MODEL"),
		BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
	}
	if temp := os.Getenv("ANTHROPIC_TEMPERATURE"); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			aiCfg.Temperature = v
		}
	}
	if maxTokens := os.Getenv("ANTHROPIC_MAX_TOKENS"); maxTokens != "" {
		if v, err := strconv.Atoi(maxTokens); err == nil {
			aiCfg.MaxTokens = v
		}
	}
	if timeout := os.Getenv("ANTHROPIC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			aiCfg.Timeout = d
		}
	}

	var cacheOpts *cache.Options
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		opts := cache.DefaultOptions()
		opts.Address = addr
		opts.Password = os.Getenv("REDIS_PASSWORD")
		if db := strings.TrimSpace(os.Getenv("REDIS_DB")); db != "" {
			if v, err := strconv.Atoi(db); err == nil {
				opts.DB = v
			}
		}
		cacheOpts = &opts
	}

	var cacheTTL time.Duration
	if ttl := os.Getenv("ANALYSIS_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cacheTTL = d
		}
	}
	var aiTimeout time.Duration
	if timeout := os.Getenv("AI_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			aiTimeout = d
		}
	}

	var allowedOrigins []string
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	disableAI := strings.EqualFold(strings.TrimSpace(os.Getenv("DISABLE_AI")), "true")

	cfg := api.Config{
		DBPath:         filepath.Join(dataDir, "brand-suitability.db"),
		AllowedOrigins: allowedOrigins,
		AIConfig:       aiCfg,
		DisableAI:      disableAI,
		CacheOptions:   cacheOpts,
		CacheTTL:       cacheTTL,
		AITimeout:      aiTimeout,
		DevUserEmail:   os.Getenv("DEV_USER_EMAIL"),
		DevUserTier:    os.Getenv("DEV_USER_TIER"),
	}

	if override := strings.TrimSpace(os.Getenv("BRAND_SUITABILITY_DB_PATH")); override != "" {
		cfg.DBPath = override
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	defer server.Close()

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "2000"
	}

	logrus.Infof("starting brand-suitability backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
