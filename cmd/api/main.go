package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chrisostomemataba/Kemomovies/internal/analytics"
	"github.com/chrisostomemataba/Kemomovies/internal/cache"
	"github.com/chrisostomemataba/Kemomovies/internal/config"
	"github.com/chrisostomemataba/Kemomovies/internal/database"
	"github.com/chrisostomemataba/Kemomovies/internal/logging"
	"github.com/chrisostomemataba/Kemomovies/internal/metrics"
	"github.com/chrisostomemataba/Kemomovies/internal/middleware"
	"github.com/chrisostomemataba/Kemomovies/internal/storage"
	"github.com/chrisostomemataba/Kemomovies/internal/streaming"
	"github.com/chrisostomemataba/Kemomovies/internal/telemetry"
	"github.com/chrisostomemataba/Kemomovies/internal/tracing"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger, err := logging.NewDefaultLogger()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	if cfg.Telemetry.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Telemetry.ServiceName, cfg.Telemetry.JaegerEndpoint)
		if err != nil {
			logger.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	redisCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	queue, err := telemetry.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer queue.Close()

	api := &API{
		streams:   streaming.NewService(repo, store, redisCache, cfg.Player.SourceCacheTTL),
		analytics: analytics.NewService(repo, log.Logger),
		queue:     queue,
		db:        db,
		cache:     redisCache,
		cfg:       cfg,
		logger:    logger,
	}

	router := setupRouter(api)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	metricsSrv := metrics.NewServer(cfg.Metrics.Port)
	go func() {
		if err := metricsSrv.Start(); err != nil {
			logger.ErrorWithErr("Metrics server failed", err)
		}
	}()

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		logger.ErrorWithErr("Metrics server shutdown failed", err)
	}

	logger.Info("Server stopped")
}

func setupRouter(api *API) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log.Logger))

	rl := middleware.NewRateLimiter(50, 100)
	router.Use(middleware.RateLimit(rl))

	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")
	{
		// Playback sources
		v1.GET("/movies/:id/streams", middleware.OptionalJWTAuth(), api.getStreamSources)
		v1.GET("/movies/:id/subtitles", api.getSubtitles)

		// Per-user watch state
		v1.GET("/users/:userID/resume/:movieID", middleware.JWTAuth(), api.getResumePosition)
		v1.POST("/users/:userID/progress", middleware.JWTAuth(), api.saveProgress)

		// Session telemetry
		v1.POST("/analytics/sessions", middleware.OptionalJWTAuth(), api.submitSessionReport)
		v1.GET("/analytics/sessions/:sessionID", middleware.JWTAuth(), api.getSessionReport)
		v1.GET("/movies/:id/analytics", middleware.JWTAuth(), api.getMovieAnalytics)
	}

	return router
}
