package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/videoforge/videoforge/internal/config"
	"github.com/videoforge/videoforge/internal/database"
	"github.com/videoforge/videoforge/internal/jobs"
	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/middleware"
	"github.com/videoforge/videoforge/internal/queue"
	"github.com/videoforge/videoforge/internal/recipe"
	"github.com/videoforge/videoforge/internal/storage"
	"github.com/videoforge/videoforge/internal/tracing"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer("videoforge-api", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Warnf("tracing disabled: %v", err)
		} else {
			defer closer.Close()
		}
	}

	store, dbClose, err := openStore(cfg, log)
	if err != nil {
		log.Fatalf("failed to open job store: %v", err)
	}
	defer dbClose()

	stor, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	q, err := queue.New(cfg.Queue)
	if err != nil {
		log.Fatalf("failed to connect to queue: %v", err)
	}
	defer q.Close()

	api := &API{
		store:    store,
		queue:    q,
		storage:  stor,
		registry: recipe.NewRegistry(),
		log:      log,
	}

	router := setupRouter(api, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server stopped")
}

// openStore connects the Postgres job store, or an in-memory one when no
// database is configured.
func openStore(cfg *config.Config, log *logging.Logger) (jobs.Store, func(), error) {
	if cfg.Database.Host == "" {
		log.Warn("no database configured, using in-memory job store")
		return jobs.NewMemoryStore(), func() {}, nil
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return database.NewRepository(db), db.Close, nil
}

func setupRouter(api *API, log *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))

	limiter := middleware.NewRateLimiter(10, 20)
	go limiter.Cleanup()

	router.GET("/health", api.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter))
	{
		v1.POST("/generate", api.generate)
		v1.GET("/status/:id", api.status)
		v1.GET("/download/:id", api.download)
		v1.GET("/jobs", api.listJobs)
		v1.POST("/jobs/:id/retry", api.retryJob)
		v1.GET("/recipes", api.listRecipes)
	}

	return router
}
