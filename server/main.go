package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/krakenio-client/internal/config"
	"github.com/phambaophuc/krakenio-client/internal/http/handlers"
	"github.com/phambaophuc/krakenio-client/internal/http/routes"
	"github.com/phambaophuc/krakenio-client/internal/service"
	"github.com/phambaophuc/krakenio-client/pkg/client"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	krakenClient, err := client.New(cfg.Kraken.APIKey, cfg.Kraken.APISecret,
		client.WithBaseURL(cfg.Kraken.BaseURL),
		client.WithTimeout(cfg.Kraken.Timeout),
		client.WithLogger(logger.Named("kraken")),
	)
	if err != nil {
		logger.Fatal("Failed to initialize Kraken.io client", zap.Error(err))
	}

	// Initialize services
	store := service.NewDeliveryStore(cfg.Redis)
	defer store.Close()

	callbacks, queue := newCallbackService(cfg, store, logger)
	if queue != nil {
		defer queue.Close()
	}
	optimizer := service.NewOptimizerService(krakenClient, cfg.Kraken.CallbackURL, logger)

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(optimizer, callbacks, logger, cfg.Server.MaxUploadSize)

	router := routes.NewRouter(imageHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.Bool("callbacks", cfg.Kraken.CallbackURL != ""))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newCallbackService wires the optional backends. Interface values stay nil
// for the ones that are off so the service skips them. The queue is returned
// so main can close it; it is nil when publishing is off.
func newCallbackService(cfg *config.Config, store *service.DeliveryStore, logger *zap.Logger) (*service.CallbackService, *service.QueueService) {
	var publisher service.DeliveryPublisher
	var queue *service.QueueService
	if cfg.RabbitMQ.URL != "" {
		q, err := service.NewQueueService(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			// Continue without publishing, deliveries still land in Redis
			logger.Warn("Failed to initialize queue service", zap.Error(err))
		} else {
			queue = q
			publisher = q
		}
	}

	var mirror service.ResultMirror
	if cfg.Mirror.Enabled {
		mirror = service.NewStorageService(cfg)
	}

	return service.NewCallbackService(store, publisher, mirror, logger), queue
}
