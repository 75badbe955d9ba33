package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/krakenio-client/internal/http/handlers"
	"github.com/phambaophuc/krakenio-client/internal/http/middleware"
	"go.uber.org/zap"
)

const healthPath = "/api/v1/health"

type Router struct {
	imageHandler *handlers.ImageHandler
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger, healthPath))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.imageHandler.HealthCheck)

		optimize := v1.Group("/optimize")
		{
			optimize.POST("", middleware.RequireContentType("application/json"), r.imageHandler.OptimizeURL)
			optimize.POST("/upload", middleware.RequireContentType("multipart/form-data"), r.imageHandler.OptimizeUpload)
		}

		callbacks := v1.Group("/callbacks")
		{
			callbacks.POST("", r.imageHandler.ReceiveCallback)
			callbacks.GET("/:id", r.imageHandler.GetCallback)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Kraken.io client is running",
		})
	})

	return router
}
