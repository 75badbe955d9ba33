package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/krakenio-client/internal/models"
	kraken "github.com/phambaophuc/krakenio-client/pkg/models"
	"go.uber.org/zap"
)

const (
	imageParamKey   = "image"
	payloadParamKey = "payload"
	maxCallbackBody = 1 << 20
)

type Optimizer interface {
	OptimizeURL(ctx context.Context, req *models.OptimizeRequest) (*models.OptimizeResult, error)
	OptimizeUpload(ctx context.Context, image io.Reader, req *models.OptimizeRequest) (*models.OptimizeResult, error)
}

type CallbackReceiver interface {
	HandleDelivery(ctx context.Context, body []byte) (*models.StoredDelivery, error)
	GetDelivery(ctx context.Context, id string) (*models.StoredDelivery, error)
	HealthCheck(ctx context.Context) map[string]string
}

type ImageHandler struct {
	optimizer Optimizer
	callbacks CallbackReceiver
	logger    *zap.Logger
	maxUpload int64
}

func NewImageHandler(
	optimizer Optimizer,
	callbacks CallbackReceiver,
	logger *zap.Logger,
	maxUpload int64,
) *ImageHandler {
	return &ImageHandler{
		optimizer: optimizer,
		callbacks: callbacks,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondKrakenError maps client errors onto HTTP answers: bad input is the
// caller's fault, anything the remote service did is a bad gateway.
func (h *ImageHandler) respondKrakenError(c *gin.Context, err error) {
	if kraken.IsValidation(err) {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if failed, ok := kraken.AsRequestFailed(err); ok {
		h.logger.Warn("Kraken.io rejected request",
			zap.Int("status", failed.Status),
			zap.String("message", failed.Message))
		h.respondError(c, http.StatusBadGateway, failed.Message)
		return
	}

	h.logger.Error("Kraken.io request failed", zap.Error(err))
	h.respondError(c, http.StatusBadGateway, "Kraken.io request failed")
}

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
