package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/phambaophuc/krakenio-client/internal/models"
	kraken "github.com/phambaophuc/krakenio-client/pkg/models"
	"go.uber.org/zap"
)

// OptimizeURL submits a remote image by URL.
func (h *ImageHandler) OptimizeURL(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.URL == "" {
		h.respondError(c, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.optimizer.OptimizeURL(c.Request.Context(), &req)
	if err != nil {
		h.respondKrakenError(c, err)
		return
	}

	h.respondResult(c, result)
}

// OptimizeUpload submits the uploaded "image" file. Options come as JSON in
// the optional "payload" form field.
func (h *ImageHandler) OptimizeUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, _, err := c.Request.FormFile(imageParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	req, err := h.parsePayload(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.optimizer.OptimizeUpload(c.Request.Context(), file, req)
	if err != nil {
		h.respondKrakenError(c, err)
		return
	}

	h.respondResult(c, result)
}

// ReceiveCallback is the target of callback_url. Malformed deliveries get a
// 400; everything else is acknowledged so the service stops retrying.
func (h *ImageHandler) ReceiveCallback(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "Failed to read body")
		return
	}

	delivery, err := h.callbacks.HandleDelivery(c.Request.Context(), body)
	if err != nil {
		if kraken.IsProtocol(err) {
			h.logger.Warn("Malformed callback delivery", zap.Error(err))
			h.respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to handle callback delivery", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to store delivery")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    delivery,
	})
}

// GetCallback returns the delivery stored for a job id.
func (h *ImageHandler) GetCallback(c *gin.Context) {
	delivery, err := h.callbacks.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to load delivery", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to load delivery")
		return
	}
	if delivery == nil {
		h.respondError(c, http.StatusNotFound, "No delivery for this job yet")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    delivery,
	})
}

// HealthCheck
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := h.callbacks.HealthCheck(c.Request.Context())
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func (h *ImageHandler) parsePayload(c *gin.Context) (*models.OptimizeRequest, error) {
	var req models.OptimizeRequest

	jsonStr := c.PostForm(payloadParamKey)
	if jsonStr == "" {
		return &req, nil
	}

	if err := json.Unmarshal([]byte(jsonStr), &req); err != nil {
		return nil, fmt.Errorf("invalid payload: %v", err)
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("invalid payload: %v", err)
	}

	return &req, nil
}

func (h *ImageHandler) respondResult(c *gin.Context, result *models.OptimizeResult) {
	statusCode := http.StatusOK
	if result.Ack != nil {
		statusCode = http.StatusAccepted
	}

	c.JSON(statusCode, models.APIResponse{
		Success: true,
		Data:    result,
	})
}
