package service

import (
	"context"
	"fmt"
	"time"

	"github.com/phambaophuc/krakenio-client/internal/models"
	"github.com/phambaophuc/krakenio-client/pkg/client"
	kraken "github.com/phambaophuc/krakenio-client/pkg/models"
	"go.uber.org/zap"
)

type DeliveryRepository interface {
	Save(ctx context.Context, delivery *models.StoredDelivery) error
	Get(ctx context.Context, id string) (*models.StoredDelivery, error)
	HealthCheck(ctx context.Context) string
}

type DeliveryPublisher interface {
	PublishDelivery(ctx context.Context, delivery *models.StoredDelivery) error
	HealthCheck() string
}

type ResultMirror interface {
	Mirror(ctx context.Context, jobID string, result *kraken.UploadResult) (string, error)
	HealthCheck(ctx context.Context) string
}

// CallbackService receives the deliveries the service posts to callback URLs.
// Publisher and mirror are optional.
type CallbackService struct {
	store     DeliveryRepository
	publisher DeliveryPublisher
	mirror    ResultMirror
	logger    *zap.Logger
	now       func() time.Time
}

func NewCallbackService(store DeliveryRepository, publisher DeliveryPublisher, mirror ResultMirror, logger *zap.Logger) *CallbackService {
	return &CallbackService{
		store:     store,
		publisher: publisher,
		mirror:    mirror,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleDelivery decodes and records a delivery. Only decode and store
// failures are returned; mirroring and publishing are best effort.
func (s *CallbackService) HandleDelivery(ctx context.Context, body []byte) (*models.StoredDelivery, error) {
	decoded, err := client.DecodeCallbackDelivery(body)
	if err != nil {
		return nil, err
	}

	delivery := &models.StoredDelivery{
		CallbackDelivery: *decoded,
		ReceivedAt:       s.now(),
	}

	if delivery.Succeeded() && s.mirror != nil {
		mirrorURL, err := s.mirror.Mirror(ctx, delivery.ID, delivery.Result)
		if err != nil {
			s.logger.Warn("Failed to mirror optimized image",
				zap.String("job_id", delivery.ID),
				zap.Error(err))
		} else {
			delivery.MirrorURL = mirrorURL
		}
	}

	if err := s.store.Save(ctx, delivery); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishDelivery(ctx, delivery); err != nil {
			s.logger.Warn("Failed to publish delivery",
				zap.String("job_id", delivery.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Callback delivery received",
		zap.String("job_id", delivery.ID),
		zap.Bool("success", delivery.Succeeded()))

	return delivery, nil
}

// GetDelivery returns nil, nil when nothing arrived for id.
func (s *CallbackService) GetDelivery(ctx context.Context, id string) (*models.StoredDelivery, error) {
	if id == "" {
		return nil, fmt.Errorf("job id is required")
	}
	return s.store.Get(ctx, id)
}

// HealthCheck reports every backend; unused ones are "not configured".
func (s *CallbackService) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{
		"redis":    s.store.HealthCheck(ctx),
		"rabbitmq": "not configured",
		"supabase": "not configured",
	}
	if s.publisher != nil {
		status["rabbitmq"] = s.publisher.HealthCheck()
	}
	if s.mirror != nil {
		status["supabase"] = s.mirror.HealthCheck(ctx)
	}
	return status
}
