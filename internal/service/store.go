package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/krakenio-client/internal/config"
	"github.com/phambaophuc/krakenio-client/internal/models"
	"github.com/redis/go-redis/v9"
)

const deliveryKeyPrefix = "kraken:callback:"

// DeliveryStore keeps received callback deliveries in Redis so clients can
// poll for the outcome of a job by its id.
type DeliveryStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewDeliveryStore(cfg config.RedisConfig) *DeliveryStore {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &DeliveryStore{
		redisClient: redisClient,
		ttl:         cfg.DeliveryTTL,
	}
}

func deliveryKey(id string) string {
	return deliveryKeyPrefix + id
}

// Save stores the delivery under its job id, replacing an earlier one.
func (s *DeliveryStore) Save(ctx context.Context, delivery *models.StoredDelivery) error {
	data, err := encodeDelivery(delivery)
	if err != nil {
		return err
	}

	if err := s.redisClient.Set(ctx, deliveryKey(delivery.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store delivery: %w", err)
	}
	return nil
}

// Get returns the delivery for id, or nil when none arrived (or it expired).
func (s *DeliveryStore) Get(ctx context.Context, id string) (*models.StoredDelivery, error) {
	data, err := s.redisClient.Get(ctx, deliveryKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // not delivered yet
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return decodeDelivery(data)
}

func encodeDelivery(delivery *models.StoredDelivery) ([]byte, error) {
	data, err := json.Marshal(delivery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal delivery: %w", err)
	}
	return data, nil
}

func decodeDelivery(data []byte) (*models.StoredDelivery, error) {
	var delivery models.StoredDelivery
	if err := json.Unmarshal(data, &delivery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal delivery: %w", err)
	}
	return &delivery, nil
}

func (s *DeliveryStore) HealthCheck(ctx context.Context) string {
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func (s *DeliveryStore) Close() error {
	return s.redisClient.Close()
}
