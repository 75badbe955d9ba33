package models

import (
	"time"

	kraken "github.com/phambaophuc/krakenio-client/pkg/models"
)

// StoredDelivery is a received callback as kept in Redis and published to
// the queue.
type StoredDelivery struct {
	kraken.CallbackDelivery
	MirrorURL  string    `json:"mirror_url,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}
