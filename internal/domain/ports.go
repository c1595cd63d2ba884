package domain

import (
	"context"
	"time"
)

// MenuSource returns the decoded upstream document for a location and date.
type MenuSource interface {
	FetchMenu(ctx context.Context, locationID, date string) (any, error)
}

// MissLogger records failed upstream fetches for later diagnosis.
type MissLogger interface {
	LogMiss(ctx context.Context, locationID, date string, status int, reason string) error
}

// MissReader lists recorded misses, newest first.
type MissReader interface {
	Recent(ctx context.Context, limit int) ([]Miss, error)
}

// Miss is one recorded upstream failure.
type Miss struct {
	LocationID string    `json:"locationId"`
	Date       string    `json:"date"`
	Status     int       `json:"status,omitempty"` // 0 for transport failures
	Reason     string    `json:"reason"`
	Hits       int       `json:"hits"`
	SeenAt     time.Time `json:"seenAt"`
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
