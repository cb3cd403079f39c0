package storage

import (
	"context"
	"io"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/models"
)

// ExecutionCache defines the interface for caching execution telemetry
type ExecutionCache interface {
	// AddRecentExecution adds an execution to the recent list
	AddRecentExecution(ctx context.Context, ev *models.ExecutionEvent) error

	// GetRecentExecutions retrieves the most recent executions
	GetRecentExecutions(ctx context.Context, limit int64) ([]*models.ExecutionEvent, error)

	// PublishExecution publishes an execution event to the Pub/Sub channel
	PublishExecution(ctx context.Context, ev *models.ExecutionEvent) error

	// Ping checks if the cache is reachable
	Ping(ctx context.Context) error

	// Close closes the cache connection
	io.Closer
}

// ExecutionStore defines the interface for durable execution storage
type ExecutionStore interface {
	// InsertExecution inserts an execution event into the store
	InsertExecution(ctx context.Context, ev *models.ExecutionEvent) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}
