package analytics

import (
	"context"
	"time"
)

// Batches that keep failing delivery are dropped after this many attempts.
const maxSpoolAttempts = 10

// SpooledBatch is one undelivered event batch parked in local storage.
type SpooledBatch struct {
	ID       int64
	Payload  []byte
	QueuedAt time.Time
	Attempts int
}

// SpoolStore persists event batches that could not be delivered so they
// survive restarts and outages. Replay happens before new batches on each
// flush.
type SpoolStore interface {
	AppendEventBatch(ctx context.Context, payload []byte, queuedAt time.Time) error
	ListEventBatches(ctx context.Context, limit int) ([]SpooledBatch, error)
	BumpEventBatchAttempts(ctx context.Context, id int64) error
	DeleteEventBatch(ctx context.Context, id int64) error
}
