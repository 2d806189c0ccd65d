package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lumastack/lumastack.com/internal/analytics"
)

// AppendEventBatch parks an undeliverable analytics batch for later replay.
func (s *Store) AppendEventBatch(ctx context.Context, payload []byte, queuedAt time.Time) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(payload) == 0 {
		return fmt.Errorf("batch payload is required")
	}
	if queuedAt.IsZero() {
		queuedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO event_spool (payload_json, queued_at, attempts) VALUES (?, ?, 0)`,
		payload,
		timeToUnixMillis(queuedAt),
	)
	if err != nil {
		return fmt.Errorf("append event batch: %w", err)
	}
	return nil
}

// ListEventBatches returns the oldest spooled batches, up to limit.
func (s *Store) ListEventBatches(ctx context.Context, limit int) ([]analytics.SpooledBatch, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, payload_json, queued_at, attempts
		 FROM event_spool
		 ORDER BY id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list event batches: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var batches []analytics.SpooledBatch
	for rows.Next() {
		var batch analytics.SpooledBatch
		var queuedAt int64
		if err := rows.Scan(&batch.ID, &batch.Payload, &queuedAt, &batch.Attempts); err != nil {
			return nil, fmt.Errorf("scan event batch: %w", err)
		}
		batch.QueuedAt = unixMillisToTime(queuedAt)
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event batches: %w", err)
	}
	return batches, nil
}

// BumpEventBatchAttempts increments the replay attempt counter for a batch.
func (s *Store) BumpEventBatchAttempts(ctx context.Context, id int64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE event_spool SET attempts = attempts + 1 WHERE id = ?`,
		id,
	); err != nil {
		return fmt.Errorf("bump event batch attempts: %w", err)
	}
	return nil
}

// DeleteEventBatch removes a spooled batch after delivery or abandonment.
func (s *Store) DeleteEventBatch(ctx context.Context, id int64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM event_spool WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event batch: %w", err)
	}
	return nil
}
