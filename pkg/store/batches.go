package store

import (
	"context"
	"fmt"
	"time"
)

// BatchRecord is the bookkeeping row written when a bulk import drains.
type BatchRecord struct {
	BatchID      string
	Owner        string
	URLCount     int
	SuccessCount int
	FailedCount  int
	CreatedAt    time.Time
}

// RecordBatch stores the final tallies for a finished batch.
func (s *Store) RecordBatch(ctx context.Context, rec BatchRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (batch_id, owner, url_count, success_count, failed_count)
		VALUES (?, ?, ?, ?, ?)
	`, rec.BatchID, rec.Owner, rec.URLCount, rec.SuccessCount, rec.FailedCount)
	if err != nil {
		return fmt.Errorf("failed to record batch: %w", err)
	}
	return nil
}

// ListBatches returns the owner's most recent batches, newest first.
func (s *Store) ListBatches(ctx context.Context, owner string, limit int) ([]BatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, owner, url_count, success_count, failed_count, created_at
		FROM batches
		WHERE owner = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var records []BatchRecord
	for rows.Next() {
		var rec BatchRecord
		if err := rows.Scan(&rec.BatchID, &rec.Owner, &rec.URLCount, &rec.SuccessCount, &rec.FailedCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
