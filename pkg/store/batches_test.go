package store

import (
	"context"
	"fmt"
	"testing"
)

func TestRecordBatchAndList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := s.RecordBatch(ctx, BatchRecord{
			BatchID:      fmt.Sprintf("batch-%d", i),
			Owner:        "alice",
			URLCount:     10,
			SuccessCount: 8,
			FailedCount:  2,
		})
		if err != nil {
			t.Fatalf("RecordBatch() failed: %v", err)
		}
	}
	if err := s.RecordBatch(ctx, BatchRecord{BatchID: "other", Owner: "bob", URLCount: 1, SuccessCount: 1}); err != nil {
		t.Fatalf("RecordBatch() failed: %v", err)
	}

	batches, err := s.ListBatches(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("ListBatches() failed: %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("ListBatches() returned %d batches, want 3", len(batches))
	}

	// Newest first.
	if batches[0].BatchID != "batch-2" {
		t.Errorf("first batch = %q, want %q", batches[0].BatchID, "batch-2")
	}
	if batches[0].URLCount != 10 || batches[0].SuccessCount != 8 || batches[0].FailedCount != 2 {
		t.Errorf("batch counts = %d/%d/%d, want 10/8/2",
			batches[0].URLCount, batches[0].SuccessCount, batches[0].FailedCount)
	}
	if batches[0].CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	limited, err := s.ListBatches(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("ListBatches() with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListBatches(limit=2) returned %d batches, want 2", len(limited))
	}
}
