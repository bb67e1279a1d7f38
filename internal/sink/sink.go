// Package sink persists micro-batches into the target table exactly once per
// event_id, even though any individual attempt may partially apply and the
// upstream engine may redeliver a whole batch.
//
// The protocol is stage-then-merge: load the batch into a per-batch staging
// table created fresh for the attempt, then insert into the target every
// staged row whose event_id is not already there. Both steps are safe to
// redo, so no cross-statement transaction is needed.
package sink

import (
	"context"
	"fmt"
	"log"

	"ecommerce-ingest/internal/event"
)

// Store is the durable-store seam the sink needs. Implementations may fail
// mid-operation; the sink's protocol tolerates partial application of any
// single call.
type Store interface {
	// Reset drops any leftover staging table and recreates it empty with the
	// target's column layout.
	Reset(ctx context.Context, staging, target Table) error
	// Load bulk-inserts the records into the staging table.
	Load(ctx context.Context, staging Table, records []event.Event) (int64, error)
	// Merge inserts staged rows into the target, skipping event_ids that
	// already exist. Returns the number of rows actually inserted.
	Merge(ctx context.Context, staging, target Table) (int64, error)
	// Drop removes the staging table if it exists.
	Drop(ctx context.Context, staging Table) error
}

type Sink struct {
	store  Store
	target Table
}

func New(store Store, target Table) *Sink {
	return &Sink{store: store, target: target}
}

// Write runs one stage->merge->cleanup attempt for the batch. Any error from
// stage or merge is returned for the retry controller to handle; a cleanup
// failure is logged only, since an orphaned staging table is overwritten by
// the next attempt anyway.
func (s *Sink) Write(ctx context.Context, batch event.Batch) error {
	staging := s.target.Staging(batch.ID)

	if err := s.store.Reset(ctx, staging, s.target); err != nil {
		return fmt.Errorf("reset staging %s: %w", staging, err)
	}

	defer func() {
		if err := s.store.Drop(ctx, staging); err != nil {
			log.Printf("batch %d: dropping staging %s failed (will be overwritten next attempt): %v",
				batch.ID, staging, err)
		}
	}()

	staged, err := s.store.Load(ctx, staging, batch.Records)
	if err != nil {
		return fmt.Errorf("stage load into %s: %w", staging, err)
	}

	merged, err := s.store.Merge(ctx, staging, s.target)
	if err != nil {
		return fmt.Errorf("merge %s into %s: %w", staging, s.target, err)
	}

	if merged < staged {
		log.Printf("batch %d: %d of %d rows already present in %s", batch.ID, staged-merged, staged, s.target)
	}
	return nil
}

func (s *Sink) Target() Table {
	return s.target
}
