// Package processor is the per-batch ingestion callback: enrich, validate,
// deduplicate, then hand the batch to the retry-wrapped idempotent sink and
// account the outcome. Batches arrive strictly sequentially; nothing here is
// concurrent.
package processor

import (
	"context"
	"log"
	"time"

	"ecommerce-ingest/internal/dedup"
	"ecommerce-ingest/internal/event"
	"ecommerce-ingest/internal/sink"
	"ecommerce-ingest/internal/stats"
	"ecommerce-ingest/internal/validate"
)

type Processor struct {
	sink        *sink.Sink
	retrier     *sink.Retrier
	stats       *stats.Aggregator
	ceiling     float64
	reportEvery int64
}

func New(s *sink.Sink, r *sink.Retrier, agg *stats.Aggregator, ceiling float64, reportEvery int) *Processor {
	if reportEvery <= 0 {
		reportEvery = 10
	}
	return &Processor{
		sink:        s,
		retrier:     r,
		stats:       agg,
		ceiling:     ceiling,
		reportEvery: int64(reportEvery),
	}
}

// HandleBatch processes one micro-batch to a terminal outcome: committed,
// rejected, or lost after exhausted retries. A failed batch leaves no rows in
// the target; the counters are the only record of the loss.
func (p *Processor) HandleBatch(ctx context.Context, batch event.Batch) {
	if len(batch.Records) == 0 {
		log.Printf("batch %d: no records to process", batch.ID)
		return
	}
	log.Printf("batch %d: processing %d records", batch.ID, len(batch.Records))

	enriched := event.EnrichBatch(batch.Records)

	res := validate.Batch(enriched, p.ceiling)
	if !res.Accepted {
		log.Printf("batch %d: rejected: %s", batch.ID, res.Reason)
		p.stats.RecordFailure(len(batch.Records))
		p.maybeReport()
		return
	}
	if res.Dropped > 0 {
		log.Printf("batch %d: dropped %d invalid records (null counts: %v)", batch.ID, res.Dropped, res.NullCounts)
		p.stats.RecordDropped(res.Dropped)
	}
	if res.Duplicates > 0 {
		log.Printf("batch %d: found %d duplicate event_ids", batch.ID, res.Duplicates)
	}

	deduped := dedup.ByEventID(res.Kept)
	if len(deduped) == 0 {
		log.Printf("batch %d: nothing left to persist after validation", batch.ID)
		p.maybeReport()
		return
	}

	toWrite := event.Batch{ID: batch.ID, Records: deduped}
	err := p.retrier.Run(ctx, batch.ID, func(ctx context.Context) error {
		return p.sink.Write(ctx, toWrite)
	})
	if err != nil {
		log.Printf("batch %d: lost after retries: %v", batch.ID, err)
		p.stats.RecordFailure(len(deduped))
	} else {
		log.Printf("batch %d: committed %d records (min=%.2f max=%.2f avg=%.2f)",
			batch.ID, len(deduped), res.Prices.Min, res.Prices.Max, res.Prices.Avg)
		p.stats.RecordSuccess(len(deduped))
	}

	p.maybeReport()
}

func (p *Processor) maybeReport() {
	if p.stats.Batches()%p.reportEvery != 0 {
		return
	}
	snap := p.stats.Snapshot()
	log.Printf("progress: batches ok=%d failed=%d, records ok=%d failed=%d, %.2f records/sec",
		snap.BatchesOK, snap.BatchesFailed, snap.RecordsOK, snap.RecordsFailed, snap.Throughput)
}

// Report logs the final summary. Called once on shutdown.
func (p *Processor) Report() {
	snap := p.stats.Snapshot()
	log.Printf("final: %d batches committed, %d failed, %d records committed, %d failed, elapsed %s, %.2f records/sec",
		snap.BatchesOK, snap.BatchesFailed, snap.RecordsOK, snap.RecordsFailed, snap.Elapsed.Truncate(time.Millisecond), snap.Throughput)
}
