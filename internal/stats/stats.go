// Package stats tracks running ingestion counters for periodic and final
// reporting. The aggregator is owned by whoever drives batch processing and
// mutated only from that single goroutine; it never affects control flow.
package stats

import "time"

type Aggregator struct {
	batchesOK     int64
	batchesFailed int64
	recordsOK     int64
	recordsFailed int64
	start         time.Time

	now func() time.Time
}

type Snapshot struct {
	BatchesOK     int64
	BatchesFailed int64
	RecordsOK     int64
	RecordsFailed int64
	Elapsed       time.Duration
	Throughput    float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{start: time.Now().UTC(), now: time.Now}
}

// RecordSuccess accounts one committed batch of n records.
func (a *Aggregator) RecordSuccess(n int) {
	a.batchesOK++
	a.recordsOK += int64(n)
}

// RecordFailure accounts one lost batch of n records.
func (a *Aggregator) RecordFailure(n int) {
	a.batchesFailed++
	a.recordsFailed += int64(n)
}

// RecordDropped accounts n records dropped by record-level validation from a
// batch that otherwise continued.
func (a *Aggregator) RecordDropped(n int) {
	a.recordsFailed += int64(n)
}

// Batches returns the total number of terminally processed batches.
func (a *Aggregator) Batches() int64 {
	return a.batchesOK + a.batchesFailed
}

func (a *Aggregator) Snapshot() Snapshot {
	elapsed := a.now().UTC().Sub(a.start)
	seconds := elapsed.Seconds()
	if seconds < 1 {
		seconds = 1
	}
	return Snapshot{
		BatchesOK:     a.batchesOK,
		BatchesFailed: a.batchesFailed,
		RecordsOK:     a.recordsOK,
		RecordsFailed: a.recordsFailed,
		Elapsed:       elapsed,
		Throughput:    float64(a.recordsOK) / seconds,
	}
}
