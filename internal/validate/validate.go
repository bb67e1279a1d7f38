// Package validate decides whether an enriched batch is healthy enough to
// persist. Outcomes are structured results, never errors: a rejection is a
// local decision, not a failure to propagate.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"ecommerce-ingest/internal/event"
)

// Critical fields checked for column presence and per-record nullness.
var criticalFields = []string{"event_id", "event_type", "product_id", "price", "event_timestamp"}

type PriceStats struct {
	Min   float64
	Max   float64
	Avg   float64
	Count int
}

// Result carries the accept/reject decision plus the observability counters,
// populated on both outcomes as far as the short-circuit allowed.
type Result struct {
	Accepted   bool
	Reason     string
	Kept       []event.Event
	Dropped    int
	NullCounts map[string]int
	Duplicates int
	Prices     PriceStats
}

// Batch runs the quality checks in order, short-circuiting on structural
// failure. ceiling is the configured maximum plausible price; a price exactly
// at the ceiling passes, one above rejects the batch.
func Batch(records []event.Event, ceiling float64) Result {
	res := Result{NullCounts: make(map[string]int)}

	if missing := missingColumns(records); len(missing) > 0 {
		res.Reason = fmt.Sprintf("missing columns: %s", strings.Join(missing, ", "))
		return res
	}

	// Observability counts over the whole batch, populated whether or not the
	// price checks reject it.
	for _, ev := range records {
		for _, f := range nullCriticals(ev) {
			res.NullCounts[f]++
		}
	}
	res.Duplicates = duplicateCount(records)

	// Price extrema over the whole batch, before record-level drops: a single
	// negative price marks the batch corrupt, not just the record.
	stats, ok := priceStats(records)
	res.Prices = stats
	switch {
	case !ok:
		res.Reason = "price aggregation yielded no rows"
		return res
	case stats.Min < 0:
		res.Reason = fmt.Sprintf("negative min price: %.2f", stats.Min)
		return res
	case stats.Max > ceiling:
		res.Reason = fmt.Sprintf("max price %.2f exceeds ceiling %.2f", stats.Max, ceiling)
		return res
	}

	res.Kept = make([]event.Event, 0, len(records))
	for _, ev := range records {
		if len(nullCriticals(ev)) > 0 || !retainable(ev) {
			res.Dropped++
			continue
		}
		res.Kept = append(res.Kept, ev)
	}

	res.Accepted = true
	return res
}

// missingColumns reports critical fields absent from every record.
func missingColumns(records []event.Event) []string {
	if len(records) == 0 {
		return nil
	}

	missing := make(map[string]bool, len(criticalFields))
	for _, f := range criticalFields {
		missing[f] = true
	}

	for _, ev := range records {
		if ev.EventID != "" {
			missing["event_id"] = false
		}
		if ev.EventType != "" {
			missing["event_type"] = false
		}
		if ev.ProductID != nil {
			missing["product_id"] = false
		}
		if ev.Price != nil {
			missing["price"] = false
		}
		if ev.EventTimestamp != nil {
			missing["event_timestamp"] = false
		}
	}

	var out []string
	for f, m := range missing {
		if m {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func nullCriticals(ev event.Event) []string {
	var nulls []string
	if ev.EventID == "" {
		nulls = append(nulls, "event_id")
	}
	if ev.ProductID == nil {
		nulls = append(nulls, "product_id")
	}
	if ev.Price == nil {
		nulls = append(nulls, "price")
	}
	if ev.EventTimestamp == nil {
		nulls = append(nulls, "event_timestamp")
	}
	return nulls
}

// retainable applies the record-level range and format checks. Callers must
// have checked nullness first.
func retainable(ev event.Event) bool {
	if ev.EventType == "" {
		return false
	}
	if *ev.ProductID <= 0 {
		return false
	}
	if *ev.Price <= 0 {
		return false
	}
	if ev.ProductName == "" || ev.Category == "" {
		return false
	}
	if !strings.Contains(ev.CustomerEmail, "@") || !strings.Contains(ev.CustomerEmail, ".") {
		return false
	}
	return true
}

func priceStats(records []event.Event) (PriceStats, bool) {
	var stats PriceStats
	var sum float64
	for _, ev := range records {
		if ev.Price == nil {
			continue
		}
		p := *ev.Price
		if stats.Count == 0 || p < stats.Min {
			stats.Min = p
		}
		if stats.Count == 0 || p > stats.Max {
			stats.Max = p
		}
		sum += p
		stats.Count++
	}
	if stats.Count == 0 {
		return stats, false
	}
	stats.Avg = sum / float64(stats.Count)
	return stats, true
}

func duplicateCount(records []event.Event) int {
	seen := make(map[string]struct{}, len(records))
	dups := 0
	for _, ev := range records {
		if _, ok := seen[ev.EventID]; ok {
			dups++
			continue
		}
		seen[ev.EventID] = struct{}{}
	}
	return dups
}
