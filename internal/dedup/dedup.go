// Package dedup removes duplicate logical keys inside a single batch. True
// idempotency lives at the storage layer; this pass only keeps the batch
// internally consistent and the staging load small.
package dedup

import "ecommerce-ingest/internal/event"

// ByEventID keeps the first occurrence of each event_id in arrival order.
func ByEventID(records []event.Event) []event.Event {
	seen := make(map[string]struct{}, len(records))
	out := make([]event.Event, 0, len(records))
	for _, ev := range records {
		if _, ok := seen[ev.EventID]; ok {
			continue
		}
		seen[ev.EventID] = struct{}{}
		out = append(out, ev)
	}
	return out
}
