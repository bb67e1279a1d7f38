package dedup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ecommerce-ingest/internal/dedup"
	"ecommerce-ingest/internal/event"
)

func TestByEventID_FirstOccurrenceWins(t *testing.T) {
	first := 10.0
	second := 99.0
	records := []event.Event{
		{EventID: "a", Price: &first},
		{EventID: "b"},
		{EventID: "a", Price: &second},
	}

	out := dedup.ByEventID(records)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].EventID)
	require.Equal(t, "b", out[1].EventID)
	require.Equal(t, 10.0, *out[0].Price)
}

func TestByEventID_NoDuplicates(t *testing.T) {
	records := []event.Event{{EventID: "a"}, {EventID: "b"}, {EventID: "c"}}
	out := dedup.ByEventID(records)
	require.Equal(t, records, out)
}

func TestByEventID_Empty(t *testing.T) {
	require.Empty(t, dedup.ByEventID(nil))
}
