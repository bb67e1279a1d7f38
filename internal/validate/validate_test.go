package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecommerce-ingest/internal/event"
	"ecommerce-ingest/internal/validate"
)

const ceiling = 10000

func validEvent(id string, price float64) event.Event {
	pid := int32(1)
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return event.Event{
		EventID:        id,
		EventType:      "purchase",
		ProductID:      &pid,
		ProductName:    "Gaming Laptop",
		Category:       "Electronics",
		Price:          &price,
		CustomerEmail:  "jane@example.com",
		EventTimestamp: &ts,
	}
}

func TestBatch_AcceptsHealthyBatch(t *testing.T) {
	res := validate.Batch([]event.Event{
		validEvent("a", 10),
		validEvent("b", 20),
		validEvent("c", 30),
	}, ceiling)

	require.True(t, res.Accepted)
	require.Len(t, res.Kept, 3)
	require.Zero(t, res.Dropped)
	require.Zero(t, res.Duplicates)
	require.Equal(t, 10.0, res.Prices.Min)
	require.Equal(t, 30.0, res.Prices.Max)
	require.Equal(t, 20.0, res.Prices.Avg)
	require.Equal(t, 3, res.Prices.Count)
}

func TestBatch_RejectsMissingColumns(t *testing.T) {
	// event_id absent from every record: the column never arrived.
	records := []event.Event{
		validEvent("", 10),
		validEvent("", 20),
	}
	for i := range records {
		records[i].EventID = ""
	}

	res := validate.Batch(records, ceiling)
	require.False(t, res.Accepted)
	require.Contains(t, res.Reason, "missing columns")
	require.Contains(t, res.Reason, "event_id")
}

func TestBatch_PriceAtCeilingAccepted(t *testing.T) {
	res := validate.Batch([]event.Event{validEvent("a", ceiling)}, ceiling)
	require.True(t, res.Accepted)
	require.Len(t, res.Kept, 1)
}

func TestBatch_PriceAboveCeilingRejectsBatch(t *testing.T) {
	res := validate.Batch([]event.Event{
		validEvent("a", 10),
		validEvent("b", ceiling+1),
	}, ceiling)

	require.False(t, res.Accepted)
	require.Contains(t, res.Reason, "ceiling")
	require.Empty(t, res.Kept)
}

func TestBatch_NegativePriceRejectsBatch(t *testing.T) {
	res := validate.Batch([]event.Event{
		validEvent("a", 10),
		validEvent("b", -5),
	}, ceiling)

	require.False(t, res.Accepted)
	require.Contains(t, res.Reason, "negative min price")
}

func TestBatch_ZeroPriceDropsRecordOnly(t *testing.T) {
	res := validate.Batch([]event.Event{
		validEvent("a", 10),
		validEvent("b", 0),
	}, ceiling)

	require.True(t, res.Accepted)
	require.Len(t, res.Kept, 1)
	require.Equal(t, "a", res.Kept[0].EventID)
	require.Equal(t, 1, res.Dropped)
}

func TestBatch_NullPriceDropsRecordAndCounts(t *testing.T) {
	noPrice := validEvent("b", 0)
	noPrice.Price = nil

	res := validate.Batch([]event.Event{validEvent("a", 10), noPrice}, ceiling)
	require.True(t, res.Accepted)
	require.Len(t, res.Kept, 1)
	require.Equal(t, 1, res.Dropped)
	require.Equal(t, 1, res.NullCounts["price"])
}

func TestBatch_BadEmailDropsRecord(t *testing.T) {
	bad := validEvent("b", 10)
	bad.CustomerEmail = "not-an-email"

	res := validate.Batch([]event.Event{validEvent("a", 10), bad}, ceiling)
	require.True(t, res.Accepted)
	require.Len(t, res.Kept, 1)
	require.Equal(t, 1, res.Dropped)
}

func TestBatch_DuplicatesCountedNotRejected(t *testing.T) {
	res := validate.Batch([]event.Event{
		validEvent("a", 10),
		validEvent("a", 15),
		validEvent("b", 20),
	}, ceiling)

	require.True(t, res.Accepted)
	require.Equal(t, 1, res.Duplicates)
	require.Len(t, res.Kept, 3)
}

func TestBatch_RejectedBatchStillCarriesCounts(t *testing.T) {
	noPrice := validEvent("a", 0)
	noPrice.Price = nil

	res := validate.Batch([]event.Event{
		noPrice,
		validEvent("b", 10),
		validEvent("b", 20),
		validEvent("c", ceiling+1),
	}, ceiling)

	require.False(t, res.Accepted)
	require.Contains(t, res.Reason, "ceiling")
	require.Equal(t, 1, res.NullCounts["price"])
	require.Equal(t, 1, res.Duplicates)
}

func TestBatch_AllPricesNullRejects(t *testing.T) {
	a := validEvent("a", 0)
	a.Price = nil
	b := validEvent("b", 0)
	b.Price = nil

	res := validate.Batch([]event.Event{a, b}, ceiling)
	require.False(t, res.Accepted)
	require.Contains(t, res.Reason, "missing columns")
	require.Contains(t, res.Reason, "price")
}

func TestBatch_PriceStatsSkipNullPrices(t *testing.T) {
	a := validEvent("a", 10)
	b := validEvent("b", 0)
	b.Price = nil

	res := validate.Batch([]event.Event{a, b}, ceiling)
	require.True(t, res.Accepted)
	require.Equal(t, 1, res.Prices.Count)
	require.Equal(t, 10.0, res.Prices.Min)
	require.Equal(t, 10.0, res.Prices.Max)
}
