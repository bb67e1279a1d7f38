package event_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecommerce-ingest/internal/event"
)

func TestParse_FullRecord(t *testing.T) {
	raw := []byte(`{
		"event_id": "evt-1",
		"event_type": "purchase",
		"product_id": 42,
		"product_name": "Gaming Laptop",
		"category": "Electronics",
		"brand": "Acme",
		"sku": "ELE-0042",
		"price": 1299.99,
		"customer_id": "cust-1",
		"customer_email": "jane@example.com",
		"customer_name": "Jane Doe",
		"customer_address": "1 Main St",
		"session_id": "sess-1",
		"user_agent": "Mozilla/5.0 (iPhone)",
		"ip_address": "10.0.0.1",
		"event_timestamp": "2024-06-01T12:00:00Z"
	}`)

	ev, err := event.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "evt-1", ev.EventID)
	require.NotNil(t, ev.ProductID)
	require.Equal(t, int32(42), *ev.ProductID)
	require.NotNil(t, ev.Price)
	require.Equal(t, 1299.99, *ev.Price)
	require.NotNil(t, ev.EventTimestamp)
	require.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), ev.EventTimestamp.UTC())
}

func TestParse_MissingOptionalFieldsStayNil(t *testing.T) {
	ev, err := event.Parse([]byte(`{"event_id":"evt-2","event_type":"view"}`))
	require.NoError(t, err)
	require.Nil(t, ev.ProductID)
	require.Nil(t, ev.Price)
	require.Nil(t, ev.UserAgent)
	require.Nil(t, ev.EventTimestamp)
}

func TestParse_Malformed(t *testing.T) {
	_, err := event.Parse([]byte(`{"event_id":`))
	require.Error(t, err)
}

func TestRow_MatchesColumnOrder(t *testing.T) {
	cols := event.Columns()
	row := event.Event{}.Row()
	require.Len(t, row, len(cols))
	require.Equal(t, "event_id", cols[0])
	require.Equal(t, "event_timestamp", cols[len(cols)-1])
}
