package event

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventView     EventType = "view"
	EventOrder    EventType = "order"
	EventCart     EventType = "cart"
	EventClick    EventType = "click"
	EventPurchase EventType = "purchase"
	EventWishlist EventType = "add_to_wishlist"
)

// Event is one user-facing action on a product. Fields that can legitimately
// be absent in raw input are pointers; the validator decides which absences
// drop a record. PriceCategory and DeviceType are derived, set only by Enrich.
type Event struct {
	EventID         string     `json:"event_id"`
	EventType       string     `json:"event_type"`
	ProductID       *int32     `json:"product_id"`
	ProductName     string     `json:"product_name"`
	Category        string     `json:"category"`
	Brand           string     `json:"brand"`
	SKU             string     `json:"sku"`
	Price           *float64   `json:"price"`
	CustomerID      string     `json:"customer_id"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address"`
	SessionID       string     `json:"session_id"`
	UserAgent       *string    `json:"user_agent"`
	IPAddress       string     `json:"ip_address"`
	EventTimestamp  *time.Time `json:"event_timestamp"`
	PriceCategory   string     `json:"price_category,omitempty"`
	DeviceType      string     `json:"device_type,omitempty"`
}

// Batch is the unit of validation, deduplication and retry. ID is assigned by
// the upstream engine; it may repeat when a batch is redelivered after a
// failure, which the sink relies on for stable staging-table names.
type Batch struct {
	ID      int64
	Records []Event
}

func Parse(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return ev, nil
}

// Columns is the target/staging column order shared with the sink. created_at
// is deliberately absent: the target table fills it by default on merge.
func Columns() []string {
	return []string{
		"event_id",
		"event_type",
		"product_id",
		"product_name",
		"category",
		"brand",
		"sku",
		"price",
		"customer_id",
		"customer_email",
		"customer_name",
		"customer_address",
		"session_id",
		"user_agent",
		"ip_address",
		"price_category",
		"device_type",
		"event_timestamp",
	}
}

// Row returns the event's values in Columns() order.
func (e Event) Row() []any {
	return []any{
		e.EventID,
		e.EventType,
		e.ProductID,
		e.ProductName,
		e.Category,
		e.Brand,
		e.SKU,
		e.Price,
		e.CustomerID,
		e.CustomerEmail,
		e.CustomerName,
		e.CustomerAddress,
		e.SessionID,
		e.UserAgent,
		e.IPAddress,
		e.PriceCategory,
		e.DeviceType,
		e.EventTimestamp,
	}
}
