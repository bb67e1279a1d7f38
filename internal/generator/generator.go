// Package generator produces synthetic ecommerce events for exercising the
// ingestion pipeline, including a configurable fraction of corrupt records so
// the validator and deduplicator have something to reject.
package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"ecommerce-ingest/internal/event"
)

type Product struct {
	ID       int32
	Name     string
	Category string
	Brand    string
	SKU      string
	MinPrice float64
	MaxPrice float64
}

type category struct {
	name     string
	minPrice float64
	maxPrice float64
	items    []string
}

var catalog = []category{
	{"Electronics", 15, 2500, []string{"Laptop", "Smartphone", "Headphones", "Monitor", "Keyboard", "Webcam", "Tablet", "Smartwatch", "Speaker", "Router"}},
	{"Clothing", 5, 250, []string{"T-Shirt", "Jeans", "Hoodie", "Sneakers", "Jacket", "Dress", "Cap", "Scarf", "Socks", "Belt"}},
	{"Home & Garden", 8, 800, []string{"Desk Lamp", "Coffee Maker", "Blender", "Vacuum Cleaner", "Garden Hose", "Plant Pot", "Cushion", "Curtains", "Toolbox", "Grill"}},
	{"Books", 5, 60, []string{"Novel", "Cookbook", "Biography", "Atlas", "Poetry Collection", "Textbook", "Comic Book", "Travel Guide", "Dictionary", "Journal"}},
	{"Sports", 10, 600, []string{"Running Shoes", "Yoga Mat", "Dumbbell Set", "Tennis Racket", "Bicycle Helmet", "Football", "Swim Goggles", "Climbing Rope", "Ski Gloves", "Backpack"}},
}

type Generator struct {
	faker    *gofakeit.Faker
	products []Product
}

func New(faker *gofakeit.Faker) *Generator {
	g := &Generator{faker: faker}
	g.products = g.buildProducts()
	return g
}

func (g *Generator) Products() []Product {
	return g.products
}

func (g *Generator) buildProducts() []Product {
	var products []Product
	id := int32(1)
	for _, cat := range catalog {
		prefix := strings.ToUpper(cat.name[:3])
		for _, item := range cat.items {
			products = append(products, Product{
				ID:       id,
				Name:     fmt.Sprintf("%s %s", g.faker.Company(), item),
				Category: cat.name,
				Brand:    g.faker.Company(),
				SKU:      fmt.Sprintf("%s-%04d", prefix, id),
				MinPrice: cat.minPrice,
				MaxPrice: cat.maxPrice,
			})
			id++
		}
	}
	return products
}

var eventTypes = []string{
	string(event.EventView), string(event.EventView), string(event.EventView),
	string(event.EventClick), string(event.EventClick),
	string(event.EventCart),
	string(event.EventWishlist),
	string(event.EventOrder),
	string(event.EventPurchase),
}

// Event builds one well-formed event from a random catalog product.
func (g *Generator) Event(now time.Time) event.Event {
	product := g.products[g.faker.Number(0, len(g.products)-1)]

	productID := product.ID
	price := g.faker.Price(product.MinPrice, product.MaxPrice)
	ua := g.faker.UserAgent()
	ts := now.UTC()

	ev := event.Event{
		EventID:         uuid.NewString(),
		EventType:       g.faker.RandomString(eventTypes),
		ProductID:       &productID,
		ProductName:     product.Name,
		Category:        product.Category,
		Brand:           product.Brand,
		SKU:             product.SKU,
		Price:           &price,
		CustomerID:      uuid.NewString(),
		CustomerEmail:   g.faker.Email(),
		CustomerName:    g.faker.Name(),
		CustomerAddress: g.faker.Address().Address,
		SessionID:       uuid.NewString(),
		UserAgent:       &ua,
		IPAddress:       g.faker.IPv4Address(),
		EventTimestamp:  &ts,
	}

	return ev
}

// Batch builds n events where roughly invalidRate of them carry a
// record-level defect. Corruptions never make a whole batch invalid; every
// critical field stays present in at least one record.
func (g *Generator) Batch(n int, invalidRate float64, now time.Time) []event.Event {
	events := make([]event.Event, 0, n)
	for i := 0; i < n; i++ {
		ev := g.Event(now)
		if i > 0 && g.faker.Float64Range(0, 1) < invalidRate {
			g.corrupt(&ev, events[i-1].EventID)
		}
		events = append(events, ev)
	}
	return events
}

func (g *Generator) corrupt(ev *event.Event, prevEventID string) {
	switch g.faker.Number(0, 4) {
	case 0:
		ev.Price = nil
	case 1:
		ev.EventTimestamp = nil
	case 2:
		ev.CustomerEmail = "not-an-email"
	case 3:
		bad := int32(-g.faker.Number(1, 100))
		ev.ProductID = &bad
	case 4:
		// Duplicate of the previous event id; dedup keeps the earlier one.
		ev.EventID = prevEventID
	}
}
