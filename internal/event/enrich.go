package event

import "strings"

// Price category thresholds.
const (
	priceLowMax    = 50
	priceMediumMax = 200
)

const (
	PriceUnknown = "Unknown"
	PriceInvalid = "Invalid"
	PriceLow     = "Low"
	PriceMedium  = "Medium"
	PriceHigh    = "High"
)

const (
	DeviceUnknown = "Unknown"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
)

// Enrich normalizes text fields and computes the derived classification
// fields. Pure, no I/O, never fails: malformed input classifies as
// Unknown/Invalid, rejection is the validator's job.
func Enrich(ev Event) Event {
	ev.Category = strings.TrimSpace(ev.Category)
	ev.Brand = strings.TrimSpace(ev.Brand)
	ev.ProductName = strings.TrimSpace(ev.ProductName)
	ev.CustomerName = strings.TrimSpace(ev.CustomerName)
	ev.SKU = strings.TrimSpace(ev.SKU)
	ev.CustomerEmail = strings.ToLower(strings.TrimSpace(ev.CustomerEmail))
	ev.EventType = strings.ToLower(strings.TrimSpace(ev.EventType))

	ev.PriceCategory = priceCategory(ev.Price)
	ev.DeviceType = deviceType(ev.UserAgent)
	return ev
}

// EnrichBatch returns an equally-sized batch with every record enriched.
func EnrichBatch(records []Event) []Event {
	out := make([]Event, len(records))
	for i, ev := range records {
		out[i] = Enrich(ev)
	}
	return out
}

func priceCategory(price *float64) string {
	switch {
	case price == nil:
		return PriceUnknown
	case *price < 0:
		return PriceInvalid
	case *price < priceLowMax:
		return PriceLow
	case *price < priceMediumMax:
		return PriceMedium
	default:
		return PriceHigh
	}
}

// deviceType checks user agent markers in a fixed order so that agents
// carrying several markers classify deterministically.
func deviceType(userAgent *string) string {
	if userAgent == nil {
		return DeviceUnknown
	}
	ua := *userAgent
	switch {
	case strings.Contains(ua, "Mobile"):
		return DeviceMobile
	case strings.Contains(ua, "Tablet"), strings.Contains(ua, "iPad"):
		return DeviceTablet
	case strings.Contains(ua, "Android"), strings.Contains(ua, "iPhone"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}
