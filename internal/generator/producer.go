package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"ecommerce-ingest/internal/event"
)

type Producer struct {
	client *kgo.Client
	topic  string
}

func NewProducer(client *kgo.Client, topic string) *Producer {
	return &Producer{client: client, topic: topic}
}

// PublishBatch sends all events in one synchronous produce so a whole batch
// lands on the broker or the error is surfaced for the caller to retry.
func (p *Producer) PublishBatch(ctx context.Context, events []event.Event) error {
	records := make([]*kgo.Record, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("Kafka publish: marshal error: %v", err)
		}
		records = append(records, &kgo.Record{
			Topic:     p.topic,
			Key:       []byte(ev.EventID),
			Value:     data,
			Timestamp: time.Now(),
		})
	}

	err := p.client.ProduceSync(ctx, records...).FirstErr()
	if err != nil {
		return fmt.Errorf("Kafka publish error: %v", err)
	}

	log.Printf("Published %d events to topic %s", len(records), p.topic)
	return nil
}
