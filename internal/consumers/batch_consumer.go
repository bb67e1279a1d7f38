// Package consumers adapts the Kafka poll loop into the micro-batch handler:
// each fetched partition chunk becomes one batch, identified by its first
// record offset so a redelivered chunk carries the same batch id.
package consumers

import (
	"context"
	"log"

	"github.com/twmb/franz-go/pkg/kgo"

	"ecommerce-ingest/internal/event"
)

type BatchConsumer struct {
	client *kgo.Client
}

func NewBatchConsumer(client *kgo.Client) *BatchConsumer {
	return &BatchConsumer{client: client}
}

// Consume polls until the context is cancelled or the client is closed,
// invoking handle once per partition chunk. Batches are handed over strictly
// sequentially; handle owns the batch to a terminal outcome before the next
// poll.
func (c *BatchConsumer) Consume(ctx context.Context, handle func(context.Context, event.Batch)) error {
	log.Println("[Kafka] Listening for ecommerce events...")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			log.Printf("fetch error on %s/%d: %v", topic, partition, err)
		})

		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			batch, ok := c.toBatch(p)
			if !ok {
				return
			}
			handle(ctx, batch)
		})
	}
}

func (c *BatchConsumer) toBatch(p kgo.FetchTopicPartition) (event.Batch, bool) {
	if len(p.Records) == 0 {
		return event.Batch{}, false
	}

	batch := event.Batch{ID: p.Records[0].Offset}
	for _, record := range p.Records {
		ev, err := event.Parse(record.Value)
		if err != nil {
			log.Printf("skipping malformed record at %s/%d offset %d: %v",
				record.Topic, record.Partition, record.Offset, err)
			continue
		}
		batch.Records = append(batch.Records, ev)
	}
	return batch, len(batch.Records) > 0
}
