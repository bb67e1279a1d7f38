package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"ecommerce-ingest/internal/config"
	"ecommerce-ingest/internal/db"
	"ecommerce-ingest/internal/env"
	"ecommerce-ingest/internal/generator"
)

type Flags struct {
	EventsPerBatch    int
	IntervalInMillis  int
	DurationInSeconds int
	InvalidRate       float64
	Seed              int
}

func parseFlags() Flags {
	var flags Flags

	flag.IntVar(&flags.EventsPerBatch, "events", 100, "Number of events per published batch")
	flag.IntVar(&flags.IntervalInMillis, "interval", 2000, "Milliseconds between batches")
	flag.IntVar(&flags.DurationInSeconds, "duration", 120, "Duration of the run in seconds, 0 for unbounded")
	flag.Float64Var(&flags.InvalidRate, "invalid-rate", 0.1, "Fraction of events with a record-level defect (0.0 - 1.0)")
	flag.IntVar(&flags.Seed, "seed", 0, "Faker seed, 0 for random")

	flag.Parse()

	if flags.InvalidRate < 0.0 || flags.InvalidRate > 1.0 {
		log.Fatal("Invalid rate must be between 0.0 and 1.0!")
	}

	return flags
}

func main() {
	godotenv.Load()
	flags := parseFlags()

	conn, err := db.Connect()
	if err != nil {
		log.Fatalf("Error while connecting to the database: %q", err)
	}
	defer conn.Close()

	table := env.GetEnvString("DB_TABLE", "ecommerce_events")
	if err := db.EnsureEventsTable(conn, table); err != nil {
		log.Fatalf("Error bootstrapping table %s: %v", table, err)
	}

	client, topic, err := config.SetupProducer()
	if err != nil {
		log.Fatalf("Error creating Kafka producer: %v", err)
	}
	defer client.Close()

	gen := generator.New(gofakeit.New(uint64(flags.Seed)))
	producer := generator.NewProducer(client, topic)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if flags.DurationInSeconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(flags.DurationInSeconds)*time.Second)
		defer cancel()
	}

	log.Printf("Producing %d events every %dms to %s (invalid rate %.2f)",
		flags.EventsPerBatch, flags.IntervalInMillis, topic, flags.InvalidRate)

	ticker := time.NewTicker(time.Duration(flags.IntervalInMillis) * time.Millisecond)
	defer ticker.Stop()

	published := 0
	for {
		events := gen.Batch(flags.EventsPerBatch, flags.InvalidRate, time.Now())
		if err := producer.PublishBatch(ctx, events); err != nil {
			log.Printf("Publish error: %v", err)
		} else {
			published += len(events)
		}

		select {
		case <-ctx.Done():
			log.Printf("Done, published %d events in total", published)
			return
		case <-ticker.C:
		}
	}
}
