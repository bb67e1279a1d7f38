package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ecommerce-ingest/internal/config"
	"ecommerce-ingest/internal/consumers"
	"ecommerce-ingest/internal/processor"
	"ecommerce-ingest/internal/sink"
	"ecommerce-ingest/internal/stats"
)

func main() {
	godotenv.Load()

	cfg, err := config.SetupConfig()
	if err != nil {
		log.Panicf("Could not setup configuration: %v", err)
	}
	defer cfg.Kafka.Close()
	defer cfg.Pg.Close()

	target, err := sink.ParseTable(cfg.Sink.TargetTable)
	if err != nil {
		log.Panicf("Invalid target table %q: %v", cfg.Sink.TargetTable, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := sink.NewPgStore(cfg.Pg)
	writer := sink.New(store, target)
	retrier := sink.NewRetrier(cfg.Sink.MaxAttempts, cfg.Sink.BaseDelay)
	agg := stats.NewAggregator()
	proc := processor.New(writer, retrier, agg, cfg.Sink.PriceCeiling, cfg.Sink.ReportEvery)

	log.Printf("Ingesting into %s (ceiling=%.2f, max attempts=%d)",
		target, cfg.Sink.PriceCeiling, cfg.Sink.MaxAttempts)

	consumer := consumers.NewBatchConsumer(cfg.Kafka)
	if err := consumer.Consume(ctx, proc.HandleBatch); err != nil && ctx.Err() == nil {
		log.Printf("Consumer error: %v", err)
	}

	log.Println("Shutting down gracefully")
	proc.Report()
}
