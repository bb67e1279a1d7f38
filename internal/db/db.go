// Package db owns the generator-side Postgres connection and the target table
// bootstrap. The ingestion service itself never creates the target table; it
// expects the table to exist before the first merge.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"ecommerce-ingest/internal/env"
	"ecommerce-ingest/internal/sink"
)

func Connect() (*sql.DB, error) {
	conStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		env.GetEnvString("DB_USER", "postgres"),
		env.GetEnvString("DB_PASSWORD", "postgres"),
		env.GetEnvString("DB_HOST", "localhost"),
		env.GetEnvString("DB_PORT", "5432"),
		env.GetEnvString("DB_NAME", "ecommerce_db"),
	)

	db, err := sql.Open("postgres", conStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureEventsTable creates the target table and its secondary indexes when
// they do not exist yet. event_id is the primary key the idempotent merge
// relies on. The name goes through the same identifier validation as the
// sink's staging SQL.
func EnsureEventsTable(db *sql.DB, table string) error {
	tbl, err := sink.ParseTable(table)
	if err != nil {
		return fmt.Errorf("events table name: %w", err)
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			event_id VARCHAR(100) PRIMARY KEY,
			event_type VARCHAR(50),
			product_id INTEGER,
			product_name TEXT,
			category VARCHAR(100),
			brand VARCHAR(100),
			sku VARCHAR(50),
			price DECIMAL(10,2),
			customer_id VARCHAR(100),
			customer_email VARCHAR(255),
			customer_name VARCHAR(255),
			customer_address TEXT,
			session_id VARCHAR(100),
			user_agent TEXT,
			ip_address VARCHAR(45),
			price_category VARCHAR(20),
			device_type VARCHAR(20),
			event_timestamp TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_event_type ON %[1]s(event_type);
		CREATE INDEX IF NOT EXISTS idx_product_id ON %[1]s(product_id);
		CREATE INDEX IF NOT EXISTS idx_category ON %[1]s(category);
		CREATE INDEX IF NOT EXISTS idx_customer_id ON %[1]s(customer_id);
		CREATE INDEX IF NOT EXISTS idx_event_timestamp ON %[1]s(event_timestamp);
		CREATE INDEX IF NOT EXISTS idx_created_at ON %[1]s(created_at);
	`, tbl.Sanitized())

	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}
