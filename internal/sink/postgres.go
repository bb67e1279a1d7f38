package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecommerce-ingest/internal/event"
)

// PgStore implements Store on a pgx connection pool. Every call is a single
// autocommitted statement (or COPY); the stage-then-merge protocol does not
// need a transaction spanning them.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Reset(ctx context.Context, staging, target Table) error {
	if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS "+staging.Sanitized()); err != nil {
		return fmt.Errorf("drop stale staging table: %w", err)
	}

	create := fmt.Sprintf("CREATE TABLE %s (LIKE %s INCLUDING DEFAULTS)", staging.Sanitized(), target.Sanitized())
	if _, err := s.pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}
	return nil
}

func (s *PgStore) Load(ctx context.Context, staging Table, records []event.Event) (int64, error) {
	rows := make([][]any, 0, len(records))
	for _, ev := range records {
		rows = append(rows, ev.Row())
	}

	n, err := s.pool.CopyFrom(ctx, staging.Identifier(), event.Columns(), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into staging: %w", err)
	}
	return n, nil
}

func (s *PgStore) Merge(ctx context.Context, staging, target Table) (int64, error) {
	cols := quotedColumns()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (event_id) DO NOTHING",
		target.Sanitized(), cols, cols, staging.Sanitized(),
	)

	tag, err := s.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("conflict-ignore insert: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PgStore) Drop(ctx context.Context, staging Table) error {
	if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS "+staging.Sanitized()); err != nil {
		return fmt.Errorf("drop staging table: %w", err)
	}
	return nil
}

func quotedColumns() string {
	cols := event.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
