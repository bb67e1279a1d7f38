package sink

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Table is a structurally validated, optionally schema-qualified table name.
// Building names through this type is what keeps the dynamic staging-table
// SQL free of identifier injection.
type Table struct {
	Schema string
	Name   string
}

// ParseTable accepts "name" or "schema.name"; the schema defaults to public.
func ParseTable(s string) (Table, error) {
	schema, name := "public", s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		schema, name = s[:i], s[i+1:]
	}
	if !identPattern.MatchString(schema) {
		return Table{}, fmt.Errorf("invalid schema identifier %q", schema)
	}
	if !identPattern.MatchString(name) {
		return Table{}, fmt.Errorf("invalid table identifier %q", name)
	}
	return Table{Schema: schema, Name: name}, nil
}

// Staging returns the per-batch staging table for this target. Redelivery of
// a batch reuses the same id, so the name is stable across attempts and a
// leftover table from a failed cleanup is simply overwritten.
func (t Table) Staging(batchID int64) Table {
	return Table{Schema: t.Schema, Name: fmt.Sprintf("%s_staging_%d", t.Name, batchID)}
}

func (t Table) String() string {
	return t.Schema + "." + t.Name
}

// Sanitized returns the quoted identifier for use in SQL text.
func (t Table) Sanitized() string {
	return t.Identifier().Sanitize()
}

func (t Table) Identifier() pgx.Identifier {
	return pgx.Identifier{t.Schema, t.Name}
}
