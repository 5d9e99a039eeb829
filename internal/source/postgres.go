package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/statdash/internal/core"
)

// Querier is the subset of pgxpool.Pool the loader needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// PostgresLoader reads a whole table or view from PostgreSQL.
type PostgresLoader struct {
	DB    Querier
	Table string // Optionally schema-qualified: "stats.player_season"
}

// Load selects every row of the table in its natural column order.
func (l PostgresLoader) Load(ctx context.Context) (core.Table, error) {
	ident := pgx.Identifier(strings.Split(l.Table, ".")).Sanitize()

	rows, err := l.DB.Query(ctx, "SELECT * FROM "+ident)
	if err != nil {
		return core.Table{}, fmt.Errorf("query %s: %w", l.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	data := [][]string{header}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return core.Table{}, fmt.Errorf("%s: read row %d: %w", l.Table, len(data), err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = FormatCell(v)
		}
		data = append(data, rec)
	}
	if err := rows.Err(); err != nil {
		return core.Table{}, fmt.Errorf("%s: %w", l.Table, err)
	}

	slog.Debug("postgres table read", "table", l.Table, "rows", len(data)-1)

	return buildTable(l.Table, data)
}
