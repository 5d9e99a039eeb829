package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/statdash/internal/core"
)

// OpenSQLite opens a SQLite database file and verifies it can be read.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// SQLiteLoader reads a whole table or view from a SQLite database.
type SQLiteLoader struct {
	DB    *sql.DB
	Table string
}

// Load selects every row of the table in its natural column order.
func (l SQLiteLoader) Load(ctx context.Context) (core.Table, error) {
	rows, err := l.DB.QueryContext(ctx, "SELECT * FROM "+quoteIdent(l.Table))
	if err != nil {
		return core.Table{}, fmt.Errorf("query %s: %w", l.Table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return core.Table{}, fmt.Errorf("%s: columns: %w", l.Table, err)
	}

	vals := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	data := [][]string{header}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
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

	slog.Debug("sqlite table read", "table", l.Table, "rows", len(data)-1)

	return buildTable(l.Table, data)
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
