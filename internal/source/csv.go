package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/statdash/internal/core"
)

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 1000

// CSVLoader reads a delimited text export.
type CSVLoader struct {
	Path  string
	Comma rune // Field delimiter, ',' when zero
}

// Load reads the whole file into a table.
func (l CSVLoader) Load(ctx context.Context) (core.Table, error) {
	name := tableName(l.Path)

	f, err := os.Open(l.Path)
	if err != nil {
		return core.Table{}, fmt.Errorf("open %s: %w", l.Path, err)
	}
	defer f.Close()

	counter := core.WrapForLoading(f)
	rows, err := readCSV(ctx, name, counter, l.Comma)
	if err != nil {
		return core.Table{}, err
	}

	slog.Debug("csv table read",
		"table", name,
		"bytes", counter.BytesRead,
		"rows", len(rows),
	)

	return buildTable(name, rows)
}

func readCSV(ctx context.Context, name string, r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if comma != 0 {
		cr.Comma = comma
	}

	var rows [][]string
	for {
		if len(rows)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", name, core.ErrMalformedTable, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
