// Package source reads the season and player tables from their backing store.
//
// Every loader produces a core.Table of raw string cells. Typing and
// validation happen in core.NewStore, so loaders only normalize shape:
// the first row is the header, fully empty rows are dropped and short
// records are padded to the header width.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/statdash/internal/core"
)

var (
	// ErrSheetNotFound is returned when a workbook has no sheet with the requested name.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrUnsupportedFormat is returned by FileLoader for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Loader reads one table.
type Loader interface {
	Load(ctx context.Context) (core.Table, error)
}

// FileLoader picks a loader from the file extension. sheet is ignored for CSV.
func FileLoader(path, sheet string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return CSVLoader{Path: path}, nil
	case ".xlsx", ".xlsm":
		return XLSXLoader{Path: path, Sheet: sheet}, nil
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// Pair holds the loaders for the two tables the dashboard needs.
type Pair struct {
	Season Loader
	Player Loader
}

// Load reads both tables concurrently. The first failure cancels the other load.
func (p Pair) Load(ctx context.Context) (season, player core.Table, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := p.Season.Load(ctx)
		if err != nil {
			return fmt.Errorf("load season table: %w", err)
		}
		season = t
		return nil
	})
	g.Go(func() error {
		t, err := p.Player.Load(ctx)
		if err != nil {
			return fmt.Errorf("load player table: %w", err)
		}
		player = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.Table{}, core.Table{}, err
	}
	return season, player, nil
}

// buildTable splits header from records and normalizes record widths.
// Leading blank rows are skipped; the first non-blank row is the header.
// Records wider than the header are kept so the store can report them.
func buildTable(name string, rows [][]string) (core.Table, error) {
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return core.Table{}, fmt.Errorf("%s: %w", name, core.ErrEmptyTable)
	}

	t := core.Table{
		Name:    name,
		Columns: rows[0],
		Records: make([][]string, 0, len(rows)-1),
	}

	for _, rec := range rows[1:] {
		if isEmptyRow(rec) {
			continue
		}
		if len(rec) < len(t.Columns) {
			padded := make([]string, len(t.Columns))
			copy(padded, rec)
			rec = padded
		}
		t.Records = append(t.Records, rec)
	}

	return t, nil
}

func isEmptyRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// tableName derives a table name from a file path: "data/Player.2022.xlsx" -> "Player.2022".
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
