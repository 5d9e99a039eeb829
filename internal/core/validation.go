package core

// validation.go checks raw tables before the store accepts them.
//
// Validation happens at two levels:
//  1. Header validation: required columns exist and the statistic range is
//     non-empty
//  2. Cell validation: every non-empty statistic cell is numeric
//
// Cell errors carry the table, 1-based line number and column so a broken
// export can be fixed without guessing.

import (
	"fmt"
	"strings"
)

// CellError describes a single cell that failed validation.
type CellError struct {
	Table  string // Table or sheet name
	Line   int    // 1-based line number, header is line 1
	Column string // Column name
	Value  string // The invalid value
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s line %d, column %q: invalid number %q", e.Table, e.Line, e.Column, e.Value)
}

func (e *CellError) Unwrap() error {
	return ErrMalformedTable
}

// SeasonLayout records where the season table keeps its fields.
type SeasonLayout struct {
	Name       int
	Team       int
	Position   int
	StatStart  int // First statistic column (inclusive)
	StatEnd    int // Last statistic column (exclusive)
	Statistics []string
}

// ValidateSeasonHeader checks the season header and locates its columns.
// Statistic columns run from offset up to, but excluding, the last column.
func ValidateSeasonHeader(t Table, offset int) (SeasonLayout, error) {
	if len(t.Columns) == 0 {
		return SeasonLayout{}, fmt.Errorf("%s: %w", t.Name, ErrEmptyTable)
	}

	idx := MakeHeaderIndex(t.Columns)
	var layout SeasonLayout
	var missing []string

	for _, req := range []struct {
		name string
		dst  *int
	}{
		{ColumnName, &layout.Name},
		{ColumnTeam, &layout.Team},
		{ColumnPosition, &layout.Position},
	} {
		pos, ok := idx.Lookup(req.name)
		if !ok {
			missing = append(missing, req.name)
			continue
		}
		*req.dst = pos
	}

	if len(missing) > 0 {
		return SeasonLayout{}, fmt.Errorf("%s: %w: %s", t.Name, ErrMissingColumn, strings.Join(missing, ", "))
	}

	if offset < 0 || len(t.Columns) < offset+2 {
		return SeasonLayout{}, fmt.Errorf("%s: %w: need at least one statistic column at offset %d, header has %d columns",
			t.Name, ErrMissingColumn, offset, len(t.Columns))
	}

	layout.StatStart = offset
	layout.StatEnd = len(t.Columns) - 1
	layout.Statistics = make([]string, 0, layout.StatEnd-layout.StatStart)
	seen := make(map[string]bool, layout.StatEnd-layout.StatStart)
	for _, col := range t.Columns[layout.StatStart:layout.StatEnd] {
		col = CleanCell(col)
		if col == "" {
			return SeasonLayout{}, fmt.Errorf("%s: %w: blank statistic column name", t.Name, ErrMalformedTable)
		}
		if seen[col] {
			return SeasonLayout{}, fmt.Errorf("%s: %w: duplicate statistic column %q", t.Name, ErrMalformedTable, col)
		}
		seen[col] = true
		layout.Statistics = append(layout.Statistics, col)
	}

	return layout, nil
}

// ValidatePlayerHeader checks that the player table has display columns
// beyond its identifier columns.
func ValidatePlayerHeader(t Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%s: %w", t.Name, ErrEmptyTable)
	}
	if len(t.Columns) <= PlayerHiddenColumns {
		return fmt.Errorf("%s: %w: need more than %d columns, header has %d",
			t.Name, ErrMissingColumn, PlayerHiddenColumns, len(t.Columns))
	}
	return nil
}

// validateRecordWidth rejects records wider than the header.
func validateRecordWidth(t Table) error {
	for i, rec := range t.Records {
		if len(rec) > len(t.Columns) {
			return fmt.Errorf("%s line %d: %w: %d cells for %d columns",
				t.Name, i+2, ErrMalformedTable, len(rec), len(t.Columns))
		}
	}
	return nil
}
