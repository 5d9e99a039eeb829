package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/statdash/internal/core"
)

// XLSXLoader reads one worksheet of an Excel workbook.
type XLSXLoader struct {
	Path  string
	Sheet string // Active sheet when empty

	// RawValues reads stored cell values instead of their display format,
	// so "45%" arrives as 0.45 and dates as serial numbers.
	RawValues bool
}

// Load reads the worksheet into a table.
func (l XLSXLoader) Load(ctx context.Context) (core.Table, error) {
	if err := ctx.Err(); err != nil {
		return core.Table{}, err
	}

	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return core.Table{}, fmt.Errorf("open %s: %w", l.Path, err)
	}
	defer f.Close()

	sheet := l.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return core.Table{}, fmt.Errorf("%s: %w: %q", l.Path, ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: l.RawValues})
	if err != nil {
		return core.Table{}, fmt.Errorf("%s: read sheet %q: %w", l.Path, sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return core.Table{}, err
	}

	slog.Debug("xlsx sheet read",
		"file", l.Path,
		"sheet", sheet,
		"rows", len(rows),
	)

	return buildTable(sheet, rows)
}
