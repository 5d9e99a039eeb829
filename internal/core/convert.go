package core

// convert.go turns spreadsheet cells into typed values.
//
// Spreadsheet exports are messy: numbers arrive with thousands separators,
// accounting-style negatives, Excel formula prefixes (="12") and stray
// quotes. All conversions return pgtype values with Valid=false for empty or
// unparseable input so callers can distinguish null from zero.

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// HeaderIndex maps column names to their position in a header row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Both the cleaned name and its lowercase form are indexed; the first
// occurrence of a name wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header)*2)
	for i, h := range header {
		name := CleanCell(h)
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
		lower := strings.ToLower(name)
		if _, ok := idx[lower]; !ok {
			idx[lower] = i
		}
	}
	return idx
}

// Lookup finds a column by exact name, falling back to a case-insensitive match.
func (h HeaderIndex) Lookup(name string) (int, bool) {
	if i, ok := h[name]; ok {
		return i, true
	}
	i, ok := h[strings.ToLower(name)]
	return i, ok
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// ToPgFloat8 converts a cell to pgtype.Float8.
// Handles thousands separators and accounting format (parentheses for negative).
// Returns invalid for empty or non-numeric input.
func ToPgFloat8(s string) pgtype.Float8 {
	s = CleanCell(s)
	if s == "" {
		return pgtype.Float8{Valid: false}
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Float8{Valid: false}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return pgtype.Float8{Valid: false}
	}

	return pgtype.Float8{Float64: f, Valid: true}
}

// IsNumericCell reports whether a non-empty cell parses as a number.
func IsNumericCell(s string) bool {
	return ToPgFloat8(s).Valid
}

// IsBlank reports whether a cell is empty after cleanup.
func IsBlank(s string) bool {
	return CleanCell(s) == ""
}

// FormatFloat renders a statistic for display: integers without decimals,
// everything else with two. Magnitudes past 2^53 take the decimal path since
// int64 cannot hold them.
func FormatFloat(v pgtype.Float8) string {
	if !v.Valid {
		return ""
	}
	if math.Abs(v.Float64) < 1<<53 && v.Float64 == float64(int64(v.Float64)) {
		return strconv.FormatInt(int64(v.Float64), 10)
	}
	return strconv.FormatFloat(v.Float64, 'f', 2, 64)
}
