package core

// table_query.go serves the player table: column filters, multi-column
// sorting and paging over the immutable player rows.

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPageSize is the number of player rows per page.
const DefaultPageSize = 10

// ValidOperator checks if an operator is valid for a given field type.
func ValidOperator(op FilterOperator, ft FieldType) bool {
	switch ft {
	case FieldText:
		switch op {
		case OpContains, OpEquals, OpStartsWith, OpEndsWith, OpIn:
			return true
		}
	case FieldNumeric:
		switch op {
		case OpEquals, OpGreaterEq, OpLessEq, OpGreater, OpLess, OpIn:
			return true
		}
	}
	return false
}

// compiledFilter is a ColumnFilter resolved against the player columns.
type compiledFilter struct {
	col   int
	typ   FieldType
	op    FilterOperator
	text  string
	num   float64
	items []string
}

// compileFilters resolves filter columns and validates operators and values.
func (s *Store) compileFilters(fs FilterSet) ([]compiledFilter, error) {
	out := make([]compiledFilter, 0, len(fs.Filters))
	for _, f := range fs.Filters {
		col, ok := s.playerColumnIndex(f.Column)
		if !ok {
			return nil, fmt.Errorf("%w: column not found %q", ErrInvalidSelection, f.Column)
		}
		typ := s.playerColumns[col].Type
		if !ValidOperator(f.Operator, typ) {
			return nil, fmt.Errorf("%w: invalid operator %q for %s column %q", ErrInvalidSelection, f.Operator, typ, f.Column)
		}

		cf := compiledFilter{col: col, typ: typ, op: f.Operator, text: strings.ToLower(strings.TrimSpace(f.Value))}
		switch {
		case f.Operator == OpIn:
			for _, item := range strings.Split(f.Value, ",") {
				cf.items = append(cf.items, strings.ToLower(strings.TrimSpace(item)))
			}
		case typ == FieldNumeric:
			v := ToPgFloat8(f.Value)
			if !v.Valid {
				return nil, fmt.Errorf("%w: invalid number %q for column %q", ErrInvalidSelection, f.Value, f.Column)
			}
			cf.num = v.Float64
		}
		out = append(out, cf)
	}
	return out, nil
}

// match reports whether a cell satisfies the filter.
func (f compiledFilter) match(cell string) bool {
	lower := strings.ToLower(cell)

	if f.op == OpIn {
		for _, item := range f.items {
			if f.typ == FieldNumeric {
				a, b := ToPgFloat8(cell), ToPgFloat8(item)
				if a.Valid && b.Valid && a.Float64 == b.Float64 {
					return true
				}
				continue
			}
			if lower == item {
				return true
			}
		}
		return false
	}

	if f.typ == FieldNumeric {
		v := ToPgFloat8(cell)
		if !v.Valid {
			return false
		}
		switch f.op {
		case OpEquals:
			return v.Float64 == f.num
		case OpGreaterEq:
			return v.Float64 >= f.num
		case OpLessEq:
			return v.Float64 <= f.num
		case OpGreater:
			return v.Float64 > f.num
		case OpLess:
			return v.Float64 < f.num
		}
		return false
	}

	switch f.op {
	case OpContains:
		return strings.Contains(lower, f.text)
	case OpEquals:
		return lower == f.text
	case OpStartsWith:
		return strings.HasPrefix(lower, f.text)
	case OpEndsWith:
		return strings.HasSuffix(lower, f.text)
	}
	return false
}

// playerColumnIndex finds a displayed column by name, case-insensitively.
func (s *Store) playerColumnIndex(name string) (int, bool) {
	for i, c := range s.playerColumns {
		if c.Name == name {
			return i, true
		}
	}
	for i, c := range s.playerColumns {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// QueryPlayers returns one page of the player table after applying filters
// and sorts. Pages are 1-based; a page past the end has no rows but still
// reports totals.
func (s *Store) QueryPlayers(q PlayerQuery) (PlayerPage, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}

	filters, err := s.compileFilters(q.Filters)
	if err != nil {
		return PlayerPage{}, err
	}

	type sortKey struct {
		col  int
		typ  FieldType
		desc bool
	}
	var keys []sortKey
	var applied []SortSpec
	for _, spec := range q.Sorts {
		if len(keys) >= MaxSorts {
			break
		}
		col, ok := s.playerColumnIndex(spec.Column)
		if !ok {
			return PlayerPage{}, fmt.Errorf("%w: column not found %q", ErrInvalidSelection, spec.Column)
		}
		dir := "asc"
		if strings.EqualFold(spec.Dir, "desc") {
			dir = "desc"
		}
		keys = append(keys, sortKey{col: col, typ: s.playerColumns[col].Type, desc: dir == "desc"})
		applied = append(applied, SortSpec{Column: s.playerColumns[col].Name, Dir: dir})
	}

	rows := make([][]string, 0, len(s.players))
rowLoop:
	for _, row := range s.players {
		for _, f := range filters {
			if !f.match(row[f.col]) {
				continue rowLoop
			}
		}
		rows = append(rows, row)
	}

	if len(keys) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			for _, k := range keys {
				c := compareCells(rows[i][k.col], rows[j][k.col], k.typ)
				if c == 0 {
					continue
				}
				// Blank cells stay last regardless of direction.
				if rows[i][k.col] == "" || rows[j][k.col] == "" {
					return c < 0
				}
				if k.desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	total := len(rows)
	page := PlayerPage{
		Columns:    s.PlayerColumns(),
		TotalRows:  total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
		Sorts:      applied,
	}

	start := (q.Page - 1) * q.PageSize
	if start >= total {
		page.Rows = [][]string{}
		return page, nil
	}
	end := min(start+q.PageSize, total)

	page.Rows = make([][]string, 0, end-start)
	for _, row := range rows[start:end] {
		page.Rows = append(page.Rows, append([]string(nil), row...))
	}
	return page, nil
}

// compareCells orders two cells ascending, with blanks after everything else.
func compareCells(a, b string, typ FieldType) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	if typ == FieldNumeric {
		va, vb := ToPgFloat8(a), ToPgFloat8(b)
		switch {
		case va.Float64 < vb.Float64:
			return -1
		case va.Float64 > vb.Float64:
			return 1
		}
		return 0
	}

	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
