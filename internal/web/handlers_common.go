package web

// handlers_common.go holds query parsing shared by the page and API handlers.

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/JonMunkholm/statdash/internal/core"
)

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(q url.Values, name string, defaultVal int) int {
	val := q.Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseSelection reads the chart selection from stat, limit, team and
// position. A missing team or position means all of them; an empty value
// is an exact match on blank cells. A limit that is not an integer is an
// invalid selection; range checks are left to the store.
func (s *Server) parseSelection(q url.Values) (core.Selection, error) {
	sel := core.Selection{
		Statistic: s.defaultStatistic(),
		Limit:     s.cfg.View.DefaultLimit,
		Team:      core.AllValues,
		Position:  core.AllValues,
	}

	if v := q.Get("stat"); v != "" {
		sel.Statistic = v
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return sel, fmt.Errorf("%w: limit must be positive, got %q", core.ErrInvalidSelection, v)
		}
		sel.Limit = n
	}
	if q.Has("team") {
		sel.Team = q.Get("team")
	}
	if q.Has("position") {
		sel.Position = q.Get("position")
	}
	return sel, nil
}

// defaultStatistic is the configured default, or the first statistic column
// when the dataset has no such column.
func (s *Server) defaultStatistic() string {
	if s.store.HasStatistic(s.cfg.View.DefaultStatistic) {
		return s.cfg.View.DefaultStatistic
	}
	if stats := s.store.StatisticColumns(); len(stats) > 0 {
		return stats[0]
	}
	return s.cfg.View.DefaultStatistic
}

// parsePlayerQuery reads page, sort, dir and filter[col] parameters.
// The raw filter expressions are returned for redisplay.
func (s *Server) parsePlayerQuery(q url.Values) (core.PlayerQuery, map[string]string) {
	filters, raw := parseFilters(q, s.store.PlayerColumns())
	return core.PlayerQuery{
		Page:     parseIntParam(q, "page", 1),
		PageSize: s.cfg.View.PageSize,
		Sorts:    parseSorts(q),
		Filters:  filters,
	}, raw
}

// parseSorts parses comma-separated sort parameters from URL.
func parseSorts(q url.Values) []core.SortSpec {
	sortStr := q.Get("sort")
	dirStr := q.Get("dir")

	if sortStr == "" {
		return nil
	}

	cols := strings.Split(sortStr, ",")
	dirs := strings.Split(dirStr, ",")

	var sorts []core.SortSpec
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		dir := "asc"
		if i < len(dirs) {
			if strings.EqualFold(strings.TrimSpace(dirs[i]), "desc") {
				dir = "desc"
			}
		}
		sorts = append(sorts, core.SortSpec{Column: col, Dir: dir})
		if len(sorts) >= core.MaxSorts {
			break
		}
	}
	return sorts
}

// parseFilters extracts column filters from filter[col] query parameters.
// Unknown columns are kept so the store can reject them.
func parseFilters(q url.Values, columns []core.ColumnMeta) (core.FilterSet, map[string]string) {
	types := make(map[string]core.FieldType, len(columns))
	for _, c := range columns {
		types[strings.ToLower(c.Name)] = c.Type
	}

	keys := make([]string, 0, len(q))
	for key := range q {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var filters []core.ColumnFilter
	raw := make(map[string]string)
	for _, key := range keys {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}

		colName := key[7 : len(key)-1]
		if colName == "" {
			continue
		}

		for _, val := range q[key] {
			op, value := parseFilterExpr(val, types[strings.ToLower(colName)])
			if value == "" {
				continue
			}
			raw[colName] = strings.TrimSpace(val)
			filters = append(filters, core.ColumnFilter{
				Column:   colName,
				Operator: op,
				Value:    value,
			})
		}
	}

	return core.FilterSet{Filters: filters}, raw
}

// filterShorthands maps typed comparison prefixes to operators.
// Longer prefixes come first.
var filterShorthands = []struct {
	prefix string
	op     core.FilterOperator
}{
	{">=", core.OpGreaterEq},
	{"<=", core.OpLessEq},
	{">", core.OpGreater},
	{"<", core.OpLess},
	{"=", core.OpEquals},
}

var knownOperators = []core.FilterOperator{
	core.OpContains, core.OpEquals, core.OpStartsWith, core.OpEndsWith,
	core.OpGreaterEq, core.OpLessEq, core.OpGreater, core.OpLess, core.OpIn,
}

// parseFilterExpr splits a filter expression into operator and value.
// It accepts "op:value" (e.g. "gte:25"), comparison shorthand (">= 25",
// "=QB") or a bare value, which means contains for text columns and
// equals for numeric ones.
func parseFilterExpr(expr string, ft core.FieldType) (core.FilterOperator, string) {
	expr = strings.TrimSpace(expr)

	if i := strings.Index(expr, ":"); i > 0 {
		op := core.FilterOperator(strings.ToLower(expr[:i]))
		if slices.Contains(knownOperators, op) {
			return op, strings.TrimSpace(expr[i+1:])
		}
	}

	for _, sh := range filterShorthands {
		if strings.HasPrefix(expr, sh.prefix) {
			return sh.op, strings.TrimSpace(expr[len(sh.prefix):])
		}
	}

	if ft == core.FieldNumeric {
		return core.OpEquals, expr
	}
	return core.OpContains, expr
}

// notModified sets the dataset ETag and reports whether the client already
// holds the current response. Every response is a pure function of the
// loaded dataset and the URL.
func (s *Server) notModified(w http.ResponseWriter, r *http.Request) bool {
	etag := `"` + s.store.LoadID() + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if match := r.Header.Get("If-None-Match"); match != "" && (match == "*" || strings.Contains(match, etag)) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}
