package core

import (
	"fmt"
	"sort"
)

// TitleSuffix is appended to the statistic name to form the chart title.
const TitleSuffix = " - Bar Graph"

// ChartTitle returns the bar chart title for a statistic.
func ChartTitle(statistic string) string {
	return statistic + TitleSuffix
}

// ComputeView filters, ranks and truncates the season table for one selection.
//
// Rows are kept when they match the team and position filters (AND, exact
// case-sensitive match, "All" disables a filter), sorted by the statistic in
// descending order, and cut to sel.Limit. The sort is stable, so rows with
// equal values keep their table order; null values rank after every number.
//
// An unknown statistic or a non-positive limit returns ErrInvalidSelection.
// A team or position that matches no row yields a view with no bars.
func (s *Store) ComputeView(sel Selection) (View, error) {
	col, err := s.statisticIndex(sel.Statistic)
	if err != nil {
		return View{}, err
	}
	if sel.Limit <= 0 {
		return View{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidSelection, sel.Limit)
	}

	// Work on indexes so the shared season slice is never reordered.
	idx := make([]int, 0, len(s.season))
	for i, r := range s.season {
		if sel.Team != AllValues && r.Team != sel.Team {
			continue
		}
		if sel.Position != AllValues && r.Position != sel.Position {
			continue
		}
		idx = append(idx, i)
	}

	sort.SliceStable(idx, func(a, b int) bool {
		va := s.season[idx[a]].Stats[col]
		vb := s.season[idx[b]].Stats[col]
		if !va.Valid || !vb.Valid {
			return va.Valid && !vb.Valid
		}
		return va.Float64 > vb.Float64
	})

	if len(idx) > sel.Limit {
		idx = idx[:sel.Limit]
	}

	bars := make([]Bar, len(idx))
	for i, ri := range idx {
		r := s.season[ri]
		bars[i] = Bar{Name: r.Name, Value: r.Stats[col]}
	}

	return View{
		Title: ChartTitle(sel.Statistic),
		X:     ColumnName,
		Y:     sel.Statistic,
		Bars:  bars,
	}, nil
}
