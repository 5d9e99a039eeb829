package templates

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/statdash/internal/core"
)

// PlayerTableData is one page of the player table plus the query that produced it.
type PlayerTableData struct {
	Page    core.PlayerPage
	Filters map[string]string // Filter expression per column, as typed
	Base    url.Values        // Parameters carried on every table link
}

// PlayerTable renders the filterable, sortable, paged player table.
func PlayerTable(d PlayerTableData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		p := d.Page

		h.raw(`<form method="get" action="/" class="player-table">`)
		for _, key := range sortedKeys(d.Base) {
			for _, v := range d.Base[key] {
				h.raw(`<input type="hidden"`)
				h.attr("name", key)
				h.attr("value", v)
				h.raw(">")
			}
		}
		if len(p.Sorts) > 0 {
			cols, dirs := joinSorts(p.Sorts)
			h.raw(`<input type="hidden" name="sort"`)
			h.attr("value", cols)
			h.raw(`><input type="hidden" name="dir"`)
			h.attr("value", dirs)
			h.raw(">")
		}

		h.raw("<table><thead><tr>")
		for _, col := range p.Columns {
			h.raw("<th")
			h.attr("data-type", col.Type.String())
			h.raw("><a")
			h.attr("href", d.link(nextSorts(p.Sorts, col.Name), 1))
			h.raw(">")
			h.text(col.Name)
			h.raw("</a>")
			for i, s := range p.Sorts {
				if s.Column != col.Name {
					continue
				}
				arrow := "▲"
				if s.Dir == "desc" {
					arrow = "▼"
				}
				h.raw(` <span class="dir">` + arrow)
				if len(p.Sorts) > 1 {
					h.int(i + 1)
				}
				h.raw("</span>")
			}
			h.raw("</th>")
		}
		h.raw(`</tr><tr class="filters">`)
		for _, col := range p.Columns {
			h.raw(`<th><input type="text" placeholder="filter data..."`)
			h.attr("name", "filter["+col.Name+"]")
			h.attr("value", d.Filters[col.Name])
			h.attr("aria-label", "Filter "+col.Name)
			h.raw("></th>")
		}
		h.raw("</tr></thead><tbody>")

		if len(p.Rows) == 0 {
			h.raw(`<tr><td class="empty"`)
			h.attr("colspan", strconv.Itoa(max(len(p.Columns), 1)))
			h.raw(">No players match the table filters</td></tr>")
		}
		for _, row := range p.Rows {
			h.raw("<tr>")
			for _, cell := range row {
				h.raw("<td>")
				h.text(cell)
				h.raw("</td>")
			}
			h.raw("</tr>")
		}
		h.raw(`</tbody></table><button type="submit" hidden>Filter</button></form>`)

		h.raw(`<nav class="pager">`)
		if p.Page > 1 {
			h.raw("<a")
			h.attr("href", d.link(p.Sorts, p.Page-1))
			h.raw(">&laquo; Previous</a>")
		}
		h.raw("<span>Page ")
		h.int(p.Page)
		h.raw(" of ")
		h.int(max(p.TotalPages, 1))
		h.raw(" (")
		h.int(p.TotalRows)
		h.raw(" players)</span>")
		if p.Page < p.TotalPages {
			h.raw("<a")
			h.attr("href", d.link(p.Sorts, p.Page+1))
			h.raw(">Next &raquo;</a>")
		}
		h.raw("</nav>")

		return h.err
	})
}

// link builds a dashboard URL that keeps the selection and filters.
func (d PlayerTableData) link(sorts []core.SortSpec, page int) string {
	q := url.Values{}
	for k, vs := range d.Base {
		q[k] = append([]string(nil), vs...)
	}
	for col, expr := range d.Filters {
		if expr != "" {
			q.Set("filter["+col+"]", expr)
		}
	}
	if len(sorts) > 0 {
		cols, dirs := joinSorts(sorts)
		q.Set("sort", cols)
		q.Set("dir", dirs)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return "/?" + q.Encode()
}

// nextSorts cycles a column through ascending, descending and unsorted,
// keeping the other sort columns in place.
func nextSorts(cur []core.SortSpec, col string) []core.SortSpec {
	var out []core.SortSpec
	found := false
	for _, s := range cur {
		if s.Column != col {
			out = append(out, s)
			continue
		}
		found = true
		if s.Dir != "desc" {
			out = append(out, core.SortSpec{Column: col, Dir: "desc"})
		}
	}
	if !found {
		out = append(out, core.SortSpec{Column: col, Dir: "asc"})
		if len(out) > core.MaxSorts {
			out = out[len(out)-core.MaxSorts:]
		}
	}
	return out
}

func joinSorts(sorts []core.SortSpec) (cols, dirs string) {
	c := make([]string, len(sorts))
	d := make([]string, len(sorts))
	for i, s := range sorts {
		c[i], d[i] = s.Column, s.Dir
	}
	return strings.Join(c, ","), strings.Join(d, ",")
}
