package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/statdash/internal/core"
)

// Chart geometry in SVG user units.
const (
	chartHeight  = 460
	chartTop     = 50
	chartBottom  = 120 // room for rotated names
	chartLeft    = 80
	chartRight   = 20
	chartMinPlot = 600
	yTicks       = 5
)

// Chart renders a view as an SVG bar chart. Null values keep their
// category slot but draw no bar.
func Chart(view core.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		slot := 28.0
		if len(view.Bars) > 50 {
			slot = 14
		}
		plotW := max(float64(chartMinPlot), slot*float64(len(view.Bars)))
		plotH := float64(chartHeight - chartTop - chartBottom)
		width := chartLeft + plotW + chartRight

		lo, hi := valueRange(view.Bars)
		y := func(v float64) float64 {
			return chartTop + (hi-v)/(hi-lo)*plotH
		}

		h.raw(`<svg class="chart" xmlns="http://www.w3.org/2000/svg" role="img"`)
		h.attr("width", num(width))
		h.attr("height", strconv.Itoa(chartHeight))
		h.attr("viewBox", "0 0 "+num(width)+" "+strconv.Itoa(chartHeight))
		h.attr("aria-label", view.Title)
		h.raw(">")

		h.raw(`<text class="title" x="` + num(chartLeft) + `" y="24">`)
		h.text(view.Title)
		h.raw("</text>")

		if len(view.Bars) == 0 {
			h.raw(`<text x="` + num(chartLeft+plotW/2) + `" y="` + num(chartTop+plotH/2) + `" text-anchor="middle">No players match the selected filters</text></svg>`)
			return h.err
		}

		// Grid and y-axis ticks
		for i := 0; i <= yTicks; i++ {
			v := lo + (hi-lo)*float64(i)/yTicks
			ty := y(v)
			h.raw(`<line class="grid" x1="` + num(chartLeft) + `" x2="` + num(chartLeft+plotW) + `" y1="` + num(ty) + `" y2="` + num(ty) + `"/>`)
			h.raw(`<text x="` + num(chartLeft-6) + `" y="` + num(ty+4) + `" text-anchor="end">`)
			h.text(core.FormatFloat(pgtype.Float8{Float64: v, Valid: true}))
			h.raw("</text>")
		}

		zero := y(0)
		for i, b := range view.Bars {
			x := chartLeft + slot*float64(i)
			cx := x + slot/2

			if b.Value.Valid {
				top, bottom := y(max(b.Value.Float64, 0)), y(min(b.Value.Float64, 0))
				h.raw("<g><title>")
				h.text(b.Name + ": " + core.FormatFloat(b.Value))
				h.raw(`</title><rect class="bar" x="` + num(x+slot*0.1) + `" y="` + num(top) +
					`" width="` + num(slot*0.8) + `" height="` + num(bottom-top) + `"/></g>`)
			}

			h.raw(`<text transform="translate(` + num(cx) + "," + num(chartTop+plotH+12) + `) rotate(-45)" text-anchor="end">`)
			h.text(b.Name)
			h.raw("</text>")
		}

		// Axes and axis titles
		h.raw(`<line class="axis" x1="` + num(chartLeft) + `" x2="` + num(chartLeft+plotW) + `" y1="` + num(zero) + `" y2="` + num(zero) + `"/>`)
		h.raw(`<line class="axis" x1="` + num(chartLeft) + `" x2="` + num(chartLeft) + `" y1="` + num(chartTop) + `" y2="` + num(chartTop+plotH) + `"/>`)
		h.raw(`<text x="` + num(chartLeft+plotW/2) + `" y="` + num(chartHeight-6) + `" text-anchor="middle">`)
		h.text(view.X)
		h.raw(`</text><text transform="translate(16,` + num(chartTop+plotH/2) + `) rotate(-90)" text-anchor="middle">`)
		h.text(view.Y)
		h.raw("</text></svg>")

		return h.err
	})
}

// valueRange returns the y-axis bounds. Zero is always included and the
// range is never empty.
func valueRange(bars []core.Bar) (lo, hi float64) {
	for _, b := range bars {
		if !b.Value.Valid {
			continue
		}
		lo = min(lo, b.Value.Float64)
		hi = max(hi, b.Value.Float64)
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
