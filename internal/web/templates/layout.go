package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Page wraps body in the HTML document shell.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title)
		h.raw("</title><style>")
		h.raw(styles)
		h.raw("</style></head><body><main class=\"container\">")
		h.render(ctx, body)
		h.raw("</main></body></html>")
		return h.err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw("</strong>")
		if action != "" {
			h.raw(" <span>")
			h.text(action)
			h.raw("</span>")
		}
		if code != "" {
			h.raw(` <code>`)
			h.text(code)
			h.raw("</code>")
		}
		h.raw("</div>")
		return h.err
	})
}

// ErrorPage renders ErrorAlert as a full page with a link home.
func ErrorPage(title, message, action, code string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<h1>")
		h.text(title)
		h.raw("</h1>")
		h.render(ctx, ErrorAlert(message, action, code))
		h.raw(`<p><a href="/">Back to the dashboard</a></p>`)
		return h.err
	})
	return Page(title, body)
}

const styles = `
:root{--bg:#1a0933;--panel:#261447;--fg:#f4f0ff;--muted:#b7a6d9;--accent:#32fbe2;--bar:#ea39b8;--err:#ff6b6b}
*{box-sizing:border-box}
body{margin:0;background:var(--bg);color:var(--fg);font-family:system-ui,-apple-system,"Segoe UI",sans-serif}
.container{max-width:1400px;margin:0 auto;padding:1.5rem}
h1{margin:0 0 1rem;font-size:2rem}
a{color:var(--accent)}
.controls{display:flex;flex-wrap:wrap;gap:1rem;align-items:flex-end;margin-bottom:1rem}
.controls label{display:flex;flex-direction:column;gap:.25rem;color:var(--muted);font-size:.9rem}
select,input{background:var(--panel);color:var(--fg);border:1px solid var(--muted);border-radius:4px;padding:.35rem .5rem}
.panel{background:var(--panel);border-radius:6px;padding:1rem;margin-bottom:1.5rem;overflow-x:auto}
.chart text{fill:var(--fg);font-size:11px}
.chart .title{font-size:16px}
.chart .bar{fill:var(--bar)}
.chart .axis{stroke:var(--muted)}
.chart .grid{stroke:var(--muted);stroke-opacity:.2}
table{border-collapse:collapse;width:100%;background:#fff;color:#000}
th,td{text-align:left;padding:.35rem .5rem;border-bottom:1px solid #ddd;white-space:nowrap}
th a{color:#000;text-decoration:none}
th .dir{color:#888;font-size:.8em}
.filters input{width:100%;min-width:4rem;background:#fff;color:#000;border-color:#ccc}
.pager{display:flex;gap:1rem;align-items:center;margin-top:.5rem;color:var(--muted)}
.alert{background:#3a1020;border:1px solid var(--err);color:var(--fg);padding:.75rem 1rem;border-radius:4px;margin-bottom:1rem}
.alert code{color:var(--err)}
.empty{color:var(--muted);padding:2rem;text-align:center}
`
