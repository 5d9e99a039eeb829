package templates

import (
	"context"
	"io"
	"net/url"
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/statdash/internal/core"
)

// DashboardData is everything the dashboard page shows.
type DashboardData struct {
	Title      string
	Selection  core.Selection
	Statistics []string
	Teams      []string // Includes core.AllValues
	Positions  []string // Includes core.AllValues
	Limits     []int
	View       core.View
	Table      PlayerTableData
	TableError *core.UserMessage

	// TableParams are the player table parameters kept when the selection changes.
	TableParams url.Values
	LiveURL     string
}

// Dashboard renders the full dashboard page.
func Dashboard(d DashboardData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw("<h1>")
		h.text(d.Title)
		h.raw("</h1>")

		h.raw(`<form id="selection" class="controls" method="get" action="/"`)
		h.attr("data-live", d.LiveURL)
		h.raw(">")
		for _, key := range sortedKeys(d.TableParams) {
			for _, v := range d.TableParams[key] {
				h.raw(`<input type="hidden"`)
				h.attr("name", key)
				h.attr("value", v)
				h.raw(">")
			}
		}
		selectBox(h, "Choose a Statistic", "stat", d.Statistics, d.Selection.Statistic, nil)
		selectBox(h, "Values", "limit", intStrings(d.Limits), strconv.Itoa(d.Selection.Limit), nil)
		selectBox(h, "Teams", "team", d.Teams, d.Selection.Team, map[string]string{core.AllValues: "All Teams"})
		selectBox(h, "Positions", "position", d.Positions, d.Selection.Position, map[string]string{core.AllValues: "All Positions"})
		h.raw(`<noscript><button type="submit">Apply</button></noscript></form>`)

		h.raw(`<div id="live-error" class="alert" role="alert" hidden></div>`)
		h.raw(`<section id="chart" class="panel">`)
		h.render(ctx, Chart(d.View))
		h.raw("</section>")

		h.raw(`<section class="panel">`)
		if d.TableError != nil {
			h.render(ctx, ErrorAlert(d.TableError.Message, d.TableError.Action, d.TableError.Code))
		}
		h.render(ctx, PlayerTable(d.Table))
		h.raw("</section>")

		h.raw("<script>")
		h.raw(liveScript)
		h.raw("</script>")
		return h.err
	})
	return Page(d.Title, body)
}

// selectBox renders a labelled dropdown. labels overrides option text by value.
func selectBox(h *htmlWriter, label, name string, options []string, selected string, labels map[string]string) {
	h.raw("<label>")
	h.text(label)
	h.raw("<select")
	h.attr("name", name)
	h.raw(">")
	if selected != "" && !slices.Contains(options, selected) {
		options = append([]string{selected}, options...)
	}
	for _, opt := range options {
		h.raw("<option")
		h.attr("value", opt)
		if opt == selected {
			h.raw(" selected")
		}
		h.raw(">")
		if text, ok := labels[opt]; ok {
			h.text(text)
		} else {
			h.text(opt)
		}
		h.raw("</option>")
	}
	h.raw("</select></label>")
}

func intStrings(ns []int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = strconv.Itoa(n)
	}
	return out
}

func sortedKeys(v url.Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// liveScript sends selection changes over the view socket and swaps in the
// rendered chart. Without a socket the form submits normally.
const liveScript = `(function(){
var form=document.getElementById("selection");
var chart=document.getElementById("chart");
var alertBox=document.getElementById("live-error");
var ws=null;
if(window.WebSocket&&form.dataset.live){
var proto=location.protocol==="https:"?"wss:":"ws:";
ws=new WebSocket(proto+"//"+location.host+form.dataset.live);
ws.onmessage=function(e){
var m=JSON.parse(e.data);
if(m.type==="view"){chart.innerHTML=m.chart_html;alertBox.hidden=true;}
else if(m.type==="error"){alertBox.textContent=m.error.message+" (Code: "+m.error.code+"). "+m.error.action;alertBox.hidden=false;}
};
}
form.addEventListener("change",function(){
var f=new FormData(form);
if(!ws||ws.readyState!==WebSocket.OPEN){form.submit();return;}
ws.send(JSON.stringify({type:"select",selection:{statistic:f.get("stat"),limit:parseInt(f.get("limit"),10),team:f.get("team"),position:f.get("position")}}));
history.replaceState(null,"","?"+new URLSearchParams(f).toString());
});
})();`
