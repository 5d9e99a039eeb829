package web

import (
	"net/http"
	"strings"
	"testing"
)

func TestHandleDashboard(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doGet(t, s, "/?stat=PassingYards&limit=2&team=TeamX", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<title>NFL Statistical Analysis</title>",
		"PassingYards - Bar Graph",
		`<option value="PassingYards" selected>`,
		`<option value="2" selected>`,
		`<option value="TeamX" selected>`,
		`<option value="All" selected>All Positions</option>`,
		`<option value="All">All Teams</option>`,
		`data-live="/ws/view"`,
		"<td>Alpha</td>",
		"<td>delta</td>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestHandleDashboard_TableFilterError(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doGet(t, s, "/?filter%5BAge%5D=%3Eold", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "SEL002") {
		t.Error("dashboard should show the table filter error code")
	}
	if !strings.Contains(body, "<td>Bravo</td>") {
		t.Error("table should fall back to unfiltered rows")
	}
	if !strings.Contains(body, "PassingAttempts - Bar Graph") {
		t.Error("chart should still render")
	}
}

func TestHandleDashboard_KeepsTableParams(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doGet(t, s, "/?sort=Age&dir=desc&filter%5BPosition%5D=QB", nil)

	body := rec.Body.String()
	for _, want := range []string{
		`<input type="hidden" name="sort" value="Age">`,
		`<input type="hidden" name="dir" value="desc">`,
		`<input type="hidden" name="filter[Position]" value="QB">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(body, "<td>Bravo</td>") {
		t.Error("position filter not applied to the table")
	}
}

func TestHandleDashboard_InvalidSelection(t *testing.T) {
	s := newTestServer(t, nil)

	for _, target := range []string{"/?stat=Touchdowns", "/?limit=0", "/?limit=x"} {
		t.Run(target, func(t *testing.T) {
			rec := doGet(t, s, target, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q, want HTML error page", ct)
			}
			if !strings.Contains(rec.Body.String(), "SEL001") {
				t.Error("error page missing SEL001")
			}
		})
	}
}

func TestHandleDashboard_JSONErrorWhenAccepted(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doGet(t, s, "/?stat=Touchdowns", map[string]string{"Accept": "application/json"})

	var body ErrorResponse
	decodeJSON(t, rec, &body)
	if body.Code != "SEL001" {
		t.Errorf("code = %q, want SEL001", body.Code)
	}
}

func TestHandleDashboard_EscapesValues(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doGet(t, s, "/?team=%3Cscript%3E", nil)

	body := rec.Body.String()
	if strings.Contains(body, "<script>alert") || strings.Contains(body, `value="<script>"`) {
		t.Error("team value was not escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("escaped team value missing")
	}
	if !strings.Contains(body, "No players match the selected filters") {
		t.Error("unknown team should render an empty chart")
	}
}
