package web

import (
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"testing"

	"github.com/JonMunkholm/statdash/internal/core"
)

func barNames(v core.View) []string {
	names := make([]string, len(v.Bars))
	for i, b := range v.Bars {
		names[i] = b.Name
	}
	return names
}

func TestHandleView(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name      string
		query     string
		wantTitle string
		wantBars  []string
	}{
		{
			name:      "top two passers",
			query:     "stat=PassingAttempts&limit=2&team=All&position=All",
			wantTitle: "PassingAttempts - Bar Graph",
			wantBars:  []string{"C", "A"},
		},
		{
			name:      "team filter",
			query:     "stat=PassingAttempts&limit=10&team=TeamX&position=All",
			wantTitle: "PassingAttempts - Bar Graph",
			wantBars:  []string{"A", "B"},
		},
		{
			name:      "team and position filter",
			query:     "stat=PassingYards&limit=10&team=TeamY&position=QB",
			wantTitle: "PassingYards - Bar Graph",
			wantBars:  []string{"C"},
		},
		{
			name:      "nulls rank last",
			query:     "stat=RushingAttempts&limit=10",
			wantTitle: "RushingAttempts - Bar Graph",
			wantBars:  []string{"A", "B", "C"},
		},
		{
			name:      "no matching rows",
			query:     "stat=PassingAttempts&limit=10&team=TeamZ",
			wantTitle: "PassingAttempts - Bar Graph",
			wantBars:  []string{},
		},
		{
			name:      "defaults",
			query:     "",
			wantTitle: "PassingAttempts - Bar Graph",
			wantBars:  []string{"C", "A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, s, "/api/view?"+tt.query, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
			}

			var got core.View
			decodeJSON(t, rec, &got)
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.X != "Name" {
				t.Errorf("X = %q, want Name", got.X)
			}
			if names := barNames(got); !reflect.DeepEqual(names, tt.wantBars) {
				t.Errorf("bars = %v, want %v", names, tt.wantBars)
			}
		})
	}
}

func TestHandleView_NullValueEncodesAsNull(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doGet(t, s, "/api/view?stat=RushingAttempts&team=TeamY", nil)

	var got core.View
	decodeJSON(t, rec, &got)
	if len(got.Bars) != 1 || got.Bars[0].Value.Valid {
		t.Errorf("bars = %+v, want one null bar", got.Bars)
	}
}

func TestHandleView_InvalidSelection(t *testing.T) {
	s := newTestServer(t, nil)

	for _, query := range []string{
		"stat=Touchdowns",
		"limit=0",
		"limit=-3",
		"limit=ten",
	} {
		t.Run(query, func(t *testing.T) {
			rec := doGet(t, s, "/api/view?"+query, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body ErrorResponse
			decodeJSON(t, rec, &body)
			if body.Code != "SEL001" {
				t.Errorf("code = %q, want SEL001", body.Code)
			}
			if body.Message == "" || body.Action == "" {
				t.Errorf("error body = %+v, want message and action", body)
			}
		})
	}
}

func TestHandleView_ETag(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doGet(t, s, "/api/view?stat=PassingYards", nil)
	etag := rec.Header().Get("ETag")
	if etag != `"`+s.store.LoadID()+`"` {
		t.Fatalf("ETag = %q, want load ID", etag)
	}

	rec = doGet(t, s, "/api/view?stat=PassingYards", map[string]string{"If-None-Match": etag})
	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("304 body = %q, want empty", rec.Body.String())
	}

	rec = doGet(t, s, "/api/view?stat=PassingYards", map[string]string{"If-None-Match": `"stale"`})
	if rec.Code != http.StatusOK {
		t.Errorf("stale ETag status = %d, want 200", rec.Code)
	}
}

func TestHandleOptions(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doGet(t, s, "/api/options", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got OptionsResponse
	decodeJSON(t, rec, &got)

	if want := []string{"PassingAttempts", "PassingYards", "RushingAttempts"}; !slices.Equal(got.Statistics, want) {
		t.Errorf("Statistics = %v, want %v", got.Statistics, want)
	}
	if want := []string{"All", "TeamX", "TeamY"}; !slices.Equal(got.Teams, want) {
		t.Errorf("Teams = %v, want %v", got.Teams, want)
	}
	if want := []string{"All", "QB", "WR"}; !slices.Equal(got.Positions, want) {
		t.Errorf("Positions = %v, want %v", got.Positions, want)
	}
	want := core.Selection{Statistic: "PassingAttempts", Limit: 100, Team: "All", Position: "All"}
	if got.Defaults != want {
		t.Errorf("Defaults = %+v, want %+v", got.Defaults, want)
	}
	if got.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", got.PageSize)
	}
}

func TestHandleOptions_DefaultStatisticFallback(t *testing.T) {
	cfg := testConfig()
	cfg.View.DefaultStatistic = "Touchdowns"
	s := newTestServer(t, cfg)

	var got OptionsResponse
	decodeJSON(t, doGet(t, s, "/api/options", nil), &got)
	if got.Defaults.Statistic != "PassingAttempts" {
		t.Errorf("default statistic = %q, want first column", got.Defaults.Statistic)
	}
}

// playersBody mirrors core.PlayerPage without the typed columns.
type playersBody struct {
	Rows       [][]string `json:"rows"`
	TotalRows  int        `json:"total_rows"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Columns    []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"columns"`
}

func TestHandlePlayers(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"all", url.Values{}, []string{"Alpha", "Bravo", "Charlie", "delta"}},
		{"contains filter", url.Values{"filter[Name]": {"ar"}}, []string{"Charlie"}},
		{"shorthand equals", url.Values{"filter[Position]": {"=QB"}}, []string{"Alpha", "Charlie"}},
		{"numeric shorthand", url.Values{"filter[Age]": {">= 27"}}, []string{"Alpha", "Charlie"}},
		{"operator prefix", url.Values{"filter[Team]": {"starts:teamy"}}, []string{"Charlie", "delta"}},
		{"sorted", url.Values{"sort": {"Age"}, "dir": {"desc"}}, []string{"Alpha", "Charlie", "Bravo", "delta"}},
		{
			"filter and sort",
			url.Values{"filter[Position]": {"QB"}, "sort": {"Experience"}, "dir": {"asc"}},
			[]string{"Charlie", "Alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, s, "/api/players?"+tt.params.Encode(), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
			}

			var got playersBody
			decodeJSON(t, rec, &got)
			var names []string
			for _, r := range got.Rows {
				names = append(names, r[0])
			}
			if !slices.Equal(names, tt.want) {
				t.Errorf("rows = %v, want %v", names, tt.want)
			}
			if got.TotalRows != len(tt.want) {
				t.Errorf("TotalRows = %d, want %d", got.TotalRows, len(tt.want))
			}
		})
	}
}

func TestHandlePlayers_ColumnTypes(t *testing.T) {
	s := newTestServer(t, nil)

	var got playersBody
	decodeJSON(t, doGet(t, s, "/api/players", nil), &got)
	if len(got.Columns) != 5 {
		t.Fatalf("columns = %+v, want 5", got.Columns)
	}
	if got.Columns[0].Name != "Name" || got.Columns[0].Type != "text" {
		t.Errorf("first column = %+v", got.Columns[0])
	}
	if got.Columns[3].Name != "Age" || got.Columns[3].Type != "numeric" {
		t.Errorf("Age column = %+v", got.Columns[3])
	}
}

func TestHandlePlayers_Paging(t *testing.T) {
	cfg := testConfig()
	cfg.View.PageSize = 3
	s := newTestServer(t, cfg)

	var got playersBody
	decodeJSON(t, doGet(t, s, "/api/players?page=2", nil), &got)
	if got.Page != 2 || got.TotalPages != 2 || len(got.Rows) != 1 {
		t.Errorf("page = %d of %d with %d rows, want 2 of 2 with 1", got.Page, got.TotalPages, len(got.Rows))
	}
}

func TestHandlePlayers_InvalidFilter(t *testing.T) {
	s := newTestServer(t, nil)

	for name, params := range map[string]url.Values{
		"unknown column":   {"filter[Salary]": {"1"}},
		"non numeric":      {"filter[Age]": {">old"}},
		"unknown sort":     {"sort": {"Height"}},
		"numeric on text":  {"filter[Name]": {"gt:a"}},
		"hidden id column": {"filter[PlayerID]": {"1"}},
	} {
		t.Run(name, func(t *testing.T) {
			rec := doGet(t, s, "/api/players?"+params.Encode(), nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body ErrorResponse
			decodeJSON(t, rec, &body)
			if body.Code != "SEL002" {
				t.Errorf("code = %q, want SEL002", body.Code)
			}
		})
	}
}

func TestHandleView_BlankTeamMatchesSocketSelection(t *testing.T) {
	season := core.Table{
		Name:    "PlayerSeason.2022",
		Columns: seasonHeader,
		Records: [][]string{
			seasonRow("A", "TeamX", "QB", "300", "3100", "20"),
			seasonRow("FA", "", "QB", "120", "900", "4"),
		},
	}
	player := core.Table{
		Name:    "Player.2022",
		Columns: []string{"PlayerID", "Key", "Name"},
		Records: [][]string{{"1", "a", "A"}, {"2", "b", "FA"}},
	}
	store, err := core.NewStore(season, player, core.StoreOptions{StatisticOffset: core.DefaultStatisticOffset})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if want := []string{"All", "TeamX", ""}; !slices.Equal(store.TeamOptions(), want) {
		t.Fatalf("TeamOptions() = %q, want %q", store.TeamOptions(), want)
	}

	s := newStoreServer(t, store, nil)

	rec := doGet(t, s, "/api/view?stat=PassingAttempts&limit=10&team=&position=All", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	var got core.View
	decodeJSON(t, rec, &got)

	want, err := store.ComputeView(core.Selection{Statistic: "PassingAttempts", Limit: 10, Team: "", Position: core.AllValues})
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}
	if !reflect.DeepEqual(barNames(got), barNames(want)) {
		t.Errorf("HTTP bars = %v, direct bars = %v", barNames(got), barNames(want))
	}
	if names := barNames(got); !slices.Equal(names, []string{"FA"}) {
		t.Errorf("bars = %v, want [FA]", names)
	}

	// Without the parameter the team filter is off.
	var all core.View
	decodeJSON(t, doGet(t, s, "/api/view?stat=PassingAttempts&limit=10", nil), &all)
	if names := barNames(all); !slices.Equal(names, []string{"A", "FA"}) {
		t.Errorf("bars without team = %v, want [A FA]", names)
	}
}
