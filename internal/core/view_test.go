package core

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func bar(name string, v float64) Bar {
	return Bar{Name: name, Value: pgtype.Float8{Float64: v, Valid: true}}
}

func TestComputeView_Ranking(t *testing.T) {
	s := testStore(t)

	tests := []struct {
		name string
		sel  Selection
		want []Bar
	}{
		{
			name: "position filter and limit",
			sel:  Selection{Statistic: "PassingAttempts", Limit: 2, Team: "All", Position: "QB"},
			want: []Bar{bar("C", 400), bar("A", 300)},
		},
		{
			name: "unknown team yields empty view",
			sel:  Selection{Statistic: "PassingAttempts", Limit: 10, Team: "TeamZ", Position: "All"},
			want: []Bar{},
		},
		{
			name: "no filters recovers full ranking",
			sel:  Selection{Statistic: "PassingAttempts", Limit: 10, Team: "All", Position: "All"},
			want: []Bar{bar("C", 400), bar("A", 300), bar("B", 250)},
		},
		{
			name: "team and position combine with AND",
			sel:  Selection{Statistic: "PassingAttempts", Limit: 10, Team: "TeamX", Position: "QB"},
			want: []Bar{bar("A", 300)},
		},
		{
			name: "filters are case sensitive",
			sel:  Selection{Statistic: "PassingAttempts", Limit: 10, Team: "teamx", Position: "All"},
			want: []Bar{},
		},
		{
			name: "nulls rank last",
			sel:  Selection{Statistic: "RushingAttempts", Limit: 10, Team: "All", Position: "All"},
			want: []Bar{bar("A", 20), bar("B", 5), {Name: "C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := s.ComputeView(tt.sel)
			if err != nil {
				t.Fatalf("ComputeView() error = %v", err)
			}
			if !reflect.DeepEqual(view.Bars, tt.want) {
				t.Errorf("Bars = %+v, want %+v", view.Bars, tt.want)
			}
			if want := tt.sel.Statistic + " - Bar Graph"; view.Title != want {
				t.Errorf("Title = %q, want %q", view.Title, want)
			}
			if view.X != "Name" || view.Y != tt.sel.Statistic {
				t.Errorf("axes = (%q, %q), want (Name, %q)", view.X, view.Y, tt.sel.Statistic)
			}
		})
	}
}

func TestComputeView_InvalidSelection(t *testing.T) {
	s := testStore(t)

	tests := []struct {
		name string
		sel  Selection
	}{
		{"unknown statistic", Selection{Statistic: "Touchdowns", Limit: 10, Team: "All", Position: "All"}},
		{"trailing column is not a statistic", Selection{Statistic: "Updated", Limit: 10, Team: "All", Position: "All"}},
		{"leading column is not a statistic", Selection{Statistic: "Played", Limit: 10, Team: "All", Position: "All"}},
		{"zero limit", Selection{Statistic: "PassingAttempts", Limit: 0, Team: "All", Position: "All"}},
		{"negative limit", Selection{Statistic: "PassingAttempts", Limit: -5, Team: "All", Position: "All"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ComputeView(tt.sel)
			if !errors.Is(err, ErrInvalidSelection) {
				t.Errorf("ComputeView() error = %v, want ErrInvalidSelection", err)
			}
			if MapError(err).Code != "SEL001" {
				t.Errorf("MapError code = %q, want SEL001", MapError(err).Code)
			}
		})
	}
}

func TestComputeView_StableTies(t *testing.T) {
	season := seasonTable(
		seasonRow("First", "T", "QB", "100", "0", "0"),
		seasonRow("Top", "T", "QB", "200", "0", "0"),
		seasonRow("Second", "T", "QB", "100", "0", "0"),
		seasonRow("Third", "T", "QB", "100", "0", "0"),
	)
	s, err := NewStore(season, defaultPlayers(), StoreOptions{StatisticOffset: DefaultStatisticOffset})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	view, err := s.ComputeView(Selection{Statistic: "PassingAttempts", Limit: 10, Team: "All", Position: "All"})
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}

	var names []string
	for _, b := range view.Bars {
		names = append(names, b.Name)
	}
	want := []string{"Top", "First", "Second", "Third"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestComputeView_Properties(t *testing.T) {
	s := largeStore(t, 500)

	teams := append([]string{"All", "NOPE"}, s.TeamDomain()...)
	positions := append([]string{"All"}, s.PositionDomain()...)
	limits := []int{1, 10, 20, 50, 100, 200, 500, 1000}

	for _, stat := range s.StatisticColumns() {
		for _, team := range teams {
			for _, pos := range positions {
				for _, limit := range limits {
					sel := Selection{Statistic: stat, Limit: limit, Team: team, Position: pos}
					view, err := s.ComputeView(sel)
					if err != nil {
						t.Fatalf("ComputeView(%+v) error = %v", sel, err)
					}

					if len(view.Bars) > limit {
						t.Fatalf("ComputeView(%+v) returned %d bars, limit %d", sel, len(view.Bars), limit)
					}

					for i := 1; i < len(view.Bars); i++ {
						prev, cur := view.Bars[i-1].Value, view.Bars[i].Value
						if !prev.Valid && cur.Valid {
							t.Fatalf("ComputeView(%+v): null before number at %d", sel, i)
						}
						if prev.Valid && cur.Valid && prev.Float64 < cur.Float64 {
							t.Fatalf("ComputeView(%+v): not descending at %d", sel, i)
						}
					}

					want := expectedCount(s, team, pos)
					if want > limit {
						want = limit
					}
					if len(view.Bars) != want {
						t.Fatalf("ComputeView(%+v) returned %d bars, want %d", sel, len(view.Bars), want)
					}
				}
			}
		}
	}
}

// expectedCount counts rows matching the filters by brute force.
func expectedCount(s *Store, team, pos string) int {
	n := 0
	for _, r := range s.SeasonRows() {
		if (team == "All" || r.Team == team) && (pos == "All" || r.Position == pos) {
			n++
		}
	}
	return n
}

func TestComputeView_FilteredRowsMatch(t *testing.T) {
	s := largeStore(t, 120)

	view, err := s.ComputeView(Selection{Statistic: "PassingAttempts", Limit: 500, Team: "BAL", Position: "WR"})
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}

	allowed := make(map[string]bool)
	for _, r := range s.SeasonRows() {
		if r.Team == "BAL" && r.Position == "WR" {
			allowed[r.Name] = true
		}
	}
	if len(view.Bars) != len(allowed) {
		t.Errorf("got %d bars, want %d", len(view.Bars), len(allowed))
	}
	for _, b := range view.Bars {
		if !allowed[b.Name] {
			t.Errorf("bar %q does not satisfy Team==BAL AND Position==WR", b.Name)
		}
	}
}

func TestComputeView_IdempotentAndNonMutating(t *testing.T) {
	s := largeStore(t, 200)
	before := s.SeasonRows()
	sel := Selection{Statistic: "PassingAttempts", Limit: 50, Team: "All", Position: "QB"}

	first, err := s.ComputeView(sel)
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}
	second, err := s.ComputeView(sel)
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("ComputeView() is not idempotent")
	}
	if !reflect.DeepEqual(before, s.SeasonRows()) {
		t.Error("ComputeView() reordered or mutated season rows")
	}
}

func TestComputeView_Concurrent(t *testing.T) {
	s := largeStore(t, 300)
	want, err := s.ComputeView(Selection{Statistic: "PassingYards", Limit: 20, Team: "CHI", Position: "All"})
	if err != nil {
		t.Fatalf("ComputeView() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.ComputeView(Selection{Statistic: "PassingYards", Limit: 20, Team: "CHI", Position: "All"})
			if err != nil {
				errs <- err.Error()
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- "concurrent view differs"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func BenchmarkComputeView_LargeStore(b *testing.B) {
	s := largeStore(b, 2000)
	sel := Selection{Statistic: "PassingAttempts", Limit: 100, Team: "All", Position: "All"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.ComputeView(sel); err != nil {
			b.Fatal(err)
		}
	}
}
