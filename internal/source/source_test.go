package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/JonMunkholm/statdash/internal/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestFileLoader(t *testing.T) {
	tests := []struct {
		path    string
		want    Loader
		wantErr error
	}{
		{"data/season.csv", CSVLoader{Path: "data/season.csv"}, nil},
		{"data/season.CSV", CSVLoader{Path: "data/season.CSV"}, nil},
		{"Player.2022.xlsx", XLSXLoader{Path: "Player.2022.xlsx", Sheet: "Player.2022"}, nil},
		{"macro.xlsm", XLSXLoader{Path: "macro.xlsm", Sheet: "Player.2022"}, nil},
		{"legacy.xls", nil, ErrUnsupportedFormat},
		{"noext", nil, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FileLoader(tt.path, "Player.2022")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FileLoader() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FileLoader() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuildTable(t *testing.T) {
	rows := [][]string{
		{"", ""},
		{"Name", "Team", "Position"},
		{"A", "TeamX"},
		{" ", "", ""},
		{"B", "TeamY", "QB", "extra"},
	}

	got, err := buildTable("season", rows)
	if err != nil {
		t.Fatalf("buildTable() error = %v", err)
	}

	want := core.Table{
		Name:    "season",
		Columns: []string{"Name", "Team", "Position"},
		Records: [][]string{
			{"A", "TeamX", ""},
			{"B", "TeamY", "QB", "extra"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildTable() = %+v, want %+v", got, want)
	}

	if _, err := buildTable("season", [][]string{{""}}); !errors.Is(err, core.ErrEmptyTable) {
		t.Errorf("buildTable(blank) error = %v, want ErrEmptyTable", err)
	}
}

func TestTableName(t *testing.T) {
	if got := tableName("/data/Player.2022.xlsx"); got != "Player.2022" {
		t.Errorf("tableName() = %q, want Player.2022", got)
	}
}

type stubLoader struct {
	table core.Table
	err   error
}

func (s stubLoader) Load(ctx context.Context) (core.Table, error) {
	if s.err != nil {
		return core.Table{}, s.err
	}
	return s.table, ctx.Err()
}

func TestPair_Load(t *testing.T) {
	season := core.Table{Name: "season", Columns: []string{"Name"}}
	player := core.Table{Name: "player", Columns: []string{"PlayerID"}}

	gotSeason, gotPlayer, err := Pair{Season: stubLoader{table: season}, Player: stubLoader{table: player}}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if gotSeason.Name != "season" || gotPlayer.Name != "player" {
		t.Errorf("Load() = (%q, %q), want (season, player)", gotSeason.Name, gotPlayer.Name)
	}
}

func TestPair_LoadError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Pair{
		Season: stubLoader{table: core.Table{Name: "season"}},
		Player: stubLoader{err: boom},
	}.Load(context.Background())

	if !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v, want boom", err)
	}
	if got := err.Error(); got != "load player table: boom" {
		t.Errorf("Load() error = %q", got)
	}
}
