package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultStatisticOffset is the index of the first statistic column in the
// season export.
const DefaultStatisticOffset = 8

// StoreOptions controls how raw tables are interpreted.
type StoreOptions struct {
	// StatisticOffset is the index of the first statistic column.
	StatisticOffset int
}

// Store holds the season and player tables for the process lifetime.
//
// A Store is immutable after NewStore returns. Every accessor returns a copy
// or a value that does not alias internal slices, so any number of
// goroutines may read from it without synchronization.
type Store struct {
	loadID uuid.UUID

	statistics []string
	statIndex  map[string]int
	season     []SeasonRecord

	teams     []string
	positions []string

	playerColumns []ColumnMeta
	players       [][]string // display projection, hidden columns dropped
}

// NewStore validates both tables and builds an immutable Store.
// Any error here is fatal for the dashboard.
func NewStore(season, player Table, opts StoreOptions) (*Store, error) {
	layout, err := ValidateSeasonHeader(season, opts.StatisticOffset)
	if err != nil {
		return nil, err
	}
	if err := validateRecordWidth(season); err != nil {
		return nil, err
	}
	if err := ValidatePlayerHeader(player); err != nil {
		return nil, err
	}
	if err := validateRecordWidth(player); err != nil {
		return nil, err
	}

	s := &Store{
		loadID:     uuid.New(),
		statistics: layout.Statistics,
		statIndex:  make(map[string]int, len(layout.Statistics)),
	}
	for i, name := range layout.Statistics {
		s.statIndex[name] = i
	}

	if err := s.loadSeason(season, layout); err != nil {
		return nil, err
	}
	s.loadPlayers(player)

	return s, nil
}

// loadSeason converts season records and collects the team and position domains.
func (s *Store) loadSeason(t Table, layout SeasonLayout) error {
	s.season = make([]SeasonRecord, 0, len(t.Records))
	seenTeam := make(map[string]bool)
	seenPos := make(map[string]bool)

	for i, rec := range t.Records {
		rec = padRecord(rec, len(t.Columns))
		r := SeasonRecord{
			Name:     CleanCell(rec[layout.Name]),
			Team:     CleanCell(rec[layout.Team]),
			Position: CleanCell(rec[layout.Position]),
			Stats:    make([]pgtype.Float8, len(layout.Statistics)),
		}

		for j := range layout.Statistics {
			raw := rec[layout.StatStart+j]
			if IsBlank(raw) {
				continue
			}
			v := ToPgFloat8(raw)
			if !v.Valid {
				return &CellError{
					Table:  t.Name,
					Line:   i + 2,
					Column: layout.Statistics[j],
					Value:  raw,
				}
			}
			r.Stats[j] = v
		}

		if !seenTeam[r.Team] {
			seenTeam[r.Team] = true
			s.teams = append(s.teams, r.Team)
		}
		if !seenPos[r.Position] {
			seenPos[r.Position] = true
			s.positions = append(s.positions, r.Position)
		}

		s.season = append(s.season, r)
	}

	return nil
}

// loadPlayers projects the player table to its display columns and infers
// each column's type.
func (s *Store) loadPlayers(t Table) {
	cols := t.Columns[PlayerHiddenColumns:]
	s.playerColumns = make([]ColumnMeta, len(cols))
	s.players = make([][]string, len(t.Records))

	for i, rec := range t.Records {
		rec = padRecord(rec, len(t.Columns))
		row := make([]string, len(cols))
		for j := range cols {
			row[j] = CleanCell(rec[PlayerHiddenColumns+j])
		}
		s.players[i] = row
	}

	for j, name := range cols {
		s.playerColumns[j] = ColumnMeta{Name: CleanCell(name), Type: inferColumnType(s.players, j)}
	}
}

// inferColumnType reports FieldNumeric when every non-empty cell is a number
// and at least one cell is non-empty.
func inferColumnType(rows [][]string, col int) FieldType {
	sawValue := false
	for _, row := range rows {
		if row[col] == "" {
			continue
		}
		if !IsNumericCell(row[col]) {
			return FieldText
		}
		sawValue = true
	}
	if sawValue {
		return FieldNumeric
	}
	return FieldText
}

// padRecord extends a short record with empty cells.
func padRecord(rec []string, width int) []string {
	if len(rec) >= width {
		return rec
	}
	padded := make([]string, width)
	copy(padded, rec)
	return padded
}

// LoadID identifies this load of the dataset. It changes every time the
// process starts and is used for ETags and log correlation.
func (s *Store) LoadID() string {
	return s.loadID.String()
}

// StatisticColumns returns the selectable statistic columns in header order.
func (s *Store) StatisticColumns() []string {
	return append([]string(nil), s.statistics...)
}

// HasStatistic reports whether name is a statistic column.
func (s *Store) HasStatistic(name string) bool {
	_, ok := s.statIndex[name]
	return ok
}

// TeamDomain returns the distinct teams in order of first appearance.
func (s *Store) TeamDomain() []string {
	return append([]string(nil), s.teams...)
}

// PositionDomain returns the distinct positions in order of first appearance.
func (s *Store) PositionDomain() []string {
	return append([]string(nil), s.positions...)
}

// TeamOptions returns the team dropdown choices: the "All" sentinel followed
// by the team domain.
func (s *Store) TeamOptions() []string {
	return append([]string{AllValues}, s.teams...)
}

// PositionOptions returns the position dropdown choices: the "All" sentinel
// followed by the position domain.
func (s *Store) PositionOptions() []string {
	return append([]string{AllValues}, s.positions...)
}

// SeasonRows returns a copy of the season records.
func (s *Store) SeasonRows() []SeasonRecord {
	rows := make([]SeasonRecord, len(s.season))
	for i, r := range s.season {
		r.Stats = append([]pgtype.Float8(nil), r.Stats...)
		rows[i] = r
	}
	return rows
}

// SeasonCount returns the number of season records.
func (s *Store) SeasonCount() int {
	return len(s.season)
}

// PlayerColumns returns the displayed player columns.
func (s *Store) PlayerColumns() []ColumnMeta {
	return append([]ColumnMeta(nil), s.playerColumns...)
}

// PlayerRows returns a copy of every player row, projected to the displayed
// columns.
func (s *Store) PlayerRows() [][]string {
	rows := make([][]string, len(s.players))
	for i, r := range s.players {
		rows[i] = append([]string(nil), r...)
	}
	return rows
}

// PlayerCount returns the number of player rows.
func (s *Store) PlayerCount() int {
	return len(s.players)
}

// statisticIndex resolves a statistic column or returns ErrInvalidSelection.
func (s *Store) statisticIndex(name string) (int, error) {
	i, ok := s.statIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown statistic %q", ErrInvalidSelection, name)
	}
	return i, nil
}
