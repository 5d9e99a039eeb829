package core

import (
	"errors"

	"github.com/jackc/pgx/v5/pgtype"
)

// AllValues is the sentinel filter value meaning "no restriction on this field".
const AllValues = "All"

// Required season table columns.
const (
	ColumnName     = "Name"
	ColumnTeam     = "Team"
	ColumnPosition = "Position"
)

// PlayerHiddenColumns is how many leading player columns are identifiers
// excluded from every rendered projection.
const PlayerHiddenColumns = 2

var (
	// ErrInvalidSelection is returned when a caller passes a statistic, limit,
	// column or operator that the store does not accept.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrMissingColumn is returned when a table lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedTable is returned when a table cannot be interpreted.
	ErrMalformedTable = errors.New("malformed table")

	// ErrEmptyTable is returned when a table has no header row.
	ErrEmptyTable = errors.New("empty table")
)

// Table is a raw tabular source: a header row plus string cells.
// Loaders pad short records to the header width.
type Table struct {
	Name    string
	Columns []string
	Records [][]string
}

// FieldType represents the inferred data type of a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
)

// String returns the JSON name of the field type.
func (ft FieldType) String() string {
	if ft == FieldNumeric {
		return "numeric"
	}
	return "text"
}

// MarshalText lets FieldType encode as "text" or "numeric".
func (ft FieldType) MarshalText() ([]byte, error) {
	return []byte(ft.String()), nil
}

// SeasonRecord is one player's statistics for one season.
// Stats is aligned with Store.StatisticColumns; invalid entries are nulls.
type SeasonRecord struct {
	Name     string
	Team     string
	Position string
	Stats    []pgtype.Float8
}

// Selection is the complete set of dashboard inputs for one chart render.
type Selection struct {
	Statistic string `json:"statistic"`
	Limit     int    `json:"limit"`
	Team      string `json:"team"`
	Position  string `json:"position"`
}

// Bar is one category of the bar chart.
type Bar struct {
	Name  string        `json:"name"`
	Value pgtype.Float8 `json:"value"`
}

// View describes one bar chart, ready to render.
type View struct {
	Title string `json:"title"`
	X     string `json:"x"`
	Y     string `json:"y"`
	Bars  []Bar  `json:"bars"`
}

// FilterOperator represents a comparison operator for column filters.
type FilterOperator string

const (
	OpContains   FilterOperator = "contains"
	OpEquals     FilterOperator = "eq"
	OpStartsWith FilterOperator = "starts"
	OpEndsWith   FilterOperator = "ends"
	OpGreaterEq  FilterOperator = "gte"
	OpLessEq     FilterOperator = "lte"
	OpGreater    FilterOperator = "gt"
	OpLess       FilterOperator = "lt"
	OpIn         FilterOperator = "in"
)

// ColumnFilter represents a single filter condition on a player column.
type ColumnFilter struct {
	Column   string         // Display column name
	Operator FilterOperator // Comparison operator
	Value    string         // Filter value (comma-separated for OpIn)
}

// FilterSet represents all active filters (combined with AND logic).
type FilterSet struct {
	Filters []ColumnFilter
}

// SortSpec represents a single sort column and direction.
type SortSpec struct {
	Column string `json:"column"`
	Dir    string `json:"dir"` // "asc" or "desc"
}

// MaxSorts is the maximum number of sort columns applied to the player table.
const MaxSorts = 3

// ColumnMeta describes one displayed player column.
type ColumnMeta struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// PlayerQuery selects one page of the player table.
type PlayerQuery struct {
	Page     int
	PageSize int
	Sorts    []SortSpec
	Filters  FilterSet
}

// PlayerPage contains one page of player rows.
type PlayerPage struct {
	Columns    []ColumnMeta `json:"columns"`
	Rows       [][]string   `json:"rows"`
	TotalRows  int          `json:"total_rows"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	Sorts      []SortSpec   `json:"sorts,omitempty"`
}
