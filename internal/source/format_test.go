package source

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "QB", "QB"},
		{"bytes", []byte("TeamX"), "TeamX"},
		{"int64", int64(4200), "4200"},
		{"int32", int32(-7), "-7"},
		{"int16", int16(12), "12"},
		{"int", 3, "3"},
		{"integral float", float64(300), "300"},
		{"fractional float", 3.125, "3.125"},
		{"float beyond int64", 1e20, "100000000000000000000"},
		{"negative float beyond int64", -1e20, "-100000000000000000000"},
		{"float32", float32(0.5), "0.5"},
		{"bool true", true, "Yes"},
		{"bool false", false, "No"},
		{"date", time.Date(2022, 9, 11, 0, 0, 0, 0, time.UTC), "2022-09-11"},
		{"timestamp", time.Date(2023, 1, 1, 13, 4, 5, 0, time.UTC), "2023-01-01T13:04:05"},
		{"zero time", time.Time{}, ""},
		{"numeric", pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}, "123.45"},
		{"numeric integer", pgtype.Numeric{Int: big.NewInt(31), Exp: 2, Valid: true}, "3100"},
		{"numeric null", pgtype.Numeric{}, ""},
		{"float8", pgtype.Float8{Float64: 1.5, Valid: true}, "1.5"},
		{"float8 null", pgtype.Float8{}, ""},
		{"pg date", pgtype.Date{Time: time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC), Valid: true}, "2022-01-02"},
		{"pg text", pgtype.Text{String: "WR", Valid: true}, "WR"},
		{"pg text null", pgtype.Text{}, ""},
		{"pg bool", pgtype.Bool{Bool: true, Valid: true}, "Yes"},
		{"pg bool null", pgtype.Bool{}, ""},
		{"other", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCell(tt.in); got != tt.want {
				t.Errorf("FormatCell(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
