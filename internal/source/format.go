package source

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// FormatCell renders a database value as the string a spreadsheet export
// would hold. NULL becomes the empty cell.
func FormatCell(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return formatFloat(f.Float64)

	case pgtype.Float8:
		if !val.Valid {
			return ""
		}
		return formatFloat(val.Float64)

	case pgtype.Date:
		if !val.Valid {
			return ""
		}
		return val.Time.Format("2006-01-02")

	case pgtype.Text:
		if !val.Valid {
			return ""
		}
		return val.String

	case pgtype.Bool:
		if !val.Valid {
			return ""
		}
		return formatBool(val.Bool)

	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02T15:04:05")

	case bool:
		return formatBool(val)

	case string:
		return val

	case []byte:
		return string(val)

	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)

	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))

	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatFloat keeps full precision; integers within 2^53 print without a
// decimal point.
func formatFloat(f float64) string {
	if math.Abs(f) < 1<<53 && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
