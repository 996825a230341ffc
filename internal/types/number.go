// README: Normalisation of loosely typed numeric settings into float64.
package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// float64Valuer matches pgtype.Numeric and any other driver decimal wrapper.
type float64Valuer interface {
	Float64Value() (pgtype.Float8, error)
}

// ToNumber converts a settings value to a plain float64. Unknown, null and
// non-finite inputs become 0 so calculation code never sees anything but numbers.
func ToNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case *float64:
		if n == nil {
			return 0
		}
		f = *n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case pgtype.Numeric:
		return numericToFloat(n)
	case *pgtype.Numeric:
		if n == nil {
			return 0
		}
		return numericToFloat(*n)
	case float64Valuer:
		fv, err := n.Float64Value()
		if err != nil || !fv.Valid {
			return 0
		}
		f = fv.Float64
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToNumberPtr is ToNumber for nullable columns: null stays nil.
func ToNumberPtr(v pgtype.Numeric) *float64 {
	if !v.Valid {
		return nil
	}
	f := numericToFloat(v)
	return &f
}

func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid || n.NaN {
		return 0
	}
	fv, err := n.Float64Value()
	if err != nil || !fv.Valid {
		return 0
	}
	return fv.Float64
}
