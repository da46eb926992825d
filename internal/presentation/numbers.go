// Package presentation holds the pure helpers report templates use. None of
// them panic: bad input yields the documented zero value.
package presentation

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// toFloat accepts Go numbers, decimals and numeric strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	case *decimal.Decimal:
		if n == nil {
			return 0, false
		}
		return n.InexactFloat64(), true
	case decimal.NullDecimal:
		if !n.Valid {
			return 0, false
		}
		return n.Decimal.InexactFloat64(), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Divide returns a/b, or 0 when b is zero or either side is not numeric.
func Divide(a, b any) float64 {
	x, ok := toFloat(a)
	if !ok {
		return 0
	}
	y, ok := toFloat(b)
	if !ok || y == 0 {
		return 0
	}
	return x / y
}

// Multiply returns a*b, or 0 when either side is not numeric.
func Multiply(a, b any) float64 {
	x, okA := toFloat(a)
	y, okB := toFloat(b)
	if !okA || !okB {
		return 0
	}
	return x * y
}

// Add returns a+b, or 0 when either side is not numeric.
func Add(a, b any) float64 {
	x, okA := toFloat(a)
	y, okB := toFloat(b)
	if !okA || !okB {
		return 0
	}
	return x + y
}

// Percent is Divide(part, total) * 100.
func Percent(part, total any) float64 {
	return Divide(part, total) * 100
}
