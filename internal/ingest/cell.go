// Package ingest turns raw spreadsheet rows into project bundles.
//
// Every read of a raw row goes through Get, which owns the blank-cell policy:
// nil, out-of-range and whitespace-only cells all read as absent.
package ingest

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Row is one spreadsheet row of raw cell values in column order.
type Row []any

// Get returns the cell at index, or def when the cell is absent.
// Strings are returned trimmed. Get never panics.
func Get(row Row, index int, def any) any {
	if index < 0 || index >= len(row) {
		return def
	}

	switch v := row[index].(type) {
	case nil:
		return def
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return def
		}
		return s
	default:
		return v
	}
}

// Present reports whether the cell at index holds a value.
func Present(row Row, index int) bool {
	return Get(row, index, nil) != nil
}

// String returns the cell as text, or def when absent or not convertible.
func String(row Row, index int, def string) string {
	v := Get(row, index, nil)
	if v == nil {
		return def
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Int returns the cell as an integer truncated toward zero, or def when the
// cell is absent or not numeric.
func Int(row Row, index int, def int64) int64 {
	f, ok := number(row, index)
	if !ok || f >= math.MaxInt64 || f <= math.MinInt64 {
		return def
	}
	return int64(f)
}

// Float returns the cell as a float, or def when the cell is absent or not numeric.
func Float(row Row, index int, def float64) float64 {
	f, ok := number(row, index)
	if !ok {
		return def
	}
	return f
}

// Bool accepts yes/no, y/n and anything strconv.ParseBool understands.
func Bool(row Row, index int, def bool) bool {
	v := Get(row, index, nil)
	if v == nil {
		return def
	}

	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// number parses a numeric cell. Thousands separators are stripped
// ("1,00,00,000" is a common way to write one crore). NaN and Inf are rejected.
func number(row Row, index int) (float64, bool) {
	v := Get(row, index, nil)
	if v == nil {
		return 0, false
	}

	if s, ok := v.(string); ok {
		v = strings.ReplaceAll(s, ",", "")
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isScalar reports whether v is a value a spreadsheet cell can hold.
func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number, time.Time,
		float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}
