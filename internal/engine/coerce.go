package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"melodia-backend/internal/schema"
)

// Canonical external formats. Date/time values are stored and compared as
// canonical strings, which both dialects accept as parameters for their
// date/time column types and which round-trip unchanged through SQLite.
const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	timestampLayout = "2006-01-02 15:04:05"
)

// coerceWrite converts an external value (form string or JSON-decoded value)
// into the typed parameter a statement expects. A nil result means SQL NULL.
// A non-nil ErrorDetail aborts the whole write; per-record fail-fast.
func coerceWrite(col schema.Column, v any) (any, *ErrorDetail) {
	switch col.Type {
	case schema.Integer:
		return coerceInt(col.Name, v)
	case schema.Boolean:
		// Anything that is not a recognizable boolean becomes NULL, never an
		// error. Preserved legacy behavior.
		return coerceBool(v), nil
	case schema.Date:
		return coerceTemporal(col.Name, v, dateLayout, "YYYY-MM-DD")
	case schema.Time:
		return coerceTemporal(col.Name, v, timeLayout, "HH:MM:SS")
	case schema.Timestamp:
		return coerceTemporal(col.Name, v, timestampLayout, "YYYY-MM-DD HH:MM:SS")
	default:
		return coerceText(col.Name, v)
	}
}

func coerceInt(field string, v any) (any, *ErrorDetail) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &ErrorDetail{Field: field, Message: fmt.Sprintf("%q is not an integer", val)}
		}
		return n, nil
	case float64:
		// JSON numbers decode as float64
		if val != math.Trunc(val) {
			return nil, &ErrorDetail{Field: field, Message: fmt.Sprintf("%v is not an integer", val)}
		}
		return int64(val), nil
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	default:
		return nil, &ErrorDetail{Field: field, Message: fmt.Sprintf("cannot use %T as integer", v)}
	}
}

func coerceBool(v any) any {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true":
			return true
		case "false":
			return false
		}
		return nil
	default:
		return nil
	}
}

func coerceTemporal(field string, v any, layout, label string) (any, *ErrorDetail) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return val.Format(layout), nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, &ErrorDetail{
				Field:   field,
				Message: fmt.Sprintf("%q does not match format %s", val, label),
			}
		}
		return t.Format(layout), nil
	default:
		return nil, &ErrorDetail{Field: field, Message: fmt.Sprintf("cannot use %T as %s", v, label)}
	}
}

func coerceText(field string, v any) (any, *ErrorDetail) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if val == "" {
			// empty text is stored as NULL, never ""
			return nil, nil
		}
		return val, nil
	default:
		return nil, &ErrorDetail{Field: field, Message: fmt.Sprintf("cannot use %T as text", v)}
	}
}

// formatEdit converts a database value into the representation a form layer
// expects: canonical strings for date/time values, native booleans, integers
// as-is.
func formatEdit(col schema.Column, v any) any {
	if v == nil {
		return nil
	}
	switch col.Type {
	case schema.Date:
		return formatTemporal(v, dateLayout)
	case schema.Time:
		return formatTemporal(v, timeLayout)
	case schema.Timestamp:
		return formatTemporal(v, timestampLayout)
	case schema.Boolean:
		return asBool(v)
	default:
		return v
	}
}

// formatDisplay is formatEdit with booleans rendered as the tri-state
// "True"/"False"/"" used by listing grids.
func formatDisplay(col schema.Column, v any) any {
	if col.Type == schema.Boolean {
		b, ok := asBool(v).(bool)
		if !ok {
			return ""
		}
		if b {
			return "True"
		}
		return "False"
	}
	return formatEdit(col, v)
}

// formatTemporal renders a scanned date/time value in the canonical layout.
// Drivers hand back time.Time (postgres) or strings (sqlite); strings that
// are already canonical pass through, other recognizable encodings are
// re-rendered.
func formatTemporal(v any, layout string) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(layout)
	case string:
		if _, err := time.Parse(layout, val); err == nil {
			return val
		}
		for _, alt := range []string{time.RFC3339Nano, time.RFC3339, timestampLayout, dateLayout} {
			if t, err := time.Parse(alt, val); err == nil {
				return t.Format(layout)
			}
		}
		return val
	default:
		return v
	}
}

func asBool(v any) any {
	switch val := v.(type) {
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	default:
		return nil
	}
}
