package engine

import (
	"fmt"
	"strconv"
	"strings"

	"melodia-backend/internal/schema"
	"melodia-backend/internal/store"
)

// Filter restricts a listing to rows matching a single column. The value is
// the raw operator input; its interpretation depends on the column type.
type Filter struct {
	Column string
	Value  string
}

// IsZero reports whether the filter is absent.
func (f Filter) IsZero() bool {
	return f.Column == "" || f.Value == ""
}

// FilterNote reports a filter that could not be applied. The listing proceeds
// unfiltered; the note is surfaced to the caller instead of an error.
type FilterNote struct {
	Column  string `json:"column"`
	Message string `json:"message"`
}

// buildWhere translates a filter into a WHERE fragment (without the WHERE
// keyword), adding its parameters to pb. An empty fragment with a non-nil
// note means the filter was dropped.
func buildWhere(d store.Dialect, t *schema.Table, f Filter, pb store.ParamBuilder) (string, *FilterNote) {
	if f.IsZero() {
		return "", nil
	}

	col := t.GetColumn(f.Column)
	if col == nil {
		return "", &FilterNote{Column: f.Column, Message: fmt.Sprintf("unknown column %q, filter ignored", f.Column)}
	}

	// Comma-separated integer lists become an IN clause. Tokens that do not
	// parse are skipped; if nothing remains the filter is dropped.
	if col.Type.IsInteger() && strings.Contains(f.Value, ",") {
		var ids []int64
		for _, tok := range strings.Split(f.Value, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
				ids = append(ids, n)
			}
		}
		if len(ids) == 0 {
			return "", &FilterNote{Column: f.Column, Message: fmt.Sprintf("no valid ids in %q, filter ignored", f.Value)}
		}
		placeholders := make([]string, len(ids))
		for i, id := range ids {
			placeholders[i] = pb.Add(id)
		}
		return fmt.Sprintf("%s IN (%s)", quoteIdent(col.Name), strings.Join(placeholders, ", ")), nil
	}

	if col.Type == schema.Text {
		return d.ContainsExpr(quoteIdent(col.Name), pb, f.Value), nil
	}

	val, note := parseFilterValue(col, f.Value)
	if note != nil {
		return "", note
	}
	return fmt.Sprintf("%s = %s", quoteIdent(col.Name), pb.Add(val)), nil
}

// parseFilterValue parses the raw value in the column type's canonical
// external format for an equality match.
func parseFilterValue(col *schema.Column, raw string) (any, *FilterNote) {
	drop := func(format string) *FilterNote {
		return &FilterNote{
			Column:  col.Name,
			Message: fmt.Sprintf("%q is not a valid %s value, filter ignored", raw, format),
		}
	}

	switch col.Type {
	case schema.Integer, schema.AutoID:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, drop("integer")
		}
		return n, nil
	case schema.Boolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, drop("boolean")
	case schema.Date:
		if v, detail := coerceTemporal(col.Name, raw, dateLayout, "YYYY-MM-DD"); detail == nil && v != nil {
			return v, nil
		}
		return nil, drop("YYYY-MM-DD")
	case schema.Time:
		if v, detail := coerceTemporal(col.Name, raw, timeLayout, "HH:MM:SS"); detail == nil && v != nil {
			return v, nil
		}
		return nil, drop("HH:MM:SS")
	case schema.Timestamp:
		if v, detail := coerceTemporal(col.Name, raw, timestampLayout, "YYYY-MM-DD HH:MM:SS"); detail == nil && v != nil {
			return v, nil
		}
		return nil, drop("YYYY-MM-DD HH:MM:SS")
	default:
		return raw, nil
	}
}
