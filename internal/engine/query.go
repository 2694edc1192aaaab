package engine

import (
	"fmt"
	"strings"

	"melodia-backend/internal/schema"
	"melodia-backend/internal/store"
)

// SQL assembly. Identifiers are embedded through quoteIdent, values only ever
// as bound parameters.

// quoteIdent wraps an identifier in double quotes, doubling any embedded
// quote. Both dialects accept this form.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func selectColumns(t *schema.Table) string {
	quoted := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		quoted[i] = quoteIdent(c.Name)
	}
	return strings.Join(quoted, ", ")
}

// BuildCountSQL builds SELECT COUNT(*) with the filter's WHERE clause.
func BuildCountSQL(d store.Dialect, t *schema.Table, f Filter) (string, []any, *FilterNote) {
	pb := d.NewParamBuilder()
	where, note := buildWhere(d, t, f, pb)

	sql := fmt.Sprintf("SELECT COUNT(*) AS total FROM %s", quoteIdent(t.Name))
	if where != "" {
		sql += " WHERE " + where
	}
	return sql, pb.Params(), note
}

// BuildListSQL selects all declared columns in schema order with the same
// WHERE clause as the count. Ordering by the id column keeps pagination
// deterministic across calls.
func BuildListSQL(d store.Dialect, t *schema.Table, f Filter, limit, offset int) (string, []any, *FilterNote) {
	pb := d.NewParamBuilder()
	where, note := buildWhere(d, t, f, pb)

	sql := fmt.Sprintf("SELECT %s FROM %s", selectColumns(t), quoteIdent(t.Name))
	if where != "" {
		sql += " WHERE " + where
	}
	sql += fmt.Sprintf(" ORDER BY %s LIMIT %s OFFSET %s",
		quoteIdent(t.IDColumn), pb.Add(limit), pb.Add(offset))
	return sql, pb.Params(), note
}

// BuildSelectOneSQL selects a single row by id.
func BuildSelectOneSQL(d store.Dialect, t *schema.Table, id int64) (string, []any) {
	pb := d.NewParamBuilder()
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		selectColumns(t), quoteIdent(t.Name), quoteIdent(t.IDColumn), pb.Add(id))
	return sql, pb.Params()
}

// BuildInsertSQL builds INSERT ... RETURNING id. The id column is never among
// cols; the database generates it.
func BuildInsertSQL(d store.Dialect, t *schema.Table, cols []string, values []any) (string, []any) {
	pb := d.NewParamBuilder()
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		placeholders[i] = pb.Add(values[i])
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quoteIdent(t.Name),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
		quoteIdent(t.IDColumn))
	return sql, pb.Params()
}

// BuildUpdateSQL builds UPDATE ... SET col = ?, ... WHERE id = ?.
func BuildUpdateSQL(d store.Dialect, t *schema.Table, cols []string, values []any, id int64) (string, []any) {
	pb := d.NewParamBuilder()
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = %s", quoteIdent(c), pb.Add(values[i]))
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		quoteIdent(t.Name),
		strings.Join(sets, ", "),
		quoteIdent(t.IDColumn), pb.Add(id))
	return sql, pb.Params()
}

// BuildDeleteSQL builds DELETE FROM ... WHERE id = ?.
func BuildDeleteSQL(d store.Dialect, t *schema.Table, id int64) (string, []any) {
	pb := d.NewParamBuilder()
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		quoteIdent(t.Name), quoteIdent(t.IDColumn), pb.Add(id))
	return sql, pb.Params()
}
