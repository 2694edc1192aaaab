package schema

// Table declares one managed database table: its name, ordered columns, and
// the identifier column used for single-row operations and list ordering.
// Column order determines SELECT and display order. Tables are immutable
// after construction.
type Table struct {
	Name     string   `json:"name"`
	IDColumn string   `json:"id_column"`
	Columns  []Column `json:"columns"`

	// Constraints holds extra DDL clauses (foreign keys, composite primary
	// keys) appended verbatim when the table is created.
	Constraints []string `json:"-"`
}

// GetColumn returns the column with the given name, or nil.
func (t *Table) GetColumn(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether the table declares a column with the given name.
func (t *Table) HasColumn(name string) bool {
	return t.GetColumn(name) != nil
}

// ColumnNames returns all column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// DataColumns returns the columns that carry row data: every column except
// the identifier. These are the writable columns for create and update.
func (t *Table) DataColumns() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == t.IDColumn {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}
