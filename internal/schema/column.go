package schema

// ColumnType is the logical data kind of a column, independent of how a
// particular database driver represents it.
type ColumnType string

const (
	Integer   ColumnType = "integer"
	Text      ColumnType = "text"
	Boolean   ColumnType = "boolean"
	Date      ColumnType = "date"
	Time      ColumnType = "time"
	Timestamp ColumnType = "timestamp"
	// AutoID is a database-generated integer primary key. It filters and
	// displays like Integer but is never writable.
	AutoID ColumnType = "auto_id"
)

// IsInteger reports whether values of this type are decimal integers on the
// wire (AutoID keys included).
func (t ColumnType) IsInteger() bool {
	return t == Integer || t == AutoID
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}
