package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"melodia-backend/internal/schema"
)

// SQLiteDialect implements Dialect for SQLite via modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) Placeholder(index int) string {
	return fmt.Sprintf("?%d", index)
}

func (d *SQLiteDialect) NewParamBuilder() ParamBuilder {
	return &sqliteParamBuilder{}
}

func (d *SQLiteDialect) ContainsExpr(column string, pb ParamBuilder, value string) string {
	ph := pb.Add("%" + value + "%")
	return fmt.Sprintf("%s LIKE %s", column, ph)
}

func (d *SQLiteDialect) ColumnType(t schema.ColumnType) string {
	switch t {
	case schema.Integer, schema.AutoID:
		return "INTEGER"
	case schema.Boolean:
		return "INTEGER"
	default:
		// SQLite has no native date/time types; they are stored as TEXT in
		// the engine's canonical formats.
		return "TEXT"
	}
}

func (d *SQLiteDialect) AutoIDColumn(name string) string {
	return name + " INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (d *SQLiteDialect) TableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?1",
		tableName,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *SQLiteDialect) MapError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
	}
	return err
}

func (d *SQLiteDialect) OperatorTablesSQL() string {
	return sqliteOperatorTablesSQL
}

const sqliteOperatorTablesSQL = `
CREATE TABLE IF NOT EXISTS _operators (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    active        INTEGER NOT NULL DEFAULT 1,
    created_at    TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _operator_tokens (
    token       TEXT PRIMARY KEY,
    operator_id TEXT NOT NULL REFERENCES _operators(id) ON DELETE CASCADE,
    expires_at  INTEGER NOT NULL,
    created_at  TEXT DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_operator_tokens_expires ON _operator_tokens(expires_at);
`

// Compile-time check
var _ Dialect = (*SQLiteDialect)(nil)
