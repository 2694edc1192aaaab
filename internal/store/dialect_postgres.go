package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"melodia-backend/internal/schema"
)

// PostgresDialect implements Dialect for PostgreSQL via pgx/stdlib.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (d *PostgresDialect) NewParamBuilder() ParamBuilder {
	return &pgParamBuilder{}
}

func (d *PostgresDialect) ContainsExpr(column string, pb ParamBuilder, value string) string {
	ph := pb.Add("%" + value + "%")
	return fmt.Sprintf("%s ILIKE %s", column, ph)
}

func (d *PostgresDialect) ColumnType(t schema.ColumnType) string {
	switch t {
	case schema.Integer, schema.AutoID:
		return "INTEGER"
	case schema.Boolean:
		return "BOOLEAN"
	case schema.Date:
		return "DATE"
	case schema.Time:
		return "TIME"
	case schema.Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (d *PostgresDialect) AutoIDColumn(name string) string {
	return name + " SERIAL PRIMARY KEY"
}

func (d *PostgresDialect) TableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_name = $1 AND table_schema = 'public')`,
		tableName,
	).Scan(&exists)
	return exists, err
}

func (d *PostgresDialect) MapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
		case "23503":
			return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
		}
	}
	return err
}

func (d *PostgresDialect) OperatorTablesSQL() string {
	return pgOperatorTablesSQL
}

const pgOperatorTablesSQL = `
CREATE TABLE IF NOT EXISTS _operators (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    active        BOOLEAN NOT NULL DEFAULT true,
    created_at    TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _operator_tokens (
    token       UUID PRIMARY KEY,
    operator_id UUID NOT NULL REFERENCES _operators(id) ON DELETE CASCADE,
    expires_at  BIGINT NOT NULL,
    created_at  TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_operator_tokens_expires ON _operator_tokens(expires_at);
`

// Compile-time check
var _ Dialect = (*PostgresDialect)(nil)
