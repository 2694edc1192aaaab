package report

import (
	"context"
	"fmt"
	"strings"

	"melodia-backend/internal/engine"
	"melodia-backend/internal/store"
)

// The ad hoc console accepts a single read-only statement. This is a guard
// against accidents, not a sandbox: the console is only reachable by an
// authenticated operator who already has full CRUD access.

// ValidateReadOnly rejects anything that is not a single SELECT or WITH
// statement.
func ValidateReadOnly(sqlStr string) *engine.AppError {
	trimmed := strings.TrimSpace(sqlStr)
	trimmed = strings.TrimSuffix(trimmed, ";")
	if trimmed == "" {
		return engine.NewAppError("INVALID_QUERY", 400, "Query is empty")
	}
	if strings.Contains(trimmed, ";") {
		return engine.NewAppError("INVALID_QUERY", 400, "Only a single statement is allowed")
	}
	first := strings.ToUpper(strings.Fields(trimmed)[0])
	if first != "SELECT" && first != "WITH" {
		return engine.NewAppError("INVALID_QUERY", 400, "Only SELECT queries are allowed")
	}
	return nil
}

// RunAdHoc validates and executes a read-only query, returning rows as maps.
func (g *Generator) RunAdHoc(ctx context.Context, sqlStr string, params []any) ([]map[string]any, error) {
	if appErr := ValidateReadOnly(sqlStr); appErr != nil {
		return nil, appErr
	}
	rows, err := store.QueryRows(ctx, g.db.DB, strings.TrimSpace(sqlStr), params...)
	if err != nil {
		return nil, fmt.Errorf("ad hoc query: %w", err)
	}
	return rows, nil
}
