package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"melodia-backend/internal/schema"
)

// Migrator creates the managed tables from their schema definitions.
type Migrator struct {
	store *Store
}

func NewMigrator(store *Store) *Migrator {
	return &Migrator{store: store}
}

// EnsureSchema creates every missing managed table plus the operator auth
// tables. Tables must be given in dependency order so foreign key references
// resolve.
func (m *Migrator) EnsureSchema(ctx context.Context, tables []*schema.Table) error {
	for _, t := range tables {
		exists, err := m.store.Dialect.TableExists(ctx, m.store.DB, t.Name)
		if err != nil {
			return fmt.Errorf("check table %s: %w", t.Name, err)
		}
		if exists {
			continue
		}
		if err := m.createTable(ctx, t); err != nil {
			return err
		}
	}

	if _, err := m.store.DB.ExecContext(ctx, m.store.Dialect.OperatorTablesSQL()); err != nil {
		return fmt.Errorf("create operator tables: %w", err)
	}
	return nil
}

func (m *Migrator) createTable(ctx context.Context, t *schema.Table) error {
	var defs []string
	for _, c := range t.Columns {
		if c.Name == t.IDColumn && c.Type == schema.AutoID {
			defs = append(defs, m.store.Dialect.AutoIDColumn(c.Name))
			continue
		}
		defs = append(defs, c.Name+" "+m.store.Dialect.ColumnType(c.Type))
	}
	defs = append(defs, t.Constraints...)

	ddl := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", t.Name, strings.Join(defs, ",\n  "))
	if _, err := m.store.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	return nil
}

// SeedOperator creates the initial operator account if no operator exists.
func (m *Migrator) SeedOperator(ctx context.Context, email, password string) error {
	var count int
	countSQL := "SELECT COUNT(*) FROM _operators"
	if err := m.store.DB.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		return fmt.Errorf("count operators: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash operator password: %w", err)
	}

	d := m.store.Dialect
	insertSQL := fmt.Sprintf(
		"INSERT INTO _operators (id, email, password_hash) VALUES (%s, %s, %s)",
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3),
	)
	if _, err := m.store.DB.ExecContext(ctx, insertSQL, uuid.New().String(), email, string(hash)); err != nil {
		return fmt.Errorf("seed operator: %w", err)
	}

	log.Printf("WARNING: default operator created (%s), change the password immediately", email)
	return nil
}
