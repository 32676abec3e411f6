package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const tableName = "history"

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		rot_type TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS history_created_at ON history(created_at)`,
}

var requiredColumns = []string{"id", "action", "rot_type", "detail", "created_at"}

type column struct {
	Name    string
	Type    string
	NotNull bool
	PK      bool
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	cols, err := tableColumns(ctx, db, tableName)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for _, c := range cols {
		have[c.Name] = true
	}
	var missing []string
	for _, name := range requiredColumns {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", tableName, strings.Join(missing, ", "))
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()
	var cols []column
	for rows.Next() {
		var cid, notnull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		cols = append(cols, column{Name: name, Type: colType, NotNull: notnull == 1, PK: pk > 0})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table_info %s: %w", table, err)
	}
	return cols, nil
}

func quoteIdent(name string) string {
	return "\"" + strings.ReplaceAll(name, "\"", "\"\"") + "\""
}
