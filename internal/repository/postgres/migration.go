package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed migration/schema.sql
var schemaSQL string

// RunMigrations executes schema.sql to create the archive tables. The
// statements are idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("execute schema.sql: %w", err)
	}
	return nil
}
