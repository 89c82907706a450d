package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/lifehubapp/lifehub/pkg/db/migrations"
)

// Migrate brings the lifehub schema up to date. Safe to run on every start;
// an already-current database is a no-op.
func Migrate(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migration tables: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if group.ID == 0 {
		fmt.Println("lifehub schema is up to date")
		return nil
	}
	fmt.Printf("lifehub schema migrated to %s\n", group)
	return nil
}
