// Package migrations registers the database schema migrations.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the collection run by db.Migrate.
var Migrations = migrate.NewMigrations()
