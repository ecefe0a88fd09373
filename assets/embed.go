package assets

import "embed"

// MigrationFiles holds the config server's schema migrations under
// MigrationsDir.
//
//go:embed migrations/*.sql
var MigrationFiles embed.FS

// MigrationsDir is the directory inside MigrationFiles holding the migrations.
const MigrationsDir = "migrations"
