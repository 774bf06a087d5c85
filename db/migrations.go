// Package db holds the SQL schema migrations for the local authority tables.
package db

import "embed"

// Migrations contains the up/down migration files, embedded for production builds.
//
//go:embed migrations/*.sql
var Migrations embed.FS
