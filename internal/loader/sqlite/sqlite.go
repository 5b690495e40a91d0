// Package sqlite registers the "sqlite" load target. The DSN is a file path
// or any modernc.org/sqlite URI.
package sqlite

import (
	"context"

	_ "modernc.org/sqlite"

	"jsonflake/internal/ddl"
	"jsonflake/internal/loader"
	"jsonflake/internal/loader/sqldb"
)

func init() {
	loader.RegisterTarget("sqlite", Open)
}

// Open opens the database file; writes are serialized on one connection
func Open(ctx context.Context, cfg loader.Config) (loader.Target, error) {
	db, err := sqldb.Open(ctx, "sqlite", cfg.DSN, ddl.SQLite)
	if err != nil {
		return nil, err
	}
	db.SQL().SetMaxOpenConns(1)
	return db, nil
}
