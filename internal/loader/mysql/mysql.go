// Package mysql registers the "mysql" load target.
package mysql

import (
	"context"

	"github.com/go-sql-driver/mysql"

	"jsonflake/internal/ddl"
	"jsonflake/internal/loader"
	"jsonflake/internal/loader/sqldb"
	apperrors "jsonflake/pkg/errors"
)

func init() {
	loader.RegisterTarget("mysql", Open)
}

func Open(ctx context.Context, cfg loader.Config) (loader.Target, error) {
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	return sqldb.Open(ctx, "mysql", dsn, ddl.MySQL)
}

// normalizeDSN turns on parseTime so DATETIME columns round-trip as time.Time
func normalizeDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "Invalid MySQL DSN").
			WithSuggestions("Use the form user:password@tcp(host:3306)/database")
	}
	c.ParseTime = true
	return c.FormatDSN(), nil
}
