// Package sqldb is the database/sql implementation of loader.Target shared by
// the Snowflake, SQLite, SQL Server and MySQL backends.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"jsonflake/internal/ddl"
	apperrors "jsonflake/pkg/errors"
)

// DB loads tables through a *sql.DB
type DB struct {
	db      *sql.DB
	dialect *ddl.Dialect
}

// New wraps an open handle
func New(db *sql.DB, dialect *ddl.Dialect) *DB {
	return &DB{db: db, dialect: dialect}
}

// Open opens driverName with dsn and pings it
func Open(ctx context.Context, driverName, dsn string, dialect *ddl.Dialect) (*DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, apperrors.ConnectionError(fmt.Sprintf("failed to open %s connection", dialect.Name), err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.ConnectionError(fmt.Sprintf("failed to reach %s", dialect.Name), err)
	}
	return New(db, dialect), nil
}

// SQL exposes the underlying handle
func (d *DB) SQL() *sql.DB { return d.db }

func (d *DB) Dialect() *ddl.Dialect { return d.dialect }

func (d *DB) Exec(ctx context.Context, stmt string) error {
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return apperrors.SQLError("Failed to execute statement", stmt, err)
	}
	return nil
}

// Insert writes rows inside one transaction using multi-row INSERT
// statements sized to the dialect's parameter limit.
func (d *DB) Insert(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeSQLTransaction, "Failed to begin transaction")
	}

	var written int64
	for _, chunk := range Chunks(rows, d.dialect.RowsPerStatement(len(columns), batchSize)) {
		stmt := d.dialect.InsertStatement(table, columns, len(chunk))
		res, err := tx.ExecContext(ctx, stmt, Flatten(chunk)...)
		if err != nil {
			_ = tx.Rollback()
			return 0, apperrors.SQLError(fmt.Sprintf("Failed to insert into %s", table), stmt, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += n
		} else {
			written += int64(len(chunk))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeSQLTransaction, "Failed to commit transaction")
	}
	return written, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Chunks splits rows into slices of at most size rows
func Chunks(rows [][]any, size int) [][][]any {
	if size <= 0 {
		size = len(rows)
	}
	var out [][][]any
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

// Flatten concatenates row arguments in order
func Flatten(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	args := make([]any, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		args = append(args, row...)
	}
	return args
}
