// Package postgres registers the "postgres" load target on a pgx pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"jsonflake/internal/ddl"
	"jsonflake/internal/loader"
	"jsonflake/internal/loader/sqldb"
	apperrors "jsonflake/pkg/errors"
)

func init() {
	loader.RegisterTarget("postgres", Open)
}

// querier is the slice of pgxpool.Pool the target uses
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Target loads tables through a pgx pool
type Target struct {
	db    querier
	close func()
}

// Open creates a pool for cfg.DSN and pings it
func Open(ctx context.Context, cfg loader.Config) (loader.Target, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, apperrors.ConnectionError("failed to create postgres pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.ConnectionError("failed to reach postgres", err)
	}
	return &Target{db: pool, close: pool.Close}, nil
}

func (t *Target) Dialect() *ddl.Dialect { return ddl.Postgres }

func (t *Target) Exec(ctx context.Context, stmt string) error {
	if _, err := t.db.Exec(ctx, stmt); err != nil {
		return apperrors.SQLError("Failed to execute statement", stmt, err)
	}
	return nil
}

// Insert writes rows in one transaction with $n-numbered multi-row INSERTs
func (t *Target) Insert(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeSQLTransaction, "Failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var written int64
	for _, chunk := range sqldb.Chunks(rows, ddl.Postgres.RowsPerStatement(len(columns), batchSize)) {
		stmt := ddl.Postgres.InsertStatement(table, columns, len(chunk))
		tag, err := tx.Exec(ctx, stmt, sqldb.Flatten(chunk)...)
		if err != nil {
			return 0, apperrors.SQLError(fmt.Sprintf("Failed to insert into %s", table), stmt, err)
		}
		written += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeSQLTransaction, "Failed to commit transaction")
	}
	return written, nil
}

func (t *Target) Close() error {
	if t.close != nil {
		t.close()
	}
	return nil
}
