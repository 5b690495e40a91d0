package loader

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jsonflake/internal/ddl"
	"jsonflake/internal/normalize"
	"jsonflake/internal/observability"
	apperrors "jsonflake/pkg/errors"
	"jsonflake/pkg/models"
)

// Options tunes a load run
type Options struct {
	BatchSize   int
	Parallelism int
	// RunID tags log lines; a random id is generated when empty
	RunID  string
	Logger *observability.Logger
}

// TableResult is the outcome for one table
type TableResult struct {
	Table    string
	Columns  int
	Rows     int64
	Duration time.Duration
	Err      error
}

// Report summarizes a run
type Report struct {
	RunID    string
	Results  []TableResult
	Duration time.Duration
}

// Failed lists the tables that did not load
func (r *Report) Failed() []TableResult {
	var failed []TableResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// TotalRows sums the rows written
func (r *Report) TotalRows() int64 {
	var total int64
	for _, res := range r.Results {
		total += res.Rows
	}
	return total
}

// Run replaces and fills every non-empty table on target. Tables load
// concurrently up to opts.Parallelism; a failing table does not stop the
// others. The returned error joins every table failure.
func Run(ctx context.Context, target Target, tables *normalize.Tables, opts Options) (*Report, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = models.DefaultBatchSize
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = models.DefaultParallelism
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = observability.GetDefaultLogger()
	}
	log := opts.Logger.WithFields(map[string]interface{}{
		"run_id":  opts.RunID,
		"dialect": target.Dialect().Name,
	})

	var work []*normalize.Table
	for _, t := range tables.All() {
		if len(t.Rows) > 0 {
			work = append(work, t)
		}
	}

	start := time.Now()
	results := make([]TableResult, len(work))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, table := range work {
		i, table := i, table
		g.Go(func() error {
			results[i] = loadTable(gctx, target, table, opts.BatchSize, log)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{RunID: opts.RunID, Results: results, Duration: time.Since(start)}

	var errs []error
	for _, res := range report.Failed() {
		errs = append(errs, apperrors.LoadError(res.Table, res.Err))
	}
	summary := map[string]interface{}{
		"tables": len(results),
		"failed": len(errs),
		"rows":   report.TotalRows(),
	}
	if len(errs) > 0 {
		log.WarnWithFields("load finished with failures", summary)
	} else {
		log.InfoWithFields("load finished", summary)
	}
	return report, errors.Join(errs...)
}

func loadTable(ctx context.Context, target Target, table *normalize.Table, batchSize int, log *observability.Logger) TableResult {
	start := time.Now()
	schema := ddl.Infer(table.Name, table.Rows)
	res := TableResult{Table: table.Name, Columns: len(schema.Columns)}
	log = log.WithField("table", table.Name)

	for _, stmt := range target.Dialect().CreateTable(schema) {
		if err := target.Exec(ctx, stmt); err != nil {
			res.Err = err
			res.Duration = time.Since(start)
			log.WithError(err).ErrorWithFields("create table failed", map[string]interface{}{"statement": stmt})
			return res
		}
	}

	rows, err := target.Insert(ctx, table.Name, schema.ColumnNames(), ddl.EncodeRows(schema, table.Rows), batchSize)
	res.Rows = rows
	res.Err = err
	res.Duration = time.Since(start)

	if err != nil {
		log.WithError(err).ErrorWithFields("insert failed", map[string]interface{}{"rows_written": rows})
	} else {
		log.DebugWithFields("table loaded", map[string]interface{}{"rows": rows, "columns": res.Columns})
	}
	return res
}
