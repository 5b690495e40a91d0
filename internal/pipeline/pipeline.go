// Package pipeline ties parsing, normalization and DDL generation together
// for one input document, and optionally loads the result.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"jsonflake/internal/ddl"
	"jsonflake/internal/jsonvalue"
	"jsonflake/internal/loader"
	"jsonflake/internal/normalize"
	"jsonflake/internal/observability"
	"jsonflake/pkg/errors"
)

// Options controls a pipeline run
type Options struct {
	// Root overrides the root table name derived from the file name
	Root    string
	Dialect *ddl.Dialect
	Logger  *observability.Logger
}

// Result is a normalized document ready to publish or load
type Result struct {
	Source     string
	Root       string
	Records    int
	Tables     *normalize.Tables
	Statements []ddl.Statement
}

// Empty reports whether the input produced no tables
func (r *Result) Empty() bool {
	return r.Tables == nil || r.Tables.Len() == 0
}

// RootName derives the root table name from a file path: the base name
// without its extension, sanitized.
func RootName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return normalize.DefaultRoot
	}
	return normalize.Sanitize(base)
}

// ReadFile reads an input document
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, "Input file not found").
			WithContext("file", path).
			WithSuggestions("Check the path", "Use --stage to read from a Snowflake stage")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileRead, "Failed to read input file").
			WithContext("file", path)
	}
	return data, nil
}

// Process normalizes an in-memory document. source names the input in
// errors and logs.
func Process(source string, data []byte, opts Options) (*Result, error) {
	if opts.Dialect == nil {
		opts.Dialect = ddl.Snowflake
	}
	if opts.Logger == nil {
		opts.Logger = observability.GetDefaultLogger()
	}
	root := opts.Root
	if root == "" {
		root = RootName(source)
	}

	records, err := jsonvalue.ParseRecords(data)
	if err != nil {
		return nil, errors.InputError(source, err)
	}

	n := normalize.New(root)
	n.Process(records)
	tables := n.Tables()

	res := &Result{
		Source:     source,
		Root:       n.Root(),
		Records:    len(records),
		Tables:     tables,
		Statements: ddl.GenerateAll(tables, opts.Dialect),
	}

	opts.Logger.DebugWithFields("document normalized", map[string]interface{}{
		"source":  source,
		"root":    res.Root,
		"records": res.Records,
		"tables":  tables.Len(),
		"rows":    tables.RowCount(),
	})
	return res, nil
}

// ProcessFile reads and normalizes a local file
func ProcessFile(path string, opts Options) (*Result, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Process(path, data, opts)
}

// Stage is the stage access the pipeline needs
type Stage interface {
	ListStageFiles(ctx context.Context, stage string) ([]string, error)
	Download(ctx context.Context, stage, file, dir string) (string, error)
}

// ProcessStageFile downloads one stage file into a temporary directory and
// normalizes it. The root name comes from the stage file name.
func ProcessStageFile(ctx context.Context, st Stage, stage, file string, opts Options) (*Result, error) {
	dir, err := os.MkdirTemp("", "jsonflake-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to create temp directory")
	}
	defer os.RemoveAll(dir)

	local, err := st.Download(ctx, stage, file, dir)
	if err != nil {
		return nil, err
	}
	data, err := ReadFile(local)
	if err != nil {
		return nil, err
	}
	return Process(file, data, opts)
}

// Load creates and fills the result's tables on target. An empty result
// loads nothing and returns an empty report.
func Load(ctx context.Context, target loader.Target, res *Result, opts loader.Options) (*loader.Report, error) {
	if res.Empty() {
		return &loader.Report{RunID: opts.RunID}, nil
	}
	return loader.Run(ctx, target, res.Tables, opts)
}
