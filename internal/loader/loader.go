// Package loader creates and fills normalized tables on a SQL target.
// Backends live in subpackages and register themselves from init().
package loader

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jsonflake/internal/ddl"
	"jsonflake/internal/observability"
	"jsonflake/pkg/models"
)

// Target is an open connection to a load destination
type Target interface {
	Dialect() *ddl.Dialect
	// Exec runs one DDL statement
	Exec(ctx context.Context, stmt string) error
	// Insert writes rows in batches of at most batchSize and returns the
	// number of rows written
	Insert(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) (int64, error)
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Kind      string
	DSN       string
	Snowflake models.Snowflake
	Logger    *observability.Logger
}

// Factory opens a Target
type Factory func(ctx context.Context, cfg Config) (Target, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterTarget makes a backend available under kind. It panics on an empty
// kind, a nil factory or a duplicate registration.
func RegisterTarget(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("loader: RegisterTarget called with empty kind")
	}
	if f == nil {
		panic("loader: RegisterTarget called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("loader: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// Open connects to the backend registered for cfg.Kind
func Open(ctx context.Context, cfg Config) (Target, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("loader: missing target kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("loader: unsupported target kind=%s (registered: %v)", cfg.Kind, Kinds())
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.GetDefaultLogger()
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backends
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
