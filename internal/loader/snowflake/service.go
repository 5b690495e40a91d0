// Package snowflake registers the "snowflake" load target and provides the
// internal stage helpers used to fetch input documents.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"jsonflake/internal/ddl"
	"jsonflake/internal/loader"
	"jsonflake/internal/loader/sqldb"
	"jsonflake/internal/observability"
	"jsonflake/pkg/errors"
	"jsonflake/pkg/models"
)

const defaultTimeout = 60 * time.Second

func init() {
	loader.RegisterTarget("snowflake", Open)
}

// Service is a Snowflake connection used both as a load target and for
// stage access
type Service struct {
	*sqldb.DB

	config         models.Snowflake
	timeout        time.Duration
	logger         *observability.Logger
	circuitBreaker *errors.CircuitBreaker
	retry          *errors.RetryConfig

	// open is sql.Open outside tests
	open func(driverName, dsn string) (*sql.DB, error)
}

// NewService creates an unconnected service
func NewService(config models.Snowflake, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.GetDefaultLogger()
	}

	timeout := defaultTimeout
	if d, err := time.ParseDuration(config.Timeout); err == nil && d > 0 {
		timeout = d
	}

	retry := errors.DefaultRetryConfig()
	retry.OnRetry = func(err *errors.AppError) {
		logger.WithError(err).Warn("snowflake connect attempt failed, retrying")
	}

	return &Service{
		config:         config,
		timeout:        timeout,
		logger:         logger.WithField("account", config.Account),
		circuitBreaker: errors.NewCircuitBreaker("snowflake", 5, 30*time.Second),
		retry:          retry,
		open:           sql.Open,
	}
}

// Open is the loader factory: validate, connect and return the service
func Open(ctx context.Context, cfg loader.Config) (loader.Target, error) {
	s := NewService(cfg.Snowflake, cfg.Logger)
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateConfig checks the fields a password login needs
func ValidateConfig(config models.Snowflake) error {
	required := []struct{ field, value string }{
		{"snowflake.account", config.Account},
		{"snowflake.username", config.Username},
		{"snowflake.password", config.Password},
		{"snowflake.warehouse", config.Warehouse},
		{"snowflake.database", config.Database},
		{"snowflake.schema", config.Schema},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.New(errors.ErrCodeConfigMissing, fmt.Sprintf("%s is required", r.field)).
				WithContext("field", r.field).
				WithSuggestions(
					fmt.Sprintf("Set %s in the config file", r.field),
					"Store the password in the OS keyring under service 'jsonflake'",
				)
		}
	}
	return nil
}

// DSN renders the gosnowflake connection string
func DSN(config models.Snowflake) (string, error) {
	return gosnowflake.DSN(&gosnowflake.Config{
		Account:   config.Account,
		User:      config.Username,
		Password:  config.Password,
		Database:  config.Database,
		Schema:    config.Schema,
		Warehouse: config.Warehouse,
		Role:      config.Role,
	})
}

// Connect opens the connection through the circuit breaker with retries
func (s *Service) Connect(ctx context.Context) error {
	if s.DB != nil {
		return nil
	}
	if err := ValidateConfig(s.config); err != nil {
		return err
	}

	dsn, err := DSN(s.config)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "Invalid Snowflake connection settings")
	}

	return s.circuitBreaker.Execute(ctx, func() error {
		return errors.Retry(ctx, s.retry, func(ctx context.Context) error {
			db, err := s.open("snowflake", dsn)
			if err != nil {
				return errors.ConnectionError("Failed to open Snowflake connection", err).
					WithContext("account", s.config.Account).
					WithContext("warehouse", s.config.Warehouse)
			}

			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(10 * time.Minute)

			pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			if err := db.PingContext(pingCtx); err != nil {
				_ = db.Close()

				if strings.Contains(strings.ToLower(err.Error()), "authentication") ||
					strings.Contains(strings.ToLower(err.Error()), "incorrect username or password") {
					return errors.Wrap(err, errors.ErrCodeAuthenticationFailed, "Authentication failed").
						WithContext("user", s.config.Username).
						WithSuggestions(
							"Verify your username and password",
							"Check if your account is locked",
						)
				}

				return errors.ConnectionError("Failed to connect to Snowflake", err).
					WithContext("account", s.config.Account).
					AsRecoverable()
			}

			s.DB = sqldb.New(db, ddl.Snowflake)
			s.logger.Debug("connected to snowflake")
			return nil
		})
	})
}

// Close closes the connection if open
func (s *Service) Close() error {
	if s.DB == nil {
		return nil
	}
	err := s.DB.Close()
	s.DB = nil
	if err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

var stageRef = regexp.MustCompile(`^@[A-Za-z0-9_$.~%/-]+$`)

// ValidateStage checks a stage reference such as @my_stage or @~/path
func ValidateStage(stage string) error {
	if !stageRef.MatchString(stage) {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("invalid stage reference %q", stage)).
			WithSuggestions("Use the form @STAGE_NAME, @STAGE_NAME/prefix, @~ or @%TABLE")
	}
	return nil
}

// IsInputFile reports whether a stage file looks like JSON or NDJSON
func IsInputFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".jsonl", ".ndjson":
		return true
	}
	return false
}

// ListStageFiles lists JSON-like files on a stage. Names are relative to the
// stage so they can be passed to Download.
func (s *Service) ListStageFiles(ctx context.Context, stage string) ([]string, error) {
	if s.DB == nil {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to Snowflake")
	}
	if err := ValidateStage(stage); err != nil {
		return nil, err
	}

	query := "LIST " + stage
	rows, err := s.SQL().QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStageList, fmt.Sprintf("Failed to list stage %s", stage)).
			WithContext("query", query)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	prefix := stagePrefix(stage)
	var files []string
	for rows.Next() {
		values := make([]interface{}, len(cols))
		valuePtrs := make([]interface{}, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		// first column is the file name
		var name string
		switch v := values[0].(type) {
		case string:
			name = v
		case []byte:
			name = string(v)
		default:
			continue
		}

		if !IsInputFile(name) {
			continue
		}
		if prefix != "" && strings.HasPrefix(strings.ToLower(name), prefix) {
			name = name[len(prefix):]
		}
		files = append(files, name)
	}

	return files, rows.Err()
}

// stagePrefix is the lower-cased "name/" that LIST puts in front of files on
// a named stage; user and table stages have none.
func stagePrefix(stage string) string {
	name := strings.TrimPrefix(stage, "@")
	if name == "" || strings.HasPrefix(name, "~") || strings.HasPrefix(name, "%") {
		return ""
	}
	if i := strings.Index(name, "/"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name) + "/"
}

// Download fetches one stage file into dir and returns the local path
func (s *Service) Download(ctx context.Context, stage, file, dir string) (string, error) {
	if s.DB == nil {
		return "", errors.New(errors.ErrCodeConnectionFailed, "Not connected to Snowflake")
	}
	if err := ValidateStage(stage); err != nil {
		return "", err
	}

	base := stageBase(stage)
	remote := base + "/" + strings.TrimPrefix(file, "/")
	if strings.ContainsAny(remote, "'; \t\n") {
		return "", errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unsupported characters in stage path %q", remote))
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf("GET %s 'file://%s/'", remote, filepath.ToSlash(absDir))
	if _, err := s.SQL().ExecContext(ctx, query); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStageDownload, fmt.Sprintf("Failed to download %s", remote)).
			WithContext("query", query)
	}

	return filepath.Join(absDir, path.Base(file)), nil
}

// stageBase keeps only the stage name of a reference like @stage/prefix.
// File names from ListStageFiles already carry the prefix.
func stageBase(stage string) string {
	if strings.HasPrefix(stage, "@~") {
		return "@~"
	}
	if i := strings.Index(stage, "/"); i >= 0 {
		return stage[:i]
	}
	return stage
}
