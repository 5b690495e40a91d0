package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Input errors (1xxx)
	ErrCodeInvalidJSON  ErrorCode = "JFE1001"
	ErrCodeFileNotFound ErrorCode = "JFE1002"
	ErrCodeFileRead     ErrorCode = "JFE1003"
	ErrCodeInvalidInput ErrorCode = "JFE1004"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "JFE2001"
	ErrCodeConfigInvalid  ErrorCode = "JFE2002"
	ErrCodeConfigMissing  ErrorCode = "JFE2003"
	ErrCodeUnknownTarget  ErrorCode = "JFE2004"
	ErrCodeCredentials    ErrorCode = "JFE2005"

	// Connection errors (3xxx)
	ErrCodeConnectionFailed     ErrorCode = "JFE3001"
	ErrCodeConnectionTimeout    ErrorCode = "JFE3002"
	ErrCodeAuthenticationFailed ErrorCode = "JFE3003"

	// SQL and load errors (4xxx)
	ErrCodeSQLExecution   ErrorCode = "JFE4001"
	ErrCodeSQLPermission  ErrorCode = "JFE4002"
	ErrCodeSQLTimeout     ErrorCode = "JFE4003"
	ErrCodeSQLTransaction ErrorCode = "JFE4004"
	ErrCodeLoadFailed     ErrorCode = "JFE4005"

	// Stage errors (5xxx)
	ErrCodeStageList     ErrorCode = "JFE5001"
	ErrCodeStageDownload ErrorCode = "JFE5002"
	ErrCodeStageEmpty    ErrorCode = "JFE5003"

	// Publish errors (6xxx)
	ErrCodePublishWrite ErrorCode = "JFE6001"
	ErrCodeGit          ErrorCode = "JFE6002"

	// System errors (9xxx)
	ErrCodeInternal           ErrorCode = "JFE9001"
	ErrCodeTimeout            ErrorCode = "JFE9002"
	ErrCodeServiceUnavailable ErrorCode = "JFE9004"
	ErrCodeMaxRetriesExceeded ErrorCode = "JFE9007"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL"
	SeverityError    ErrorSeverity = "ERROR"
	SeverityWarning  ErrorSeverity = "WARNING"
	SeverityInfo     ErrorSeverity = "INFO"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// inherit context from a wrapped AppError
	var inner *AppError
	if errors.As(err, &inner) {
		for k, v := range inner.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// InputError reports a document that is neither JSON nor NDJSON
func InputError(path string, cause error) *AppError {
	return Wrap(cause, ErrCodeInvalidJSON, "Input is not valid JSON or NDJSON").
		WithContext("file", path).
		WithSuggestions(
			"Validate the file with a JSON linter",
			"For NDJSON, put exactly one JSON value on each line",
		)
}

// ConnectionError creates a connection-related error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityError).
		WithSuggestions(
			"Check your network connection",
			"Verify the target endpoint is accessible",
			"Check the DSN or account settings in the config file",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Refer to the configuration documentation",
		)
}

// SQLError creates an SQL execution error
func SQLError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeSQLExecution, message).
		WithContext("query", truncateString(query, 200))

	text := strings.ToLower(message)
	if cause != nil {
		text += " " + strings.ToLower(cause.Error())
	}

	if strings.Contains(text, "permission") || strings.Contains(text, "access denied") || strings.Contains(text, "insufficient privileges") {
		err.Code = ErrCodeSQLPermission
		_ = err.WithSuggestions(
			"Check the user's privileges on the target schema",
			"Verify the role has CREATE TABLE and INSERT privileges",
		)
	} else if strings.Contains(text, "timeout") {
		err.Code = ErrCodeSQLTimeout
		_ = err.WithSuggestions(
			"Lower --batch-size",
			"Increase the connection timeout setting",
		)
	}

	return err
}

// LoadError reports a table that failed to load
func LoadError(table string, cause error) *AppError {
	return Wrap(cause, ErrCodeLoadFailed, fmt.Sprintf("Failed to load table %s", table)).
		WithContext("table", table)
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
