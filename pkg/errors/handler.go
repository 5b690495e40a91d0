package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

var severityColors = map[ErrorSeverity]*color.Color{
	SeverityCritical: color.New(color.FgRed, color.Bold),
	SeverityError:    color.New(color.FgHiRed),
	SeverityWarning:  color.New(color.FgYellow),
	SeverityInfo:     color.New(color.FgCyan),
}

// Display writes a user-facing rendering of err: code and message, sorted
// context and numbered suggestions. Plain errors are printed as-is.
func Display(w io.Writer, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	c, ok := severityColors[appErr.Severity]
	if !ok {
		c = color.New(color.Reset)
	}
	c.Fprintf(w, "[%s] %s\n", appErr.Code, appErr.Message)

	if appErr.Cause != nil {
		fmt.Fprintf(w, "  cause: %v\n", appErr.Cause)
	}

	if len(appErr.Context) > 0 {
		keys := make([]string, 0, len(appErr.Context))
		for k := range appErr.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(w, "\nContext:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, appErr.Context[k])
		}
	}

	if len(appErr.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for i, suggestion := range appErr.Suggestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, suggestion)
		}
	}
}
