package ddl

import (
	"time"

	"jsonflake/internal/jsonvalue"
	"jsonflake/internal/normalize"
)

// timestampLayouts are tried in order for TIMESTAMP columns
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// EncodeRows converts rows into driver arguments in schema column order
func EncodeRows(schema Schema, rows []normalize.Row) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		args := make([]any, len(schema.Columns))
		for j, col := range schema.Columns {
			args[j] = EncodeValue(col.Type, row[col.Name])
		}
		out[i] = args
	}
	return out
}

// EncodeValue converts one value for a column of type t. Values that do not
// fit the column type fall back to their text form.
func EncodeValue(t ColumnType, v jsonvalue.Value) any {
	if v.IsNull() {
		return nil
	}

	switch t {
	case Boolean:
		if b, ok := v.AsBool(); ok {
			return b
		}
	case Number:
		if n, ok := v.Int64(); ok {
			return n
		}
		if lit, ok := v.Literal(); ok {
			return lit
		}
	case Float:
		if f, ok := v.Float64(); ok {
			return f
		}
	case Timestamp:
		if s, ok := v.AsString(); ok {
			if ts, ok := ParseTimestamp(s); ok {
				return ts
			}
			return s
		}
	}
	return v.Text()
}

// ParseTimestamp parses s with the accepted layouts
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
