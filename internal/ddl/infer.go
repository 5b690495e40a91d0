// Package ddl infers column types from normalized rows and renders table
// definitions for the supported SQL dialects.
package ddl

import (
	"regexp"
	"sort"
	"strings"

	"jsonflake/internal/jsonvalue"
	"jsonflake/internal/normalize"
)

// ColumnType is one of the canonical inferred types
type ColumnType string

const (
	Boolean   ColumnType = "BOOLEAN"
	Number    ColumnType = "NUMBER"
	Float     ColumnType = "FLOAT"
	Timestamp ColumnType = "TIMESTAMP"
	Varchar   ColumnType = "VARCHAR"
)

// Column is a named, typed column
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the inferred layout of one table
type Schema struct {
	Table   string
	Columns []Column
}

// ColumnNames lists the columns in order
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// OrderColumns returns the union of row keys: ID first, then foreign keys
// (names ending in _ID) sorted, then everything else sorted.
func OrderColumns(rows []normalize.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			seen[col] = struct{}{}
		}
	}

	var hasID bool
	var fks, rest []string
	for col := range seen {
		switch {
		case col == normalize.IDColumn:
			hasID = true
		case strings.HasSuffix(col, "_ID"):
			fks = append(fks, col)
		default:
			rest = append(rest, col)
		}
	}
	sort.Strings(fks)
	sort.Strings(rest)

	cols := make([]string, 0, len(seen))
	if hasID {
		cols = append(cols, normalize.IDColumn)
	}
	cols = append(cols, fks...)
	return append(cols, rest...)
}

// InferType picks the narrowest canonical type that fits every non-null value.
// A column with no non-null values is VARCHAR.
func InferType(values []jsonvalue.Value) ColumnType {
	var seen int
	allBool, allInt, allNumeric, allDate := true, true, true, true

	for _, v := range values {
		switch v.Kind() {
		case jsonvalue.KindNull:
			continue
		case jsonvalue.KindBool:
			allInt, allNumeric, allDate = false, false, false
		case jsonvalue.KindNumber:
			allBool, allDate = false, false
			if !v.IsInteger() {
				allInt = false
			}
		case jsonvalue.KindString:
			allBool, allInt, allNumeric = false, false, false
			if s, _ := v.AsString(); !datePrefix.MatchString(s) {
				allDate = false
			}
		default:
			allBool, allInt, allNumeric, allDate = false, false, false, false
		}
		seen++
	}

	switch {
	case seen == 0:
		return Varchar
	case allBool:
		return Boolean
	case allInt:
		return Number
	case allNumeric:
		return Float
	case allDate:
		return Timestamp
	}
	return Varchar
}

// Infer builds the schema of a table from its rows. Missing keys count as
// null.
func Infer(table string, rows []normalize.Row) Schema {
	names := OrderColumns(rows)
	schema := Schema{Table: table, Columns: make([]Column, len(names))}

	values := make([]jsonvalue.Value, len(rows))
	for i, name := range names {
		for j, row := range rows {
			values[j] = row[name]
		}
		schema.Columns[i] = Column{Name: name, Type: InferType(values)}
	}
	return schema
}
