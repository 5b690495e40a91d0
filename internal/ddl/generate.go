package ddl

import (
	"strings"

	"jsonflake/internal/normalize"
)

// Generate returns the Snowflake CREATE OR REPLACE TABLE statement for table
// inferred from rows.
func Generate(table string, rows []normalize.Row) string {
	return Snowflake.CreateTable(Infer(table, rows))[0]
}

// Statement is the DDL of one table in one dialect
type Statement struct {
	Schema Schema
	SQL    []string
}

// Script joins the statements for writing to a file
func (s Statement) Script() string {
	return strings.Join(s.SQL, "\n") + "\n"
}

// GenerateAll infers and renders every non-empty table in first-append order
func GenerateAll(tables *normalize.Tables, d *Dialect) []Statement {
	var out []Statement
	for _, table := range tables.All() {
		if len(table.Rows) == 0 {
			continue
		}
		schema := Infer(table.Name, table.Rows)
		out = append(out, Statement{Schema: schema, SQL: d.CreateTable(schema)})
	}
	return out
}
