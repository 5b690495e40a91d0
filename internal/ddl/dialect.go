package ddl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dialect renders identifiers, column types and table DDL for one SQL engine
type Dialect struct {
	Name string
	// MaxParams bounds the bind parameters of a single statement
	MaxParams int
	// MaxRows bounds the rows of one VALUES list; zero means no limit
	MaxRows int

	types       map[ColumnType]string
	open, close string
	dropFirst   bool
	placeholder func(n int) string
}

func questionMark(int) string { return "?" }

var (
	Snowflake = &Dialect{
		Name:        "snowflake",
		MaxParams:   16384,
		types:       map[ColumnType]string{Boolean: "BOOLEAN", Number: "NUMBER", Float: "FLOAT", Timestamp: "TIMESTAMP", Varchar: "VARCHAR"},
		open:        `"`,
		close:       `"`,
		placeholder: questionMark,
	}

	Postgres = &Dialect{
		Name:        "postgres",
		MaxParams:   65535,
		types:       map[ColumnType]string{Boolean: "BOOLEAN", Number: "NUMERIC", Float: "DOUBLE PRECISION", Timestamp: "TIMESTAMP", Varchar: "TEXT"},
		open:        `"`,
		close:       `"`,
		dropFirst:   true,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}

	SQLite = &Dialect{
		Name:        "sqlite",
		MaxParams:   32766,
		types:       map[ColumnType]string{Boolean: "INTEGER", Number: "NUMERIC", Float: "REAL", Timestamp: "TEXT", Varchar: "TEXT"},
		open:        `"`,
		close:       `"`,
		dropFirst:   true,
		placeholder: questionMark,
	}

	SQLServer = &Dialect{
		Name:        "sqlserver",
		MaxParams:   2000,
		MaxRows:     1000,
		types:       map[ColumnType]string{Boolean: "BIT", Number: "DECIMAL(38,0)", Float: "FLOAT", Timestamp: "DATETIME2", Varchar: "NVARCHAR(MAX)"},
		open:        "[",
		close:       "]",
		dropFirst:   true,
		placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
	}

	MySQL = &Dialect{
		Name:        "mysql",
		MaxParams:   65535,
		types:       map[ColumnType]string{Boolean: "BOOLEAN", Number: "DECIMAL(65,0)", Float: "DOUBLE", Timestamp: "DATETIME", Varchar: "TEXT"},
		open:        "`",
		close:       "`",
		dropFirst:   true,
		placeholder: questionMark,
	}
)

var dialects = map[string]*Dialect{
	Snowflake.Name: Snowflake,
	Postgres.Name:  Postgres,
	SQLite.Name:    SQLite,
	SQLServer.Name: SQLServer,
	MySQL.Name:     MySQL,
}

// LookupDialect finds a dialect by name, case-insensitively
func LookupDialect(name string) (*Dialect, error) {
	if d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("unknown dialect %q (supported: %s)", name, strings.Join(DialectNames(), ", "))
}

// DialectNames lists the supported dialects
func DialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Quote quotes an identifier, doubling any embedded closing quote
func (d *Dialect) Quote(name string) string {
	return d.open + strings.ReplaceAll(name, d.close, d.close+d.close) + d.close
}

// TypeName maps a canonical type to this dialect's type
func (d *Dialect) TypeName(t ColumnType) string {
	if name, ok := d.types[t]; ok {
		return name
	}
	return d.types[Varchar]
}

// Placeholder returns the bind marker for the n-th (1-based) parameter
func (d *Dialect) Placeholder(n int) string {
	return d.placeholder(n)
}

// CreateTable renders the statements that replace s.Table. Snowflake gets a
// single CREATE OR REPLACE; the others drop and create.
func (d *Dialect) CreateTable(s Schema) []string {
	var b strings.Builder
	if d.dropFirst {
		b.WriteString("CREATE TABLE ")
	} else {
		b.WriteString("CREATE OR REPLACE TABLE ")
	}
	b.WriteString(d.Quote(s.Table))
	b.WriteString(" (\n")
	for i, col := range s.Columns {
		b.WriteString("  ")
		b.WriteString(d.Quote(col.Name))
		b.WriteString(" ")
		b.WriteString(d.TypeName(col.Type))
		if i < len(s.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");")

	if !d.dropFirst {
		return []string{b.String()}
	}
	return []string{d.dropTable(s.Table), b.String()}
}

func (d *Dialect) dropTable(table string) string {
	if d == SQLServer {
		// DROP ... IF EXISTS needs SQL Server 2016
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s;",
			strings.ReplaceAll(d.Quote(table), "'", "''"), d.Quote(table))
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", d.Quote(table))
}

// InsertStatement renders a multi-row INSERT for rowCount rows of columns
func (d *Dialect) InsertStatement(table string, columns []string, rowCount int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.Quote(table))
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Quote(col))
	}
	b.WriteString(") VALUES ")

	n := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.Placeholder(n))
			n++
		}
		b.WriteString(")")
	}
	return b.String()
}

// RowsPerStatement caps a batch so one INSERT stays under MaxParams and
// MaxRows
func (d *Dialect) RowsPerStatement(columns, batchSize int) int {
	limit := d.MaxRows
	if columns > 0 {
		byParams := d.MaxParams / columns
		if byParams < 1 {
			byParams = 1
		}
		if limit <= 0 || byParams < limit {
			limit = byParams
		}
	}
	if limit <= 0 {
		return batchSize
	}
	if batchSize <= 0 || batchSize > limit {
		return limit
	}
	return batchSize
}
