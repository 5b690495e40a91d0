package ddl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonflake/internal/jsonvalue"
	"jsonflake/internal/normalize"
)

func TestOrderColumns(t *testing.T) {
	rows := []normalize.Row{
		{"ID": jsonvalue.Int(1), "ROOT_ID": jsonvalue.Int(1), "B": jsonvalue.String("x"), "A": jsonvalue.Int(1)},
	}
	assert.Equal(t, []string{"ID", "ROOT_ID", "A", "B"}, OrderColumns(rows))

	rows = []normalize.Row{
		{"ID": jsonvalue.Int(1), "Z": jsonvalue.Null()},
		{"ID": jsonvalue.Int(2), "C_ID": jsonvalue.Int(1), "A_ID": jsonvalue.Int(4), "ID_": jsonvalue.Int(3)},
	}
	assert.Equal(t, []string{"ID", "A_ID", "C_ID", "ID_", "Z"}, OrderColumns(rows))
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		values []jsonvalue.Value
		want   ColumnType
	}{
		{"all bool", []jsonvalue.Value{jsonvalue.Bool(true), jsonvalue.Bool(false)}, Boolean},
		{"all int", []jsonvalue.Value{jsonvalue.Int(1), jsonvalue.Number("-20")}, Number},
		{"int and float", []jsonvalue.Value{jsonvalue.Int(1), jsonvalue.Number("2.5")}, Float},
		{"exponent is float", []jsonvalue.Value{jsonvalue.Number("1e3")}, Float},
		{"dates", []jsonvalue.Value{jsonvalue.String("2024-01-02"), jsonvalue.String("2024-01-02T10:00:00Z")}, Timestamp},
		{"date prefix only", []jsonvalue.Value{jsonvalue.String("2024-13-99 whatever")}, Timestamp},
		{"mixed strings", []jsonvalue.Value{jsonvalue.String("2024-01-02"), jsonvalue.String("soon")}, Varchar},
		{"bool and int", []jsonvalue.Value{jsonvalue.Bool(true), jsonvalue.Int(1)}, Varchar},
		{"number and string", []jsonvalue.Value{jsonvalue.Int(1), jsonvalue.String("1")}, Varchar},
		{"nulls ignored", []jsonvalue.Value{jsonvalue.Null(), jsonvalue.Int(3), jsonvalue.Null()}, Number},
		{"only nulls", []jsonvalue.Value{jsonvalue.Null(), jsonvalue.Null()}, Varchar},
		{"empty", nil, Varchar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType(tt.values))
		})
	}
}

func TestInfer_MissingKeysAreNull(t *testing.T) {
	rows := []normalize.Row{
		{"ID": jsonvalue.Int(1), "FLAG": jsonvalue.Bool(true)},
		{"ID": jsonvalue.Int(2), "PRICE": jsonvalue.Number("9.99")},
	}
	schema := Infer("T", rows)

	assert.Equal(t, "T", schema.Table)
	assert.Equal(t, []Column{
		{Name: "ID", Type: Number},
		{Name: "FLAG", Type: Boolean},
		{Name: "PRICE", Type: Float},
	}, schema.Columns)
	assert.Equal(t, []string{"ID", "FLAG", "PRICE"}, schema.ColumnNames())
}

func TestGenerate(t *testing.T) {
	rows := []normalize.Row{
		{"ID": jsonvalue.Int(1), "ROOT_ID": jsonvalue.Int(1), "CITY": jsonvalue.String("NY"), "SINCE": jsonvalue.String("2020-05-01")},
		{"ID": jsonvalue.Int(2), "ROOT_ID": jsonvalue.Int(1), "CITY": jsonvalue.Null(), "ACTIVE": jsonvalue.Bool(false)},
	}

	want := "CREATE OR REPLACE TABLE \"ROOT_ADDR\" (\n" +
		"  \"ID\" NUMBER,\n" +
		"  \"ROOT_ID\" NUMBER,\n" +
		"  \"ACTIVE\" BOOLEAN,\n" +
		"  \"CITY\" VARCHAR,\n" +
		"  \"SINCE\" TIMESTAMP\n" +
		");"
	assert.Equal(t, want, Generate("ROOT_ADDR", rows))
}

func TestGenerateAll_SkipsEmptyTables(t *testing.T) {
	records, err := jsonvalue.ParseRecords([]byte(`{"a": 1, "tags": ["x"], "none": []}`))
	require.NoError(t, err)
	n := normalize.New("")
	n.Process(records)

	stmts := GenerateAll(n.Tables(), Postgres)
	require.Len(t, stmts, 2)
	assert.Equal(t, "ROOT_TAGS", stmts[0].Schema.Table)
	assert.Equal(t, "ROOT", stmts[1].Schema.Table)
	assert.Equal(t, `DROP TABLE IF EXISTS "ROOT_TAGS";`, stmts[0].SQL[0])
	assert.Contains(t, stmts[0].SQL[1], `"VALUE" TEXT`)
	assert.Contains(t, stmts[1].Script(), "CREATE TABLE \"ROOT\" (\n  \"ID\" NUMERIC,\n  \"A\" NUMERIC\n);\n")
}

func TestDialects(t *testing.T) {
	schema := Schema{Table: "T", Columns: []Column{{Name: "ID", Type: Number}, {Name: "OK", Type: Boolean}, {Name: "AT", Type: Timestamp}}}

	tests := []struct {
		dialect *Dialect
		want    []string
	}{
		{Snowflake, []string{"CREATE OR REPLACE TABLE \"T\" (\n  \"ID\" NUMBER,\n  \"OK\" BOOLEAN,\n  \"AT\" TIMESTAMP\n);"}},
		{SQLite, []string{`DROP TABLE IF EXISTS "T";`, "CREATE TABLE \"T\" (\n  \"ID\" NUMERIC,\n  \"OK\" INTEGER,\n  \"AT\" TEXT\n);"}},
		{SQLServer, []string{"IF OBJECT_ID(N'[T]', N'U') IS NOT NULL DROP TABLE [T];", "CREATE TABLE [T] (\n  [ID] DECIMAL(38,0),\n  [OK] BIT,\n  [AT] DATETIME2\n);"}},
		{MySQL, []string{"DROP TABLE IF EXISTS `T`;", "CREATE TABLE `T` (\n  `ID` DECIMAL(65,0),\n  `OK` BOOLEAN,\n  `AT` DATETIME\n);"}},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.CreateTable(schema))
		})
	}
}

func TestDialect_InsertStatement(t *testing.T) {
	assert.Equal(t, `INSERT INTO "T" ("A", "B") VALUES (?, ?), (?, ?)`, Snowflake.InsertStatement("T", []string{"A", "B"}, 2))
	assert.Equal(t, `INSERT INTO "T" ("A", "B") VALUES ($1, $2), ($3, $4)`, Postgres.InsertStatement("T", []string{"A", "B"}, 2))
	assert.Equal(t, `INSERT INTO [T] ([A]) VALUES (@p1), (@p2)`, SQLServer.InsertStatement("T", []string{"A"}, 2))
}

func TestDialect_RowsPerStatement(t *testing.T) {
	assert.Equal(t, 500, Postgres.RowsPerStatement(10, 500))
	assert.Equal(t, 200, SQLServer.RowsPerStatement(10, 500))
	assert.Equal(t, 1000, SQLServer.RowsPerStatement(1, 0))
	assert.Equal(t, 1000, SQLServer.RowsPerStatement(1, 5000))
	assert.Equal(t, 1000, SQLServer.RowsPerStatement(0, 5000))
	assert.Equal(t, 5000, Postgres.RowsPerStatement(1, 5000))
	assert.Equal(t, 1, SQLServer.RowsPerStatement(5000, 100))
}

func TestLookupDialect(t *testing.T) {
	d, err := LookupDialect(" Postgres ")
	require.NoError(t, err)
	assert.Same(t, Postgres, d)

	_, err = LookupDialect("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql, postgres, snowflake, sqlite, sqlserver")
}

func TestDialect_QuoteEscapes(t *testing.T) {
	assert.Equal(t, `"A""B"`, Snowflake.Quote(`A"B`))
	assert.Equal(t, "[A]]B]", SQLServer.Quote("A]B"))
}

func TestEncodeRows(t *testing.T) {
	schema := Schema{Table: "T", Columns: []Column{
		{Name: "ID", Type: Number},
		{Name: "BIG", Type: Number},
		{Name: "RATE", Type: Float},
		{Name: "OK", Type: Boolean},
		{Name: "AT", Type: Timestamp},
		{Name: "NOTE", Type: Varchar},
	}}
	rows := []normalize.Row{
		{
			"ID":   jsonvalue.Int(1),
			"BIG":  jsonvalue.Number("123456789012345678901234567890"),
			"RATE": jsonvalue.Int(3),
			"OK":   jsonvalue.Bool(true),
			"AT":   jsonvalue.String("2024-03-04T05:06:07Z"),
			"NOTE": jsonvalue.Number("1.50"),
		},
		{
			"ID": jsonvalue.Int(2),
			"AT": jsonvalue.String("2024-03-04 trailing text"),
		},
	}

	args := EncodeRows(schema, rows)
	require.Len(t, args, 2)

	assert.Equal(t, []any{
		int64(1),
		"123456789012345678901234567890",
		float64(3),
		true,
		time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC),
		"1.50",
	}, args[0])
	assert.Equal(t, []any{int64(2), nil, nil, nil, "2024-03-04 trailing text", nil}, args[1])
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2024-01-02", "2024-01-02T03:04:05", "2024-01-02 03:04:05.123", "2024-01-02T03:04:05.5+02:00"} {
		_, ok := ParseTimestamp(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseTimestamp("2024-01-02 at noon")
	assert.False(t, ok)
}
