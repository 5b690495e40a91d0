package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"jsonflake/internal/ddl"
	"jsonflake/internal/loader"
	"jsonflake/internal/normalize"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// TableSummary lists the normalized tables with their row and column counts
func TableSummary(w io.Writer, tables *normalize.Tables) {
	table := newTable(w, "TABLE", "ROWS", "COLUMNS")
	for _, t := range tables.All() {
		columns := "-"
		if len(t.Rows) > 0 {
			columns = strconv.Itoa(len(ddl.OrderColumns(t.Rows)))
		}
		table.Append([]string{t.Name, strconv.Itoa(len(t.Rows)), columns})
	}
	table.SetFooter([]string{"TOTAL", strconv.Itoa(tables.RowCount()), "-"})
	table.Render()
}

// SchemaTable lists the inferred columns of one table
func SchemaTable(w io.Writer, schema ddl.Schema, d *ddl.Dialect) {
	fmt.Fprintf(w, "%s\n", ColorBold(schema.Table))
	table := newTable(w, "COLUMN", "TYPE")
	for _, col := range schema.Columns {
		table.Append([]string{col.Name, d.TypeName(col.Type)})
	}
	table.Render()
}

// LoadSummary lists the per-table outcome of a load run
func LoadSummary(w io.Writer, report *loader.Report) {
	table := newTable(w, "TABLE", "ROWS", "COLUMNS", "TIME", "STATUS")
	for _, res := range report.Results {
		status := color.GreenString("OK")
		if res.Err != nil {
			status = color.RedString("FAILED")
		}
		table.Append([]string{
			res.Table,
			strconv.FormatInt(res.Rows, 10),
			strconv.Itoa(res.Columns),
			formatDuration(res.Duration),
			status,
		})
	}
	table.Render()

	failed := len(report.Failed())
	line := fmt.Sprintf("%d tables, %d rows in %s (run %s)",
		len(report.Results), report.TotalRows(), formatDuration(report.Duration), report.RunID)
	if failed > 0 {
		ShowWarning(w, fmt.Sprintf("%s, %d failed", line, failed))
		return
	}
	ShowSuccess(w, line)
}
