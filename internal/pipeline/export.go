package pipeline

import (
	"bufio"
	"io"
	"os"

	"jsonflake/internal/common"
	"jsonflake/internal/ddl"
	"jsonflake/internal/jsonvalue"
	"jsonflake/internal/normalize"
	"jsonflake/pkg/errors"
)

// RowObject renders a row as a JSON object with keys in column order.
// Columns the row does not have are left out.
func RowObject(columns []string, row normalize.Row) jsonvalue.Value {
	members := make([]jsonvalue.Member, 0, len(row))
	for _, col := range columns {
		if v, ok := row[col]; ok {
			members = append(members, jsonvalue.Member{Key: col, Value: v})
		}
	}
	return jsonvalue.Object(members...)
}

// WriteNDJSON writes one JSON object per row
func WriteNDJSON(w io.Writer, table *normalize.Table) error {
	bw := bufio.NewWriter(w)
	columns := ddl.OrderColumns(table.Rows)
	for _, row := range table.Rows {
		if _, err := bw.WriteString(RowObject(columns, row).String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportNDJSON writes <TABLE>.ndjson for every table into dir and returns the
// file names
func ExportNDJSON(dir string, tables *normalize.Tables) ([]string, error) {
	if err := os.MkdirAll(dir, common.DirPermissionNormal); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePublishWrite, "Failed to create output directory").
			WithContext("dir", dir)
	}

	var files []string
	for _, table := range tables.All() {
		name := table.Name + ".ndjson"
		path, err := common.JoinPath(dir, name)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePublishWrite, "Invalid output path").
				WithContext("file", name)
		}
		if err := writeTableFile(path, table); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePublishWrite, "Failed to write table file").
				WithContext("file", path)
		}
		files = append(files, name)
	}
	return files, nil
}

func writeTableFile(path string, table *normalize.Table) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, common.FilePermissionNormal)
	if err != nil {
		return err
	}
	if err := WriteNDJSON(f, table); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteTables writes every row of every table as {"table": NAME, "row": {...}}
// lines, tables in first-append order
func WriteTables(w io.Writer, tables *normalize.Tables) error {
	bw := bufio.NewWriter(w)
	for _, table := range tables.All() {
		columns := ddl.OrderColumns(table.Rows)
		name := jsonvalue.String(table.Name)
		for _, row := range table.Rows {
			line := jsonvalue.Object(
				jsonvalue.Member{Key: "table", Value: name},
				jsonvalue.Member{Key: "row", Value: RowObject(columns, row)},
			)
			if _, err := bw.WriteString(line.String() + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
