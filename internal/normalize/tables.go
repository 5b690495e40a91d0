package normalize

import "jsonflake/internal/jsonvalue"

// Row maps a sanitized column name to a primitive value
type Row map[string]jsonvalue.Value

// Table is a named list of rows
type Table struct {
	Name string
	Rows []Row
}

// Tables keeps tables in the order their first row was appended
type Tables struct {
	order  []*Table
	byName map[string]*Table
}

func newTables() *Tables {
	return &Tables{byName: make(map[string]*Table)}
}

func (t *Tables) append(name string, row Row) {
	table, ok := t.byName[name]
	if !ok {
		table = &Table{Name: name}
		t.byName[name] = table
		t.order = append(t.order, table)
	}
	table.Rows = append(table.Rows, row)
}

// Len is the number of tables
func (t *Tables) Len() int { return len(t.order) }

// Names lists table names in first-append order
func (t *Tables) Names() []string {
	names := make([]string, len(t.order))
	for i, table := range t.order {
		names[i] = table.Name
	}
	return names
}

// Get returns the named table
func (t *Tables) Get(name string) (*Table, bool) {
	table, ok := t.byName[name]
	return table, ok
}

// Rows returns the rows of the named table, nil when it does not exist
func (t *Tables) Rows(name string) []Row {
	if table, ok := t.byName[name]; ok {
		return table.Rows
	}
	return nil
}

// All returns every table in first-append order
func (t *Tables) All() []*Table {
	out := make([]*Table, len(t.order))
	copy(out, t.order)
	return out
}

// RowCount sums the rows of all tables
func (t *Tables) RowCount() int {
	total := 0
	for _, table := range t.order {
		total += len(table.Rows)
	}
	return total
}
