// Package normalize flattens JSON records into relational tables linked by
// surrogate keys.
package normalize

import "jsonflake/internal/jsonvalue"

const (
	// DefaultRoot names the root table when no name is given
	DefaultRoot = "ROOT"

	IDColumn    = "ID"
	ValueColumn = "VALUE"

	fkSuffix         = "_ID"
	arraySuffix      = "_ARRAY"
	nestedArrayTable = "_ITEM"
)

// Normalizer decomposes records into tables. An instance is not safe for
// concurrent use; create one per run.
type Normalizer struct {
	root     string
	counters map[string]int64
	tables   *Tables
}

// New creates a normalizer whose root table is the sanitized rootName
func New(rootName string) *Normalizer {
	if rootName == "" {
		rootName = DefaultRoot
	}
	return &Normalizer{
		root:     Sanitize(rootName),
		counters: make(map[string]int64),
		tables:   newTables(),
	}
}

// Root returns the root table name
func (n *Normalizer) Root() string { return n.root }

// Tables returns the accumulated tables
func (n *Normalizer) Tables() *Tables { return n.tables }

// ForeignKey names the column that points at a row of parent
func ForeignKey(parent string) string { return parent + fkSuffix }

// Process normalizes top-level records in order
func (n *Normalizer) Process(records []jsonvalue.Value) {
	for _, record := range records {
		n.processRecord(record)
	}
}

func (n *Normalizer) nextID(table string) int64 {
	n.counters[table]++
	return n.counters[table]
}

func (n *Normalizer) processRecord(record jsonvalue.Value) {
	id := n.nextID(n.root)
	row := Row{IDColumn: jsonvalue.Int(id)}

	switch record.Kind() {
	case jsonvalue.KindObject:
		setPrimitives(row, record, IDColumn)
		n.descend(n.root, id, record)
	case jsonvalue.KindArray:
		n.processArray(n.root+arraySuffix, record.Items(), id, n.root)
	default:
		row[ValueColumn] = record
	}

	n.tables.append(n.root, row)
}

// descend handles the nested object and array fields of obj, whose own row
// is id in table.
func (n *Normalizer) descend(table string, id int64, obj jsonvalue.Value) {
	for _, m := range obj.Members() {
		if m.Value.IsPrimitive() || m.Value.Len() == 0 {
			continue
		}

		child := table + "_" + Sanitize(m.Key)
		if m.Value.Kind() == jsonvalue.KindArray {
			n.processArray(child, m.Value.Items(), id, table)
			continue
		}

		childID := n.nextID(child)
		fk := ForeignKey(table)
		row := Row{IDColumn: jsonvalue.Int(childID), fk: jsonvalue.Int(id)}
		setPrimitives(row, m.Value, IDColumn, fk)
		n.tables.append(child, row)
		n.descend(child, childID, m.Value)
	}
}

// processArray writes one row per element into table, each pointing at
// ownerID in owner. Table names are built from sanitized parts and are not
// sanitized again, so a digit-leading key keeps its separator: ROOT__1A.
func (n *Normalizer) processArray(table string, items []jsonvalue.Value, ownerID int64, owner string) {
	fk := ForeignKey(owner)

	for _, elem := range items {
		id := n.nextID(table)
		row := Row{IDColumn: jsonvalue.Int(id), fk: jsonvalue.Int(ownerID)}

		switch elem.Kind() {
		case jsonvalue.KindObject:
			setPrimitives(row, elem, IDColumn, fk)
			n.tables.append(table, row)
			n.descend(table, id, elem)
		case jsonvalue.KindArray:
			n.tables.append(table, row)
			n.processArray(table+nestedArrayTable, elem.Items(), id, table)
		default:
			row[ValueColumn] = elem
			n.tables.append(table, row)
		}
	}
}

// setPrimitives copies the primitive members of obj onto row. A key that
// sanitizes to one of the reserved key columns gets a trailing underscore,
// a form Sanitize never produces.
func setPrimitives(row Row, obj jsonvalue.Value, reserved ...string) {
	for _, m := range obj.Members() {
		if !m.Value.IsPrimitive() {
			continue
		}
		col := Sanitize(m.Key)
		for _, r := range reserved {
			if col == r {
				col += "_"
				break
			}
		}
		row[col] = m.Value
	}
}
