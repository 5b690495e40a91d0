package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonflake/internal/jsonvalue"
)

func normalizeJSON(t *testing.T, root, input string) *Tables {
	t.Helper()
	records, err := jsonvalue.ParseRecords([]byte(input))
	require.NoError(t, err)
	n := New(root)
	n.Process(records)
	return n.Tables()
}

// render flattens rows to plain strings for comparison
func render(rows []Row) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		out[i] = make(map[string]string, len(row))
		for k, v := range row {
			out[i][k] = v.String()
		}
	}
	return out
}

func TestNew_RootName(t *testing.T) {
	assert.Equal(t, "ROOT", New("").Root())
	assert.Equal(t, "ORDERS_2024", New("orders-2024").Root())
	assert.Equal(t, "_2024", New("2024").Root())
}

func TestNormalizer_PrimitiveArray(t *testing.T) {
	tables := normalizeJSON(t, "", `{"tags": ["x", "y"]}`)

	assert.Equal(t, []map[string]string{{"ID": "1"}}, render(tables.Rows("ROOT")))
	assert.Equal(t, []map[string]string{
		{"ID": "1", "ROOT_ID": "1", "VALUE": `"x"`},
		{"ID": "2", "ROOT_ID": "1", "VALUE": `"y"`},
	}, render(tables.Rows("ROOT_TAGS")))
}

func TestNormalizer_NestedObject(t *testing.T) {
	tables := normalizeJSON(t, "", `{"addr": {"city": "NY"}}`)

	assert.Equal(t, []map[string]string{{"ID": "1"}}, render(tables.Rows("ROOT")))
	assert.Equal(t, []map[string]string{
		{"ID": "1", "ROOT_ID": "1", "CITY": `"NY"`},
	}, render(tables.Rows("ROOT_ADDR")))
}

func TestNormalizer_DeepNesting(t *testing.T) {
	input := `[
		{"id": 7, "name": "a", "customer": {"name": "c1", "geo": {"lat": 1.5}}, "items": [{"sku": "s1", "opts": [{"k": "v"}]}, {"sku": "s2"}]},
		{"id": 8, "name": "b", "items": []}
	]`
	tables := normalizeJSON(t, "orders", input)

	assert.Equal(t, []map[string]string{
		{"ID": "1", "ID_": "7", "NAME": `"a"`},
		{"ID": "2", "ID_": "8", "NAME": `"b"`},
	}, render(tables.Rows("ORDERS")))

	assert.Equal(t, []map[string]string{
		{"ID": "1", "ORDERS_ID": "1", "NAME": `"c1"`},
	}, render(tables.Rows("ORDERS_CUSTOMER")))

	assert.Equal(t, []map[string]string{
		{"ID": "1", "ORDERS_CUSTOMER_ID": "1", "LAT": "1.5"},
	}, render(tables.Rows("ORDERS_CUSTOMER_GEO")))

	assert.Equal(t, []map[string]string{
		{"ID": "1", "ORDERS_ID": "1", "SKU": `"s1"`},
		{"ID": "2", "ORDERS_ID": "1", "SKU": `"s2"`},
	}, render(tables.Rows("ORDERS_ITEMS")))

	assert.Equal(t, []map[string]string{
		{"ID": "1", "ORDERS_ITEMS_ID": "1", "K": `"v"`},
	}, render(tables.Rows("ORDERS_ITEMS_OPTS")))

	assert.Equal(t, []string{
		"ORDERS_CUSTOMER", "ORDERS_CUSTOMER_GEO", "ORDERS_ITEMS", "ORDERS_ITEMS_OPTS", "ORDERS",
	}, tables.Names())
}

func TestNormalizer_TopLevelShapes(t *testing.T) {
	t.Run("primitive record", func(t *testing.T) {
		tables := normalizeJSON(t, "", "5\n\"x\"\n")
		assert.Equal(t, []map[string]string{
			{"ID": "1", "VALUE": "5"},
			{"ID": "2", "VALUE": `"x"`},
		}, render(tables.Rows("ROOT")))
	})

	t.Run("array record", func(t *testing.T) {
		tables := normalizeJSON(t, "", "[1, 2]\n[3]\n")
		assert.Equal(t, []map[string]string{{"ID": "1"}, {"ID": "2"}}, render(tables.Rows("ROOT")))
		assert.Equal(t, []map[string]string{
			{"ID": "1", "ROOT_ID": "1", "VALUE": "1"},
			{"ID": "2", "ROOT_ID": "1", "VALUE": "2"},
			{"ID": "3", "ROOT_ID": "2", "VALUE": "3"},
		}, render(tables.Rows("ROOT_ARRAY")))
	})

	t.Run("empty object record", func(t *testing.T) {
		tables := normalizeJSON(t, "", `[{}]`)
		assert.Equal(t, []map[string]string{{"ID": "1"}}, render(tables.Rows("ROOT")))
		assert.Equal(t, 1, tables.Len())
	})
}

func TestNormalizer_NestedArrays(t *testing.T) {
	tables := normalizeJSON(t, "", `{"m": [[1, 2], [3], []]}`)

	assert.Equal(t, []map[string]string{
		{"ID": "1", "ROOT_ID": "1"},
		{"ID": "2", "ROOT_ID": "1"},
		{"ID": "3", "ROOT_ID": "1"},
	}, render(tables.Rows("ROOT_M")))
	assert.Equal(t, []map[string]string{
		{"ID": "1", "ROOT_M_ID": "1", "VALUE": "1"},
		{"ID": "2", "ROOT_M_ID": "1", "VALUE": "2"},
		{"ID": "3", "ROOT_M_ID": "2", "VALUE": "3"},
	}, render(tables.Rows("ROOT_M_ITEM")))
}

func TestNormalizer_EmptyContainersProduceNoTables(t *testing.T) {
	tables := normalizeJSON(t, "", `{"a": [], "b": {}, "c": 1}`)

	assert.Equal(t, []string{"ROOT"}, tables.Names())
	assert.Equal(t, []map[string]string{{"ID": "1", "C": "1"}}, render(tables.Rows("ROOT")))
	_, ok := tables.Get("ROOT_A")
	assert.False(t, ok)
	_, ok = tables.Get("ROOT_B")
	assert.False(t, ok)
}

func TestNormalizer_Collisions(t *testing.T) {
	tables := normalizeJSON(t, "", `{"first name": "a", "first_name": "b", "root_id": 3}`)
	row := render(tables.Rows("ROOT"))[0]
	assert.Equal(t, `"b"`, row["FIRST_NAME"], "last write wins")
	assert.Equal(t, "3", row["ROOT_ID"], "root rows have no foreign key to protect")

	tables = normalizeJSON(t, "", `{"child": {"root_id": 9, "id": 4}}`)
	child := render(tables.Rows("ROOT_CHILD"))[0]
	assert.Equal(t, "1", child["ID"])
	assert.Equal(t, "1", child["ROOT_ID"])
	assert.Equal(t, "9", child["ROOT_ID_"])
	assert.Equal(t, "4", child["ID_"])
}

func TestNormalizer_DigitLeadingKeys(t *testing.T) {
	tables := normalizeJSON(t, "", `{"1a": {"x": 1, "2b": {"y": 2}}, "3c": [true]}`)

	assert.Equal(t, []string{"ROOT__1A", "ROOT__1A__2B", "ROOT__3C", "ROOT"}, tables.Names())
	assert.Equal(t, []map[string]string{{"ID": "1", "ROOT_ID": "1", "X": "1"}}, render(tables.Rows("ROOT__1A")))
	assert.Equal(t, []map[string]string{{"ID": "1", "ROOT__1A_ID": "1", "Y": "2"}}, render(tables.Rows("ROOT__1A__2B")))
	assert.Equal(t, []map[string]string{{"ID": "1", "ROOT_ID": "1", "VALUE": "true"}}, render(tables.Rows("ROOT__3C")))
}

func TestNormalizer_IDsAndForeignKeysResolve(t *testing.T) {
	input := `[
		{"a": [{"b": [[{"c": 1}], [2, {"d": {"e": []}}]]}], "f": {"g": [1]}},
		[[["x"]], {"h": null}],
		"s",
		{"a": [{"b": [[3]]}]}
	]`
	tables := normalizeJSON(t, "doc", input)
	require.Greater(t, tables.Len(), 3)

	ids := make(map[string]map[string]bool)
	for _, table := range tables.All() {
		ids[table.Name] = make(map[string]bool)
		for i, row := range table.Rows {
			n, ok := row["ID"].Int64()
			require.True(t, ok)
			assert.Equal(t, int64(i+1), n, "%s row %d", table.Name, i)
			ids[table.Name][row["ID"].String()] = true
		}
	}

	for _, table := range tables.All() {
		fk := ""
		for i, row := range table.Rows {
			for col, v := range row {
				if col == "ID" || len(col) <= 3 || col[len(col)-3:] != "_ID" {
					continue
				}
				parent := col[:len(col)-3]
				require.Contains(t, ids, parent, "%s.%s has no parent table", table.Name, col)
				assert.True(t, ids[parent][v.String()], "%s row %d: %s=%s dangles", table.Name, i, col, v)
				if fk == "" {
					fk = col
				}
				assert.Equal(t, fk, col, "%s mixes foreign keys", table.Name)
			}
		}
	}
}

func TestNormalizer_ProcessAccumulates(t *testing.T) {
	n := New("")
	n.Process([]jsonvalue.Value{jsonvalue.Int(1)})
	n.Process([]jsonvalue.Value{jsonvalue.Int(2)})

	assert.Equal(t, []map[string]string{
		{"ID": "1", "VALUE": "1"},
		{"ID": "2", "VALUE": "2"},
	}, render(n.Tables().Rows("ROOT")))
	assert.Equal(t, 2, n.Tables().RowCount())
}
