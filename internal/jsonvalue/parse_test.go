package jsonvalue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsKeyOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": {"b": true, "a": null}, "mid": [1, "x"]}`))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())

	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	alpha, ok := v.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "b", alpha.Members()[0].Key)
	assert.Equal(t, `{"zeta":1,"alpha":{"b":true,"a":null},"mid":[1,"x"]}`, v.String())
}

func TestParse_NumberLiterals(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		isInteger bool
		literal   string
	}{
		{name: "integer", input: "42", isInteger: true, literal: "42"},
		{name: "negative", input: "-7", isInteger: true, literal: "-7"},
		{name: "decimal", input: "3.14", isInteger: false, literal: "3.14"},
		{name: "exponent", input: "1e5", isInteger: false, literal: "1e5"},
		{name: "upper exponent", input: "2E-3", isInteger: false, literal: "2E-3"},
		{name: "beyond int64", input: "123456789012345678901234567890", isInteger: true, literal: "123456789012345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, KindNumber, v.Kind())
			assert.Equal(t, tt.isInteger, v.IsInteger())
			lit, ok := v.Literal()
			assert.True(t, ok)
			assert.Equal(t, tt.literal, lit)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		`{"a": }`,
		`[1, 2`,
		`{"a" 1}`,
		`1 2`,
		`nope`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse([]byte(input))
			require.Error(t, err)
			var se *SyntaxError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "whitespace only", input: "  \n\t\n ", want: nil},
		{name: "single object", input: `{"a": 1}`, want: []string{`{"a":1}`}},
		{name: "array of records", input: `[{"a": 1}, {"a": 2}]`, want: []string{`{"a":1}`, `{"a":2}`}},
		{name: "empty array", input: `[]`, want: []string{}},
		{name: "single primitive", input: `"hello"`, want: []string{`"hello"`}},
		{name: "pretty printed object", input: "{\n  \"a\": 1,\n  \"b\": [2, 3]\n}\n", want: []string{`{"a":1,"b":[2,3]}`}},
		{name: "ndjson", input: "{\"a\": 1}\n{\"a\": 2}\n", want: []string{`{"a":1}`, `{"a":2}`}},
		{name: "ndjson with blank lines", input: "{\"a\": 1}\n\n  \n[1]\n5\n", want: []string{`{"a":1}`, `[1]`, `5`}},
		{name: "ndjson with crlf", input: "{\"a\": 1}\r\n{\"a\": 2}\r\n", want: []string{`{"a":1}`, `{"a":2}`}},
		{name: "invalid single line", input: `{"a": `, wantErr: true},
		{name: "invalid ndjson line", input: "{\"a\": 1}\n{\"a\": \n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseRecords([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, records)
				return
			}
			require.NoError(t, err)
			require.Len(t, records, len(tt.want))
			for i, r := range records {
				assert.Equal(t, tt.want[i], r.String())
			}
		})
	}
}

func TestParseRecords_ReportsNDJSONLine(t *testing.T) {
	_, err := ParseRecords([]byte("{\"a\": 1}\n{\"b\": 2}\n{broken}\n"))
	require.Error(t, err)

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.Line)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParse_StringEscapes(t *testing.T) {
	v, err := Parse([]byte(`{"k\"ey": "line\nbreak é"}`))
	require.NoError(t, err)

	m := v.Members()[0]
	assert.Equal(t, `k"ey`, m.Key)
	s, ok := m.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "line\nbreak é", s)
}
