// Package jsonvalue holds a JSON document model that keeps object key order
// and the literal text of numbers.
package jsonvalue

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindObject: "object",
	KindArray:  "array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Member is one key/value pair of an object, in document order
type Member struct {
	Key   string
	Value Value
}

// Value is a parsed JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // string contents or number literal
	members []Member
	items   []Value
}

// Null returns the JSON null value
func Null() Value { return Value{} }

// Bool wraps a boolean
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number wraps a number literal as it appeared in the source text
func Number(literal string) Value { return Value{kind: KindNumber, text: literal} }

// Int wraps an integer
func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

// Float wraps a float. Whole floats keep a fractional part so they stay
// non-integer literals.
func Float(f float64) Value {
	literal := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(literal, ".eE") && !strings.Contains(literal, "Inf") && literal != "NaN" {
		literal += ".0"
	}
	return Number(literal)
}

// String wraps a string
func String(s string) Value { return Value{kind: KindString, text: s} }

// Object builds an object from members in the given order
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

// Array builds an array
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Kind reports the variant
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// IsPrimitive reports whether v is null, a boolean, a number or a string
func (v Value) IsPrimitive() bool {
	return v.kind != KindObject && v.kind != KindArray
}

// IsInteger reports whether v is a number whose literal has no fraction or
// exponent part
func (v Value) IsInteger() bool {
	return v.kind == KindNumber && !strings.ContainsAny(v.text, ".eE")
}

func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

func (v Value) AsString() (string, bool) {
	return v.text, v.kind == KindString
}

// Literal returns the number literal
func (v Value) Literal() (string, bool) {
	return v.text, v.kind == KindNumber
}

// Int64 parses an integer number. It fails for non-integers and for literals
// that overflow int64.
func (v Value) Int64() (int64, bool) {
	if !v.IsInteger() {
		return 0, false
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Members returns the object members in document order, nil for non-objects
func (v Value) Members() []Member { return v.members }

// Items returns the array elements, nil for non-arrays
func (v Value) Items() []Value { return v.items }

// Len is the member count of an object or the element count of an array
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.members)
	case KindArray:
		return len(v.items)
	}
	return 0
}

// Get looks up the last member named key
func (v Value) Get(key string) (Value, bool) {
	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			return v.members[i].Value, true
		}
	}
	return Value{}, false
}

// Text renders a primitive for a text column: strings as-is, everything else
// as its JSON literal.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.text
	}
	return v.String()
}

// String renders v as compact JSON
func (v Value) String() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.Bytes(), nil
}

func (v Value) write(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		buf.WriteString(v.text)
	case KindString:
		writeString(buf, v.text)
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.Key)
			buf.WriteByte(':')
			m.Value.write(buf)
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.write(buf)
		}
		buf.WriteByte(']')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	quoted, err := json.Marshal(s)
	if err != nil {
		buf.WriteString(strconv.Quote(s))
		return
	}
	buf.Write(quoted)
}
