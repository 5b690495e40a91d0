package jsonvalue

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// SyntaxError reports input that is neither a JSON document nor NDJSON
type SyntaxError struct {
	Line int // 1-based NDJSON line, 0 for whole-document errors
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid JSON on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

var errInvalid = fmt.Errorf("malformed JSON value")

// Parse parses exactly one JSON value. Trailing non-whitespace is an error.
func Parse(data []byte) (Value, error) {
	if !json.Valid(data) {
		return Value{}, &SyntaxError{Err: validationError(data)}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Value{}, &SyntaxError{Err: err}
	}
	v, err := readValue(dec, tok)
	if err != nil {
		return Value{}, &SyntaxError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, &SyntaxError{Err: fmt.Errorf("unexpected data after top-level value")}
	}
	return v, nil
}

// ParseRecords splits input text into top-level records. A whole-text array
// yields its elements; a single value yields itself; otherwise text with
// more than one non-empty line is read as NDJSON.
func ParseRecords(data []byte) ([]Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	whole, wholeErr := Parse(data)
	if wholeErr == nil {
		if whole.Kind() == KindArray {
			return whole.Items(), nil
		}
		return []Value{whole}, nil
	}

	lines := nonEmptyLines(data)
	if len(lines) <= 1 {
		return nil, wholeErr
	}

	records := make([]Value, 0, len(lines))
	for _, line := range lines {
		v, err := Parse(line.text)
		if err != nil {
			var cause error = err
			if se, ok := err.(*SyntaxError); ok {
				cause = se.Err
			}
			return nil, &SyntaxError{Line: line.number, Err: cause}
		}
		records = append(records, v)
	}
	return records, nil
}

type numberedLine struct {
	number int
	text   []byte
}

func nonEmptyLines(data []byte) []numberedLine {
	var lines []numberedLine
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), len(data)+1)
	n := 0
	for scanner.Scan() {
		n++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		lines = append(lines, numberedLine{number: n, text: append([]byte(nil), text...)})
	}
	return lines
}

// validationError recovers a descriptive error for input json.Valid rejected
func validationError(data []byte) error {
	var discard interface{}
	if err := json.Unmarshal(data, &discard); err != nil {
		return err
	}
	return errInvalid
}

func readValue(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		// the decoder's number token aliases its read buffer
		return Number(strings.Clone(string(t))), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func readObject(dec *json.Decoder) (Value, error) {
	members := []Member{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return Object(members...), nil
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key, got %v", tok)
		}
		next, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		v, err := readValue(dec, next)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: v})
	}
}

func readArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return Array(items...), nil
		}
		v, err := readValue(dec, tok)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
}
