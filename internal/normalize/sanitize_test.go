package normalize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lower case", raw: "city", want: "CITY"},
		{name: "spaces and dashes", raw: "first name-x", want: "FIRST_NAME_X"},
		{name: "collapse runs", raw: "a  --  b", want: "A_B"},
		{name: "strip edges", raw: "__a__", want: "A"},
		{name: "leading digit", raw: "1st place", want: "_1ST_PLACE"},
		{name: "empty", raw: "", want: "COL"},
		{name: "only symbols", raw: "$%^", want: "COL"},
		{name: "non ascii", raw: "café", want: "CAF"},
		{name: "already clean", raw: "ROOT_ID", want: "ROOT_ID"},
		{name: "dots", raw: "user.address.zip", want: "USER_ADDRESS_ZIP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.raw))
		})
	}
}

func TestSanitize_IdempotentAndWellFormed(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)
	inputs := []string{"", "x", "9lives", "__9__", "Hello World!", "ünïcode", "a_b_c", "_", "0", "order-id", "  ", "ID"}

	for _, raw := range inputs {
		once := Sanitize(raw)
		assert.Equal(t, once, Sanitize(once), "sanitize(%q) not idempotent", raw)
		assert.Regexp(t, pattern, once)
	}
}
