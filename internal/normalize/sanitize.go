package normalize

import "strings"

// FallbackName is used when a raw name has no identifier characters at all
const FallbackName = "COL"

// Sanitize turns an arbitrary JSON key or table name into an upper-case SQL
// identifier. Runs of characters outside [0-9A-Za-z_] become one underscore,
// edge underscores are dropped and a leading digit gets an underscore prefix.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastUnderscore := false
	for _, r := range raw {
		if !isIdentChar(r) {
			r = '_'
		}
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteRune(r)
	}

	name := strings.ToUpper(strings.Trim(b.String(), "_"))
	if name == "" {
		return FallbackName
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func isIdentChar(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}
