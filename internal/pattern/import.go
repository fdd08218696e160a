package pattern

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ImportError describes why an anchored regex could not be turned back into
// a Pattern.
type ImportError struct {
	Input    string
	Offset   int
	Fragment string
	Reason   string
}

func (e *ImportError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("import pattern %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("import pattern %q: %s %q at offset %d", e.Input, e.Reason, e.Fragment, e.Offset)
}

// importSpecial are characters that carry regex meaning when unescaped.
const importSpecial = `.^$*+?()[{|`

// Import parses an anchored "^...$" regex consisting only of literal and
// escaped characters. Anything else (quantifiers, groups, classes, escapes
// such as \d) is rejected as a whole. Note that ".*" is rejected too, so a
// Wildcard does not survive a render/import round trip.
func Import(s string) (Pattern, error) {
	if len(s) < 2 || s[0] != '^' || s[len(s)-1] != '$' {
		return nil, &ImportError{Input: s, Reason: "expected a pattern anchored with ^ and $"}
	}
	interior := s[1 : len(s)-1]

	var parts []Pattern
	for i := 0; i < len(interior); {
		r, size := utf8.DecodeRuneInString(interior[i:])
		offset := i + 1
		switch {
		case r == '\\':
			if i+size >= len(interior) {
				return nil, &ImportError{Input: s, Offset: offset, Fragment: `\`, Reason: "unterminated escape"}
			}
			next, nsize := utf8.DecodeRuneInString(interior[i+size:])
			if unicode.IsLetter(next) {
				return nil, &ImportError{Input: s, Offset: offset, Fragment: `\` + string(next), Reason: "unsupported escape"}
			}
			parts = append(parts, Literal{Text: string(next)})
			i += size + nsize
		case strings.ContainsRune(importSpecial, r):
			return nil, &ImportError{Input: s, Offset: offset, Fragment: string(r), Reason: "unsupported metacharacter"}
		default:
			parts = append(parts, Literal{Text: string(r)})
			i += size
		}
	}
	return Optimize(Sequence{Parts: parts}), nil
}
