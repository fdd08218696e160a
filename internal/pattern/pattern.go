package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Dialect selects the regex syntax a Pattern is rendered in.
type Dialect string

const (
	// PCRE is the syntax i3 uses for swallow criteria.
	PCRE Dialect = "pcre"
	// RE2 is Go's regexp syntax, used for matching window attributes locally.
	RE2 Dialect = "re2"
)

var (
	// ErrUnsupportedDialect is returned when a Raw pattern has no text for the requested dialect.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	// ErrRawMapChars is returned when mapping characters of a Raw pattern.
	ErrRawMapChars = errors.New("cannot map chars of raw pattern")
)

// pcreSpecial is the set of characters escaped in PCRE literals.
const pcreSpecial = `.^$*+?()[{\|`

// Pattern is a window-matching expression. Implementations are immutable
// values: Literal, Wildcard, Alternation, Sequence and Raw.
type Pattern interface {
	// PCRE renders the pattern without anchors. PCRE rendering never fails.
	PCRE() string
	re2() (string, error)
	mapChars(f func(rune) string) (Pattern, error)
}

// Literal matches Text exactly.
type Literal struct {
	Text string
}

// Wildcard matches any string, including the empty one.
type Wildcard struct{}

// Alternation matches if any of its variants matches.
type Alternation struct {
	Variants []Pattern
}

// Sequence matches the concatenation of its parts.
type Sequence struct {
	Parts []Pattern
}

// Raw holds a hand-written PCRE expression (no anchors, no modifiers).
// RE2 is the equivalent in Go regexp syntax; nil when not supplied.
type Raw struct {
	Text string
	RE2  *string
}

// Lit returns a Literal pattern.
func Lit(text string) Literal { return Literal{Text: text} }

// Any returns the Wildcard pattern.
func Any() Wildcard { return Wildcard{} }

// RawPCRE returns a Raw pattern that can only be rendered as PCRE.
func RawPCRE(pcre string) Raw { return Raw{Text: pcre} }

// RawBoth returns a Raw pattern with texts for both dialects.
func RawBoth(pcre, re2 string) Raw { return Raw{Text: pcre, RE2: &re2} }

func (l Literal) PCRE() string {
	var b strings.Builder
	for _, r := range l.Text {
		if strings.ContainsRune(pcreSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l Literal) re2() (string, error) { return regexp.QuoteMeta(l.Text), nil }

func (l Literal) mapChars(f func(rune) string) (Pattern, error) {
	var b strings.Builder
	for _, r := range l.Text {
		b.WriteString(f(r))
	}
	return Literal{Text: b.String()}, nil
}

func (Wildcard) PCRE() string                                  { return ".*" }
func (Wildcard) re2() (string, error)                          { return ".*", nil }
func (w Wildcard) mapChars(func(rune) string) (Pattern, error) { return w, nil }

func (a Alternation) PCRE() string {
	parts := make([]string, len(a.Variants))
	for i, v := range a.Variants {
		parts[i] = v.PCRE()
	}
	return "(" + strings.Join(parts, "|") + ")"
}

func (a Alternation) re2() (string, error) {
	parts := make([]string, len(a.Variants))
	for i, v := range a.Variants {
		s, err := v.re2()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, "|") + ")", nil
}

func (a Alternation) mapChars(f func(rune) string) (Pattern, error) {
	variants, err := mapAll(a.Variants, f)
	if err != nil {
		return nil, err
	}
	return Alternation{Variants: variants}, nil
}

func (s Sequence) PCRE() string {
	var b strings.Builder
	for _, p := range s.Parts {
		b.WriteString(p.PCRE())
	}
	return b.String()
}

func (s Sequence) re2() (string, error) {
	var b strings.Builder
	for _, p := range s.Parts {
		r, err := p.re2()
		if err != nil {
			return "", err
		}
		b.WriteString(r)
	}
	return b.String(), nil
}

func (s Sequence) mapChars(f func(rune) string) (Pattern, error) {
	parts, err := mapAll(s.Parts, f)
	if err != nil {
		return nil, err
	}
	return Sequence{Parts: parts}, nil
}

func (r Raw) PCRE() string { return r.Text }

func (r Raw) re2() (string, error) {
	if r.RE2 == nil {
		return "", fmt.Errorf("%w: raw pattern %q has no %s form", ErrUnsupportedDialect, r.Text, RE2)
	}
	return *r.RE2, nil
}

func (r Raw) mapChars(func(rune) string) (Pattern, error) {
	return nil, fmt.Errorf("%w %q", ErrRawMapChars, r.Text)
}

func mapAll(ps []Pattern, f func(rune) string) ([]Pattern, error) {
	out := make([]Pattern, len(ps))
	for i, p := range ps {
		m, err := p.mapChars(f)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// Render renders p in the given dialect, without anchors.
func Render(p Pattern, d Dialect) (string, error) {
	switch d {
	case PCRE:
		return p.PCRE(), nil
	case RE2:
		return p.re2()
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, d)
	}
}

// Anchored renders p as the "^...$" PCRE string i3 expects.
func Anchored(p Pattern) string {
	return "^" + p.PCRE() + "$"
}

// Compile compiles the anchored RE2 rendering of p.
func Compile(p Pattern) (*regexp.Regexp, error) {
	s, err := p.re2()
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile("^(?:" + s + ")$")
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", s, err)
	}
	return re, nil
}

// MapChars rewrites every literal character of p through f.
// It fails on patterns containing Raw.
func MapChars(p Pattern, f func(rune) string) (Pattern, error) {
	return p.mapChars(f)
}
