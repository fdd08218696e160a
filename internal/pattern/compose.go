package pattern

import "reflect"

// Concat concatenates a and b. Two literals fold into one literal, and
// appending to a Sequence extends it rather than nesting.
func Concat(a, b Pattern) Pattern {
	var parts []Pattern
	if s, ok := a.(Sequence); ok {
		parts = append(parts, s.Parts...)
	} else {
		parts = append(parts, a)
	}
	if s, ok := b.(Sequence); ok {
		for _, p := range s.Parts {
			parts = appendPart(parts, p)
		}
	} else {
		parts = appendPart(parts, b)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return Sequence{Parts: parts}
}

// Seq concatenates parts left to right.
func Seq(parts ...Pattern) Pattern {
	if len(parts) == 0 {
		return Literal{}
	}
	acc := parts[0]
	for _, p := range parts[1:] {
		acc = Concat(acc, p)
	}
	return acc
}

// appendPart appends p to parts, folding it into a trailing literal.
func appendPart(parts []Pattern, p Pattern) []Pattern {
	if lit, ok := p.(Literal); ok && len(parts) > 0 {
		if last, ok := parts[len(parts)-1].(Literal); ok {
			out := append([]Pattern(nil), parts[:len(parts)-1]...)
			return append(out, Literal{Text: last.Text + lit.Text})
		}
	}
	return append(parts, p)
}

// Either combines a and b into an alternation. Repeated use accumulates a
// single flat Alternation.
func Either(a, b Pattern) Pattern {
	var variants []Pattern
	for _, p := range []Pattern{a, b} {
		if alt, ok := p.(Alternation); ok {
			variants = append(variants, alt.Variants...)
		} else {
			variants = append(variants, p)
		}
	}
	return Alternation{Variants: variants}
}

// Or builds a flat alternation of variants. It panics when called without
// variants, since an empty alternation matches nothing.
func Or(variants ...Pattern) Pattern {
	if len(variants) == 0 {
		panic("pattern: Or needs at least one variant")
	}
	acc := variants[0]
	if len(variants) == 1 {
		return Alternation{Variants: []Pattern{acc}}
	}
	for _, v := range variants[1:] {
		acc = Either(acc, v)
	}
	return acc
}

// Optimize returns the canonical form of p: nested sequences and
// alternations are spliced, adjacent literals folded, empty literals dropped
// from sequences and single-element containers unwrapped.
func Optimize(p Pattern) Pattern {
	switch v := p.(type) {
	case Sequence:
		var parts []Pattern
		for _, part := range v.Parts {
			o := Optimize(part)
			if s, ok := o.(Sequence); ok {
				for _, sp := range s.Parts {
					parts = appendPart(parts, sp)
				}
				continue
			}
			if lit, ok := o.(Literal); ok && lit.Text == "" {
				continue
			}
			parts = appendPart(parts, o)
		}
		switch len(parts) {
		case 0:
			return Literal{}
		case 1:
			return parts[0]
		}
		return Sequence{Parts: parts}
	case Alternation:
		var variants []Pattern
		for _, variant := range v.Variants {
			o := Optimize(variant)
			if alt, ok := o.(Alternation); ok {
				variants = append(variants, alt.Variants...)
				continue
			}
			variants = append(variants, o)
		}
		if len(variants) == 1 {
			return variants[0]
		}
		return Alternation{Variants: variants}
	default:
		return p
	}
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b Pattern) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(Optimize(a), Optimize(b))
}
