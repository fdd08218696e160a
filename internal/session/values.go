package session

import (
	"encoding/json"
	"fmt"

	"github.com/mj1618/i3layout/internal/command"
	"github.com/mj1618/i3layout/internal/pattern"
	"gopkg.in/yaml.v3"
)

// Pattern is a window attribute pattern in a session file. A scalar is a
// literal; a mapping selects a combinator:
//
//	{anyOf: [a, b]}       alternation
//	{seq: [a, b]}         concatenation
//	{anything: true}      wildcard
//	{raw: PCRE, re2: RE2} opaque regex, re2 optional
//	{regex: "^...$"}      anchored regex parsed into literals
type Pattern struct {
	pattern.Pattern
}

type patternForm struct {
	AnyOf    []Pattern `yaml:"anyOf,omitempty"`
	Seq      []Pattern `yaml:"seq,omitempty"`
	Anything bool      `yaml:"anything,omitempty"`
	Raw      *string   `yaml:"raw,omitempty"`
	RE2      *string   `yaml:"re2,omitempty"`
	Regex    *string   `yaml:"regex,omitempty"`
}

func (p *Pattern) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		p.Pattern = pattern.Lit(n.Value)
		return nil
	}
	var f patternForm
	if err := n.Decode(&f); err != nil {
		return err
	}
	set := 0
	for _, ok := range []bool{f.AnyOf != nil, f.Seq != nil, f.Anything, f.Raw != nil, f.Regex != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("line %d: pattern needs exactly one of anyOf, seq, anything, raw, regex", n.Line)
	}
	if f.RE2 != nil && f.Raw == nil {
		return fmt.Errorf("line %d: re2 is only valid next to raw", n.Line)
	}
	switch {
	case f.AnyOf != nil:
		if len(f.AnyOf) == 0 {
			return fmt.Errorf("line %d: anyOf needs at least one variant", n.Line)
		}
		p.Pattern = pattern.Or(unwrap(f.AnyOf)...)
	case f.Seq != nil:
		p.Pattern = pattern.Seq(unwrap(f.Seq)...)
	case f.Anything:
		p.Pattern = pattern.Any()
	case f.Raw != nil:
		if f.RE2 != nil {
			p.Pattern = pattern.RawBoth(*f.Raw, *f.RE2)
		} else {
			p.Pattern = pattern.RawPCRE(*f.Raw)
		}
	case f.Regex != nil:
		imported, err := pattern.Import(*f.Regex)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		p.Pattern = imported
	}
	return nil
}

func (p Pattern) MarshalYAML() (any, error) {
	switch v := p.Pattern.(type) {
	case pattern.Literal:
		return v.Text, nil
	case pattern.Wildcard:
		return patternForm{Anything: true}, nil
	case pattern.Alternation:
		return patternForm{AnyOf: wrap(v.Variants)}, nil
	case pattern.Sequence:
		return patternForm{Seq: wrap(v.Parts)}, nil
	case pattern.Raw:
		text := v.Text
		return patternForm{Raw: &text, RE2: v.RE2}, nil
	}
	return nil, fmt.Errorf("unsupported pattern %T", p.Pattern)
}

func unwrap(ps []Pattern) []pattern.Pattern {
	out := make([]pattern.Pattern, len(ps))
	for i, p := range ps {
		out[i] = p.Pattern
	}
	return out
}

func wrap(ps []pattern.Pattern) []Pattern {
	out := make([]Pattern, len(ps))
	for i, p := range ps {
		out[i] = Pattern{p}
	}
	return out
}

// Command is a launch command. A scalar is run by bash; {argv: [...]}
// runs a program directly.
type Command struct {
	command.Command
}

type commandForm struct {
	Shell *string  `yaml:"shell,omitempty"`
	Argv  []string `yaml:"argv,omitempty"`
}

func (c *Command) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		c.Command = command.Shell(n.Value)
		return nil
	}
	var f commandForm
	if err := n.Decode(&f); err != nil {
		return err
	}
	switch {
	case f.Shell != nil && f.Argv == nil:
		c.Command = command.Shell(*f.Shell)
	case f.Argv != nil && f.Shell == nil:
		if len(f.Argv) == 0 {
			return fmt.Errorf("line %d: argv must not be empty", n.Line)
		}
		c.Command = command.System(f.Argv...)
	default:
		return fmt.Errorf("line %d: command needs exactly one of shell, argv", n.Line)
	}
	return nil
}

func (c Command) MarshalYAML() (any, error) {
	switch v := c.Command.(type) {
	case command.ShellCommand:
		return v.Text, nil
	case command.SystemCommand:
		return commandForm{Argv: v.Args}, nil
	}
	return nil, fmt.Errorf("unsupported command %T", c.Command)
}

// Extra holds layout keys this tool does not interpret. They are passed to
// i3 unchanged and in order.
type Extra struct {
	Keys   []string
	Values []json.RawMessage
}

func (e *Extra) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: extra must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: extra %q: %w", n.Content[i].Line, n.Content[i].Value, err)
		}
		e.Keys = append(e.Keys, n.Content[i].Value)
		e.Values = append(e.Values, raw)
	}
	return nil
}

func (e Extra) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	for i, key := range e.Keys {
		var v any
		if err := json.Unmarshal(e.Values[i], &v); err != nil {
			return nil, fmt.Errorf("extra %q: %w", key, err)
		}
		val := &yaml.Node{}
		if err := val.Encode(v); err != nil {
			return nil, err
		}
		out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
	}
	return out, nil
}
