package tree

import (
	"encoding/json"
	"strings"

	"github.com/mj1618/i3layout/internal/command"
)

// Multi is a forest of independent trees appended in one go.
type Multi struct {
	Roots []Node
}

func (m Multi) ToLayout() any {
	out := make([]any, len(m.Roots))
	for i, r := range m.Roots {
		out[i] = r.ToLayout()
	}
	return out
}

func (m Multi) ToCommands() []command.Command {
	return nodesCommands(m.Roots)
}

// LayoutString renders each root separately, separated by a blank line.
// i3 reads such a file as consecutive top-level containers.
func (m Multi) LayoutString(indent string) (string, error) {
	parts := make([]string, len(m.Roots))
	for i, r := range m.Roots {
		s, err := r.LayoutString(indent)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, "\n\n"), nil
}

func (m Multi) MapWindows(f func(Window) Node) Toplevel {
	roots := make([]Node, len(m.Roots))
	for i, r := range m.Roots {
		roots[i] = r.mapNode(f)
	}
	return Multi{Roots: roots}
}

func (m Multi) WithoutMarks() Toplevel {
	roots := make([]Node, len(m.Roots))
	for i, r := range m.Roots {
		roots[i] = r.stripMarks()
	}
	return Multi{Roots: roots}
}

// RawElement passes a JSON value through untouched. Tree-wide operations
// do not look inside it.
type RawElement struct {
	Raw      json.RawMessage
	Commands []command.Command
}

func (r RawElement) ToLayout() any { return r.Raw }

func (r RawElement) ToCommands() []command.Command {
	return append([]command.Command(nil), r.Commands...)
}

func (r RawElement) LayoutString(indent string) (string, error) {
	return marshalLayout(r.Raw, indent)
}

func (r RawElement) MapWindows(func(Window) Node) Toplevel { return r }
func (r RawElement) mapNode(func(Window) Node) Node        { return r }
func (r RawElement) WithoutMarks() Toplevel                { return r }
func (r RawElement) stripMarks() Node                      { return r }
