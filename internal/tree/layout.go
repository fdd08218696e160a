package tree

import (
	"fmt"

	"github.com/mj1618/i3layout/internal/command"
)

// Kind is the split mode of a container.
type Kind string

const (
	SplitH  Kind = "splith"
	SplitV  Kind = "splitv"
	Tabbed  Kind = "tabbed"
	Stacked Kind = "stacked"
)

// Kinds lists the container kinds in display order.
var Kinds = []Kind{SplitH, SplitV, Tabbed, Stacked}

// ParseKind converts an i3 layout name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown layout %q (expected splith, splitv, tabbed, or stacked)", s)
}

// Layout is a container of nodes.
type Layout struct {
	Kind  Kind
	Nodes []Node

	Marks    []string
	Percent  *float64
	Border   string
	Floating string
	Type     string
	Rect     *Geometry
	Others   *Fields
}

// Horizontal returns a splith container.
func Horizontal(nodes ...Node) Layout { return Layout{Kind: SplitH, Nodes: nodes} }

// Vertical returns a splitv container.
func Vertical(nodes ...Node) Layout { return Layout{Kind: SplitV, Nodes: nodes} }

// TabbedLayout returns a tabbed container.
func TabbedLayout(nodes ...Node) Layout { return Layout{Kind: Tabbed, Nodes: nodes} }

// StackedLayout returns a stacked container.
func StackedLayout(nodes ...Node) Layout { return Layout{Kind: Stacked, Nodes: nodes} }

func (l Layout) ToLayout() any {
	obj := newObject()
	setCommon(obj, common{
		border:   l.Border,
		floating: l.Floating,
		marks:    l.Marks,
		percent:  l.Percent,
		typ:      l.Type,
	})
	obj.Set("layout", string(l.Kind))
	if !l.Rect.IsZero() {
		obj.Set("rect", l.Rect.toJSON())
	}
	nodes := make([]any, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = n.ToLayout()
	}
	obj.Set("nodes", nodes)
	mergeOthers(obj, l.Others)
	return obj
}

func (l Layout) ToCommands() []command.Command {
	return nodesCommands(l.Nodes)
}

func (l Layout) LayoutString(indent string) (string, error) {
	return marshalLayout(l.ToLayout(), indent)
}

func (l Layout) MapWindows(f func(Window) Node) Toplevel { return l.mapNode(f) }

func (l Layout) mapNode(f func(Window) Node) Node {
	return l.MapNodes(func(n Node) Node { return n.mapNode(f) })
}

func (l Layout) WithoutMarks() Toplevel { return l.stripMarks() }

func (l Layout) stripMarks() Node {
	l = l.MapNodes(func(n Node) Node { return n.stripMarks() })
	l.Marks = nil
	return l
}

// MapNodes returns a copy of l with every direct child replaced by f(child).
func (l Layout) MapNodes(f func(Node) Node) Layout {
	nodes := make([]Node, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = f(n)
	}
	l.Nodes = nodes
	return l
}
