package session

import (
	"bytes"
	"fmt"

	"github.com/mj1618/i3layout/internal/i3"
	"github.com/mj1618/i3layout/internal/pattern"
	"github.com/mj1618/i3layout/internal/tree"
	"gopkg.in/yaml.v3"
)

// FromPlan describes plan as a session file.
func FromPlan(plan i3.Plan) (*File, error) {
	f := &File{Workspaces: make([]Workspace, 0, len(plan))}
	for _, ws := range plan {
		spec, err := FromToplevel(ws.Name, ws.Root)
		if err != nil {
			return nil, err
		}
		f.Workspaces = append(f.Workspaces, spec)
	}
	return f, nil
}

// FromToplevel describes top as a workspace. Values equal to i3's
// defaults are left out.
func FromToplevel(name string, top tree.Toplevel) (Workspace, error) {
	ws := Workspace{Name: name}
	switch v := top.(type) {
	case tree.Multi:
		ws.Roots = make([]Node, 0, len(v.Roots))
		for _, root := range v.Roots {
			n, err := FromNode(root)
			if err != nil {
				return ws, err
			}
			ws.Roots = append(ws.Roots, n)
		}
	case tree.Node:
		n, err := FromNode(v)
		if err != nil {
			return ws, err
		}
		ws.Root = &n
	default:
		return ws, fmt.Errorf("unsupported toplevel %T", top)
	}
	return ws, nil
}

// FromNode describes a single tree node.
func FromNode(node tree.Node) (Node, error) {
	switch v := node.(type) {
	case tree.Window:
		return fromWindow(v), nil
	case tree.Layout:
		n := Node{
			Layout:   string(v.Kind),
			Percent:  v.Percent,
			Marks:    nonEmpty(v.Marks),
			Border:   nonDefault(v.Border, tree.DefaultBorder),
			Floating: nonDefault(v.Floating, tree.DefaultFloating),
			Type:     nonDefault(v.Type, tree.DefaultType),
			Geometry: fromGeometry(v.Rect),
			Extra:    fromFields(v.Others),
		}
		n.Nodes = make([]Node, 0, len(v.Nodes))
		for _, child := range v.Nodes {
			c, err := FromNode(child)
			if err != nil {
				return n, err
			}
			n.Nodes = append(n.Nodes, c)
		}
		return n, nil
	case tree.RawElement:
		return Node{Raw: string(v.Raw)}, nil
	}
	return Node{}, fmt.Errorf("unsupported node %T", node)
}

func fromWindow(w tree.Window) Node {
	content := &WindowContent{
		Name:    w.Content.DefaultName,
		Flatpak: w.Content.PackageIDs,
	}
	for _, sw := range w.Content.Swallows {
		content.Swallows = append(content.Swallows, fromSwallow(sw))
	}
	for _, c := range w.Content.Commands {
		content.Commands = append(content.Commands, Command{c})
	}
	n := Node{
		Window:   content,
		Name:     w.Name,
		Percent:  w.Percent,
		Marks:    nonEmpty(w.Marks),
		Border:   nonDefault(w.Border, tree.DefaultBorder),
		Floating: nonDefault(w.Floating, tree.DefaultFloating),
		Type:     nonDefault(w.Type, tree.DefaultType),
		Geometry: fromGeometry(w.Geometry),
		Extra:    fromFields(w.Others),
	}
	if w.CurrentBorderWidth != nil && *w.CurrentBorderWidth != tree.DefaultBorderWidth {
		n.BorderWidth = w.CurrentBorderWidth
	}
	return n
}

func fromSwallow(sw tree.Swallow) Swallow {
	wrapOne := func(p pattern.Pattern) *Pattern {
		if p == nil {
			return nil
		}
		return &Pattern{p}
	}
	return Swallow{
		Class:      wrapOne(sw.WinClass),
		Instance:   wrapOne(sw.Instance),
		Machine:    wrapOne(sw.Machine),
		Title:      wrapOne(sw.Title),
		WindowRole: wrapOne(sw.WindowRole),
	}
}

func fromGeometry(g *tree.Geometry) *Geometry {
	if g.IsZero() {
		return nil
	}
	return &Geometry{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

func fromFields(f *tree.Fields) *Extra {
	if f == nil || f.Len() == 0 {
		return nil
	}
	e := &Extra{}
	for pair := f.Oldest(); pair != nil; pair = pair.Next() {
		e.Keys = append(e.Keys, pair.Key)
		e.Values = append(e.Values, pair.Value)
	}
	return e
}

func nonDefault(v, def string) string {
	if v == def {
		return ""
	}
	return v
}

func nonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Marshal encodes a session file as YAML with two-space indentation.
func Marshal(f *File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
