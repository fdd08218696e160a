// Package session reads and writes session files: YAML (or JSON) documents
// describing which layout goes on which workspace and how its windows are
// launched.
//
//	workspaces:
//	  - name: "1"
//	    root:
//	      layout: splith
//	      nodes:
//	        - preset: firefox
//	          percent: 0.6
//	        - window:
//	            name: Logs
//	            swallows: [{class: Xfce4-terminal, title: Logs}]
//	            commands: [{argv: [xfce4-terminal, --title=Logs]}]
//	    modifiers: [{workdir: /srv}]
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mj1618/i3layout/internal/i3"
	"github.com/mj1618/i3layout/internal/modifier"
	"github.com/mj1618/i3layout/internal/pattern"
	"github.com/mj1618/i3layout/internal/preset"
	"github.com/mj1618/i3layout/internal/tree"
	"gopkg.in/yaml.v3"
)

// File is a decoded session file.
type File struct {
	Workspaces []Workspace `yaml:"workspaces"`
	// Modifiers apply to every workspace, after the workspace's own.
	Modifiers []Modifier `yaml:"modifiers,omitempty"`
}

// Workspace places one root, or several side by side, on a workspace.
type Workspace struct {
	Name      string     `yaml:"name,omitempty"`
	Root      *Node      `yaml:"root,omitempty"`
	Roots     []Node     `yaml:"roots,omitempty"`
	Modifiers []Modifier `yaml:"modifiers,omitempty"`
}

// Node is one element of a layout tree. Exactly one of Layout, Preset,
// Window and Raw must be set.
type Node struct {
	Layout string         `yaml:"layout,omitempty"`
	Nodes  []Node         `yaml:"nodes,omitempty"`
	Preset string         `yaml:"preset,omitempty"`
	Args   *PresetArgs    `yaml:"args,omitempty"`
	Window *WindowContent `yaml:"window,omitempty"`
	// Raw is a layout element in i3's JSON, used verbatim.
	Raw string `yaml:"raw,omitempty"`

	// Name overrides the window name.
	Name        string    `yaml:"name,omitempty"`
	Percent     *float64  `yaml:"percent,omitempty"`
	Marks       []string  `yaml:"marks,omitempty"`
	Border      string    `yaml:"border,omitempty"`
	BorderWidth *int      `yaml:"borderWidth,omitempty"`
	Floating    string    `yaml:"floating,omitempty"`
	Type        string    `yaml:"type,omitempty"`
	Geometry    *Geometry `yaml:"geometry,omitempty"`
	Extra       *Extra    `yaml:"extra,omitempty"`

	Modifiers []Modifier `yaml:"modifiers,omitempty"`
}

// PresetArgs are passed to a preset.
type PresetArgs struct {
	URL      string   `yaml:"url,omitempty"`
	Instance string   `yaml:"instance,omitempty"`
	Project  string   `yaml:"project,omitempty"`
	Title    string   `yaml:"title,omitempty"`
	Command  *Command `yaml:"command,omitempty"`
}

// WindowContent spells out a window without a preset.
type WindowContent struct {
	Name     string    `yaml:"name,omitempty"`
	Swallows []Swallow `yaml:"swallows,omitempty"`
	Commands []Command `yaml:"commands,omitempty"`
	Flatpak  []string  `yaml:"flatpak,omitempty"`
}

// Swallow is one set of window criteria.
type Swallow struct {
	Class      *Pattern `yaml:"class,omitempty"`
	Instance   *Pattern `yaml:"instance,omitempty"`
	Machine    *Pattern `yaml:"machine,omitempty"`
	Title      *Pattern `yaml:"title,omitempty"`
	WindowRole *Pattern `yaml:"windowRole,omitempty"`
}

// Geometry is a floating geometry or container rect.
type Geometry struct {
	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
	Width  *float64 `yaml:"width,omitempty"`
	Height *float64 `yaml:"height,omitempty"`
}

// Modifier selects one rewrite of the windows below it.
type Modifier struct {
	Workdir     string    `yaml:"workdir,omitempty"`
	Qube        *QubeSpec `yaml:"qube,omitempty"`
	Flatpak     bool      `yaml:"flatpak,omitempty"`
	Placeholder bool      `yaml:"placeholder,omitempty"`
}

// QubeSpec configures the Qubes OS modifier.
type QubeSpec struct {
	Name          string `yaml:"name"`
	UnicodeTitles bool   `yaml:"unicodeTitles,omitempty"`
}

// Error reports where in a session file building a tree failed.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func errorf(path, format string, args ...any) error {
	return &Error{Path: path, Err: fmt.Errorf(format, args...)}
}

// Parse decodes a session file. JSON is accepted as a subset of YAML.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("session file is empty")
		}
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &f, nil
}

// Load decodes a session file and builds its plan.
func Load(r io.Reader) (i3.Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return f.Plan()
}

// Plan builds the layout trees of every workspace in file order.
func (f *File) Plan() (i3.Plan, error) {
	plan := make(i3.Plan, 0, len(f.Workspaces))
	for i, ws := range f.Workspaces {
		path := fmt.Sprintf("workspaces[%d]", i)
		root, err := ws.build(path)
		if err != nil {
			return nil, err
		}
		root, err = applyModifiers(f.Modifiers, root, "modifiers")
		if err != nil {
			return nil, err
		}
		plan = append(plan, i3.Workspace{Name: ws.Name, Root: root})
	}
	return plan, nil
}

func (ws Workspace) build(path string) (tree.Toplevel, error) {
	var root tree.Toplevel
	switch {
	case ws.Root != nil && ws.Roots == nil:
		n, err := ws.Root.build(path + ".root")
		if err != nil {
			return nil, err
		}
		root = n
	case ws.Roots != nil && ws.Root == nil:
		nodes, err := buildNodes(ws.Roots, path+".roots")
		if err != nil {
			return nil, err
		}
		root = tree.Multi{Roots: nodes}
	default:
		return nil, errorf(path, "workspace needs exactly one of root, roots")
	}
	return applyModifiers(ws.Modifiers, root, path+".modifiers")
}

func buildNodes(specs []Node, path string) ([]tree.Node, error) {
	nodes := make([]tree.Node, 0, len(specs))
	for i, spec := range specs {
		n, err := spec.build(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Build turns the node into a tree node.
func (n Node) Build() (tree.Node, error) { return n.build("$") }

func (n Node) build(path string) (tree.Node, error) {
	kinds := 0
	for _, set := range []bool{n.Layout != "", n.Preset != "", n.Window != nil, n.Raw != ""} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errorf(path, "node needs exactly one of layout, preset, window, raw")
	}

	var node tree.Node
	var err error
	switch {
	case n.Layout != "":
		node, err = n.buildLayout(path)
	case n.Preset != "":
		node, err = n.buildPreset(path)
	case n.Window != nil:
		var content tree.WindowContent
		content, err = n.Window.build(path + ".window")
		node = n.window(content)
	case n.Raw != "":
		node, err = n.buildRaw(path)
	}
	if err != nil {
		return nil, err
	}

	top, err := applyModifiers(n.Modifiers, node, path+".modifiers")
	if err != nil {
		return nil, err
	}
	return top.(tree.Node), nil
}

func (n Node) buildLayout(path string) (tree.Node, error) {
	kind, err := tree.ParseKind(n.Layout)
	if err != nil {
		return nil, errorf(path+".layout", "%v", err)
	}
	if n.Name != "" || n.BorderWidth != nil {
		return nil, errorf(path, "name and borderWidth apply to windows only")
	}
	nodes, err := buildNodes(n.Nodes, path+".nodes")
	if err != nil {
		return nil, err
	}
	return tree.Layout{
		Kind:     kind,
		Nodes:    nodes,
		Marks:    n.Marks,
		Percent:  n.Percent,
		Border:   n.Border,
		Floating: n.Floating,
		Type:     n.Type,
		Rect:     n.Geometry.build(),
		Others:   n.Extra.build(),
	}, nil
}

func (n Node) buildPreset(path string) (tree.Node, error) {
	if n.Nodes != nil {
		return nil, errorf(path, "only layouts have nodes")
	}
	p, err := preset.Lookup(n.Preset)
	if err != nil {
		return nil, errorf(path+".preset", "%v", err)
	}
	var args preset.Args
	if n.Args != nil {
		args = preset.Args{URL: n.Args.URL, Instance: n.Args.Instance, Project: n.Args.Project, Title: n.Args.Title}
		if n.Args.Command != nil {
			args.Command = n.Args.Command.Command
		}
	}
	return n.window(p.Build(args)), nil
}

func (n Node) window(content tree.WindowContent) tree.Window {
	return tree.Window{
		Content:            content,
		Name:               n.Name,
		Percent:            n.Percent,
		Marks:              n.Marks,
		Border:             n.Border,
		CurrentBorderWidth: n.BorderWidth,
		Floating:           n.Floating,
		Type:               n.Type,
		Geometry:           n.Geometry.build(),
		Others:             n.Extra.build(),
	}
}

func (n Node) buildRaw(path string) (tree.Node, error) {
	raw := json.RawMessage(n.Raw)
	if !json.Valid(raw) {
		return nil, errorf(path+".raw", "invalid JSON")
	}
	return tree.RawElement{Raw: raw}, nil
}

func (c WindowContent) build(path string) (tree.WindowContent, error) {
	if len(c.Swallows) == 0 {
		return tree.WindowContent{}, errorf(path+".swallows", "window needs at least one swallow")
	}
	out := tree.WindowContent{DefaultName: c.Name, PackageIDs: c.Flatpak}
	for _, sw := range c.Swallows {
		out.Swallows = append(out.Swallows, sw.build())
	}
	for _, cmd := range c.Commands {
		out.Commands = append(out.Commands, cmd.Command)
	}
	return out, nil
}

func (s Swallow) build() tree.Swallow {
	get := func(p *Pattern) pattern.Pattern {
		if p == nil {
			return nil
		}
		return p.Pattern
	}
	return tree.Swallow{
		WinClass:   get(s.Class),
		Instance:   get(s.Instance),
		Machine:    get(s.Machine),
		Title:      get(s.Title),
		WindowRole: get(s.WindowRole),
	}
}

func (g *Geometry) build() *tree.Geometry {
	if g == nil {
		return nil
	}
	out := &tree.Geometry{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
	if out.IsZero() {
		return nil
	}
	return out
}

func (e *Extra) build() *tree.Fields {
	if e == nil || len(e.Keys) == 0 {
		return nil
	}
	fields := tree.NewFields()
	for i, key := range e.Keys {
		fields.Set(key, e.Values[i])
	}
	return fields
}

func applyModifiers(mods []Modifier, top tree.Toplevel, path string) (tree.Toplevel, error) {
	for i, m := range mods {
		var err error
		top, err = m.apply(top)
		if err != nil {
			return nil, &Error{Path: fmt.Sprintf("%s[%d]", path, i), Err: err}
		}
	}
	return top, nil
}

func (m Modifier) apply(top tree.Toplevel) (tree.Toplevel, error) {
	set := 0
	for _, ok := range []bool{m.Workdir != "", m.Qube != nil, m.Flatpak, m.Placeholder} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("modifier needs exactly one of workdir, qube, flatpak, placeholder")
	}
	switch {
	case m.Workdir != "":
		return modifier.ApplyTree(modifier.WorkingDir{Dir: m.Workdir}, top)
	case m.Qube != nil:
		if m.Qube.Name == "" {
			return nil, errors.New("qube needs a name")
		}
		return modifier.ApplyTree(modifier.Qube{Name: m.Qube.Name, UnicodeTitles: m.Qube.UnicodeTitles}, top)
	case m.Flatpak:
		return mapContent(top, tree.WindowContent.AsFlatpak), nil
	default:
		return mapContent(top, tree.WindowContent.PlaceholderOnly), nil
	}
}

func mapContent(top tree.Toplevel, f func(tree.WindowContent) tree.WindowContent) tree.Toplevel {
	return top.MapWindows(func(w tree.Window) tree.Node { return w.MapContent(f) })
}
