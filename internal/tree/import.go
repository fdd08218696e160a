package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mj1618/i3layout/internal/pattern"
	"github.com/tidwall/jsonc"
)

// ImportError reports malformed layout JSON. Path locates the offending
// value, e.g. "$.nodes[1].swallows[0].class".
type ImportError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *ImportError) Unwrap() error { return e.Err }

// ImportToplevel decodes a single layout object or an array of them. An
// array of one element yields that Node; any other array yields a Multi.
func ImportToplevel(data []byte) (Toplevel, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &ImportError{Path: "$", Reason: "invalid JSON array", Err: err}
		}
		roots := make([]Node, len(items))
		for i, item := range items {
			n, err := importNode(item, fmt.Sprintf("$[%d]", i))
			if err != nil {
				return nil, err
			}
			roots[i] = n
		}
		if len(roots) == 1 {
			return roots[0], nil
		}
		return Multi{Roots: roots}, nil
	}
	return ImportNode(trimmed)
}

// ImportNode decodes a layout object: a Layout when it has a "layout" key,
// a Window otherwise. Keys i3 defines but the value leaves at its default
// are normalized away so that rendering the result is stable.
func ImportNode(data []byte) (Node, error) {
	return importNode(data, "$")
}

// ImportStream reads i3-save-tree style input: one or more JSON values,
// possibly with // comments and trailing commas. A single value is imported
// with ImportToplevel; several values become a Multi.
func ImportStream(r io.Reader) (Toplevel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	var values []json.RawMessage
	for {
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ImportError{Path: fmt.Sprintf("$[%d]", len(values)), Reason: "invalid JSON", Err: err}
		}
		values = append(values, v)
	}
	switch len(values) {
	case 0:
		return nil, &ImportError{Path: "$", Reason: "no layout found in input"}
	case 1:
		return ImportToplevel(values[0])
	}
	var roots []Node
	for i, v := range values {
		top, err := ImportToplevel(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		switch t := top.(type) {
		case Multi:
			roots = append(roots, t.Roots...)
		case Node:
			roots = append(roots, t)
		}
	}
	return Multi{Roots: roots}, nil
}

// members consumes the recognized keys of a JSON object; what is left over
// ends up in Others.
type members struct {
	path   string
	fields *Fields
}

func decodeMembers(data []byte, path string) (*members, error) {
	fields := NewFields()
	if err := json.Unmarshal(data, fields); err != nil {
		return nil, &ImportError{Path: path, Reason: "expected a JSON object", Err: err}
	}
	return &members{path: path, fields: fields}, nil
}

func (m *members) has(key string) bool {
	_, ok := m.fields.Get(key)
	return ok
}

// take decodes key into dst and removes it. It reports whether the key was present.
func (m *members) take(key string, dst any) (bool, error) {
	raw, ok := m.fields.Get(key)
	if !ok {
		return false, nil
	}
	m.fields.Delete(key)
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, &ImportError{Path: m.path + "." + key, Reason: "invalid value", Err: err}
	}
	return true, nil
}

// rest returns the unrecognized members, or nil when there are none.
func (m *members) rest() *Fields {
	if m.fields.Len() == 0 {
		return nil
	}
	return m.fields
}

// importCommon reads the overrides shared by windows and layouts and
// fills in i3's defaults.
func (m *members) importCommon(c *common) error {
	c.marks = []string{}
	c.border = DefaultBorder
	c.floating = DefaultFloating
	c.typ = DefaultType
	for _, f := range []struct {
		key string
		dst any
	}{
		{"marks", &c.marks},
		{"percent", &c.percent},
		{"border", &c.border},
		{"floating", &c.floating},
		{"type", &c.typ},
	} {
		if _, err := m.take(f.key, f.dst); err != nil {
			return err
		}
	}
	if c.marks == nil {
		c.marks = []string{}
	}
	return nil
}

func importNode(data []byte, path string) (Node, error) {
	m, err := decodeMembers(data, path)
	if err != nil {
		return nil, err
	}
	if m.has("layout") {
		l, err := importLayout(m)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	w, err := importWindow(m)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func importLayout(m *members) (Layout, error) {
	var l Layout
	var kind string
	if _, err := m.take("layout", &kind); err != nil {
		return l, err
	}
	k, err := ParseKind(kind)
	if err != nil {
		return l, &ImportError{Path: m.path + ".layout", Reason: "unsupported container kind", Err: err}
	}
	l.Kind = k

	var c common
	if err := m.importCommon(&c); err != nil {
		return l, err
	}
	l.Marks, l.Percent, l.Border, l.Floating, l.Type = c.marks, c.percent, c.border, c.floating, c.typ

	if l.Rect, err = m.importGeometry("rect"); err != nil {
		return l, err
	}

	var rawNodes []json.RawMessage
	ok, err := m.take("nodes", &rawNodes)
	if err != nil {
		return l, err
	}
	if !ok || rawNodes == nil {
		return l, &ImportError{Path: m.path, Reason: `layout has no "nodes" array`}
	}
	l.Nodes = make([]Node, len(rawNodes))
	for i, raw := range rawNodes {
		n, err := importNode(raw, fmt.Sprintf("%s.nodes[%d]", m.path, i))
		if err != nil {
			return l, err
		}
		l.Nodes[i] = n
	}
	l.Others = m.rest()
	return l, nil
}

func importWindow(m *members) (Window, error) {
	var w Window
	var c common
	if err := m.importCommon(&c); err != nil {
		return w, err
	}
	w.Marks, w.Percent, w.Border, w.Floating, w.Type = c.marks, c.percent, c.border, c.floating, c.typ

	width := DefaultBorderWidth
	if _, err := m.take("current_border_width", &width); err != nil {
		return w, err
	}
	w.CurrentBorderWidth = &width

	var err error
	if w.Geometry, err = m.importGeometry("geometry"); err != nil {
		return w, err
	}
	if _, err := m.take("name", &w.Content.DefaultName); err != nil {
		return w, err
	}

	var rawSwallows []json.RawMessage
	ok, err := m.take("swallows", &rawSwallows)
	if err != nil {
		return w, err
	}
	if !ok || rawSwallows == nil {
		return w, &ImportError{Path: m.path, Reason: `window has no "swallows" array`}
	}
	w.Content.Swallows = make([]Swallow, len(rawSwallows))
	for i, raw := range rawSwallows {
		sw, err := importSwallow(raw, fmt.Sprintf("%s.swallows[%d]", m.path, i))
		if err != nil {
			return w, err
		}
		w.Content.Swallows[i] = sw
	}
	w.Others = m.rest()
	return w, nil
}

func (m *members) importGeometry(key string) (*Geometry, error) {
	raw, ok := m.fields.Get(key)
	if !ok {
		return nil, nil
	}
	m.fields.Delete(key)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	gm, err := decodeMembers(raw, m.path+"."+key)
	if err != nil {
		return nil, err
	}
	g := &Geometry{}
	for _, f := range []struct {
		key string
		dst **float64
	}{{"x", &g.X}, {"y", &g.Y}, {"width", &g.Width}, {"height", &g.Height}} {
		if _, err := gm.take(f.key, f.dst); err != nil {
			return nil, err
		}
	}
	g.Others = gm.rest()
	if g.IsZero() {
		return nil, nil
	}
	return g, nil
}

func importSwallow(data []byte, path string) (Swallow, error) {
	var sw Swallow
	m, err := decodeMembers(data, path)
	if err != nil {
		return sw, err
	}
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		keyPath := path + "." + pair.Key
		var s string
		if err := json.Unmarshal(pair.Value, &s); err != nil {
			return sw, &ImportError{Path: keyPath, Reason: "expected a string", Err: err}
		}
		p, err := pattern.Import(s)
		if err != nil {
			return sw, &ImportError{Path: keyPath, Reason: "unsupported pattern", Err: err}
		}
		if !sw.setField(pair.Key, p) {
			return sw, &ImportError{Path: keyPath, Reason: "unknown swallow criterion"}
		}
	}
	return sw, nil
}
