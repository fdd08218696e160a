package tree

import (
	"github.com/mj1618/i3layout/internal/command"
)

// Values i3 assumes when a field is missing. Fields holding these values are
// omitted on export.
const (
	DefaultBorder      = "normal"
	DefaultBorderWidth = 2
	DefaultFloating    = "auto_off"
	DefaultType        = "con"
)

// Geometry is the floating geometry of a window (or rect of a container).
// A nil *Geometry means the key was absent.
type Geometry struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Others *Fields
}

// IsZero reports whether no member is set.
func (g *Geometry) IsZero() bool {
	return g == nil ||
		(g.X == nil && g.Y == nil && g.Width == nil && g.Height == nil &&
			(g.Others == nil || g.Others.Len() == 0))
}

func (g *Geometry) toJSON() any {
	obj := newObject()
	for _, f := range []struct {
		key string
		v   *float64
	}{{"x", g.X}, {"y", g.Y}, {"width", g.Width}, {"height", g.Height}} {
		if f.v != nil {
			obj.Set(f.key, *f.v)
		}
	}
	mergeOthers(obj, g.Others)
	return obj
}

// Window is a placeholder leaf.
type Window struct {
	Content WindowContent

	// Name overrides Content.DefaultName.
	Name               string
	Percent            *float64
	Marks              []string
	Border             string
	CurrentBorderWidth *int
	Floating           string
	Type               string
	Geometry           *Geometry
	Others             *Fields
}

// NewWindow returns a window holding content with every override unset.
func NewWindow(content WindowContent) Window {
	return Window{Content: content}
}

// DisplayName is the name i3 shows for the placeholder.
func (w Window) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.Content.DefaultName
}

func (w Window) ToLayout() any {
	obj := newObject()
	setCommon(obj, common{
		border:   w.Border,
		floating: w.Floating,
		marks:    w.Marks,
		percent:  w.Percent,
		typ:      w.Type,
	})
	if w.CurrentBorderWidth != nil && *w.CurrentBorderWidth != DefaultBorderWidth {
		obj.Set("current_border_width", *w.CurrentBorderWidth)
	}
	if !w.Geometry.IsZero() {
		obj.Set("geometry", w.Geometry.toJSON())
	}
	if name := w.DisplayName(); name != "" {
		obj.Set("name", name)
	}
	swallows := make([]any, len(w.Content.Swallows))
	for i, sw := range w.Content.Swallows {
		swallows[i] = sw.ToJSON()
	}
	obj.Set("swallows", swallows)
	mergeOthers(obj, w.Others)
	return obj
}

func (w Window) ToCommands() []command.Command {
	return append([]command.Command(nil), w.Content.Commands...)
}

func (w Window) LayoutString(indent string) (string, error) {
	return marshalLayout(w.ToLayout(), indent)
}

func (w Window) MapWindows(f func(Window) Node) Toplevel { return f(w) }
func (w Window) mapNode(f func(Window) Node) Node        { return f(w) }

func (w Window) WithoutMarks() Toplevel { return w.stripMarks() }

func (w Window) stripMarks() Node {
	w.Marks = nil
	return w
}

// MapContent returns a copy of w with its content replaced by f(content).
func (w Window) MapContent(f func(WindowContent) WindowContent) Window {
	w.Content = f(w.Content)
	return w
}

// common holds the overrides shared by windows and layouts.
type common struct {
	border   string
	floating string
	marks    []string
	percent  *float64
	typ      string
}

// setCommon writes the shared overrides, skipping values equal to i3's
// defaults.
func setCommon(obj *object, c common) {
	if c.border != "" && c.border != DefaultBorder {
		obj.Set("border", c.border)
	}
	if c.floating != "" && c.floating != DefaultFloating {
		obj.Set("floating", c.floating)
	}
	if len(c.marks) > 0 {
		obj.Set("marks", append([]string(nil), c.marks...))
	}
	if c.percent != nil {
		obj.Set("percent", *c.percent)
	}
	if c.typ != "" && c.typ != DefaultType {
		obj.Set("type", c.typ)
	}
}
