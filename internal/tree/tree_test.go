package tree

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mj1618/i3layout/internal/command"
	"github.com/mj1618/i3layout/internal/pattern"
)

func mustImport(t *testing.T, s string) Toplevel {
	t.Helper()
	top, err := ImportToplevel([]byte(s))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return top
}

func mustRender(t *testing.T, top Toplevel) string {
	t.Helper()
	s, err := top.LayoutString("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return s
}

func contentWith(name string, cmds ...string) WindowContent {
	c := WindowContent{
		Swallows:    []Swallow{{WinClass: pattern.Lit(name)}},
		DefaultName: name,
	}
	for _, cmd := range cmds {
		c.Commands = append(c.Commands, command.System(cmd))
	}
	return c
}

func TestRoundTrip_DefaultsOmitted(t *testing.T) {
	in := `{"layout": "splitv", "nodes": [{"swallows": [{"class": "^firefox$"}]}]}`
	got := mustRender(t, mustImport(t, in))
	want := `{"layout":"splitv","nodes":[{"swallows":[{"class":"^firefox$"}]}]}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	for _, key := range []string{"border", "floating", "type", "marks", "current_border_width"} {
		if strings.Contains(got, `"`+key+`"`) {
			t.Errorf("default key %q should be omitted", key)
		}
	}
}

func TestRoundTrip_ExplicitDefaultsCanonicalized(t *testing.T) {
	in := `{
		"border": "normal",
		"floating": "auto_off",
		"layout": "splitv",
		"marks": [],
		"type": "con",
		"nodes": [{
			"border": "normal",
			"current_border_width": 2,
			"floating": "auto_off",
			"marks": [],
			"type": "con",
			"swallows": [{"class": "^firefox$"}]
		}]
	}`
	got := mustRender(t, mustImport(t, in))
	want := `{"layout":"splitv","nodes":[{"swallows":[{"class":"^firefox$"}]}]}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRoundTrip_NonDefaultsAndOthers(t *testing.T) {
	in := `{"border":"pixel","current_border_width":1,"floating":"user_on",` +
		`"geometry":{"height":600,"width":800,"x":0,"y":0},"marks":["main"],"name":"Firefox",` +
		`"percent":0.5,"swallows":[{"class":"^firefox$","instance":"^Navigator$"}],` +
		`"type":"floating_con","sticky":true}`
	top := mustImport(t, in)
	got := mustRender(t, top)
	want := `{"border":"pixel","floating":"user_on","marks":["main"],"percent":0.5,"type":"floating_con",` +
		`"current_border_width":1,"geometry":{"x":0,"y":0,"width":800,"height":600},"name":"Firefox",` +
		`"swallows":[{"class":"^firefox$","instance":"^Navigator$"}],"sticky":true}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	// Rendering is stable once canonical.
	again := mustRender(t, mustImport(t, got))
	if again != got {
		t.Errorf("second round trip changed output:\n%s\n%s", got, again)
	}
}

func TestImport_OthersPreservedVerbatim(t *testing.T) {
	in := `{"layout":"tabbed","workspace_layout":"default","nodes":[],"fullscreen_mode":0,"extra":{"b":1,"a":[2,3]}}`
	got := mustRender(t, mustImport(t, in))
	want := `{"layout":"tabbed","nodes":[],"workspace_layout":"default","fullscreen_mode":0,"extra":{"b":1,"a":[2,3]}}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestToLayout_RecognizedFieldsWin(t *testing.T) {
	others := NewFields()
	others.Set("name", json.RawMessage(`"from others"`))
	others.Set("urgent", json.RawMessage(`false`))
	w := Window{Content: contentWith("xterm"), Others: others}
	got := mustRender(t, w)
	want := `{"name":"xterm","swallows":[{"class":"^xterm$"}],"urgent":false}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestGeometry_AbsentVersusZero(t *testing.T) {
	top := mustImport(t, `{"swallows":[]}`)
	w := top.(Window)
	if w.Geometry != nil {
		t.Errorf("missing geometry should import as nil, got %+v", w.Geometry)
	}

	top = mustImport(t, `{"swallows":[],"geometry":{"x":0,"y":0,"width":0,"height":0}}`)
	w = top.(Window)
	if w.Geometry == nil || w.Geometry.X == nil || *w.Geometry.X != 0 {
		t.Fatalf("zero geometry should be present, got %+v", w.Geometry)
	}
	got := mustRender(t, w)
	want := `{"geometry":{"x":0,"y":0,"width":0,"height":0},"swallows":[]}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestImport_Defaults(t *testing.T) {
	w := mustImport(t, `{"swallows":[{}]}`).(Window)
	if w.Border != DefaultBorder {
		t.Errorf("border: got %q, want %q", w.Border, DefaultBorder)
	}
	if w.Floating != DefaultFloating {
		t.Errorf("floating: got %q, want %q", w.Floating, DefaultFloating)
	}
	if w.Type != DefaultType {
		t.Errorf("type: got %q, want %q", w.Type, DefaultType)
	}
	if w.CurrentBorderWidth == nil || *w.CurrentBorderWidth != DefaultBorderWidth {
		t.Errorf("current_border_width: got %v, want %d", w.CurrentBorderWidth, DefaultBorderWidth)
	}
	if w.Marks == nil || len(w.Marks) != 0 {
		t.Errorf("marks: got %#v, want empty slice", w.Marks)
	}
}

func TestImport_Swallows(t *testing.T) {
	w := mustImport(t, `{"name":"IDE","swallows":[{"class":"^jetbrains\\-idea$","title":"^proj \\(x\\)$"}]}`).(Window)
	if w.Content.DefaultName != "IDE" {
		t.Errorf("name: got %q", w.Content.DefaultName)
	}
	sw := w.Content.Swallows[0]
	if diff := cmp.Diff(pattern.Pattern(pattern.Lit("jetbrains-idea")), sw.WinClass); diff != "" {
		t.Errorf("class mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pattern.Pattern(pattern.Lit("proj (x)")), sw.Title); diff != "" {
		t.Errorf("title mismatch (-want +got):\n%s", diff)
	}
	if sw.Instance != nil || sw.Machine != nil || sw.WindowRole != nil {
		t.Errorf("unexpected criteria: %+v", sw)
	}
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		path string
	}{
		{"layout_without_nodes", `{"layout":"splith"}`, "$"},
		{"layout_null_nodes", `{"layout":"splith","nodes":null}`, "$"},
		{"window_without_swallows", `{"layout":"splith","nodes":[{"name":"x"}]}`, "$.nodes[0]"},
		{"bad_pattern", `{"layout":"splith","nodes":[{"swallows":[{"title":"^Terminal - .*$"}]}]}`, "$.nodes[0].swallows[0].title"},
		{"unknown_criterion", `{"swallows":[{"con_id":"^1$"}]}`, "$.swallows[0].con_id"},
		{"unknown_kind", `{"layout":"output","nodes":[]}`, "$.layout"},
		{"bad_marks", `{"swallows":[],"marks":"x"}`, "$.marks"},
		{"not_an_object", `[{"swallows":[]}, 3]`, "$[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportToplevel([]byte(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			var ie *ImportError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *ImportError, got %T: %v", err, err)
			}
			if ie.Path != tt.path {
				t.Errorf("path: got %q, want %q (%v)", ie.Path, tt.path, err)
			}
		})
	}
}

func TestImport_BadPatternUnwraps(t *testing.T) {
	_, err := ImportNode([]byte(`{"swallows":[{"class":"^a+$"}]}`))
	var pe *pattern.ImportError
	if !errors.As(err, &pe) {
		t.Fatalf("expected wrapped *pattern.ImportError, got %v", err)
	}
	if pe.Fragment != "+" {
		t.Errorf("fragment: got %q", pe.Fragment)
	}
}

func TestImportToplevel_Arrays(t *testing.T) {
	single := mustImport(t, `[{"swallows":[]}]`)
	if _, ok := single.(Window); !ok {
		t.Errorf("single-element array: got %T, want Window", single)
	}
	multi := mustImport(t, `[{"swallows":[]},{"layout":"stacked","nodes":[]}]`)
	m, ok := multi.(Multi)
	if !ok {
		t.Fatalf("two-element array: got %T, want Multi", multi)
	}
	if len(m.Roots) != 2 {
		t.Errorf("roots: got %d, want 2", len(m.Roots))
	}
	if _, ok := m.Roots[1].(Layout); !ok {
		t.Errorf("second root: got %T, want Layout", m.Roots[1])
	}
}

func TestImportStream_SaveTreeOutput(t *testing.T) {
	in := `// vim:ts=4:sw=4:et
{
    // splith split container with 2 children
    "border": "normal",
    "floating": "auto_off",
    "layout": "splith",
    "nodes": [
        {
            "border": "pixel",
            "current_border_width": 2,
            "name": "Mozilla Firefox",
            "swallows": [
               {
                "class": "^firefox$",
               // "instance": "^Navigator$",
               // "title": "^Mozilla\\ Firefox$"
               }
            ],
            "type": "con"
        },
    ]
}

{
    "swallows": [ { "class": "^Signal$" } ]
}
`
	top, err := ImportStream(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	m, ok := top.(Multi)
	if !ok {
		t.Fatalf("got %T, want Multi", top)
	}
	got, err := m.LayoutString("")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"layout":"splith","nodes":[{"border":"pixel","name":"Mozilla Firefox","swallows":[{"class":"^firefox$"}]}]}` +
		"\n\n" + `{"swallows":[{"class":"^Signal$"}]}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestImportStream_Empty(t *testing.T) {
	if _, err := ImportStream(strings.NewReader("// nothing here\n")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestToCommands_Order(t *testing.T) {
	w1 := NewWindow(contentWith("w1", "one", "one-b"))
	w2 := NewWindow(contentWith("w2", "two"))
	w3 := NewWindow(contentWith("w3", "three"))
	l := Horizontal(w1, Vertical(w2, w3))

	var got []string
	for _, c := range l.ToCommands() {
		got = append(got, c.ShellString())
	}
	want := []string{"one", "one-b", "two", "three"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	raw := RawElement{Raw: json.RawMessage(`{"swallows":[]}`), Commands: []command.Command{command.Shell("raw")}}
	m := Multi{Roots: []Node{l, raw, w1}}
	got = nil
	for _, c := range m.ToCommands() {
		got = append(got, c.ShellString())
	}
	want = []string{"one", "one-b", "two", "three", "raw", "one", "one-b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("multi commands mismatch (-want +got):\n%s", diff)
	}
}

func TestWithoutMarks(t *testing.T) {
	inner := NewWindow(contentWith("inner"))
	inner.Marks = []string{"a"}
	nested := Vertical(inner)
	nested.Marks = []string{"b"}
	outer := Horizontal(nested, NewWindow(contentWith("plain")))
	outer.Marks = []string{"c"}

	once := outer.WithoutMarks()
	s := mustRender(t, once)
	if strings.Contains(s, "marks") {
		t.Errorf("marks should be cleared at every depth: %s", s)
	}
	twice := once.WithoutMarks()
	if mustRender(t, twice) != s {
		t.Error("WithoutMarks should be idempotent")
	}
	if len(inner.Marks) != 1 || len(outer.Marks) != 1 {
		t.Error("WithoutMarks must not modify the original tree")
	}
}

func TestMapWindows(t *testing.T) {
	raw := RawElement{Raw: json.RawMessage(`{"name":"untouched"}`)}
	l := Horizontal(NewWindow(contentWith("a")), TabbedLayout(NewWindow(contentWith("b"))), raw)

	var seen []string
	mapped := l.MapWindows(func(w Window) Node {
		seen = append(seen, w.DisplayName())
		w.Name = strings.ToUpper(w.DisplayName())
		return w
	})
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("visited mismatch (-want +got):\n%s", diff)
	}
	got := mustRender(t, mapped)
	want := `{"layout":"splith","nodes":[{"name":"A","swallows":[{"class":"^a$"}]},` +
		`{"layout":"tabbed","nodes":[{"name":"B","swallows":[{"class":"^b$"}]}]},{"name":"untouched"}]}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestMapWindows_ReplaceWithLayout(t *testing.T) {
	m := Multi{Roots: []Node{NewWindow(contentWith("a"))}}
	mapped := m.MapWindows(func(w Window) Node {
		return StackedLayout(w, w)
	})
	got := mustRender(t, mapped)
	want := `{"layout":"stacked","nodes":[{"name":"a","swallows":[{"class":"^a$"}]},{"name":"a","swallows":[{"class":"^a$"}]}]}`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestMulti_LayoutString(t *testing.T) {
	m := Multi{Roots: []Node{NewWindow(contentWith("a")), NewWindow(contentWith("b"))}}
	got, err := m.LayoutString("  ")
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 blank-line separated documents, got %d:\n%s", len(parts), got)
	}
	for _, p := range parts {
		var v map[string]any
		if err := json.Unmarshal([]byte(p), &v); err != nil {
			t.Errorf("document is not valid JSON: %v\n%s", err, p)
		}
	}

	arr, err := json.Marshal(m.ToLayout())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(arr), "[") {
		t.Errorf("Multi.ToLayout should be an array, got %s", arr)
	}
}

func TestWindowContent_AsFlatpak(t *testing.T) {
	c := contentWith("firefox", "firefox")
	c.PackageIDs = []string{"org.mozilla.Firefox"}
	fp := c.AsFlatpak()
	if len(fp.Commands) != 1 || fp.Commands[0].ShellString() != "flatpak run org.mozilla.Firefox" {
		t.Errorf("unexpected commands: %#v", fp.Commands)
	}
	if c.Commands[0].ShellString() != "firefox" {
		t.Error("AsFlatpak must not modify the receiver")
	}

	plain := contentWith("xterm", "xterm")
	if got := plain.AsFlatpak(); len(got.Commands) != 1 || got.Commands[0].ShellString() != "xterm" {
		t.Errorf("content without package IDs should keep its commands: %#v", got.Commands)
	}

	ph := c.PlaceholderOnly()
	if len(ph.Commands) != 0 || len(ph.PackageIDs) != 0 {
		t.Errorf("PlaceholderOnly should clear commands and package IDs: %+v", ph)
	}
}

func TestSwallowMatches(t *testing.T) {
	sw := Swallow{
		WinClass: pattern.Either(pattern.Lit("firefox"), pattern.Lit("org.mozilla.firefox")),
		Title:    pattern.Concat(pattern.Lit("Inbox - "), pattern.Any()),
	}
	tests := []struct {
		attrs map[string]string
		want  bool
	}{
		{map[string]string{"class": "firefox", "title": "Inbox - Mail"}, true},
		{map[string]string{"class": "org.mozilla.firefox", "title": "Inbox - "}, true},
		{map[string]string{"class": "firefox-esr", "title": "Inbox - Mail"}, false},
		{map[string]string{"class": "firefox"}, false},
		{map[string]string{"class": "orgXmozilla.firefox", "title": "Inbox - x"}, false},
	}
	for _, tt := range tests {
		got, err := sw.Matches(tt.attrs)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Matches(%v) = %v, want %v", tt.attrs, got, tt.want)
		}
	}

	content := WindowContent{Swallows: []Swallow{{WinClass: pattern.Lit("a")}, {Instance: pattern.Lit("b")}}}
	if ok, _ := content.Matches(map[string]string{"instance": "b"}); !ok {
		t.Error("second swallow should match")
	}
	if ok, _ := (WindowContent{}).Matches(map[string]string{"class": "x"}); ok {
		t.Error("content without swallows matches nothing")
	}

	raw := Swallow{Title: pattern.RawPCRE(`\d+`)}
	if _, err := raw.Matches(map[string]string{"title": "1"}); !errors.Is(err, pattern.ErrUnsupportedDialect) {
		t.Errorf("expected ErrUnsupportedDialect, got %v", err)
	}
}
