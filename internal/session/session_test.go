package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mj1618/i3layout/internal/i3"
	"github.com/mj1618/i3layout/internal/pattern"
	"github.com/mj1618/i3layout/internal/tree"
)

const sample = `
workspaces:
  - name: "1"
    root:
      layout: splith
      nodes:
        - preset: firefox
          percent: 0.6
        - window:
            name: Logs
            swallows:
              - class: Xfce4-terminal
                title: {seq: ["Logs - ", {anything: true}]}
            commands:
              - {argv: [xfce4-terminal, --title=Logs]}
              - tail -f /var/log/syslog
  - name: "2:chat"
    roots:
      - preset: signal
      - preset: chromium-app
        args: {url: "https://chat.example.com"}
    modifiers:
      - workdir: /home/me
`

func mustPlan(t *testing.T, src string) i3.Plan {
	t.Helper()
	plan, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return plan
}

func layoutOf(t *testing.T, top tree.Toplevel) string {
	t.Helper()
	s, err := top.LayoutString("")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func shellForms(plan i3.Plan) []string {
	var out []string
	for _, c := range plan.Commands() {
		out = append(out, c.ShellString())
	}
	return out
}

func TestLoad(t *testing.T) {
	plan := mustPlan(t, sample)
	if len(plan) != 2 || plan[0].Name != "1" || plan[1].Name != "2:chat" {
		t.Fatalf("unexpected workspaces: %+v", plan)
	}
	want := `{"layout":"splith","nodes":[` +
		`{"percent":0.6,"name":"Firefox","swallows":[{"class":"^(firefox|org\\.mozilla\\.firefox)$","instance":"^Navigator$"}]},` +
		`{"name":"Logs","swallows":[{"class":"^Xfce4-terminal$","title":"^Logs - .*$"}]}]}`
	if got := layoutOf(t, plan[0].Root); got != want {
		t.Errorf("layout:\n got %s\nwant %s", got, want)
	}
	if _, ok := plan[1].Root.(tree.Multi); !ok {
		t.Errorf("roots should build a Multi, got %T", plan[1].Root)
	}
	wantCmds := []string{
		"firefox",
		"xfce4-terminal --title=Logs",
		"tail -f /var/log/syslog",
		"env -C /home/me -- signal-desktop",
		"env -C /home/me -- chromium --app=https://chat.example.com",
	}
	if diff := cmp.Diff(wantCmds, shellForms(plan)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	src := `{"workspaces": [{"root": {"preset": "geany", "modifiers": [{"flatpak": true}]}}]}`
	plan := mustPlan(t, src)
	if diff := cmp.Diff([]string{"flatpak run org.geany.Geany"}, shellForms(plan)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

func TestModifiers(t *testing.T) {
	src := `
workspaces:
  - name: work
    root:
      preset: firefox
      modifiers:
        - qube: {name: work}
  - root:
      preset: thunderbird
      modifiers: [{placeholder: true}]
modifiers:
  - workdir: /tmp
`
	plan := mustPlan(t, src)
	want := []string{"env -C /tmp -- qvm-run work -- firefox"}
	if diff := cmp.Diff(want, shellForms(plan)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
	w := plan[0].Root.(tree.Window)
	if w.DisplayName() != "work » Firefox" {
		t.Errorf("name = %q", w.DisplayName())
	}
	if got := pattern.Anchored(w.Content.Swallows[0].Instance); got != "^work:Navigator$" {
		t.Errorf("instance = %q", got)
	}
}

func TestPatternForms(t *testing.T) {
	src := `
workspaces:
  - root:
      window:
        swallows:
          - class: {anyOf: [a, b]}
            instance: {regex: '^foo\.bar$'}
            title: {raw: '\d+', re2: '[0-9]+'}
            windowRole: {anything: true}
            machine: "host"
`
	plan := mustPlan(t, src)
	sw := plan[0].Root.(tree.Window).Content.Swallows[0]
	tests := []struct {
		name string
		p    pattern.Pattern
		want string
	}{
		{"class", sw.WinClass, "^(a|b)$"},
		{"instance", sw.Instance, `^foo\.bar$`},
		{"title", sw.Title, `^\d+$`},
		{"window_role", sw.WindowRole, "^.*$"},
		{"machine", sw.Machine, "^host$"},
	}
	for _, tt := range tests {
		if got := pattern.Anchored(tt.p); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
		}
	}
	ok, err := sw.Matches(map[string]string{"class": "b", "instance": "foo.bar", "title": "42", "machine": "host"})
	if err != nil || !ok {
		t.Errorf("Matches = %v, %v", ok, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"unknown field", "workspaces: [{root: {preset: firefox, colour: red}}]", "colour"},
		{"two kinds", "workspaces: [{root: {preset: firefox, raw: '{}'}}]", "workspaces[0].root: node needs exactly one"},
		{"no kind", "workspaces: [{root: {name: x}}]", "node needs exactly one"},
		{"root and roots", "workspaces: [{root: {preset: firefox}, roots: [{preset: geany}]}]", "workspaces[0]: workspace needs exactly one of root, roots"},
		{"unknown preset", "workspaces: [{root: {layout: splitv, nodes: [{preset: emacs}]}}]", `workspaces[0].root.nodes[0].preset: unknown preset "emacs"`},
		{"bad layout", "workspaces: [{root: {layout: grid, nodes: []}}]", "workspaces[0].root.layout: unknown layout"},
		{"no swallows", "workspaces: [{root: {window: {name: x}}}]", "workspaces[0].root.window.swallows"},
		{"bad raw", "workspaces: [{root: {raw: '{nope'}}]", "workspaces[0].root.raw: invalid JSON"},
		{"bad pattern", "workspaces: [{root: {window: {swallows: [{class: {anything: true, seq: [a]}}]}}}]", "exactly one of anyOf"},
		{"bad regex", "workspaces: [{root: {window: {swallows: [{class: {regex: 'a+'}}]}}}]", "anchored"},
		{"bad command", "workspaces: [{root: {window: {swallows: [{class: a}], commands: [{argv: []}]}}}]", "argv must not be empty"},
		{"empty modifier", "workspaces: [{root: {preset: firefox, modifiers: [{}]}}]", "workspaces[0].root.modifiers[0]: modifier needs exactly one"},
		{"nameless qube", "workspaces: [{root: {preset: firefox, modifiers: [{qube: {unicodeTitles: true}}]}}]", "qube needs a name"},
		{"raw qube title", "workspaces: [{root: {window: {swallows: [{title: {raw: x+}}]}, modifiers: [{qube: {name: q}}]}}]", "raw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	_, err := Load(strings.NewReader("workspaces: [{root: {window: {swallows: [{title: {raw: x+}}]}, modifiers: [{qube: {name: q}}]}}]"))
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !errors.Is(err, pattern.ErrRawMapChars) {
		t.Errorf("expected ErrRawMapChars in chain, got %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := `{"border":"pixel","current_border_width":1,"layout":"tabbed","marks":["m"],"nodes":[` +
		`{"border":"normal","current_border_width":2,"floating":"auto_off","geometry":{"x":0,"y":0,"width":800,"height":600},` +
		`"name":"Firefox","swallows":[{"class":"^org\\.mozilla\\.firefox$","title":"^Inbox \\- Mail$"}],"type":"con"},` +
		`{"swallows":[{"instance":"^\\d+$"}]}],"percent":0.5,"fullscreen_mode":0}`
	if _, err := tree.ImportToplevel([]byte(in)); err == nil {
		t.Fatal("a \\d escape should not import as a pattern")
	}

	in = strings.Replace(in, `{"swallows":[{"instance":"^\\d+$"}]}`, `{"swallows":[{"instance":"^term$"}],"percent":0.5}`, 1)
	top, err := tree.ImportToplevel([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	ws, err := FromToplevel("3", top)
	if err != nil {
		t.Fatal(err)
	}
	data, err := Marshal(&File{Workspaces: []Workspace{ws}})
	if err != nil {
		t.Fatal(err)
	}
	for _, absent := range []string{"border: normal", "floating", "type:", "borderWidth"} {
		if strings.Contains(string(data), absent) {
			t.Errorf("defaults should be left out, found %q in:\n%s", absent, data)
		}
	}
	plan := mustPlan(t, string(data))
	if diff := cmp.Diff(layoutOf(t, top), layoutOf(t, plan[0].Root)); diff != "" {
		t.Errorf("layout changed through session YAML (-want +got):\n%s\n%s", diff, data)
	}
}

func TestEncodePatterns(t *testing.T) {
	root := tree.NewWindow(tree.WindowContent{
		Swallows: []tree.Swallow{{
			WinClass: pattern.Concat(pattern.Lit("jetbrains-idea"), pattern.Or(pattern.Lit("-ce"), pattern.Lit(""))),
			Title:    pattern.RawBoth(`\d+`, `[0-9]+`),
		}},
	})
	ws, err := FromToplevel("", root)
	if err != nil {
		t.Fatal(err)
	}
	data, err := Marshal(&File{Workspaces: []Workspace{ws}})
	if err != nil {
		t.Fatal(err)
	}
	plan := mustPlan(t, string(data))
	got := plan[0].Root.(tree.Window).Content.Swallows[0]
	if !pattern.Equal(root.Content.Swallows[0].WinClass, got.WinClass) {
		t.Errorf("class changed: %#v", got.WinClass)
	}
	if diff := cmp.Diff(root.Content.Swallows[0].Title, got.Title); diff != "" {
		t.Errorf("title (-want +got):\n%s", diff)
	}
}

func TestFromPlan(t *testing.T) {
	plan := mustPlan(t, sample)
	f, err := FromPlan(plan)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Workspaces) != 2 || f.Workspaces[1].Roots == nil || f.Workspaces[0].Root == nil {
		t.Fatalf("unexpected workspaces: %+v", f.Workspaces)
	}
	again, err := f.Plan()
	if err != nil {
		t.Fatal(err)
	}
	for i := range plan {
		if diff := cmp.Diff(layoutOf(t, plan[i].Root), layoutOf(t, again[i].Root)); diff != "" {
			t.Errorf("workspace %d layout (-want +got):\n%s", i, diff)
		}
	}
	if diff := cmp.Diff(shellForms(plan), shellForms(again)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}

func TestFlatpakKeepsOtherCommands(t *testing.T) {
	src := `
workspaces:
  - root:
      layout: splith
      nodes:
        - preset: firefox
        - window:
            swallows: [{class: XTerm}]
            commands: [{argv: [xterm]}]
        - preset: geany
          modifiers: [{qube: {name: work}}]
    modifiers:
      - flatpak: true
`
	plan := mustPlan(t, src)
	want := []string{
		"flatpak run org.mozilla.Firefox",
		"xterm",
		"qvm-run work -- geany",
	}
	if diff := cmp.Diff(want, shellForms(plan)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
}
