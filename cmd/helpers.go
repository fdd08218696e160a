package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mj1618/i3layout/internal/i3"
	"github.com/mj1618/i3layout/internal/output"
	"github.com/mj1618/i3layout/internal/pattern"
	"github.com/mj1618/i3layout/internal/preset"
	"github.com/mj1618/i3layout/internal/session"
	"github.com/mj1618/i3layout/internal/tree"
	"github.com/spf13/cobra"
)

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// parsePlan builds the plan of a session file's contents.
func parsePlan(data []byte) (i3.Plan, error) {
	f, err := session.Parse(data)
	if err != nil {
		return nil, err
	}
	return f.Plan()
}

// loadPlan reads the session file at path and keeps only the named
// workspaces, if any are given.
func loadPlan(path string, workspaces []string) (i3.Plan, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	plan, err := parsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return selectWorkspaces(plan, workspaces)
}

// selectWorkspaces filters plan by workspace name, keeping plan order.
func selectWorkspaces(plan i3.Plan, names []string) (i3.Plan, error) {
	if len(names) == 0 {
		return plan, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out i3.Plan
	for _, ws := range plan {
		if want[ws.Name] {
			out = append(out, ws)
			delete(want, ws.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("workspace %q not found in session", n)
		}
	}
	return out, nil
}

func indentString(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// renderLayouts returns the i3 layout JSON of plan. Several workspaces are
// separated by a comment naming each one.
func renderLayouts(plan i3.Plan, indent int) (string, error) {
	if len(plan) == 1 {
		return plan[0].Root.LayoutString(indentString(indent))
	}
	parts := make([]string, 0, len(plan))
	for _, ws := range plan {
		s, err := ws.Root.LayoutString(indentString(indent))
		if err != nil {
			return "", fmt.Errorf("workspace %q: %w", ws.Name, err)
		}
		name := ws.Name
		if name == "" {
			name = "(focused)"
		}
		parts = append(parts, "// Workspace "+name+"\n"+s)
	}
	return strings.Join(parts, "\n\n"), nil
}

func collectCommands(plan i3.Plan) output.CommandsResult {
	res := output.CommandsResult{Commands: []output.CommandEntry{}}
	for _, ws := range plan {
		for _, c := range ws.Root.ToCommands() {
			res.Commands = append(res.Commands, output.CommandEntry{
				Workspace: ws.Name,
				Shell:     c.ShellString(),
				Argv:      c.Argv(),
			})
		}
	}
	return res
}

// describePattern imports an anchored regex and renders it in both
// dialects. A non-empty test string is matched against it.
func describePattern(regex, test string) (output.PatternResult, error) {
	res := output.PatternResult{Input: regex}
	p, err := pattern.Import(regex)
	if err != nil {
		return res, err
	}
	res.PCRE, _ = pattern.Render(p, pattern.PCRE)
	if re2, err := pattern.Render(p, pattern.RE2); err != nil {
		res.RE2Error = err.Error()
	} else {
		res.RE2 = re2
	}
	if test != "" {
		re, err := pattern.Compile(p)
		if err != nil {
			return res, err
		}
		matched := re.MatchString(test)
		res.Matches = &matched
	}
	return res, nil
}

// matchWindows tests window attributes against every window of plan.
func matchWindows(plan i3.Plan, attrs map[string]string) output.MatchResult {
	res := output.MatchResult{Attributes: attrs, Windows: []output.MatchEntry{}}
	for _, ws := range plan {
		ws.Root.MapWindows(func(w tree.Window) tree.Node {
			entry := output.MatchEntry{Workspace: ws.Name, Window: w.DisplayName()}
			ok, err := w.Content.Matches(attrs)
			if err != nil {
				entry.Error = err.Error()
			}
			entry.Matched = ok
			res.Windows = append(res.Windows, entry)
			return w
		})
	}
	return res
}

// importOptions control how an existing layout is converted.
type importOptions struct {
	Workspace  string
	StripMarks bool
	To         string // "session" or "json"
	Indent     int
}

// importLayout converts i3 layout JSON, such as i3-save-tree output, into a
// session file or canonical layout JSON.
func importLayout(data []byte, opts importOptions) (string, error) {
	top, err := tree.ImportStream(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if opts.StripMarks {
		top = top.WithoutMarks()
	}
	switch opts.To {
	case "json":
		return top.LayoutString(indentString(opts.Indent))
	case "", "session":
		ws, err := session.FromToplevel(opts.Workspace, top)
		if err != nil {
			return "", err
		}
		b, err := session.Marshal(&session.File{Workspaces: []session.Workspace{ws}})
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(b), "\n"), nil
	}
	return "", fmt.Errorf("unsupported import target: %s (use session or json)", opts.To)
}

func listPresets() []output.PresetEntry {
	var out []output.PresetEntry
	for _, p := range preset.All() {
		out = append(out, output.PresetEntry{Name: p.Name, Description: p.Description, Params: p.Params})
	}
	return out
}

// newRunner builds a runner from the environment settings.
func newRunner() *i3.Runner {
	client := &i3.Client{Binary: settings.MsgBinary, TempDir: settings.TempDir, Log: logger}
	return i3.NewRunner(client, logger)
}

func runPlan(ctx context.Context, runner *i3.Runner, plan i3.Plan, opts i3.Options) output.RunResult {
	res := output.RunResult{OK: true, Workspaces: planNames(plan)}
	if !opts.SkipCommands {
		res.Commands = len(plan.Commands())
	}
	if err := runner.Run(ctx, plan, opts); err != nil {
		res.OK = false
		res.Error = err.Error()
	}
	return res
}

func planNames(plan i3.Plan) []string {
	names := make([]string, len(plan))
	for i, ws := range plan {
		names[i] = ws.Name
	}
	return names
}

// addPlanFlags registers the flags shared by commands that apply a plan.
func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("skip-layout", false, "Do not append any layout")
	cmd.Flags().Bool("skip-commands", false, "Do not start any application")
	cmd.Flags().Bool("no-workspace-switching", false, "Append layouts to the focused workspace")
}

func planOptions(cmd *cobra.Command) i3.Options {
	skipLayout, _ := cmd.Flags().GetBool("skip-layout")
	skipCommands, _ := cmd.Flags().GetBool("skip-commands")
	noSwitch, _ := cmd.Flags().GetBool("no-workspace-switching")
	return i3.Options{SkipLayout: skipLayout, SkipCommands: skipCommands, NoWorkspaceSwitching: noSwitch}
}

// Parameter extraction helpers for MCP tool arguments

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func stringsParam(params map[string]interface{}, key string) []string {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return strings.Split(list, ",")
	}
	return nil
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
