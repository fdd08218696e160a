// Package script exports a plan as a standalone bash script that sets up
// the same workspaces with i3-msg.
package script

import (
	"strings"

	"github.com/alessio/shellescape"
	"github.com/mj1618/i3layout/internal/i3"
)

// Render returns the bash script for plan. Layouts are embedded as
// indented JSON and loaded through a temporary file; each command is
// started in the background.
func Render(plan i3.Plan, opts i3.Options) (string, error) {
	lines := []string{}
	if !opts.SkipLayout {
		lines = append(lines, "# Set up workspaces")
		for _, ws := range plan {
			block, err := workspaceBlock(ws, !opts.NoWorkspaceSwitching)
			if err != nil {
				return "", err
			}
			lines = append(lines, block...)
		}
	}
	lines = append(lines, "", "")
	if !opts.SkipCommands {
		lines = append(lines, "# Start the applications")
		for _, c := range plan.Commands() {
			lines = append(lines, c.ShellString()+"&")
		}
	}
	return "#!/usr/bin/bash\n\n" + strings.Join(lines, "\n"), nil
}

func workspaceBlock(ws i3.Workspace, switchWorkspace bool) ([]string, error) {
	layout, err := ws.Root.LayoutString("  ")
	if err != nil {
		return nil, err
	}
	msg := "append_layout $layout_file"
	if switchWorkspace && ws.Name != "" {
		msg = "workspace " + shellescape.Quote(i3.Quote(ws.Name)) + `\;` + msg
	}
	return []string{
		"",
		"## Workspace " + ws.Name,
		"layout_file=$(mktemp)",
		"echo " + shellescape.Quote(layout) + " > $layout_file",
		"i3-msg " + msg,
		"rm $layout_file",
	}, nil
}
