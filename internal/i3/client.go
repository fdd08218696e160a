// Package i3 drives a running i3 session through i3-msg: it appends
// layouts to workspaces and starts the applications that fill them.
package i3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mj1618/i3layout/internal/tree"
	"go.uber.org/zap"
)

// Client wraps i3-msg shell-outs.
type Client struct {
	Binary string
	// TempDir receives the layout files handed to append_layout.
	TempDir string
	Log     *zap.Logger
}

// NewClient returns a client using the i3-msg binary on PATH.
func NewClient() *Client {
	return &Client{Binary: "i3-msg", Log: zap.NewNop()}
}

// Reply is one entry of i3's answer to a command list.
type Reply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (c *Client) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// Run sends a list of i3 commands. An error is returned when i3-msg fails
// or when i3 reports a failed command.
func (c *Client) Run(ctx context.Context, commands ...string) ([]Reply, error) {
	msg := strings.Join(commands, "; ")
	c.logger().Debug("i3-msg", zap.String("binary", c.Binary), zap.String("command", msg))
	cmd := exec.CommandContext(ctx, c.Binary, msg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("i3-msg %s: %v: %s", msg, err, strings.TrimSpace(stderr.String()))
	}
	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, nil
	}
	var replies []Reply
	if err := json.Unmarshal(out, &replies); err != nil {
		return nil, fmt.Errorf("decode i3-msg reply: %w", err)
	}
	for _, r := range replies {
		if !r.Success {
			return replies, fmt.Errorf("i3-msg %s: %s", msg, r.Error)
		}
	}
	return replies, nil
}

// AppendLayout loads top into a workspace. The layout is written to a
// temporary file which is removed afterwards. With switchWorkspace and a
// non-empty workspace, i3 first switches to that workspace.
func (c *Client) AppendLayout(ctx context.Context, workspace string, top tree.Toplevel, switchWorkspace bool) error {
	layout, err := top.LayoutString("")
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}
	f, err := os.CreateTemp(c.TempDir, "i3layout-*.json")
	if err != nil {
		return fmt.Errorf("create layout file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(layout); err != nil {
		f.Close()
		return fmt.Errorf("write layout file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write layout file: %w", err)
	}

	var commands []string
	if switchWorkspace && workspace != "" {
		commands = append(commands, "workspace "+Quote(workspace))
	}
	commands = append(commands, "append_layout "+Quote(f.Name()))
	_, err = c.Run(ctx, commands...)
	return err
}

// Quote makes s a single i3 command argument.
func Quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\";,\\'[]") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
