package i3

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mj1618/i3layout/internal/command"
	"github.com/mj1618/i3layout/internal/tree"
	"go.uber.org/zap"
)

// Workspace pairs a workspace name with the layout placed on it. An empty
// name means the focused workspace.
type Workspace struct {
	Name string
	Root tree.Toplevel
}

// Plan is an ordered set of workspace layouts.
type Plan []Workspace

// Commands flattens the launch commands of every root in plan order.
func (p Plan) Commands() []command.Command {
	var out []command.Command
	for _, ws := range p {
		out = append(out, ws.Root.ToCommands()...)
	}
	return out
}

// Options select which parts of a plan are carried out.
type Options struct {
	SkipLayout           bool
	SkipCommands         bool
	NoWorkspaceSwitching bool
}

// LayoutApplier appends a layout to a workspace.
type LayoutApplier interface {
	AppendLayout(ctx context.Context, workspace string, top tree.Toplevel, switchWorkspace bool) error
}

// Spawner starts a command without waiting for it.
type Spawner interface {
	Spawn(argv []string) error
}

// ExecSpawner starts processes with os/exec and releases them.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Runner applies plans to a live session.
type Runner struct {
	Layouts LayoutApplier
	Spawner Spawner
	Log     *zap.Logger
}

// NewRunner returns a runner using c for layouts and os/exec for commands.
func NewRunner(c *Client, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Layouts: c, Spawner: ExecSpawner{}, Log: log}
}

// Run appends every layout in order, then starts every command. A layout
// failure stops the run before any command starts. Commands that fail to
// start are logged and skipped.
func (r *Runner) Run(ctx context.Context, plan Plan, opts Options) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	if !opts.SkipLayout {
		for _, ws := range plan {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Info("appending layout", zap.String("workspace", ws.Name))
			if err := r.Layouts.AppendLayout(ctx, ws.Name, ws.Root, !opts.NoWorkspaceSwitching); err != nil {
				return fmt.Errorf("workspace %q: %w", ws.Name, err)
			}
		}
	}
	if opts.SkipCommands {
		return nil
	}
	for _, c := range plan.Commands() {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debug("spawning", zap.String("command", c.ShellString()))
		if err := r.Spawner.Spawn(c.Argv()); err != nil {
			log.Warn("failed to start command", zap.String("command", c.ShellString()), zap.Error(err))
		}
	}
	return nil
}
