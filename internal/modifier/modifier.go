// Package modifier rewrites how applications are launched. A Modifier only
// has to say how a single command changes; the same rewrite is then lifted
// to window contents, windows and whole trees.
package modifier

import (
	"errors"
	"fmt"

	"github.com/mj1618/i3layout/internal/command"
	"github.com/mj1618/i3layout/internal/tree"
)

// ErrUnsupportedTarget is returned when Apply receives a target of unknown kind.
var ErrUnsupportedTarget = errors.New("unsupported modifier target")

// Modifier rewrites a command.
type Modifier interface {
	AdjustCommand(command.Command) command.Command
}

// ContentAdjuster is implemented by modifiers that change more than the
// commands of a window's content.
type ContentAdjuster interface {
	AdjustContent(tree.WindowContent) (tree.WindowContent, error)
}

// WindowAdjuster is implemented by modifiers that change more than a
// window's content.
type WindowAdjuster interface {
	AdjustWindow(tree.Window) (tree.Window, error)
}

// AdjustContent applies m to content. Unless m overrides it, only the
// commands are rewritten.
func AdjustContent(m Modifier, content tree.WindowContent) (tree.WindowContent, error) {
	if ca, ok := m.(ContentAdjuster); ok {
		return ca.AdjustContent(content)
	}
	return adjustCommands(m, content), nil
}

// AdjustWindow applies m to a window. Unless m overrides it, only the
// window's content is rewritten.
func AdjustWindow(m Modifier, w tree.Window) (tree.Window, error) {
	if wa, ok := m.(WindowAdjuster); ok {
		return wa.AdjustWindow(w)
	}
	content, err := AdjustContent(m, w.Content)
	if err != nil {
		return w, err
	}
	w.Content = content
	return w, nil
}

func adjustCommands(m Modifier, content tree.WindowContent) tree.WindowContent {
	cmds := make([]command.Command, len(content.Commands))
	for i, c := range content.Commands {
		cmds[i] = m.AdjustCommand(c)
	}
	content.Commands = cmds
	return content
}

// TargetKind tags the value held by a Target.
type TargetKind int

const (
	TargetCommand TargetKind = iota + 1
	TargetContent
	TargetWindow
)

func (k TargetKind) String() string {
	switch k {
	case TargetCommand:
		return "command"
	case TargetContent:
		return "content"
	case TargetWindow:
		return "window"
	}
	return fmt.Sprintf("TargetKind(%d)", int(k))
}

// Target is one of the values a modifier can be applied to. Only the field
// selected by Kind is meaningful.
type Target struct {
	Kind    TargetKind
	Command command.Command
	Content tree.WindowContent
	Window  tree.Window
}

// CommandTarget wraps a command.
func CommandTarget(c command.Command) Target { return Target{Kind: TargetCommand, Command: c} }

// ContentTarget wraps window content.
func ContentTarget(c tree.WindowContent) Target { return Target{Kind: TargetContent, Content: c} }

// WindowTarget wraps a window.
func WindowTarget(w tree.Window) Target { return Target{Kind: TargetWindow, Window: w} }

// Apply routes t to the matching adjustment and returns a target of the
// same kind.
func Apply(m Modifier, t Target) (Target, error) {
	switch t.Kind {
	case TargetCommand:
		if t.Command == nil {
			return t, fmt.Errorf("%w: command target without a command", ErrUnsupportedTarget)
		}
		return CommandTarget(m.AdjustCommand(t.Command)), nil
	case TargetContent:
		c, err := AdjustContent(m, t.Content)
		if err != nil {
			return t, err
		}
		return ContentTarget(c), nil
	case TargetWindow:
		w, err := AdjustWindow(m, t.Window)
		if err != nil {
			return t, err
		}
		return WindowTarget(w), nil
	default:
		return t, fmt.Errorf("%w: %s", ErrUnsupportedTarget, t.Kind)
	}
}

// ApplyTree applies m to every window of top. The first failure aborts
// the rewrite.
func ApplyTree(m Modifier, top tree.Toplevel) (tree.Toplevel, error) {
	var firstErr error
	out := top.MapWindows(func(w tree.Window) tree.Node {
		if firstErr != nil {
			return w
		}
		adjusted, err := AdjustWindow(m, w)
		if err != nil {
			firstErr = fmt.Errorf("window %q: %w", w.DisplayName(), err)
			return w
		}
		return adjusted
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// Chain applies modifiers in order, the first one innermost.
type Chain []Modifier

func (c Chain) AdjustCommand(cmd command.Command) command.Command {
	for _, m := range c {
		cmd = m.AdjustCommand(cmd)
	}
	return cmd
}

func (c Chain) AdjustContent(content tree.WindowContent) (tree.WindowContent, error) {
	var err error
	for _, m := range c {
		if content, err = AdjustContent(m, content); err != nil {
			return content, err
		}
	}
	return content, nil
}
