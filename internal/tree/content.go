package tree

import (
	"fmt"

	"github.com/mj1618/i3layout/internal/command"
	"github.com/mj1618/i3layout/internal/pattern"
)

// Swallow is one set of i3 window criteria. A nil pattern means the
// attribute is not checked.
type Swallow struct {
	WinClass   pattern.Pattern
	Instance   pattern.Pattern
	Machine    pattern.Pattern
	Title      pattern.Pattern
	WindowRole pattern.Pattern
}

// swallowKeys lists the i3 attribute names in output order.
var swallowKeys = []string{"class", "instance", "machine", "title", "window_role"}

func (s Swallow) field(key string) pattern.Pattern {
	switch key {
	case "class":
		return s.WinClass
	case "instance":
		return s.Instance
	case "machine":
		return s.Machine
	case "title":
		return s.Title
	case "window_role":
		return s.WindowRole
	}
	return nil
}

func (s *Swallow) setField(key string, p pattern.Pattern) bool {
	switch key {
	case "class":
		s.WinClass = p
	case "instance":
		s.Instance = p
	case "machine":
		s.Machine = p
	case "title":
		s.Title = p
	case "window_role":
		s.WindowRole = p
	default:
		return false
	}
	return true
}

// ToJSON maps i3 attribute names to anchored PCRE strings, omitting absent
// attributes.
func (s Swallow) ToJSON() any {
	obj := newObject()
	for _, key := range swallowKeys {
		if p := s.field(key); p != nil {
			obj.Set(key, pattern.Anchored(p))
		}
	}
	return obj
}

// Patterns returns the present attributes keyed by i3 attribute name.
func (s Swallow) Patterns() map[string]pattern.Pattern {
	out := make(map[string]pattern.Pattern)
	for _, key := range swallowKeys {
		if p := s.field(key); p != nil {
			out[key] = p
		}
	}
	return out
}

// Matches reports whether a window with the given attributes satisfies
// every present criterion. Missing attributes match as "".
func (s Swallow) Matches(attrs map[string]string) (bool, error) {
	for _, key := range swallowKeys {
		p := s.field(key)
		if p == nil {
			continue
		}
		re, err := pattern.Compile(p)
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		if !re.MatchString(attrs[key]) {
			return false, nil
		}
	}
	return true, nil
}

// Matches reports whether any of the swallows matches attrs.
func (c WindowContent) Matches(attrs map[string]string) (bool, error) {
	for _, sw := range c.Swallows {
		ok, err := sw.Matches(attrs)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// WindowContent describes what fills a window: how to recognize it and how
// to launch it.
type WindowContent struct {
	// Swallows are alternative criteria; any one of them may match.
	Swallows    []Swallow
	DefaultName string
	Commands    []command.Command
	// PackageIDs are Flatpak application IDs, an alternative to Commands.
	PackageIDs []string
}

// AsFlatpak replaces the commands by "flatpak run" invocations of PackageIDs.
// Content without package IDs keeps its commands.
func (c WindowContent) AsFlatpak() WindowContent {
	if len(c.PackageIDs) == 0 {
		return c
	}
	run := command.Partial("flatpak", "run")
	cmds := make([]command.Command, 0, len(c.PackageIDs))
	for _, id := range c.PackageIDs {
		cmds = append(cmds, run(id))
	}
	c.Commands = cmds
	return c
}

// PlaceholderOnly drops everything that would launch the application.
func (c WindowContent) PlaceholderOnly() WindowContent {
	c.Commands = nil
	c.PackageIDs = nil
	return c
}
