package modifier

import (
	"fmt"

	"github.com/mj1618/i3layout/internal/command"
	"github.com/mj1618/i3layout/internal/pattern"
	"github.com/mj1618/i3layout/internal/tree"
)

// Qube runs applications inside a Qubes OS qube. Qubes prefixes the class
// and instance of every window with "name:" and the title bar shows the
// qube name, so swallows and names are rewritten along with the commands.
type Qube struct {
	Name string
	// UnicodeTitles keeps non-ASCII title characters. Otherwise every
	// non-ASCII byte in a title pattern becomes '_', as in dom0.
	UnicodeTitles bool
}

func (q Qube) AdjustCommand(c command.Command) command.Command {
	return command.System("qvm-run", q.Name, "--", c.ShellString())
}

func (q Qube) AdjustContent(content tree.WindowContent) (tree.WindowContent, error) {
	swallows := make([]tree.Swallow, len(content.Swallows))
	for i, sw := range content.Swallows {
		adjusted, err := q.adjustSwallow(sw)
		if err != nil {
			return content, fmt.Errorf("qube %s: swallow %d: %w", q.Name, i, err)
		}
		swallows[i] = adjusted
	}
	name := content.DefaultName
	if name == "" {
		name = "???"
	}
	out := adjustCommands(q, content)
	out.Swallows = swallows
	out.DefaultName = fmt.Sprintf("%s » %s", q.Name, name)
	out.PackageIDs = nil
	return out, nil
}

func (q Qube) adjustSwallow(sw tree.Swallow) (tree.Swallow, error) {
	disambiguated := sw.WinClass != nil || sw.Instance != nil
	title, err := q.adjustTitle(sw.Title)
	if err != nil {
		return sw, err
	}
	return tree.Swallow{
		WinClass:   q.prependName(sw.WinClass, disambiguated),
		Instance:   q.prependName(sw.Instance, disambiguated),
		Machine:    sw.Machine,
		Title:      title,
		WindowRole: sw.WindowRole,
	}, nil
}

// prependName requires the qube prefix in front of p. An absent p stays
// absent when a sibling attribute already carries the prefix.
func (q Qube) prependName(p pattern.Pattern, disambiguated bool) pattern.Pattern {
	prefix := pattern.Lit(q.Name + ":")
	if p == nil {
		if disambiguated {
			return nil
		}
		return pattern.Concat(prefix, pattern.Any())
	}
	return pattern.Concat(prefix, p)
}

func (q Qube) adjustTitle(p pattern.Pattern) (pattern.Pattern, error) {
	if p == nil || q.UnicodeTitles {
		return p, nil
	}
	return pattern.MapChars(p, sanitizeTitleRune)
}

// sanitizeTitleRune replaces every byte of r's UTF-8 encoding that is
// outside ASCII with '_'.
func sanitizeTitleRune(r rune) string {
	s := string(r)
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 128 {
			out[i] = s[i]
		} else {
			out[i] = '_'
		}
	}
	return string(out)
}
