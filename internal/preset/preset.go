// Package preset holds window contents for common Linux desktop
// applications: how to start them and how to recognise their windows.
package preset

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"

	"github.com/mj1618/i3layout/internal/command"
	"github.com/mj1618/i3layout/internal/pattern"
	"github.com/mj1618/i3layout/internal/tree"
)

func simple(class, instance, name, flatpak string, argv ...string) tree.WindowContent {
	c := tree.WindowContent{
		Swallows:    []tree.Swallow{{WinClass: pattern.Lit(class), Instance: pattern.Lit(instance)}},
		DefaultName: name,
		Commands:    []command.Command{command.System(argv...)},
	}
	if flatpak != "" {
		c.PackageIDs = []string{flatpak}
	}
	return c
}

// Firefox matches both the distribution and the Flatpak window class.
func Firefox() tree.WindowContent {
	c := simple("firefox", "Navigator", "Firefox", "org.mozilla.Firefox", "firefox")
	c.Swallows[0].WinClass = pattern.Either(pattern.Lit("firefox"), pattern.Lit("org.mozilla.firefox"))
	return c
}

// Chromium opens url, or a blank browser when url is empty.
func Chromium(u string) tree.WindowContent {
	name := "Chromium"
	argv := []string{"chromium"}
	if u != "" {
		name = "Chromium: " + u
		argv = append(argv, u)
	}
	return simple("Chromium-browser", "chromium-browser", name, "", argv...)
}

var unsafeInstance = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// AppInstance derives the instance name Chromium gives an --app window:
// host and path joined by '_' with unusual characters replaced.
func AppInstance(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return unsafeInstance.ReplaceAllString(u, "_")
	}
	s := parsed.Host
	if parsed.Path != "" {
		s += "_" + parsed.Path
	}
	return unsafeInstance.ReplaceAllString(s, "_")
}

// ChromiumApp opens url as a Chromium app window. An empty instance is
// derived from url with AppInstance.
func ChromiumApp(u, instance string) tree.WindowContent {
	if instance == "" {
		instance = AppInstance(u)
	}
	return simple("Chromium-browser", instance, u, "", "chromium", "--app="+u)
}

func Geany() tree.WindowContent {
	return simple("Geany", "geany", "Geany", "org.geany.Geany", "geany")
}

// JetBrains matches a JetBrains IDE, community edition included. With a
// non-empty project only windows of that project are swallowed.
func JetBrains(id, name, project string) tree.WindowContent {
	kind := pattern.Concat(pattern.Lit("jetbrains-"+id), pattern.Or(pattern.Lit("-ce"), pattern.Lit("")))
	sw := tree.Swallow{WinClass: kind, Instance: kind}
	if project != "" {
		sw.Title = pattern.Concat(pattern.Lit(project+" – "), pattern.Any())
	}
	return tree.WindowContent{
		Swallows:    []tree.Swallow{sw},
		DefaultName: name,
		Commands:    []command.Command{command.System(id + ".sh")},
	}
}

func Idea(project string) tree.WindowContent { return JetBrains("idea", "IntelliJ IDEA", project) }

func PyCharm(project string) tree.WindowContent { return JetBrains("pycharm", "PyCharm", project) }

func Thunderbird() tree.WindowContent {
	return simple("thunderbird", "Mail", "Thunderbird", "org.mozilla.Thunderbird", "thunderbird")
}

func Signal() tree.WindowContent {
	return simple("Signal", "signal", "Signal", "org.signal.Signal", "signal-desktop")
}

func Element() tree.WindowContent {
	return simple("Element", "element", "Element", "im.riot.Riot", "element-desktop")
}

func Toggl() tree.WindowContent {
	return simple("Toggl Desktop", "TogglDesktop", "Toggl", "com.toggl.TogglDesktop", "TogglDesktop.sh")
}

const togglExtension = "chrome-extension://oejgccbfbmkkpaidnkphaiaecficdnfn/src/pages/popup/index.html"

// TogglChromium is the Toggl browser extension popup as an app window.
func TogglChromium() tree.WindowContent {
	c := ChromiumApp(togglExtension, "")
	c.DefaultName = "Toggl gadget"
	return c
}

// XFCE4Terminal opens a terminal. A non-empty title is set on the window
// and matched exactly; a non-nil cmd runs inside the terminal.
func XFCE4Terminal(title string, cmd command.Command) tree.WindowContent {
	sw := tree.Swallow{
		WinClass: pattern.Lit("Xfce4-terminal"),
		Instance: pattern.Lit("xfce4-terminal"),
		Title:    pattern.Concat(pattern.Lit("Terminal - "), pattern.Any()),
	}
	name := "Terminal"
	argv := []string{"xfce4-terminal"}
	if title != "" {
		sw.Title = pattern.Lit(title)
		name = title
		argv = append(argv, "--title="+title)
	}
	if cmd != nil {
		argv = append(argv, "-x")
		argv = append(argv, cmd.Argv()...)
	}
	return tree.WindowContent{
		Swallows:    []tree.Swallow{sw},
		DefaultName: name,
		Commands:    []command.Command{command.System(argv...)},
	}
}

func Discord() tree.WindowContent {
	c := simple("discord", "discord", "Discord", "com.discordapp.Discord", "discord")
	c.Swallows[0].Title = pattern.Lit("Friends - Discord")
	return c
}

// Args are the parameters a preset can take from a session file.
type Args struct {
	URL      string
	Instance string
	Project  string
	Title    string
	Command  command.Command
}

// Preset builds window content from Args.
type Preset struct {
	Name        string
	Description string
	Params      []string
	Build       func(Args) tree.WindowContent
}

var registry = map[string]Preset{}

func register(p Preset) { registry[p.Name] = p }

func init() {
	register(Preset{Name: "firefox", Description: "Mozilla Firefox", Build: func(Args) tree.WindowContent { return Firefox() }})
	register(Preset{Name: "chromium", Description: "Chromium browser", Params: []string{"url"},
		Build: func(a Args) tree.WindowContent { return Chromium(a.URL) }})
	register(Preset{Name: "chromium-app", Description: "Chromium app window", Params: []string{"url", "instance"},
		Build: func(a Args) tree.WindowContent { return ChromiumApp(a.URL, a.Instance) }})
	register(Preset{Name: "geany", Description: "Geany editor", Build: func(Args) tree.WindowContent { return Geany() }})
	register(Preset{Name: "idea", Description: "IntelliJ IDEA", Params: []string{"project"},
		Build: func(a Args) tree.WindowContent { return Idea(a.Project) }})
	register(Preset{Name: "pycharm", Description: "PyCharm", Params: []string{"project"},
		Build: func(a Args) tree.WindowContent { return PyCharm(a.Project) }})
	register(Preset{Name: "thunderbird", Description: "Thunderbird mail", Build: func(Args) tree.WindowContent { return Thunderbird() }})
	register(Preset{Name: "signal", Description: "Signal messenger", Build: func(Args) tree.WindowContent { return Signal() }})
	register(Preset{Name: "element", Description: "Element Matrix client", Build: func(Args) tree.WindowContent { return Element() }})
	register(Preset{Name: "toggl", Description: "Toggl Desktop", Build: func(Args) tree.WindowContent { return Toggl() }})
	register(Preset{Name: "toggl-chromium", Description: "Toggl extension popup in Chromium", Build: func(Args) tree.WindowContent { return TogglChromium() }})
	register(Preset{Name: "xfce4-terminal", Description: "XFCE terminal", Params: []string{"title", "command"},
		Build: func(a Args) tree.WindowContent { return XFCE4Terminal(a.Title, a.Command) }})
	register(Preset{Name: "discord", Description: "Discord", Build: func(Args) tree.WindowContent { return Discord() }})
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Preset, error) {
	p, ok := registry[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// All returns every preset sorted by name.
func All() []Preset {
	out := make([]Preset, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
