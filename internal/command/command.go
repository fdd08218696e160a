package command

import (
	"github.com/alessio/shellescape"
)

// Command is something that can be launched: either a raw shell line or an
// argv vector.
type Command interface {
	// ShellString renders the command as a single line safe to pass to sh.
	ShellString() string
	// Argv renders the command for direct execution without a shell.
	Argv() []string
	command()
}

// ShellCommand is an opaque shell line.
type ShellCommand struct {
	Text string `json:"shell" yaml:"shell"`
}

// SystemCommand is an argv vector.
type SystemCommand struct {
	Args []string `json:"argv" yaml:"argv"`
}

// Shell returns a ShellCommand.
func Shell(text string) ShellCommand { return ShellCommand{Text: text} }

// System returns a SystemCommand.
func System(args ...string) SystemCommand { return SystemCommand{Args: args} }

func (c ShellCommand) ShellString() string { return c.Text }
func (c ShellCommand) Argv() []string      { return []string{"bash", "-c", c.Text} }
func (ShellCommand) command()              {}

func (c SystemCommand) ShellString() string { return shellescape.QuoteCommand(c.Args) }

func (c SystemCommand) Argv() []string {
	return append([]string(nil), c.Args...)
}

func (SystemCommand) command() {}

// Partial returns a constructor for SystemCommands starting with prefix.
func Partial(prefix ...string) func(args ...string) SystemCommand {
	base := append([]string(nil), prefix...)
	return func(args ...string) SystemCommand {
		argv := make([]string, 0, len(base)+len(args))
		argv = append(argv, base...)
		argv = append(argv, args...)
		return SystemCommand{Args: argv}
	}
}
