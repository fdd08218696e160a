package modifier

import "github.com/mj1618/i3layout/internal/command"

// WorkingDir runs commands inside Dir using env -C.
type WorkingDir struct {
	Dir string
}

func (w WorkingDir) AdjustCommand(c command.Command) command.Command {
	argv := append([]string{"env", "-C", w.Dir, "--"}, c.Argv()...)
	return command.System(argv...)
}
