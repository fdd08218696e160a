package output

// CommandEntry is one launch command of a plan.
type CommandEntry struct {
	Workspace string   `yaml:"workspace,omitempty" json:"workspace,omitempty"`
	Shell     string   `yaml:"shell"               json:"shell"`
	Argv      []string `yaml:"argv"                json:"argv"`
}

// CommandsResult is the output of the `commands` command.
type CommandsResult struct {
	Commands []CommandEntry `yaml:"commands" json:"commands"`
}

// PatternResult is the output of the `pattern` command.
type PatternResult struct {
	Input    string `yaml:"input"              json:"input"`
	PCRE     string `yaml:"pcre"               json:"pcre"`
	RE2      string `yaml:"re2,omitempty"      json:"re2,omitempty"`
	RE2Error string `yaml:"re2Error,omitempty" json:"re2Error,omitempty"`
	Matches  *bool  `yaml:"matches,omitempty"  json:"matches,omitempty"`
}

// MatchEntry reports whether one window of a plan would swallow the
// tested window.
type MatchEntry struct {
	Workspace string `yaml:"workspace,omitempty" json:"workspace,omitempty"`
	Window    string `yaml:"window"              json:"window"`
	Matched   bool   `yaml:"matched"             json:"matched"`
	Error     string `yaml:"error,omitempty"     json:"error,omitempty"`
}

// MatchResult is the output of the `match` command.
type MatchResult struct {
	Attributes map[string]string `yaml:"attributes" json:"attributes"`
	Windows    []MatchEntry      `yaml:"windows"    json:"windows"`
}

// PresetEntry describes one registered preset.
type PresetEntry struct {
	Name        string   `yaml:"name"             json:"name"`
	Description string   `yaml:"description"      json:"description"`
	Params      []string `yaml:"params,omitempty" json:"params,omitempty"`
}

// RunResult summarizes a `run` invocation.
type RunResult struct {
	OK         bool     `yaml:"ok"                   json:"ok"`
	Workspaces []string `yaml:"workspaces,omitempty" json:"workspaces,omitempty"`
	Commands   int      `yaml:"commands"             json:"commands"`
	Error      string   `yaml:"error,omitempty"      json:"error,omitempty"`
}
