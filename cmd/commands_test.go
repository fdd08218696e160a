package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandFlags(t *testing.T) {
	type flag struct {
		name     string
		flagType string
	}
	planFlags := []flag{
		{"skip-layout", "bool"},
		{"skip-commands", "bool"},
		{"no-workspace-switching", "bool"},
	}

	tests := []struct {
		cmd   *cobra.Command
		flags []flag
	}{
		{renderCmd, []flag{{"workspace", "stringSlice"}, {"indent", "int"}, {"strip-marks", "bool"}}},
		{commandsCmd, []flag{{"workspace", "stringSlice"}}},
		{runCmd, append([]flag{{"workspace", "stringSlice"}}, planFlags...)},
		{scriptCmd, append([]flag{{"workspace", "stringSlice"}, {"output", "string"}}, planFlags...)},
		{importCmd, []flag{{"to", "string"}, {"workspace", "string"}, {"strip-marks", "bool"}, {"indent", "int"}}},
		{patternCmd, []flag{{"test", "string"}}},
		{matchCmd, []flag{{"class", "string"}, {"instance", "string"}, {"title", "string"}, {"machine", "string"}, {"window-role", "string"}, {"matched-only", "bool"}}},
		{serveCmd, []flag{{"transport", "string"}, {"port", "int"}, {"cache-ttl", "int"}}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			flags := tt.cmd.Flags()
			for _, f := range tt.flags {
				got := flags.Lookup(f.name)
				if got == nil {
					t.Errorf("expected flag %q not found", f.name)
					continue
				}
				if got.Value.Type() != f.flagType {
					t.Errorf("flag %q: expected type %q, got %q", f.name, f.flagType, got.Value.Type())
				}
			}
		})
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		cmd     *cobra.Command
		args    []string
		wantErr bool
	}{
		{renderCmd, nil, true},
		{renderCmd, []string{"s.yaml"}, false},
		{renderCmd, []string{"a", "b"}, true},
		{importCmd, nil, false},
		{importCmd, []string{"-"}, false},
		{importCmd, []string{"a", "b"}, true},
		{presetsCmd, []string{"x"}, true},
		{serveCmd, nil, false},
	}
	for _, tt := range tests {
		err := tt.cmd.Args(tt.cmd, tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s %v: err = %v, wantErr %v", tt.cmd.Name(), tt.args, err, tt.wantErr)
		}
	}
}
