package cmd

import (
	"github.com/mj1618/i3layout/internal/output"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the application presets usable in session files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(listPresets())
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
