package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [LAYOUT]",
	Short: "Convert an i3 layout into a session file",
	Long: `Read i3 layout JSON, for example the output of i3-save-tree, and print it
as a session file (default) or as canonical layout JSON. Comments and
several concatenated top-level objects are accepted. Reads stdin when
LAYOUT is omitted or "-".

Swallow criteria must be anchored regexes of literal characters; anything
else is rejected with the JSON path of the offending value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("to", "session", "Output: session, json")
	importCmd.Flags().StringP("workspace", "w", "", "Workspace name for the session file")
	importCmd.Flags().Bool("strip-marks", false, "Remove all marks")
	importCmd.Flags().Int("indent", 2, "JSON indentation for --to json (0 = compact)")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	to, _ := cmd.Flags().GetString("to")
	workspace, _ := cmd.Flags().GetString("workspace")
	strip, _ := cmd.Flags().GetBool("strip-marks")
	indent, _ := cmd.Flags().GetInt("indent")

	data, err := readInput(path)
	if err != nil {
		return err
	}
	s, err := importLayout(data, importOptions{Workspace: workspace, StripMarks: strip, To: to, Indent: indent})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}
