package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render SESSION",
	Short: "Print the i3 layout JSON of a session",
	Long: `Print the layout each workspace of SESSION would receive, in the JSON
understood by i3's append_layout. Values equal to i3's defaults are left out.
Use "-" to read the session from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringSliceP("workspace", "w", nil, "Only render these workspaces")
	renderCmd.Flags().Int("indent", 0, "Indent JSON by this many spaces (0 = compact)")
	renderCmd.Flags().Bool("strip-marks", false, "Remove all marks from the layout")
}

func runRender(cmd *cobra.Command, args []string) error {
	workspaces, _ := cmd.Flags().GetStringSlice("workspace")
	indent, _ := cmd.Flags().GetInt("indent")
	strip, _ := cmd.Flags().GetBool("strip-marks")

	plan, err := loadPlan(args[0], workspaces)
	if err != nil {
		return err
	}
	if strip {
		for i := range plan {
			plan[i].Root = plan[i].Root.WithoutMarks()
		}
	}
	s, err := renderLayouts(plan, indent)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}
