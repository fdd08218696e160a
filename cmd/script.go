package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/i3layout/internal/script"
	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script SESSION",
	Short: "Export a session as a bash script",
	Long: `Print a standalone bash script that appends the layouts of SESSION with
i3-msg and starts its applications, for machines without i3layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().StringSliceP("workspace", "w", nil, "Only export these workspaces")
	scriptCmd.Flags().StringP("output", "o", "", "Write the script to this file and make it executable")
	addPlanFlags(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	workspaces, _ := cmd.Flags().GetStringSlice("workspace")
	out, _ := cmd.Flags().GetString("output")

	plan, err := loadPlan(args[0], workspaces)
	if err != nil {
		return err
	}
	s, err := script.Render(plan, planOptions(cmd))
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}
	if err := os.WriteFile(out, []byte(s+"\n"), 0o755); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}
