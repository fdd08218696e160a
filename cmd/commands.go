package cmd

import (
	"github.com/mj1618/i3layout/internal/output"
	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands SESSION",
	Short: "List the commands a session starts",
	Long:  "List every launch command of SESSION in start order, as a shell string and as argv.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	commandsCmd.Flags().StringSliceP("workspace", "w", nil, "Only list commands of these workspaces")
}

func runCommands(cmd *cobra.Command, args []string) error {
	workspaces, _ := cmd.Flags().GetStringSlice("workspace")
	plan, err := loadPlan(args[0], workspaces)
	if err != nil {
		return err
	}
	return output.Print(collectCommands(plan))
}
