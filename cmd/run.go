package cmd

import (
	"errors"

	"github.com/mj1618/i3layout/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run SESSION",
	Short: "Apply a session to the running i3",
	Long: `Append every workspace layout of SESSION with i3-msg, then start all
applications in the background. Applications that fail to start are logged
and skipped.

The i3-msg binary can be changed with I3LAYOUT_MSG_BINARY.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceP("workspace", "w", nil, "Only apply these workspaces")
	addPlanFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	workspaces, _ := cmd.Flags().GetStringSlice("workspace")
	plan, err := loadPlan(args[0], workspaces)
	if err != nil {
		return err
	}
	logger.Debug("running session", zap.String("session", args[0]), zap.Int("workspaces", len(plan)))
	res := runPlan(cmd.Context(), newRunner(), plan, planOptions(cmd))
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.OK {
		return errors.New(res.Error)
	}
	return nil
}
