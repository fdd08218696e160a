package cmd

import (
	"github.com/mj1618/i3layout/internal/output"
	"github.com/spf13/cobra"
)

var patternCmd = &cobra.Command{
	Use:   "pattern REGEX",
	Short: "Check a swallow regex",
	Long: `Parse an anchored swallow regex made of escaped literal characters,
for example '^org\\.mozilla\\.firefox$', and print it in the PCRE dialect i3
uses and in Go's RE2 dialect. With --test, also report whether a value
matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runPattern,
}

func init() {
	rootCmd.AddCommand(patternCmd)
	patternCmd.Flags().String("test", "", "Value to match against the pattern")
}

func runPattern(cmd *cobra.Command, args []string) error {
	test, _ := cmd.Flags().GetString("test")
	res, err := describePattern(args[0], test)
	if err != nil {
		return err
	}
	return output.Print(res)
}
