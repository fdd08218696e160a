package cmd

import (
	"github.com/mj1618/i3layout/internal/output"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match SESSION",
	Short: "Show which placeholders would swallow a window",
	Long: `Test the attributes of a window (as shown by xprop or i3's tree) against
the swallow criteria of every placeholder in SESSION.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

// matchAttributes maps flag names to i3 swallow attributes.
var matchAttributes = []struct{ flag, attr string }{
	{"class", "class"},
	{"instance", "instance"},
	{"title", "title"},
	{"machine", "machine"},
	{"window-role", "window_role"},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	for _, a := range matchAttributes {
		matchCmd.Flags().String(a.flag, "", "Window "+a.attr)
	}
	matchCmd.Flags().Bool("matched-only", false, "Only list placeholders that match")
}

func runMatch(cmd *cobra.Command, args []string) error {
	attrs := map[string]string{}
	for _, a := range matchAttributes {
		if v, _ := cmd.Flags().GetString(a.flag); v != "" {
			attrs[a.attr] = v
		}
	}
	matchedOnly, _ := cmd.Flags().GetBool("matched-only")

	plan, err := loadPlan(args[0], nil)
	if err != nil {
		return err
	}
	res := matchWindows(plan, attrs)
	if matchedOnly {
		kept := []output.MatchEntry{}
		for _, w := range res.Windows {
			if w.Matched {
				kept = append(kept, w)
			}
		}
		res.Windows = kept
	}
	return output.Print(res)
}
