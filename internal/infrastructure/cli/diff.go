package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

var (
	diffJSON  bool
	diffMatch string
)

func matcherFor(name string) (planning.Matcher, error) {
	switch name {
	case "", "words":
		return planning.NewWordOverlapMatcher(), nil
	case "ids":
		return planning.NewIDMatcher(), nil
	default:
		return nil, NewCLIError(fmt.Sprintf("unknown match strategy %q", name), "Use --match=words or --match=ids", nil)
	}
}

var diffCmd = &cobra.Command{
	Use:   "diff <previous-plan> <new-plan>",
	Short: "Compare two plan files and summarize what changed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		matcher, err := matcherFor(diffMatch)
		if err != nil {
			return err
		}
		previous, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		next, err := loadPlan(args[1])
		if err != nil {
			return err
		}

		diff := planning.NewDiffer(matcher).Diff(previous, *next)
		narrative := application.RenderChangeNarrative(previous, *next, diff)

		if diffJSON {
			return printJSON(cmd.OutOrStdout(), struct {
				Diff      planning.PlanDiff `json:"diff"`
				Narrative string            `json:"narrative"`
			}{diff, narrative})
		}
		renderDiff(cmd.OutOrStdout(), diff, narrative)
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output in JSON format")
	diffCmd.Flags().StringVar(&diffMatch, "match", "words", "Task matching strategy (words, ids)")
	RootCmd.AddCommand(diffCmd)
}
