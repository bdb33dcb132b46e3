package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/application"
)

var workloadJSON bool

var workloadCmd = &cobra.Command{
	Use:   "workload <plan>",
	Short: "Show task count and days per owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		report, err := application.NewReportService(ws.Logger).Build(*plan, time.Now())
		if err != nil {
			return err
		}
		if workloadJSON {
			return printJSON(cmd.OutOrStdout(), report.Workload)
		}
		renderWorkload(cmd.OutOrStdout(), report)
		return nil
	},
}

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <plan>",
	Short: "Mark critical and milestone tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		report, err := application.NewReportService(ws.Logger).Build(*plan, time.Now())
		if err != nil {
			return err
		}
		if classifyJSON {
			return printJSON(cmd.OutOrStdout(), report.Summary)
		}
		renderClassification(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	workloadCmd.Flags().BoolVar(&workloadJSON, "json", false, "Output in JSON format")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(workloadCmd)
	RootCmd.AddCommand(classifyCmd)
}
