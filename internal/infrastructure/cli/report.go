package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/application"
)

var (
	reportStart string
	reportJSON  bool
)

var reportCmd = &cobra.Command{
	Use:   "report <plan>",
	Short: "Timeline, classification and workload in one view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		ref, err := parseStart(reportStart)
		if err != nil {
			return err
		}
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		report, err := application.NewReportService(ws.Logger).Build(*plan, ref)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if reportJSON {
			return printJSON(out, report)
		}

		renderTimeline(out, *plan, report.Schedule, ws.Config.DateFormat)
		fmt.Fprintln(out)
		renderClassification(out, report)
		fmt.Fprintln(out)
		renderWorkload(out, report)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Reference date YYYY-MM-DD (defaults to today)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(reportCmd)
}
