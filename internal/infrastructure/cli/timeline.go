package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/timeline"
)

var (
	timelineStart string
	timelineJSON  bool
)

// parseStart resolves a --start flag value, defaulting to today.
func parseStart(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	d, err := timeline.ParseDate(value)
	if err != nil {
		return time.Time{}, NewCLIError(err.Error(), "Pass the start date as YYYY-MM-DD", err)
	}
	return d.Time, nil
}

var timelineCmd = &cobra.Command{
	Use:   "timeline <plan>",
	Short: "Lay a plan out on the calendar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		ref, err := parseStart(timelineStart)
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
		if timelineJSON {
			return printJSON(cmd.OutOrStdout(), report.Schedule)
		}
		renderTimeline(cmd.OutOrStdout(), *plan, report.Schedule, ws.Config.DateFormat)
		return nil
	},
}

func init() {
	timelineCmd.Flags().StringVar(&timelineStart, "start", "", "Reference date YYYY-MM-DD (defaults to today)")
	timelineCmd.Flags().BoolVar(&timelineJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(timelineCmd)
}
