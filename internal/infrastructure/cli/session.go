package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/domain/session"
)

var sessionJSON bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage planning sessions",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start an empty planning session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		sess, err := services.Sessions.NewSession()
		if err != nil {
			return MapError(err)
		}
		if sessionJSON {
			return printJSON(cmd.OutOrStdout(), sess)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created session %s\n", sess.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Next: cadence chat %s \"Describe your project\"\n", sess.ID)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		sessions, err := services.Sessions.ListSessions()
		if err != nil {
			return MapError(err)
		}
		if sessionJSON {
			return printJSON(cmd.OutOrStdout(), sessions)
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions yet. Run 'cadence session new'.")
			return nil
		}
		for _, s := range sessions {
			project := "-"
			if s.CurrentPlan != nil {
				project = s.CurrentPlan.ProjectName
			}
			fmt.Fprintf(out, "%s  %-8s  %-24s  %s\n", s.ID, s.Phase, project, mutedStyle.Render(s.UpdatedAt.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's conversation and current plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		sess, err := services.Sessions.GetSession(args[0])
		if err != nil {
			return MapError(err)
		}
		if sessionJSON {
			return printJSON(cmd.OutOrStdout(), sess)
		}
		renderSession(cmd.OutOrStdout(), sess)
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset <session-id>",
	Short: "Clear a session's conversation and plans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if _, err := services.Sessions.ResetSession(args[0]); err != nil {
			return MapError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s reset\n", args[0])
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if err := services.Sessions.DeleteSession(args[0]); err != nil {
			return MapError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", args[0])
		return nil
	},
}

var sessionApplyCmd = &cobra.Command{
	Use:   "apply <session-id> <plan>",
	Short: "Install a hand-edited plan file as the session's next revision",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()
		plan, err := loadPlan(args[1])
		if err != nil {
			return err
		}
		turn, err := services.Sessions.ApplyPlan(cmd.Context(), args[0], *plan)
		if err != nil {
			return MapError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), turn.Reply)
		return nil
	},
}

func renderSession(w io.Writer, s *session.Session) {
	fmt.Fprintln(w, titleStyle.Render("Session "+s.ID))
	fmt.Fprintf(w, "Phase: %s\n", s.Phase)
	if s.CurrentPlan != nil {
		fmt.Fprintf(w, "Plan: %s (%d tasks, %d days)\n", s.CurrentPlan.ProjectName, len(s.CurrentPlan.Tasks), s.CurrentPlan.TotalDays())
	}
	if len(s.Messages) == 0 {
		return
	}
	fmt.Fprintln(w, "\nConversation:")
	for _, m := range s.Messages {
		fmt.Fprintf(w, "%s: %s\n", mutedStyle.Render(string(m.Role)), m.Content)
	}
}

func init() {
	sessionCmd.PersistentFlags().BoolVar(&sessionJSON, "json", false, "Output in JSON format")
	sessionCmd.AddCommand(sessionNewCmd, sessionListCmd, sessionShowCmd, sessionResetCmd, sessionDeleteCmd, sessionApplyCmd)
	RootCmd.AddCommand(sessionCmd)
}
