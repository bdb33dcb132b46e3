package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatJSON bool

var chatCmd = &cobra.Command{
	Use:   "chat <session-id> <message...>",
	Short: "Send a message to a planning session",
	Long: `Send a message to a planning session. The AI provider regenerates the
plan from the whole conversation and the reply summarizes what changed
against the previous revision.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		turn, err := services.Sessions.Send(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return MapError(err)
		}
		if chatJSON {
			return printJSON(cmd.OutOrStdout(), turn)
		}

		out := cmd.OutOrStdout()
		if turn.NeedsClarification {
			fmt.Fprintln(out, criticalStyle.Render(turn.Reply))
			return nil
		}
		fmt.Fprintln(out, turn.Reply)
		return nil
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(chatCmd)
}
