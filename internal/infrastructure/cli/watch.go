package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/sse"
	"github.com/felixgeelhaar/cadence/internal/infrastructure/watch"
	"github.com/felixgeelhaar/cadence/pkg/application"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

var (
	watchDebounce time.Duration
	watchMatch    string
	watchServe    string
)

var watchCmd = &cobra.Command{
	Use:   "watch <plan>",
	Short: "Re-diff a plan file every time it is saved",
	Long: `Re-diff a plan file every time it is saved. Each change is printed, posted
to the configured webhooks and, with --serve, streamed as Server-Sent Events
from /events.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		matcher, err := matcherFor(watchMatch)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var notifiers []application.ChangeNotifier
		if webhooks := ws.Notifier(); webhooks != nil {
			defer webhooks.Wait()
			notifiers = append(notifiers, webhooks)
		}

		out := cmd.OutOrStdout()
		if watchServe != "" {
			stream := sse.NewHandler(ws.Logger)
			notifiers = append(notifiers, stream)
			shutdown := serveEvents(watchServe, stream, ws.Logger.Error)
			defer shutdown()
			fmt.Fprintf(out, "Streaming changes on http://%s/events\n", watchServe)
		}

		onChange := func(c watch.PlanChange) {
			stamp := mutedStyle.Render(c.At.Format("15:04:05"))
			if c.Err != nil {
				fmt.Fprintf(out, "[%s] %s %v\n", stamp, removedStyle.Render("reload failed:"), c.Err)
				return
			}
			fmt.Fprintf(out, "[%s] %s\n", stamp, titleStyle.Render(c.Current.ProjectName))
			narrative := application.RenderChangeNarrative(c.Previous, *c.Current, c.Diff)
			fmt.Fprintln(out, narrative)
			fmt.Fprintln(out)

			event := application.NewPlanChangedEvent("", c.Previous, *c.Current, c.Diff, narrative, c.At)
			for _, n := range notifiers {
				n.Notify(ctx, event)
			}
		}

		w := watch.NewPlanWatcher(args[0], watchDebounce, planning.NewDiffer(matcher), ws.Logger, onChange)

		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", args[0])
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch: %w", err)
		}
		return nil
	},
}

// serveEvents starts an HTTP server exposing stream at /events and returns a
// function that shuts it down.
func serveEvents(addr string, stream http.Handler, logError func(msg string, args ...any)) func() {
	mux := http.NewServeMux()
	mux.Handle("/events", stream)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logError("event stream server", "addr", addr, "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period before reloading after a write")
	watchCmd.Flags().StringVar(&watchMatch, "match", "words", "Task matching strategy (words, ids)")
	watchCmd.Flags().StringVar(&watchServe, "serve", "", "Address to stream changes as Server-Sent Events (e.g. localhost:8787)")
	RootCmd.AddCommand(watchCmd)
}
