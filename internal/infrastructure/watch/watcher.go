package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/storage"
)

// PlanChange is delivered whenever the watched plan file yields a new snapshot
// or fails to load.
type PlanChange struct {
	Previous *planning.Plan
	Current  *planning.Plan
	Diff     planning.PlanDiff
	// Err is set when the file could not be loaded; the last good snapshot is kept.
	Err error
	At  time.Time
}

// PlanWatcher reloads a plan file on change and diffs it against the
// previous good snapshot.
type PlanWatcher struct {
	path     string
	debounce time.Duration
	differ   *planning.Differ
	onChange func(PlanChange)
	logger   *slog.Logger

	mu      sync.Mutex
	current *planning.Plan
}

// NewPlanWatcher creates a watcher for the plan file at path. A zero debounce
// defaults to 300ms and a nil differ to the word-overlap heuristic.
func NewPlanWatcher(path string, debounce time.Duration, differ *planning.Differ, logger *slog.Logger, onChange func(PlanChange)) *PlanWatcher {
	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}
	if differ == nil {
		differ = planning.NewDiffer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		differ:   differ,
		onChange: onChange,
		logger:   logger,
	}
}

// Current returns the last successfully loaded snapshot.
func (w *PlanWatcher) Current() *planning.Plan {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Reload loads the file and reports a change when its content differs from
// the last good snapshot. Unchanged content reports nothing.
func (w *PlanWatcher) Reload() {
	plan, err := storage.LoadPlanFile(w.path)

	w.mu.Lock()
	previous := w.current
	if err != nil {
		w.mu.Unlock()
		w.logger.Warn("plan reload failed", "path", w.path, "error", err)
		w.emit(PlanChange{Previous: previous, Current: previous, Err: err, At: time.Now()})
		return
	}
	if previous != nil && previous.Hash() == plan.Hash() {
		w.mu.Unlock()
		return
	}
	w.current = plan
	w.mu.Unlock()

	diff := w.differ.Diff(previous, *plan)
	w.logger.Debug("plan reloaded",
		"path", w.path,
		"tasks", len(plan.Tasks),
		"timeline_delta", diff.TimelineDelta,
	)
	w.emit(PlanChange{Previous: previous, Current: plan, Diff: diff, At: time.Now()})
}

func (w *PlanWatcher) emit(c PlanChange) {
	if w.onChange != nil {
		w.onChange(c)
	}
}

// Run loads the plan once, then watches its directory until ctx is cancelled.
// Editors that save by rename are handled because the directory, not the
// file, is watched.
func (w *PlanWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.Reload()

	debouncer := NewDebouncer(w.debounce, func(events int) {
		w.logger.Debug("plan file changed", "path", w.path, "events", events)
		w.Reload()
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename) {
				debouncer.Trigger()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
