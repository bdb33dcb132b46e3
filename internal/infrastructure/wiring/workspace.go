package wiring

import (
	"io"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/config"
	"github.com/felixgeelhaar/cadence/internal/infrastructure/logging"
	"github.com/felixgeelhaar/cadence/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/cadence/pkg/storage"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Root   string
	Repo   *storage.FilesystemRepository
	Config *config.Config
	Logger *slog.Logger
}

// NewWorkspace loads the workspace config and builds a logger writing to
// logOut. A non-empty logLevel overrides the configured level.
func NewWorkspace(root string, logOut io.Writer, logLevel string) (*Workspace, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return &Workspace{
		Root:   root,
		Repo:   storage.NewFilesystemRepository(root),
		Config: cfg,
		Logger: logging.New(logOut, cfg.LogLevel, cfg.LogFormat),
	}, nil
}

// Notifier builds the webhook notifier for the configured endpoints, or nil
// when none are active. Failed deliveries go to the workspace dead letter file.
func (w *Workspace) Notifier() *webhook.Notifier {
	endpoints := w.Config.ActiveWebhooks()
	if len(endpoints) == 0 {
		return nil
	}
	var deadLetter *webhook.DeadLetterStore
	if path, err := w.Repo.ResolvePath(storage.WebhookDeadLetterFile); err == nil {
		deadLetter = webhook.NewDeadLetterStore(path)
	}
	return webhook.NewNotifier(endpoints, deadLetter, w.Logger)
}
