package wiring

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/cadence/pkg/application"
	domainai "github.com/felixgeelhaar/cadence/pkg/domain/ai"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Provider  domainai.Provider
	Generator *application.PlanGenerator
	Sessions  *application.SessionService
	Reports   *application.ReportService
	Notifier  *webhook.Notifier
}

// BuildAppServices constructs the services and AI provider wiring for a repo root.
func BuildAppServices(root string, logOut io.Writer, logLevel string) (*AppServices, error) {
	workspace, err := NewWorkspace(root, logOut, logLevel)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}

	provider, err := LoadAIProvider(workspace.Config)
	if err != nil {
		return nil, fmt.Errorf("load AI provider: %w", err)
	}

	return NewAppServices(workspace, provider), nil
}

// NewAppServices wires services around an existing workspace and provider.
func NewAppServices(workspace *Workspace, provider domainai.Provider) *AppServices {
	generator := application.NewPlanGenerator(provider, workspace.Logger)
	services := &AppServices{
		Workspace: workspace,
		Provider:  provider,
		Generator: generator,
		Sessions:  application.NewSessionService(workspace.Repo, generator, planning.NewDiffer(nil), workspace.Logger),
		Reports:   application.NewReportService(workspace.Logger),
		Notifier:  workspace.Notifier(),
	}
	if services.Notifier != nil {
		services.Sessions.SetNotifier(services.Notifier)
	}
	return services
}

// Close waits for pending webhook deliveries.
func (s *AppServices) Close() {
	if s.Notifier != nil {
		s.Notifier.Wait()
	}
}
