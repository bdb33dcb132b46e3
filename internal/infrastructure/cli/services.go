package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/cadence/pkg/domain/planning"
	"github.com/felixgeelhaar/cadence/pkg/storage"
)

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

// loadWorkspace loads config and logging for commands that never call the
// AI provider.
func loadWorkspace() (*wiring.Workspace, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return wiring.NewWorkspace(root, os.Stderr, logLevel)
}

func loadServicesForCurrentDir() (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	services, err := wiring.BuildAppServices(root, os.Stderr, logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	if !services.Workspace.Repo.IsInitialized() {
		return nil, NewCLIError("workspace not initialized", "Run 'cadence init' first", nil)
	}
	return services, nil
}

func loadPlan(path string) (*planning.Plan, error) {
	plan, err := storage.LoadPlanFile(path)
	if err != nil {
		return nil, MapError(err)
	}
	return plan, nil
}
