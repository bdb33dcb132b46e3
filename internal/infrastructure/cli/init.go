package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/internal/infrastructure/config"
	"github.com/felixgeelhaar/cadence/pkg/storage"
)

var (
	initProvider string
	initModel    string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a cadence workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		cfg, err := config.Load(root)
		if err != nil {
			return err
		}
		if initProvider != "" {
			cfg.Provider = initProvider
		}
		if initModel != "" {
			cfg.Model = initModel
		}
		if err := config.Save(root, cfg); err != nil {
			return MapError(fmt.Errorf("save config: %w", err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized cadence workspace in %s (provider: %s)\n", root, cfg.Provider)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initProvider, "provider", "", "AI provider (groq, openai, ollama, mock)")
	initCmd.Flags().StringVar(&initModel, "model", "", "Model name for the provider")
	RootCmd.AddCommand(initCmd)
}
