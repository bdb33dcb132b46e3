package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	inframcp "github.com/felixgeelhaar/cadence/internal/infrastructure/mcp"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Cadence MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("CADENCE_SKIP_MCP_START") == "true" {
			return nil
		}
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		server, err := inframcp.NewServer(root, os.Stderr, logLevel)
		if err != nil {
			return err
		}

		switch strings.ToLower(mcpTransport) {
		case "stdio", "":
			return server.ServeStdio(cmd.Context())
		case "http":
			return server.ServeHTTP(cmd.Context(), mcpAddr)
		default:
			return NewCLIError(fmt.Sprintf("unsupported transport: %s", mcpTransport), "Use --transport=stdio or --transport=http", nil)
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio, http)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", ":8080", "Address for the http transport")
	RootCmd.AddCommand(mcpCmd)
}
