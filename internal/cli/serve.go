package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codeshape/internal/llm"
	"github.com/mvp-joe/codeshape/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start a Model Context Protocol server that lets coding assistants
analyze projects and ask structural questions about them.

Tools:
  codeshape_analyze  scan a directory or .zip archive, returns a project_id
  codeshape_query    answer a question about an analyzed project
  codeshape_search   keyword search over extracted element names

Analyzed projects are cached in memory (mcp.cache_size, mcp.cache_ttl).
With mcp.watch enabled, a directory project is dropped from the cache as
soon as one of its source files changes.

Example:
  codeshape serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := loadConfig(wd)
	if err != nil {
		return err
	}

	completer, err := llm.NewCompleter(cfg.ToLLMConfig())
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	srv, err := mcp.NewServer(cfg, completer)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	return srv.Serve(cmd.Context())
}
