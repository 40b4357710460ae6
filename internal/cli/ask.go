package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codeshape/internal/llm"
	"github.com/mvp-joe/codeshape/internal/query"
)

var askJSON bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <path> <question...>",
	Short: "Ask a question about a project",
	Long: `Ask answers a free-text question about a project directory or .zip archive.

Questions about classes, superclasses, interfaces, traits, imports,
functions/methods and global variables are answered from the extracted
structure. "explain" and other open-ended questions are sent to the
configured Ollama model together with the structural context.
"extracted elements" prints the raw extraction result.

Examples:
  codeshape ask . how many classes
  codeshape ask project.zip "list all interfaces"
  codeshape ask ./service explain
`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the answer with its intent as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, cfg, err := analyzeSource(ctx, args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	completer, err := llm.NewCompleter(cfg.ToLLMConfig())
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	answer := query.NewRouter(completer).Answer(ctx, strings.Join(args[1:], " "), a.View)

	out := cmd.OutOrStdout()
	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}
	fmt.Fprintln(out, answer.Text)
	return nil
}
