package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contextFlag bool

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary [path]",
	Short: "Print a structural summary per language",
	Long: `Summary scans a project directory or .zip archive and prints one paragraph
per detected language: type and callable counts, imports, module-level
variables and type relationships.

Examples:
  # Summarize the current directory
  codeshape summary

  # Summarize an uploaded archive, including the combined context line
  codeshape summary project.zip --context
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&contextFlag, "context", false, "Also print the combined project context")
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	source, err := sourceArg(args)
	if err != nil {
		return err
	}

	a, _, err := analyzeSource(ctx, source)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, a.View.Summaries())
	if contextFlag {
		fmt.Fprintln(out)
		fmt.Fprintln(out, a.View.Context())
	}
	return nil
}
