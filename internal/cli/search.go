package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codeshape/internal/search"
)

var (
	searchLimit    int
	searchLanguage string
	searchKind     string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <path> <terms...>",
	Short: "Search extracted element names",
	Long: `Search builds an in-memory keyword index over every extracted element
(types, functions, methods, imports and module bindings) and runs a
bleve query string against it.

Examples:
  codeshape search . Service
  codeshape search . "name:start" --kind method --language python
  codeshape search project.zip "user*" --limit 5
`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", search.DefaultLimit, "Maximum number of hits (max 100)")
	searchCmd.Flags().StringVar(&searchLanguage, "language", "", "Only return elements of this language")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "Only return elements of this kind (type, function, method, import, binding)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, _, err := analyzeSource(ctx, args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	idx, err := search.NewIndex(ctx, a.View)
	if err != nil {
		return err
	}
	defer idx.Close()

	hits, err := idx.Search(ctx, strings.Join(args[1:], " "), search.Options{
		Limit:    searchLimit,
		Language: searchLanguage,
		Kind:     searchKind,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintln(out, "No matches.")
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(out, "%-8s %-10s %s  (%s)\n", h.Kind, h.Language, h.Name, h.Path)
	}
	return nil
}
