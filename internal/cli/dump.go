package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/codeshape/internal/indexer"
)

var dumpFormat string

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump [path]",
	Short: "Print every extracted element",
	Long: `Dump prints the combined extraction result: one entry per source file,
tagged with its language, holding type declarations, relationships,
callables, imports and module bindings.

Examples:
  codeshape dump
  codeshape dump project.zip --format yaml
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "json", "Output format: json or yaml")
}

func runDump(cmd *cobra.Command, args []string) error {
	if dumpFormat != "json" && dumpFormat != "yaml" {
		return fmt.Errorf("unsupported format %q (valid: json, yaml)", dumpFormat)
	}

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

	return writeDump(cmd.OutOrStdout(), a.View.Dump(), dumpFormat)
}

// writeDump encodes the file → record mapping as JSON or YAML.
func writeDump(w io.Writer, files map[string]indexer.FileRecord, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(files)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}
