package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	quietFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codeshape",
	Short: "Codeshape - structural summaries of multi-language projects",
	Long: `Codeshape parses C, Java, JavaScript, TypeScript, PHP and Python sources
with tree-sitter and reports their structure: classes and structs, type
relationships, functions and methods, imports and module-level variables.

A project is a directory or a .zip archive. Structural questions are
answered locally; open-ended questions are forwarded to a local Ollama
server together with the extracted facts.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <project>/.codeshape/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and log output")
}

// configureLogging routes the standard logger to stderr, or nowhere with --quiet.
func configureLogging() {
	log.SetFlags(0)
	if quietFlag {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(os.Stderr)
}
