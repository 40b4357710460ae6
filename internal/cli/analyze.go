package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mvp-joe/codeshape/internal/config"
	"github.com/mvp-joe/codeshape/internal/project"
)

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// loadConfig loads --config when given, otherwise .codeshape/config.yml
// from the project directory (or the working directory for archives).
func loadConfig(source string) (*config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.NewFileLoader(cfgFile).Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", cfgFile)
		}
		return cfg, nil
	}

	rootDir := source
	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		rootDir = wd
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		fmt.Fprintln(os.Stderr, "Config directory:", filepath.Join(rootDir, ".codeshape"))
	}
	return cfg, nil
}

// analyzeSource loads configuration and scans source. The caller must Close
// the returned analysis.
func analyzeSource(ctx context.Context, source string) (*project.Analysis, *config.Config, error) {
	cfg, err := loadConfig(source)
	if err != nil {
		return nil, nil, err
	}

	a, err := project.Analyze(ctx, source, cfg, NewCLIProgressReporter(quietFlag))
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

// sourceArg returns args[0], or the working directory when no argument is given.
func sourceArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
