package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mvp-joe/codeshape/internal/archive"
	"github.com/mvp-joe/codeshape/internal/config"
	"github.com/mvp-joe/codeshape/internal/indexer"
)

// Analysis is one scanned project: a directory on disk or an extracted
// archive. Close releases the archive workspace, if any.
type Analysis struct {
	ID     string
	Source string // directory or archive path as given
	Root   string // directory that was scanned
	View   *View
	Stats  *indexer.ScanStats

	workspace *archive.Workspace
}

// IsArchive reports whether the analysis was built from an uploaded archive.
func (a *Analysis) IsArchive() bool {
	return a.workspace != nil
}

// Close removes the extracted archive. It is safe to call more than once.
func (a *Analysis) Close() error {
	if a.workspace == nil {
		return nil
	}
	return a.workspace.Close()
}

// Analyze scans source, which is either a directory or a .zip archive.
// Archives are extracted into a private workspace that is removed on
// failure and by Analysis.Close on success.
func Analyze(ctx context.Context, source string, cfg *config.Config, progress indexer.ProgressReporter) (*Analysis, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", source, err)
	}

	a := &Analysis{ID: uuid.New().String(), Source: source, Root: abs}

	if isArchive(abs) {
		ws, err := archive.Open(abs)
		if err != nil {
			return nil, err
		}
		a.ID = ws.ID
		a.Root = ws.Root
		a.workspace = ws
	} else if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%s is neither a directory nor a .zip archive", source)
	}

	record, stats, err := indexer.NewScanner(cfg.ToIndexerConfig(a.Root), progress).Scan(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.View = Aggregate(record)
	a.Stats = stats
	return a, nil
}

func isArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}
