package indexer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
	"github.com/mvp-joe/codeshape/internal/indexer/parsers"
)

// Scanner discovers the source files of a project and extracts a record for each.
type Scanner interface {
	// Scan builds a fresh ProjectRecord for the configured root.
	Scan(ctx context.Context) (*ProjectRecord, *ScanStats, error)
}

type scanner struct {
	config   *Config
	progress ProgressReporter
}

// NewScanner creates a new Scanner instance.
func NewScanner(config *Config, progress ProgressReporter) Scanner {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	return &scanner{
		config:   config,
		progress: progress,
	}
}

// scanJob is one file to extract. Each job owns one slot of the result slice.
type scanJob struct {
	path string
	lang extraction.Language
}

type scanResult struct {
	record extraction.Record
	failed bool
}

// Scan discovers files and runs the extractor of every detected language
// over them. Only discovery errors abort the scan: a file that cannot be read
// gets an empty record and is counted in ScanStats.FailedFiles.
func (s *scanner) Scan(ctx context.Context) (*ProjectRecord, *ScanStats, error) {
	startTime := time.Now()

	s.progress.OnDiscoveryStart()

	discovery, err := NewFileDiscovery(s.config.RootDir, s.config.LanguagePatterns, s.config.IgnorePatterns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file discovery: %w", err)
	}

	discovered, err := discovery.Discover()
	if err != nil {
		return nil, nil, err
	}

	stats := &ScanStats{FilesByLanguage: make(map[extraction.Language]int)}
	project := &ProjectRecord{
		Root:  s.config.RootDir,
		Files: make(map[string]FileRecord),
	}

	var jobs []scanJob
	for _, lang := range extraction.Languages {
		paths := discovered[lang]
		if len(paths) == 0 {
			continue
		}
		project.Languages = append(project.Languages, lang)
		stats.FilesByLanguage[lang] = len(paths)
		for _, path := range paths {
			jobs = append(jobs, scanJob{path: path, lang: lang})
		}
	}

	s.progress.OnDiscoveryComplete(len(jobs))

	if len(jobs) == 0 {
		return nil, stats, ErrNoSourceFiles
	}

	log.Printf("Discovered %d source files in %d languages\n", len(jobs), len(project.Languages))

	results, err := s.extractAll(ctx, jobs)
	if err != nil {
		return nil, nil, err
	}

	for i, job := range jobs {
		relPath, err := filepath.Rel(s.config.RootDir, job.path)
		if err != nil {
			relPath = job.path
		}
		project.Files[filepath.ToSlash(relPath)] = FileRecord{
			Language: job.lang,
			Record:   results[i].record,
		}
		if results[i].failed {
			stats.FailedFiles++
		}
	}

	stats.FilesScanned = len(jobs)
	stats.Duration = time.Since(startTime)

	s.progress.OnComplete(stats)

	return project, stats, nil
}

// extractAll runs the extractors with bounded parallelism. Workers write
// only to their own result slot.
func (s *scanner) extractAll(ctx context.Context, jobs []scanJob) ([]scanResult, error) {
	s.progress.OnScanStart(len(jobs))

	results := make([]scanResult, len(jobs))

	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			source, err := os.ReadFile(job.path)
			if err != nil {
				log.Printf("Warning: failed to read %s: %v\n", job.path, err)
				results[i] = scanResult{record: extraction.NewRecord(), failed: true}
			} else {
				results[i] = scanResult{record: parsers.ExtractFile(job.lang, job.path, source)}
			}

			s.progress.OnFileScanned(job.path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	return results, nil
}
