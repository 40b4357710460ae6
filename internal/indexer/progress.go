package indexer

// ProgressReporter provides callbacks for reporting scan progress.
// Implementations can display progress bars, log messages, or remain silent.
// OnFileScanned is called from worker goroutines and must be safe for
// concurrent use.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(totalFiles int)

	// OnScanStart is called before extracting files.
	OnScanStart(totalFiles int)

	// OnFileScanned is called after each file is extracted.
	OnFileScanned(path string)

	// OnComplete is called when the scan completes successfully.
	OnComplete(stats *ScanStats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                  {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int) {}
func (n *NoOpProgressReporter) OnScanStart(totalFiles int)         {}
func (n *NoOpProgressReporter) OnFileScanned(path string)          {}
func (n *NoOpProgressReporter) OnComplete(stats *ScanStats)        {}
