package cli

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/codeshape/internal/indexer"
)

// CLIProgressReporter implements indexer.ProgressReporter with a progress bar
// on stderr, keeping stdout free for command output.
type CLIProgressReporter struct {
	quiet   bool
	mu      sync.Mutex
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Found %s source files\n", formatNumber(totalFiles))
}

func (c *CLIProgressReporter) OnScanStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting structure"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (c *CLIProgressReporter) OnFileScanned(path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fileBar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *indexer.ScanStats) {
	if c.quiet {
		return
	}

	langs := make([]string, 0, len(stats.FilesByLanguage))
	for lang, n := range stats.FilesByLanguage {
		langs = append(langs, fmt.Sprintf("%s %d", lang.DisplayName(), n))
	}
	sort.Strings(langs)

	fmt.Fprintf(os.Stderr, "✓ Scan complete: %s files in %.1fs\n",
		formatNumber(stats.FilesScanned), stats.Duration.Seconds())
	for _, l := range langs {
		fmt.Fprintf(os.Stderr, "  %s\n", l)
	}
	if stats.FailedFiles > 0 {
		fmt.Fprintf(os.Stderr, "  Unreadable: %s\n", formatNumber(stats.FailedFiles))
	}
	fmt.Fprintln(os.Stderr)
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
