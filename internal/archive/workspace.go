// Package archive unpacks uploaded project archives into private,
// disposable workspaces.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrCorruptArchive indicates the upload is not a readable zip archive.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrUnsafePath indicates an archive entry would be written outside the workspace.
	ErrUnsafePath = errors.New("illegal file path in archive")
)

// Workspace is an extracted archive on disk. It is owned by one analysis
// and must be closed when that analysis ends.
type Workspace struct {
	ID   string
	Root string

	closeOnce sync.Once
	closeErr  error
}

// Open extracts the zip archive at zipPath into a fresh directory under
// the system temp dir.
func Open(zipPath string) (*Workspace, error) {
	return OpenIn("", zipPath)
}

// OpenIn is Open with an explicit parent directory. On any failure the
// workspace directory is removed before returning.
func OpenIn(parent, zipPath string) (*Workspace, error) {
	id := uuid.New().String()
	root, err := os.MkdirTemp(parent, "codeshape-"+id+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if err := extractZip(zipPath, root); err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}

	return &Workspace{ID: id, Root: root}, nil
}

// Close recursively deletes the workspace. Calling it again is a no-op.
func (w *Workspace) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = os.RemoveAll(w.Root)
	})
	return w.closeErr
}

func extractZip(archivePath, targetDir string) error {
	r, err := zip.OpenReader(archivePath)
	if errors.Is(err, zip.ErrInsecurePath) {
		r.Close()
		return fmt.Errorf("%w: %w", ErrUnsafePath, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}
	defer r.Close()

	base := filepath.Clean(targetDir) + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(targetDir, f.Name)
		if !strings.HasPrefix(target+string(os.PathSeparator), base) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if !f.Mode().IsRegular() {
			// Symlinks and devices are not source files.
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", target, err)
	}
	defer outFile.Close()

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptArchive, f.Name, err)
	}
	defer rc.Close()

	if _, err := io.Copy(outFile, rc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptArchive, f.Name, err)
	}

	return nil
}
