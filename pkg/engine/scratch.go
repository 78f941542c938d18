package engine

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Scratch is a temporary directory owned exclusively by one engine run.
// It is created before invocation and removed with all contents when
// the run ends; Export copies the contents out first when the caller
// wants to keep them.
type Scratch struct {
	dir string
}

// NewScratch allocates a fresh scratch directory.
func NewScratch() (*Scratch, error) {
	dir, err := os.MkdirTemp("", "*.ggoutlier-check")
	if err != nil {
		return nil, fmt.Errorf("engine: creating scratch directory: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string { return s.dir }

// Close removes the scratch directory and everything in it.
// Safe to call more than once.
func (s *Scratch) Close() error {
	if s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir = ""
	return os.RemoveAll(dir)
}

// ExportError indicates the scratch contents could not be copied to the
// persistent export location.
type ExportError struct {
	Dest string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("engine: exporting outputs to %s: %v", e.Dest, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Export recursively copies the scratch contents to dest, creating it
// as needed. Any previous contents of dest are replaced. Must be called
// before Close. Failure is fatal to the run and surfaced as an
// *ExportError.
func (s *Scratch) Export(dest string) error {
	if s.dir == "" {
		return &ExportError{Dest: dest, Err: fmt.Errorf("scratch directory already closed")}
	}
	if err := os.RemoveAll(dest); err != nil {
		return &ExportError{Dest: dest, Err: err}
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return &ExportError{Dest: dest, Err: err}
	}
	if err := copyFS(dest, os.DirFS(s.dir)); err != nil {
		return &ExportError{Dest: dest, Err: err}
	}
	return nil
}

// copyFS mirrors os.CopyFS (Go 1.23+) for toolchains that predate it:
// directories and regular files are copied recursively, anything else
// is an error, and existing files are not overwritten.
func copyFS(dir string, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0777)
		}
		if !d.Type().IsRegular() {
			return fmt.Errorf("copying %s: non-regular file", path)
		}
		r, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer r.Close()
		info, err := r.Stat()
		if err != nil {
			return err
		}
		w, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0666|info.Mode()&0777)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, r); err != nil {
			w.Close()
			return fmt.Errorf("copying %s: %w", path, err)
		}
		return w.Close()
	})
}
