// Package checkpoint persists the name of the last fully processed company
// so an interrupted run can resume after it.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/emailscout/internal/textenc"
)

// DefaultPath is the checkpoint file used when none is configured.
const DefaultPath = "progress.txt"

// File is a single-value checkpoint file.
type File struct {
	path   string
	logger *slog.Logger
}

// New creates a checkpoint backed by path.
func New(path string, logger *slog.Logger) *File {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &File{path: path, logger: logger}
}

// Path returns the checkpoint file path.
func (f *File) Path() string {
	return f.path
}

// Load returns the stored company name, or "" when there is no usable
// checkpoint. A missing file is normal; an unreadable or undecodable file is
// logged and treated as absent so the run starts fresh.
func (f *File) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		f.logger.Warn("unreadable checkpoint, starting fresh", "path", f.path, "error", err)
		return "", nil
	}

	text, enc, err := textenc.Decode(data)
	if err != nil {
		f.logger.Warn("corrupted checkpoint, starting fresh", "path", f.path, "error", err)
		return "", nil
	}
	if enc != textenc.UTF8 {
		f.logger.Debug("checkpoint decoded with legacy encoding", "path", f.path, "encoding", string(enc))
	}

	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", nil
}

// Save overwrites the checkpoint with company. The write goes to a temporary
// file in the same directory that is then renamed over the checkpoint, so a
// crash never leaves a truncated file behind.
func (f *File) Save(company string) error {
	dir := filepath.Dir(f.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create checkpoint directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(company); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}

// ResumeIndex returns the index of the first company after last in names.
// ok is false when last is empty or not present in names; the index is
// then 0 and the caller should start from the beginning.
func ResumeIndex(names []string, last string) (index int, ok bool) {
	last = strings.TrimSpace(last)
	if last == "" {
		return 0, false
	}
	for i, name := range names {
		if strings.TrimSpace(name) == last {
			return i + 1, true
		}
	}
	return 0, false
}
