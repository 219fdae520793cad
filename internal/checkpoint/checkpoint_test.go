package checkpoint

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFileSaveLoad tests checkpoint persistence.
func TestFileSaveLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file loads as empty", func(t *testing.T) {
		t.Parallel()
		cp := New(filepath.Join(t.TempDir(), "progress.txt"), nil)
		got, err := cp.Load()
		if err != nil || got != "" {
			t.Errorf("expected empty checkpoint, got (%q, %v)", got, err)
		}
	})

	t.Run("save then load returns the company", func(t *testing.T) {
		t.Parallel()
		cp := New(filepath.Join(t.TempDir(), "nested", "progress.txt"), nil)
		if err := cp.Save("Müller & Söhne GmbH"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := cp.Save("Acme GmbH"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := cp.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != "Acme GmbH" {
			t.Errorf("Load() = %q, want %q", got, "Acme GmbH")
		}
	})

	t.Run("save leaves no temporary files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		cp := New(filepath.Join(dir, "progress.txt"), nil)
		if err := cp.Save("Acme"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "progress.txt" {
			t.Errorf("unexpected directory contents: %v", entries)
		}
	})

	t.Run("legacy Latin-1 checkpoint is decoded", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "progress.txt")
		// "Café GmbH" in Latin-1 followed by a Windows line ending.
		if err := os.WriteFile(path, []byte{'C', 'a', 'f', 0xE9, ' ', 'G', 'm', 'b', 'H', '\r', '\n'}, 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		got, err := New(path, nil).Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got != "Café GmbH" {
			t.Errorf("Load() = %q, want %q", got, "Café GmbH")
		}
	})

	t.Run("UTF-8 checkpoint with byte order mark", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "progress.txt")
		if err := os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, []byte("Acme\n")...), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		got, err := New(path, nil).Load()
		if err != nil || got != "Acme" {
			t.Errorf("expected Acme, got (%q, %v)", got, err)
		}
	})

	t.Run("unreadable checkpoint warns and starts fresh", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		// A directory cannot be read as a file.
		got, err := New(t.TempDir(), logger).Load()
		if err != nil || got != "" {
			t.Errorf("expected empty checkpoint, got (%q, %v)", got, err)
		}
		if !strings.Contains(buf.String(), "starting fresh") {
			t.Errorf("expected warning, got %q", buf.String())
		}
	})
}

// TestResumeIndex tests restart positioning.
func TestResumeIndex(t *testing.T) {
	t.Parallel()

	names := []string{"Alpha", "Beta", "Gamma", "Beta"}

	tests := []struct {
		name   string
		last   string
		want   int
		wantOK bool
	}{
		{name: "resumes after the checkpointed company", last: "Beta", want: 2, wantOK: true},
		{name: "resumes after the last company at the end", last: "Gamma", want: 3, wantOK: true},
		{name: "first company", last: "Alpha", want: 1, wantOK: true},
		{name: "absent company starts from zero", last: "Delta", want: 0, wantOK: false},
		{name: "empty checkpoint starts from zero", last: "", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ResumeIndex(names, tt.last)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResumeIndex(%q) = (%d, %v), want (%d, %v)", tt.last, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
