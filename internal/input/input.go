// Package input reads the company list a run works through.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/emailscout/internal/model"
	"github.com/nao1215/emailscout/internal/textenc"
)

// ErrNoInputFiles is returned by Choose when the directory holds no
// candidate files.
var ErrNoInputFiles = errors.New("no input files found")

// maxLineLength bounds a single input line.
const maxLineLength = 1 << 20

// List is a decoded company list.
type List struct {
	// Path is the file the list was read from.
	Path string

	// TargetCountry is derived from the file name.
	TargetCountry string

	// Encoding is the detected file encoding.
	Encoding textenc.Encoding

	// Records holds one entry per line, blank lines included.
	Records []model.CompanyRecord
}

// Names returns the record names in input order.
func (l *List) Names() []string {
	names := make([]string, len(l.Records))
	for i, r := range l.Records {
		names[i] = r.Name
	}
	return names
}

// Read loads the company list at path.
// Each line becomes one record with surrounding whitespace removed; a final
// newline does not produce an extra record.
func Read(path string) (*List, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	text, enc, err := textenc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input file %s: %w", path, err)
	}

	country := model.TargetCountryFromPath(path)
	list := &List{
		Path:          path,
		TargetCountry: country,
		Encoding:      enc,
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for i := 1; scanner.Scan(); i++ {
		list.Records = append(list.Records, model.CompanyRecord{
			Index:         i,
			Name:          strings.TrimSpace(scanner.Text()),
			TargetCountry: country,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to split input file %s: %w", path, err)
	}
	return list, nil
}

// Files returns the regular, non-hidden files in dir in name order.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

// Choose lists the files in dir on out and reads a 1-based selection from
// in, asking again until the answer names a listed file.
// It returns the selected path joined with dir.
func Choose(dir string, in io.Reader, out io.Writer) (string, error) {
	files, err := Files(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoInputFiles, dir)
	}

	fmt.Fprintln(out, "Available files:")
	for i, name := range files {
		fmt.Fprintf(out, "%d. %s\n", i+1, name)
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Select the company list file (number): ")

		line, readErr := reader.ReadString('\n')
		if n, ok := parseSelection(line, len(files)); ok {
			return filepath.Join(dir, files[n-1]), nil
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return "", fmt.Errorf("no file selected: %w", io.ErrUnexpectedEOF)
			}
			return "", fmt.Errorf("failed to read selection: %w", readErr)
		}
		fmt.Fprintln(out, "Invalid selection. Please enter a number from the list.")
	}
}

func parseSelection(answer string, count int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n, true
}
