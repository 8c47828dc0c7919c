// Package fileio implements domain.FileExchange on the local filesystem.
package fileio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// MaxDocumentSize is the largest document PromptOpen reads.
const MaxDocumentSize = 8 << 20

// StdioPath is the path that means standard input or output.
const StdioPath = "-"

// Exchange reads and writes .wdeck documents in a directory.
// Fields are ordered to minimize memory padding.
type Exchange struct {
	stdin     io.Reader
	stdout    io.Writer
	dir       string
	overwrite bool
}

// New creates an Exchange that saves into dir ("" means the working directory).
func New(dir string) *Exchange {
	return &Exchange{dir: dir, stdin: os.Stdin, stdout: os.Stdout}
}

// WithStdio sets the streams used for the "-" path.
func (e *Exchange) WithStdio(in io.Reader, out io.Writer) *Exchange {
	e.stdin = in
	e.stdout = out
	return e
}

// WithOverwrite makes PromptSave replace existing files instead of picking a new name.
func (e *Exchange) WithOverwrite(overwrite bool) *Exchange {
	e.overwrite = overwrite
	return e
}

// PromptSave writes content to filename. A bare file name is placed in the
// exchange directory; a path with a directory is used as is. When the file
// exists and overwrite is off, " (n)" is appended to the base name.
// The path "-" writes to standard output.
func (e *Exchange) PromptSave(ctx context.Context, filename, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", domain.ErrCancelled
	}
	if filename == StdioPath {
		if _, err := io.WriteString(e.stdout, content); err != nil {
			return "", fmt.Errorf("write document: %w", err)
		}
		return StdioPath, nil
	}

	path := filename
	if filepath.Base(filename) == filename {
		path = filepath.Join(e.dir, filename)
	}
	if filepath.Ext(path) == "" {
		path += domain.DocumentExt
	}
	if !e.overwrite {
		path = uniquePath(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return "", fmt.Errorf("rename temp file: %w", err)
	}
	return path, nil
}

// PromptOpen returns the content of the file at path.
// An empty path means the user picked nothing. "-" reads standard input.
func (e *Exchange) PromptOpen(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", domain.ErrCancelled
	}

	var r io.Reader
	if path == StdioPath {
		r = e.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("open %s: file does not exist", path)
			}
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxDocumentSize {
		return "", fmt.Errorf("read %s: document larger than %d bytes", path, MaxDocumentSize)
	}
	return string(data), nil
}

// List returns the .wdeck files in the exchange directory, sorted by name.
func (e *Exchange) List() ([]string, error) {
	dir := e.dir
	if dir == "" {
		dir = "."
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"+domain.DocumentExt))
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// uniquePath returns path, or path with " (n)" before the extension if path exists.
func uniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := base + " (" + strconv.Itoa(n) + ")" + ext
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

// Ensure Exchange implements FileExchange.
var _ domain.FileExchange = (*Exchange)(nil)
