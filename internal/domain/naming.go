package domain

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// DocumentExt is the file extension of exported boards.
const DocumentExt = ".wdeck"

// DataDir returns the weekdeck data directory under dataHome.
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, "weekdeck")
}

// StorePath returns the path to the JSON key/value store.
func StorePath(dataDir string) string {
	return filepath.Join(dataDir, "store.json")
}

// LogPath returns the path to the log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "weekdeck.log")
}

// ExportFileName returns the file name for an exported board:
// <title>_<YYYY-MM-DD>.wdeck, falling back to "weekdeck" for an empty title.
func ExportFileName(title string, at time.Time) string {
	base := sanitizeFileName(title)
	if base == "" {
		base = "weekdeck"
	}
	return base + "_" + at.Format("2006-01-02") + DocumentExt
}

// sanitizeFileName keeps letters, digits, '-' and '_' and folds spaces to '-'.
func sanitizeFileName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
