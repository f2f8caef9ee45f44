// Package export writes formatted code to its destinations: plain
// files, the system clipboard, PNG screenshots, Word documents,
// Markdown documents and JSON metrics reports.
//
// Every writer touches only its target and returns the path it wrote,
// so callers can report it. Writers are idempotent: exporting the same
// code to the same path twice yields the same file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// withExt appends ext to path unless path already ends with it,
// compared case-insensitively.
func withExt(path, ext string) string {
	if strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
		return path
	}
	return path + ext
}

// writeFile writes data to path and returns the absolute path.
func writeFile(path string, data []byte) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("writing file: empty file name")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", abs, err)
	}
	return abs, nil
}
