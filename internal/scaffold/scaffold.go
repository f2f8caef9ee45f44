// Package scaffold writes a starter kempt configuration file into a
// project directory.
package scaffold

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/unbound-force/kempt/internal/config"
)

//go:embed assets/kempt.yaml
var starterConfig []byte

// Options configures the scaffold operation.
type Options struct {
	// TargetDir is the directory to write the config file into.
	// Defaults to the current working directory.
	TargetDir string

	// Force overwrites an existing config file when true.
	// When false, an existing file is left alone.
	Force bool

	// Version is the kempt version string to embed in the
	// version marker comment. Defaults to "dev".
	Version string

	// Stdout is the writer for summary output.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports what the scaffold operation did.
type Result struct {
	// Path is the config file location.
	Path string

	// Created is true when the file did not exist before.
	Created bool

	// Skipped is true when the file existed and Force was false.
	Skipped bool

	// Overwritten is true when the file existed and was replaced.
	Overwritten bool
}

// versionMarker returns the comment line prepended to the file.
func versionMarker(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("# generated by kempt %s\n", version)
}

// Run writes config.DefaultFile into the target directory, prefixed
// with a version marker:
//
//	# generated by kempt vX.Y.Z
//
// An existing file is skipped unless opts.Force is set.
func Run(opts Options) (*Result, error) {
	if opts.TargetDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.TargetDir = cwd
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	result := &Result{Path: filepath.Join(opts.TargetDir, config.DefaultFile)}

	_, statErr := os.Stat(result.Path)
	exists := statErr == nil

	switch {
	case exists && !opts.Force:
		result.Skipped = true
	default:
		out := append([]byte(versionMarker(opts.Version)), starterConfig...)
		if err := os.WriteFile(result.Path, out, 0o644); err != nil {
			return nil, fmt.Errorf("creating %s: %w", config.DefaultFile, err)
		}
		result.Created = !exists
		result.Overwritten = exists
	}

	printSummary(opts.Stdout, result)
	return result, nil
}

// printSummary writes a human-readable summary of the scaffold
// operation to w.
func printSummary(w io.Writer, r *Result) {
	switch {
	case r.Created:
		fmt.Fprintf(w, "created: %s\n", r.Path)
	case r.Overwritten:
		fmt.Fprintf(w, "overwritten: %s\n", r.Path)
	case r.Skipped:
		fmt.Fprintf(w, "skipped: %s (already exists)\n", r.Path)
		fmt.Fprintln(w, "Use --force to overwrite.")
	}
}

// StarterConfig returns the embedded config file content.
func StarterConfig() []byte {
	return append([]byte(nil), starterConfig...)
}
