package format

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultAutopep8 is the autopep8 executable looked up on PATH.
const DefaultAutopep8 = "autopep8"

// Runner formats Python source with an external tool.
type Runner interface {
	Run(ctx context.Context, src string, level Level) (string, error)
}

// Autopep8 runs the autopep8 command, reading the snippet from stdin.
type Autopep8 struct {
	// Path is the executable. Empty means DefaultAutopep8.
	Path string

	// Timeout bounds one run. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Args returns the command line for level: one --aggressive flag per
// level above LevelLayout, then "-" to read stdin.
func (a *Autopep8) Args(level Level) []string {
	var args []string
	for l := LevelLayout; l < level; l++ {
		args = append(args, "--aggressive")
	}
	return append(args, "-")
}

// Run formats src and returns autopep8's output.
func (a *Autopep8) Run(ctx context.Context, src string, level Level) (string, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	path := a.Path
	if path == "" {
		path = DefaultAutopep8
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, a.Args(level)...)
	cmd.Stdin = strings.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("running %s: %w: %s", path, err, msg)
		}
		return "", fmt.Errorf("running %s: %w", path, err)
	}
	return stdout.String(), nil
}
