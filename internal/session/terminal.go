package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is the interactive surface the session talks to.
type Terminal interface {
	// ReadSource shows prompt and collects a code snippet. It returns
	// io.EOF when the input is closed before anything was entered.
	ReadSource(prompt string) (string, error)

	// Ask shows prompt and returns one line of input without its line
	// terminator. It returns io.EOF when the input is closed.
	Ask(prompt string) (string, error)

	// Clear wipes the screen.
	Clear()
}

// LineTerminal reads from a line-oriented input such as a pipe or a
// cooked-mode TTY.
type LineTerminal struct {
	in  *bufio.Reader
	out io.Writer
	tty bool
}

// NewLineTerminal returns a LineTerminal reading in and writing out.
// Clear is a no-op unless out is a terminal.
func NewLineTerminal(in io.Reader, out io.Writer) *LineTerminal {
	t := &LineTerminal{in: bufio.NewReader(in), out: out}
	if f, ok := out.(*os.File); ok {
		t.tty = term.IsTerminal(int(f.Fd()))
	}
	return t
}

// ReadSource reads lines until end of input. Every line, including an
// unterminated last one, is kept with a trailing newline.
func (t *LineTerminal) ReadSource(prompt string) (string, error) {
	fmt.Fprintln(t.out, prompt)

	var sb strings.Builder
	read := false
	for {
		line, err := t.in.ReadString('\n')
		if line != "" {
			read = true
			sb.WriteString(strings.TrimRight(line, "\r\n"))
			sb.WriteByte('\n')
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading source: %w", err)
		}
	}
	if !read {
		return "", io.EOF
	}
	return sb.String(), nil
}

// Ask implements Terminal.
func (t *LineTerminal) Ask(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt+" ")
	line, err := t.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(t.out)
		return "", io.EOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Clear implements Terminal.
func (t *LineTerminal) Clear() {
	if t.tty {
		fmt.Fprint(t.out, "\x1b[H\x1b[2J")
	}
}
