package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/unbound-force/kempt/internal/export"
	"github.com/unbound-force/kempt/internal/format"
	"github.com/unbound-force/kempt/internal/loader"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// scriptedTerminal replays canned input. Running out of sources or
// answers behaves like closed input.
type scriptedTerminal struct {
	sources []string
	answers []string
	prompts []string
	clears  int
}

func (t *scriptedTerminal) ReadSource(prompt string) (string, error) {
	t.prompts = append(t.prompts, stripANSI(prompt))
	if len(t.sources) == 0 {
		return "", io.EOF
	}
	src := t.sources[0]
	t.sources = t.sources[1:]
	return src, nil
}

func (t *scriptedTerminal) Ask(prompt string) (string, error) {
	t.prompts = append(t.prompts, stripANSI(prompt))
	if len(t.answers) == 0 {
		return "", io.EOF
	}
	a := t.answers[0]
	t.answers = t.answers[1:]
	return a, nil
}

func (t *scriptedTerminal) Clear() { t.clears++ }

func (t *scriptedTerminal) count(prompt string) int {
	n := 0
	for _, p := range t.prompts {
		if trimLines(p) == trimLines(prompt) {
			n++
		}
	}
	return n
}

// trimLines drops the padding lipgloss adds to multi-line text.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

// cannedFormatter stands in for autopep8: known snippets map to their
// formatted text, anything else comes back unchanged.
type cannedFormatter map[string]string

func (c cannedFormatter) Run(_ context.Context, src string, _ format.Level) (string, error) {
	if out, ok := c[src]; ok {
		return out, nil
	}
	return src, nil
}

var pep8 = cannedFormatter{
	"x=1\n": "x = 1\n",
	"y=2\n": "y = 2\n",
}

type fakeBrowser struct{ err error }

func (f *fakeBrowser) Screenshot(_ context.Context, _, _ string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png"), nil
}

type harness struct {
	term *scriptedTerminal
	out  *bytes.Buffer
	logs *bytes.Buffer
	clip *fakeClipboard
	s    *Session
}

func newHarness(sources, answers []string) *harness {
	var out, logs bytes.Buffer
	logger := charmlog.NewWithOptions(&logs, charmlog.Options{Level: charmlog.ErrorLevel})
	term := &scriptedTerminal{sources: sources, answers: answers}
	clip := &fakeClipboard{}
	return &harness{
		term: term,
		out:  &out,
		logs: &logs,
		clip: clip,
		s: &Session{
			Term:      term,
			Out:       &out,
			Formatter: &format.Formatter{Language: loader.Python, Level: format.LevelAggressive, Python: pep8, Logger: logger},
			Clipboard: &export.Clipboard{Writer: clip},
			Image:     &export.Image{Browser: &fakeBrowser{}},
			Logger:    logger,
			Version:   "test",
		},
	}
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	if err := h.s.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if h.s.State() != Terminated {
		t.Errorf("final state = %s, want terminated", h.s.State())
	}
	return stripANSI(h.out.String())
}

func TestRun_CopyAndSave(t *testing.T) {
	dir := t.TempDir()
	saved := filepath.Join(dir, "Out.py")
	h := newHarness([]string{"x=1\n"}, []string{"c", " s ", "  " + saved + "  ", "q", "n"})

	out := h.run(t)

	if h.clip.text != "x = 1\n" {
		t.Errorf("clipboard = %q, want formatted code", h.clip.text)
	}
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "x = 1\n" {
		t.Errorf("saved file = %q", data)
	}
	for _, want := range []string{
		"Original Code",
		"Formatted Code",
		"Code has been copied to clipboard.",
		"Code has been saved to file " + saved,
		"File path: " + saved,
		"Goodbye",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if h.term.count(PromptCommand) != 3 {
		t.Errorf("command prompt shown %d times, want 3", h.term.count(PromptCommand))
	}
	if h.logs.Len() != 0 {
		t.Errorf("unexpected log output: %s", h.logs.String())
	}
}

func TestRun_FormatFailureSkipsExport(t *testing.T) {
	h := newHarness([]string{"def (:\n", "x=1\n"}, []string{"y", "", "n"})

	out := h.run(t)

	if !strings.Contains(out, "Error: formatting code") {
		t.Errorf("expected format error in output:\n%s", out)
	}
	if !strings.Contains(h.logs.String(), "error formatting code") {
		t.Errorf("expected format error to be logged, got %q", h.logs.String())
	}
	// Only the second, valid snippet reaches the export prompt.
	if h.term.count(PromptCommand) != 1 {
		t.Errorf("command prompt shown %d times, want 1", h.term.count(PromptCommand))
	}
	if strings.Count(out, "Original Code") != 1 {
		t.Error("failed snippet should not be presented")
	}
}

func TestRun_InvalidContinueAsksAgain(t *testing.T) {
	h := newHarness([]string{"x=1\n"}, []string{"", "maybe", " N "})

	out := h.run(t)

	if !strings.Contains(out, "Invalid selection. Please select 'y' or 'n'.") {
		t.Errorf("expected invalid selection message:\n%s", out)
	}
	if !strings.Contains(h.logs.String(), "invalid selection") {
		t.Errorf("expected invalid selection to be logged, got %q", h.logs.String())
	}
	if h.term.count(PromptContinue) != 2 {
		t.Errorf("continue prompt shown %d times, want 2", h.term.count(PromptContinue))
	}
	if h.term.count(PromptSource) != 1 {
		t.Errorf("source prompt shown %d times, want 1", h.term.count(PromptSource))
	}
}

func TestRun_ContinueStartsNewRound(t *testing.T) {
	h := newHarness([]string{"x=1\n", "y=2\n"}, []string{"", "Y", "", "n"})

	out := h.run(t)

	if h.term.count(PromptSource) != 2 {
		t.Errorf("source prompt shown %d times, want 2", h.term.count(PromptSource))
	}
	if !strings.Contains(out, "y = 2") {
		t.Errorf("second snippet not formatted:\n%s", out)
	}
	// One clear per presented round plus one for continuing.
	if h.term.clears != 3 {
		t.Errorf("clears = %d, want 3", h.term.clears)
	}
}

func TestRun_EOFTerminates(t *testing.T) {
	tests := []struct {
		name    string
		sources []string
		answers []string
	}{
		{"at source", nil, nil},
		{"at command", []string{"x=1\n"}, nil},
		{"at file name", []string{"x=1\n"}, []string{"s"}},
		{"at target", []string{"x=1\n"}, []string{"p"}},
		{"at continue", []string{"x=1\n"}, []string{"q"}},
		{"at continue after failure", []string{"def (:\n"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.sources, tt.answers)
			out := h.run(t)
			if !strings.Contains(out, "Goodbye") {
				t.Errorf("expected goodbye on closed input:\n%s", out)
			}
		})
	}
}

func TestRun_TerminalFailure(t *testing.T) {
	h := newHarness(nil, nil)
	h.s.Term = failingTerminal{}
	if err := h.s.Run(context.Background()); err == nil {
		t.Fatal("expected terminal error")
	}
}

type failingTerminal struct{}

func (failingTerminal) ReadSource(string) (string, error) { return "", errors.New("tty gone") }
func (failingTerminal) Ask(string) (string, error)        { return "", errors.New("tty gone") }
func (failingTerminal) Clear()                            {}

func TestRun_ExportTargets(t *testing.T) {
	dir := t.TempDir()
	name := func(n string) string { return filepath.Join(dir, n) }
	h := newHarness([]string{"def main():\n    pass\n"}, []string{
		"p", "m", name("doc"),
		"P", "W", name("doc"),
		"p", "j", name("metrics"),
		"p", "i", name("shot.png"),
		"p", "x",
		"", "n",
	})

	out := h.run(t)

	for _, f := range []string{"doc.md", "doc.docx", "metrics.json", "shot.png"} {
		if _, err := os.Stat(name(f)); err != nil {
			t.Errorf("expected %s to be written: %v", f, err)
		}
	}
	md, _ := os.ReadFile(name("doc.md"))
	if string(md) != "```python\ndef main():\n    pass\n```\n" {
		t.Errorf("markdown = %q", md)
	}
	for _, want := range []string{
		"exported to Markdown file",
		"exported to Word file",
		"exported to JSON file",
		"exported to image file",
		"Invalid choice.",
		"Size: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.Contains(h.logs.String(), "invalid file format choice") {
		t.Errorf("expected invalid choice to be logged, got %q", h.logs.String())
	}
}

func TestRun_ExportFailureIsReported(t *testing.T) {
	h := newHarness([]string{"x=1\n"}, []string{
		"p", "i", filepath.Join(t.TempDir(), "shot.png"),
		"s", filepath.Join(t.TempDir(), "missing", "dir", "f.py"),
		"", "n",
	})
	h.s.Image = &export.Image{Browser: &fakeBrowser{err: errors.New("chrome not found")}}

	out := h.run(t)

	if !strings.Contains(out, "Unable to export to image") || !strings.Contains(out, "chrome not found") {
		t.Errorf("expected image failure in output:\n%s", out)
	}
	if !strings.Contains(out, "Unable to save code") {
		t.Errorf("expected save failure in output:\n%s", out)
	}
	logs := h.logs.String()
	if !strings.Contains(logs, "unable to export") || !strings.Contains(logs, "unable to save code to file") {
		t.Errorf("expected both failures to be logged, got %q", logs)
	}
}

func TestRun_SourceTooLarge(t *testing.T) {
	h := newHarness([]string{"x = 1000000\n"}, []string{"n"})
	h.s.MaxSourceBytes = 4

	out := h.run(t)

	if !strings.Contains(out, "larger than the 4 B limit") {
		t.Errorf("expected size rejection:\n%s", out)
	}
	if h.term.count(PromptCommand) != 0 {
		t.Error("rejected snippet should skip the export loop")
	}
	if !strings.Contains(h.logs.String(), "source too large") {
		t.Errorf("expected rejection to be logged, got %q", h.logs.String())
	}
}

func TestRun_GoLanguage(t *testing.T) {
	dir := t.TempDir()
	h := newHarness([]string{"package main\nimport \"fmt\"\nfunc main(){fmt.Println(1)}\n"}, []string{
		"p", "m", filepath.Join(dir, "doc"),
		"", "n",
	})
	h.s.Formatter = format.New(loader.Go, format.LevelSimplify, h.s.Logger)

	out := h.run(t)

	md, err := os.ReadFile(filepath.Join(dir, "doc.md"))
	if err != nil {
		t.Fatalf("markdown missing: %v", err)
	}
	if !strings.HasPrefix(string(md), "```go\npackage main\n") {
		t.Errorf("markdown = %q", md)
	}
	for _, want := range []string{"Imported packages: fmt", "Number of types: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_PythonMetrics(t *testing.T) {
	src := "import os\nfrom sys import path\n\n\ndef f(a):\n    if a:\n        return os.sep\n    return path\n"
	h := newHarness([]string{src}, []string{"", "n"})

	out := h.run(t)

	for _, want := range []string{
		"Imported packages: os, sys",
		"Cyclomatic complexity of the code: 2",
		"Number of classes: 0",
		"Unused functions: f",
		"No unused variables detected.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"c", CommandCopy},
		{" C\n", CommandCopy},
		{"s", CommandSave},
		{"p", CommandExport},
		{"", CommandDone},
		{"x", CommandDone},
		{"copy", CommandDone},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.in); got != tt.want {
			t.Errorf("ParseCommand(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"i", TargetImage},
		{"W", TargetWord},
		{" m ", TargetMarkdown},
		{"j", TargetJSON},
		{"pdf", TargetInvalid},
	}
	for _, tt := range tests {
		if got := ParseTarget(tt.in); got != tt.want {
			t.Errorf("ParseTarget(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLineTerminal(t *testing.T) {
	var out bytes.Buffer
	term := NewLineTerminal(strings.NewReader("a = 1\r\nb = 2"), &out)

	src, err := term.ReadSource("enter code")
	if err != nil {
		t.Fatalf("ReadSource() failed: %v", err)
	}
	if src != "a = 1\nb = 2\n" {
		t.Errorf("ReadSource() = %q", src)
	}
	if _, err := term.ReadSource("again"); !errors.Is(err, io.EOF) {
		t.Errorf("ReadSource() on closed input = %v, want io.EOF", err)
	}
	if _, err := term.Ask("continue?"); !errors.Is(err, io.EOF) {
		t.Errorf("Ask() on closed input = %v, want io.EOF", err)
	}
	if !strings.Contains(out.String(), "enter code") {
		t.Errorf("prompt not written: %q", out.String())
	}

	// Clear writes nothing when out is not a terminal.
	out.Reset()
	term.Clear()
	if out.Len() != 0 {
		t.Errorf("Clear() wrote %q to a non-terminal", out.String())
	}
}

func TestLineTerminal_Ask(t *testing.T) {
	var out bytes.Buffer
	term := NewLineTerminal(strings.NewReader("y\nlast"), &out)
	for _, want := range []string{"y", "last"} {
		got, err := term.Ask("?")
		if err != nil {
			t.Fatalf("Ask() failed: %v", err)
		}
		if got != want {
			t.Errorf("Ask() = %q, want %q", got, want)
		}
	}
}
