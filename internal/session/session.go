// Package session runs the interactive format-and-export loop.
//
// Each round reads a snippet, formats it, shows both versions with
// their metrics, offers exports, and asks whether to go again. Every
// failure inside a round is logged and printed; only closed input ends
// the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/unbound-force/kempt/internal/export"
	"github.com/unbound-force/kempt/internal/format"
	"github.com/unbound-force/kempt/internal/loader"
	"github.com/unbound-force/kempt/internal/metrics"
	"github.com/unbound-force/kempt/internal/report"
)

// State is a position in the session state machine.
type State int

// Session states.
const (
	AwaitingInput State = iota
	Formatting
	FormatOK
	FormatFailed
	AwaitingContinue
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting-input"
	case Formatting:
		return "formatting"
	case FormatOK:
		return "format-ok"
	case FormatFailed:
		return "format-failed"
	case AwaitingContinue:
		return "awaiting-continue"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Prompts shown to the user.
const (
	PromptSource   = "📝 Enter your code (press Ctrl+D to end):"
	PromptCommand  = "Press:\n'c' to copy the formatted code\n's' to save the code to a file\n'p' to export the code to an image or document\nOr any other key to skip"
	PromptTarget   = "Press:\n'i' to export the code to an image\n'w' to export the code to a Word file\n'm' to export the code to a Markdown document\n'j' to export the metrics to a JSON report"
	PromptFile     = "💾 Enter the filename to save the code:"
	PromptImage    = "💾 Enter the image filename (e.g., code.png):"
	PromptWord     = "💾 Enter the Word filename (e.g., code.docx):"
	PromptMarkdown = "💾 Enter the Markdown filename (e.g., code.md):"
	PromptJSON     = "💾 Enter the report filename (e.g., metrics.json):"
	PromptContinue = "❓ Do you want to continue with another code format? (y/n)"
)

// Session holds the collaborators for one interactive run.
type Session struct {
	// Term is the interactive surface.
	Term Terminal

	// Out receives rendered panels, metrics and status lines.
	Out io.Writer

	// Formatter formats each snippet.
	Formatter *format.Formatter

	// Clipboard handles the copy command.
	Clipboard *export.Clipboard

	// Image handles image export.
	Image *export.Image

	// Logger receives one error line for every failure. May be nil.
	Logger *charmlog.Logger

	// Render controls terminal highlighting. An empty Language
	// follows the formatter.
	Render report.Options

	// MaxSourceBytes rejects larger snippets. Zero means no limit.
	MaxSourceBytes uint64

	// Version is stamped into JSON reports.
	Version string

	state State
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) setState(st State) {
	if s.Logger != nil {
		s.Logger.Debug("session state", "from", s.state, "to", st)
	}
	s.state = st
}

// round is the data carried from formatting into the export sub-loop.
type round struct {
	formatted string
	bundle    *metrics.Bundle
}

// Run loops until the user declines to continue or input is closed.
// It returns an error only when the terminal itself fails.
func (s *Session) Run(ctx context.Context) error {
	for {
		s.setState(AwaitingInput)
		src, err := s.Term.ReadSource(report.Prompt(PromptSource))
		if errors.Is(err, io.EOF) {
			return s.terminate()
		}
		if err != nil {
			s.logError("unable to read source", "err", err)
			return err
		}

		if r, ok := s.formatRound(ctx, src); ok {
			if err := s.exportLoop(ctx, r); err != nil {
				return s.endOnEOF(err)
			}
		}

		again, err := s.askContinue()
		if err != nil {
			return s.endOnEOF(err)
		}
		if !again {
			return s.terminate()
		}
		s.Term.Clear()
	}
}

// formatRound formats src and presents the result. ok is false when
// formatting failed or the snippet was rejected.
func (s *Session) formatRound(ctx context.Context, src string) (round, bool) {
	if s.MaxSourceBytes > 0 && uint64(len(src)) > s.MaxSourceBytes {
		msg := fmt.Sprintf("Input is %s, larger than the %s limit.",
			humanize.IBytes(uint64(len(src))), humanize.IBytes(s.MaxSourceBytes))
		report.WriteFailure(s.Out, msg)
		s.logError("source too large", "bytes", len(src), "limit", s.MaxSourceBytes)
		s.setState(FormatFailed)
		return round{}, false
	}

	s.setState(Formatting)
	formatted, took, err := metrics.Timed(func() (string, error) {
		return s.Formatter.Format(ctx, src)
	})
	if err != nil {
		// The formatter logs its own failures.
		report.WriteFormatError(s.Out, err)
		s.setState(FormatFailed)
		return round{}, false
	}
	s.setState(FormatOK)

	s.Term.Clear()
	lang := s.language()
	b := metrics.Collect(lang, src, formatted, took)
	opts := s.Render
	if opts.Language == "" {
		opts.Language = lang
	}
	err = report.WriteSession(s.Out, report.Input{
		Original:  src,
		Formatted: formatted,
		Metrics:   b,
	}, opts)
	if err != nil {
		report.WriteFailure(s.Out, fmt.Sprintf("Unable to display code: %v", err))
		s.logError("unable to display code", "err", err)
	}
	return round{formatted: formatted, bundle: b}, true
}

// exportLoop offers export commands until the user picks anything
// other than a known command.
func (s *Session) exportLoop(ctx context.Context, r round) error {
	for {
		answer, err := s.Term.Ask(report.Prompt(PromptCommand))
		if err != nil {
			return err
		}

		switch cmd := ParseCommand(answer); cmd {
		case CommandCopy:
			s.copy(r.formatted)
		case CommandSave:
			name, err := s.Term.Ask(report.Prompt(PromptFile))
			if err != nil {
				return err
			}
			s.save(name, r.formatted)
		case CommandExport:
			if err := s.exportTarget(ctx, r); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *Session) exportTarget(ctx context.Context, r round) error {
	answer, err := s.Term.Ask(report.Prompt(PromptTarget))
	if err != nil {
		return err
	}

	target := ParseTarget(answer)
	var prompt string
	switch target {
	case TargetImage:
		prompt = PromptImage
	case TargetWord:
		prompt = PromptWord
	case TargetMarkdown:
		prompt = PromptMarkdown
	case TargetJSON:
		prompt = PromptJSON
	default:
		report.WriteFailure(s.Out, "Invalid choice.")
		s.logError("invalid file format choice", "choice", normalize(answer))
		return nil
	}

	name, err := s.Term.Ask(report.Prompt(prompt))
	if err != nil {
		return err
	}

	name = normalizeName(name)
	var path string
	switch target {
	case TargetImage:
		path, err = s.image().Export(ctx, name, r.formatted)
	case TargetWord:
		path, err = export.Word(name, r.formatted)
	case TargetMarkdown:
		path, err = export.Markdown(name, s.language(), r.formatted)
	case TargetJSON:
		path, err = export.JSONReport(name, r.bundle, s.Version)
	}
	if err != nil {
		report.WriteFailure(s.Out, fmt.Sprintf("Unable to export to %s: %v", target, err))
		s.logError("unable to export", "target", target, "file", name, "err", err)
		return nil
	}
	report.WriteSuccess(s.Out, fmt.Sprintf("Code has been exported to %s file %s", target, path))
	s.writeSize(path)
	return nil
}

func (s *Session) copy(code string) {
	c := s.Clipboard
	if c == nil {
		c = &export.Clipboard{}
	}
	if err := c.Copy(code); err != nil {
		report.WriteFailure(s.Out, fmt.Sprintf("Unable to copy code: %v", err))
		s.logError("unable to copy code to clipboard", "err", err)
		return
	}
	report.WriteSuccess(s.Out, "Code has been copied to clipboard.")
}

func (s *Session) save(name, code string) {
	name = normalizeName(name)
	path, err := export.File(name, code)
	if err != nil {
		report.WriteFailure(s.Out, fmt.Sprintf("Unable to save code: %v", err))
		s.logError("unable to save code to file", "file", name, "err", err)
		return
	}
	report.WriteSuccess(s.Out, fmt.Sprintf("Code has been saved to file %s", name))
	report.WriteInfo(s.Out, fmt.Sprintf("File path: %s", path))
	s.writeSize(path)
}

func (s *Session) writeSize(path string) {
	if info, err := os.Stat(path); err == nil {
		report.WriteInfo(s.Out, fmt.Sprintf("Size: %s", humanize.Bytes(uint64(info.Size()))))
	}
}

// askContinue asks until the answer is y or n.
func (s *Session) askContinue() (bool, error) {
	s.setState(AwaitingContinue)
	for {
		answer, err := s.Term.Ask(report.Prompt(PromptContinue))
		if err != nil {
			return false, err
		}
		switch normalize(answer) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		default:
			report.WriteFailure(s.Out, "❌ Invalid selection. Please select 'y' or 'n'.")
			s.logError("invalid selection", "answer", normalize(answer))
		}
	}
}

// language is the language snippets are formatted and analyzed as.
func (s *Session) language() loader.Language {
	if s.Formatter != nil && s.Formatter.Language != "" {
		return s.Formatter.Language
	}
	return loader.DefaultLanguage
}

func (s *Session) image() *export.Image {
	var im export.Image
	if s.Image != nil {
		im = *s.Image
	}
	if im.Language == "" {
		im.Language = s.language()
	}
	return &im
}

func (s *Session) terminate() error {
	s.setState(Terminated)
	report.WriteFailure(s.Out, "👋 Goodbye")
	return nil
}

// endOnEOF terminates cleanly on closed input and passes other
// terminal failures through.
func (s *Session) endOnEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return s.terminate()
	}
	s.logError("terminal failure", "err", err)
	return err
}

func (s *Session) logError(msg string, keyvals ...interface{}) {
	if s.Logger != nil {
		s.Logger.Error(msg, keyvals...)
	}
}

// normalizeName trims a file name; case is kept.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
