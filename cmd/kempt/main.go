package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/unbound-force/kempt/internal/config"
	"github.com/unbound-force/kempt/internal/export"
	"github.com/unbound-force/kempt/internal/format"
	"github.com/unbound-force/kempt/internal/loader"
	"github.com/unbound-force/kempt/internal/report"
	"github.com/unbound-force/kempt/internal/scaffold"
	"github.com/unbound-force/kempt/internal/session"
	"golang.org/x/term"
)

// Set by build flags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var p runParams

	root := &cobra.Command{
		Use:   "kempt",
		Short: "Kempt: format Python snippets and report on them",
		Long: `Kempt reads a Python snippet, formats it with autopep8, shows the
original and formatted code side by side with static metrics, and
offers to copy the result or export it to a file, an image, a Word or
Markdown document, or a JSON metrics report.

With --lang go, snippets are Go and formatted with gofmt rules.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.levelSet = cmd.Flags().Changed("level")
			p.stdin = os.Stdin
			p.stdout = os.Stdout
			p.logger = newLogger(cmd.ErrOrStderr(), p.verbose)
			return run(cmd.Context(), p)
		},
	}

	root.Flags().StringVar(&p.configPath, "config", "",
		"config file (default: "+config.DefaultFile+" if present)")
	root.Flags().StringVar(&p.logFile, "log-file", "",
		"append-only error log (default: code_formatter.log)")
	root.Flags().StringVar(&p.lang, "lang", "",
		"snippet language: python or go (default: python)")
	root.Flags().IntVar(&p.level, "level", int(format.DefaultLevel),
		"format level: 0 layout, 1 simplify, 2 aggressive")
	root.Flags().BoolVarP(&p.verbose, "verbose", "v", false,
		"log startup details to stderr")
	root.Flags().BoolVar(&p.noEditor, "no-editor", false,
		"read source line by line even on a terminal")

	root.AddCommand(newInitCmd())
	root.AddCommand(newSchemaCmd())
	return root
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.DefaultFile + " in the current directory",
		Long: `Write a commented ` + config.DefaultFile + ` holding the built-in
defaults into the current directory. An existing file is left
untouched unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite an existing config file")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the metrics report",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of the JSON metrics report export. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Schema)
			return err
		},
	}
}

// runParams holds the parsed flags for the root command.
type runParams struct {
	configPath string
	logFile    string
	lang       string
	level      int
	levelSet   bool
	noEditor   bool
	verbose    bool
	stdin      io.Reader
	stdout     io.Writer

	// logger receives startup and configuration diagnostics. Nil
	// discards them.
	logger *charmlog.Logger

	// python replaces autopep8 when set.
	python format.Runner
}

// run is the extracted, testable body of the root command.
func run(ctx context.Context, p runParams) error {
	logger := p.logger
	if logger == nil {
		logger = newLogger(io.Discard, false)
	}

	cfg, err := loadConfig(p)
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", "config", configSource(p.configPath))
	lang, err := cfg.Language()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	sessionLog := newSessionLogger(logFile)

	maxBytes, err := cfg.MaxSourceBytes()
	if err != nil {
		return err
	}

	python := p.python
	if python == nil {
		python = &format.Autopep8{Path: cfg.Format.Autopep8, Timeout: cfg.Format.Timeout}
		if lang == loader.Python {
			checkAutopep8(logger, cfg.Format.Autopep8)
		}
	}

	logger.Info("starting session",
		"language", lang,
		"level", format.Level(cfg.Format.Level),
		"log", cfg.Log.File,
		"max_source", humanizeLimit(maxBytes))

	s := &session.Session{
		Term: newTerminal(p.stdin, p.stdout, cfg.Editor.Enabled),
		Out:  p.stdout,
		Formatter: &format.Formatter{
			Language: lang,
			Level:    format.Level(cfg.Format.Level),
			Python:   python,
			Logger:   sessionLog,
		},
		Clipboard: &export.Clipboard{},
		Image: &export.Image{
			Language: lang,
			Style:    cfg.Highlight.ImageStyle,
			Timeout:  cfg.Export.ImageTimeout,
		},
		Logger: sessionLog,
		Render: report.Options{
			Language:    lang,
			Style:       cfg.Highlight.TerminalStyle,
			LineNumbers: cfg.Highlight.LineNumbers,
		},
		MaxSourceBytes: maxBytes,
		Version:        version,
	}
	if err := s.Run(ctx); err != nil {
		return err
	}
	logger.Info("session ended")
	return nil
}

// checkAutopep8 warns when the Python formatter cannot be found. The
// session still starts; every format attempt will report the failure.
func checkAutopep8(logger *charmlog.Logger, path string) {
	if _, err := exec.LookPath(path); err != nil {
		logger.Warn("autopep8 not found, Python snippets cannot be formatted",
			"autopep8", path, "err", err)
	}
}

// configSource names the file a config came from, or "defaults" when
// the default file is absent.
func configSource(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(config.DefaultFile); err == nil {
		return config.DefaultFile
	}
	return "defaults"
}

func humanizeLimit(n uint64) string {
	if n == 0 {
		return "none"
	}
	return humanize.IBytes(n)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(p runParams) (*config.Config, error) {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return nil, err
	}
	if p.lang != "" {
		cfg.Format.Language = p.lang
	}
	if p.levelSet {
		cfg.Format.Level = p.level
	}
	if p.logFile != "" {
		cfg.Log.File = p.logFile
	}
	if p.noEditor {
		cfg.Editor.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// newLogger returns the stderr diagnostics logger. Only warnings and
// errors are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *charmlog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.InfoLevel
	}
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: false,
		Level:           level,
	})
}

// newSessionLogger returns the timestamped error log.
func newSessionLogger(w io.Writer) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           charmlog.ErrorLevel,
	})
}

// newTerminal picks the editor when stdin is an interactive terminal.
func newTerminal(in io.Reader, out io.Writer, editor bool) session.Terminal {
	lines := session.NewLineTerminal(in, out)
	if editor && isTerminal(in) {
		return &editorTerminal{LineTerminal: lines, in: in, out: out}
	}
	return lines
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
