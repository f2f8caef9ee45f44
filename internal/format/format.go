// Package format normalizes source snippets.
//
// Python snippets are handed to autopep8; Go snippets are printed with
// go/printer. Three levels select how aggressive the rewrite may be:
//
//	               Python                      Go
//	LevelLayout     autopep8                    canonical gofmt layout
//	LevelSimplify   autopep8 --aggressive       gofmt -s and sorted imports
//	LevelAggressive autopep8 --aggressive x2    goimports (add missing, drop unused)
//
// Formatted output always ends in exactly one newline.
package format

import (
	"context"
	"errors"
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/unbound-force/kempt/internal/loader"
)

// Level selects how far the formatter may rewrite a snippet.
type Level int

// Formatting levels.
const (
	LevelLayout Level = iota
	LevelSimplify
	LevelAggressive
)

// DefaultLevel is the level used when none is configured.
const DefaultLevel = LevelAggressive

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelLayout:
		return "layout"
	case LevelSimplify:
		return "simplify"
	case LevelAggressive:
		return "aggressive"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l >= LevelLayout && l <= LevelAggressive
}

// Formatter formats snippets of one language at a fixed level.
type Formatter struct {
	// Language selects the formatter. Empty means loader.DefaultLanguage.
	Language loader.Language

	// Level is the rewrite policy. Values outside the known range
	// are clamped to DefaultLevel.
	Level Level

	// Python runs the external Python formatter. Nil means autopep8
	// from PATH.
	Python Runner

	// Logger receives an error line for every failed format.
	// May be nil.
	Logger *charmlog.Logger
}

// New returns a Formatter for lang at the given level.
func New(lang loader.Language, level Level, logger *charmlog.Logger) *Formatter {
	return &Formatter{Language: lang, Level: level, Logger: logger}
}

// Format returns the formatted snippet. The error wraps the parse,
// printer or external formatter failure; it is also written to the
// formatter's logger.
func (f *Formatter) Format(ctx context.Context, src string) (string, error) {
	var (
		out string
		err error
	)
	if f.language() == loader.Go {
		out, err = f.formatGo(src)
	} else {
		out, err = f.formatPython(ctx, src)
	}
	if err != nil {
		if f.Logger != nil {
			f.Logger.Error("error formatting code", "language", f.language(), "level", f.level(), "err", err)
		}
		return "", fmt.Errorf("formatting code: %w", err)
	}
	return strings.TrimRight(out, " \t\r\n") + "\n", nil
}

func (f *Formatter) language() loader.Language {
	if f.Language == "" {
		return loader.DefaultLanguage
	}
	return f.Language
}

func (f *Formatter) level() Level {
	if !f.Level.Valid() {
		return DefaultLevel
	}
	return f.Level
}

func (f *Formatter) formatPython(ctx context.Context, src string) (string, error) {
	// autopep8 leaves code it cannot tokenize untouched; reject it here
	// so a broken snippet never looks formatted.
	if _, err := loader.Parse(src); err != nil {
		return "", err
	}

	r := f.Python
	if r == nil {
		r = &Autopep8{}
	}
	out, err := r.Run(ctx, src, f.level())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New("formatter returned no code")
	}
	return out, nil
}
