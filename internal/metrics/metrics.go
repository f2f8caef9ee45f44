// Package metrics computes static metrics for Python (and Go) source
// snippets: line and character counts, imported modules, cyclomatic
// complexity, unused names, declaration counts, and a line diff
// between the original and formatted text.
//
// Every metric is an independent pure function of its input. Collect
// runs them all and keeps each failure next to its metric, so one
// unparseable path never hides the others.
package metrics

import (
	"time"
	"unicode/utf8"

	"github.com/unbound-force/kempt/internal/loader"
)

// Bundle holds every metric computed for one formatting round.
type Bundle struct {
	// Language is the language the snippet was analyzed as.
	Language loader.Language `json:"language"`

	// LinesBefore is the line count of the original source.
	LinesBefore int `json:"lines_before"`

	// LinesAfter is the line count of the formatted source.
	LinesAfter int `json:"lines_after"`

	// Chars is the character count of the original source.
	Chars int `json:"chars"`

	// Duration is how long formatting took.
	Duration time.Duration `json:"-"`

	// Dependencies lists imported modules or package paths, sorted.
	Dependencies []string `json:"dependencies"`

	// DependenciesErr is set when the source could not be parsed.
	DependenciesErr error `json:"-"`

	// Complexity is nil when ComplexityErr is set.
	Complexity *ComplexityResult `json:"complexity,omitempty"`

	// ComplexityErr is ErrNoBlocks or a parse error.
	ComplexityErr error `json:"-"`

	// Unused lists declared names that are never read.
	Unused UnusedNames `json:"unused"`

	// Report counts declarations.
	Report DetailedReport `json:"report"`

	// SymbolsErr is set when the declaration scan failed; Unused and
	// Report are zero in that case.
	SymbolsErr error `json:"-"`

	// Diff summarizes the line changes made by formatting.
	Diff DiffStats `json:"diff"`
}

// Collect computes all metrics for src and its formatted form using
// the analyzer for lang.
func Collect(lang loader.Language, src, formatted string, duration time.Duration) *Bundle {
	a := AnalyzerFor(lang)
	if lang != loader.Go {
		lang = loader.Python
	}
	b := &Bundle{
		Language:    lang,
		LinesBefore: CountLines(src),
		LinesAfter:  CountLines(formatted),
		Chars:       CountChars(src),
		Duration:    duration,
		Diff:        Diff(src, formatted),
	}

	b.Dependencies, b.DependenciesErr = a.Dependencies(src)

	if c, err := a.Complexity(src); err != nil {
		b.ComplexityErr = err
	} else {
		b.Complexity = &c
	}

	if sym, err := a.Scan(src); err != nil {
		b.SymbolsErr = err
	} else {
		b.Unused = Unused(sym)
		b.Report = Report(sym)
	}

	return b
}

// CountLines returns the number of lines in s. A final line
// terminator does not start a new line, so "a\n" and "a" both count
// as one line and "" counts as zero. "\n", "\r\n" and "\r" are all
// line terminators.
func CountLines(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			n++
		case '\r':
			n++
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		}
	}
	if len(s) > 0 && s[len(s)-1] != '\n' && s[len(s)-1] != '\r' {
		n++
	}
	return n
}

// CountChars returns the number of characters (runes) in s.
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}

// Timed runs fn and returns its results along with the time it took.
func Timed[T any](fn func() (T, error)) (T, time.Duration, error) {
	start := time.Now()
	v, err := fn()
	return v, time.Since(start), err
}
