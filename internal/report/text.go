package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/unbound-force/kempt/internal/loader"
	"github.com/unbound-force/kempt/internal/metrics"
)

// Input is everything the presenter shows for one formatting round.
type Input struct {
	// Original is the source as typed.
	Original string

	// Formatted is the formatter's output.
	Formatted string

	// Metrics is the bundle computed for Original and Formatted.
	Metrics *metrics.Bundle
}

// Options configures terminal rendering.
type Options struct {
	// Language selects the syntax highlighter. Empty means Python.
	Language loader.Language

	// Style is the chroma style name for code panels.
	Style string

	// LineNumbers adds a line number gutter to code panels.
	LineNumbers bool
}

// WriteSession renders the original and formatted code panels followed
// by every metric. Output uses lipgloss for color and formatting when
// the output is a TTY; degrades gracefully for pipes and CI.
func WriteSession(w io.Writer, in Input, opts Options) error {
	s := DefaultStyles()

	original, err := codePanel(in.Original, "Original Code", "", s.OriginalTitle, s.OriginalBorder, opts, s)
	if err != nil {
		return err
	}
	formatted, err := codePanel(in.Formatted, "Formatted Code", "Press 'c' to copy code", s.FormattedTitle, s.FormattedBorder, opts, s)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, original)
	fmt.Fprintln(w, formatted)

	if in.Metrics != nil {
		writeMetrics(w, in.Metrics, s)
	}
	return nil
}

func codePanel(code, title, subtitle string, titleStyle, border lipgloss.Style, opts Options, s Styles) (string, error) {
	body, err := Highlight(code, opts.Language, opts.Style)
	if err != nil {
		return "", err
	}
	if opts.LineNumbers {
		body = numberLines(body, metrics.CountLines(code), s)
	}
	parts := []string{titleStyle.Render(title), border.Render(body)}
	if subtitle != "" {
		parts = append(parts, s.Muted.Render(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...), nil
}

func writeMetrics(w io.Writer, b *metrics.Bundle, s Styles) {
	labeled := func(label string, value any) {
		fmt.Fprintf(w, "%s %s\n", s.Label.Render(label), s.Value.Render(fmt.Sprint(value)))
	}

	labeled("Number of lines before:", b.LinesBefore)
	labeled("Number of lines after:", b.LinesAfter)
	labeled("Number of characters in code:", b.Chars)
	labeled("Time taken to format code:", fmt.Sprintf("%.2f seconds", b.Duration.Seconds()))
	if b.Diff.Unchanged() {
		labeled("Changes:", "none")
	} else {
		labeled("Changes:", fmt.Sprintf("%d added, %d removed, %d changed line(s)",
			b.Diff.Added, b.Diff.Removed, b.Diff.Changed))
	}

	fmt.Fprintln(w)
	writeDependencies(w, b, s)

	fmt.Fprintln(w)
	writeComplexity(w, b, s)

	fmt.Fprintln(w)
	if b.SymbolsErr != nil {
		fmt.Fprintln(w, s.Failure.Render(fmt.Sprintf("Error scanning declarations: %v", b.SymbolsErr)))
		return
	}
	writeUnused(w, b.Language, b.Unused, s)

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Header.Render("Detailed Code Report:"))
	labeled(fmt.Sprintf("Number of %s:", classLabel(b.Language)), b.Report.Classes)
	labeled("Number of functions:", b.Report.Functions)
	labeled("Number of variables:", b.Report.Variables)
}

func writeDependencies(w io.Writer, b *metrics.Bundle, s Styles) {
	fmt.Fprintln(w, s.Header.Render("Source code dependencies:"))
	switch {
	case b.DependenciesErr != nil:
		fmt.Fprintln(w, s.Failure.Render(fmt.Sprintf("Error analyzing dependencies: %v", b.DependenciesErr)))
	case len(b.Dependencies) == 0:
		fmt.Fprintln(w, s.Failure.Render("No dependencies found."))
	default:
		fmt.Fprintf(w, "%s %s\n", s.Success.Render("Imported packages:"), strings.Join(b.Dependencies, ", "))
	}
}

func writeComplexity(w io.Writer, b *metrics.Bundle, s Styles) {
	if b.ComplexityErr != nil {
		if errors.Is(b.ComplexityErr, metrics.ErrNoBlocks) {
			fmt.Fprintln(w, s.Warning.Render("Cyclomatic complexity: no functions found to measure."))
			return
		}
		fmt.Fprintln(w, s.Failure.Render(fmt.Sprintf("Error calculating complexity: %v", b.ComplexityErr)))
		return
	}

	c := b.Complexity
	fmt.Fprintf(w, "%s %s\n", s.Header.Render("Cyclomatic complexity of the code:"), s.Value.Render(fmt.Sprint(c.Max)))

	rows := make([][]string, 0, len(c.Blocks))
	for _, blk := range c.Blocks {
		rows = append(rows, []string{
			fmt.Sprintf("%d", blk.Complexity),
			blk.Name,
			fmt.Sprintf("%d", blk.Line),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.TableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Headers("COMPLEXITY", "FUNCTION", "LINE").
		Rows(rows...)
	fmt.Fprintln(w, t)
}

// classLabel names the class-like declarations of lang.
func classLabel(lang loader.Language) string {
	if lang == loader.Go {
		return "types"
	}
	return "classes"
}

func writeUnused(w io.Writer, lang loader.Language, u metrics.UnusedNames, s Styles) {
	fmt.Fprintln(w, s.Header.Render("Unused code segments:"))
	type category struct {
		label string
		names []string
	}
	cats := []category{
		{"variables", u.Variables},
		{"functions", u.Functions},
		{classLabel(lang), u.Classes},
	}
	// Python has no constant declarations.
	if lang == loader.Go {
		cats = append(cats, category{"constants", u.Constants})
	}
	for _, cat := range cats {
		if len(cat.names) == 0 {
			fmt.Fprintln(w, s.Success.Render(fmt.Sprintf("No unused %s detected.", cat.label)))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", s.Failure.Render(fmt.Sprintf("Unused %s:", cat.label)), strings.Join(cat.names, ", "))
	}
}

// WriteFormatError reports a formatting failure.
func WriteFormatError(w io.Writer, err error) {
	fmt.Fprintln(w, DefaultStyles().Failure.Render(fmt.Sprintf("Error: %v", err)))
}

// WriteSuccess prints a status line for a completed action.
func WriteSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, DefaultStyles().Success.Render("✔ "+msg))
}

// WriteFailure prints a status line for a failed action.
func WriteFailure(w io.Writer, msg string) {
	fmt.Fprintln(w, DefaultStyles().Failure.Render(msg))
}

// WriteInfo prints a secondary status line.
func WriteInfo(w io.Writer, msg string) {
	fmt.Fprintln(w, DefaultStyles().Warning.Render(msg))
}

// Prompt returns q styled as an interactive question.
func Prompt(q string) string {
	return DefaultStyles().Prompt.Render(q)
}
