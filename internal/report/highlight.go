package report

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/unbound-force/kempt/internal/loader"
)

// Highlight returns code with ANSI syntax highlighting for lang using
// the named chroma style. An empty lang means Python. Unknown styles
// fall back to chroma's default.
func Highlight(code string, lang loader.Language, style string) (string, error) {
	if lang == "" {
		lang = loader.DefaultLanguage
	}
	lexer := lexers.Get(string(lang))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising code: %w", err)
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, styles.Get(style), it); err != nil {
		return "", fmt.Errorf("highlighting code: %w", err)
	}
	return sb.String(), nil
}

// numberLines prefixes the first n lines of highlighted code with a
// right-aligned, styled line number. Anything after line n (trailing
// escape sequences) is folded into the last line.
func numberLines(highlighted string, n int, s Styles) string {
	if n <= 0 {
		return highlighted
	}
	lines := strings.Split(highlighted, "\n")
	if len(lines) > n {
		lines[n-1] += strings.Join(lines[n:], "")
		lines = lines[:n]
	}
	width := len(fmt.Sprint(n))
	for i, line := range lines {
		lines[i] = s.LineNumber.Render(fmt.Sprintf("%*d", width, i+1)) + "  " + line
	}
	return strings.Join(lines, "\n")
}
