package export

import (
	"strings"

	"github.com/unbound-force/kempt/internal/loader"
)

// Markdown writes code inside a fenced block tagged with lang (Python
// when empty). ".md" is appended to path if missing, compared
// case-insensitively. It returns the absolute path written.
func Markdown(path string, lang loader.Language, code string) (string, error) {
	path = withExt(path, ".md")
	return writeFile(path, []byte(fence(lang, code)))
}

// fence wraps code in a backtick fence longer than any backtick run
// inside it, so the block always holds code verbatim.
func fence(lang loader.Language, code string) string {
	if lang == "" {
		lang = loader.DefaultLanguage
	}
	ticks := strings.Repeat("`", max(3, longestRun(code, '`')+1))

	var sb strings.Builder
	sb.WriteString(ticks)
	sb.WriteString(string(lang))
	sb.WriteByte('\n')
	sb.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(ticks)
	sb.WriteByte('\n')
	return sb.String()
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
