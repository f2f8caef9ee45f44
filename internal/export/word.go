package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

const (
	headingSize = "32" // half-points
	codeSize    = "20"
	codeFont    = "Courier New"
)

// Word writes a Word document containing a "Code" heading followed by
// the code in a monospace paragraph. ".docx" is appended to path if
// missing. It returns the absolute path written.
func Word(path, code string) (string, error) {
	path = withExt(path, ".docx")

	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText("Code").Bold().Size(headingSize)

	body := doc.AddParagraph()
	body.AddText(strings.TrimRight(code, "\n")).
		Font(codeFont, codeFont, codeFont, "default").
		Size(codeSize)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("building word document: %w", err)
	}
	return writeFile(path, buf.Bytes())
}
