package export

import (
	"bytes"

	"github.com/unbound-force/kempt/internal/metrics"
	"github.com/unbound-force/kempt/internal/report"
)

// JSONReport writes the metrics bundle as a JSON report. ".json" is
// appended to path if missing. It returns the absolute path written.
func JSONReport(path string, b *metrics.Bundle, version string) (string, error) {
	path = withExt(path, ".json")
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, b, version); err != nil {
		return "", err
	}
	return writeFile(path, buf.Bytes())
}
