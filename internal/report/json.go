// Package report renders formatting results: highlighted code panels
// and metrics for the terminal, and a JSON metrics report.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/kempt/internal/loader"
	"github.com/unbound-force/kempt/internal/metrics"
)

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version         string  `json:"version"`
	DurationSeconds float64 `json:"duration_seconds"`
	*metrics.Bundle

	// Errors maps a metric name to the reason it could not be
	// computed. Omitted when every metric succeeded.
	Errors map[string]string `json:"errors,omitempty"`
}

// NewJSONReport builds the JSON view of b.
func NewJSONReport(b *metrics.Bundle, version string) JSONReport {
	if b == nil {
		b = &metrics.Bundle{}
	}
	if b.Dependencies == nil || b.Language == "" {
		cp := *b
		if cp.Dependencies == nil {
			cp.Dependencies = []string{}
		}
		if cp.Language == "" {
			cp.Language = loader.DefaultLanguage
		}
		b = &cp
	}

	errs := make(map[string]string)
	if b.DependenciesErr != nil {
		errs["dependencies"] = b.DependenciesErr.Error()
	}
	if b.ComplexityErr != nil {
		errs["complexity"] = b.ComplexityErr.Error()
	}
	if b.SymbolsErr != nil {
		errs["symbols"] = b.SymbolsErr.Error()
	}
	if len(errs) == 0 {
		errs = nil
	}

	return JSONReport{
		Version:         version,
		DurationSeconds: b.Duration.Seconds(),
		Bundle:          b,
		Errors:          errs,
	}
}

// WriteJSON writes the metrics bundle as formatted JSON to the writer.
func WriteJSON(w io.Writer, b *metrics.Bundle, version string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONReport(b, version))
}
