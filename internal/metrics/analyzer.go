package metrics

import "github.com/unbound-force/kempt/internal/loader"

// Analyzer computes the syntax-tree metrics of one language.
type Analyzer interface {
	Dependencies(src string) ([]string, error)
	Complexity(src string) (ComplexityResult, error)
	Scan(src string) (*Symbols, error)
}

// AnalyzerFor returns the analyzer for lang. Unknown languages get
// the Python analyzer.
func AnalyzerFor(lang loader.Language) Analyzer {
	if lang == loader.Go {
		return goAnalyzer{}
	}
	return pythonAnalyzer{}
}

type pythonAnalyzer struct{}

func (pythonAnalyzer) Dependencies(src string) ([]string, error)      { return Dependencies(src) }
func (pythonAnalyzer) Complexity(src string) (ComplexityResult, error) { return Complexity(src) }
func (pythonAnalyzer) Scan(src string) (*Symbols, error)               { return Scan(src) }

type goAnalyzer struct{}

func (goAnalyzer) Dependencies(src string) ([]string, error)      { return GoDependencies(src) }
func (goAnalyzer) Complexity(src string) (ComplexityResult, error) { return GoComplexity(src) }
func (goAnalyzer) Scan(src string) (*Symbols, error)               { return GoScan(src) }
