package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/unbound-force/kempt/internal/loader"
)

// ErrNoBlocks is returned when a snippet has no function, method or
// class to measure.
var ErrNoBlocks = errors.New("no functions found to measure")

// Block is the cyclomatic complexity of one function, method or class.
type Block struct {
	// Name is the block name. Methods and nested functions are
	// qualified with their enclosing block, e.g. "Shape.area".
	Name string `json:"name"`

	// Line is the line of the declaration in the original snippet.
	Line int `json:"line"`

	// Complexity is the cyclomatic complexity (>= 1).
	Complexity int `json:"complexity"`
}

// ComplexityResult summarizes the complexity of every block.
type ComplexityResult struct {
	// Max is the highest complexity across all blocks.
	Max int `json:"max"`

	// Average is the mean complexity across all blocks.
	Average float64 `json:"average"`

	// Blocks lists every block, most complex first.
	Blocks []Block `json:"blocks"`
}

// Complexity computes the McCabe complexity of every function, method
// and class in a Python snippet. A function scores one plus one per
// decision point in its body: if, elif, conditional expressions,
// loops and their else clauses, comprehension for and if clauses,
// except clauses, a try's else clause, non-wildcard match cases, and
// every extra operand of and/or. Nested definitions are blocks of
// their own. A class scores the mean of its methods, plus one when it
// has more than one, or one when it has none.
//
// Empty input and snippets without blocks return ErrNoBlocks;
// unparseable input returns the parse error.
func Complexity(src string) (ComplexityResult, error) {
	m, err := loader.Parse(src)
	if errors.Is(err, loader.ErrEmpty) {
		return ComplexityResult{}, ErrNoBlocks
	}
	if err != nil {
		return ComplexityResult{}, fmt.Errorf("calculating complexity: %w", err)
	}

	c := &pyComplexity{m: m}
	return summarize(c.blocks(m.Root, ""))
}

// summarize orders blocks most complex first and computes the
// aggregate values.
func summarize(blocks []Block) (ComplexityResult, error) {
	if len(blocks) == 0 {
		return ComplexityResult{}, ErrNoBlocks
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Complexity > blocks[j].Complexity
	})
	total := 0
	for _, b := range blocks {
		total += b.Complexity
	}
	return ComplexityResult{
		Max:     blocks[0].Complexity,
		Average: float64(total) / float64(len(blocks)),
		Blocks:  blocks,
	}, nil
}

type pyComplexity struct {
	m *loader.Module
}

// blocks returns every block defined under n, naming each with prefix.
func (c *pyComplexity) blocks(n *sitter.Node, prefix string) []Block {
	var out []Block
	for _, ch := range loader.NamedChildren(n) {
		switch ch.Type() {
		case "function_definition":
			name := prefix + c.m.Text(ch.ChildByFieldName("name"))
			body := ch.ChildByFieldName("body")
			out = append(out, Block{
				Name:       name,
				Line:       loader.Line(ch),
				Complexity: 1 + c.decisions(body),
			})
			out = append(out, c.blocks(body, name+".")...)

		case "class_definition":
			name := prefix + c.m.Text(ch.ChildByFieldName("name"))
			inner := c.blocks(ch.ChildByFieldName("body"), name+".")
			out = append(out, Block{
				Name:       name,
				Line:       loader.Line(ch),
				Complexity: classComplexity(inner, name+"."),
			})
			out = append(out, inner...)

		default:
			out = append(out, c.blocks(ch, prefix)...)
		}
	}
	return out
}

// classComplexity scores a class from its direct methods.
func classComplexity(inner []Block, prefix string) int {
	n, total := 0, 0
	for _, b := range inner {
		if strings.Contains(strings.TrimPrefix(b.Name, prefix), ".") {
			continue
		}
		n++
		total += b.Complexity
	}
	if n == 0 {
		return 1
	}
	score := total / n
	if n > 1 {
		score++
	}
	return score
}

// decisions counts the decision points under n, stopping at nested
// definitions.
func (c *pyComplexity) decisions(n *sitter.Node) int {
	total := 0
	for _, ch := range loader.NamedChildren(n) {
		switch ch.Type() {
		case "function_definition", "class_definition", "decorated_definition":
			continue
		}
		total += c.weight(ch, n) + c.decisions(ch)
	}
	return total
}

func (c *pyComplexity) weight(n, parent *sitter.Node) int {
	switch n.Type() {
	case "if_statement", "elif_clause", "conditional_expression",
		"for_statement", "while_statement", "for_in_clause", "if_clause",
		"except_clause", "except_group_clause", "boolean_operator":
		return 1
	case "else_clause":
		switch parent.Type() {
		case "for_statement", "while_statement", "try_statement":
			return 1
		}
	case "case_clause":
		if p := n.NamedChild(0); p != nil && strings.TrimSpace(c.m.Text(p)) == "_" {
			return 0
		}
		return 1
	}
	return 0
}
