package evidence

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DocumentMetrics are structural measurements of an analysis document,
// used to derive a unit-quality scalar when the caller supplies a
// document instead of a precomputed value.
type DocumentMetrics struct {
	Sections        int
	MaxHeadingDepth int
	Paragraphs      int
	ListItems       int
	TableRows       int
	Words           int
	EstimatedTokens int
}

// AnalyzeDocument parses a markdown analysis document and computes its
// structural metrics.
func AnalyzeDocument(content []byte) *DocumentMetrics {
	m := &DocumentMetrics{}

	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			m.Sections++
			if node.Level > m.MaxHeadingDepth {
				m.MaxHeadingDepth = node.Level
			}
		case *ast.Paragraph:
			m.Paragraphs++
		case *ast.ListItem:
			m.ListItems++
		}
		return ast.WalkContinue, nil
	})

	// Pipe tables are not part of the core parser; count them by line shape.
	for _, line := range bytes.Split(content, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 2 && trimmed[0] == '|' && trimmed[len(trimmed)-1] == '|' {
			m.TableRows++
		}
	}

	m.Words = len(strings.Fields(string(content)))
	m.EstimatedTokens = len(content) / 4

	return m
}

// AnalyzeDocumentFile reads and analyzes a document from disk.
func AnalyzeDocumentFile(path string) (*DocumentMetrics, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return AnalyzeDocument(content), nil
}

// UnitQuality derives a unit-quality scalar in [0,1] from the metrics.
// Four equally weighted components: sectioning, heading depth, length
// adequacy, and indicator-table presence.
func (m *DocumentMetrics) UnitQuality() (float64, map[string]float64) {
	components := map[string]float64{
		"sectioning":     ratio(m.Sections, 5),
		"heading_depth":  ratio(m.MaxHeadingDepth, 3),
		"length":         ratio(m.Words, 400),
		"indicator_data": ratio(m.TableRows, 4),
	}

	var sum float64
	for _, v := range components {
		sum += v
	}
	return sum / float64(len(components)), components
}

// HasIndicatorMatrix reports whether the document contains tabular
// indicator data (feeds the unit layer's indicator-matrix gate).
func (m *DocumentMetrics) HasIndicatorMatrix() bool {
	return m.TableRows >= 2
}

func ratio(n, target int) float64 {
	if target <= 0 || n >= target {
		return 1.0
	}
	if n <= 0 {
		return 0.0
	}
	return float64(n) / float64(target)
}
