package evidence

import (
	"testing"
)

const sampleDoc = `# Coastal Flood Narrative Analysis

## Background

This report analyzes stakeholder discourse around coastal flood
policy across three municipalities, covering planning documents,
hearing transcripts, and consultation responses gathered over two
budget cycles. The corpus was segmented by speaker and aligned to
the shared policy timeline before scoring.

## Method

Statements were coded by stance and actor category. Each coded
statement carries a confidence value and a pointer back to its
source paragraph for audit.

### Indicator matrix

| indicator | value | confidence |
|-----------|-------|------------|
| stance_alignment | 0.82 | high |
| actor_coverage | 0.74 | medium |
| frame_diversity | 0.61 | medium |

## Findings

- Stance polarization increases near budget deadlines
- Municipal actors dominate the later consultation rounds
- Frame diversity narrows after the second hearing
`

func TestAnalyzeDocument(t *testing.T) {
	m := AnalyzeDocument([]byte(sampleDoc))

	if m.Sections != 5 {
		t.Errorf("sections = %d, want 5", m.Sections)
	}
	if m.MaxHeadingDepth != 3 {
		t.Errorf("max heading depth = %d, want 3", m.MaxHeadingDepth)
	}
	if m.TableRows != 5 {
		t.Errorf("table rows = %d, want 5", m.TableRows)
	}
	if m.ListItems != 3 {
		t.Errorf("list items = %d, want 3", m.ListItems)
	}
	if m.Words == 0 || m.EstimatedTokens == 0 {
		t.Error("word/token counts are zero")
	}
	if !m.HasIndicatorMatrix() {
		t.Error("indicator matrix not detected")
	}
}

func TestUnitQualityBounds(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty document", ""},
		{"single line", "hello"},
		{"structured sample", sampleDoc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, components := AnalyzeDocument([]byte(tt.content)).UnitQuality()
			if q < 0 || q > 1 {
				t.Errorf("unit quality %v outside [0,1]", q)
			}
			if len(components) != 4 {
				t.Errorf("got %d components, want 4", len(components))
			}
			for name, v := range components {
				if v < 0 || v > 1 {
					t.Errorf("component %s = %v outside [0,1]", name, v)
				}
			}
		})
	}
}

func TestUnitQualityRewardsStructure(t *testing.T) {
	flat, _ := AnalyzeDocument([]byte("just a handful of words")).UnitQuality()
	structured, _ := AnalyzeDocument([]byte(sampleDoc)).UnitQuality()
	if structured <= flat {
		t.Errorf("structured document scored %v, flat text %v", structured, flat)
	}
}

func TestHasIndicatorMatrixNeedsTwoRows(t *testing.T) {
	m := AnalyzeDocument([]byte("| lonely | header |\n\nno data rows here"))
	if m.HasIndicatorMatrix() {
		t.Error("single table line counted as an indicator matrix")
	}
}
