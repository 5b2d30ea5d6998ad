package layers

import (
	"testing"
)

var testContextualRubric = ContextualRubric{
	Primary:      1.0,
	Secondary:    0.7,
	Compatible:   0.3,
	Undeclared:   0.1,
	Incompatible: 0.0,
}

func TestEvaluateContextual(t *testing.T) {
	decl := CompatDecl{
		Question: map[string]CompatTier{
			"Q1": TierPrimary,
			"Q2": TierSecondary,
			"Q3": TierCompatible,
			"Q4": TierIncompatible,
		},
		Dimension: map[string]CompatTier{"DIM01": TierPrimary},
		Policy:    map[string]CompatTier{"PA01": TierSecondary},
	}

	tests := []struct {
		name  string
		layer Layer
		value string
		want  float64
	}{
		{"primary question", Question, "Q1", 1.0},
		{"secondary question", Question, "Q2", 0.7},
		{"compatible question", Question, "Q3", 0.3},
		{"incompatible question", Question, "Q4", 0.0},
		{"undeclared question pays the penalty tier", Question, "Q9", 0.1},
		{"primary dimension", Dimension, "DIM01", 1.0},
		{"undeclared dimension", Dimension, "DIM09", 0.1},
		{"secondary policy", Policy, "PA01", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := EvaluateContextual(tt.layer, tt.value, decl, testContextualRubric)
			if err != nil {
				t.Fatal(err)
			}
			if score.Value != tt.want {
				t.Errorf("value = %v, want %v", score.Value, tt.want)
			}
			if score.Layer != tt.layer {
				t.Errorf("layer = %v, want %v", score.Layer, tt.layer)
			}
		})
	}
}

func TestEvaluateContextualRejectsNonContextualLayer(t *testing.T) {
	_, err := EvaluateContextual(Base, "Q1", CompatDecl{}, testContextualRubric)
	if err == nil {
		t.Fatal("base layer accepted by the contextual evaluator")
	}
}

func TestEvaluateContextualUnknownTierIsConfigError(t *testing.T) {
	decl := CompatDecl{Question: map[string]CompatTier{"Q1": "superb"}}
	_, err := EvaluateContextual(Question, "Q1", decl, testContextualRubric)
	if !IsConfigError(err) {
		t.Fatalf("got %v, want ConfigError", err)
	}
}
