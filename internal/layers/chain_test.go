package layers

import (
	"errors"
	"strings"
	"testing"

	"github.com/pthm/calgate/internal/evidence"
)

var testChainRubric = ChainRubric{
	HardMismatch:     0.0,
	MissingOptional:  0.3,
	SchemaDeviation:  0.6,
	PassWithWarnings: 0.8,
	CleanPass:        1.0,
}

func TestEvaluateChainTiers(t *testing.T) {
	tests := []struct {
		name  string
		ev    evidence.ChainEvidence
		want  float64
		cause string
	}{
		{
			name: "clean pass",
			ev:   evidence.ChainEvidence{},
			want: 1.0,
		},
		{
			name:  "warnings only",
			ev:    evidence.ChainEvidence{Warnings: []string{"deprecated field"}},
			want:  0.8,
			cause: "warning",
		},
		{
			name:  "schema deviation",
			ev:    evidence.ChainEvidence{SchemaDeviations: []string{"extra column"}},
			want:  0.6,
			cause: "schema deviation",
		},
		{
			name:  "missing beneficial input",
			ev:    evidence.ChainEvidence{MissingBeneficial: []string{"confidence"}},
			want:  0.3,
			cause: "beneficial",
		},
		{
			name:  "missing required input",
			ev:    evidence.ChainEvidence{MissingRequired: []string{"segments"}},
			want:  0.0,
			cause: "hard mismatch",
		},
		{
			name:  "type mismatch",
			ev:    evidence.ChainEvidence{TypeMismatches: []string{"segments: list vs map"}},
			want:  0.0,
			cause: "hard mismatch",
		},
		{
			name: "hard mismatch dominates lesser findings",
			ev: evidence.ChainEvidence{
				MissingRequired:   []string{"segments"},
				MissingBeneficial: []string{"confidence"},
				Warnings:          []string{"deprecated field"},
			},
			want:  0.0,
			cause: "hard mismatch",
		},
		{
			name: "deviation dominates warnings",
			ev: evidence.ChainEvidence{
				SchemaDeviations: []string{"extra column"},
				Warnings:         []string{"deprecated field"},
			},
			want:  0.6,
			cause: "schema deviation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := EvaluateChain(&tt.ev, testChainRubric)
			if err != nil {
				t.Fatalf("EvaluateChain returned error: %v", err)
			}
			if score.Value != tt.want {
				t.Errorf("value = %v, want %v", score.Value, tt.want)
			}
			if score.Layer != Chain {
				t.Errorf("layer = %v, want %v", score.Layer, Chain)
			}
			if tt.cause != "" && !strings.Contains(score.Rationale, tt.cause) {
				t.Errorf("rationale %q does not mention %q", score.Rationale, tt.cause)
			}
		})
	}
}

func TestEvaluateChainMissingEvidence(t *testing.T) {
	_, err := EvaluateChain(nil, testChainRubric)
	var missing *evidence.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingFieldError", err)
	}
	if missing.Layer != Chain.String() {
		t.Errorf("missing.Layer = %q, want %q", missing.Layer, Chain.String())
	}
}
