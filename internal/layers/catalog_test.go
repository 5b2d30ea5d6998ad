package layers

import (
	"testing"

	"github.com/pthm/calgate/internal/evidence"
	"github.com/pthm/calgate/internal/registry"
)

// Evaluate must dispatch every canonical layer to a working evaluator
// when full inputs are supplied.
func TestEvaluateDispatchesAllLayers(t *testing.T) {
	in := Inputs{
		Rubric: Rubric{
			Base:       testBaseRubric,
			Chain:      testChainRubric,
			Unit:       extractRubric(),
			Contextual: testContextualRubric,
			Congruence: testCongruenceRubric,
			Meta:       metaRubric(),
		},
		Entry: registry.Entry{
			Status: registry.StatusComputed,
			BTheory: 0.8, BImpl: 0.8, BDeploy: 0.8,
			Version: "1.0.0",
		},
		Compat: CompatDecl{
			Question:  map[string]CompatTier{"Q1": TierPrimary},
			Dimension: map[string]CompatTier{"DIM01": TierPrimary},
			Policy:    map[string]CompatTier{"PA01": TierPrimary},
		},
		Evidence: &evidence.Bundle{
			Chain:      &evidence.ChainEvidence{},
			Unit:       goodUnitEvidence(),
			Meta:       fullMetaEvidence(),
			Congruence: &evidence.CongruenceEvidence{Registered: true},
		},
	}
	sub := Subject{
		MethodID: "m",
		Role:     RoleAnalyzer,
		Context: Context{
			QuestionID:  "Q1",
			Dimension:   "DIM01",
			PolicyArea:  "PA01",
			UnitQuality: 0.8,
		},
	}

	for _, l := range All {
		score, err := Evaluate(l, sub, in)
		if err != nil {
			t.Fatalf("layer %s: %v", l, err)
		}
		if score.Layer != l {
			t.Errorf("layer %s: result tagged %s", l, score.Layer)
		}
		if score.Value < 0 || score.Value > 1 {
			t.Errorf("layer %s: value %v outside [0,1]", l, score.Value)
		}
	}
}
