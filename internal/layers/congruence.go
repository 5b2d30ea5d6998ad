package layers

import (
	"fmt"

	"github.com/pthm/calgate/internal/evidence"
)

// EvaluateCongruence scores the @C layer. A subject acting alone passes
// iff it is registered; inside an interplay group the score is the
// product of scale, semantic, and fusion-validity sub-scores.
func EvaluateCongruence(sub Subject, ev *evidence.CongruenceEvidence, r CongruenceRubric) (Score, error) {
	if ev == nil {
		return Score{}, evidence.Missing(Congruence.String(), "congruence")
	}

	if ev.Interplay == nil {
		if ev.Registered {
			return Score{
				Layer:      Congruence,
				Value:      r.SoloRegistered,
				Components: map[string]float64{"registered": 1},
				Rationale:  "acting alone; method is registered",
			}, nil
		}
		return Score{
			Layer:      Congruence,
			Value:      r.SoloUnregistered,
			Components: map[string]float64{"registered": 0},
			Rationale:  "acting alone; method is not registered",
		}, nil
	}

	group := ev.Interplay
	if len(group.Members) == 0 {
		return Score{}, evidence.Missing(Congruence.String(), "interplay.members")
	}

	scale := scaleCongruence(group, r)
	semantic := semanticCongruence(group)
	fusionValidity := fusionCongruence(group, r)

	value := scale * semantic * fusionValidity

	return Score{
		Layer: Congruence,
		Value: value,
		Components: map[string]float64{
			"c_scale":  scale,
			"c_sem":    semantic,
			"c_fusion": fusionValidity,
		},
		Rationale: fmt.Sprintf("interplay group %s (%d members): scale=%.2f · semantic=%.2f · fusion=%.2f",
			group.GroupID, len(group.Members), scale, semantic, fusionValidity),
	}, nil
}

// scaleCongruence checks output-range compatibility across the group:
// full marks when every member emits the same range, the convertible
// tier when mismatched members declare a transform, zero otherwise.
func scaleCongruence(g *evidence.InterplayGroup, r CongruenceRubric) float64 {
	sameRange := true
	allConvertible := true
	first := g.Members[0].OutputRange
	for _, m := range g.Members {
		if m.OutputRange != first {
			sameRange = false
			if !m.TransformDeclared && !g.Members[0].TransformDeclared {
				allConvertible = false
			}
		}
	}
	switch {
	case sameRange:
		return r.SameRange
	case allConvertible:
		return r.ConvertibleRange
	default:
		return 0.0
	}
}

// semanticCongruence is the Jaccard overlap of concept tags across the
// group: |intersection| / |union| of all members' tag sets.
func semanticCongruence(g *evidence.InterplayGroup) float64 {
	union := make(map[string]int)
	for _, m := range g.Members {
		seen := make(map[string]bool)
		for _, tag := range m.ConceptTags {
			if !seen[tag] {
				seen[tag] = true
				union[tag]++
			}
		}
	}
	if len(union) == 0 {
		return 0.0
	}
	intersection := 0
	for _, count := range union {
		if count == len(g.Members) {
			intersection++
		}
	}
	return float64(intersection) / float64(len(union))
}

func fusionCongruence(g *evidence.InterplayGroup, r CongruenceRubric) float64 {
	if g.FusionRule == "" {
		return 0.0
	}
	for _, m := range g.Members {
		if !m.InputPresent {
			return r.FusionPartial
		}
	}
	return r.FusionDeclared
}
