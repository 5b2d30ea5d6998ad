package layers

import (
	"fmt"

	"github.com/pthm/calgate/internal/evidence"
)

// EvaluateChain scores the @chain layer from contract-validation
// evidence. Exactly five discrete tiers, checked in priority order:
// a hard mismatch dominates everything else, and the clean-pass tier
// is only reached when no lesser condition holds.
func EvaluateChain(ev *evidence.ChainEvidence, r ChainRubric) (Score, error) {
	if ev == nil {
		return Score{}, evidence.Missing(Chain.String(), "chain")
	}

	components := map[string]float64{
		"missing_required":   float64(len(ev.MissingRequired)),
		"type_mismatches":    float64(len(ev.TypeMismatches)),
		"missing_beneficial": float64(len(ev.MissingBeneficial)),
		"schema_deviations":  float64(len(ev.SchemaDeviations)),
		"warnings":           float64(len(ev.Warnings)),
	}

	var value float64
	var rationale string

	switch {
	case len(ev.MissingRequired) > 0:
		value = r.HardMismatch
		rationale = fmt.Sprintf("hard mismatch: required input(s) absent: %v", ev.MissingRequired)
	case len(ev.TypeMismatches) > 0:
		value = r.HardMismatch
		rationale = fmt.Sprintf("hard mismatch: type-incompatible with downstream contract: %v", ev.TypeMismatches)
	case len(ev.MissingBeneficial) > 0:
		value = r.MissingOptional
		rationale = fmt.Sprintf("beneficial input(s) missing: %v", ev.MissingBeneficial)
	case len(ev.SchemaDeviations) > 0:
		value = r.SchemaDeviation
		rationale = fmt.Sprintf("non-fatal schema deviation(s): %v", ev.SchemaDeviations)
	case len(ev.Warnings) > 0:
		value = r.PassWithWarnings
		rationale = fmt.Sprintf("all contracts pass with %d warning(s)", len(ev.Warnings))
	default:
		value = r.CleanPass
		rationale = "all contracts pass, no warnings"
	}

	return Score{
		Layer:      Chain,
		Value:      value,
		Components: components,
		Rationale:  rationale,
	}, nil
}
