package layers

import (
	"fmt"

	"github.com/pthm/calgate/internal/registry"
)

// Fallback sub-score values for registry entries without computed
// scores, per the registry contract.
const (
	pendingFallback = 0.5
	noneFallback    = 0.3
)

// EvaluateBase scores the @b layer from a registry entry. Excluded
// entries never reach this function; the engine skips the subject
// before any layer runs.
func EvaluateBase(methodID string, entry registry.Entry, r BaseRubric) (Score, error) {
	var theory, impl, deploy float64
	var rationale string

	switch entry.Status {
	case registry.StatusComputed:
		theory, impl, deploy = entry.BTheory, entry.BImpl, entry.BDeploy
		rationale = fmt.Sprintf("intrinsic scores v%s: theory=%.2f impl=%.2f deploy=%.2f",
			entry.Version, theory, impl, deploy)
	case registry.StatusPending:
		theory, impl, deploy = pendingFallback, pendingFallback, pendingFallback
		rationale = "intrinsic scoring pending; neutral fallback applied to all sub-scores"
	case registry.StatusNone:
		theory, impl, deploy = noneFallback, noneFallback, noneFallback
		rationale = "method absent from intrinsic registry; conservative fallback applied (warning)"
	case registry.StatusExcluded:
		return Score{}, fmt.Errorf("method %s is excluded from calibration", methodID)
	default:
		return Score{}, fmt.Errorf("method %s: unknown registry status %q", methodID, entry.Status)
	}

	value := r.TheoryWeight*theory + r.ImplWeight*impl + r.DeployWeight*deploy

	return Score{
		Layer: Base,
		Value: value,
		Components: map[string]float64{
			"b_theory": theory,
			"b_impl":   impl,
			"b_deploy": deploy,
			"w_th":     r.TheoryWeight,
			"w_imp":    r.ImplWeight,
			"w_dep":    r.DeployWeight,
		},
		Rationale: rationale,
	}, nil
}
