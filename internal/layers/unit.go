package layers

import (
	"fmt"
	"math"

	"github.com/pthm/calgate/internal/evidence"
)

// EvaluateUnit scores the @u layer: a monotonic non-decreasing function
// g_role(U) of the context's unit quality, specialized per role family.
//
// Hard gates run first and short-circuit to exactly 0.0 regardless of
// the continuous formula. A tripped gate is a valid, rationale-carrying
// result, not an error; the interaction terms are configured so it
// dominates the final score.
func EvaluateUnit(sub Subject, ev *evidence.UnitEvidence, r UnitRubric) (Score, error) {
	u := sub.Context.UnitQuality
	if u < 0 || u > 1 {
		return Score{}, fmt.Errorf("unit quality %.4f outside [0,1]", u)
	}

	g := r.ForRole(sub.Role)

	// Hard gates only apply to unit-sensitive roles; a constant
	// g-function means the role does not consume unit evidence.
	if g.Kind != GConstant {
		if ev == nil {
			return Score{}, evidence.Missing(Unit.String(), "unit")
		}
		if ev.StructuralCompliance == nil {
			return Score{}, evidence.Missing(Unit.String(), "structural_compliance")
		}
		if r.RequireIndicatorMat && ev.IndicatorMatrixPresent == nil {
			return Score{}, evidence.Missing(Unit.String(), "indicator_matrix_present")
		}

		if *ev.StructuralCompliance < r.ComplianceGate {
			return Score{
				Layer: Unit,
				Value: 0.0,
				Components: map[string]float64{
					"unit_quality":          u,
					"structural_compliance": *ev.StructuralCompliance,
				},
				Rationale: fmt.Sprintf("hard gate: structural compliance %.2f below abort threshold %.2f",
					*ev.StructuralCompliance, r.ComplianceGate),
			}, nil
		}
		if r.RequireIndicatorMat && !*ev.IndicatorMatrixPresent {
			return Score{
				Layer:      Unit,
				Value:      0.0,
				Components: map[string]float64{"unit_quality": u},
				Rationale:  "hard gate: required indicator matrix absent",
			}, nil
		}
	}

	value, rationale, err := applyGFunc(g, u)
	if err != nil {
		return Score{}, err
	}

	return Score{
		Layer:      Unit,
		Value:      value,
		Components: map[string]float64{"unit_quality": u},
		Rationale:  rationale,
	}, nil
}

func applyGFunc(g GFunc, u float64) (float64, string, error) {
	switch g.Kind {
	case GIdentity:
		return u, fmt.Sprintf("g(U)=U: identity response, U=%.2f", u), nil

	case GConstant:
		return 1.0, "role not sensitive to unit quality", nil

	case GRamp:
		switch {
		case u < g.AbortThreshold:
			return 0.0, fmt.Sprintf("g(U)=0: U=%.2f below abort threshold %.2f", u, g.AbortThreshold), nil
		case u >= g.Saturation:
			return 1.0, fmt.Sprintf("g(U)=1: U=%.2f at or above saturation %.2f", u, g.Saturation), nil
		default:
			v := g.RampSlope*u + g.RampIntercept
			if v < 0 || v > 1 {
				return 0, "", Configf(
					"unit ramp (slope=%.2f intercept=%.2f) produced %.4f outside [0,1] for U=%.2f",
					g.RampSlope, g.RampIntercept, v, u)
			}
			return v, fmt.Sprintf("g(U)=%.2f·U%+.2f=%.2f in ramp zone", g.RampSlope, g.RampIntercept, v), nil
		}

	case GSigmoid:
		v := 1.0 - math.Exp(-g.SigmoidK*(u-g.SigmoidX0))
		if v < 0 || v > 1 {
			return 0, "", Configf(
				"unit sigmoid (k=%.2f x0=%.2f) produced %.4f outside [0,1] for U=%.2f",
				g.SigmoidK, g.SigmoidX0, v, u)
		}
		return v, fmt.Sprintf("g(U)=1-exp(-%.2f·(U-%.2f))=%.3f", g.SigmoidK, g.SigmoidX0, v), nil

	default:
		return 0, "", Configf("unknown unit g-function kind %q", g.Kind)
	}
}
