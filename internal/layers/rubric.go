package layers

import "fmt"

// Rubric holds every constant the layer evaluators use. All values come
// from the loaded calibration config; evaluator logic carries no inline
// scoring literals.
type Rubric struct {
	Base       BaseRubric       `yaml:"base"`
	Chain      ChainRubric      `yaml:"chain"`
	Unit       UnitRubric       `yaml:"unit"`
	Contextual ContextualRubric `yaml:"contextual"`
	Congruence CongruenceRubric `yaml:"congruence"`
	Meta       MetaRubric       `yaml:"meta"`
}

// BaseRubric weights the three intrinsic sub-scores. The weights must
// sum to 1.
type BaseRubric struct {
	TheoryWeight float64 `yaml:"w_th"`
	ImplWeight   float64 `yaml:"w_imp"`
	DeployWeight float64 `yaml:"w_dep"`
}

// ChainRubric maps the five discrete chain-compatibility tiers.
type ChainRubric struct {
	HardMismatch     float64 `yaml:"hard_mismatch"`
	MissingOptional  float64 `yaml:"missing_optional"`
	SchemaDeviation  float64 `yaml:"schema_deviation"`
	PassWithWarnings float64 `yaml:"pass_with_warnings"`
	CleanPass        float64 `yaml:"clean_pass"`
}

// GFuncKind selects the unit-quality response curve for a role family.
type GFuncKind string

const (
	GIdentity GFuncKind = "identity"
	GRamp     GFuncKind = "ramp"
	GSigmoid  GFuncKind = "sigmoid"
	GConstant GFuncKind = "constant"
)

// GFunc is one role family's unit-quality response specification.
type GFunc struct {
	Kind           GFuncKind `yaml:"kind"`
	AbortThreshold float64   `yaml:"abort_threshold"`
	RampSlope      float64   `yaml:"ramp_slope"`
	RampIntercept  float64   `yaml:"ramp_intercept"`
	Saturation     float64   `yaml:"saturation"`
	SigmoidK       float64   `yaml:"sigmoid_k"`
	SigmoidX0      float64   `yaml:"sigmoid_x0"`
}

// UnitRubric specializes g(U) per role and carries the hard-gate
// thresholds shared by all unit-sensitive roles.
type UnitRubric struct {
	GFuncs              map[Role]GFunc `yaml:"g_functions"`
	ComplianceGate      float64        `yaml:"compliance_gate"`
	RequireIndicatorMat bool           `yaml:"require_indicator_matrix"`
}

// ForRole returns the g-function for a role, defaulting to a constant 1
// for roles not sensitive to unit quality.
func (u UnitRubric) ForRole(r Role) GFunc {
	if g, ok := u.GFuncs[r]; ok {
		return g
	}
	return GFunc{Kind: GConstant}
}

// CompatTier names one of the five contextual compatibility tiers.
type CompatTier string

const (
	TierPrimary      CompatTier = "primary"
	TierSecondary    CompatTier = "secondary"
	TierCompatible   CompatTier = "compatible"
	TierUndeclared   CompatTier = "undeclared"
	TierIncompatible CompatTier = "incompatible"
)

// ContextualRubric maps compatibility tiers to scores for the @q/@d/@p
// lookups.
type ContextualRubric struct {
	Primary      float64 `yaml:"primary"`
	Secondary    float64 `yaml:"secondary"`
	Compatible   float64 `yaml:"compatible"`
	Undeclared   float64 `yaml:"undeclared"`
	Incompatible float64 `yaml:"incompatible"`
}

// TierValue resolves a tier name to its configured score.
func (c ContextualRubric) TierValue(t CompatTier) (float64, error) {
	switch t {
	case TierPrimary:
		return c.Primary, nil
	case TierSecondary:
		return c.Secondary, nil
	case TierCompatible:
		return c.Compatible, nil
	case TierUndeclared:
		return c.Undeclared, nil
	case TierIncompatible:
		return c.Incompatible, nil
	default:
		return 0, fmt.Errorf("unknown compatibility tier: %q", t)
	}
}

// CongruenceRubric holds the sub-score values for interplay congruence.
type CongruenceRubric struct {
	SameRange         float64 `yaml:"same_range"`
	ConvertibleRange  float64 `yaml:"convertible_range"`
	FusionDeclared    float64 `yaml:"fusion_declared"`
	FusionPartial     float64 `yaml:"fusion_partial"`
	SoloRegistered    float64 `yaml:"solo_registered"`
	SoloUnregistered  float64 `yaml:"solo_unregistered"`
}

// MetaTiers grades a three-condition check by how many conditions hold.
type MetaTiers struct {
	AllThree float64 `yaml:"all_three"`
	TwoOf    float64 `yaml:"two_of_three"`
	OneOf    float64 `yaml:"one_of_three"`
	None     float64 `yaml:"none"`
}

// ByCount resolves the tier for the number of satisfied conditions.
func (m MetaTiers) ByCount(n int) float64 {
	switch {
	case n >= 3:
		return m.AllThree
	case n == 2:
		return m.TwoOf
	case n == 1:
		return m.OneOf
	default:
		return m.None
	}
}

// MetaRubric weights transparency, governance and cost, and carries the
// measured-cost thresholds.
type MetaRubric struct {
	TransparencyWeight float64   `yaml:"w_transparency"`
	GovernanceWeight   float64   `yaml:"w_governance"`
	CostWeight         float64   `yaml:"w_cost"`
	Transparency       MetaTiers `yaml:"transparency"`
	Governance         MetaTiers `yaml:"governance"`
	Cost               CostTiers `yaml:"cost"`
}

// CostTiers grades measured runtime and memory against thresholds.
type CostTiers struct {
	FastRuntimeMS       float64 `yaml:"fast_runtime_ms"`
	AcceptableRuntimeMS float64 `yaml:"acceptable_runtime_ms"`
	LowMemoryMB         float64 `yaml:"low_memory_mb"`
	AcceptableMemoryMB  float64 `yaml:"acceptable_memory_mb"`
	Fast                float64 `yaml:"fast"`
	Acceptable          float64 `yaml:"acceptable"`
	Slow                float64 `yaml:"slow"`
}

// Validate checks every rubric constant is usable: tier values in
// [0,1], composite weights summing to 1, and g-functions well formed.
func (r Rubric) Validate() error {
	baseSum := r.Base.TheoryWeight + r.Base.ImplWeight + r.Base.DeployWeight
	if diff := baseSum - 1.0; diff > 1e-6 || diff < -1e-6 {
		return fmt.Errorf("base rubric weights sum to %.6f, want 1.0", baseSum)
	}
	metaSum := r.Meta.TransparencyWeight + r.Meta.GovernanceWeight + r.Meta.CostWeight
	if diff := metaSum - 1.0; diff > 1e-6 || diff < -1e-6 {
		return fmt.Errorf("meta rubric weights sum to %.6f, want 1.0", metaSum)
	}
	unitVals := map[string]float64{
		"chain.hard_mismatch":      r.Chain.HardMismatch,
		"chain.missing_optional":   r.Chain.MissingOptional,
		"chain.schema_deviation":   r.Chain.SchemaDeviation,
		"chain.pass_with_warnings": r.Chain.PassWithWarnings,
		"chain.clean_pass":         r.Chain.CleanPass,
		"contextual.primary":       r.Contextual.Primary,
		"contextual.secondary":     r.Contextual.Secondary,
		"contextual.compatible":    r.Contextual.Compatible,
		"contextual.undeclared":    r.Contextual.Undeclared,
		"contextual.incompatible":  r.Contextual.Incompatible,
	}
	for name, v := range unitVals {
		if v < 0 || v > 1 {
			return fmt.Errorf("rubric value %s = %.4f outside [0,1]", name, v)
		}
	}
	for role, g := range r.Unit.GFuncs {
		switch g.Kind {
		case GIdentity, GRamp, GSigmoid, GConstant:
		default:
			return fmt.Errorf("unit g-function for role %s has unknown kind %q", role, g.Kind)
		}
		if g.Kind == GRamp && g.Saturation <= g.AbortThreshold {
			return fmt.Errorf("unit g-function for role %s: saturation %.2f must exceed abort threshold %.2f",
				role, g.Saturation, g.AbortThreshold)
		}
	}
	return nil
}
