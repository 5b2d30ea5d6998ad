package layers

import "fmt"

// CompatDecl is a per-method compatibility declaration: for each axis,
// the declared tier per context value. Values not declared on an axis
// resolve to the undeclared-penalty tier.
type CompatDecl struct {
	Question  map[string]CompatTier `yaml:"question"`
	Dimension map[string]CompatTier `yaml:"dimension"`
	Policy    map[string]CompatTier `yaml:"policy"`
}

// AxisFor returns the declaration map for a contextual layer.
func (d CompatDecl) AxisFor(l Layer) (map[string]CompatTier, error) {
	switch l {
	case Question:
		return d.Question, nil
	case Dimension:
		return d.Dimension, nil
	case Policy:
		return d.Policy, nil
	default:
		return nil, fmt.Errorf("layer %s is not contextual", l)
	}
}

// EvaluateContextual scores one of the @q/@d/@p layers: a table lookup
// of the subject's context value against the method's declaration.
func EvaluateContextual(l Layer, ctxValue string, decl CompatDecl, r ContextualRubric) (Score, error) {
	axis, err := decl.AxisFor(l)
	if err != nil {
		return Score{}, err
	}

	tier := TierUndeclared
	if declared, ok := axis[ctxValue]; ok {
		tier = declared
	}

	value, err := r.TierValue(tier)
	if err != nil {
		return Score{}, Configf("layer %s: %v", l, err)
	}

	return Score{
		Layer:      l,
		Value:      value,
		Components: map[string]float64{"tier_value": value},
		Rationale:  fmt.Sprintf("declared %s for context value %q", tier, ctxValue),
	}, nil
}
