package layers

import (
	"fmt"

	"github.com/pthm/calgate/internal/evidence"
	"github.com/pthm/calgate/internal/registry"
)

// Inputs bundles everything a layer evaluator may consume for one
// subject. Each evaluator reads only its own slice of it.
type Inputs struct {
	Rubric   Rubric
	Entry    registry.Entry
	Compat   CompatDecl
	Evidence *evidence.Bundle
}

// Evaluate dispatches to the evaluator for one canonical layer. The
// switch is exhaustive over the closed layer set; a new layer cannot be
// added without extending it.
func Evaluate(l Layer, sub Subject, in Inputs) (Score, error) {
	bundle := in.Evidence
	if bundle == nil {
		bundle = &evidence.Bundle{}
	}

	switch l {
	case Base:
		return EvaluateBase(sub.MethodID, in.Entry, in.Rubric.Base)
	case Chain:
		return EvaluateChain(bundle.Chain, in.Rubric.Chain)
	case Unit:
		return EvaluateUnit(sub, bundle.Unit, in.Rubric.Unit)
	case Question:
		return EvaluateContextual(Question, sub.Context.QuestionID, in.Compat, in.Rubric.Contextual)
	case Dimension:
		return EvaluateContextual(Dimension, sub.Context.Dimension, in.Compat, in.Rubric.Contextual)
	case Policy:
		return EvaluateContextual(Policy, sub.Context.PolicyArea, in.Compat, in.Rubric.Contextual)
	case Congruence:
		return EvaluateCongruence(sub, bundle.Congruence, in.Rubric.Congruence)
	case Meta:
		return EvaluateMeta(bundle.Meta, in.Rubric.Meta)
	default:
		return Score{}, fmt.Errorf("no evaluator for layer %d", l)
	}
}
