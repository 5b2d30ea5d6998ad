// Package fusion implements the 2-additive Choquet aggregation that
// combines active layer scores into one final calibration score:
//
//	Cal = Σ w_ℓ·x_ℓ + Σ w_ℓk·min(x_ℓ, x_k)
//
// Linear terms reward each layer independently; interaction terms add
// weakest-link synergy between layer pairs.
package fusion

import (
	"fmt"
	"sort"

	"github.com/pthm/calgate/internal/layers"
)

// Tolerance for the weight-normalization invariant.
const NormTolerance = 1e-6

// InteractionTerm declares a pairwise synergy between two layers. It
// contributes Weight·min(a, b) only when both layers are active.
type InteractionTerm struct {
	A         layers.Layer
	B         layers.Layer
	Weight    float64
	Rationale string
}

func (t InteractionTerm) Key() string {
	return fmt.Sprintf("%s·%s", t.A, t.B)
}

// Config is one role's fusion configuration: linear weights per layer
// plus interaction terms. Loaded once, validated at load time, and
// read-only afterwards.
type Config struct {
	Linear       map[layers.Layer]float64
	Interactions []InteractionTerm
}

// Validate enforces non-negative weights and exact normalization:
// Σlinear + Σinteraction = 1 within tolerance. There is no silent
// renormalization path; a violation is fatal at load time.
func (c Config) Validate() error {
	sum := 0.0
	for l, w := range c.Linear {
		if w < 0 {
			return layers.Configf("linear weight for %s is negative (%.4f)", l, w)
		}
		sum += w
	}
	for _, t := range c.Interactions {
		if t.Weight < 0 {
			return layers.Configf("interaction weight for %s is negative (%.4f)", t.Key(), t.Weight)
		}
		if t.A == t.B {
			return layers.Configf("interaction %s pairs a layer with itself", t.Key())
		}
		sum += t.Weight
	}
	if diff := sum - 1.0; diff > NormTolerance || diff < -NormTolerance {
		return layers.Configf("fusion weights sum to %.7f, want 1.0 ± %g (no renormalization is applied)",
			sum, NormTolerance)
	}
	return nil
}

// LinearContribution is one traced linear term.
type LinearContribution struct {
	Layer        layers.Layer
	Weight       float64
	Value        float64
	Contribution float64
}

// InteractionContribution is one traced interaction term.
type InteractionContribution struct {
	Term         InteractionTerm
	ValueA       float64
	ValueB       float64
	Min          float64
	Contribution float64
}

// Result is the full fused outcome with its per-term trace, ordered
// deterministically (linear terms in canonical layer order, interaction
// terms in declaration order).
type Result struct {
	Linear       []LinearContribution
	Interactions []InteractionContribution
	LinearSum    float64
	InterSum     float64
	Final        float64
}

// Fuse aggregates the active layer scores under the config. Linear
// weights for inactive layers are skipped; an interaction term fires
// only when both of its layers are active. A final score outside [0,1]
// is a configuration error naming the offending weights — never
// clamped.
func Fuse(active map[layers.Layer]layers.Score, cfg Config) (*Result, error) {
	res := &Result{}

	ordered := make([]layers.Layer, 0, len(cfg.Linear))
	for l := range cfg.Linear {
		ordered = append(ordered, l)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	for _, l := range ordered {
		score, ok := active[l]
		if !ok {
			continue
		}
		w := cfg.Linear[l]
		c := w * score.Value
		res.Linear = append(res.Linear, LinearContribution{
			Layer: l, Weight: w, Value: score.Value, Contribution: c,
		})
		res.LinearSum += c
	}

	for _, t := range cfg.Interactions {
		a, okA := active[t.A]
		b, okB := active[t.B]
		if !okA || !okB {
			continue
		}
		m := a.Value
		if b.Value < m {
			m = b.Value
		}
		c := t.Weight * m
		res.Interactions = append(res.Interactions, InteractionContribution{
			Term: t, ValueA: a.Value, ValueB: b.Value, Min: m, Contribution: c,
		})
		res.InterSum += c
	}

	res.Final = res.LinearSum + res.InterSum
	if res.Final < 0 || res.Final > 1 {
		return nil, layers.Configf(
			"final score %.7f outside [0,1]: linear sum %.7f + interaction sum %.7f; "+
				"check the role's linear and interaction weights",
			res.Final, res.LinearSum, res.InterSum)
	}

	return res, nil
}

// SymbolicFormula renders the fused expression with layer tags and
// weight placeholders.
func (r *Result) SymbolicFormula() string {
	s := ""
	for i, lc := range r.Linear {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("w(%s)·x(%s)", lc.Layer, lc.Layer)
	}
	for _, ic := range r.Interactions {
		s += fmt.Sprintf(" + w(%s,%s)·min(x(%s),x(%s))", ic.Term.A, ic.Term.B, ic.Term.A, ic.Term.B)
	}
	return s
}

// ExpandedFormula renders the fused expression with the actual weights
// and values substituted.
func (r *Result) ExpandedFormula() string {
	s := ""
	for i, lc := range r.Linear {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%.4f·%.4f", lc.Weight, lc.Value)
	}
	for _, ic := range r.Interactions {
		s += fmt.Sprintf(" + %.4f·min(%.4f,%.4f)", ic.Term.Weight, ic.ValueA, ic.ValueB)
	}
	return s + fmt.Sprintf(" = %.6f", r.Final)
}

// MostImpactfulLayer returns the layer with the largest linear
// contribution.
func (r *Result) MostImpactfulLayer() (layers.Layer, bool) {
	if len(r.Linear) == 0 {
		return 0, false
	}
	best := r.Linear[0]
	for _, lc := range r.Linear[1:] {
		if lc.Contribution > best.Contribution {
			best = lc
		}
	}
	return best.Layer, true
}

// MostImpactfulInteraction returns the interaction with the largest
// foregone contribution, Weight·(1−min): the synergy most limited by
// its weakest layer.
func (r *Result) MostImpactfulInteraction() (InteractionContribution, bool) {
	if len(r.Interactions) == 0 {
		return InteractionContribution{}, false
	}
	best := r.Interactions[0]
	bestLoss := best.Term.Weight * (1 - best.Min)
	for _, ic := range r.Interactions[1:] {
		if loss := ic.Term.Weight * (1 - ic.Min); loss > bestLoss {
			best = ic
			bestLoss = loss
		}
	}
	return best, true
}
