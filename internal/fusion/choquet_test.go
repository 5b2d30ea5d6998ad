package fusion

import (
	"math"
	"testing"

	"github.com/pthm/calgate/internal/layers"
)

// analyzerConfig mirrors the builtin eight-layer analyzer fusion.
func analyzerConfig() Config {
	return Config{
		Linear: map[layers.Layer]float64{
			layers.Base:       0.120,
			layers.Chain:      0.120,
			layers.Question:   0.090,
			layers.Dimension:  0.090,
			layers.Policy:     0.030,
			layers.Congruence: 0.050,
			layers.Unit:       0.170,
			layers.Meta:       0.038,
		},
		Interactions: []InteractionTerm{
			{A: layers.Unit, B: layers.Chain, Weight: 0.125, Rationale: "low unit quality compounds chain faults"},
			{A: layers.Chain, B: layers.Congruence, Weight: 0.100, Rationale: "contracts pay off when the group is congruent"},
			{A: layers.Question, B: layers.Dimension, Weight: 0.067, Rationale: "question fit without dimension fit is spurious"},
		},
	}
}

func scoresOf(values map[layers.Layer]float64) map[layers.Layer]layers.Score {
	out := make(map[layers.Layer]layers.Score, len(values))
	for l, v := range values {
		out[l] = layers.Score{Layer: l, Value: v}
	}
	return out
}

func TestValidateNormalization(t *testing.T) {
	cfg := analyzerConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("well-formed config rejected: %v", err)
	}

	t.Run("weights off by more than tolerance", func(t *testing.T) {
		bad := analyzerConfig()
		bad.Linear[layers.Base] += 0.001
		if err := bad.Validate(); err == nil {
			t.Fatal("unnormalized weights accepted")
		} else if !layers.IsConfigError(err) {
			t.Fatalf("got %v, want ConfigError", err)
		}
	})

	t.Run("negative weight", func(t *testing.T) {
		bad := analyzerConfig()
		bad.Linear[layers.Base] = -0.120
		if err := bad.Validate(); err == nil {
			t.Fatal("negative weight accepted")
		}
	})

	t.Run("self-paired interaction", func(t *testing.T) {
		bad := analyzerConfig()
		bad.Interactions[0].B = layers.Unit
		if err := bad.Validate(); err == nil {
			t.Fatal("self-paired interaction accepted")
		}
	})
}

func TestFuseWorkedExample(t *testing.T) {
	scores := scoresOf(map[layers.Layer]float64{
		layers.Base:       0.90,
		layers.Chain:      1.00,
		layers.Question:   1.00,
		layers.Dimension:  1.00,
		layers.Policy:     0.80,
		layers.Congruence: 1.00,
		layers.Unit:       0.60,
		layers.Meta:       0.95,
	})

	res, err := Fuse(scores, analyzerConfig())
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.LinearSum-0.6201) > 1e-9 {
		t.Errorf("linear sum = %v, want 0.6201", res.LinearSum)
	}
	if math.Abs(res.InterSum-0.2420) > 1e-9 {
		t.Errorf("interaction sum = %v, want 0.2420", res.InterSum)
	}
	if math.Abs(res.Final-0.8621) > 1e-9 {
		t.Errorf("final = %v, want 0.8621", res.Final)
	}

	// The unit/chain synergy is the one most limited by its weakest
	// layer: 0.125·(1−0.60) outweighs the fully realized terms.
	ic, ok := res.MostImpactfulInteraction()
	if !ok {
		t.Fatal("no interaction reported")
	}
	if got := ic.Term.Key(); got != "@u·@chain" {
		t.Errorf("most impactful interaction = %s, want @u·@chain", got)
	}

	l, ok := res.MostImpactfulLayer()
	if !ok {
		t.Fatal("no layer reported")
	}
	if l != layers.Chain {
		t.Errorf("most impactful layer = %s, want @chain", l)
	}
}

func TestFuseBoundedness(t *testing.T) {
	cfg := analyzerConfig()
	grid := []float64{0.0, 0.25, 0.5, 0.75, 1.0}
	for _, b := range grid {
		for _, u := range grid {
			for _, m := range grid {
				scores := scoresOf(map[layers.Layer]float64{
					layers.Base:       b,
					layers.Chain:      1 - b,
					layers.Question:   u,
					layers.Dimension:  1 - u,
					layers.Policy:     m,
					layers.Congruence: 1 - m,
					layers.Unit:       u,
					layers.Meta:       m,
				})
				res, err := Fuse(scores, cfg)
				if err != nil {
					t.Fatal(err)
				}
				if res.Final < 0 || res.Final > 1 {
					t.Fatalf("final %v outside [0,1] for b=%v u=%v m=%v", res.Final, b, u, m)
				}
			}
		}
	}
}

func TestFuseMonotonic(t *testing.T) {
	cfg := analyzerConfig()
	base := map[layers.Layer]float64{
		layers.Base:       0.5,
		layers.Chain:      0.5,
		layers.Question:   0.5,
		layers.Dimension:  0.5,
		layers.Policy:     0.5,
		layers.Congruence: 0.5,
		layers.Unit:       0.5,
		layers.Meta:       0.5,
	}
	ref, err := Fuse(scoresOf(base), cfg)
	if err != nil {
		t.Fatal(err)
	}

	for l := range base {
		raised := make(map[layers.Layer]float64, len(base))
		for k, v := range base {
			raised[k] = v
		}
		raised[l] = 0.9
		res, err := Fuse(scoresOf(raised), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if res.Final < ref.Final {
			t.Errorf("raising %s lowered the final score: %v < %v", l, res.Final, ref.Final)
		}
	}
}

func TestFuseSkipsInactiveLayers(t *testing.T) {
	cfg := Config{
		Linear: map[layers.Layer]float64{
			layers.Base:  0.50,
			layers.Chain: 0.30,
		},
		Interactions: []InteractionTerm{
			{A: layers.Chain, B: layers.Meta, Weight: 0.20},
		},
	}
	// Meta is not among the active scores: its interaction must not fire.
	res, err := Fuse(scoresOf(map[layers.Layer]float64{
		layers.Base:  1.0,
		layers.Chain: 1.0,
	}), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Interactions) != 0 {
		t.Errorf("interaction fired with an inactive layer")
	}
	if math.Abs(res.Final-0.8) > 1e-9 {
		t.Errorf("final = %v, want 0.8", res.Final)
	}
}

func TestFuseRejectsOutOfRangeFinal(t *testing.T) {
	// Deliberately broken weights that escape [0,1] at high scores.
	cfg := Config{
		Linear: map[layers.Layer]float64{layers.Base: 1.5},
	}
	_, err := Fuse(scoresOf(map[layers.Layer]float64{layers.Base: 0.9}), cfg)
	if !layers.IsConfigError(err) {
		t.Fatalf("got %v, want ConfigError", err)
	}
}

func TestFuseDeterministicOrdering(t *testing.T) {
	cfg := analyzerConfig()
	scores := scoresOf(map[layers.Layer]float64{
		layers.Base:       0.9,
		layers.Chain:      1.0,
		layers.Question:   1.0,
		layers.Dimension:  1.0,
		layers.Policy:     0.8,
		layers.Congruence: 1.0,
		layers.Unit:       0.6,
		layers.Meta:       0.95,
	})
	first, err := Fuse(scores, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		res, err := Fuse(scores, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if res.ExpandedFormula() != first.ExpandedFormula() {
			t.Fatal("fusion trace ordering is not deterministic")
		}
	}
}
