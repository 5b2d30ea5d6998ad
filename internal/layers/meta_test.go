package layers

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm/calgate/internal/evidence"
)

func metaRubric() MetaRubric {
	tiers := MetaTiers{AllThree: 1.0, TwoOf: 0.7, OneOf: 0.4, None: 0.0}
	return MetaRubric{
		TransparencyWeight: 0.5,
		GovernanceWeight:   0.4,
		CostWeight:         0.1,
		Transparency:       tiers,
		Governance:         tiers,
		Cost: CostTiers{
			FastRuntimeMS:       100,
			AcceptableRuntimeMS: 1000,
			LowMemoryMB:         128,
			AcceptableMemoryMB:  512,
			Fast:                1.0,
			Acceptable:          0.7,
			Slow:                0.4,
		},
	}
}

func fullMetaEvidence() *evidence.MetaEvidence {
	return &evidence.MetaEvidence{
		FormulaExported:   ptrB(true),
		TraceComplete:     ptrB(true),
		LogsConformSchema: ptrB(true),
		VersionTagged:     ptrB(true),
		ConfigHashMatches: ptrB(true),
		SignatureValid:    ptrB(true),
		RuntimeMS:         ptrF(50),
		MemoryMB:          ptrF(64),
	}
}

func TestEvaluateMetaAllSatisfied(t *testing.T) {
	score, err := EvaluateMeta(fullMetaEvidence(), metaRubric())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(score.Value-1.0) > 1e-9 {
		t.Errorf("value = %v, want 1.0", score.Value)
	}
}

func TestEvaluateMetaTiering(t *testing.T) {
	ev := fullMetaEvidence()
	ev.TraceComplete = ptrB(false)  // transparency drops to two-of-three
	ev.SignatureValid = ptrB(false) // governance drops to two-of-three

	score, err := EvaluateMeta(ev, metaRubric())
	if err != nil {
		t.Fatal(err)
	}
	want := 0.5*0.7 + 0.4*0.7 + 0.1*1.0
	if math.Abs(score.Value-want) > 1e-9 {
		t.Errorf("value = %v, want %v", score.Value, want)
	}
}

func TestEvaluateMetaCostTakesWorseTier(t *testing.T) {
	ev := fullMetaEvidence()
	ev.RuntimeMS = ptrF(50)   // fast
	ev.MemoryMB = ptrF(2048)  // slow

	score, err := EvaluateMeta(ev, metaRubric())
	if err != nil {
		t.Fatal(err)
	}
	if got := score.Components["m_cost"]; got != 0.4 {
		t.Errorf("cost component = %v, want slow tier 0.4", got)
	}
}

func TestEvaluateMetaMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*evidence.MetaEvidence)
		field  string
	}{
		{"runtime absent", func(ev *evidence.MetaEvidence) { ev.RuntimeMS = nil }, "runtime_ms"},
		{"memory absent", func(ev *evidence.MetaEvidence) { ev.MemoryMB = nil }, "memory_mb"},
		{"governance flag absent", func(ev *evidence.MetaEvidence) { ev.SignatureValid = nil }, "signature_valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := fullMetaEvidence()
			tt.mutate(ev)
			_, err := EvaluateMeta(ev, metaRubric())
			var missing *evidence.MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("got %v, want MissingFieldError", err)
			}
			if missing.Field != tt.field {
				t.Errorf("missing field = %q, want %q", missing.Field, tt.field)
			}
		})
	}

	_, err := EvaluateMeta(nil, metaRubric())
	var missing *evidence.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("nil evidence: got %v, want MissingFieldError", err)
	}
}
