package layers

import (
	"fmt"

	"github.com/pthm/calgate/internal/evidence"
)

// EvaluateMeta scores the @m layer: a weighted sum of transparency,
// governance, and measured cost, each tiered by its rubric.
func EvaluateMeta(ev *evidence.MetaEvidence, r MetaRubric) (Score, error) {
	if ev == nil {
		return Score{}, evidence.Missing(Meta.String(), "meta")
	}
	for field, v := range map[string]*bool{
		"formula_exported":    ev.FormulaExported,
		"trace_complete":      ev.TraceComplete,
		"logs_conform_schema": ev.LogsConformSchema,
		"version_tagged":      ev.VersionTagged,
		"config_hash_matches": ev.ConfigHashMatches,
		"signature_valid":     ev.SignatureValid,
	} {
		if v == nil {
			return Score{}, evidence.Missing(Meta.String(), field)
		}
	}
	if ev.RuntimeMS == nil {
		return Score{}, evidence.Missing(Meta.String(), "runtime_ms")
	}
	if ev.MemoryMB == nil {
		return Score{}, evidence.Missing(Meta.String(), "memory_mb")
	}

	transp := r.Transparency.ByCount(countTrue(*ev.FormulaExported, *ev.TraceComplete, *ev.LogsConformSchema))
	gov := r.Governance.ByCount(countTrue(*ev.VersionTagged, *ev.ConfigHashMatches, *ev.SignatureValid))
	cost := costScore(*ev.RuntimeMS, *ev.MemoryMB, r.Cost)

	value := r.TransparencyWeight*transp + r.GovernanceWeight*gov + r.CostWeight*cost

	return Score{
		Layer: Meta,
		Value: value,
		Components: map[string]float64{
			"m_transp": transp,
			"m_gov":    gov,
			"m_cost":   cost,
		},
		Rationale: fmt.Sprintf("%.2f·transp(%.2f) + %.2f·gov(%.2f) + %.2f·cost(%.2f)",
			r.TransparencyWeight, transp, r.GovernanceWeight, gov, r.CostWeight, cost),
	}, nil
}

// costScore grades runtime and memory separately and takes the worse
// tier: one slow resource is enough to pay the slow penalty.
func costScore(runtimeMS, memoryMB float64, c CostTiers) float64 {
	runtime := tierFor(runtimeMS, c.FastRuntimeMS, c.AcceptableRuntimeMS, c)
	memory := tierFor(memoryMB, c.LowMemoryMB, c.AcceptableMemoryMB, c)
	if memory < runtime {
		return memory
	}
	return runtime
}

func tierFor(measured, fast, acceptable float64, c CostTiers) float64 {
	switch {
	case measured < fast:
		return c.Fast
	case measured < acceptable:
		return c.Acceptable
	default:
		return c.Slow
	}
}

func countTrue(conditions ...bool) int {
	n := 0
	for _, c := range conditions {
		if c {
			n++
		}
	}
	return n
}
