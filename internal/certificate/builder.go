package certificate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/pthm/calgate/internal/evidence"
	"github.com/pthm/calgate/internal/fusion"
	"github.com/pthm/calgate/internal/layers"
)

// BuildInput is everything the builder assembles into a certificate.
type BuildInput struct {
	Subject          layers.Subject
	Node             string
	Scores           map[layers.Layer]layers.Score
	Fusion           *fusion.Result
	FusionConfig     fusion.Config
	Required         []layers.Layer
	ConfigVersion    string
	ConfigHash       string
	ValidatorVersion string
	Interplay        *evidence.InterplayGroup
	Now              time.Time
}

// Build assembles the immutable certificate from a completed fusion.
// All three standing checks are evaluated and recorded; a failed check
// does not block the build (the decision layer reacts to it), it is
// simply part of the record.
func Build(in BuildInput) (*Certificate, error) {
	if in.Fusion == nil {
		return nil, fmt.Errorf("cannot build certificate without a fusion result")
	}

	cert := &Certificate{
		InstanceID:           deterministicInstanceID(in.Subject, in.ConfigHash),
		Method:               in.Subject.MethodID,
		Node:                 in.Node,
		Role:                 string(in.Subject.Role),
		Context:              in.Subject.Context,
		CalibrationScore:     in.Fusion.Final,
		LinearSum:            in.Fusion.LinearSum,
		InteractionSum:       in.Fusion.InterSum,
		LayerBreakdown:       make(map[string]LayerBreakdown, len(in.Scores)),
		InteractionBreakdown: make(map[string]InteractionBreakdown, len(in.Fusion.Interactions)),
		ParameterProvenance: Provenance{
			ConfigVersion: in.ConfigVersion,
			ConfigHash:    in.ConfigHash,
			Weights:       weightProvenance(in),
		},
		AuditTrail: AuditTrail{
			Timestamp:        formatTimestamp(in.Now),
			ConfigHash:       in.ConfigHash,
			GraphHash:        graphHash(in.Interplay),
			ValidatorVersion: in.ValidatorVersion,
		},
	}

	for l, s := range in.Scores {
		cert.LayerBreakdown[l.String()] = LayerBreakdown{
			Score:    s.Value,
			Evidence: s.Components,
			Formula:  s.Rationale,
		}
	}

	var trace []TraceStep
	for _, lc := range in.Fusion.Linear {
		trace = append(trace, TraceStep{
			Op:           "linear",
			Term:         lc.Layer.String(),
			Weight:       lc.Weight,
			Value:        lc.Value,
			Contribution: lc.Contribution,
		})
	}
	for _, ic := range in.Fusion.Interactions {
		key := ic.Term.Key()
		cert.InteractionBreakdown[key] = InteractionBreakdown{
			Contribution: ic.Contribution,
			Formula: fmt.Sprintf("%.4f·min(%s=%.4f, %s=%.4f)",
				ic.Term.Weight, ic.Term.A, ic.ValueA, ic.Term.B, ic.ValueB),
			Interpretation: ic.Term.Rationale,
		}
		trace = append(trace, TraceStep{
			Op:           "interaction",
			Term:         key,
			Weight:       ic.Term.Weight,
			Value:        ic.Min,
			Contribution: ic.Contribution,
		})
	}
	cert.FusionFormula = FusionFormula{
		Symbolic:         in.Fusion.SymbolicFormula(),
		Expanded:         in.Fusion.ExpandedFormula(),
		ComputationTrace: trace,
	}

	cert.ValidationChecks = ValidationChecks{
		Boundedness:   in.Fusion.Final >= 0 && in.Fusion.Final <= 1,
		Normalization: in.FusionConfig.Validate() == nil,
		Completeness:  complete(in.Required, in.Scores),
	}

	cert.SensitivityAnalysis = sensitivity(in.Fusion)

	hash, err := cert.payloadHash()
	if err != nil {
		return nil, fmt.Errorf("hash certificate: %w", err)
	}
	cert.ContentHash = hash

	return cert, nil
}

func weightProvenance(in BuildInput) map[string]string {
	source := fmt.Sprintf("calibration config v%s (%.12s)", in.ConfigVersion, in.ConfigHash)
	weights := make(map[string]string, len(in.FusionConfig.Linear)+len(in.FusionConfig.Interactions))
	for l, w := range in.FusionConfig.Linear {
		weights[fmt.Sprintf("linear[%s]=%.4f", l, w)] = source
	}
	for _, t := range in.FusionConfig.Interactions {
		weights[fmt.Sprintf("interaction[%s]=%.4f", t.Key(), t.Weight)] = source
	}
	return weights
}

func complete(required []layers.Layer, scores map[layers.Layer]layers.Score) bool {
	for _, l := range required {
		if _, ok := scores[l]; !ok {
			return false
		}
	}
	return true
}

func sensitivity(res *fusion.Result) Sensitivity {
	s := Sensitivity{MostImpactfulLayer: "none", MostImpactfulInteraction: "none"}
	if l, ok := res.MostImpactfulLayer(); ok {
		s.MostImpactfulLayer = l.String()
	}
	if ic, ok := res.MostImpactfulInteraction(); ok {
		s.MostImpactfulInteraction = ic.Term.Key()
	}
	return s
}

// graphHash fingerprints the caller-supplied interplay group, or is
// "none" for solo subjects: the engine has no execution graph of its
// own.
func graphHash(g *evidence.InterplayGroup) string {
	if g == nil {
		return "none"
	}
	members := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, m.MethodID)
	}
	sort.Strings(members)
	seed := g.GroupID + "|" + g.FusionRule
	for _, m := range members {
		seed += "|" + m
	}
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
