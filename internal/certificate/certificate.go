// Package certificate builds the immutable audit record for one
// subject's calibration. A certificate is never edited after
// construction; re-running a calibration produces a new one. The
// record is self-verifying: replaying its own computation trace must
// reproduce the recorded score exactly.
package certificate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pthm/calgate/internal/layers"
)

// Namespace for deterministic instance IDs: the same subject, context,
// and configuration always yield the same certificate identity.
var instanceNamespace = uuid.MustParse("7c9e6a41-5b2d-4f83-9c1e-2a8f0d64b5a7")

// LayerBreakdown records one layer's score, evidence snapshot, and the
// formula rationale that produced it.
type LayerBreakdown struct {
	Score    float64            `json:"score"`
	Evidence map[string]float64 `json:"evidence,omitempty"`
	Formula  string             `json:"formula"`
}

// InteractionBreakdown records one fired interaction term.
type InteractionBreakdown struct {
	Contribution   float64 `json:"contribution"`
	Formula        string  `json:"formula"`
	Interpretation string  `json:"interpretation"`
}

// TraceStep is one ordered step of the fusion computation.
type TraceStep struct {
	Op           string  `json:"op"`
	Term         string  `json:"term"`
	Weight       float64 `json:"weight"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// FusionFormula carries the symbolic and expanded fused expression plus
// the ordered computation trace.
type FusionFormula struct {
	Symbolic         string      `json:"symbolic"`
	Expanded         string      `json:"expanded"`
	ComputationTrace []TraceStep `json:"computation_trace"`
}

// Provenance names the source and version of every parameter used.
type Provenance struct {
	ConfigVersion string            `json:"config_version"`
	ConfigHash    string            `json:"config_hash"`
	Weights       map[string]string `json:"weights"`
}

// ValidationChecks are the three standing checks recorded on every
// certificate.
type ValidationChecks struct {
	Boundedness   bool `json:"boundedness"`
	Normalization bool `json:"normalization"`
	Completeness  bool `json:"completeness"`
}

// Sensitivity names the terms that most shaped (or most limited) the
// final score.
type Sensitivity struct {
	MostImpactfulLayer       string `json:"most_impactful_layer"`
	MostImpactfulInteraction string `json:"most_impactful_interaction"`
}

// AuditTrail anchors the certificate to its configuration and build.
type AuditTrail struct {
	Timestamp        string `json:"timestamp"`
	ConfigHash       string `json:"config_hash"`
	GraphHash        string `json:"graph_hash"`
	ValidatorVersion string `json:"validator_version"`
}

// Certificate is the immutable calibration record for one subject.
type Certificate struct {
	InstanceID           string                          `json:"instance_id"`
	Method               string                          `json:"method"`
	Node                 string                          `json:"node"`
	Role                 string                          `json:"role"`
	Context              layers.Context                  `json:"context"`
	CalibrationScore     float64                         `json:"calibration_score"`
	LinearSum            float64                         `json:"linear_sum"`
	InteractionSum       float64                         `json:"interaction_sum"`
	LayerBreakdown       map[string]LayerBreakdown       `json:"layer_breakdown"`
	InteractionBreakdown map[string]InteractionBreakdown `json:"interaction_breakdown"`
	FusionFormula        FusionFormula                   `json:"fusion_formula"`
	ParameterProvenance  Provenance                      `json:"parameter_provenance"`
	ValidationChecks     ValidationChecks                `json:"validation_checks"`
	SensitivityAnalysis  Sensitivity                     `json:"sensitivity_analysis"`
	AuditTrail           AuditTrail                      `json:"audit_trail"`
	ContentHash          string                          `json:"content_hash"`
}

// CanonicalJSON serializes the certificate deterministically (map keys
// sorted, fixed indentation). Identical inputs yield identical bytes.
func (c *Certificate) CanonicalJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// payloadHash hashes the certificate with its timestamp and content
// hash zeroed, so reproducibility is independent of wall-clock time.
func (c *Certificate) payloadHash() (string, error) {
	clone := *c
	clone.AuditTrail.Timestamp = ""
	clone.ContentHash = ""
	data, err := json.Marshal(&clone)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Verify replays the certificate's own computation trace and confirms
// it reproduces the recorded score, and that the content hash matches
// the payload. A certificate that fails Verify has been tampered with
// or was built by a buggy engine.
func (c *Certificate) Verify() error {
	var linear, interaction float64
	for i, step := range c.FusionFormula.ComputationTrace {
		var expected float64
		switch step.Op {
		case "linear":
			expected = step.Weight * step.Value
			linear += step.Contribution
		case "interaction":
			expected = step.Weight * step.Value
			interaction += step.Contribution
		default:
			return fmt.Errorf("trace step %d: unknown op %q", i, step.Op)
		}
		if step.Contribution != expected {
			return fmt.Errorf("trace step %d (%s %s): recorded contribution %v != recomputed %v",
				i, step.Op, step.Term, step.Contribution, expected)
		}
	}
	if got := linear + interaction; got != c.CalibrationScore {
		return fmt.Errorf("trace replay yields %v, certificate records %v", got, c.CalibrationScore)
	}
	if linear != c.LinearSum {
		return fmt.Errorf("trace linear sum %v != recorded %v", linear, c.LinearSum)
	}
	if interaction != c.InteractionSum {
		return fmt.Errorf("trace interaction sum %v != recorded %v", interaction, c.InteractionSum)
	}

	hash, err := c.payloadHash()
	if err != nil {
		return fmt.Errorf("rehash certificate: %w", err)
	}
	if hash != c.ContentHash {
		return fmt.Errorf("content hash mismatch: payload %s, recorded %s", hash, c.ContentHash)
	}
	return nil
}

// deterministicInstanceID derives the certificate identity from the
// subject and configuration, so reruns reproduce it.
func deterministicInstanceID(sub layers.Subject, configHash string) string {
	seed := fmt.Sprintf("%s|%s|%s|%s|%s|%.6f|%s",
		sub.MethodID, sub.Role,
		sub.Context.QuestionID, sub.Context.Dimension, sub.Context.PolicyArea,
		sub.Context.UnitQuality, configHash)
	return uuid.NewSHA1(instanceNamespace, []byte(seed)).String()
}

// formatTimestamp pins the audit timestamp format.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
