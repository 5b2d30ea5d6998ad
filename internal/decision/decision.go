// Package decision turns calibration certificates into gate decisions:
// PASS, FAIL with attributed cause and recommendations,
// CONDITIONAL_PASS inside the tolerance band, or SKIPPED.
package decision

import (
	"fmt"

	"github.com/pthm/calgate/internal/certificate"
	"github.com/pthm/calgate/internal/layers"
)

// Decision is the gate outcome for one subject.
type Decision string

const (
	Pass            Decision = "PASS"
	Fail            Decision = "FAIL"
	ConditionalPass Decision = "CONDITIONAL_PASS"
	Skipped         Decision = "SKIPPED"
)

// FailureReason is the fixed attribution taxonomy for FAIL decisions.
type FailureReason string

const (
	BaseLayerLow        FailureReason = "BASE_LAYER_LOW"
	ChainLayerFail      FailureReason = "CHAIN_LAYER_FAIL"
	UnitLayerFail       FailureReason = "UNIT_LAYER_FAIL"
	CongruenceFail      FailureReason = "CONGRUENCE_FAIL"
	ContextualFail      FailureReason = "CONTEXTUAL_FAIL"
	MetaLayerFail       FailureReason = "META_LAYER_FAIL"
	ScoreBelowThreshold FailureReason = "SCORE_BELOW_THRESHOLD"
	MethodExcluded      FailureReason = "METHOD_EXCLUDED"
)

// Result is one subject's decision. FAIL always carries a reason and
// ranked recommendations; SKIPPED always carries the registry status
// that caused the skip. No decision exists without its certificate,
// except SKIPPED subjects that never produced one.
type Result struct {
	MethodID        string                   `json:"method"`
	Decision        Decision                 `json:"decision"`
	Score           float64                  `json:"calibration_score"`
	Threshold       float64                  `json:"threshold"`
	FailureReason   FailureReason            `json:"failure_reason,omitempty"`
	FailureDetail   string                   `json:"failure_detail,omitempty"`
	SkipStatus      string                   `json:"skip_status,omitempty"`
	Recommendations []string                 `json:"recommendations,omitempty"`
	Certificate     *certificate.Certificate `json:"certificate,omitempty"`
}

// Options tune the decision boundaries. Both come from the loaded
// configuration.
type Options struct {
	// ConditionalBand is the tolerance just below threshold that
	// yields CONDITIONAL_PASS instead of FAIL.
	ConditionalBand float64
	// AttributionFloor is the minimum layer value below which a FAIL
	// is attributed to that layer rather than the generic fallback.
	AttributionFloor float64
}

// Decide compares a certificate's score against the threshold.
func Decide(cert *certificate.Certificate, threshold float64, opts Options) Result {
	res := Result{
		MethodID:    cert.Method,
		Score:       cert.CalibrationScore,
		Threshold:   threshold,
		Certificate: cert,
	}

	switch {
	case cert.CalibrationScore >= threshold:
		res.Decision = Pass
	case cert.CalibrationScore >= threshold-opts.ConditionalBand:
		res.Decision = ConditionalPass
		res.FailureDetail = fmt.Sprintf("score %.4f within tolerance band %.4f below threshold %.4f",
			cert.CalibrationScore, opts.ConditionalBand, threshold)
	default:
		res.Decision = Fail
		res.FailureReason, res.FailureDetail = attribute(cert, opts.AttributionFloor)
		res.Recommendations = Recommend(res.FailureReason, cert)
	}
	return res
}

// Skip builds the SKIPPED result for a subject excluded (or timed out)
// before any certificate could be produced.
func Skip(methodID, status, detail string) Result {
	return Result{
		MethodID:      methodID,
		Decision:      Skipped,
		SkipStatus:    status,
		FailureDetail: detail,
	}
}

// attribute selects the failing layer: the active layer with the lowest
// value, provided it sits below the attribution floor. Ties break on
// canonical layer order. When no layer is individually low, the generic
// SCORE_BELOW_THRESHOLD applies.
func attribute(cert *certificate.Certificate, floor float64) (FailureReason, string) {
	lowest := layers.Layer(-1)
	lowestValue := floor
	for _, l := range layers.All {
		lb, ok := cert.LayerBreakdown[l.String()]
		if !ok {
			continue
		}
		if lb.Score < lowestValue {
			lowest = l
			lowestValue = lb.Score
		}
	}

	if lowest < 0 {
		return ScoreBelowThreshold, fmt.Sprintf(
			"score %.4f below threshold with no single layer under the %.2f attribution floor",
			cert.CalibrationScore, floor)
	}

	detail := fmt.Sprintf("layer %s scored %.4f: %s",
		lowest, lowestValue, cert.LayerBreakdown[lowest.String()].Formula)

	switch {
	case lowest == layers.Base:
		return BaseLayerLow, detail
	case lowest == layers.Chain:
		return ChainLayerFail, detail
	case lowest == layers.Unit:
		return UnitLayerFail, detail
	case lowest == layers.Congruence:
		return CongruenceFail, detail
	case lowest.Contextual():
		return ContextualFail, detail
	case lowest == layers.Meta:
		return MetaLayerFail, detail
	default:
		return ScoreBelowThreshold, detail
	}
}
