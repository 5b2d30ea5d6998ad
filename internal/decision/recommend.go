package decision

import (
	"fmt"

	"github.com/pthm/calgate/internal/certificate"
)

// Recommend produces ranked remediation guidance for a failure reason.
// The first entry addresses the attributed cause; later entries cover
// secondary weaknesses visible in the certificate.
func Recommend(reason FailureReason, cert *certificate.Certificate) []string {
	var recs []string

	switch reason {
	case BaseLayerLow:
		recs = append(recs,
			"improve the method's intrinsic scores (theory, implementation, deployment) or rerun intrinsic scoring against the current version",
			"check whether the registry entry is stale: a pending or absent entry falls back to conservative sub-scores")
	case ChainLayerFail:
		recs = append(recs,
			"supply the missing or type-incompatible inputs flagged by contract validation",
			"re-run chain contract validation after fixing upstream producers")
	case UnitLayerFail:
		recs = append(recs,
			"raise the unit quality of the analyzed document (structure, completeness, indicator data) above the abort threshold",
			"verify the indicator matrix is present before calibrating unit-sensitive methods")
	case CongruenceFail:
		recs = append(recs,
			"align output ranges across the interplay group or declare a conversion transform",
			"declare a fusion rule for the group and ensure every member input is present",
			"increase concept-tag overlap so the group measures a shared construct")
	case ContextualFail:
		recs = append(recs,
			"use a method declared primary or secondary for this question, dimension, and policy area",
			"extend the method's compatibility declaration if this context is genuinely in scope")
	case MetaLayerFail:
		recs = append(recs,
			"export the scoring formula, complete the trace, and bring logs to schema before rerunning",
			"tag the method version and re-pin the configuration hash to restore governance credit")
	default:
		recs = append(recs,
			"no single layer is below the attribution floor; review the largest foregone contributions and raise the weakest layers")
	}

	if cert != nil && cert.SensitivityAnalysis.MostImpactfulInteraction != "none" {
		recs = append(recs, fmt.Sprintf(
			"the %s interaction is the most limited synergy; raising its weaker layer has outsized effect",
			cert.SensitivityAnalysis.MostImpactfulInteraction))
	}
	return recs
}
