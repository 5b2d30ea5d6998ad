package reporter

import (
	"github.com/pthm/calgate/internal/decision"
)

// Reporter defines the interface for outputting calibration results
type Reporter interface {
	// ReportResult outputs one subject's decision with its certificate
	ReportResult(res decision.Result) error
	// ReportPlan outputs an aggregate plan report
	ReportPlan(rep *decision.Report) error
}
