package reporter

import (
	"encoding/json"
	"io"

	"github.com/pthm/calgate/internal/decision"
)

// JSONReporter outputs results as JSON
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

// ReportResult outputs one decision (certificate included) as JSON
func (r *JSONReporter) ReportResult(res decision.Result) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(res)
}

// ReportPlan outputs the aggregate plan report as JSON
func (r *JSONReporter) ReportPlan(rep *decision.Report) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rep)
}
