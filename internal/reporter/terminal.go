package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/pthm/calgate/internal/decision"
	"github.com/pthm/calgate/internal/ui"
)

// TerminalReporter outputs results to the terminal with styling
type TerminalReporter struct {
	w io.Writer
	u *ui.UI
}

// NewTerminalReporter creates a new terminal reporter
func NewTerminalReporter(w io.Writer, u *ui.UI) *TerminalReporter {
	return &TerminalReporter{w: w, u: u}
}

// ReportResult outputs one subject's decision and certificate breakdown
func (r *TerminalReporter) ReportResult(res decision.Result) error {
	s := r.u.Styles

	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%s %s\n", r.decisionIcon(res.Decision), s.Method.Render(res.MethodID))
	fmt.Fprintf(r.w, "  %s\n", s.Subheader.Render(fmt.Sprintf("decision=%s score=%.4f threshold=%.4f",
		res.Decision, res.Score, res.Threshold)))

	if res.Certificate != nil {
		cert := res.Certificate
		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "  %s\n", s.Header.Render("Layer breakdown"))

		tags := make([]string, 0, len(cert.LayerBreakdown))
		for tag := range cert.LayerBreakdown {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			lb := cert.LayerBreakdown[tag]
			fmt.Fprintf(r.w, "    %-8s %s  %s\n",
				s.Layer.Render(tag),
				s.Score.Render(fmt.Sprintf("%.4f", lb.Score)),
				s.Subheader.Render(lb.Formula))
		}

		if len(cert.InteractionBreakdown) > 0 {
			fmt.Fprintf(r.w, "  %s\n", s.Header.Render("Interactions"))
			pairs := make([]string, 0, len(cert.InteractionBreakdown))
			for pair := range cert.InteractionBreakdown {
				pairs = append(pairs, pair)
			}
			sort.Strings(pairs)
			for _, pair := range pairs {
				ib := cert.InteractionBreakdown[pair]
				fmt.Fprintf(r.w, "    %-12s %s  %s\n",
					s.Layer.Render(pair),
					s.Score.Render(fmt.Sprintf("%+.4f", ib.Contribution)),
					s.Subheader.Render(ib.Formula))
			}
		}

		fmt.Fprintf(r.w, "  %s\n", s.Header.Render("Fusion"))
		fmt.Fprintf(r.w, "    %s\n", s.Subheader.Render(cert.FusionFormula.Expanded))
		fmt.Fprintf(r.w, "    %s\n", s.Subheader.Render(fmt.Sprintf(
			"checks: boundedness=%t normalization=%t completeness=%t",
			cert.ValidationChecks.Boundedness,
			cert.ValidationChecks.Normalization,
			cert.ValidationChecks.Completeness)))
		fmt.Fprintf(r.w, "    %s\n", s.Subheader.Render(fmt.Sprintf(
			"sensitivity: layer=%s interaction=%s",
			cert.SensitivityAnalysis.MostImpactfulLayer,
			cert.SensitivityAnalysis.MostImpactfulInteraction)))
		fmt.Fprintf(r.w, "    %s\n", s.Subheader.Render(fmt.Sprintf(
			"config=%.12s instance=%s", cert.AuditTrail.ConfigHash, cert.InstanceID)))
	}

	r.printFailure(res)

	if res.Decision == decision.Fail {
		return fmt.Errorf("calibration gate failed for %s", res.MethodID)
	}
	return nil
}

// ReportPlan outputs the aggregate report with per-method lines
func (r *TerminalReporter) ReportPlan(rep *decision.Report) error {
	s := r.u.Styles

	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%s\n", s.Header.Render(fmt.Sprintf("Plan %s", rep.PlanID)))

	for _, res := range rep.Results {
		line := fmt.Sprintf("%-28s %-17s %.4f", res.MethodID, res.Decision, res.Score)
		if res.Decision == decision.Skipped {
			line = fmt.Sprintf("%-28s %-17s (%s)", res.MethodID, res.Decision, res.SkipStatus)
		}
		fmt.Fprintf(r.w, "  %s %s\n", r.decisionIcon(res.Decision), line)
		if res.FailureReason != "" {
			fmt.Fprintf(r.w, "      %s\n", s.Subheader.Render(fmt.Sprintf("%s: %s",
				res.FailureReason, res.FailureDetail)))
		}
		for i, rec := range res.Recommendations {
			fmt.Fprintf(r.w, "      %s\n", s.Subheader.Render(fmt.Sprintf("%d. %s", i+1, rec)))
		}
	}

	fmt.Fprintln(r.w)
	summary := fmt.Sprintf("%d subjects: %d passed, %d failed, %d conditional, %d skipped (pass rate %.0f%%)",
		rep.Total, rep.Passed, rep.Failed, rep.Conditional, rep.Skipped, rep.PassRate*100)
	switch rep.OverallDecision {
	case decision.Pass:
		fmt.Fprintf(r.w, "%s %s\n", s.IconPass, s.Success.Render(summary))
	case decision.Fail:
		fmt.Fprintf(r.w, "%s %s\n", s.IconFail, s.Fail.Render(summary))
	default:
		fmt.Fprintf(r.w, "%s %s\n", s.IconConditional, s.Warning.Render(summary))
	}

	if rep.OverallDecision == decision.Fail {
		return fmt.Errorf("plan validation failed")
	}
	return nil
}

func (r *TerminalReporter) printFailure(res decision.Result) {
	s := r.u.Styles
	if res.FailureReason != "" {
		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "  %s %s\n", s.IconFail, s.Fail.Render(string(res.FailureReason)))
		fmt.Fprintf(r.w, "    %s\n", s.Subheader.Render(res.FailureDetail))
	}
	if res.SkipStatus != "" {
		fmt.Fprintf(r.w, "  %s\n", s.Skipped.Render(fmt.Sprintf("skipped: registry status %q — %s",
			res.SkipStatus, res.FailureDetail)))
	}
	for i, rec := range res.Recommendations {
		fmt.Fprintf(r.w, "    %s\n", s.Subheader.Render(fmt.Sprintf("%d. %s", i+1, rec)))
	}
}

func (r *TerminalReporter) decisionIcon(d decision.Decision) string {
	s := r.u.Styles
	switch d {
	case decision.Pass:
		return s.Pass.Render(s.IconPass)
	case decision.Fail:
		return s.Fail.Render(s.IconFail)
	case decision.ConditionalPass:
		return s.Conditional.Render(s.IconConditional)
	default:
		return s.Skipped.Render(s.IconSkipped)
	}
}
