package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/calgate/internal/decision"
	"github.com/pthm/calgate/internal/evidence"
	"github.com/pthm/calgate/internal/layers"
	"github.com/pthm/calgate/internal/reporter"
	"github.com/pthm/calgate/internal/ui"
)

var (
	calMethod      string
	calQuestion    string
	calDimension   string
	calPolicy      string
	calUnitQuality float64
	calEvidence    string
	calDocument    string
	calDeep        bool
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Calibrate one method for a task context and decide PASS/FAIL",
	Long: `Calibrate evaluates a single method against its required layers for
the given context, fuses the layer scores, and prints the decision with
its calibration certificate.

Unit quality may be given directly (--unit-quality) or derived from a
markdown analysis document (--document). With --deep and an
ANTHROPIC_API_KEY, a failed decision's recommendations are refined by
Claude; scores and decisions are never altered.`,
	Example: `  # Gate an analyzer for question Q1 in dimension DIM01
  calgate calibrate --method discourse_analyzer --question Q1 --dimension DIM01 --policy PA01 \
    --evidence evidence.yaml --unit-quality 0.7

  # Derive unit quality from the document itself
  calgate calibrate --method discourse_analyzer --question Q1 --dimension DIM01 --policy PA01 \
    --evidence evidence.yaml --document analysis.md

  # JSON output for downstream tooling
  calgate calibrate --method evidence_aggregator --question Q2 --dimension DIM02 --policy PA03 \
    --evidence evidence.yaml --unit-quality 0.8 -f json`,
	SilenceUsage: true,
	RunE:         runCalibrate,
}

func init() {
	RootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().StringVarP(&calMethod, "method", "m", "", "Method ID to calibrate (required)")
	calibrateCmd.Flags().StringVarP(&calQuestion, "question", "q", "", "Question ID from the configured vocabulary")
	calibrateCmd.Flags().StringVarP(&calDimension, "dimension", "d", "", "Dimension ID from the configured vocabulary")
	calibrateCmd.Flags().StringVarP(&calPolicy, "policy", "p", "", "Policy area ID from the configured vocabulary")
	calibrateCmd.Flags().Float64VarP(&calUnitQuality, "unit-quality", "u", -1, "Unit quality scalar in [0,1]")
	calibrateCmd.Flags().StringVarP(&calEvidence, "evidence", "e", "", "Evidence bundle YAML file")
	calibrateCmd.Flags().StringVar(&calDocument, "document", "", "Markdown document to derive unit quality from")
	calibrateCmd.Flags().BoolVar(&calDeep, "deep", false, "Refine failure recommendations with Claude (requires ANTHROPIC_API_KEY)")

	_ = calibrateCmd.MarkFlagRequired("method")
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	u := GetUI()

	eng, err := getEngine()
	if err != nil {
		return err
	}

	sub := layers.Subject{
		MethodID: calMethod,
		Context: layers.Context{
			QuestionID: calQuestion,
			Dimension:  calDimension,
			PolicyArea: calPolicy,
		},
	}

	var bundle *evidence.Bundle
	if calEvidence != "" {
		bundle, err = evidence.LoadFile(calEvidence)
		if err != nil {
			return err
		}
	}

	switch {
	case calDocument != "":
		metrics, err := evidence.AnalyzeDocumentFile(calDocument)
		if err != nil {
			return err
		}
		quality, _ := metrics.UnitQuality()
		sub.Context.UnitQuality = quality
		if bundle != nil && bundle.Unit == nil {
			present := metrics.HasIndicatorMatrix()
			bundle.Unit = &evidence.UnitEvidence{
				StructuralCompliance:   &quality,
				IndicatorMatrixPresent: &present,
			}
		}
		if verbose {
			fmt.Fprintf(u.ErrWriter, "derived unit quality %.4f from %s (%d sections, %d words, %d table rows)\n",
				quality, calDocument, metrics.Sections, metrics.Words, metrics.TableRows)
		}
	case calUnitQuality >= 0:
		if calUnitQuality > 1 {
			return fmt.Errorf("--unit-quality must be in [0,1], got %v", calUnitQuality)
		}
		sub.Context.UnitQuality = calUnitQuality
	}

	res, err := eng.Validate(cmd.Context(), sub, bundle)
	if err != nil {
		return err
	}

	if calDeep && res.Decision == decision.Fail {
		advisor := decision.NewAdvisor()
		if advisor == nil {
			fmt.Fprintln(u.ErrWriter, "--deep requested but ANTHROPIC_API_KEY is not set; keeping heuristic recommendations")
		} else if err := advisor.Refine(cmd.Context(), &res); err != nil && verbose {
			fmt.Fprintf(u.ErrWriter, "advisor unavailable: %v\n", err)
		}
	}

	return newReporter(u).ReportResult(res)
}

func newReporter(u *ui.UI) reporter.Reporter {
	if u.IsJSON() {
		return reporter.NewJSONReporter(u.Writer)
	}
	return reporter.NewTerminalReporter(u.Writer, u)
}
