package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/calgate/internal/decision"
	"github.com/pthm/calgate/internal/engine"
	"github.com/pthm/calgate/internal/evidence"
	"github.com/pthm/calgate/internal/layers"
	"github.com/pthm/calgate/internal/ui"
)

var (
	planConcurrency int
	planTimeout     time.Duration
)

// planFile is the on-disk shape of an analysis plan: an ID plus the
// subjects to gate, each with its context and evidence inline.
type planFile struct {
	PlanID   string        `yaml:"plan_id"`
	Subjects []planSubject `yaml:"subjects"`
}

type planSubject struct {
	Method   string           `yaml:"method"`
	Context  layers.Context   `yaml:"context"`
	Evidence *evidence.Bundle `yaml:"evidence"`
}

var planCmd = &cobra.Command{
	Use:   "plan <plan.yaml>",
	Short: "Gate every method in an analysis plan",
	Long: `Plan reads an analysis plan file, calibrates every subject in it
concurrently, and prints an aggregate report. Each subject's decision
is independent; a timed-out or cancelled subject is reported as
SKIPPED without affecting the others.

The overall decision fails if any subject fails, and the command exits
non-zero so plans can gate CI pipelines.`,
	Example: `  calgate plan analysis-plan.yaml
  calgate plan analysis-plan.yaml --concurrency 4 --subject-timeout 30s
  calgate plan analysis-plan.yaml -f json > report.json`,
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE:         runPlan,
}

func init() {
	RootCmd.AddCommand(planCmd)

	planCmd.Flags().IntVar(&planConcurrency, "concurrency", 0, "Max subjects evaluated in parallel (0 = unbounded)")
	planCmd.Flags().DurationVar(&planTimeout, "subject-timeout", 0, "Per-subject evaluation timeout (0 = none)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	u := GetUI()

	pf, err := loadPlanFile(args[0])
	if err != nil {
		return err
	}

	progress := u.StartProgress()
	progress.SetStage(ui.StageLoadConfig)

	eng, err := getEngine()
	if err != nil {
		progress.Done(err)
		return err
	}

	subs := make([]engine.PlanSubject, len(pf.Subjects))
	for i, ps := range pf.Subjects {
		subs[i] = engine.PlanSubject{
			Subject: layers.Subject{
				MethodID: ps.Method,
				Context:  ps.Context,
			},
			Evidence: ps.Evidence,
		}
	}

	progress.SetStage(ui.StageCalibrate)
	progress.SetSubjectCount(len(subs))

	opts := engine.PlanOptions{
		Concurrency:    planConcurrency,
		SubjectTimeout: planTimeout,
		OnResult: func(index int, res decision.Result) {
			progress.SubjectDone()
		},
	}

	report, err := eng.ValidatePlan(cmd.Context(), pf.PlanID, subs, opts)
	progress.Done(err)
	if err != nil {
		return err
	}

	return newReporter(u).ReportPlan(report)
}

func loadPlanFile(path string) (*planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse plan file %s: %w", path, err)
	}
	if pf.PlanID == "" {
		pf.PlanID = path
	}
	if len(pf.Subjects) == 0 {
		return nil, fmt.Errorf("plan file %s declares no subjects", path)
	}
	return &pf, nil
}
