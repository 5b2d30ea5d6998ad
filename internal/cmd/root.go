package cmd

import (
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pthm/calgate/internal/config"
	"github.com/pthm/calgate/internal/engine"
	"github.com/pthm/calgate/internal/ui"
	"github.com/pthm/calgate/internal/version"
)

var (
	// Global flags
	verbose    bool
	format     string
	configPath string
)

var RootCmd = &cobra.Command{
	Use:   "calgate",
	Short: "A calibration gate for document-analysis methods",
	Long: `calgate decides whether an analysis method is suited to run for a
specific document-analysis task and context.

It scores a method across eight canonical layers (intrinsic quality,
chain compatibility, unit quality, question/dimension/policy fit,
interplay congruence, and governance), fuses them with a 2-additive
Choquet aggregation, and emits an immutable, self-verifying
calibration certificate alongside a PASS/FAIL decision.`,
}

func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "terminal", "Output format (terminal, json)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Calibration config file (defaults to the builtin configuration)")
}

var (
	uiOnce   sync.Once
	globalUI *ui.UI
)

// GetUI returns the process-wide UI, constructed once.
func GetUI() *ui.UI {
	uiOnce.Do(func() {
		globalUI = ui.New(os.Stdout, os.Stderr, format)
	})
	return globalUI
}

var (
	engineOnce sync.Once
	globalEng  *engine.Engine
	engineErr  error
)

// getEngine loads and validates the configuration exactly once per
// process and shares the resulting read-only engine across commands.
// Concurrent first access is guarded by the sync.Once.
func getEngine() (*engine.Engine, error) {
	engineOnce.Do(func() {
		var cfg *config.Config
		if configPath != "" {
			cfg, engineErr = config.LoadFile(configPath)
		} else {
			cfg, engineErr = config.LoadDefault()
		}
		if engineErr != nil {
			return
		}
		globalEng = engine.New(cfg, engine.WithValidatorVersion(version.Short()))
	})
	return globalEng, engineErr
}
