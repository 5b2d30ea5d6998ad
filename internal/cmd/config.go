package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate calibration configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run all load-time checks against a calibration config",
	Long: `Validate loads a calibration config (the builtin one, or the file
given via --config) and runs every load-time check: rubric bounds,
fusion weight normalization, requirement coverage for all roles, and
the anti-universality scan over the declared vocabulary.

Any failed check means the config would be rejected at engine start.`,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the loaded config's identity and declared methods",
	RunE:  runConfigShow,
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	u := GetUI()
	s := u.Styles

	eng, err := getEngine()
	if err != nil {
		// Load already failed a check; surface which one by reporting
		// the error itself.
		fmt.Fprintf(u.Writer, "%s %s\n", s.IconFail, s.Fail.Render(err.Error()))
		return err
	}

	cfg := eng.Config()
	failed := 0
	for _, check := range cfg.Checks() {
		if check.Err != nil {
			failed++
			fmt.Fprintf(u.Writer, "%s %-24s %s\n", s.IconFail, check.Name, s.Fail.Render(check.Err.Error()))
			continue
		}
		fmt.Fprintf(u.Writer, "%s %-24s %s\n", s.IconPass, check.Name, s.Success.Render("ok"))
	}

	fmt.Fprintf(u.Writer, "\nconfig version %s hash %.12s\n", cfg.Version, cfg.Hash)
	if failed > 0 {
		return fmt.Errorf("%d config check(s) failed", failed)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	u := GetUI()
	s := u.Styles

	eng, err := getEngine()
	if err != nil {
		return err
	}
	cfg := eng.Config()

	fmt.Fprintf(u.Writer, "%s\n", s.Header.Render(fmt.Sprintf("Calibration config %s", cfg.Version)))
	fmt.Fprintf(u.Writer, "  hash: %s\n", cfg.Hash)
	fmt.Fprintf(u.Writer, "  vocabulary: %d questions, %d dimensions, %d policy areas\n",
		len(cfg.Vocabulary.Questions), len(cfg.Vocabulary.Dimensions), len(cfg.Vocabulary.Policies))
	fmt.Fprintf(u.Writer, "  methods:\n")
	for _, id := range cfg.MethodIDs() {
		m := cfg.Methods[id]
		entry := cfg.Registry.Get(id)
		fmt.Fprintf(u.Writer, "    %-28s %-12s registry=%s\n", id, m.Role, entry.Status)
	}
	return nil
}
