package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	claudecode "github.com/severity1/claude-agent-sdk-go"
	"github.com/spf13/cobra"

	"github.com/pthm/calgate/internal/certificate"
)

var explainCmd = &cobra.Command{
	Use:   "explain <certificate.json>",
	Short: "Narrate a calibration certificate in plain language",
	Long: `Explain reads a calibration certificate JSON file, verifies it, and
asks a local Claude Code CLI to narrate how the final score was
reached: which layers contributed most, what the interactions reward,
and what the sensitivity analysis implies.

The narration is advisory. Verification happens locally first; a
certificate that fails verification is rejected before any narration.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	RootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	u := GetUI()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read certificate: %w", err)
	}

	var cert certificate.Certificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return fmt.Errorf("parse certificate %s: %w", args[0], err)
	}
	if err := cert.Verify(); err != nil {
		return fmt.Errorf("certificate failed verification: %w", err)
	}
	fmt.Fprintf(u.ErrWriter, "%s certificate %s verified\n", u.Styles.IconPass, cert.InstanceID)

	prompt := fmt.Sprintf(`You are explaining a calibration certificate for a
document-analysis method gate. The certificate below is verified and
immutable; do not second-guess its numbers.

%s

Explain in a few short paragraphs: what was calibrated and in which
context, which layers drove the final score of %.4f, what the
interaction terms reward, and what the sensitivity analysis suggests
the operator should improve first. Plain language, no JSON.`,
		string(data), cert.CalibrationScore)

	text, err := queryClaude(cmd.Context(), prompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(u.Writer, strings.TrimSpace(text))
	return nil
}

// queryClaude runs one prompt through the local Claude Code CLI and
// collects the assistant text.
func queryClaude(ctx context.Context, prompt string) (string, error) {
	iterator, err := claudecode.Query(ctx, prompt,
		claudecode.WithModel("sonnet"),
		claudecode.WithMaxTurns(1),
	)
	if err != nil {
		if claudecode.IsCLINotFoundError(err) {
			return "", fmt.Errorf("explain requires the Claude Code CLI on PATH: %w", err)
		}
		return "", fmt.Errorf("claude code error: %w", err)
	}
	defer iterator.Close()

	var b strings.Builder
	for {
		message, err := iterator.Next(ctx)
		if err != nil {
			if errors.Is(err, claudecode.ErrNoMoreMessages) {
				break
			}
			return "", fmt.Errorf("error reading claude response: %w", err)
		}
		if assistantMsg, ok := message.(*claudecode.AssistantMessage); ok {
			for _, block := range assistantMsg.Content {
				if textBlock, ok := block.(*claudecode.TextBlock); ok {
					b.WriteString(textBlock.Text)
				}
			}
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("empty response from claude code")
	}
	return b.String(), nil
}
