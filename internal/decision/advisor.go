package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Advisor refines heuristic recommendations into context-aware
// remediation guidance using the Claude API. It is strictly advisory:
// scores, decisions, and failure attributions are computed before the
// advisor runs and are never altered by it.
type Advisor struct {
	client anthropic.Client
}

// NewAdvisor creates an advisor, or nil when no API key is configured.
func NewAdvisor() *Advisor {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Advisor{client: client}
}

// Refine rewrites a FAIL result's recommendations. On any error the
// heuristic recommendations stand unchanged.
func (a *Advisor) Refine(ctx context.Context, res *Result) error {
	if a == nil {
		return fmt.Errorf("advisor not initialized (missing ANTHROPIC_API_KEY)")
	}
	if res.Decision != Fail || res.Certificate == nil {
		return nil
	}

	certJSON, err := res.Certificate.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("serialize certificate: %w", err)
	}

	prompt := fmt.Sprintf(`A document-analysis method failed calibration gating.

Method: %s
Score: %.4f (threshold %.4f)
Attributed cause: %s
Detail: %s

Calibration certificate:
%s

Current recommendations:
%s

Rewrite the recommendations as a ranked JSON array of short, concrete
remediation steps, most impactful first. Keep the attributed cause as
the focus. Return ONLY the JSON array, no other text.`,
		res.MethodID, res.Score, res.Threshold, res.FailureReason, res.FailureDetail,
		truncate(string(certJSON), 6000), formatRecs(res.Recommendations))

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude3_5Haiku20241022,
		MaxTokens: 1000,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return fmt.Errorf("Claude API error: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	var refined []string
	if err := json.Unmarshal([]byte(responseText), &refined); err != nil {
		return fmt.Errorf("parse advisor response: %w", err)
	}
	if len(refined) > 0 {
		res.Recommendations = refined
	}
	return nil
}

func formatRecs(recs []string) string {
	out := ""
	for i, r := range recs {
		out += fmt.Sprintf("%d. %s\n", i+1, r)
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "\n...[truncated]..."
}
