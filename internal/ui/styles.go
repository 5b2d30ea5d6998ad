package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all lipgloss styles for terminal output
type Styles struct {
	enabled bool

	// Decision styles
	Pass        lipgloss.Style
	Fail        lipgloss.Style
	Conditional lipgloss.Style
	Skipped     lipgloss.Style
	Warning     lipgloss.Style
	Success     lipgloss.Style

	// Structural styles
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Method    lipgloss.Style
	Layer     lipgloss.Style
	Score     lipgloss.Style
	Separator lipgloss.Style

	// Icons (degraded to ASCII when not interactive)
	IconPass        string
	IconFail        string
	IconConditional string
	IconSkipped     string
	IconWarning     string
}

// NewStyles creates a new Styles instance.
// When enabled is false, styles return text unchanged (for non-TTY output)
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if enabled {
		s.Pass = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))        // Green
		s.Fail = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))         // Red
		s.Conditional = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Yellow
		s.Skipped = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))      // Gray
		s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))     // Yellow
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))     // Green

		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")) // White bold
		s.Subheader = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))          // Gray
		s.Method = lipgloss.NewStyle().Bold(true)
		s.Layer = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // Cyan
		s.Score = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // Blue
		s.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

		s.IconPass = "✓"
		s.IconFail = "✗"
		s.IconConditional = "⚠"
		s.IconSkipped = "○"
		s.IconWarning = "⚠"
	} else {
		s.Pass = lipgloss.NewStyle()
		s.Fail = lipgloss.NewStyle()
		s.Conditional = lipgloss.NewStyle()
		s.Skipped = lipgloss.NewStyle()
		s.Warning = lipgloss.NewStyle()
		s.Success = lipgloss.NewStyle()

		s.Header = lipgloss.NewStyle()
		s.Subheader = lipgloss.NewStyle()
		s.Method = lipgloss.NewStyle()
		s.Layer = lipgloss.NewStyle()
		s.Score = lipgloss.NewStyle()
		s.Separator = lipgloss.NewStyle()

		s.IconPass = "PASS:"
		s.IconFail = "FAIL:"
		s.IconConditional = "COND:"
		s.IconSkipped = "SKIP:"
		s.IconWarning = "WARN:"
	}

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}
