package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage represents the current stage of a calibration run
type Stage int

const (
	StageLoadConfig Stage = iota
	StageResolveLayers
	StageCalibrate
	StageDone
)

// Message types for updating the model
type (
	StageMsg        Stage
	OperationMsg    string
	SubjectStartMsg string
	SubjectDoneMsg  struct{}
	DoneMsg         struct{ Err error }
	SubjectCountMsg int
)

// Model is the Bubbletea model for progress display
type Model struct {
	stage        Stage
	spinner      spinner.Model
	progress     progress.Model
	currentOp    string
	subjectCount int
	subjectsDone int
	width        int
	quitting     bool
	err          error
}

// NewModel creates a new progress model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	p := progress.New(progress.WithDefaultGradient())

	return Model{
		stage:    StageLoadConfig,
		spinner:  s,
		progress: p,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 4
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageMsg:
		m.stage = Stage(msg)
		return m, nil

	case OperationMsg:
		m.currentOp = string(msg)
		return m, nil

	case SubjectStartMsg:
		m.currentOp = string(msg)
		return m, nil

	case SubjectCountMsg:
		m.subjectCount = int(msg)
		return m, nil

	case SubjectDoneMsg:
		m.subjectsDone++
		return m, nil

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	switch m.stage {
	case StageLoadConfig:
		b.WriteString(fmt.Sprintf("%s Loading calibration config...", m.spinner.View()))
	case StageResolveLayers:
		b.WriteString(fmt.Sprintf("%s Resolving layer requirements...", m.spinner.View()))
	case StageCalibrate:
		if m.subjectCount > 0 {
			pct := float64(m.subjectsDone) / float64(m.subjectCount)
			b.WriteString(fmt.Sprintf("%s Calibrating subjects (%d/%d)\n",
				m.spinner.View(), m.subjectsDone, m.subjectCount))
			b.WriteString("  " + m.progress.ViewAs(pct))
		} else {
			b.WriteString(fmt.Sprintf("%s Calibrating...", m.spinner.View()))
		}
		if m.currentOp != "" {
			b.WriteString(fmt.Sprintf("\n  %s", m.currentOp))
		}
	case StageDone:
		b.WriteString("Done")
	}

	return b.String()
}
