package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgressController manages the bubbletea program for progress display
type ProgressController struct {
	ui      *UI
	program *tea.Program
}

// StartProgress starts the progress display if in interactive mode.
// Returns nil if not in interactive mode
func (ui *UI) StartProgress() *ProgressController {
	if ui.Mode != OutputModeInteractive {
		return nil
	}

	m := NewModel()
	p := tea.NewProgram(m, tea.WithOutput(ui.ErrWriter))

	ctrl := &ProgressController{
		ui:      ui,
		program: p,
	}

	// Run the program in a goroutine
	go func() {
		if _, err := p.Run(); err != nil {
			// Silently handle program errors
			_ = err
		}
	}()

	return ctrl
}

// SetStage updates the current stage
func (pc *ProgressController) SetStage(stage Stage) {
	if pc != nil && pc.program != nil {
		pc.program.Send(StageMsg(stage))
	}
}

// SetSubjectCount sets the total number of subjects to calibrate
func (pc *ProgressController) SetSubjectCount(count int) {
	if pc != nil && pc.program != nil {
		pc.program.Send(SubjectCountMsg(count))
	}
}

// SubjectStart indicates a subject's calibration has started
func (pc *ProgressController) SubjectStart(methodID string) {
	if pc != nil && pc.program != nil {
		pc.program.Send(SubjectStartMsg(fmt.Sprintf("Calibrating %s...", methodID)))
	}
}

// SubjectDone indicates a subject's calibration has completed
func (pc *ProgressController) SubjectDone() {
	if pc != nil && pc.program != nil {
		pc.program.Send(SubjectDoneMsg{})
	}
}

// Done signals that all work is complete
func (pc *ProgressController) Done(err error) {
	if pc != nil && pc.program != nil {
		pc.program.Send(DoneMsg{Err: err})
		pc.program.Wait()
	}
}
