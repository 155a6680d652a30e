package viewer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldStep = iota
	fieldTolerance
	fieldMaxIter
)

func (m *Model) initForm() {
	m.formInputs = []textinput.Model{
		newFormInput("Sampling step (deg): "),
		newFormInput("Arc residual tolerance (mm): "),
		newFormInput("Max iterations: "),
	}
	m.setFormFromParams()
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 16
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setFormFromParams() {
	m.formInputs[fieldStep].SetValue(strconv.FormatFloat(m.params.SamplingStepDeg, 'g', -1, 64))
	m.formInputs[fieldTolerance].SetValue(strconv.FormatFloat(m.params.ArcResidualTolMM, 'g', -1, 64))
	m.formInputs[fieldMaxIter].SetValue(strconv.Itoa(m.params.MaxIter))
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	m.setFormFromParams()
	return m, m.setFormIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.formMode = false
		m.formError = ""
		return m, m.rebuild()
	case tea.KeyTab:
		return m, m.setFormIndex(m.formIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFormIndex(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	count := len(m.formInputs)
	m.formIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

// applyForm parses and validates the form. Params are only replaced when the whole set
// passes validation.
func (m *Model) applyForm() error {
	step, err := strconv.ParseFloat(strings.TrimSpace(m.formInputs[fieldStep].Value()), 64)
	if err != nil {
		return fmt.Errorf("invalid sampling step (use a number)")
	}
	tol, err := strconv.ParseFloat(strings.TrimSpace(m.formInputs[fieldTolerance].Value()), 64)
	if err != nil {
		return fmt.Errorf("invalid tolerance (use a number)")
	}
	maxIter, err := strconv.Atoi(strings.TrimSpace(m.formInputs[fieldMaxIter].Value()))
	if err != nil {
		return fmt.Errorf("invalid max iterations (use an integer)")
	}
	next := m.params
	next.SamplingStepDeg = step
	next.ArcResidualTolMM = tol
	next.MaxIter = maxIter
	if err := next.Validate(); err != nil {
		return err
	}
	m.params = next
	return nil
}

func (m *Model) renderForm() string {
	lines := []string{"Parameters (enter to apply, esc to cancel)"}
	for _, input := range m.formInputs {
		lines = append(lines, input.View())
	}
	if m.formError != "" {
		lines = append(lines, errorStyle.Render(truncateLine(m.formError, m.width)))
	}
	return strings.Join(lines, "\n")
}
