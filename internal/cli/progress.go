package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	stepLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	stepDoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stepErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// stepState holds the outcome of a background step, shared between the
// worker goroutine and the TUI poll loop.
type stepState struct {
	mu     sync.RWMutex
	done   bool
	err    error
	result string
}

func (s *stepState) setDone(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.result = result
}

func (s *stepState) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.done = true
}

func (s *stepState) get() (bool, error, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.err, s.result
}

type stepTickMsg time.Time

type stepModel struct {
	spinner spinner.Model
	label   string
	state   *stepState
}

func newStepModel(label string, state *stepState) stepModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return stepModel{
		spinner: s,
		label:   label,
		state:   state,
	}
}

func stepTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return stepTickMsg(t)
	})
}

func (m stepModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, stepTickCmd())
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepTickMsg:
		done, _, _ := m.state.get()
		if done {
			return m, tea.Quit
		}
		return m, stepTickCmd()
	}

	return m, nil
}

func (m stepModel) View() string {
	done, err, _ := m.state.get()

	if err != nil {
		return fmt.Sprintf("  %s %s failed\n", stepErrStyle.Render("✗"), m.label)
	}

	if done {
		return fmt.Sprintf("  %s %s\n", stepDoneStyle.Render("✓"), m.label)
	}

	return fmt.Sprintf("  %s %s...\n", m.spinner.View(), stepLabelStyle.Render(m.label))
}

// runStepWithSpinner runs fn in the background while a spinner TUI shows the
// step label, and returns fn's result once it finishes.
func runStepWithSpinner(label string, fn func() (string, error)) (string, error) {
	state := &stepState{}

	go func() {
		result, err := fn()
		if err != nil {
			state.setError(err)
		} else {
			state.setDone(result)
		}
	}()

	if _, err := tea.NewProgram(newStepModel(label, state)).Run(); err != nil {
		return "", err
	}

	done, stepErr, result := state.get()
	if stepErr != nil {
		return "", stepErr
	}
	if !done {
		return "", fmt.Errorf("%s cancelled", label)
	}

	return result, nil
}
