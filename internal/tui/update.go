package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		m.err = nil
		if msg.Scene == SceneCompare {
			m.loading = true
			return m, m.compareCmd()
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case CalculationCompleteMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.breakdown = msg.Breakdown
		}
		return m, nil

	case ComparisonCompleteMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.comparison = msg.Set
		}
		return m, nil

	case SolveCompleteMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.solution = msg.Result
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneCalculator {
			return m, navigate(SceneCalculator)
		}
		return m, nil

	case "c":
		return m, navigate(SceneCompare)

	case "g":
		return m, navigate(SceneSolve)

	case "m":
		m.monthly = !m.monthly
		return m, m.calculateCmd()

	case "y":
		m.year = nextYear(m.year)
		if m.currentScene == SceneSolve {
			return m, nil
		}
		return m, m.calculateCmd()

	case "tab", "down":
		if m.currentScene == SceneCalculator {
			m.form = m.form.Move(1)
		}
		return m, nil

	case "shift+tab", "up":
		if m.currentScene == SceneCalculator {
			m.form = m.form.Move(-1)
		}
		return m, nil

	case "enter":
		switch m.currentScene {
		case SceneCalculator:
			m.loading = true
			return m, m.calculateCmd()
		case SceneSolve:
			m.loading = true
			return m, m.solveCmd()
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// updateInputs forwards typing to the form of the current scene
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneCalculator:
		m.form, cmd = m.form.Update(msg)
	case SceneSolve:
		m.target, cmd = m.target.Update(msg)
	}
	return m, cmd
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}
