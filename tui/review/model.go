// Package review asks the user to approve, edit or skip a generated commit
// message.
package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/phantomit/tui/theme"
)

type state int

const (
	stateGenerating state = iota
	stateDeciding
	stateEditing
	stateDone
)

// generatedMsg carries the generator's answer into the update loop.
type generatedMsg struct {
	message string
	err     error
}

// Model is the review prompt. It starts generating on Init and ends after a
// decision, an error or ctrl+c.
type Model struct {
	generate func() (string, error)
	push     bool

	keys    KeyMap
	spinner spinner.Model
	input   textinput.Model
	theme   *theme.Theme

	state    state
	message  string
	approved bool
	err      error
}

// New creates a prompt around generate. push only changes the wording of
// the approve action.
func New(generate func() (string, error), push bool) Model {
	t := theme.DefaultTheme

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = t.Accent

	ti := textinput.New()
	ti.Prompt = "  > "
	ti.CharLimit = 200
	ti.Width = 72
	ti.TextStyle = t.Input

	return Model{
		generate: generate,
		push:     push,
		keys:     DefaultKeyMap,
		spinner:  s,
		input:    ti,
		theme:    t,
	}
}

func (m Model) Init() tea.Cmd {
	generate := m.generate
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		msg, err := generate()
		return generatedMsg{message: msg, err: err}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		if m.state != stateGenerating {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.state = stateDone
			return m, tea.Quit
		}
		m.message = msg.message
		m.state = stateDeciding
		return m, nil

	case spinner.TickMsg:
		if m.state != stateGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateEditing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.state = stateDone
		m.approved = false
		return m, tea.Quit
	}

	switch m.state {
	case stateDeciding:
		switch {
		case key.Matches(msg, m.keys.Approve):
			m.approved = true
			m.state = stateDone
			return m, tea.Quit
		case key.Matches(msg, m.keys.Edit):
			m.state = stateEditing
			m.input.SetValue(m.message)
			m.input.CursorEnd()
			return m, tea.Batch(m.input.Focus(), textinput.Blink)
		case key.Matches(msg, m.keys.Skip):
			m.state = stateDone
			return m, tea.Quit
		}

	case stateEditing:
		switch {
		case key.Matches(msg, m.keys.Save):
			// An emptied input keeps the generated message.
			if edited := strings.TrimSpace(m.input.Value()); edited != "" {
				m.message = edited
			}
			m.input.Blur()
			m.approved = true
			m.state = stateDone
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.input.Blur()
			m.state = stateDeciding
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	t := m.theme
	switch m.state {
	case stateGenerating:
		return fmt.Sprintf("  %s %s\n", m.spinner.View(), t.Muted.Render("generating commit message..."))

	case stateDeciding:
		approve := "[Y] commit"
		if m.push {
			approve = "[Y] commit & push"
		}
		var b strings.Builder
		b.WriteString("\n" + t.Accent.Render("  ✦ ") + t.Bold.Render("Commit message:") + "\n")
		b.WriteString(t.Info.Render(fmt.Sprintf("  %q", m.message)) + "\n\n")
		b.WriteString(t.Muted.Render("  "+approve+"   [E] edit message   [N] skip") + "\n")
		return b.String()

	case stateEditing:
		return "\n" + t.Bold.Render("  Edit message:") + "\n" + m.input.View() + "\n" +
			t.Muted.Render("  enter to commit, esc to go back") + "\n"
	}
	return ""
}

// Result reports the final message and whether it was approved. err is the
// generator's failure, if any.
func (m Model) Result() (message string, approved bool, err error) {
	return m.message, m.approved, m.err
}
