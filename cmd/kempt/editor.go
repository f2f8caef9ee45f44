package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/unbound-force/kempt/internal/session"
)

// editorKeyMap defines keybindings for the source editor.
type editorKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Cancel}}
}

var defaultEditorKeys = editorKeyMap{
	Submit: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "format")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

var editorTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("51")).
	MarginBottom(1)

// editorModel is the Bubble Tea model for entering a snippet.
type editorModel struct {
	prompt    string
	textarea  textarea.Model
	help      help.Model
	keys      editorKeyMap
	submitted bool
	canceled  bool
}

func newEditorModel(prompt string) editorModel {
	ta := textarea.New()
	ta.Placeholder = "def main(): ..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(100)
	ta.SetHeight(20)
	ta.Focus()

	return editorModel{
		prompt:   prompt,
		textarea: ta,
		help:     help.New(),
		keys:     defaultEditorKeys,
	}
}

func (m editorModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.textarea.SetWidth(msg.Width)
		m.textarea.SetHeight(max(msg.Height-4, 3))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.submitted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m editorModel) View() string {
	if m.submitted || m.canceled {
		return ""
	}
	return editorTitleStyle.Render(m.prompt) + "\n" +
		m.textarea.View() + "\n" +
		m.help.View(m.keys)
}

// source returns the entered text with a trailing newline, or io.EOF
// when the editor was canceled.
func (m editorModel) source() (string, error) {
	if m.canceled || !m.submitted {
		return "", io.EOF
	}
	v := m.textarea.Value()
	if v != "" && !strings.HasSuffix(v, "\n") {
		v += "\n"
	}
	return v, nil
}

// editorTerminal collects source with the editor and everything else
// line by line.
type editorTerminal struct {
	*session.LineTerminal
	in  io.Reader
	out io.Writer
}

// ReadSource implements session.Terminal.
func (t *editorTerminal) ReadSource(prompt string) (string, error) {
	p := tea.NewProgram(newEditorModel(prompt), tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running editor: %w", err)
	}
	return final.(editorModel).source()
}
