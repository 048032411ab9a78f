// Package tui renders the interactive menus when stdin is a terminal.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrQuit is returned by Choose when the menu was dismissed without a choice.
var ErrQuit = errors.New("menu dismissed")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "back"),
	),
}

// Model is a single-choice menu. Options can be picked with the arrow keys
// or by their 1-based number.
type Model struct {
	Title    string
	Options  []string
	Cursor   int
	Chosen   int
	Quitting bool
}

func NewModel(title string, options []string) Model {
	return Model{Title: title, Options: options, Chosen: -1}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case key.Matches(keyMsg, keys.Select):
		m.Chosen = m.Cursor
		return m, tea.Quit
	default:
		if s := keyMsg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if n := int(s[0] - '1'); n < len(m.Options) {
				m.Cursor = n
				m.Chosen = n
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.Chosen >= 0 || m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title))
	b.WriteString("\n\n")
	for i, opt := range m.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		if i == m.Cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(strings.Join([]string{
		keys.Up.Help().Key + " " + keys.Up.Help().Desc,
		keys.Down.Help().Key + " " + keys.Down.Help().Desc,
		keys.Select.Help().Key + " " + keys.Select.Help().Desc,
		keys.Quit.Help().Key + " " + keys.Quit.Help().Desc,
	}, " • ")))
	b.WriteString("\n")
	return b.String()
}

// Choose runs the menu on in/out and returns the chosen option's index.
func Choose(title string, options []string, in io.Reader, out io.Writer) (int, error) {
	p := tea.NewProgram(NewModel(title, options), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return -1, err
	}
	m, ok := final.(Model)
	if !ok || m.Chosen < 0 {
		return -1, ErrQuit
	}
	return m.Chosen, nil
}

// ScoreBar renders pct (0-100) as a gradient bar.
func ScoreBar(pct float64, width int) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width))
	return bar.ViewAs(pct / 100)
}
