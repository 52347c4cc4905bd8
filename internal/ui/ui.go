// Package ui provides interactive terminal pickers built on bubbletea.
// Pickers render to stderr so command output on stdout stays pipeable.
package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user dismisses a picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

var (
	accentColor = lipgloss.Color("#7FDBFF")

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B0B0B")).
			Background(accentColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8")).
			Faint(true)

	docStyle = lipgloss.NewStyle().Margin(1, 2)
)

// pickItem carries the original index so a selection made while the list
// is filtered still maps back to the caller's slice.
type pickItem struct {
	index int
	label string
}

func (i pickItem) Title() string       { return i.label }
func (i pickItem) Description() string { return "" }
func (i pickItem) FilterValue() string { return i.label }

type pickModel struct {
	list   list.Model
	choice int
}

func newPickModel(prompt string, items []string) *pickModel {
	entries := make([]list.Item, len(items))
	for i, label := range items {
		entries[i] = pickItem{index: i, label: label}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accentColor).
		Foreground(accentColor).
		Padding(0, 0, 0, 1)

	l := list.New(entries, delegate, 80, 20)
	l.Title = prompt
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.InfiniteScrolling = true

	return &pickModel{list: l, choice: -1}
}

func (m *pickModel) Init() tea.Cmd { return nil }

func (m *pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		frameW, frameH := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-frameW, msg.Height-frameH)
		return m, nil
	case tea.KeyMsg:
		// While the filter prompt is open, every key belongs to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(pickItem); ok {
				m.choice = it.index
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.choice = -1
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickModel) View() string {
	return docStyle.Render(m.list.View())
}

// Select presents items in a full-screen picker and returns the chosen index.
// Returns ErrCancelled when the user quits without choosing.
func Select(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	model := newPickModel(prompt, items)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	result, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}

	m, ok := result.(*pickModel)
	if !ok || m.choice < 0 {
		return -1, ErrCancelled
	}
	return m.choice, nil
}

// Confirm asks the user a yes/no question.
func Confirm(prompt string) (bool, error) {
	idx, err := Select(prompt, []string{"Yes", "No"})
	if err != nil {
		return false, err
	}
	return idx == 0, nil
}

type inputModel struct {
	input    textinput.Model
	accepted bool
}

func newInputModel(prompt string) *inputModel {
	ti := textinput.New()
	ti.Prompt = prompt + " > "
	ti.CharLimit = 120
	ti.Width = 60
	ti.Focus()
	return &inputModel{input: ti}
}

func (m *inputModel) Init() tea.Cmd { return textinput.Blink }

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.accepted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.accepted = false
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	return m.input.View() + "\n" + helpStyle.Render("enter confirm · esc cancel") + "\n"
}

// Input prompts for a single line of free text, rendered inline below the
// current prompt rather than on the alt screen.
func Input(prompt string) (string, error) {
	model := newInputModel(prompt)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	result, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running input prompt: %w", err)
	}

	m, ok := result.(*inputModel)
	if !ok || !m.accepted {
		return "", ErrCancelled
	}

	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return "", fmt.Errorf("no input provided")
	}
	return value, nil
}
