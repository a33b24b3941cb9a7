package chooser

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"certflow/internal/modules/resolver/domain"
	"certflow/internal/ui/theme"
)

// Result is the outcome of one menu.
type Result struct {
	Index       int
	Aborted     bool
	Interrupted bool
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Choose    key.Binding
	Abort     key.Binding
	Interrupt key.Binding
}

func newKeyMap(abortLabel string) keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Choose:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Abort:     key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", strings.ToLower(abortLabel))),
		Interrupt: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Up, k.Down, k.Choose}
	if k.Abort.Enabled() {
		bindings = append(bindings, k.Abort)
	}
	return bindings
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Interrupt}}
}

type choiceItem struct {
	index  int
	choice domain.Choice
}

func (i choiceItem) FilterValue() string { return i.choice.Label }

// choiceDelegate renders one numbered line per choice; disabled choices are
// muted and carry their reason.
type choiceDelegate struct{}

func (choiceDelegate) Height() int                             { return 1 }
func (choiceDelegate) Spacing() int                            { return 0 }
func (choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(choiceItem)
	if !ok {
		return
	}
	cursor := "  "
	if index == m.Index() {
		cursor = theme.Cursor.Render("> ")
	}
	line := fmt.Sprintf("%d: %s", ci.index+1, ci.choice.Label)
	switch {
	case ci.choice.Disabled:
		line = theme.Muted.Render(line + " (" + ci.choice.DisabledReason + ")")
	case index == m.Index():
		line = theme.Selected.Render(line)
	}
	if ci.choice.Default {
		line += theme.Default.Render(" [default]")
	}
	fmt.Fprint(w, cursor+line)
}

// Model is a single-question menu. The program quits once an answer is
// given; read it with Result.
type Model struct {
	list       list.Model
	keys       keyMap
	help       help.Model
	allowAbort bool
	result     Result
	done       bool
	flash      string
}

func New(prompt string, choices []domain.Choice, allowAbort bool, abortLabel string) Model {
	items := make([]list.Item, len(choices))
	selected := 0
	for i, choice := range choices {
		items[i] = choiceItem{index: i, choice: choice}
		if choice.Default {
			selected = i
		}
	}

	height := len(choices) + 4
	if height > 20 {
		height = 20
	}
	l := list.New(items, choiceDelegate{}, 80, height)
	l.Title = prompt
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.Select(selected)

	keys := newKeyMap(abortLabel)
	keys.Abort.SetEnabled(allowAbort)
	return Model{list: l, keys: keys, help: help.New(), allowAbort: allowAbort}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Interrupt):
			m.result = Result{Interrupted: true}
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Abort):
			m.result = Result{Aborted: true}
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Choose):
			item, ok := m.list.SelectedItem().(choiceItem)
			if !ok {
				return m, nil
			}
			if item.choice.Disabled {
				m.flash = item.choice.Label + " is not available: " + item.choice.DisabledReason
				return m, nil
			}
			m.result = Result{Index: item.index}
			m.done = true
			return m, tea.Quit
		}
	}
	m.flash = ""
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.list.View())
	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(theme.Hot.Render(m.flash) + "\n")
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Result reports the answer; ok is false while the menu is still open.
func (m Model) Result() (Result, bool) {
	return m.result, m.done
}

// Selected is the index of the highlighted choice.
func (m Model) Selected() int {
	if item, ok := m.list.SelectedItem().(choiceItem); ok {
		return item.index
	}
	return -1
}
