package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/skyhop/internal/games/skyhop"
)

// CharactersKeyMap defines the key bindings for the character shop.
type CharactersKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k CharactersKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k CharactersKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Back, k.Quit}}
}

// DefaultCharactersKeyMap returns default key bindings.
func DefaultCharactersKeyMap() CharactersKeyMap {
	return CharactersKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "buy/equip")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// CharactersModel lists the characters and lets the player buy or equip.
type CharactersModel struct {
	profile   *skyhop.Profile
	deps      Deps
	table     table.Model
	help      help.Model
	keys      CharactersKeyMap
	message   string
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewCharactersModel creates the character shop. It needs a profile store.
func NewCharactersModel(deps Deps, width, height int) CharactersModel {
	m := CharactersModel{
		deps:   deps,
		help:   help.New(),
		keys:   DefaultCharactersKeyMap(),
		width:  width,
		height: height,
	}
	if deps.Profile != nil {
		m.profile = skyhop.NewProfile(deps.Profile, deps.Config)
	}
	m.table = m.createTable()
	m.updateRows()
	return m
}

func (m *CharactersModel) createTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 2},
			{Title: "Name", Width: 12},
			{Title: "Price", Width: 8},
			{Title: "Jump", Width: 6},
			{Title: "Gravity", Width: 8},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 4)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *CharactersModel) updateRows() {
	chars := m.deps.Config.Characters
	rows := make([]table.Row, len(chars))
	equipped := ""
	if m.profile != nil {
		equipped = m.profile.Equipped().ID
	}
	for i, ch := range chars {
		status := "locked"
		switch {
		case ch.ID == equipped:
			status = "equipped"
		case m.profile != nil && m.profile.IsUnlocked(ch.ID):
			status = "owned"
		}
		rows[i] = table.Row{
			ch.Glyph,
			ch.Name,
			humanize.Comma(int64(ch.Price)),
			fmt.Sprintf("%.1f", ch.Stats.JumpForce),
			fmt.Sprintf("%.2f", ch.Stats.Gravity),
			status,
		}
	}
	m.table.SetRows(rows)
}

// Init initializes the model.
func (m CharactersModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CharactersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.choose()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// choose buys a locked character or equips an owned one.
func (m *CharactersModel) choose() {
	chars := m.deps.Config.Characters
	i := m.table.Cursor()
	if m.profile == nil || i < 0 || i >= len(chars) {
		m.message = "Progress is not saved in this session."
		return
	}
	ch := chars[i]
	bought := false
	if !m.profile.IsUnlocked(ch.ID) {
		if err := m.profile.Buy(ch.ID); err != nil {
			m.message = err.Error()
			return
		}
		bought = true
	}
	if err := m.profile.Equip(ch.ID); err != nil {
		m.message = err.Error()
		return
	}
	m.message = fmt.Sprintf("%s equipped.", ch.Name)
	if bought {
		m.message = fmt.Sprintf("Unlocked %s! Equipped.", ch.Name)
	}
	m.deps.logger().Info("character equipped", "character", ch.ID, "bought", bought)
	m.updateRows()
}

// View renders the shop.
func (m CharactersModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("CHARACTERS"), m.width))
	b.WriteString("\n\n")

	wallet := "-"
	if m.profile != nil {
		wallet = humanize.Comma(int64(m.profile.Wallet()))
	}
	b.WriteString(centerText("drops: "+wallet, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

// Message returns the last shop message.
func (m CharactersModel) Message() string {
	return m.message
}

// IsGoingBack returns true if user wants to go back to menu.
func (m CharactersModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m CharactersModel) IsQuitting() bool {
	return m.quitting
}

// RunCharacters runs the character shop. Returns true to go back to menu.
func RunCharacters(deps Deps, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewCharactersModel(deps, width, height), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(CharactersModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
