package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
)

// MenuKind is what a menu entry leads to.
type MenuKind int

const (
	MenuContinue MenuKind = iota
	MenuNewRun
	MenuCharacters
	MenuScores
	MenuQuit
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Kind   MenuKind
	ModeID string
	Title  string
	Detail string
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	deps      Deps
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates a new menu model.
func NewMenuModel(deps Deps, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:     menuItems(deps),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		deps:      deps,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// menuItems lists a Continue entry for every mode with a saved run, then a
// new climb per mode and the secondary screens.
func menuItems(deps Deps) []MenuItem {
	var items []MenuItem
	for _, mode := range skyhop.Modes() {
		snap, ok := skyhop.SavedRun(deps.Profile, mode)
		if !ok {
			continue
		}
		detail := humanize.Comma(int64(snap.Best)) + "m"
		if snap.Timestamp > 0 {
			detail += ", saved " + humanize.Time(time.Unix(snap.Timestamp, 0))
		}
		items = append(items, MenuItem{
			Kind:   MenuContinue,
			ModeID: mode.ID,
			Title:  "Continue " + mode.Title,
			Detail: detail,
		})
	}
	for _, mode := range skyhop.Modes() {
		items = append(items, MenuItem{
			Kind:   MenuNewRun,
			ModeID: mode.ID,
			Title:  "New climb: " + mode.Title,
		})
	}
	return append(items,
		MenuItem{Kind: MenuCharacters, Title: "Characters"},
		MenuItem{Kind: MenuScores, Title: "High scores"},
		MenuItem{Kind: MenuQuit, Title: "Quit"},
	)
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		selected := m.items[m.cursor]
		if selected.Kind == MenuQuit {
			m.quitting = true
			return m, tea.Quit
		}
		m.selected = &selected
		return m, tea.Quit // Exit menu to open the selection
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  S K Y H O P  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.status(), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + item.Title)
		}
		if item.Detail != "" {
			line += menuDimStyle.Render("  (" + item.Detail + ")")
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// status is the wallet and records line.
func (m MenuModel) status() string {
	if m.deps.Profile == nil {
		return "Charge a jump, release, climb."
	}
	p := skyhop.NewProfile(m.deps.Profile, m.deps.Config)
	parts := []string{fmt.Sprintf("drops %s", humanize.Comma(int64(p.Wallet())))}
	for _, mode := range skyhop.Modes() {
		if rec := p.Record(mode.Preset); rec > 0 {
			parts = append(parts, fmt.Sprintf("%s record %sm", mode.Preset, humanize.Comma(int64(rec))))
		}
	}
	return strings.Join(parts, "  |  ")
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunSession runs the menu and the screens it opens in the local terminal
// until the player quits.
func RunSession(deps Deps, cfg core.RuntimeConfig, username string) error {
	p := tea.NewProgram(NewSessionModel(deps, cfg, username), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
