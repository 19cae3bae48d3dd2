package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

// MenuItem is one game mode in the picker.
type MenuItem struct {
	GameID      string
	Title       string
	Description string
	Best        int // high score, 0 when unknown
	BestCascade int // longest recorded cascade, 0 when unknown
}

// record is the "best" column shown next to a mode.
func (it MenuItem) record() string {
	switch {
	case it.Best > 0 && it.BestCascade > 1:
		return fmt.Sprintf("best %d, chain x%d", it.Best, it.BestCascade)
	case it.Best > 0:
		return fmt.Sprintf("best %d", it.Best)
	}
	return "not played yet"
}

// menuItems builds the picker entries from the registry and, when a store is
// available, each mode's records.
func menuItems(store *storage.Store) []MenuItem {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title, Description: g.Description}
		if store != nil {
			if st, err := store.GetGameStats(g.ID); err == nil {
				item.Best = st.HighScore
				item.BestCascade = st.BestCascade
			}
		}
		items = append(items, item)
	}
	return items
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuPickStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	menuDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuTileStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	}
)

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:     menuItems(store),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
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
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = max(0, m.cursor-1)

	case MenuActionDown:
		m.cursor = min(len(m.items)-1, m.cursor+1)

	case MenuActionSelect:
		if len(m.items) > 0 {
			picked := m.items[m.cursor]
			m.selected = &picked
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

// banner is the title drawn as a row of tile glyphs.
func banner() string {
	glyphs := []string{"●", "■", "▲", "◆", "★"}
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(menuTileStyles[i].Render(g))
	}
	return b.String() + "  " + menuTitleStyle.Render("M A T C H - 3") + "  " + b.String()
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(banner(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuDimStyle.Render("Swap neighbouring tiles to line up three or more"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		marker, style := "  ", lipgloss.NewStyle()
		if i == m.cursor {
			marker, style = "> ", menuPickStyle
		}
		head := marker + style.Render(item.Title) + "  " + menuDimStyle.Render("("+item.record()+")")
		b.WriteString(centerText(head, m.width))
		b.WriteString("\n")
		if item.Description != "" {
			b.WriteString(centerText(menuDimStyle.Render(item.Description), m.width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText pads a single line so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerBlock centers every line of a multi-line block as a unit.
func centerBlock(block string, width int) string {
	if width <= lipgloss.Width(block) {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result, nil
}
