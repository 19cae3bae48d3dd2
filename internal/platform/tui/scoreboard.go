package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

const (
	maxScores     = 100
	maxRuns       = 50
	boardChrome   = 9 // title, stats, tabs, borders and help around the table
	minTableRows  = 3
	scoreDateForm = "Jan 02 15:04"
)

// boardView selects what the scoreboard table lists.
type boardView int

const (
	viewScores boardView = iota // top scores
	viewRuns                    // recent runs with cascade statistics
)

func (v boardView) String() string {
	if v == viewRuns {
		return "Recent runs"
	}
	return "Top scores"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Toggle   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Toggle, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Toggle, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextMode: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		PrevMode: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Toggle:   key.NewBinding(key.WithKeys("v", "enter"), key.WithHelp("v", "scores/runs")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows, per game mode, either the top scores or the most
// recent runs with their cascade statistics.
type ScoreboardModel struct {
	modes     []registry.GameInfo
	mode      int
	view      boardView
	store     *storage.Store
	stats     *storage.GameStats
	scores    []storage.ScoreEntry
	runs      []storage.RunRecord
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard over every registered mode.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modes:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.reload()
	return m
}

// columns returns the table layout for the current view.
func (m *ScoreboardModel) columns() []table.Column {
	if m.view == viewRuns {
		return []table.Column{
			{Title: "Score", Width: 8},
			{Title: "Swaps", Width: 6},
			{Title: "Chain", Width: 6},
			{Title: "Cleared", Width: 8},
			{Title: "Trunc", Width: 6},
			{Title: "Shuffles", Width: 9},
			{Title: "Date", Width: 13},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Date", Width: 13},
	}
}

// rows converts the loaded records for the current view.
func (m *ScoreboardModel) rows() []table.Row {
	if m.view == viewRuns {
		rows := make([]table.Row, len(m.runs))
		for i, r := range m.runs {
			rows[i] = table.Row{
				strconv.Itoa(r.Score),
				strconv.Itoa(r.Swaps),
				strconv.Itoa(r.MaxCascade),
				strconv.Itoa(r.TilesCleared),
				strconv.Itoa(r.Truncated),
				strconv.Itoa(r.Reshuffles),
				r.CreatedAt.Format(scoreDateForm),
			}
		}
		return rows
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			strconv.Itoa(s.Score),
			s.CreatedAt.Format(scoreDateForm),
		}
	}
	return rows
}

// reload fetches the current mode's records and rebuilds the table.
func (m *ScoreboardModel) reload() {
	m.stats, m.scores, m.runs = nil, nil, nil
	if m.store != nil && len(m.modes) > 0 {
		id := m.modes[m.mode].ID
		if st, err := m.store.GetGameStats(id); err == nil {
			m.stats = st
		}
		if scores, err := m.store.TopScores(id, maxScores); err == nil {
			m.scores = scores
		}
		if runs, err := m.store.RecentRuns(id, maxRuns); err == nil {
			m.runs = runs
		}
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(minTableRows, m.height-boardChrome)),
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
	m.table = t
}

func (m *ScoreboardModel) switchMode(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.mode = (m.mode + delta + len(m.modes)) % len(m.modes)
	m.reload()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.switchMode(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.switchMode(-1)
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.view = 1 - m.view
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// summary is the one-line aggregate shown under the title.
func (m ScoreboardModel) summary() string {
	st := m.stats
	if st == nil || st.GamesCount == 0 {
		return "No games recorded"
	}
	line := fmt.Sprintf("%d games  best %d  avg %.0f", st.GamesCount, st.HighScore, st.AvgScore)
	if st.BestCascade > 0 {
		line += fmt.Sprintf("  longest cascade %d", st.BestCascade)
	}
	return line
}

// tabs renders the mode selector.
func (m ScoreboardModel) tabs() string {
	active := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)

	parts := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.mode {
			parts[i] = active.Render(g.Title)
		} else {
			parts[i] = idle.Render(g.Title)
		}
	}
	return strings.Join(parts, " ")
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(title.Render("HIGH SCORES - "+m.view.String()), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dim.Render(m.summary()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")

	var body string
	switch {
	case len(m.table.Rows()) > 0:
		body = m.table.View()
	case m.view == viewRuns:
		body = dim.Italic(true).Padding(1, 2).Render("No runs recorded yet.\nFinish a game to record its cascades.")
	default:
		body = dim.Italic(true).Padding(1, 2).Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	b.WriteString(centerBlock(frame.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(dim.Render(m.help.View(m.keys)))

	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
