package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/vovakirdan/tui-fighter/internal/registry"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show mode list sidebar
	sidebarWidth       = 22  // Width of mode list sidebar
	maxScores          = 100 // Max scores to load
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev mode"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next mode"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next mode"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Pseudo-modes listing online matches: everyone's recent ones, and the ones
// played from the current SSH connection.
const (
	onlineTab    = "online"
	myMatchesTab = "mine"
)

func isMatchTab(id string) bool {
	return id == onlineTab || id == myMatchesTab
}

// scoreTab is one page of the scoreboard.
type scoreTab struct {
	ID    string
	Title string
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	games       []scoreTab // Modes, then online history
	gameCursor  int        // Currently selected tab index
	store       *storage.Store
	rows        []table.Row
	bests       []storage.FighterBest
	stats       *storage.GameStats
	sessionID   string // Set inside an SSH session to list its own matches
	names       map[string]string // Fighter ID to display name
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show game list sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	return newScoreboardAt(store, width, height, "")
}

// newSessionScoreboard creates the scoreboard for an SSH session, with an
// extra tab for the matches that session played.
func newSessionScoreboard(store *storage.Store, width, height int, sessionID string) ScoreboardModel {
	return newScoreboard(store, width, height, "", sessionID)
}

// newScoreboardAt creates a scoreboard opened on the given mode, or the first one.
func newScoreboardAt(store *storage.Store, width, height int, gameID string) ScoreboardModel {
	return newScoreboard(store, width, height, gameID, "")
}

func newScoreboard(store *storage.Store, width, height int, gameID, sessionID string) ScoreboardModel {
	tabs := make([]scoreTab, 0, 5)
	for _, g := range registry.List() {
		tabs = append(tabs, scoreTab{ID: g.ID, Title: g.Title})
	}
	tabs = append(tabs, scoreTab{ID: onlineTab, Title: "Online matches"})
	if sessionID != "" {
		tabs = append(tabs, scoreTab{ID: myMatchesTab, Title: "Your matches"})
	}

	names := make(map[string]string)
	for _, c := range loadRosterChoices() {
		names[string(c.ID)] = c.Name
	}

	keys := DefaultScoreboardKeyMap()
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		games:       tabs,
		store:       store,
		sessionID:   sessionID,
		names:       names,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, t := range tabs {
		if t.ID == gameID {
			m.gameCursor = i
		}
	}

	m.table = m.createTable()
	m.loadScores(m.games[m.gameCursor].ID)

	return m
}

// createTable creates a new table with columns for the current tab.
func (m *ScoreboardModel) createTable() table.Model {
	// Calculate available width for table
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	var columns []table.Column
	if isMatchTab(m.games[m.gameCursor].ID) {
		columns = []table.Column{
			{Title: "Fighters", Width: 16},
			{Title: "Score", Width: 15},
			{Title: "Rounds", Width: 7},
			{Title: "Length", Width: 12},
			{Title: "When", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Fighter", Width: 10},
			{Title: "Score", Width: 9},
			{Title: "Rounds", Width: 7},
			{Title: "When", Width: 14},
		}
	}

	// Give spare room to the last column
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := tableWidth - used; spare > 0 {
		columns[len(columns)-1].Width += min(spare, 10)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-11, 3)), // Leave room for header, bests, stats, help
	)

	// Table styles
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

// loadScores loads the rows for the given tab.
func (m *ScoreboardModel) loadScores(gameID string) {
	m.rows, m.bests, m.stats = nil, nil, nil
	if m.store != nil {
		switch gameID {
		case onlineTab:
			if matches, err := m.store.RecentOnlineMatches(maxScores); err == nil {
				m.rows = onlineRows(matches, m.names, time.Now())
			}
		case myMatchesTab:
			if matches, err := m.store.PlayerMatchHistory(m.sessionID, maxScores); err == nil {
				m.rows = onlineRows(matches, m.names, time.Now())
			}
		default:
			if scores, err := m.store.TopScores(gameID, maxScores); err == nil {
				m.rows = scoreRows(scores, m.names, time.Now())
			}
			if bests, err := m.store.FighterBests(gameID); err == nil {
				m.bests = bests
			}
			if stats, err := m.store.GetGameStats(gameID); err == nil {
				m.stats = stats
			}
		}
	}
	m.table = m.createTable()
	m.updateTableRows()
}

// updateTableRows updates the table with current rows.
func (m *ScoreboardModel) updateTableRows() {
	m.table.SetRows(m.rows)

	// Reset cursor to top
	m.table.GotoTop()
}

func displayName(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	if id == "" {
		return "?"
	}
	return strings.ToUpper(id)
}

// scoreRows formats local results, best first.
func scoreRows(scores []storage.ScoreEntry, names map[string]string, now time.Time) []table.Row {
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			displayName(names, s.FighterID),
			humanize.Comma(int64(s.Score)),
			fmt.Sprintf("%d", s.RoundsWon),
			humanize.RelTime(s.CreatedAt, now, "ago", "from now"),
		}
	}
	return rows
}

// onlineRows formats online match history, newest first.
func onlineRows(matches []storage.OnlineMatchResult, names map[string]string, now time.Time) []table.Row {
	rows := make([]table.Row, len(matches))
	for i, r := range matches {
		rows[i] = table.Row{
			displayName(names, r.Fighter1) + " vs " + displayName(names, r.Fighter2),
			humanize.Comma(int64(r.Score1)) + "-" + humanize.Comma(int64(r.Score2)),
			fmt.Sprintf("%d-%d", r.Rounds1, r.Rounds2),
			matchLength(r.Duration),
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
		}
	}
	return rows
}

// shortUnits renders durations as "1m 5s".
var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// matchLength renders a match duration in its two largest units.
func matchLength(secs int) string {
	if secs <= 0 {
		return "-"
	}
	return durafmt.Parse(time.Duration(secs) * time.Second).LimitFirstN(2).Format(shortUnits)
}

// bestsLine summarizes each character's best score.
func bestsLine(bests []storage.FighterBest, names map[string]string) string {
	if len(bests) == 0 {
		return ""
	}
	parts := make([]string, len(bests))
	for i, b := range bests {
		parts[i] = fmt.Sprintf("%s %s (%d %s)",
			displayName(names, b.FighterID), humanize.Comma(int64(b.HighScore)),
			b.Matches, plural(b.Matches, "match", "matches"))
	}
	return "Best: " + strings.Join(parts, "  ")
}

// statsLine summarizes every recorded result of a mode.
func statsLine(st *storage.GameStats, now time.Time) string {
	if st == nil || st.GamesCount == 0 {
		return ""
	}
	line := fmt.Sprintf("%s %s  avg %s  %s %s won",
		humanize.Comma(int64(st.GamesCount)), plural(st.GamesCount, "match", "matches"),
		humanize.Comma(int64(math.Round(st.AvgScore))),
		humanize.Comma(int64(st.RoundsWon)), plural(st.RoundsWon, "round", "rounds"))
	if !st.LastPlayed.IsZero() {
		line += "  last played " + humanize.RelTime(st.LastPlayed, now, "ago", "from now")
	}
	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.NextGame), key.Matches(msg, m.keys.Right):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.loadScores(m.games[m.gameCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame), key.Matches(msg, m.keys.Left):
			if len(m.games) > 0 {
				m.gameCursor--
				if m.gameCursor < 0 {
					m.gameCursor = len(m.games) - 1
				}
				m.loadScores(m.games[m.gameCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("HIGH SCORES - %s", m.games[m.gameCursor].Title)

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: game tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with sidebar for game selection.
func (m ScoreboardModel) renderWideLayout() string {
	// Sidebar (game list)
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.games {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.gameCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := g.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableContent := m.renderTableContent()
	tableRendered := tableStyle.Render(tableContent)

	// Join horizontally
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the scoreboard with game tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	// Game tabs (horizontal)
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		shortName := g.Title
		if len(shortName) > 10 {
			shortName = shortName[:9] + "."
		}
		if i == m.gameCursor {
			tabs[i] = activeTabStyle.Render(shortName)
		} else {
			tabs[i] = tabStyle.Render(" " + shortName + " ")
		}
	}

	// Wrap tabs if needed
	tabLine := strings.Join(tabs, " ")
	if len(tabLine) > m.width-4 {
		// Just show current game with arrows
		current := m.games[m.gameCursor].Title
		tabLine = fmt.Sprintf("< %s >", current)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		switch m.games[m.gameCursor].ID {
		case onlineTab:
			return emptyStyle.Render("No online matches yet.\nHost one from the SSH menu!")
		case myMatchesTab:
			return emptyStyle.Render("You have not finished an online match yet.\nHost or join one from the menu!")
		}
		return emptyStyle.Render("No scores recorded yet.\nWin a match to set a high score!")
	}

	view := m.table.View()
	if line := bestsLine(m.bests, m.names); line != "" {
		view += "\n\n" + line
	}
	if line := statsLine(m.stats, time.Now()); line != "" {
		view += "\n" + line
	}
	return view
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
	return RunScoreboardFor(store, width, height, "")
}

// RunScoreboardFor runs the scoreboard opened on one mode's tab.
func RunScoreboardFor(store *storage.Store, width, height int, gameID string) (goBack bool, err error) {
	model := newScoreboardAt(store, width, height, gameID)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

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
