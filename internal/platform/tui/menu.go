package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
	"github.com/vovakirdan/tui-fighter/internal/registry"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

// MenuItem represents a selectable mode in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Mode   multiplayer.MatchMode
}

// menuStage is the screen the menu is showing.
type menuStage int

const (
	stageMode menuStage = iota
	stageFighter
)

// fighterChoice is a roster entry on the select screen.
type fighterChoice struct {
	ID   fighter.FighterID
	Name string
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	menuCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// matchModes maps registered mode IDs to how the fighters are controlled.
var matchModes = map[string]multiplayer.MatchMode{
	"fight":    multiplayer.MatchModeVsCPU,
	"versus":   multiplayer.MatchModeLocalVersus,
	"training": multiplayer.MatchModeTraining,
}

// MenuModel is the Bubble Tea model for mode and fighter selection.
type MenuModel struct {
	items     []MenuItem
	roster    []fighterChoice
	cursor    int
	stage     menuStage
	chosen    int // Index of the mode picked on the first screen
	picking   int // Slot whose fighter is being chosen
	picks     [2]fighter.FighterID
	width     int
	height    int
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem // Set once both stages are done

	openScoreboard bool // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a menu listing the registered local modes.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	return newMenuModel(store, cfg, false)
}

// newMenuModel creates a menu, adding the online entry when a lobby server is available.
func newMenuModel(store *storage.Store, cfg core.RuntimeConfig, online bool) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+1)

	for _, g := range games {
		mode, ok := matchModes[g.ID]
		if !ok {
			continue
		}
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title, Mode: mode})
	}
	if online {
		items = append(items, MenuItem{
			GameID: "versus",
			Title:  "Online (host or join)",
			Mode:   multiplayer.MatchModeOnlinePvP,
		})
	}

	p1, p2 := fighter.Picks()
	return MenuModel{
		items:     items,
		roster:    loadRosterChoices(),
		picks:     [2]fighter.FighterID{p1, p2},
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

func loadRosterChoices() []fighterChoice {
	choices := make([]fighterChoice, 0, len(fighter.Roster))
	for _, id := range fighter.Roster {
		name := strings.ToUpper(string(id))
		if def, err := config.LoadCharacter(string(id)); err == nil && def.Info.DisplayName != "" {
			name = def.Info.DisplayName
		}
		choices = append(choices, fighterChoice{ID: id, Name: name})
	}
	return choices
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
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if m.stage == stageFighter {
		return m.handleFighterKey(action)
	}

	switch action {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			m.chosen = m.cursor
			m.stage = stageFighter
			m.picking = 0
			m.cursor = m.rosterIndex(m.picks[0])
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

func (m MenuModel) handleFighterKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.roster)-1 {
			m.cursor++
		}

	case MenuActionBack:
		if m.picking > 0 {
			m.picking--
			m.cursor = m.rosterIndex(m.picks[m.picking])
			return m, nil
		}
		m.stage = stageMode
		m.cursor = m.chosen

	case MenuActionSelect:
		if len(m.roster) == 0 {
			return m, nil
		}
		m.picks[m.picking] = m.roster[m.cursor].ID
		if m.picking+1 < m.slots() {
			m.picking++
			m.cursor = m.rosterIndex(m.picks[m.picking])
			return m, nil
		}
		item := m.items[m.chosen]
		m.selected = &item
		return m, tea.Quit // Exit menu to start game
	}

	return m, nil
}

// current returns the highlighted mode, or the chosen one on the fighter screen.
func (m MenuModel) current() MenuItem {
	if m.stage == stageMode {
		return m.items[m.cursor]
	}
	return m.items[m.chosen]
}

// slots is how many fighters are chosen on this menu. Online players pick their own only.
func (m MenuModel) slots() int {
	if m.current().Mode == multiplayer.MatchModeOnlinePvP {
		return 1
	}
	return 2
}

func (m MenuModel) rosterIndex(id fighter.FighterID) int {
	for i, c := range m.roster {
		if c.ID == id {
			return i
		}
	}
	return 0
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.stage == stageFighter {
		return m.viewFighters()
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  F I G H T E R  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a mode", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuHintStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) viewFighters() string {
	var b strings.Builder

	item := m.current()
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render(strings.ToUpper(item.Title)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Choose %s", m.slotLabel(item.Mode, m.picking)), m.width))
	b.WriteString("\n\n")

	for i, c := range m.roster {
		line := "  " + c.Name
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + c.Name)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.picking > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("%s: %s", m.slotLabel(item.Mode, 0), m.nameOf(m.picks[0])), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render("Up/Down: Navigate  |  Enter: Pick  |  Esc: Back"), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) slotLabel(mode multiplayer.MatchMode, slot int) string {
	if slot == 0 {
		if mode == multiplayer.MatchModeOnlinePvP {
			return "your fighter"
		}
		return "Player 1"
	}
	switch mode {
	case multiplayer.MatchModeVsCPU:
		return "the CPU opponent"
	case multiplayer.MatchModeTraining:
		return "the training dummy"
	default:
		return "Player 2"
	}
}

func (m MenuModel) nameOf(id fighter.FighterID) string {
	for _, c := range m.roster {
		if c.ID == id {
			return c.Name
		}
	}
	return string(id)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Fighters returns the characters picked for each side.
func (m MenuModel) Fighters() [2]fighter.FighterID {
	return m.picks
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

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Mode            multiplayer.MatchMode
	Fighters        [2]fighter.FighterID
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}

// Result summarizes the menu's final state.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config(), Fighters: m.picks}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.GameID = m.Selected().GameID
		result.Mode = m.Selected().Mode
	}
	return result
}
