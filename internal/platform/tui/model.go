package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/registry"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

// localPlayers is implemented by games that can be shared by two people at one keyboard.
type localPlayers interface {
	LocalPlayers() int
}

// matchRecord is implemented by games that report per-fighter results.
type matchRecord interface {
	FighterIDs() (p1, p2 fighter.FighterID)
	Rounds() (p1, p2 int)
}

// highScorer is implemented by games that show the recorded best in their HUD.
type highScorer interface {
	SetHighScore(score int)
}

// Model is the Bubble Tea model for running a local match.
type Model struct {
	game      registry.Game
	multi     registry.MultiPlayerGame // nil unless two people share the keyboard
	observer  registry.FrameObserver
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	keys      *KeyMapper
	held      *HeldInput
	gameState core.GameState

	start time.Time
	clock core.FrameTime

	menuEnabled bool // Esc on a finished or paused match returns to the menu
	quitting    bool
	backToMenu  bool
	scoreSaved  bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:  store,
		config: cfg,
		keys:   NewKeyMapper(),
		held:   NewHeldInput(cfg.TickRate),
	}
	if lp, ok := game.(localPlayers); ok && lp.LocalPlayers() == 2 {
		if multi, ok := game.(registry.MultiPlayerGame); ok {
			m.multi = multi
			m.keys.Versus = true
		}
	}
	m.observer, _ = game.(registry.FrameObserver)
	return m
}

// newMenuGameModel creates a model that can hand control back to a menu.
func newMenuGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	m := NewModel(game, store, cfg)
	m.menuEnabled = true
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.loadHighScore()
	// Note: gameState will be set on first tick (value receiver limitation)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	player, action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionBack:
		if m.menuEnabled && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
			return m, nil
		}
		action = core.ActionPause
	case core.ActionRestart:
		if !m.gameState.GameOver {
			return m, nil
		}
	}

	m.held.Press(player, action)
	return m, nil
}

// handleResize processes window resize events.
// The battle scene adapts its camera on the next draw, so the match keeps going.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	input := m.held.Frame()

	if input.Player1().Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.loadHighScore()
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.held.Release()
		return m, tickCmd(m.config.TickRate)
	}

	var result core.StepResult
	if m.multi != nil {
		result = m.multi.StepMulti(input)
	} else {
		result = m.game.Step(input.Player1())
	}
	m.gameState = result.State

	if m.observer != nil {
		if m.start.IsZero() {
			m.start = now
		}
		m.clock = m.clock.Advance(now.Sub(m.start) + time.Nanosecond)
		m.observer.ObserveFrame(m.clock)
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// saveScore records Player 1's result. Versus scores are kept too, under their own mode.
func (m Model) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	fighterID, rounds := "", 0
	if rec, ok := m.game.(matchRecord); ok {
		p1, _ := rec.FighterIDs()
		fighterID = string(p1)
		rounds, _ = rec.Rounds()
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveScore(m.game.ID(), fighterID, m.gameState.Score, rounds)
}

// loadHighScore hands the mode's recorded best to the game.
func (m Model) loadHighScore() {
	hs, ok := m.game.(highScorer)
	if !ok || m.store == nil {
		return
	}
	if high, err := m.store.HighScore(m.game.ID()); err == nil {
		hs.SetHighScore(high)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".fighter", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, store, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
