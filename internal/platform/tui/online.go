package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
)

// joinCodeLen is the length of lobby codes handed out by the coordinator.
const joinCodeLen = 6

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateInMatch                          // Match started, the match view takes over
)

// waitForEvent returns a command that delivers the next coordinator event.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		evt, ok := <-events
		if !ok {
			return nil
		}
		return evt
	}
}

// OnlineLobbyModel handles hosting and joining a lobby.
// Coordinator events are delivered by the owner through Update.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	gameID      string
	fighter     fighter.FighterID
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Match state
	started  multiplayer.MatchStartedEvent
	opponent string // Opponent's fighter once someone joined

	// Result state
	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	gameID string,
	pick fighter.FighterID,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		gameID:      gameID,
		fighter:     pick,
		sessionID:   sessionID,
		coordinator: coordinator,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.opponent = msg.Fighters[msg.Side.Other().Index()]
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
	case multiplayer.LobbyPlayerLeftEvent:
		m.opponent = ""
	case multiplayer.MatchStartedEvent:
		m.started = msg
		m.state = OnlineStateInMatch
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

// leave withdraws from whatever lobby this session is in.
func (m OnlineLobbyModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	}
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.joinError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
			Fighter:   string(m.fighter),
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.backToMenu = true
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		m.joinError = ""
	case "enter":
		if len(m.joinCodeInput) == joinCodeLen {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
				Fighter:   string(m.fighter),
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Accept alphanumeric input for code
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}
	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	switch m.state {
	case OnlineStateChooseMode:
		lines = []string{
			"ONLINE VERSUS", "",
			fmt.Sprintf("Fighting as %s", strings.ToUpper(string(m.fighter))), "",
			"[H] Host a match",
			"[J] Join a match", "",
		}
		if m.joinError != "" {
			lines = append(lines, "Error: "+m.joinError, "")
		}
		lines = append(lines, "Esc: Back  |  Q: Quit")
	case OnlineStateHostWaiting:
		lines = []string{
			"HOSTING MATCH", "",
			"Share this code with your opponent:", "",
			fmt.Sprintf("[ %s ]", m.lobbyCode), "",
			"Waiting for a challenger...", "",
			"Esc: Cancel  |  Q: Quit",
		}
	case OnlineStateJoinEnterCode:
		code := m.joinCodeInput
		if len(code) < joinCodeLen {
			code += "_" + strings.Repeat(" ", joinCodeLen-1-len(code))
		}
		lines = []string{
			"JOIN MATCH", "",
			"Enter the match code:", "",
			fmt.Sprintf("[ %s ]", code),
		}
		if m.joinError != "" {
			lines = append(lines, "", "Error: "+m.joinError)
		}
		lines = append(lines, "", "Enter: Connect  |  Esc: Back")
	case OnlineStateJoinWaiting:
		lines = []string{
			"CONNECTING", "",
			fmt.Sprintf("Joining match: %s", m.joinCodeInput), "",
			"Please wait...", "",
			"Esc: Cancel",
		}
	case OnlineStateInMatch:
		lines = []string{"MATCH STARTING", "", "Get ready!"}
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// Started returns the event that started the match.
func (m OnlineLobbyModel) Started() multiplayer.MatchStartedEvent {
	return m.started
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// OnlineMatchModel shows an online match. The server simulates, this view
// sends local input for its side and draws the snapshots it receives.
type OnlineMatchModel struct {
	matchID     multiplayer.MatchID
	side        core.PlayerID
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	game        *fighter.Game
	screen      *core.Screen
	config      core.RuntimeConfig
	keys        *KeyMapper
	held        *HeldInput

	lastTick   uint64
	ended      *multiplayer.MatchEndedEvent
	rematchAsk bool // Opponent asked for a rematch
	rematchOK  bool // This side asked for a rematch
	notice     string

	backToMenu bool
	quitting   bool
}

// NewOnlineMatchModel creates the view for a started match.
func NewOnlineMatchModel(
	started multiplayer.MatchStartedEvent,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	cfg core.RuntimeConfig,
) OnlineMatchModel {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	m := OnlineMatchModel{
		sessionID:   sessionID,
		coordinator: coordinator,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:      cfg,
		keys:        NewKeyMapper(),
		held:        NewHeldInput(cfg.TickRate),
	}
	m.start(started)
	return m
}

// start resets the view for a new match or a rematch.
func (m *OnlineMatchModel) start(evt multiplayer.MatchStartedEvent) {
	p1, err := fighter.ParseFighterID(evt.Fighters[0])
	if err != nil {
		p1 = fighter.Ken
	}
	p2, err := fighter.ParseFighterID(evt.Fighters[1])
	if err != nil {
		p2 = fighter.Ryu
	}

	m.matchID = evt.MatchID
	m.side = evt.Side
	m.game = fighter.NewOnline(p1, p2)
	m.game.Reset(m.config)
	m.lastTick = 0
	m.ended = nil
	m.rematchAsk = false
	m.rematchOK = false
	m.notice = ""
	m.held.Release()
}

// Init starts the input loop.
func (m OnlineMatchModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)

	case TickMsg:
		return m.handleTick()

	case multiplayer.SnapshotEvent:
		if msg.MatchID != m.matchID || msg.Tick < m.lastTick {
			return m, nil
		}
		if snap, ok := msg.Snapshot.(fighter.Snapshot); ok {
			m.game.ApplySnapshot(snap)
			m.lastTick = msg.Tick
		}

	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID {
			m.ended = &msg
			m.held.Release()
		}

	case multiplayer.RematchRequestedEvent:
		if msg.MatchID == m.matchID {
			m.rematchAsk = true
		}

	case multiplayer.LobbyErrorEvent:
		m.notice = msg.Message
		m.rematchOK = false

	case multiplayer.MatchStartedEvent:
		m.start(msg)
	}
	return m, nil
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		m.leave()
		m.backToMenu = true
		return m, nil
	case core.ActionRestart:
		if m.ended != nil && m.ended.Reason == multiplayer.MatchEndReasonCompleted && !m.rematchOK && m.notice == "" {
			m.rematchOK = true
			m.coordinator.Send(multiplayer.ReadyForRematchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		}
		return m, nil
	case core.ActionNone, core.ActionPause:
		return m, nil
	}

	if m.ended == nil {
		// Both halves of the keyboard steer this side.
		m.held.Press(core.Player1, action)
	}
	return m, nil
}

func (m OnlineMatchModel) leave() {
	m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
}

// handleTick forwards this side's input to the server.
func (m OnlineMatchModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}
	input := m.held.Frame().Player1()
	if len(input.Actions) > 0 && m.ended == nil {
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.lastTick,
			Input:    input,
		})
	}
	m.game.ObserveFrame(core.FixedFrameTime(m.lastTick, m.config.TickRate))
	return m, tickCmd(m.config.TickRate)
}

// View renders the latest snapshot and the end-of-match panel.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.ended != nil {
		m.screen.DrawMessageBox(m.resultLines(), core.ColorBrightYellow)
	}
	return RenderScreen(m.screen)
}

func (m OnlineMatchModel) resultLines() []string {
	e := m.ended
	title := "DRAW"
	switch {
	case e.Reason != multiplayer.MatchEndReasonCompleted:
		title = e.Reason.String()
	case e.Winner == m.side:
		title = "YOU WIN"
	case e.Winner != core.PlayerNone:
		title = "YOU LOSE"
	}

	lines := []string{
		title,
		fmt.Sprintf("Rounds %d - %d   Score %d - %d", e.Rounds1, e.Rounds2, e.Score1, e.Score2),
	}
	switch {
	case m.notice != "":
		lines = append(lines, m.notice, "Esc: Menu")
	case e.Reason != multiplayer.MatchEndReasonCompleted:
		lines = append(lines, "Esc: Menu")
	case m.rematchOK:
		lines = append(lines, "Waiting for opponent...", "Esc: Menu")
	case m.rematchAsk:
		lines = append(lines, "Opponent wants a rematch!", "R: Accept  |  Esc: Menu")
	default:
		lines = append(lines, "R: Rematch  |  Esc: Menu")
	}
	return lines
}

// BackToMenu returns true if user left the match.
func (m OnlineMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}

// Game returns the local mirror of the server's match.
func (m OnlineMatchModel) Game() *fighter.Game {
	return m.game
}

// newSessionID builds a session identifier unique to one connection.
func newSessionID(user string) multiplayer.SessionID {
	return multiplayer.SessionID(fmt.Sprintf("%s-%d", user, time.Now().UnixNano()))
}
