package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
	"github.com/vovakirdan/tui-fighter/internal/registry"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

// sessionEventBuffer is how many coordinator events a slow client may lag behind.
const sessionEventBuffer = 256

// sessionKey stores the multiplayer session in the SSH context.
type sessionKey struct{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.fighter/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of online matches and local sessions.
	TickRate int

	// LobbyTimeout is how long an unjoined lobby or rematch offer lives.
	LobbyTimeout time.Duration

	// Logger receives server and coordinator logs. Nil uses stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		DBPath:       "~/.fighter/scores.db",
		IdleTimeout:  30 * time.Minute,
		TickRate:     fighter.FrameRate,
		LobbyTimeout: 2 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server hosting local play and online versus.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "fighter-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = max(cfg.TickRate, 1)
	if cfg.LobbyTimeout > 0 {
		coordCfg.LobbyTimeout = cfg.LobbyTimeout
	}
	coordCfg.Logger = logger

	sessions := multiplayer.NewSessionRegistry()
	coordinator := multiplayer.NewCoordinator(coordCfg, newOnlineGame, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".fighter", "host_key")
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middleware runs last to first: logging, then session setup, then the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// newOnlineGame builds the authoritative game for a lobby's fighter picks.
func newOnlineGame(_ string, fighters [2]string, cfg core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	p1, err := fighter.ParseFighterID(fighters[0])
	if err != nil {
		return nil, err
	}
	p2, err := fighter.ParseFighterID(fighters[1])
	if err != nil {
		return nil, err
	}
	g := fighter.NewOnline(p1, p2)
	g.Reset(cfg)
	if err := g.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// sessionMiddleware registers a coordinator session for each connection
// and tells the coordinator when it goes away.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		session := multiplayer.NewChannelSession(newSessionID(sshSession.User()), sessionEventBuffer)
		s.sessions.Register(session)
		sshSession.Context().SetValue(sessionKey{}, session)

		next(sshSession)

		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
		s.sessions.Unregister(session.ID())
		session.Close()
		if n := session.Dropped(); n > 0 {
			s.logger.Warn("session lagged", "session", session.ID(), "dropped_events", n)
		}
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}
	session, ok := sshSession.Context().Value(sessionKey{}).(*multiplayer.ChannelSession)
	if !ok {
		s.logger.Error("session middleware missing", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(s.store, cfg, session, s.coordinator)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coordinator.Stop()
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Coordinator returns the lobby coordinator.
func (s *SSHServer) Coordinator() *multiplayer.Coordinator {
	return s.coordinator
}

// fighterPicker is implemented by games whose characters can be chosen per instance.
type fighterPicker interface {
	Pick(p1, p2 fighter.FighterID)
}

// sessionScreen is the screen a SessionModel is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScoreboard
	screenLobby
	screenOnlineMatch
)

// SessionModel manages the full session flow over SSH:
// menu, local match, scoreboard, lobby and online match.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	session     *multiplayer.ChannelSession
	coordinator *multiplayer.Coordinator

	screen      sessionScreen
	menu        MenuModel
	gameModel   Model
	scoreboard  ScoreboardModel
	lobby       OnlineLobbyModel
	onlineMatch OnlineMatchModel
	quitting    bool
}

// NewSessionModel creates a new session model. A nil coordinator hides the online entry.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	session *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator,
) SessionModel {
	return SessionModel{
		store:       store,
		config:      cfg,
		session:     session,
		coordinator: coordinator,
		menu:        newMenuModel(store, cfg, coordinator != nil && session != nil),
	}
}

// sessionID returns the multiplayer session ID, empty outside SSH.
func (m SessionModel) sessionID() string {
	if m.session == nil {
		return ""
	}
	return string(m.session.ID())
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.session == nil {
		return m.menu.Init()
	}
	return tea.Batch(m.menu.Init(), waitForEvent(m.session.Events()))
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if evt, ok := msg.(multiplayer.SessionEvent); ok {
		return m.handleEvent(evt)
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenLobby:
		return m.updateLobby(msg)
	case screenOnlineMatch:
		return m.updateOnlineMatch(msg)
	default:
		return m.updateMenu(msg)
	}
}

// handleEvent routes a coordinator event and waits for the next one.
func (m SessionModel) handleEvent(evt multiplayer.SessionEvent) (tea.Model, tea.Cmd) {
	next := waitForEvent(m.session.Events())

	switch m.screen {
	case screenLobby:
		newLobby, _ := m.lobby.Update(evt)
		m.lobby = newLobby.(OnlineLobbyModel)
		if m.lobby.State() == OnlineStateInMatch {
			m.onlineMatch = NewOnlineMatchModel(m.lobby.Started(), m.session.ID(), m.coordinator, m.config)
			m.screen = screenOnlineMatch
			return m, tea.Batch(next, m.onlineMatch.Init())
		}
	case screenOnlineMatch:
		newMatch, _ := m.onlineMatch.Update(evt)
		m.onlineMatch = newMatch.(OnlineMatchModel)
	}
	return m, next
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	m.menu = newMenu.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scoreboard = newSessionScoreboard(m.store, m.config.ScreenW, m.config.ScreenH, m.sessionID())
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		return m.startSelection(m.menu.Selected(), m.menu.Fighters())
	}

	return m, cmd
}

// startSelection opens a local match or the lobby for the picked mode.
func (m SessionModel) startSelection(item *MenuItem, picks [2]fighter.FighterID) (tea.Model, tea.Cmd) {
	m.config = m.menu.Config()

	if item.Mode == multiplayer.MatchModeOnlinePvP {
		m.lobby = NewOnlineLobbyModel(item.GameID, picks[0], m.session.ID(), m.coordinator, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenLobby
		return m, m.lobby.Init()
	}

	game, err := registry.Create(item.GameID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		m.menu = m.newMenu()
		return m, nil
	}
	if p, ok := game.(fighterPicker); ok {
		p.Pick(picks[0], picks[1])
	}

	m.gameModel = newMenuGameModel(game, m.store, m.config)
	m.screen = screenGame
	return m, m.gameModel.Init()
}

func (m SessionModel) newMenu() MenuModel {
	return newMenuModel(m.store, m.config, m.coordinator != nil && m.session != nil)
}

// backToMenu resets the menu and shows it.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	m.gameModel = newModel.(Model)

	if m.gameModel.BackToMenu() {
		return m.backToMenu()
	}
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	m.scoreboard = newModel.(ScoreboardModel)

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.lobby.Update(msg)
	m.lobby = newModel.(OnlineLobbyModel)

	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.lobby.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateOnlineMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.onlineMatch.Update(msg)
	m.onlineMatch = newModel.(OnlineMatchModel)

	if m.onlineMatch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.onlineMatch.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenLobby:
		return m.lobby.View()
	case screenOnlineMatch:
		return m.onlineMatch.View()
	default:
		return m.menu.View()
	}
}
