package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

// Lobby represents a waiting room for a match.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiner    SessionHandle
	Fighters  [2]string // Host's pick, then the joiner's
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an empty lobby or rematch offer expires
	TickRate      int           // Game tick rate (Hz)
	CleanupPeriod time.Duration // How often to clean up expired lobbies
	ScreenW       int           // Scene size the server simulates
	ScreenH       int
	JoinRate      rate.Limit // Join attempts per second per session
	JoinBurst     int
	SaveWorkers   int // Concurrent result saves
	Logger        *log.Logger
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
		ScreenW:       80,
		ScreenH:       24,
		JoinRate:      rate.Every(time.Second),
		JoinBurst:     5,
		SaveWorkers:   4,
	}
}

// GameFactory creates game instances for matches.
type GameFactory func(gameID string, fighters [2]string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Fighter1       string
	Fighter2       string
	Score1         int
	Score2         int
	Rounds1        int
	Rounds2        int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// rematchOffer keeps a finished match's sides and picks until both players
// are ready again.
type rematchOffer struct {
	lobby   *Lobby
	ready   [2]bool
	created time.Time
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	logger      *log.Logger
	saves       sizedwaitgroup.SizedWaitGroup
	loops       sync.WaitGroup // Message and cleanup loops
	matchLoops  sync.WaitGroup // Running matches; an ending match may queue a save

	mu        sync.RWMutex
	lobbies   map[string]*Lobby        // code -> lobby
	matches   map[MatchID]*OnlineMatch // matchID -> match
	rematches map[MatchID]*rematchOffer

	// Track which session is in which lobby/match
	sessionLobby   map[SessionID]string  // sessionID -> lobby code
	sessionMatch   map[SessionID]MatchID // sessionID -> matchID
	sessionRematch map[SessionID]MatchID // sessionID -> finished matchID
	joinLimits     map[SessionID]*rate.Limiter

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		config:         cfg,
		gameFactory:    factory,
		sessions:       sessions,
		logger:         logger.WithPrefix("coordinator"),
		saves:          sizedwaitgroup.New(max(cfg.SaveWorkers, 1)),
		lobbies:        make(map[string]*Lobby),
		matches:        make(map[MatchID]*OnlineMatch),
		rematches:      make(map[MatchID]*rematchOffer),
		sessionLobby:   make(map[SessionID]string),
		sessionMatch:   make(map[SessionID]MatchID),
		sessionRematch: make(map[SessionID]MatchID),
		joinLimits:     make(map[SessionID]*rate.Limiter),
		msgChan:        make(chan CoordinatorMessage, 256),
		done:           make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	c.loops.Add(2)
	go func() {
		defer c.loops.Done()
		c.processMessages()
	}()
	go func() {
		defer c.loops.Done()
		c.cleanupLoop()
	}()
}

// Stop shuts down the coordinator, stops running matches and waits for
// pending result saves.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		// No match starts once the message loop has exited.
		c.loops.Wait()

		c.mu.RLock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.RUnlock()
		c.matchLoops.Wait()
	})
	c.saves.Wait()
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	case ReadyForRematchMsg:
		c.handleReadyForRematch(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	c.cancelRematchLocked(msg.SessionID)

	code := c.generateUniqueCode()
	lobby := &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		Fighters:  [2]string{msg.Fighter, ""},
		CreatedAt: time.Now(),
	}
	c.lobbies[code] = lobby
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "game", msg.GameID, "fighter", msg.Fighter, "session", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID, Fighter: msg.Fighter})
}

// allowJoinLocked rate limits join attempts so codes cannot be brute forced.
func (c *Coordinator) allowJoinLocked(id SessionID) bool {
	lim, ok := c.joinLimits[id]
	if !ok {
		burst := max(c.config.JoinBurst, 1)
		limit := c.config.JoinRate
		if limit <= 0 {
			limit = rate.Inf
		}
		lim = rate.NewLimiter(limit, burst)
		c.joinLimits[id] = lim
	}
	return lim.Allow()
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.allowJoinLocked(msg.SessionID) {
		c.logger.Warn("join rate limited", "session", msg.SessionID)
		session.Send(LobbyErrorEvent{Message: "Too many attempts, slow down"})
		return
	}

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Joiner != nil {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}
	c.cancelRematchLocked(msg.SessionID)

	lobby.Joiner = session
	lobby.Fighters[1] = msg.Fighter
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player1,
		OpponentID: msg.SessionID,
		Fighters:   lobby.Fighters,
	})
	session.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player2,
		OpponentID: lobby.Host.ID(),
		Fighters:   lobby.Fighters,
	})

	c.startMatchLocked(lobby, false)
}

// startMatchLocked turns a full lobby into a running match.
// Must be called with the lock held.
func (c *Coordinator) startMatchLocked(lobby *Lobby, rematch bool) {
	matchID := MatchID(fmt.Sprintf("match-%s-%d", lobby.Code, time.Now().UnixNano()))

	cfg := core.RuntimeConfig{
		ScreenW:  c.config.ScreenW,
		ScreenH:  c.config.ScreenH,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	game, err := c.gameFactory(lobby.GameID, lobby.Fighters, cfg)
	if err != nil {
		c.logger.Error("failed to create game", "code", lobby.Code, "err", err)
		for _, s := range []SessionHandle{lobby.Host, lobby.Joiner} {
			s.Send(LobbyErrorEvent{Message: "Failed to create game"})
			delete(c.sessionLobby, s.ID())
		}
		delete(c.lobbies, lobby.Code)
		return
	}

	match := NewOnlineMatch(matchID, lobby.Code, lobby.GameID, lobby.Fighters, game, lobby.Host, lobby.Joiner, c.config.TickRate)

	c.matches[matchID] = match
	hostID := lobby.Host.ID()
	joinerID := lobby.Joiner.ID()

	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID
	delete(c.lobbies, lobby.Code)

	c.logger.Info("match started", "match", matchID, "fighters", lobby.Fighters, "rematch", rematch)

	lobby.Host.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     Player1,
		Code:     lobby.Code,
		Fighters: lobby.Fighters,
		Rematch:  rematch,
	})
	lobby.Joiner.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     Player2,
		Code:     lobby.Code,
		Fighters: lobby.Fighters,
		Rematch:  rematch,
	})

	c.matchLoops.Add(1)
	go func() {
		defer c.matchLoops.Done()
		match.Run(func(result MatchResult) {
			c.handleMatchEnded(matchID, result)
		})
	}()
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	match, exists := c.matches[matchID]
	if !exists {
		c.mu.Unlock()
		return
	}

	p1, p2 := match.Sessions()
	for _, id := range []SessionID{p1.ID(), p2.ID()} {
		delete(c.sessionMatch, id)
	}
	delete(c.matches, matchID)

	// A completed match can be replayed with the same sides and picks.
	if result.Reason == MatchEndReasonCompleted {
		c.rematches[matchID] = &rematchOffer{
			lobby: &Lobby{
				Code:      match.Code(),
				GameID:    match.GameID(),
				Host:      p1,
				Joiner:    p2,
				Fighters:  match.Fighters(),
				CreatedAt: time.Now(),
			},
			created: time.Now(),
		}
		c.sessionRematch[p1.ID()] = matchID
		c.sessionRematch[p2.ID()] = matchID
	}
	c.mu.Unlock()

	c.logger.Info("match ended",
		"match", matchID,
		"reason", result.Reason.String(),
		"winner", int(result.Winner),
		"rounds", fmt.Sprintf("%d-%d", result.Rounds1, result.Rounds2),
	)

	c.saveResult(match, result)

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
		Rounds1: result.Rounds1,
		Rounds2: result.Rounds2,
	}
	p1.Send(endEvent)
	p2.Send(endEvent)
}

// saveResult persists the result in the background; at most SaveWorkers
// saves run at once and Stop waits for them.
func (c *Coordinator) saveResult(match *OnlineMatch, result MatchResult) {
	if c.resultSaver == nil {
		return
	}
	p1, p2 := match.Sessions()
	winnerSession := ""
	switch result.Winner {
	case Player1:
		winnerSession = string(p1.ID())
	case Player2:
		winnerSession = string(p2.ID())
	}

	tickRate := max(1, c.config.TickRate)
	fighters := match.Fighters()
	data := MatchResultData{
		MatchID:        string(match.ID()),
		GameID:         match.GameID(),
		Player1Session: string(p1.ID()),
		Player2Session: string(p2.ID()),
		Fighter1:       fighters[0],
		Fighter2:       fighters[1],
		Score1:         result.Score1,
		Score2:         result.Score2,
		Rounds1:        result.Rounds1,
		Rounds2:        result.Rounds2,
		WinnerSession:  winnerSession,
		EndReason:      result.Reason.String(),
		DurationSecs:   int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
	}

	c.saves.Add()
	go func() {
		defer c.saves.Done()
		if err := c.resultSaver.SaveMatchResult(data); err != nil {
			c.logger.Warn("failed to save match result", "match", data.MatchID, "err", err)
		}
	}()
}

func (c *Coordinator) handleReadyForRematch(msg ReadyForRematchMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offer, ok := c.rematches[msg.MatchID]
	if !ok {
		if s, found := c.sessions.Get(msg.SessionID); found {
			s.Send(LobbyErrorEvent{Message: "Rematch is no longer available"})
		}
		return
	}

	var side, other SessionHandle
	switch msg.SessionID {
	case offer.lobby.Host.ID():
		offer.ready[0] = true
		side, other = offer.lobby.Host, offer.lobby.Joiner
	case offer.lobby.Joiner.ID():
		offer.ready[1] = true
		side, other = offer.lobby.Joiner, offer.lobby.Host
	default:
		return
	}

	if !offer.ready[0] || !offer.ready[1] {
		c.logger.Debug("rematch requested", "match", msg.MatchID, "session", side.ID())
		other.Send(RematchRequestedEvent{MatchID: msg.MatchID})
		return
	}

	delete(c.rematches, msg.MatchID)
	delete(c.sessionRematch, offer.lobby.Host.ID())
	delete(c.sessionRematch, offer.lobby.Joiner.ID())
	c.startMatchLocked(offer.lobby, true)
}

// cancelRematchLocked withdraws a pending rematch offer involving the session
// and tells the other player. Must be called with the lock held.
func (c *Coordinator) cancelRematchLocked(id SessionID) {
	matchID, ok := c.sessionRematch[id]
	if !ok {
		return
	}
	offer := c.rematches[matchID]
	delete(c.rematches, matchID)
	if offer == nil {
		delete(c.sessionRematch, id)
		return
	}
	for _, s := range []SessionHandle{offer.lobby.Host, offer.lobby.Joiner} {
		delete(c.sessionRematch, s.ID())
		if s.ID() != id {
			s.Send(LobbyErrorEvent{Message: "Opponent left"})
		}
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	// Only host can cancel
	if lobby.Host.ID() != msg.SessionID {
		return
	}

	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{
			Reason: MatchEndReasonHostLeft,
		})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}

	delete(c.lobbies, msg.Code)
	delete(c.sessionLobby, msg.SessionID)
	c.logger.Info("lobby cancelled", "code", msg.Code)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
		lobby.Joiner = nil
		lobby.Fighters[1] = ""
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: msg.Code})
		return
	}

	if lobby.Host.ID() == msg.SessionID {
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
			delete(c.sessionLobby, lobby.Joiner.ID())
		}
		delete(c.lobbies, msg.Code)
		delete(c.sessionLobby, msg.SessionID)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	match, exists := c.matches[msg.MatchID]
	if !exists {
		// Leaving the results screen declines the rematch.
		c.cancelRematchLocked(msg.SessionID)
	}
	c.mu.Unlock()

	if exists {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}

	match.SendInput(msg.Player, msg.Input)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			if lobby.Host.ID() == msg.SessionID {
				if lobby.Joiner != nil {
					lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
					delete(c.sessionLobby, lobby.Joiner.ID())
				}
				delete(c.lobbies, code)
			} else if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
				lobby.Joiner = nil
				lobby.Fighters[1] = ""
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}

	c.cancelRematchLocked(msg.SessionID)
	delete(c.joinLimits, msg.SessionID)
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired(time.Now())
		case <-c.done:
			return
		}
	}
}

// cleanupExpired drops lobbies nobody joined and rematch offers nobody took.
func (c *Coordinator) cleanupExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
			c.logger.Debug("lobby expired", "code", code)
		}
	}
	for matchID, offer := range c.rematches {
		if now.Sub(offer.created) > c.config.LobbyTimeout {
			delete(c.rematches, matchID)
			delete(c.sessionRematch, offer.lobby.Host.ID())
			delete(c.sessionRematch, offer.lobby.Joiner.ID())
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	code := base32.StdEncoding.EncodeToString(b)[:6]
	return strings.ToUpper(code)
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of active lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

// RematchCount returns the number of pending rematch offers.
func (c *Coordinator) RematchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rematches)
}
