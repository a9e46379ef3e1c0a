package multiplayer

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

// OnlineGame is the interface that games must implement to support online multiplayer.
type OnlineGame interface {
	// Reset initializes the game state.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the game by one tick using input from both players.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the current game state for network transmission.
	Snapshot() GameSnapshot

	// IsGameOver returns true once the match has been decided.
	IsGameOver() bool

	// Winner returns the winning player, or PlayerNone on a draw.
	Winner() PlayerID

	// Score1 returns Player 1's score.
	Score1() int

	// Score2 returns Player 2's score.
	Score2() int

	// Rounds returns the rounds won by each player.
	Rounds() (p1, p2 int)
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Rounds1 int
	Rounds2 int
	Ticks   uint64
}

// inputBurstFactor scales the per-player input budget above the tick rate.
// Clients send at most one frame per tick; the slack absorbs network jitter.
const inputBurstFactor = 2

// OnlineMatch represents an active multiplayer game session.
type OnlineMatch struct {
	id       MatchID
	code     string
	gameID   string
	fighters [2]string
	game     OnlineGame

	player1Session SessionHandle
	player2Session SessionHandle

	// Input handling
	inputMu    sync.Mutex
	lastInput1 core.InputFrame
	lastInput2 core.InputFrame
	inputChan  chan playerInput
	limiters   [2]*rate.Limiter
	dropped    atomic.Uint64

	// Match state
	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	// Disconnect handling
	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch creates a new online match.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	fighters [2]string,
	game OnlineGame,
	p1Session, p2Session SessionHandle,
	tickRate int,
) *OnlineMatch {
	tickRate = max(tickRate, 1)
	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(tickRate*inputBurstFactor), tickRate)
	}
	return &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		fighters:       fighters,
		game:           game,
		player1Session: p1Session,
		player2Session: p2Session,
		lastInput1:     core.NewInputFrame(),
		lastInput2:     core.NewInputFrame(),
		inputChan:      make(chan playerInput, 64),
		limiters:       [2]*rate.Limiter{newLimiter(), newLimiter()},
		tickRate:       tickRate,
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// Fighters returns the fighter picked for each side.
func (m *OnlineMatch) Fighters() [2]string {
	return m.fighters
}

// Sessions returns the sessions playing each side.
func (m *OnlineMatch) Sessions() (p1, p2 SessionHandle) {
	return m.player1Session, m.player2Session
}

// SendInput queues player input for the next tick.
// Input beyond the player's rate budget or a full queue is dropped.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) bool {
	idx := player.Index()
	if idx < 0 || idx > 1 {
		return false
	}
	if !m.limiters[idx].Allow() {
		m.dropped.Add(1)
		return false
	}
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
		return true
	default:
		m.dropped.Add(1)
		return false
	}
}

// DroppedInputs returns how many input frames were discarded.
func (m *OnlineMatch) DroppedInputs() uint64 {
	return m.dropped.Load()
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}()

	tickDuration := time.Second / time.Duration(m.tickRate)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	multiInput.SetPlayer(Player1, m.lastInput1.Clone())
	multiInput.SetPlayer(Player2, m.lastInput2.Clone())
	// Inputs are consumed by this tick
	m.lastInput1.Clear()
	m.lastInput2.Clear()
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	snapshotEvent := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	m.player1Session.Send(snapshotEvent)
	m.player2Session.Send(snapshotEvent)

	if m.game.IsGameOver() {
		return m.result(MatchEndReasonCompleted, m.game.Winner()), true
	}
	return MatchResult{}, false
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	r1, r2 := m.game.Rounds()
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Rounds1: r1,
		Rounds2: r2,
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			// Several frames in one tick are OR'd together
			if pi.player == Player1 {
				m.lastInput1.Merge(pi.input)
			} else {
				m.lastInput2.Merge(pi.input)
			}
		default:
			return
		}
	}
}

// handleDisconnect awards the match to the player who stayed.
func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.player1Session.ID() {
		winner = Player2
	}
	return m.result(MatchEndReasonDisconnect, winner)
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}

// Stop gracefully stops the match.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

// Done returns a channel closed when the match loop has exited.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.done
}
