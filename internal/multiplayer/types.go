// Package multiplayer provides lobbies, authoritative online matches and the
// session plumbing between them. Local modes use the match types for labels.
package multiplayer

import "github.com/vovakirdan/tui-fighter/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is the left slot (lobby host online), Player2 the right slot.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a game match.
type MatchID string

// MatchMode defines who controls each fighter.
type MatchMode int

const (
	// MatchModeVsCPU is player vs the CPU fighter.
	MatchModeVsCPU MatchMode = iota

	// MatchModeLocalVersus is two players sharing one keyboard.
	MatchModeLocalVersus

	// MatchModeTraining is a player against a standing dummy.
	MatchModeTraining

	// MatchModeOnlinePvP is two sessions paired through a lobby.
	MatchModeOnlinePvP
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeVsCPU:
		return "vs CPU"
	case MatchModeLocalVersus:
		return "Versus"
	case MatchModeTraining:
		return "Training"
	case MatchModeOnlinePvP:
		return "Online PvP"
	default:
		return "Unknown"
	}
}

// MatchHandle provides access to match metadata.
type MatchHandle interface {
	// ID returns the unique identifier for this match.
	ID() MatchID

	// Mode returns how this match is configured.
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
// Platform creates matches and passes handles to games.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs tracks which sessions are part of this match.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
