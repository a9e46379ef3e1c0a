package fighter

// FighterState is the per-slot record of a match: who plays, how they are doing.
type FighterState struct {
	ID        FighterID
	Score     int
	HitPoints int
	RoundsWon int
}

// Phase is the stage of the current round.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseFight
	PhaseRoundOver
	PhaseMatchOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseFight:
		return "fight"
	case PhaseRoundOver:
		return "round over"
	case PhaseMatchOver:
		return "match over"
	default:
		return "unknown"
	}
}

// RoundResult explains how a round ended.
type RoundResult int

const (
	RoundUndecided RoundResult = iota
	RoundKO
	RoundTimeOver
	RoundDraw
)

// BattleState is shared between the scene, the fighters and the overlays.
// Fighters are indexed by slot: 0 for Player 1, 1 for Player 2.
type BattleState struct {
	Fighters    [2]FighterState
	Round       int
	Timer       int // Seconds left on the round clock
	Phase       Phase
	PhaseFrames int // Frames spent in the current phase
	Result      RoundResult
	Winner      int // Slot that won the last round, -1 for none
	MatchWinner int // Slot that won the match, -1 while undecided
}

// NewBattleState creates the state for a fresh match.
func NewBattleState(p1, p2 FighterID, hitPoints, timer int) *BattleState {
	return &BattleState{
		Fighters: [2]FighterState{
			{ID: p1, HitPoints: hitPoints},
			{ID: p2, HitPoints: hitPoints},
		},
		Round:       1,
		Timer:       timer,
		Winner:      -1,
		MatchWinner: -1,
	}
}

// resetRound refills hit points and the clock, keeping scores and round wins.
func (s *BattleState) resetRound(hitPoints, timer int) {
	for i := range s.Fighters {
		s.Fighters[i].HitPoints = hitPoints
	}
	s.Timer = timer
	s.Phase = PhaseIntro
	s.PhaseFrames = 0
	s.Result = RoundUndecided
	s.Winner = -1
}
