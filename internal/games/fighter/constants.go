// Package fighter implements a one-on-one fighting game on a scrolling stage.
//
// A BattleScene owns two fighters, a camera that follows them, their floor
// shadows, short-lived entities such as hit splashes and fireballs, and the
// HUD overlays. Game wraps the scene behind registry.Game so the terminal and
// canvas platforms can drive it at a fixed frame rate.
package fighter

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-fighter/internal/config"
)

// FrameRate is the number of simulation frames per second.
const FrameRate = 60

// FrameDuration is the simulated time covered by one frame.
const FrameDuration = time.Second / FrameRate

// FighterID identifies a playable character.
type FighterID string

const (
	Ken FighterID = "ken"
	Ryu FighterID = "ryu"
)

// Roster lists every playable character in select-screen order.
var Roster = []FighterID{Ken, Ryu}

// ParseFighterID resolves a character name given on the command line or in a lobby.
func ParseFighterID(s string) (FighterID, error) {
	for _, id := range Roster {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFighter, s)
}

// Direction is the way a fighter faces. It doubles as the sign of forward motion.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// AttackStrength selects damage, score, hit splash and fireball speed.
type AttackStrength int

const (
	Light AttackStrength = iota
	Medium
	Heavy
)

func (s AttackStrength) String() string {
	switch s {
	case Light:
		return "light"
	case Medium:
		return "medium"
	case Heavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// AttackType tells punches from kicks.
type AttackType int

const (
	AttackNone AttackType = iota
	AttackPunch
	AttackKick
)

// HurtLocation names the hurt box an attack connected with.
type HurtLocation int

const (
	HurtHead HurtLocation = iota
	HurtBody
	HurtFeet
)

var (
	// ErrUnknownFighter is returned when a fighter id has no character class.
	ErrUnknownFighter = errors.New("fighter: unknown fighter id")

	// ErrUnknownStrength is returned when an attack strength has no hit splash.
	ErrUnknownStrength = errors.New("fighter: unknown attack strength")
)

// baseData returns the score awarded and damage dealt for a landed attack.
func baseData(table config.AttackTable, s AttackStrength) (config.AttackData, error) {
	switch s {
	case Light:
		return table.Light, nil
	case Medium:
		return table.Medium, nil
	case Heavy:
		return table.Heavy, nil
	default:
		return config.AttackData{}, fmt.Errorf("%w: %d", ErrUnknownStrength, s)
	}
}

// SpecialInputWindow is the number of frames a fireball motion
// (down, down-forward, forward + punch) may take.
const SpecialInputWindow = 20
