// Package config loads fighter rules from YAML and character definitions
// from INI files, and manages the difficulty presets of the CPU opponent.
package config

// FighterConfig contains every tunable rule of a match.
type FighterConfig struct {
	Stage       StageConfig      `yaml:"stage"`
	Round       RoundConfig      `yaml:"round"`
	Attacks     AttackTable      `yaml:"attacks"`
	StruckDelay int              `yaml:"struck_delay"` // Hitstop length in frames
	Physics     PhysicsConfig    `yaml:"physics"`
	CPU         CPUConfig        `yaml:"cpu"`
	Difficulty  DifficultyConfig `yaml:"difficulty"`
}

// StageConfig defines stage geometry in screen cells.
type StageConfig struct {
	Width          float64 `yaml:"width"`
	Padding        float64 `yaml:"padding"`
	FloorOffset    int     `yaml:"floor_offset"` // Rows between the floor line and the bottom of the screen
	ScrollBoundary float64 `yaml:"scroll_boundary"`
	StartDistance  float64 `yaml:"start_distance"` // Distance of each fighter from the stage mid point
}

// MidPoint returns the centre of the walkable stage.
func (s StageConfig) MidPoint() float64 {
	return s.Width/2 - s.Padding
}

// RoundConfig defines round timing and win conditions.
type RoundConfig struct {
	HitPoints    int `yaml:"hit_points"`
	TimerSeconds int `yaml:"timer_seconds"`
	TimerFrames  int `yaml:"timer_frames"` // Frames per countdown step
	RoundsToWin  int `yaml:"rounds_to_win"`
	EndDelay     int `yaml:"end_delay"`
	IntroFrames  int `yaml:"intro_frames"`
}

// AttackData is the reward and cost of a landed attack.
type AttackData struct {
	Score  int `yaml:"score"`
	Damage int `yaml:"damage"`
}

// AttackTable holds AttackData per attack strength.
type AttackTable struct {
	Light  AttackData `yaml:"light"`
	Medium AttackData `yaml:"medium"`
	Heavy  AttackData `yaml:"heavy"`
}

// PhysicsConfig holds values shared by every fighter.
type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`
	Knockback float64 `yaml:"knockback"`
	Friction  float64 `yaml:"friction"`
}

// CPUConfig tunes the computer opponent.
type CPUConfig struct {
	SlowReaction  int     `yaml:"slow_reaction"` // Frames between decisions at difficulty 0
	FastReaction  int     `yaml:"fast_reaction"` // Frames between decisions at difficulty 1
	Aggression    float64 `yaml:"aggression"`
	FireballRange float64 `yaml:"fireball_range"`
}

// DifficultyConfig defines how the CPU opponent gets stronger during a session.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines what drives difficulty upward.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score or frames at which max difficulty is reached
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ValidPreset reports whether s names a known preset. Empty is valid and means "use config".
func ValidPreset(s string) bool {
	switch DifficultyPreset(s) {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return true
	}
	return false
}
