package config

import (
	"embed"
)

//go:embed defaults/fighter.yaml
var defaultFighterYAML []byte

//go:embed defaults/chars/*.def
var defaultChars embed.FS

// DefaultFighterConfig returns the built-in rules.
// Used when the embedded YAML cannot be parsed.
func DefaultFighterConfig() FighterConfig {
	return FighterConfig{
		Stage: StageConfig{
			Width:          160,
			Padding:        4,
			FloorOffset:    3,
			ScrollBoundary: 10,
			StartDistance:  11,
		},
		Round: RoundConfig{
			HitPoints:    144,
			TimerSeconds: 99,
			TimerFrames:  40,
			RoundsToWin:  2,
			EndDelay:     180,
			IntroFrames:  90,
		},
		Attacks: AttackTable{
			Light:  AttackData{Score: 100, Damage: 12},
			Medium: AttackData{Score: 300, Damage: 20},
			Heavy:  AttackData{Score: 500, Damage: 28},
		},
		StruckDelay: 15,
		Physics: PhysicsConfig{
			Gravity:   0.025,
			Knockback: 0.35,
			Friction:  0.9,
		},
		CPU: CPUConfig{
			SlowReaction:  30,
			FastReaction:  6,
			Aggression:    0.35,
			FireballRange: 30,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20000,
			},
		},
	}
}

// DefaultYAML returns the embedded default rules file.
func DefaultYAML() []byte {
	return defaultFighterYAML
}
