package config

import "math"

// DifficultyManager maps session progress to a 0..1 difficulty level
// used to tune the CPU opponent.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty (0.0 to 1.0) for a player score and elapsed frames.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// ReactionFrames interpolates the CPU decision interval for a level.
// Higher levels react faster; the result is never below one frame.
func (d *DifficultyManager) ReactionFrames(cpu CPUConfig, level float64) int {
	slow := float64(cpu.SlowReaction)
	fast := float64(cpu.FastReaction)
	frames := slow + (fast-slow)*clampF(level, 0, 1)
	return max(1, int(math.Round(frames)))
}

// Aggression scales the configured aggression by level, capped at 1.
func (d *DifficultyManager) Aggression(cpu CPUConfig, level float64) float64 {
	return clampF(cpu.Aggression*(0.5+level), 0, 1)
}

func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
