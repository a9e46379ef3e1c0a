package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in cells
	ScreenH  int   // Screen height in cells
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is reported by a game after every step.
type GameState struct {
	Score    int  // Player 1 score
	GameOver bool // The match has been decided
	Paused   bool
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}

// FrameTime is the clock handed to every update call.
// Previous is the timestamp of the frame being simulated, SecondsPassed the
// time elapsed since the frame before it.
type FrameTime struct {
	SecondsPassed float64
	Previous      time.Duration
}

// Advance records a new frame timestamp and returns the updated clock.
// The first call after a zero value reports no elapsed time.
func (f FrameTime) Advance(now time.Duration) FrameTime {
	if f.Previous == 0 || now < f.Previous {
		return FrameTime{Previous: now}
	}
	return FrameTime{
		SecondsPassed: (now - f.Previous).Seconds(),
		Previous:      now,
	}
}

// FixedFrameTime returns the simulated clock for a given tick at a fixed rate.
// Simulation code uses it instead of wall time so replays stay deterministic.
func FixedFrameTime(tick uint64, tickRate int) FrameTime {
	if tickRate <= 0 {
		tickRate = 60
	}
	step := time.Second / time.Duration(tickRate)
	return FrameTime{
		SecondsPassed: step.Seconds(),
		Previous:      time.Duration(tick) * step,
	}
}
