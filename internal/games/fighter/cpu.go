package fighter

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
)

// cpuStep is a scripted input held for a number of frames.
type cpuStep struct {
	actions []core.Action // ActionRight stands for "forward" and is flipped when facing left
	frames  int
}

// CPU drives a fighter from the game state. It is deterministic for a given seed.
type CPU struct {
	rng        *rand.Rand
	cfg        config.CPUConfig
	difficulty *config.DifficultyManager
	level      float64

	cooldown int
	held     []core.Action
	plan     []cpuStep
}

// NewCPU creates a CPU opponent.
func NewCPU(seed int64, cfg config.CPUConfig, difficulty *config.DifficultyManager) *CPU {
	return &CPU{
		rng:        rand.New(rand.NewSource(seed)),
		cfg:        cfg,
		difficulty: difficulty,
	}
}

// SetLevel sets the skill level between 0 and 1.
func (c *CPU) SetLevel(level float64) {
	c.level = core.ClampF(level, 0, 1)
}

// Level returns the current skill level.
func (c *CPU) Level() float64 { return c.level }

// Think returns the input for self this frame.
func (c *CPU) Think(self, opp *Fighter) core.InputFrame {
	if len(c.plan) > 0 {
		step := &c.plan[0]
		in := c.emit(self, step.actions)
		step.frames--
		if step.frames <= 0 {
			c.plan = c.plan[1:]
		}
		return in
	}

	c.cooldown--
	if c.cooldown > 0 {
		return c.emit(self, c.held)
	}
	c.cooldown = c.reaction() + c.rng.Intn(3)
	return c.emit(self, c.decide(self, opp))
}

func (c *CPU) reaction() int {
	if c.difficulty == nil {
		return max(1, c.cfg.SlowReaction)
	}
	return c.difficulty.ReactionFrames(c.cfg, c.level)
}

func (c *CPU) aggression() float64 {
	if c.difficulty == nil {
		return c.cfg.Aggression
	}
	return c.difficulty.Aggression(c.cfg, c.level)
}

// decide picks the next action set and may queue a scripted motion.
func (c *CPU) decide(self, opp *Fighter) []core.Action {
	c.held = nil
	dist := math.Abs(opp.Position.X - self.Position.X)
	aggr := c.aggression()
	roll := c.rng.Float64()

	switch {
	case !opp.Grounded() && dist < 8 && roll < 0.3+c.level*0.6:
		// Anti-air.
		return []core.Action{core.ActionHeavyPunch}

	case dist > c.cfg.FireballRange*0.4 && self.fireball == nil && roll < aggr:
		punches := []core.Action{core.ActionLightPunch, core.ActionMediumPunch, core.ActionHeavyPunch}
		c.plan = []cpuStep{
			{actions: []core.Action{core.ActionDown}, frames: 3},
			{actions: []core.Action{core.ActionDown, core.ActionRight}, frames: 2},
			{actions: []core.Action{core.ActionRight, punches[c.rng.Intn(len(punches))]}, frames: 1},
		}
		return nil

	case dist <= 5:
		if roll < 0.35+aggr {
			attacks := []core.Action{
				core.ActionLightPunch, core.ActionMediumPunch, core.ActionHeavyPunch,
				core.ActionLightKick, core.ActionMediumKick, core.ActionHeavyKick,
			}
			return []core.Action{attacks[c.rng.Intn(len(attacks))]}
		}
		if roll < 0.8 {
			c.held = []core.Action{core.ActionLeft}
		} else {
			c.held = []core.Action{core.ActionDown}
		}
		return c.held

	default:
		switch {
		case roll < 0.08*(1+aggr):
			c.plan = []cpuStep{{actions: []core.Action{core.ActionUp, core.ActionRight}, frames: 4}}
			return nil
		case roll < 0.5+aggr/2:
			c.held = []core.Action{core.ActionRight}
		case roll < 0.85:
			c.held = nil
		default:
			c.held = []core.Action{core.ActionLeft}
		}
		return c.held
	}
}

// emit converts forward-relative actions into an input frame for self's facing.
func (c *CPU) emit(self *Fighter, actions []core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		if self.Direction == Left {
			switch a {
			case core.ActionRight:
				a = core.ActionLeft
			case core.ActionLeft:
				a = core.ActionRight
			}
		}
		in.Set(a)
	}
	return in
}
