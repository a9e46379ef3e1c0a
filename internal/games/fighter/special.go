package fighter

import "github.com/vovakirdan/tui-fighter/internal/core"

// controls is one frame of input seen from the fighter's facing.
type controls struct {
	up, down          bool
	forward, backward bool

	lightPunch, mediumPunch, heavyPunch bool
	lightKick, mediumKick, heavyKick    bool
}

func readControls(in core.InputFrame, dir Direction) controls {
	c := controls{
		up:          in.Has(core.ActionUp),
		down:        in.Has(core.ActionDown),
		lightPunch:  in.Has(core.ActionLightPunch),
		mediumPunch: in.Has(core.ActionMediumPunch),
		heavyPunch:  in.Has(core.ActionHeavyPunch),
		lightKick:   in.Has(core.ActionLightKick),
		mediumKick:  in.Has(core.ActionMediumKick),
		heavyKick:   in.Has(core.ActionHeavyKick),
	}
	left, right := in.Has(core.ActionLeft), in.Has(core.ActionRight)
	if left && right {
		return c
	}
	if dir == Right {
		c.forward, c.backward = right, left
	} else {
		c.forward, c.backward = left, right
	}
	return c
}

// punch returns the strongest punch pressed this frame.
func (c controls) punch() (AttackStrength, bool) {
	switch {
	case c.heavyPunch:
		return Heavy, true
	case c.mediumPunch:
		return Medium, true
	case c.lightPunch:
		return Light, true
	}
	return 0, false
}

// stick is the direction part of the input, relative to facing.
type stick int

const (
	stickNeutral stick = iota
	stickDown
	stickDownForward
	stickForward
	stickOther
)

func (c controls) stick() stick {
	switch {
	case c.down && c.forward:
		return stickDownForward
	case c.down && !c.backward:
		return stickDown
	case c.forward && !c.up:
		return stickForward
	case !c.up && !c.down && !c.forward && !c.backward:
		return stickNeutral
	default:
		return stickOther
	}
}

type motionEntry struct {
	stick stick
	frame uint64
}

// motionBuffer remembers recent stick changes for special move detection.
type motionBuffer struct {
	history []motionEntry
}

const motionHistory = 8

// record stores the stick position when it changes.
func (b *motionBuffer) record(s stick, frame uint64) {
	if n := len(b.history); n > 0 && b.history[n-1].stick == s {
		return
	}
	b.history = append(b.history, motionEntry{stick: s, frame: frame})
	if len(b.history) > motionHistory {
		b.history = b.history[len(b.history)-motionHistory:]
	}
}

// fireball reports whether down, optionally down-forward, then forward was
// entered within SpecialInputWindow frames of now, ending on forward.
func (b *motionBuffer) fireball(now uint64) bool {
	i := len(b.history) - 1
	if i < 0 || b.history[i].stick != stickForward {
		return false
	}
	for i--; i >= 0; i-- {
		e := b.history[i]
		if now-e.frame > SpecialInputWindow {
			return false
		}
		switch e.stick {
		case stickDownForward:
			continue
		case stickDown:
			return true
		default:
			return false
		}
	}
	return false
}

func (b *motionBuffer) clear() {
	b.history = b.history[:0]
}
