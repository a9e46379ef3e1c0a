package fighter

import "github.com/vovakirdan/tui-fighter/internal/core"

// sprite is cell art drawn facing right. The bottom row rests on the
// fighter's feet and column spriteOrigin is the first column right of the
// fighter's centre line.
//
// Glyph colors come from the character palette: '^' hair, 'O' and 'o' skin,
// '=' belt, anything else the gi.
type sprite struct {
	rows  []string
	shape shape
}

const spriteOrigin = 2

var (
	sprIdle1 = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		" ## ",
		" == ",
		"/  \\",
	}}
	sprIdle2 = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		" ##o",
		"(## ",
		" == ",
		"/  \\",
	}}
	sprWalk1 = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		" ## ",
		" == ",
		" /| ",
	}}
	sprWalk2 = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		" ## ",
		" == ",
		" || ",
	}}
	sprWalk3 = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		" ## ",
		" == ",
		" |\\ ",
	}}
	sprCrouchDown = &sprite{shape: shapeCrouching, rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		" == ",
		"/  \\",
	}}
	sprCrouch = &sprite{shape: shapeCrouching, rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		"/==\\",
	}}
	sprTurn = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"o##)",
		" ## ",
		" == ",
		"/  \\",
	}}
	sprCrouchTurn = &sprite{shape: shapeCrouching, rows: []string{
		" ^^ ",
		" OO ",
		"o##)",
		"/==\\",
	}}
	sprJumpRise = &sprite{shape: shapeAirborne, rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		" == ",
		" || ",
	}}
	sprJumpTuck = &sprite{shape: shapeAirborne, rows: []string{
		" ^^ ",
		" OO ",
		"o##o",
		" == ",
		" <> ",
	}}
	sprJumpFlip = &sprite{shape: shapeAirborne, rows: []string{
		" <> ",
		" == ",
		"o##o",
		" OO ",
		" ^^ ",
	}}

	sprLightPunch = &sprite{rows: []string{
		" ^^   ",
		" OO   ",
		"(##--o",
		" ##   ",
		" ==   ",
		"/  \\  ",
	}}
	sprPunchWindup = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"o## ",
		" ## ",
		" == ",
		"/  \\",
	}}
	sprMediumPunch = &sprite{rows: []string{
		" ^^    ",
		" OO    ",
		"(##---o",
		" ##    ",
		" ==    ",
		"/  \\   ",
	}}
	sprHeavyPunch = &sprite{rows: []string{
		" ^^    ",
		" OO===O",
		"(##    ",
		" ##    ",
		" ==    ",
		"/  \\   ",
	}}
	sprKickWindup = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"(##o",
		" ## ",
		" ==<",
		"/ | ",
	}}
	sprLightKick = &sprite{rows: []string{
		" ^^   ",
		" OO   ",
		"(##o  ",
		" ##   ",
		" ==--o",
		"/     ",
	}}
	sprMediumKick = &sprite{rows: []string{
		" ^^    ",
		" OO    ",
		"(##o   ",
		" ##---o",
		" ==    ",
		"/      ",
	}}
	sprHeavyKick = &sprite{rows: []string{
		" ^^    ",
		" OO  _o",
		"(##o/  ",
		" ##/   ",
		" ==    ",
		"/      ",
	}}

	sprFireballWindup = &sprite{rows: []string{
		" ^^ ",
		" OO ",
		"o## ",
		"o## ",
		" == ",
		"/  \\",
	}}
	sprFireballThrow = &sprite{rows: []string{
		" ^^  ",
		" OO  ",
		" ##=o",
		" ##=o",
		" ==  ",
		"/  \\ ",
	}}

	sprHurtHead = &sprite{rows: []string{
		"^^  ",
		"OO  ",
		"\\##\\",
		" ## ",
		" == ",
		"/  \\",
	}}
	sprHurtBody = &sprite{rows: []string{
		"    ",
		" ^^ ",
		"oOO ",
		" ##o",
		" == ",
		"/  \\",
	}}
	sprKnockedDown = &sprite{shape: shapeLying, rows: []string{
		"^OO##==/",
	}}
	sprVictory1 = &sprite{rows: []string{
		"   o",
		" ^^|",
		" OO/",
		"(## ",
		" ## ",
		" == ",
		"/  \\",
	}}
)

// frame is one step of a fighter animation.
type frame struct {
	sprite *sprite
	ticks  int      // 0 holds the frame until the state changes
	hit    core.Box // Active hit box, relative to the feet and facing right
}

// animation is the frame sequence of one state.
type animation struct {
	frames []frame
	loop   bool
}

// attackFrames builds windup, active and recovery frames for a normal attack.
func attackFrames(windup *sprite, active *sprite, hit core.Box, w, a, r int) animation {
	return animation{frames: []frame{
		{sprite: windup, ticks: w},
		{sprite: active, ticks: a, hit: hit},
		{sprite: windup, ticks: r},
	}}
}

var animations = map[State]animation{
	StateIdle: {loop: true, frames: []frame{
		{sprite: sprIdle1, ticks: 24},
		{sprite: sprIdle2, ticks: 24},
	}},
	StateWalkForward: {loop: true, frames: []frame{
		{sprite: sprIdle1, ticks: 6},
		{sprite: sprWalk1, ticks: 6},
		{sprite: sprWalk2, ticks: 6},
		{sprite: sprWalk3, ticks: 6},
	}},
	StateWalkBackward: {loop: true, frames: []frame{
		{sprite: sprWalk3, ticks: 7},
		{sprite: sprWalk2, ticks: 7},
		{sprite: sprWalk1, ticks: 7},
		{sprite: sprIdle1, ticks: 7},
	}},
	StateJumpStart: {frames: []frame{
		{sprite: sprCrouchDown, ticks: 3},
	}},
	StateJumpUp: {frames: []frame{
		{sprite: sprJumpRise, ticks: 10},
		{sprite: sprJumpTuck, ticks: 24},
		{sprite: sprJumpRise, ticks: 0},
	}},
	StateJumpForward: {frames: []frame{
		{sprite: sprJumpRise, ticks: 8},
		{sprite: sprJumpTuck, ticks: 8},
		{sprite: sprJumpFlip, ticks: 10},
		{sprite: sprJumpTuck, ticks: 8},
		{sprite: sprJumpRise, ticks: 0},
	}},
	StateJumpBackward: {frames: []frame{
		{sprite: sprJumpRise, ticks: 8},
		{sprite: sprJumpTuck, ticks: 8},
		{sprite: sprJumpFlip, ticks: 10},
		{sprite: sprJumpTuck, ticks: 8},
		{sprite: sprJumpRise, ticks: 0},
	}},
	StateJumpLand: {frames: []frame{
		{sprite: sprCrouchDown, ticks: 4},
	}},
	StateCrouchDown: {frames: []frame{
		{sprite: sprCrouchDown, ticks: 3},
	}},
	StateCrouch: {frames: []frame{
		{sprite: sprCrouch, ticks: 0},
	}},
	StateCrouchUp: {frames: []frame{
		{sprite: sprCrouchDown, ticks: 3},
	}},
	StateIdleTurn: {frames: []frame{
		{sprite: sprTurn, ticks: 4},
	}},
	StateCrouchTurn: {frames: []frame{
		{sprite: sprCrouchTurn, ticks: 4},
	}},

	StateLightPunch: attackFrames(sprPunchWindup, sprLightPunch,
		core.Box{X: 2, Y: -4, W: 2, H: 1}, 3, 4, 6),
	StateMediumPunch: attackFrames(sprPunchWindup, sprMediumPunch,
		core.Box{X: 2, Y: -4, W: 3, H: 1}, 5, 5, 10),
	StateHeavyPunch: attackFrames(sprPunchWindup, sprHeavyPunch,
		core.Box{X: 2, Y: -5, W: 3, H: 1}, 8, 6, 16),
	StateLightKick: attackFrames(sprKickWindup, sprLightKick,
		core.Box{X: 2, Y: -2, W: 2, H: 1}, 4, 4, 8),
	StateMediumKick: attackFrames(sprKickWindup, sprMediumKick,
		core.Box{X: 2, Y: -3, W: 3, H: 1}, 6, 5, 12),
	StateHeavyKick: attackFrames(sprKickWindup, sprHeavyKick,
		core.Box{X: 2, Y: -5, W: 3, H: 2}, 9, 6, 18),

	StateSpecialFireball: {frames: []frame{
		{sprite: sprFireballWindup, ticks: 8},
		{sprite: sprFireballThrow, ticks: 6},
		{sprite: sprFireballThrow, ticks: 16},
	}},

	StateHurtHeadLight:  hurtAnimation(sprHurtHead, Light),
	StateHurtHeadMedium: hurtAnimation(sprHurtHead, Medium),
	StateHurtHeadHeavy:  hurtAnimation(sprHurtHead, Heavy),
	StateHurtBodyLight:  hurtAnimation(sprHurtBody, Light),
	StateHurtBodyMedium: hurtAnimation(sprHurtBody, Medium),
	StateHurtBodyHeavy:  hurtAnimation(sprHurtBody, Heavy),

	StateKnockedOut: {frames: []frame{
		{sprite: sprHurtHead, ticks: 0},
	}},
	StateVictory: {loop: true, frames: []frame{
		{sprite: sprVictory1, ticks: 30},
		{sprite: sprIdle1, ticks: 12},
	}},
}

// fireballThrowFrame is the animation frame on which the fireball leaves the hands.
const fireballThrowFrame = 1

// hurtAnimation holds the hurt pose for longer the stronger the hit.
func hurtAnimation(s *sprite, strength AttackStrength) animation {
	return animation{frames: []frame{
		{sprite: s, ticks: 12 + 6*int(strength)},
	}}
}
