package fighter

import "github.com/vovakirdan/tui-fighter/internal/core"

// shape selects the push and hurt boxes of a sprite.
type shape int

const (
	shapeStanding shape = iota
	shapeCrouching
	shapeAirborne
	shapeLying
)

// bodyBoxes are the collision boxes of a shape, relative to the fighter's
// feet and facing right.
type bodyBoxes struct {
	push core.Box
	hurt [3]core.Box // indexed by HurtLocation
}

var shapeBoxes = map[shape]bodyBoxes{
	shapeStanding: {
		push: core.Box{X: -1.5, Y: -6, W: 3, H: 6},
		hurt: [3]core.Box{
			HurtHead: {X: -1, Y: -6, W: 2, H: 2},
			HurtBody: {X: -2, Y: -4, W: 4, H: 2},
			HurtFeet: {X: -2, Y: -2, W: 4, H: 2},
		},
	},
	shapeCrouching: {
		push: core.Box{X: -1.5, Y: -4, W: 3, H: 4},
		hurt: [3]core.Box{
			HurtHead: {X: -1, Y: -4, W: 2, H: 2},
			HurtBody: {X: -2, Y: -2, W: 4, H: 1},
			HurtFeet: {X: -2, Y: -1, W: 4, H: 1},
		},
	},
	shapeAirborne: {
		push: core.Box{X: -1.5, Y: -5, W: 3, H: 3},
		hurt: [3]core.Box{
			HurtHead: {X: -1, Y: -5, W: 2, H: 2},
			HurtBody: {X: -2, Y: -3, W: 4, H: 2},
			HurtFeet: {X: -1.5, Y: -1, W: 3, H: 1},
		},
	},
	shapeLying: {
		push: core.Box{X: -3, Y: -1, W: 6, H: 1},
	},
}

// worldBox places a box given relative to the feet into world space,
// mirroring it when the fighter faces left.
func worldBox(pos core.Vec, dir Direction, b core.Box) core.Box {
	if b.Empty() {
		return core.Box{}
	}
	x := b.X
	if dir == Left {
		x = -(b.X + b.W)
	}
	return core.Box{X: pos.X + x, Y: pos.Y + b.Y, W: b.W, H: b.H}
}
