package fighter

import "github.com/vovakirdan/tui-fighter/internal/core"

// fireballHitBox is relative to the fireball centre, facing right.
var fireballHitBox = core.Box{X: -1, Y: -0.5, W: 2, H: 1}

var (
	fireballFrames = [][]rune{[]rune("~@"), []rune("=@")}
	fireballBurst  = [][]rune{[]rune("*@*"), []rune(" * "), []rune("· ·")}
)

const (
	fireballFrameTicks = 4
	fireballBurstTicks = 4
)

// Fireball is the projectile of the fireball special move.
type Fireball struct {
	Position  core.Vec
	Direction Direction
	Strength  AttackStrength

	owner    *Fighter
	speed    float64
	ticks    int
	collided bool
	burst    int
	removed  bool
	remove   RemoveFunc
}

// NewFireball launches a fireball from the owner's hands.
func NewFireball(owner *Fighter, strength AttackStrength, remove RemoveFunc) *Fireball {
	speeds := owner.def.Fireball
	speed := speeds.SpeedLight
	switch strength {
	case Medium:
		speed = speeds.SpeedMedium
	case Heavy:
		speed = speeds.SpeedHeavy
	}
	return &Fireball{
		Position: core.Vec{
			X: owner.Position.X + 3*float64(owner.Direction),
			Y: owner.Position.Y - 3.5,
		},
		Direction: owner.Direction,
		Strength:  strength,
		owner:     owner,
		speed:     speed,
		remove:    remove,
	}
}

// HitBox returns the fireball's box in world space, empty once it has burst.
func (fb *Fireball) HitBox() core.Box {
	if fb.collided {
		return core.Box{}
	}
	return worldBox(fb.Position, fb.Direction, fireballHitBox)
}

// Collided reports whether the fireball has hit something.
func (fb *Fireball) Collided() bool { return fb.collided }

// Update moves the fireball and resolves its collisions.
func (fb *Fireball) Update(ft core.FrameTime, camera *Camera) {
	fb.ticks++
	if fb.collided {
		if fb.ticks%fireballBurstTicks == 0 {
			fb.burst++
			if fb.burst >= len(fireballBurst) {
				fb.destroy()
			}
		}
		return
	}

	fb.Position.X += fb.speed * float64(fb.Direction)

	opponent := fb.owner.opponent
	if opponent == nil {
		return
	}

	// Opposing fireballs cancel each other out.
	if other := opponent.fireball; other != nil && !other.collided && fb.HitBox().Intersects(other.HitBox()) {
		fb.explode()
		other.explode()
		return
	}

	hit := fb.HitBox()
	for loc, hurt := range opponent.HurtBoxes() {
		if !hit.Intersects(hurt) {
			continue
		}
		pos := fb.Position
		if fb.owner.onHit != nil {
			fb.owner.onHit(ft, fb.owner.PlayerID, opponent.PlayerID, &pos, fb.Strength)
		}
		opponent.HandleAttackHit(ft, fb.Strength, HurtLocation(loc))
		fb.explode()
		return
	}

	if camera != nil && (fb.Position.X < camera.Left()-2 || fb.Position.X > camera.Right()+2) {
		fb.destroy()
	}
}

func (fb *Fireball) explode() {
	fb.collided = true
	fb.ticks = 0
	fb.burst = 0
}

func (fb *Fireball) destroy() {
	if fb.removed {
		return
	}
	fb.removed = true
	if fb.owner.fireball == fb {
		fb.owner.fireball = nil
	}
	if fb.remove != nil {
		fb.remove(fb)
	}
}

// Draw renders the projectile or its burst.
func (fb *Fireball) Draw(dst *core.Screen, camera *Camera) {
	if fb.removed {
		return
	}
	art := fireballFrames[(fb.ticks/fireballFrameTicks)%len(fireballFrames)]
	color := core.ColorBrightCyan
	if fb.Strength == Heavy {
		color = core.ColorBrightBlue
	}
	if fb.collided {
		art = fireballBurst[min(fb.burst, len(fireballBurst)-1)]
		color = core.ColorBrightWhite
	}

	x, y := camera.ToScreen(fb.Position)
	left := x - len(art)/2
	for i, r := range art {
		if r == ' ' {
			continue
		}
		col := left + i
		if fb.Direction == Left {
			col = x + len(art)/2 - i - (1 - len(art)%2)
			r = mirrorRune(r)
		}
		dst.SetColored(col, y, r, color)
	}
}
