package fighter

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
)

// pushFriction is how far a fighter shoves an idle opponent per frame when their bodies overlap.
const pushFriction = 0.1

// palette colors the glyphs of a fighter sprite.
type palette struct {
	gi, belt, skin, hair core.Color
}

func newPalette(c config.CharColors) palette {
	color := func(name string, fallback core.Color) core.Color {
		if v, ok := core.ParseColor(name); ok {
			return v
		}
		return fallback
	}
	return palette{
		gi:   color(c.Gi, core.ColorWhite),
		belt: color(c.Belt, core.ColorDarkGray),
		skin: color(c.Skin, core.ColorSkin),
		hair: color(c.Hair, core.ColorBrown),
	}
}

func (p palette) of(r rune) core.Color {
	switch r {
	case '^':
		return p.hair
	case 'O', 'o':
		return p.skin
	case '=':
		return p.belt
	default:
		return p.gi
	}
}

// Fighter is one of the two characters in a battle.
// Velocity.X is measured along the facing direction: positive moves forward.
type Fighter struct {
	ID        FighterID
	Name      string
	PlayerID  int // Slot in the battle state
	Position  core.Vec
	Velocity  core.Vec
	Direction Direction

	opponent *Fighter

	def     config.CharDef
	rules   *config.FighterConfig
	battle  *BattleState
	colors  palette
	onHit   AttackHitFunc
	spawn   AddEntityFunc
	control controls
	motion  motionBuffer

	state     State
	anim      animation
	animFrame int
	animTimer int
	animDone  bool

	attackStruck bool
	frameCount   uint64

	hurtShake      int
	hurtShakeTimer time.Duration
	shaking        bool

	fireball         *Fireball
	fireballStrength AttackStrength
}

// FighterClass builds a character for a battle slot.
type FighterClass func(def config.CharDef, playerID int, onHit AttackHitFunc, spawn AddEntityFunc) *Fighter

// NewKen creates Ken.
func NewKen(def config.CharDef, playerID int, onHit AttackHitFunc, spawn AddEntityFunc) *Fighter {
	return newFighter(Ken, def, playerID, onHit, spawn)
}

// NewRyu creates Ryu.
func NewRyu(def config.CharDef, playerID int, onHit AttackHitFunc, spawn AddEntityFunc) *Fighter {
	return newFighter(Ryu, def, playerID, onHit, spawn)
}

func newFighter(id FighterID, def config.CharDef, playerID int, onHit AttackHitFunc, spawn AddEntityFunc) *Fighter {
	f := &Fighter{
		ID:        id,
		Name:      def.Info.DisplayName,
		PlayerID:  playerID,
		Direction: Right,
		def:       def,
		colors:    newPalette(def.Colors),
		onHit:     onHit,
		spawn:     spawn,
	}
	if playerID == 1 {
		f.Direction = Left
	}
	f.setState(StateIdle)
	return f
}

// place puts the fighter on the floor at world x.
func (f *Fighter) place(x float64) {
	f.Position = core.Vec{X: x}
	f.Velocity = core.Vec{}
}

// bind attaches the shared rules and battle state.
func (f *Fighter) bind(rules *config.FighterConfig, battle *BattleState) {
	f.rules = rules
	f.battle = battle
}

// Opponent returns the other fighter.
func (f *Fighter) Opponent() *Fighter { return f.opponent }

// SetOpponent links the fighter to the one it faces.
func (f *Fighter) SetOpponent(o *Fighter) { f.opponent = o }

// State returns the current state machine node.
func (f *Fighter) State() State { return f.state }

// SetInput hands the fighter its controls for the next update.
func (f *Fighter) SetInput(in core.InputFrame) {
	f.control = readControls(in, f.Direction)
}

// HitPoints returns the fighter's remaining health.
func (f *Fighter) HitPoints() int {
	if f.battle == nil {
		return 0
	}
	return f.battle.Fighters[f.PlayerID].HitPoints
}

// Grounded reports whether the fighter stands on the floor.
func (f *Fighter) Grounded() bool {
	return f.Position.Y >= 0
}

// changeState moves to next when the transition is allowed.
func (f *Fighter) changeState(next State) bool {
	if next == f.state || !canEnter(f.state, next) {
		return false
	}
	f.setState(next)
	return true
}

// setState enters a state unconditionally and runs its init step.
func (f *Fighter) setState(next State) {
	f.state = next
	f.setAnimation(animations[next])
	f.attackStruck = false
	f.initState()
}

func (f *Fighter) setAnimation(a animation) {
	f.anim = a
	f.animFrame = 0
	f.animTimer = a.frames[0].ticks
	f.animDone = false
}

func (f *Fighter) currentFrame() frame {
	return f.anim.frames[f.animFrame]
}

func (f *Fighter) gravity() float64 {
	if f.rules == nil {
		return config.DefaultFighterConfig().Physics.Gravity
	}
	return f.rules.Physics.Gravity
}

func (f *Fighter) physics() config.PhysicsConfig {
	if f.rules == nil {
		return config.DefaultFighterConfig().Physics
	}
	return f.rules.Physics
}

// directionToOpponent returns the facing that looks at the opponent.
func (f *Fighter) directionToOpponent() Direction {
	if f.opponent == nil {
		return f.Direction
	}
	switch {
	case f.opponent.Position.X < f.Position.X:
		return Left
	case f.opponent.Position.X > f.Position.X:
		return Right
	default:
		return f.Direction
	}
}

func (f *Fighter) initState() {
	v := f.def.Velocity
	switch f.state {
	case StateIdle, StateCrouchDown, StateCrouch, StateCrouchUp, StateJumpStart,
		StateVictory, StateSpecialFireball:
		f.Velocity = core.Vec{}
	case StateWalkForward:
		f.Velocity = core.Vec{X: v.WalkFwd}
	case StateWalkBackward:
		f.Velocity = core.Vec{X: -v.WalkBack}
	case StateJumpUp:
		f.Velocity = core.Vec{Y: -v.JumpY}
	case StateJumpForward:
		f.Velocity = core.Vec{X: v.JumpFwd, Y: -v.JumpY}
	case StateJumpBackward:
		f.Velocity = core.Vec{X: -v.JumpBack, Y: -v.JumpY}
	case StateJumpLand:
		f.Velocity = core.Vec{}
		f.Direction = f.directionToOpponent()
	case StateIdleTurn, StateCrouchTurn:
		f.Velocity.X = 0
		f.Direction = f.directionToOpponent()
	case StateLightPunch, StateMediumPunch, StateHeavyPunch,
		StateLightKick, StateMediumKick, StateHeavyKick:
		f.Velocity.X = 0
	case StateHurtHeadLight, StateHurtHeadMedium, StateHurtHeadHeavy,
		StateHurtBodyLight, StateHurtBodyMedium, StateHurtBodyHeavy:
		strength := float64((f.state - StateHurtHeadLight) % 3)
		f.Velocity.X = -f.physics().Knockback * (1 + strength/2)
	case StateKnockedOut:
		f.Velocity = core.Vec{X: -f.physics().Knockback * 2, Y: -0.35}
	}
}

// Update runs one frame of the state machine, animation and collision.
func (f *Fighter) Update(ft core.FrameTime, camera *Camera) {
	f.frameCount++
	f.shaking = false
	f.hurtShake = 0
	f.motion.record(f.control.stick(), f.frameCount)

	f.Position.X += f.Velocity.X * float64(f.Direction)
	f.Position.Y += f.Velocity.Y

	f.updateState()
	f.updateAnimation()
	if camera != nil {
		f.updateStageConstraints(camera)
	}
	f.updateAttackBoxCollided(ft)
}

// UpdateHurtShake replaces Update during hitstop: nothing moves, the fighter
// that was hit jitters in place.
func (f *Fighter) UpdateHurtShake(ft core.FrameTime, hurtTimer time.Duration) {
	if !f.shaking || ft.Previous < f.hurtShakeTimer {
		return
	}
	amount := 1
	if hurtTimer-ft.Previous < FrameDuration*time.Duration(f.struckDelay())/2 {
		amount = 0
	}
	if f.hurtShake != 0 {
		f.hurtShake = 0
	} else {
		f.hurtShake = amount
	}
	f.hurtShakeTimer = ft.Previous + 2*FrameDuration
}

func (f *Fighter) struckDelay() int {
	if f.rules == nil {
		return config.DefaultFighterConfig().StruckDelay
	}
	return f.rules.StruckDelay
}

func (f *Fighter) updateState() {
	c := f.control
	switch f.state {
	case StateIdle:
		f.handleStanding(c)
	case StateWalkForward:
		if !c.forward {
			f.changeState(StateIdle)
		}
		f.handleStanding(c)
	case StateWalkBackward:
		if !c.backward {
			f.changeState(StateIdle)
		}
		f.handleStanding(c)
	case StateJumpStart:
		if f.animDone {
			switch {
			case c.forward:
				f.changeState(StateJumpForward)
			case c.backward:
				f.changeState(StateJumpBackward)
			default:
				f.changeState(StateJumpUp)
			}
		}
	case StateJumpUp, StateJumpForward, StateJumpBackward:
		f.Velocity.Y += f.gravity()
		if f.Position.Y >= 0 && f.Velocity.Y > 0 {
			f.Position.Y = 0
			f.changeState(StateJumpLand)
		}
	case StateJumpLand:
		if f.animDone {
			f.changeState(StateIdle)
			f.handleStanding(c)
		}
	case StateCrouchDown:
		if f.tryFireball(c) {
			return
		}
		if f.animDone {
			f.changeState(StateCrouch)
		}
	case StateCrouch:
		if f.tryFireball(c) {
			return
		}
		if !c.down {
			f.changeState(StateCrouchUp)
		} else if f.directionToOpponent() != f.Direction {
			f.changeState(StateCrouchTurn)
		}
	case StateCrouchUp, StateIdleTurn:
		if f.animDone {
			f.changeState(StateIdle)
		}
	case StateCrouchTurn:
		if f.animDone {
			f.changeState(StateCrouch)
		}
	case StateLightPunch, StateMediumPunch, StateHeavyPunch,
		StateLightKick, StateMediumKick, StateHeavyKick:
		if f.animDone {
			f.changeState(StateIdle)
		}
	case StateSpecialFireball:
		if f.animFrame == fireballThrowFrame && f.animTimer == f.currentFrame().ticks {
			f.throwFireball()
		}
		if f.animDone {
			f.changeState(StateIdle)
		}
	case StateHurtHeadLight, StateHurtHeadMedium, StateHurtHeadHeavy,
		StateHurtBodyLight, StateHurtBodyMedium, StateHurtBodyHeavy:
		f.Velocity.X *= f.physics().Friction
		if !f.Grounded() || f.Velocity.Y < 0 {
			f.Velocity.Y += f.gravity()
		}
		if f.Position.Y > 0 {
			f.Position.Y, f.Velocity.Y = 0, 0
		}
		if f.animDone && f.Grounded() {
			f.changeState(StateIdle)
		}
	case StateKnockedOut:
		f.Velocity.Y += f.gravity()
		if f.Position.Y >= 0 && f.Velocity.Y > 0 {
			f.Position.Y = 0
			f.Velocity = core.Vec{}
			f.setAnimation(knockedDownAnimation)
		}
	case StateVictory:
		f.Velocity = core.Vec{}
	}
}

var knockedDownAnimation = animation{frames: []frame{{sprite: sprKnockedDown}}}

// handleStanding covers the choices available on the ground: jump, crouch,
// walk, attack and turning round.
func (f *Fighter) handleStanding(c controls) {
	if f.state != StateIdle && f.state != StateWalkForward && f.state != StateWalkBackward {
		return
	}
	if f.tryFireball(c) || f.tryAttack(c) {
		return
	}
	switch {
	case c.up:
		f.changeState(StateJumpStart)
	case c.down:
		f.changeState(StateCrouchDown)
	case f.directionToOpponent() != f.Direction:
		f.changeState(StateIdleTurn)
	case c.forward:
		f.changeState(StateWalkForward)
	case c.backward:
		f.changeState(StateWalkBackward)
	}
}

func (f *Fighter) tryAttack(c controls) bool {
	switch {
	case c.heavyPunch:
		return f.changeState(StateHeavyPunch)
	case c.heavyKick:
		return f.changeState(StateHeavyKick)
	case c.mediumPunch:
		return f.changeState(StateMediumPunch)
	case c.mediumKick:
		return f.changeState(StateMediumKick)
	case c.lightPunch:
		return f.changeState(StateLightPunch)
	case c.lightKick:
		return f.changeState(StateLightKick)
	}
	return false
}

// tryFireball starts the fireball special on a completed motion plus punch.
// A fighter only has one fireball on screen at a time.
func (f *Fighter) tryFireball(c controls) bool {
	strength, ok := c.punch()
	if !ok || f.fireball != nil || !f.motion.fireball(f.frameCount) {
		return false
	}
	if !f.changeState(StateSpecialFireball) {
		return false
	}
	f.fireballStrength = strength
	f.motion.clear()
	return true
}

func (f *Fighter) throwFireball() {
	if f.fireball != nil || f.spawn == nil {
		return
	}
	strength := f.fireballStrength
	f.spawn(func(remove RemoveFunc) Entity {
		fb := NewFireball(f, strength, remove)
		f.fireball = fb
		return fb
	})
}

func (f *Fighter) updateAnimation() {
	if f.animDone {
		return
	}
	fr := f.currentFrame()
	if fr.ticks == 0 {
		return
	}
	f.animTimer--
	if f.animTimer > 0 {
		return
	}
	if f.animFrame+1 < len(f.anim.frames) {
		f.animFrame++
		f.animTimer = f.anim.frames[f.animFrame].ticks
		return
	}
	if f.anim.loop {
		f.animFrame = 0
		f.animTimer = f.anim.frames[0].ticks
		return
	}
	f.animDone = true
}

// pushBox returns the body box in world space.
func (f *Fighter) pushBox() core.Box {
	return worldBox(f.Position, f.Direction, shapeBoxes[f.currentFrame().sprite.shape].push)
}

// HurtBoxes returns the head, body and feet boxes in world space.
func (f *Fighter) HurtBoxes() [3]core.Box {
	if f.state == StateKnockedOut {
		return [3]core.Box{}
	}
	rel := shapeBoxes[f.currentFrame().sprite.shape].hurt
	var out [3]core.Box
	for i, b := range rel {
		out[i] = worldBox(f.Position, f.Direction, b)
	}
	return out
}

// HitBox returns the active attack box in world space, empty between active frames.
func (f *Fighter) HitBox() core.Box {
	if !f.state.IsAttacking() {
		return core.Box{}
	}
	return worldBox(f.Position, f.Direction, f.currentFrame().hit)
}

// updateStageConstraints keeps the fighter on screen and out of the opponent's body.
func (f *Fighter) updateStageConstraints(camera *Camera) {
	push := f.pushBox()
	half := push.W / 2
	minX := math.Max(camera.Left(), f.stagePadding()) + half
	maxX := math.Min(camera.Right(), f.stageWidth()-f.stagePadding()) - half
	f.Position.X = core.ClampF(f.Position.X, minX, maxX)

	o := f.opponent
	if o == nil {
		return
	}
	push = f.pushBox()
	other := o.pushBox()
	if !push.Intersects(other) {
		return
	}

	if f.Position.X <= o.Position.X {
		f.Position.X = math.Max(f.Position.X+other.X-push.Right(), minX)
		if o.pushable() {
			o.Position.X += pushFriction
		}
	} else {
		f.Position.X = math.Min(f.Position.X+other.Right()-push.X, maxX)
		if o.pushable() {
			o.Position.X -= pushFriction
		}
	}
}

func (f *Fighter) pushable() bool {
	switch f.state {
	case StateIdle, StateCrouch, StateJumpUp, StateJumpForward, StateJumpBackward:
		return true
	}
	return false
}

func (f *Fighter) stagePadding() float64 {
	if f.rules == nil {
		return config.DefaultFighterConfig().Stage.Padding
	}
	return f.rules.Stage.Padding
}

func (f *Fighter) stageWidth() float64 {
	if f.rules == nil {
		return config.DefaultFighterConfig().Stage.Width
	}
	return f.rules.Stage.Width
}

// updateAttackBoxCollided checks the active hit box against the opponent's
// hurt boxes. An attack lands at most once.
func (f *Fighter) updateAttackBoxCollided(ft core.FrameTime) {
	info := stateDefs[f.state].attack
	if info.kind == AttackNone || f.attackStruck || f.opponent == nil {
		return
	}
	hit := f.HitBox()
	if hit.Empty() {
		return
	}
	for loc, hurt := range f.opponent.HurtBoxes() {
		overlap, ok := hit.Intersection(hurt)
		if !ok {
			continue
		}
		pos := overlap.Center()
		f.attackStruck = true
		if f.onHit != nil {
			f.onHit(ft, f.PlayerID, f.opponent.PlayerID, &pos, info.strength)
		}
		f.opponent.HandleAttackHit(ft, info.strength, HurtLocation(loc))
		return
	}
}

// HandleAttackHit puts the fighter into the hurt state for the location hit,
// or knocks it out once its hit points are gone.
func (f *Fighter) HandleAttackHit(ft core.FrameTime, strength AttackStrength, loc HurtLocation) {
	if f.state == StateKnockedOut || f.state == StateVictory {
		return
	}
	if f.battle != nil && f.battle.Fighters[f.PlayerID].HitPoints <= 0 {
		f.setState(StateKnockedOut)
	} else if !f.changeState(hurtState(loc, strength)) {
		// Already in this hurt state: restart it.
		f.setState(hurtState(loc, strength))
	}
	f.shaking = true
	f.hurtShake = 1
	f.hurtShakeTimer = ft.Previous
}

// KnockOut ends the fighter's round without a hit, used when the clock runs out.
func (f *Fighter) KnockOut() {
	if f.state != StateKnockedOut {
		f.setState(StateKnockedOut)
	}
}

// Celebrate switches to the victory pose once the fighter is free to.
func (f *Fighter) Celebrate() bool {
	if f.state == StateVictory {
		return true
	}
	return f.changeState(StateVictory)
}

// Draw renders the current sprite, mirrored when facing left.
func (f *Fighter) Draw(dst *core.Screen, camera *Camera) {
	spr := f.currentFrame().sprite
	sx, sy := camera.ToScreen(f.Position)
	sx += f.hurtShake
	bottom := sy - 1
	top := bottom - len(spr.rows) + 1

	for row, line := range spr.rows {
		for col, r := range []rune(line) {
			if r == ' ' {
				continue
			}
			x := sx + col - spriteOrigin
			if f.Direction == Left {
				x = sx - col + spriteOrigin - 1
				r = mirrorRune(r)
			}
			dst.SetColored(x, top+row, r, f.colors.of(r))
		}
	}
}

var mirrored = map[rune]rune{
	'/': '\\', '\\': '/',
	'(': ')', ')': '(',
	'<': '>', '>': '<',
	'[': ']', ']': '[',
}

func mirrorRune(r rune) rune {
	if m, ok := mirrored[r]; ok {
		return m
	}
	return r
}
