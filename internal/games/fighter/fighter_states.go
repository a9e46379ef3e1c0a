package fighter

// State is a node of the fighter state machine.
type State int

const (
	StateIdle State = iota
	StateWalkForward
	StateWalkBackward
	StateJumpStart
	StateJumpUp
	StateJumpForward
	StateJumpBackward
	StateJumpLand
	StateCrouchDown
	StateCrouch
	StateCrouchUp
	StateIdleTurn
	StateCrouchTurn
	StateLightPunch
	StateMediumPunch
	StateHeavyPunch
	StateLightKick
	StateMediumKick
	StateHeavyKick
	StateHurtHeadLight
	StateHurtHeadMedium
	StateHurtHeadHeavy
	StateHurtBodyLight
	StateHurtBodyMedium
	StateHurtBodyHeavy
	StateSpecialFireball
	StateKnockedOut
	StateVictory
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateWalkForward:     "walk-forward",
	StateWalkBackward:    "walk-backward",
	StateJumpStart:       "jump-start",
	StateJumpUp:          "jump-up",
	StateJumpForward:     "jump-forward",
	StateJumpBackward:    "jump-backward",
	StateJumpLand:        "jump-land",
	StateCrouchDown:      "crouch-down",
	StateCrouch:          "crouch",
	StateCrouchUp:        "crouch-up",
	StateIdleTurn:        "idle-turn",
	StateCrouchTurn:      "crouch-turn",
	StateLightPunch:      "light-punch",
	StateMediumPunch:     "medium-punch",
	StateHeavyPunch:      "heavy-punch",
	StateLightKick:       "light-kick",
	StateMediumKick:      "medium-kick",
	StateHeavyKick:       "heavy-kick",
	StateHurtHeadLight:   "hurt-head-light",
	StateHurtHeadMedium:  "hurt-head-medium",
	StateHurtHeadHeavy:   "hurt-head-heavy",
	StateHurtBodyLight:   "hurt-body-light",
	StateHurtBodyMedium:  "hurt-body-medium",
	StateHurtBodyHeavy:   "hurt-body-heavy",
	StateSpecialFireball: "special-fireball",
	StateKnockedOut:      "knocked-out",
	StateVictory:         "victory",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// attackInfo describes the attack a state performs.
type attackInfo struct {
	kind     AttackType
	strength AttackStrength
}

// stateDef is the static description of a state: where it may be entered
// from and the attack it performs, if any.
type stateDef struct {
	validFrom []State
	attack    attackInfo
}

var (
	grounded = []State{StateIdle, StateWalkForward, StateWalkBackward}
	crouched = []State{StateCrouchDown, StateCrouch, StateCrouchTurn}
	standing = append(append([]State{}, grounded...), StateJumpLand, StateCrouchUp, StateIdleTurn)
	normals  = []State{
		StateLightPunch, StateMediumPunch, StateHeavyPunch,
		StateLightKick, StateMediumKick, StateHeavyKick,
	}
	jumps = []State{StateJumpUp, StateJumpForward, StateJumpBackward}
	hurts = []State{
		StateHurtHeadLight, StateHurtHeadMedium, StateHurtHeadHeavy,
		StateHurtBodyLight, StateHurtBodyMedium, StateHurtBodyHeavy,
	}
)

func statesOf(groups ...[]State) []State {
	var out []State
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var stateDefs = map[State]stateDef{
	StateIdle:            {validFrom: statesOf(standing, normals, hurts, []State{StateJumpStart, StateSpecialFireball, StateVictory})},
	StateWalkForward:     {validFrom: statesOf(grounded, []State{StateJumpLand, StateCrouchUp})},
	StateWalkBackward:    {validFrom: statesOf(grounded, []State{StateJumpLand, StateCrouchUp})},
	StateJumpStart:       {validFrom: statesOf(standing)},
	StateJumpUp:          {validFrom: []State{StateJumpStart}},
	StateJumpForward:     {validFrom: []State{StateJumpStart}},
	StateJumpBackward:    {validFrom: []State{StateJumpStart}},
	StateJumpLand:        {validFrom: statesOf(jumps)},
	StateCrouchDown:      {validFrom: statesOf(standing)},
	StateCrouch:          {validFrom: []State{StateCrouchDown, StateCrouchTurn}},
	StateCrouchUp:        {validFrom: []State{StateCrouch, StateCrouchTurn}},
	StateIdleTurn:        {validFrom: statesOf(grounded, []State{StateJumpLand})},
	StateCrouchTurn:      {validFrom: []State{StateCrouch}},
	StateLightPunch:      {validFrom: statesOf(grounded), attack: attackInfo{AttackPunch, Light}},
	StateMediumPunch:     {validFrom: statesOf(grounded), attack: attackInfo{AttackPunch, Medium}},
	StateHeavyPunch:      {validFrom: statesOf(grounded), attack: attackInfo{AttackPunch, Heavy}},
	StateLightKick:       {validFrom: statesOf(grounded), attack: attackInfo{AttackKick, Light}},
	StateMediumKick:      {validFrom: statesOf(grounded), attack: attackInfo{AttackKick, Medium}},
	StateHeavyKick:       {validFrom: statesOf(grounded), attack: attackInfo{AttackKick, Heavy}},
	StateSpecialFireball: {validFrom: statesOf(grounded, crouched)},
	StateKnockedOut:      {validFrom: nil},
	StateVictory:         {validFrom: statesOf(standing, crouched)},
}

func init() {
	// Any state other than a knockout can be interrupted by a hit.
	hittable := make([]State, 0, len(stateNames))
	for s := StateIdle; s <= StateSpecialFireball; s++ {
		hittable = append(hittable, s)
	}
	for _, h := range hurts {
		stateDefs[h] = stateDef{validFrom: hittable}
	}
	stateDefs[StateKnockedOut] = stateDef{validFrom: hittable}
}

// canEnter reports whether next may follow current.
func canEnter(current, next State) bool {
	def, ok := stateDefs[next]
	if !ok {
		return false
	}
	for _, s := range def.validFrom {
		if s == current {
			return true
		}
	}
	return false
}

// hurtState picks the hurt reaction for a hit location and strength.
func hurtState(loc HurtLocation, strength AttackStrength) State {
	base := StateHurtBodyLight
	if loc == HurtHead {
		base = StateHurtHeadLight
	}
	return base + State(strength)
}

// IsAttacking reports whether s performs an attack.
func (s State) IsAttacking() bool {
	return stateDefs[s].attack.kind != AttackNone
}

// IsHurt reports whether s is a hit reaction.
func (s State) IsHurt() bool {
	return s >= StateHurtHeadLight && s <= StateHurtBodyHeavy
}

// IsAirborne reports whether s is a jump.
func (s State) IsAirborne() bool {
	return s == StateJumpUp || s == StateJumpForward || s == StateJumpBackward
}
