package fighter

import (
	"testing"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

func TestMotionBufferFireball(t *testing.T) {
	tests := []struct {
		name    string
		history []motionEntry
		now     uint64
		want    bool
	}{
		{"down forward", []motionEntry{{stickDown, 1}, {stickForward, 3}}, 4, true},
		{"quarter circle", []motionEntry{{stickNeutral, 0}, {stickDown, 1}, {stickDownForward, 3}, {stickForward, 5}}, 6, true},
		{"too slow", []motionEntry{{stickDown, 1}, {stickDownForward, 3}, {stickForward, 25}}, 30, false},
		{"forward only", []motionEntry{{stickNeutral, 1}, {stickForward, 3}}, 4, false},
		{"not ending forward", []motionEntry{{stickDown, 1}, {stickDownForward, 3}}, 4, false},
		{"interrupted", []motionEntry{{stickDown, 1}, {stickOther, 2}, {stickForward, 3}}, 4, false},
		{"empty", nil, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b motionBuffer
			for _, e := range tt.history {
				b.record(e.stick, e.frame)
			}
			if got := b.fireball(tt.now); got != tt.want {
				t.Errorf("fireball(%d) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestMotionBufferIgnoresRepeats(t *testing.T) {
	var b motionBuffer
	for i := range uint64(50) {
		b.record(stickDown, i)
	}
	if len(b.history) != 1 {
		t.Errorf("history = %d entries, want 1", len(b.history))
	}
	for i := range uint64(20) {
		b.record(stick(i%2), i)
	}
	if len(b.history) > motionHistory {
		t.Errorf("history = %d entries, capped at %d", len(b.history), motionHistory)
	}
}

func TestReadControlsRelativeToFacing(t *testing.T) {
	in := press(core.ActionRight)
	if c := readControls(in, Right); !c.forward || c.backward {
		t.Errorf("facing right, right should be forward: %+v", c)
	}
	if c := readControls(in, Left); c.forward || !c.backward {
		t.Errorf("facing left, right should be backward: %+v", c)
	}
	if c := readControls(press(core.ActionLeft, core.ActionRight), Right); c.forward || c.backward {
		t.Errorf("left and right together should cancel: %+v", c)
	}
}

func TestWalkForwardAndBack(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	p1 := h.scene.Fighters()[0]
	start := p1.Position.X

	for range 10 {
		h.step(press(core.ActionRight), core.NewInputFrame())
	}
	if p1.State() != StateWalkForward || p1.Position.X <= start {
		t.Errorf("after walking right: state %v x %v (start %v)", p1.State(), p1.Position.X, start)
	}

	mid := p1.Position.X
	for range 10 {
		h.step(press(core.ActionLeft), core.NewInputFrame())
	}
	if p1.State() != StateWalkBackward || p1.Position.X >= mid {
		t.Errorf("after walking left: state %v x %v (from %v)", p1.State(), p1.Position.X, mid)
	}

	h.run(1)
	if p1.State() != StateIdle {
		t.Errorf("state after release = %v, want idle", p1.State())
	}
}

func TestJumpLands(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	p1 := h.scene.Fighters()[0]

	h.step(press(core.ActionUp), core.NewInputFrame())
	if p1.State() != StateJumpStart {
		t.Fatalf("state = %v, want jump start", p1.State())
	}

	peak := 0.0
	for range 80 {
		h.run(1)
		peak = min(peak, p1.Position.Y)
	}
	if peak > -5 {
		t.Errorf("jump peak = %v, want above 5 cells", peak)
	}
	if p1.Position.Y != 0 || p1.State() != StateIdle {
		t.Errorf("after landing: y %v state %v", p1.Position.Y, p1.State())
	}
}

func TestPushBoxesKeepFightersApart(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	f := h.scene.Fighters()

	for range 200 {
		h.step(press(core.ActionRight), core.NewInputFrame())
		// Against the wall the opponent's nudge can leave a sliver of overlap.
		if gap := f[1].Position.X - f[0].Position.X; gap < 3-pushFriction-0.01 {
			t.Fatalf("fighters overlap, gap %v", gap)
		}
	}
}

func TestPunchLands(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	f := h.scene.Fighters()
	f[0].Position.X, f[1].Position.X = 80, 83

	h.step(press(core.ActionLightPunch), core.NewInputFrame())
	if f[0].State() != StateLightPunch {
		t.Fatalf("state = %v, want light punch", f[0].State())
	}
	h.run(5)

	if !f[1].State().IsHurt() {
		t.Errorf("opponent state = %v, want hurt", f[1].State())
	}
	light := h.rules.Attacks.Light
	if got := h.battle.Fighters[1].HitPoints; got != h.rules.Round.HitPoints-light.Damage {
		t.Errorf("hit points = %d, want %d", got, h.rules.Round.HitPoints-light.Damage)
	}
	if got := h.battle.Fighters[0].Score; got != light.Score {
		t.Errorf("score = %d, want %d", got, light.Score)
	}

	// One attack hits once.
	h.run(40)
	if got := h.battle.Fighters[1].HitPoints; got != h.rules.Round.HitPoints-light.Damage {
		t.Errorf("hit points after recovery = %d, want a single hit", got)
	}
	if f[1].State() != StateIdle {
		t.Errorf("opponent should recover, state %v", f[1].State())
	}
}

func TestKnockout(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	f := h.scene.Fighters()
	f[0].Position.X, f[1].Position.X = 80, 83
	h.battle.Fighters[1].HitPoints = 5

	h.step(press(core.ActionLightPunch), core.NewInputFrame())
	h.run(5)
	if f[1].State() != StateKnockedOut {
		t.Fatalf("state = %v, want knocked out", f[1].State())
	}
	if boxes := f[1].HurtBoxes(); !boxes[0].Empty() || !boxes[1].Empty() || !boxes[2].Empty() {
		t.Error("a knocked out fighter has no hurt boxes")
	}
	if h.battle.Phase != PhaseRoundOver {
		t.Errorf("phase = %v, want round over", h.battle.Phase)
	}
}

func TestFireballMotionThrows(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	f := h.scene.Fighters()

	h.step(press(core.ActionDown), core.NewInputFrame())
	h.step(press(core.ActionDown, core.ActionRight), core.NewInputFrame())
	h.step(press(core.ActionRight, core.ActionMediumPunch), core.NewInputFrame())
	if f[0].State() != StateSpecialFireball {
		t.Fatalf("state = %v, want fireball special", f[0].State())
	}

	thrown := false
	for range 20 {
		h.run(1)
		for _, e := range h.scene.Entities() {
			if fb, ok := e.(*Fireball); ok && fb.Strength == Medium {
				thrown = true
			}
		}
	}
	if !thrown {
		t.Error("fireball was never thrown")
	}
	if f[0].fireball == nil {
		t.Error("owner should track its fireball in flight")
	}
}

func TestFireballHits(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	f := h.scene.Fighters()
	f[0].Position.X, f[1].Position.X = 60, 90

	f[0].fireballStrength = Heavy
	f[0].throwFireball()
	if f[0].fireball == nil {
		t.Fatal("fireball not spawned")
	}

	// A second fireball waits for the first to finish.
	f[0].throwFireball()
	if len(h.scene.Entities()) != 1 {
		t.Fatalf("entities = %d, want 1", len(h.scene.Entities()))
	}

	h.run(60)
	heavy := h.rules.Attacks.Heavy
	if got := h.battle.Fighters[1].HitPoints; got != h.rules.Round.HitPoints-heavy.Damage {
		t.Errorf("hit points = %d, want %d", got, h.rules.Round.HitPoints-heavy.Damage)
	}
	if f[0].fireball != nil {
		t.Error("fireball should be gone after bursting")
	}
	if len(h.scene.Entities()) != 0 {
		t.Errorf("entities = %d, want 0", len(h.scene.Entities()))
	}
}

func TestFireballsCancel(t *testing.T) {
	h := newHarness(t, false)
	h.skipIntro()
	f := h.scene.Fighters()
	f[0].Position.X, f[1].Position.X = 60, 100

	for _, fi := range f {
		fi.fireballStrength = Heavy
		fi.throwFireball()
	}
	h.run(60)

	for i, st := range h.battle.Fighters {
		if st.HitPoints != h.rules.Round.HitPoints {
			t.Errorf("fighter %d hit points = %d, fireballs should cancel", i, st.HitPoints)
		}
	}
	if f[0].fireball != nil || f[1].fireball != nil {
		t.Error("both fireballs should be gone")
	}
}
