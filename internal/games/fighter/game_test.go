package fighter

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/registry"
)

func newGame(t *testing.T, mode Mode, seed int64) *Game {
	t.Helper()
	g := New(mode)
	g.Reset(core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 24})
	if err := g.Err(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return g
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{"fight", "versus", "training"} {
		if !registry.Exists(id) {
			t.Errorf("mode %q is not registered", id)
			continue
		}
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("Create(%q).ID() = %q", id, g.ID())
		}
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newGame(t, ModeFight, 42)
	g2 := newGame(t, ModeFight, 42)

	for i := range 900 {
		in := core.NewInputFrame()
		if i%7 == 0 {
			in.Set(core.ActionRight)
		}
		if i%31 == 0 {
			in.Set(core.ActionMediumKick)
		}
		g1.Step(in)
		g2.Step(in)
	}

	if !reflect.DeepEqual(g1.Snapshot(), g2.Snapshot()) {
		t.Error("same seed and inputs should give the same match")
	}
}

func TestPauseToggle(t *testing.T) {
	g := newGame(t, ModeFight, 1)

	g.Step(press(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	tick := g.Snapshot().(Snapshot).Tick
	g.Step(core.NewInputFrame())
	if got := g.Snapshot().(Snapshot).Tick; got != tick {
		t.Errorf("paused game advanced from tick %d to %d", tick, got)
	}

	g.Step(press(core.ActionPause))
	if g.State().Paused {
		t.Error("game should resume")
	}
}

func TestOnlineIgnoresPause(t *testing.T) {
	g := NewOnline(Ken, Ryu)
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24})

	in := core.NewMultiInputFrame()
	in.Press(core.Player1, core.ActionPause)
	g.StepMulti(in)
	if g.State().Paused {
		t.Error("online matches cannot be paused")
	}
}

func TestVersusTakesBothInputs(t *testing.T) {
	g := newGame(t, ModeVersus, 1)
	for range g.rules.Round.IntroFrames {
		g.StepMulti(core.NewMultiInputFrame())
	}
	f := g.Scene().Fighters()
	x1, x2 := f[0].Position.X, f[1].Position.X

	for range 10 {
		in := core.NewMultiInputFrame()
		in.Press(core.Player1, core.ActionLeft)
		in.Press(core.Player2, core.ActionRight)
		g.StepMulti(in)
	}
	if f[0].Position.X >= x1 || f[1].Position.X <= x2 {
		t.Errorf("both players should walk back: %v -> %v, %v -> %v", x1, f[0].Position.X, x2, f[1].Position.X)
	}
}

func TestMatchReportsGameOver(t *testing.T) {
	g := newGame(t, ModeVersus, 1)
	b := g.battle
	b.Phase = PhaseFight
	b.Fighters[0].RoundsWon = g.rules.Round.RoundsToWin - 1
	b.Fighters[1].HitPoints = 0

	for range g.rules.Round.EndDelay + 1 {
		g.StepMulti(core.NewMultiInputFrame())
	}
	if b.Phase != PhaseMatchOver {
		t.Fatalf("phase = %v, want match over", b.Phase)
	}
	if g.IsGameOver() {
		t.Error("game over is reported after the victory pose")
	}
	for range matchOverDelay {
		g.StepMulti(core.NewMultiInputFrame())
	}
	if !g.IsGameOver() || g.Winner() != core.Player1 {
		t.Errorf("game over %v winner %v", g.IsGameOver(), g.Winner())
	}
	if p1, _ := g.Rounds(); p1 != g.rules.Round.RoundsToWin {
		t.Errorf("rounds = %d, want %d", p1, g.rules.Round.RoundsToWin)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Press R to restart") {
		t.Error("game over screen should offer a restart")
	}
}

func TestApplySnapshotMirrorsServer(t *testing.T) {
	server := newGame(t, ModeFight, 7)
	for range 300 {
		server.Step(press(core.ActionRight))
	}
	// Put a fireball and a splash in flight.
	f := server.Scene().Fighters()
	f[0].fireballStrength = Light
	f[0].throwFireball()
	pos := core.Vec{X: f[1].Position.X, Y: -4}
	server.Scene().handleAttackHit(server.frameTime, 0, 1, &pos, Light)

	snap := server.Snapshot().(Snapshot)

	client := NewOnline(Ken, Ryu)
	client.Reset(core.RuntimeConfig{Seed: 99, ScreenW: 80, ScreenH: 24})
	client.ApplySnapshot(snap)

	if got := client.Snapshot(); !reflect.DeepEqual(got, snap) {
		t.Errorf("client snapshot differs from server:\n got %+v\nwant %+v", got, snap)
	}

	screen := core.NewScreen(80, 24)
	client.Render(screen)
	if !strings.Contains(screen.String(), "KEN") {
		t.Error("client render should show the status bar")
	}
}

func TestApplySnapshotSwitchesFighters(t *testing.T) {
	client := NewOnline(Ken, Ryu)
	client.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24})

	snap := Snapshot{Battle: *NewBattleState(Ryu, Ryu, 144, 99)}
	client.ApplySnapshot(snap)
	if p1, p2 := client.FighterIDs(); p1 != Ryu || p2 != Ryu {
		t.Errorf("fighters = %q, %q; want ryu, ryu", p1, p2)
	}

	// Snapshots without fighters are ignored.
	client.ApplySnapshot(Snapshot{})
	if p1, _ := client.FighterIDs(); p1 != Ryu {
		t.Errorf("empty snapshot changed fighters to %q", p1)
	}
}

func TestHighScoreInHUD(t *testing.T) {
	g := newGame(t, ModeFight, 1)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if strings.Contains(screen.Row(0), "HI") {
		t.Error("no high score is shown before one is recorded")
	}

	g.SetHighScore(4200)
	g.Render(screen)
	if !strings.Contains(screen.Row(0), "HI 004200") {
		t.Errorf("top row = %q, want the high score", screen.Row(0))
	}

	// A new match keeps showing it.
	g.Reset(core.RuntimeConfig{Seed: 2, ScreenW: 80, ScreenH: 24})
	g.Render(screen)
	if !strings.Contains(screen.Row(0), "HI 004200") {
		t.Errorf("top row after reset = %q", screen.Row(0))
	}
}

func TestGameOverAnnouncesNewHighScore(t *testing.T) {
	g := newGame(t, ModeVersus, 1)
	g.SetHighScore(100)
	b := g.battle
	b.Fighters[0].Score = 500
	b.Phase = PhaseFight
	b.Fighters[0].RoundsWon = g.rules.Round.RoundsToWin - 1
	b.Fighters[1].HitPoints = 0
	for range g.rules.Round.EndDelay + 1 + matchOverDelay {
		g.StepMulti(core.NewMultiInputFrame())
	}
	if !g.IsGameOver() {
		t.Fatal("match should be over")
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "NEW HIGH SCORE!") {
		t.Error("beating the recorded best should be announced")
	}
}

func TestGameErrSurfacesSceneErrors(t *testing.T) {
	g := newGame(t, ModeFight, 1)
	g.Scene().handleAttackHit(g.frameTime, 0, 1, nil, AttackStrength(9))
	if err := g.Err(); !errors.Is(err, ErrUnknownStrength) {
		t.Errorf("Err() = %v, want ErrUnknownStrength", err)
	}
}
