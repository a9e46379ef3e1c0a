package multiplayer

import (
	"testing"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

func newTestMatch(game *fakeGame, tickRate int) (*OnlineMatch, *ChannelSession, *ChannelSession) {
	p1 := NewChannelSession("p1", 256)
	p2 := NewChannelSession("p2", 256)
	m := NewOnlineMatch("m1", "ABCDEF", "versus", [2]string{"ken", "ryu"}, game, p1, p2, tickRate)
	return m, p1, p2
}

func TestInputsMergePerTick(t *testing.T) {
	game := &fakeGame{}
	m, p1, _ := newTestMatch(game, 60)

	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	punch := core.NewInputFrame()
	punch.Set(core.ActionLightPunch)
	kick := core.NewInputFrame()
	kick.Set(core.ActionHeavyKick)

	m.SendInput(Player1, left)
	m.SendInput(Player1, punch)
	m.SendInput(Player2, kick)
	m.runTick()

	in := game.lastInput()
	if !in.Player1().Has(core.ActionLeft) || !in.Player1().Has(core.ActionLightPunch) {
		t.Errorf("player 1 input = %v, want left and light punch merged", in.Player1().Actions)
	}
	if !in.Player2().Has(core.ActionHeavyKick) || in.Player2().Has(core.ActionLeft) {
		t.Errorf("player 2 input = %v", in.Player2().Actions)
	}

	// Inputs are consumed by the tick that used them.
	m.runTick()
	if in := game.lastInput(); in.Player1().Has(core.ActionLeft) {
		t.Error("input should not carry over to the next tick")
	}

	evt := waitEvent[SnapshotEvent](t, p1)
	if evt.MatchID != "m1" || evt.Tick != 1 {
		t.Errorf("snapshot event = %+v", evt)
	}
}

func TestInputRateLimit(t *testing.T) {
	m, _, _ := newTestMatch(&fakeGame{}, 10)

	accepted := 0
	for range 40 {
		if m.SendInput(Player1, core.NewInputFrame()) {
			accepted++
		}
	}
	// Burst is one second of ticks; refill is negligible within the loop.
	if accepted < 10 || accepted > 12 {
		t.Errorf("accepted %d inputs, want about 10", accepted)
	}
	if m.DroppedInputs() == 0 {
		t.Error("inputs over the budget should be counted as dropped")
	}

	// Player 2 has a separate budget.
	if !m.SendInput(Player2, core.NewInputFrame()) {
		t.Error("player 2 input should be accepted")
	}
	if m.SendInput(core.PlayerNone, core.NewInputFrame()) {
		t.Error("input without a player should be rejected")
	}
}

func TestRunEndsOnGameOver(t *testing.T) {
	game := &fakeGame{endAfter: 3}
	m, _, _ := newTestMatch(game, 1000)

	done := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { done <- r })

	r := <-done
	if r.Reason != MatchEndReasonCompleted || r.Winner != Player1 || r.Ticks != 3 {
		t.Errorf("result = %+v", r)
	}
	if r.Score1 != 800 || r.Rounds1 != 2 {
		t.Errorf("result scores = %+v", r)
	}
	<-m.Done()
}

func TestRunEndsOnSessionClose(t *testing.T) {
	m, p1, _ := newTestMatch(&fakeGame{}, 1000)

	done := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { done <- r })
	p1.Close()

	r := <-done
	if r.Reason != MatchEndReasonDisconnect || r.Winner != Player2 {
		t.Errorf("result = %+v, want player 2 winning by disconnect", r)
	}
}
