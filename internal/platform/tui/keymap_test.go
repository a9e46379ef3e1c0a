package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name       string
		msg        tea.KeyMsg
		versus     bool
		wantPlayer core.PlayerID
		wantAction core.Action
		wantQuit   bool
	}{
		{"p1 left", runeKey("a"), false, core.Player1, core.ActionLeft, false},
		{"p1 heavy kick", runeKey("l"), true, core.Player1, core.ActionHeavyKick, false},
		{"solo arrow moves p1", tea.KeyMsg{Type: tea.KeyUp}, false, core.Player1, core.ActionUp, false},
		{"solo numpad unbound", runeKey("7"), false, core.PlayerNone, core.ActionNone, false},
		{"versus arrow moves p2", tea.KeyMsg{Type: tea.KeyRight}, true, core.Player2, core.ActionRight, false},
		{"versus numpad punch", runeKey("9"), true, core.Player2, core.ActionHeavyPunch, false},
		{"pause", runeKey("p"), true, core.Player1, core.ActionPause, false},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, false, core.Player1, core.ActionBack, false},
		{"quit", runeKey("q"), false, core.Player1, core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, true, core.Player1, core.ActionQuit, true},
		{"unbound", runeKey("z"), false, core.PlayerNone, core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km := &KeyMapper{Versus: tt.versus}
			player, action, quit := km.MapKey(tt.msg)
			if action != tt.wantAction || quit != tt.wantQuit {
				t.Errorf("MapKey() = %v, %v; want %v, %v", action, quit, tt.wantAction, tt.wantQuit)
			}
			if tt.wantAction != core.ActionNone && player != tt.wantPlayer {
				t.Errorf("player = %v, want %v", player, tt.wantPlayer)
			}
		})
	}
}

func TestMapKeyToMultiFrame(t *testing.T) {
	km := &KeyMapper{Versus: true}
	frame := core.NewMultiInputFrame()

	km.MapKeyToMultiFrame(runeKey("u"), &frame)
	km.MapKeyToMultiFrame(tea.KeyMsg{Type: tea.KeyLeft}, &frame)

	if !frame.Player1().Has(core.ActionLightPunch) {
		t.Error("player 1 should have light punch")
	}
	if !frame.Player2().Has(core.ActionLeft) {
		t.Error("player 2 should hold left")
	}
	if frame.Player1().Has(core.ActionLeft) {
		t.Error("arrow must not reach player 1 in versus")
	}
}

func TestHeldInputLatchesDirections(t *testing.T) {
	h := NewHeldInputFrames(3)
	h.Press(core.Player1, core.ActionRight)

	for i := range 3 {
		if !h.Frame().Player1().Has(core.ActionRight) {
			t.Fatalf("frame %d: right should still be held", i)
		}
	}
	if h.Frame().Player1().Has(core.ActionRight) {
		t.Error("right should be released after the hold window")
	}
}

func TestHeldInputRepeatExtendsHold(t *testing.T) {
	h := NewHeldInputFrames(2)
	h.Press(core.Player2, core.ActionLeft)
	h.Frame()
	h.Press(core.Player2, core.ActionLeft)
	h.Frame()

	if !h.Frame().Player2().Has(core.ActionLeft) {
		t.Error("key repeat should extend the hold")
	}
}

func TestHeldInputOppositeReleases(t *testing.T) {
	h := NewHeldInputFrames(10)
	h.Press(core.Player1, core.ActionLeft)
	h.Press(core.Player1, core.ActionRight)

	f := h.Frame().Player1()
	if f.Has(core.ActionLeft) || !f.Has(core.ActionRight) {
		t.Errorf("want only right held, got %v", f.Actions)
	}
}

func TestHeldInputButtonsLastOneFrame(t *testing.T) {
	h := NewHeldInputFrames(10)
	h.Press(core.Player1, core.ActionMediumKick)

	if !h.Frame().Player1().Has(core.ActionMediumKick) {
		t.Fatal("kick should be pressed on the next frame")
	}
	if h.Frame().Player1().Has(core.ActionMediumKick) {
		t.Error("kick must not repeat")
	}
}

func TestHeldInputRelease(t *testing.T) {
	h := NewHeldInputFrames(10)
	h.Press(core.Player1, core.ActionDown)
	h.Press(core.Player2, core.ActionHeavyPunch)
	h.Release()

	f := h.Frame()
	if f.Player1().Has(core.ActionDown) || f.Player2().Has(core.ActionHeavyPunch) {
		t.Error("Release should drop everything")
	}
}

func TestHoldFrames(t *testing.T) {
	if got := holdFrames(60, defaultHold); got != 9 {
		t.Errorf("holdFrames(60) = %d, want 9", got)
	}
	if got := holdFrames(0, defaultHold); got != 9 {
		t.Errorf("holdFrames(0) should fall back to 60 fps, got %d", got)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}
