package canvas

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

type binding struct {
	Key    ebiten.Key
	Action core.Action
}

var player1Moves = []binding{
	{ebiten.KeyW, core.ActionUp},
	{ebiten.KeyS, core.ActionDown},
	{ebiten.KeyA, core.ActionLeft},
	{ebiten.KeyD, core.ActionRight},
}

var player1Buttons = []binding{
	{ebiten.KeyU, core.ActionLightPunch},
	{ebiten.KeyI, core.ActionMediumPunch},
	{ebiten.KeyO, core.ActionHeavyPunch},
	{ebiten.KeyJ, core.ActionLightKick},
	{ebiten.KeyK, core.ActionMediumKick},
	{ebiten.KeyL, core.ActionHeavyKick},
}

var player2Moves = []binding{
	{ebiten.KeyArrowUp, core.ActionUp},
	{ebiten.KeyArrowDown, core.ActionDown},
	{ebiten.KeyArrowLeft, core.ActionLeft},
	{ebiten.KeyArrowRight, core.ActionRight},
}

var player2Buttons = []binding{
	{ebiten.KeyNumpad7, core.ActionLightPunch},
	{ebiten.KeyNumpad8, core.ActionMediumPunch},
	{ebiten.KeyNumpad9, core.ActionHeavyPunch},
	{ebiten.KeyNumpad4, core.ActionLightKick},
	{ebiten.KeyNumpad5, core.ActionMediumKick},
	{ebiten.KeyNumpad6, core.ActionHeavyKick},
	{ebiten.KeyDigit7, core.ActionLightPunch},
	{ebiten.KeyDigit8, core.ActionMediumPunch},
	{ebiten.KeyDigit9, core.ActionHeavyPunch},
	{ebiten.KeyDigit4, core.ActionLightKick},
	{ebiten.KeyDigit5, core.ActionMediumKick},
	{ebiten.KeyDigit6, core.ActionHeavyKick},
}

var systemKeys = []binding{
	{ebiten.KeyP, core.ActionPause},
	{ebiten.KeyEscape, core.ActionPause},
	{ebiten.KeyR, core.ActionRestart},
	{ebiten.KeyEnter, core.ActionConfirm},
}

// keyQuery reports whether a key is down (or was pressed this frame).
type keyQuery func(ebiten.Key) bool

// pollInput builds one frame of input. Directions follow the held state of
// their keys; buttons and system keys fire on the frame they go down.
// Outside versus the arrow keys steer player 1 as well.
func pollInput(held, pressed keyQuery, versus bool) core.MultiInputFrame {
	in := core.NewMultiInputFrame()

	p2 := core.Player2
	if !versus {
		p2 = core.Player1
	}

	for _, b := range player1Moves {
		if held(b.Key) {
			in.Press(core.Player1, b.Action)
		}
	}
	for _, b := range player2Moves {
		if held(b.Key) {
			in.Press(p2, b.Action)
		}
	}
	for _, b := range player1Buttons {
		if pressed(b.Key) {
			in.Press(core.Player1, b.Action)
		}
	}
	if versus {
		for _, b := range player2Buttons {
			if pressed(b.Key) {
				in.Press(core.Player2, b.Action)
			}
		}
	}
	for _, b := range systemKeys {
		if pressed(b.Key) {
			in.Press(core.Player1, b.Action)
		}
	}

	cancelOpposites(&in, core.Player1)
	cancelOpposites(&in, core.Player2)
	return in
}

// cancelOpposites drops both directions of an axis when both are held.
func cancelOpposites(in *core.MultiInputFrame, id core.PlayerID) {
	f := in.Player(id)
	for _, pair := range [][2]core.Action{{core.ActionLeft, core.ActionRight}, {core.ActionUp, core.ActionDown}} {
		if f.Has(pair[0]) && f.Has(pair[1]) {
			delete(f.Actions, pair[0])
			delete(f.Actions, pair[1])
		}
	}
}
