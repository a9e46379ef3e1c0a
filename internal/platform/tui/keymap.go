package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

// binding is a key resolved to a side and an action.
type binding struct {
	player core.PlayerID
	action core.Action
}

// Player 1 sits on the left of the keyboard, Player 2 on the arrows and
// the number row. Alone at the keyboard, Player 1 may also use the arrows.
var (
	player1Keys = map[string]core.Action{
		"w": core.ActionUp,
		"a": core.ActionLeft,
		"s": core.ActionDown,
		"d": core.ActionRight,
		"u": core.ActionLightPunch,
		"i": core.ActionMediumPunch,
		"o": core.ActionHeavyPunch,
		"j": core.ActionLightKick,
		"k": core.ActionMediumKick,
		"l": core.ActionHeavyKick,
	}

	player2Keys = map[string]core.Action{
		"up":    core.ActionUp,
		"left":  core.ActionLeft,
		"down":  core.ActionDown,
		"right": core.ActionRight,
		"7":     core.ActionLightPunch,
		"8":     core.ActionMediumPunch,
		"9":     core.ActionHeavyPunch,
		"4":     core.ActionLightKick,
		"5":     core.ActionMediumKick,
		"6":     core.ActionHeavyKick,
	}

	systemKeys = map[string]core.Action{
		"p":   core.ActionPause,
		"r":   core.ActionRestart,
		"esc": core.ActionBack,
	}
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	// Versus routes the arrow cluster to Player 2 instead of Player 1.
	Versus bool
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to the side it belongs to and its action.
// Returns ActionNone for unbound keys and isQuit for quit requests.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player core.PlayerID, action core.Action, isQuit bool) {
	b, quit := km.lookup(msg.String())
	return b.player, b.action, quit
}

func (km *KeyMapper) lookup(key string) (binding, bool) {
	switch key {
	case "ctrl+c", "q":
		return binding{core.Player1, core.ActionQuit}, true
	}

	if a, ok := player1Keys[key]; ok {
		return binding{core.Player1, a}, false
	}
	if a, ok := player2Keys[key]; ok {
		if km.Versus {
			return binding{core.Player2, a}, false
		}
		if a.IsDirection() {
			return binding{core.Player1, a}, false
		}
		return binding{}, false
	}
	if a, ok := systemKeys[key]; ok {
		return binding{core.Player1, a}, false
	}
	return binding{}, false
}

// MapKeyToFrame updates an input frame for Player 1 based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && player == core.Player1 {
		frame.Set(action)
	}
	return isQuit
}

// MapKeyToMultiFrame updates a multi-input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Press(player, action)
	}
	return isQuit
}

// defaultHold is how long a tapped direction stays held. It bridges the
// gap before the terminal's key repeat starts.
const defaultHold = 150 * time.Millisecond

// HeldInput latches directions. Terminals report key presses only, so a
// direction counts as held until no repeat arrived for the hold window.
// Pressing a direction releases its opposite. Buttons last one frame.
type HeldInput struct {
	hold    int
	held    [2]map[core.Action]int
	pressed core.MultiInputFrame
}

// NewHeldInput creates a latch whose hold window is defaultHold at tickRate.
func NewHeldInput(tickRate int) *HeldInput {
	return NewHeldInputFrames(holdFrames(tickRate, defaultHold))
}

// NewHeldInputFrames creates a latch that holds directions for the given number of frames.
func NewHeldInputFrames(frames int) *HeldInput {
	return &HeldInput{
		hold:    max(frames, 1),
		held:    [2]map[core.Action]int{make(map[core.Action]int), make(map[core.Action]int)},
		pressed: core.NewMultiInputFrame(),
	}
}

func holdFrames(tickRate int, d time.Duration) int {
	if tickRate <= 0 {
		tickRate = 60
	}
	return int(d * time.Duration(tickRate) / time.Second)
}

var opposite = map[core.Action]core.Action{
	core.ActionUp:    core.ActionDown,
	core.ActionDown:  core.ActionUp,
	core.ActionLeft:  core.ActionRight,
	core.ActionRight: core.ActionLeft,
}

// Press records a key press for a player.
func (h *HeldInput) Press(player core.PlayerID, a core.Action) {
	if player != core.Player1 && player != core.Player2 {
		return
	}
	if !a.IsDirection() {
		h.pressed.Press(player, a)
		return
	}
	held := h.held[player.Index()]
	delete(held, opposite[a])
	held[a] = h.hold
}

// Frame returns the input for the next tick and ages the latch by one frame.
func (h *HeldInput) Frame() core.MultiInputFrame {
	out := h.pressed.Clone()
	for i, held := range h.held {
		player := core.PlayerID(i + 1)
		for a, left := range held {
			out.Press(player, a)
			if left <= 1 {
				delete(held, a)
			} else {
				held[a] = left - 1
			}
		}
	}
	h.pressed.Clear()
	return out
}

// Release drops every held direction and pending press.
func (h *HeldInput) Release() {
	for _, held := range h.held {
		clear(held)
	}
	h.pressed.Clear()
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
