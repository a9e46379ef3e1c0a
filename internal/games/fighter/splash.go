package fighter

import (
	"fmt"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

// splashFrame is one step of a hit splash animation, centred on the hit point.
type splashFrame struct {
	rows  []string
	ticks int
}

var (
	lightSplash = []splashFrame{
		{rows: []string{"+"}, ticks: 3},
		{rows: []string{"*"}, ticks: 3},
		{rows: []string{"·"}, ticks: 2},
	}
	mediumSplash = []splashFrame{
		{rows: []string{"*"}, ticks: 2},
		{rows: []string{"\\|/", "-*-", "/|\\"}, ticks: 4},
		{rows: []string{"· ·", " * ", "· ·"}, ticks: 3},
	}
	heavySplash = []splashFrame{
		{rows: []string{"*"}, ticks: 2},
		{rows: []string{"\\|/", "-#-", "/|\\"}, ticks: 3},
		{rows: []string{"\\ | /", " \\|/ ", "--*--", " /|\\ ", "/ | \\"}, ticks: 4},
		{rows: []string{"·   ·", "  ·  ", "·   ·"}, ticks: 3},
	}
)

// splashColors tints splashes by the attacking player's slot.
var splashColors = [2]core.Color{core.ColorBrightYellow, core.ColorBrightCyan}

// HitSplash is the short flash drawn where an attack connects.
type HitSplash struct {
	Position core.Vec
	Strength AttackStrength
	playerID int
	frames   []splashFrame
	frame    int
	timer    int
	remove   RemoveFunc
}

// SplashClass builds a hit splash at a world position for the attacking player.
type SplashClass func(x, y float64, playerID int, remove RemoveFunc) *HitSplash

// NewLightHitSplash creates the small splash of a light attack.
func NewLightHitSplash(x, y float64, playerID int, remove RemoveFunc) *HitSplash {
	return newHitSplash(Light, lightSplash, x, y, playerID, remove)
}

// NewMediumHitSplash creates the splash of a medium attack.
func NewMediumHitSplash(x, y float64, playerID int, remove RemoveFunc) *HitSplash {
	return newHitSplash(Medium, mediumSplash, x, y, playerID, remove)
}

// NewHeavyHitSplash creates the large splash of a heavy attack.
func NewHeavyHitSplash(x, y float64, playerID int, remove RemoveFunc) *HitSplash {
	return newHitSplash(Heavy, heavySplash, x, y, playerID, remove)
}

func newHitSplash(strength AttackStrength, frames []splashFrame, x, y float64, playerID int, remove RemoveFunc) *HitSplash {
	return &HitSplash{
		Position: core.Vec{X: x, Y: y},
		Strength: strength,
		playerID: playerID,
		frames:   frames,
		timer:    frames[0].ticks,
		remove:   remove,
	}
}

// hitSplashClass picks the splash for an attack strength.
func hitSplashClass(strength AttackStrength) (SplashClass, error) {
	switch strength {
	case Light:
		return NewLightHitSplash, nil
	case Medium:
		return NewMediumHitSplash, nil
	case Heavy:
		return NewHeavyHitSplash, nil
	default:
		return nil, fmt.Errorf("%w: no hit splash for %d", ErrUnknownStrength, strength)
	}
}

// Done reports whether the animation has played out.
func (h *HitSplash) Done() bool {
	return h.frame >= len(h.frames)
}

// Update advances the animation and removes the splash after its last frame.
func (h *HitSplash) Update(_ core.FrameTime, _ *Camera) {
	if h.Done() {
		return
	}
	h.timer--
	if h.timer > 0 {
		return
	}
	h.frame++
	if h.Done() {
		if h.remove != nil {
			h.remove(h)
		}
		return
	}
	h.timer = h.frames[h.frame].ticks
}

// Draw renders the current frame centred on the hit point.
func (h *HitSplash) Draw(dst *core.Screen, camera *Camera) {
	if h.Done() {
		return
	}
	f := h.frames[h.frame]
	cx, cy := camera.ToScreen(h.Position)
	color := splashColors[h.playerID&1]
	top := cy - len(f.rows)/2
	for dy, row := range f.rows {
		runes := []rune(row)
		left := cx - len(runes)/2
		for dx, r := range runes {
			if r != ' ' {
				dst.SetColored(left+dx, top+dy, r, color)
			}
		}
	}
}
