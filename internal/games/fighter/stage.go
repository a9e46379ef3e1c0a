package fighter

import "github.com/vovakirdan/tui-fighter/internal/core"

// Parallax speeds of the stage layers relative to the camera.
const (
	cloudSpeed     = 0.25
	skylineSpeed   = 0.5
	crowdSpeed     = 0.9
	foregroundRail = 1.2
)

var (
	skylineHeights = []int{0, 2, 2, 3, 0, 1, 4, 4, 4, 2, 0, 0, 3, 3, 1, 2, 2, 0, 4, 1, 3, 3, 0, 2}
	crowdHeads     = []rune("o o  o   oo o  o o   o  o oo  ")
	clouds         = []rune("   ~~~         ~~~~~             ~~     ")
)

// Stage is the harbour backdrop: clouds and a skyline scrolling at reduced
// speed, a cheering crowd behind the back rail, the deck and a front rail
// drawn over the fighters.
type Stage struct {
	frame     int
	crowdBeat int
}

// NewStage creates the stage.
func NewStage() *Stage {
	return &Stage{}
}

// Update advances the crowd animation.
func (s *Stage) Update(_ core.FrameTime) {
	s.frame++
	if s.frame%20 == 0 {
		s.crowdBeat ^= 1
	}
}

// DrawBackground renders everything behind the fighters.
func (s *Stage) DrawBackground(dst *core.Screen, camera *Camera) {
	w := dst.Width()
	floor := camera.FloorRow()

	if row := floor - 12; row >= 3 {
		off := camera.ParallaxX(cloudSpeed)
		for x := range w {
			if r := clouds[mod(x+off, len(clouds))]; r != ' ' {
				dst.SetColored(x, row, r, core.ColorWhite)
			}
		}
	}

	off := camera.ParallaxX(skylineSpeed)
	for x := range w {
		h := skylineHeights[mod(x+off, len(skylineHeights))]
		for i := range h {
			dst.SetColored(x, floor-6-i, '▓', core.ColorDarkGray)
		}
	}

	off = camera.ParallaxX(crowdSpeed)
	for x := range w {
		i := mod(x+off, len(crowdHeads))
		if crowdHeads[i] == ' ' {
			continue
		}
		body := '|'
		if (i+s.crowdBeat)%3 == 0 {
			body = 'Y'
		}
		dst.SetColored(x, floor-5, 'o', core.ColorGray)
		dst.SetColored(x, floor-4, body, core.ColorGray)
	}
	dst.DrawHLine(0, floor-3, w, '─', core.ColorBrown)

	// Deck.
	dst.DrawHLine(0, floor, w, '▔', core.ColorBrown)
	deckOff := camera.ParallaxX(1)
	for y := floor + 1; y < dst.Height()-1; y++ {
		for x := range w {
			r := '░'
			if mod(x+deckOff, 12) == 0 {
				r = '│'
			}
			dst.SetColored(x, y, r, core.ColorBrown)
		}
	}
}

// DrawForeground renders the front rail over the fighters.
func (s *Stage) DrawForeground(dst *core.Screen, camera *Camera) {
	y := dst.Height() - 1
	if y <= camera.FloorRow() {
		return
	}
	off := camera.ParallaxX(foregroundRail)
	for x := range dst.Width() {
		r := '═'
		if mod(x+off, 10) == 0 {
			r = '╪'
		}
		dst.SetColored(x, y, r, core.ColorOrange)
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
