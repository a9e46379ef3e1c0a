package fighter

import (
	"math"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

// Shadow is the dark patch on the floor under a fighter.
// It narrows as the fighter rises.
type Shadow struct {
	fighter *Fighter
	width   int
}

const (
	shadowWidth = 5
	shadowGlyph = '▀'
)

// NewShadow creates the shadow for a fighter.
func NewShadow(f *Fighter) *Shadow {
	return &Shadow{fighter: f, width: shadowWidth}
}

// Width returns the current shadow width in cells.
func (s *Shadow) Width() int { return s.width }

// Update scales the shadow by the fighter's height above the floor.
func (s *Shadow) Update(_ core.FrameTime, _ *Camera) {
	height := math.Max(0, -s.fighter.Position.Y)
	scale := math.Max(0.4, 1-height/10)
	s.width = max(1, int(math.Round(shadowWidth*scale)))
}

// Draw renders the shadow on the floor line.
func (s *Shadow) Draw(dst *core.Screen, camera *Camera) {
	x, _ := camera.ToScreen(core.Vec{X: s.fighter.Position.X})
	y := camera.FloorRow()
	left := x - s.width/2
	for i := range s.width {
		dst.SetColored(left+i, y, shadowGlyph, core.ColorDarkGray)
	}
}
