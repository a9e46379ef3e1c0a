package fighter

import (
	"math"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
)

// Camera is the viewport onto the stage.
// Position is the world coordinate of the top-left screen cell. World y is 0
// on the floor and negative above it.
type Camera struct {
	Position core.Vec

	fighters [2]*Fighter
	stage    config.StageConfig
	sceneW   int
	sceneH   int
	baseY    float64
}

// NewCamera creates a camera at world x following both fighters.
// The vertical position is derived from the scene height so the floor sits
// floor_offset rows above the bottom of the screen.
func NewCamera(x float64, fighters [2]*Fighter, stage config.StageConfig, sceneW, sceneH int) *Camera {
	c := &Camera{
		fighters: fighters,
		stage:    stage,
		sceneW:   sceneW,
		sceneH:   sceneH,
		baseY:    -float64(sceneH - stage.FloorOffset),
	}
	c.Position = core.Vec{X: x, Y: c.baseY}
	c.clamp()
	return c
}

// Resize adapts the camera to a new scene size, keeping its x position.
func (c *Camera) Resize(sceneW, sceneH int) {
	c.sceneW, c.sceneH = sceneW, sceneH
	c.baseY = -float64(sceneH - c.stage.FloorOffset)
	c.Position.Y = c.baseY
	c.clamp()
}

// StartX returns the camera x that centres the scene on the stage mid point.
func StartX(stage config.StageConfig, sceneW int) float64 {
	return stage.Padding + stage.MidPoint() - float64(sceneW)/2
}

// SceneWidth returns the viewport width in cells.
func (c *Camera) SceneWidth() int { return c.sceneW }

// SceneHeight returns the viewport height in cells.
func (c *Camera) SceneHeight() int { return c.sceneH }

// Update scrolls the camera to keep both fighters in view.
func (c *Camera) Update(_ core.FrameTime) {
	f0, f1 := c.fighters[0], c.fighters[1]
	if f0 == nil || f1 == nil {
		return
	}

	// Rise a little when one fighter is high above the other.
	c.Position.Y = c.baseY - math.Floor(math.Abs(f0.Position.Y-f1.Position.Y)/3)

	lowX := math.Min(f0.Position.X, f1.Position.X)
	highX := math.Max(f0.Position.X, f1.Position.X)
	scene := float64(c.sceneW)
	boundary := c.stage.ScrollBoundary

	if highX-lowX > scene-boundary*2 {
		c.Position.X = lowX + (highX-lowX)/2 - scene/2
	} else {
		for _, f := range c.fighters {
			switch {
			case f.Position.X < c.Position.X+boundary:
				c.Position.X = f.Position.X - boundary
			case f.Position.X > c.Position.X+scene-boundary:
				c.Position.X = f.Position.X - scene + boundary
			}
		}
	}

	c.clamp()
}

func (c *Camera) clamp() {
	minX := c.stage.Padding
	maxX := c.stage.Width - c.stage.Padding - float64(c.sceneW)
	if maxX < minX {
		// The screen is wider than the stage: centre it.
		c.Position.X = (c.stage.Width - float64(c.sceneW)) / 2
	} else {
		c.Position.X = core.ClampF(c.Position.X, minX, maxX)
	}
	c.Position.Y = core.ClampF(c.Position.Y, c.baseY-float64(c.stage.FloorOffset), c.baseY)
}

// Left returns the world x of the left screen edge.
func (c *Camera) Left() float64 { return c.Position.X }

// Right returns the world x of the right screen edge.
func (c *Camera) Right() float64 { return c.Position.X + float64(c.sceneW) }

// ToScreen converts a world point to a screen cell.
func (c *Camera) ToScreen(p core.Vec) (x, y int) {
	return int(math.Floor(p.X - c.Position.X)), int(math.Floor(p.Y - c.Position.Y))
}

// FloorRow returns the screen row of the floor line.
func (c *Camera) FloorRow() int {
	_, y := c.ToScreen(core.Vec{})
	return y
}

// ParallaxX returns the camera x scrolled at the given speed, for background layers.
func (c *Camera) ParallaxX(speed float64) int {
	return int(math.Floor(c.Position.X * speed))
}
