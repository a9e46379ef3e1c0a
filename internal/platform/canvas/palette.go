// Package canvas runs a match in an Ebitengine window, drawing the same cell
// screen the terminal front end uses as filled pixel cells.
package canvas

import (
	"image/color"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

var background = color.RGBA{R: 12, G: 12, B: 20, A: 255}

// palette mirrors the 256-color codes used by the terminal renderer.
var palette = map[core.Color]color.RGBA{
	core.ColorDefault:       {R: 208, G: 208, B: 208, A: 255},
	core.ColorRed:           {R: 205, G: 49, B: 49, A: 255},
	core.ColorGreen:         {R: 13, G: 188, B: 121, A: 255},
	core.ColorYellow:        {R: 229, G: 229, B: 16, A: 255},
	core.ColorBlue:          {R: 36, G: 114, B: 200, A: 255},
	core.ColorMagenta:       {R: 188, G: 63, B: 188, A: 255},
	core.ColorCyan:          {R: 17, G: 168, B: 205, A: 255},
	core.ColorWhite:         {R: 229, G: 229, B: 229, A: 255},
	core.ColorBrightRed:     {R: 241, G: 76, B: 76, A: 255},
	core.ColorBrightGreen:   {R: 35, G: 209, B: 139, A: 255},
	core.ColorBrightYellow:  {R: 245, G: 245, B: 67, A: 255},
	core.ColorBrightBlue:    {R: 59, G: 142, B: 234, A: 255},
	core.ColorBrightMagenta: {R: 214, G: 112, B: 214, A: 255},
	core.ColorBrightCyan:    {R: 41, G: 184, B: 219, A: 255},
	core.ColorBrightWhite:   {R: 255, G: 255, B: 255, A: 255},
	core.ColorOrange:        {R: 255, G: 135, B: 0, A: 255},
	core.ColorGray:          {R: 138, G: 138, B: 138, A: 255},
	core.ColorDarkGray:      {R: 68, G: 68, B: 68, A: 255},
	core.ColorBrown:         {R: 135, G: 95, B: 0, A: 255},
	core.ColorSkin:          {R: 255, G: 215, B: 175, A: 255},
}

func colorOf(c core.Color) color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return palette[core.ColorDefault]
}

// shade scales a premultiplied color to the given coverage.
func shade(c color.RGBA, alpha uint8) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(alpha) / 255) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: alpha}
}

// cellRect is a rectangle inside one cell, in fractions of the cell size.
type cellRect struct {
	X, Y, W, H float32
}

// blockGlyph draws a block or box-drawing rune as filled rectangles,
// since the bitmap font only covers ASCII and Latin-1.
type blockGlyph struct {
	Rects []cellRect
	Alpha uint8
}

var (
	fullCell = []cellRect{{0, 0, 1, 1}}
	hLine    = cellRect{0, 0.45, 1, 0.1}
	vLine    = cellRect{0.45, 0, 0.1, 1}
)

var blockGlyphs = map[rune]blockGlyph{
	'█': {Rects: fullCell, Alpha: 255},
	'▓': {Rects: fullCell, Alpha: 192},
	'▒': {Rects: fullCell, Alpha: 128},
	'░': {Rects: fullCell, Alpha: 64},
	'▀': {Rects: []cellRect{{0, 0, 1, 0.5}}, Alpha: 255},
	'▄': {Rects: []cellRect{{0, 0.5, 1, 0.5}}, Alpha: 255},
	'─': {Rects: []cellRect{hLine}, Alpha: 255},
	'│': {Rects: []cellRect{vLine}, Alpha: 255},
	'═': {Rects: []cellRect{{0, 0.3, 1, 0.1}, {0, 0.6, 1, 0.1}}, Alpha: 255},
	'┌': {Rects: []cellRect{{0.45, 0.45, 0.55, 0.1}, {0.45, 0.45, 0.1, 0.55}}, Alpha: 255},
	'┐': {Rects: []cellRect{{0, 0.45, 0.55, 0.1}, {0.45, 0.45, 0.1, 0.55}}, Alpha: 255},
	'└': {Rects: []cellRect{{0.45, 0.45, 0.55, 0.1}, {0.45, 0, 0.1, 0.55}}, Alpha: 255},
	'┘': {Rects: []cellRect{{0, 0.45, 0.55, 0.1}, {0.45, 0, 0.1, 0.55}}, Alpha: 255},
}
