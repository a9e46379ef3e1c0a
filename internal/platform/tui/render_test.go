package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawTextColored(1, 0, "KEN", core.ColorRed)
	s.DrawTextColored(5, 0, "RYU", core.ColorSkin)
	s.DrawHLine(0, 2, 12, '=', core.ColorBrown)

	if got := ansi.Strip(RenderScreen(s)); got != s.String() {
		t.Errorf("RenderScreen text = %q, want %q", got, s.String())
	}
}

func TestEveryColorHasAStyle(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorSkin; c++ {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("color %d has no style", c)
		}
	}
}
