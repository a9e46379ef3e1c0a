package canvas

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

func keys(down ...ebiten.Key) keyQuery {
	set := make(map[ebiten.Key]bool, len(down))
	for _, k := range down {
		set[k] = true
	}
	return func(k ebiten.Key) bool { return set[k] }
}

func TestPollInputVersus(t *testing.T) {
	in := pollInput(
		keys(ebiten.KeyD, ebiten.KeyArrowLeft, ebiten.KeyArrowDown),
		keys(ebiten.KeyU, ebiten.KeyNumpad6),
		true,
	)

	p1, p2 := in.Player1(), in.Player2()
	if !p1.Has(core.ActionRight) || !p1.Has(core.ActionLightPunch) {
		t.Errorf("player 1 = %v", p1.Actions)
	}
	if !p2.Has(core.ActionLeft) || !p2.Has(core.ActionDown) || !p2.Has(core.ActionHeavyKick) {
		t.Errorf("player 2 = %v", p2.Actions)
	}
}

func TestPollInputButtonsNeedAFreshPress(t *testing.T) {
	in := pollInput(keys(ebiten.KeyU, ebiten.KeyW), keys(), true)
	if in.Player1().Has(core.ActionLightPunch) {
		t.Error("a held button must not repeat")
	}
	if !in.Player1().Has(core.ActionUp) {
		t.Error("a held direction stays active")
	}
}

func TestPollInputSinglePlayerArrows(t *testing.T) {
	in := pollInput(keys(ebiten.KeyArrowRight), keys(ebiten.KeyNumpad7, ebiten.KeyEscape), false)
	p1 := in.Player1()
	if !p1.Has(core.ActionRight) {
		t.Error("arrows steer player 1 outside versus")
	}
	if p1.Has(core.ActionLightPunch) || in.Player2().Has(core.ActionLightPunch) {
		t.Error("numpad buttons are unbound outside versus")
	}
	if !p1.Has(core.ActionPause) {
		t.Error("Esc pauses")
	}
}

func TestPollInputCancelsOpposites(t *testing.T) {
	in := pollInput(keys(ebiten.KeyA, ebiten.KeyD, ebiten.KeyW), keys(), true)
	p1 := in.Player1()
	if p1.Has(core.ActionLeft) || p1.Has(core.ActionRight) {
		t.Error("left and right together cancel out")
	}
	if !p1.Has(core.ActionUp) {
		t.Error("the other axis is unaffected")
	}
}

func TestBlockGlyphsStayInsideTheCell(t *testing.T) {
	for r, g := range blockGlyphs {
		if len(g.Rects) == 0 || g.Alpha == 0 {
			t.Errorf("%q draws nothing", r)
		}
		for _, rect := range g.Rects {
			if rect.X < 0 || rect.Y < 0 || rect.X+rect.W > 1.001 || rect.Y+rect.H > 1.001 {
				t.Errorf("%q rect %+v leaves the cell", r, rect)
			}
		}
	}
	for _, r := range []rune{'█', '░', '▓', '▀', '─', '│', '═'} {
		if _, ok := blockGlyphs[r]; !ok {
			t.Errorf("%q is drawn by the stage but has no shape", r)
		}
	}
}

func TestPalette(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorSkin; c++ {
		if _, ok := palette[c]; !ok {
			t.Errorf("color %d has no RGB value", c)
		}
	}
	if colorOf(core.Color(200)) != palette[core.ColorDefault] {
		t.Error("unknown colors fall back to the default")
	}
	half := shade(palette[core.ColorBrightWhite], 128)
	if half.A != 128 || half.R != 128 {
		t.Errorf("shade = %+v", half)
	}
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}

func TestWindowStepsVersus(t *testing.T) {
	w := NewWindow(fighter.New(fighter.ModeVersus), nil, testConfig())
	if w.multi == nil {
		t.Fatal("versus should step both players")
	}
	now := time.Now()
	w.step(pollInput(keys(ebiten.KeyD), keys(), true), now)
	w.step(pollInput(keys(ebiten.KeyD), keys(), true), now.Add(16*time.Millisecond))
	if w.clock.SecondsPassed < 0.015 || w.clock.SecondsPassed > 0.017 {
		t.Errorf("frame time = %v, want 0.016", w.clock.SecondsPassed)
	}

	solo := NewWindow(fighter.New(fighter.ModeFight), nil, testConfig())
	if solo.multi != nil {
		t.Error("fight mode is single player at the keyboard")
	}
}

func TestWindowLayoutResizesScreen(t *testing.T) {
	w := NewWindow(fighter.New(fighter.ModeTraining), nil, testConfig())
	lw, lh := w.Layout(100*cellW*pixelScale, 30*cellH*pixelScale)
	if w.screen.Width() != 100 || w.screen.Height() != 30 {
		t.Errorf("screen = %dx%d, want 100x30", w.screen.Width(), w.screen.Height())
	}
	if lw != 100*cellW || lh != 30*cellH {
		t.Errorf("layout = %dx%d", lw, lh)
	}
}

func TestWindowRestartAndScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	g := fighter.New(fighter.ModeFight)
	w := NewWindow(g, store, testConfig())
	restart := core.NewMultiInputFrame()
	restart.Press(core.Player1, core.ActionRestart)

	w.step(restart, time.Now())
	if w.scoreSaved {
		t.Fatal("nothing to save mid-match")
	}

	w.state = core.GameState{GameOver: true, Score: 500}
	w.saveScore()
	scores, err := store.TopScores(g.ID(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Score != 500 {
		t.Errorf("scores = %+v", scores)
	}

	w.scoreSaved = true
	w.step(restart, time.Now())
	if w.scoreSaved || w.state.GameOver {
		t.Error("restart after game over should start a new match")
	}
}

func TestWindowShowsHighScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, err := store.SaveScore("fight", "ryu", 7300, 2); err != nil {
		t.Fatal(err)
	}

	w := NewWindow(fighter.New(fighter.ModeFight), store, testConfig())
	w.game.Render(w.screen)
	if row := w.screen.Row(0); !strings.Contains(row, "HI 007300") {
		t.Errorf("top row = %q, want the stored high score", row)
	}
}

func TestGlyphFaceFillsOneCell(t *testing.T) {
	if adv := text.Advance("A", glyphFace); adv != cellW {
		t.Errorf("advance = %v, want %d", adv, cellW)
	}
	m := glyphFace.Metrics()
	if got := m.HAscent + m.HDescent + m.HLineGap; got != cellH {
		t.Errorf("line height = %v, want %d", got, cellH)
	}
}
