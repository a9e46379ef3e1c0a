package canvas

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/registry"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

// Cell size in pixels, matching the bitmap font. Cells are drawn at
// pixelScale times their size on screen.
const (
	cellW      = 7
	cellH      = 13
	pixelScale = 2
)

var glyphFace = text.NewGoXFace(basicfont.Face7x13)

type localPlayers interface {
	LocalPlayers() int
}

type matchRecord interface {
	FighterIDs() (p1, p2 fighter.FighterID)
	Rounds() (p1, p2 int)
}

type highScorer interface {
	SetHighScore(score int)
}

// Window is an ebiten.Game that steps a match once per frame.
type Window struct {
	game     registry.Game
	multi    registry.MultiPlayerGame // nil unless two people share the keyboard
	observer registry.FrameObserver
	screen   *core.Screen
	store    *storage.Store
	config   core.RuntimeConfig
	logger   *log.Logger

	held    keyQuery
	pressed keyQuery

	state      core.GameState
	start      time.Time
	clock      core.FrameTime
	scoreSaved bool
}

// NewWindow wraps a game for the canvas platform. The game is reset on creation.
func NewWindow(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) *Window {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	w := &Window{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:   store,
		config:  cfg,
		logger:  log.Default().WithPrefix("canvas"),
		held:    ebiten.IsKeyPressed,
		pressed: inpututil.IsKeyJustPressed,
	}
	if lp, ok := game.(localPlayers); ok && lp.LocalPlayers() == 2 {
		w.multi, _ = game.(registry.MultiPlayerGame)
	}
	w.observer, _ = game.(registry.FrameObserver)
	game.Reset(cfg)
	w.loadHighScore()
	w.state = game.State()
	return w
}

// Update polls the keyboard and advances the match by one frame.
func (w *Window) Update() error {
	if w.pressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	w.step(pollInput(w.held, w.pressed, w.multi != nil), time.Now())
	return nil
}

func (w *Window) step(in core.MultiInputFrame, now time.Time) {
	if in.Player1().Has(core.ActionRestart) {
		if w.state.GameOver {
			w.config.Seed = now.UnixNano()
			w.game.Reset(w.config)
			w.loadHighScore()
			w.state = w.game.State()
			w.scoreSaved = false
			return
		}
		delete(in.Player1().Actions, core.ActionRestart)
	}

	var result core.StepResult
	if w.multi != nil {
		result = w.multi.StepMulti(in)
	} else {
		result = w.game.Step(in.Player1())
	}
	w.state = result.State

	if w.observer != nil {
		if w.start.IsZero() {
			w.start = now
		}
		w.clock = w.clock.Advance(now.Sub(w.start) + time.Nanosecond)
		w.observer.ObserveFrame(w.clock)
	}

	if w.state.GameOver && !w.scoreSaved {
		w.saveScore()
		w.scoreSaved = true
	}
}

func (w *Window) saveScore() {
	if w.store == nil || w.state.Score <= 0 {
		return
	}
	fighterID, rounds := "", 0
	if rec, ok := w.game.(matchRecord); ok {
		p1, _ := rec.FighterIDs()
		fighterID = string(p1)
		rounds, _ = rec.Rounds()
	}
	if _, err := w.store.SaveScore(w.game.ID(), fighterID, w.state.Score, rounds); err != nil {
		w.logger.Warn("Score not saved", "game", w.game.ID(), "err", err)
	}
}

func (w *Window) loadHighScore() {
	hs, ok := w.game.(highScorer)
	if !ok || w.store == nil {
		return
	}
	high, err := w.store.HighScore(w.game.ID())
	if err != nil {
		w.logger.Warn("High score not loaded", "game", w.game.ID(), "err", err)
		return
	}
	hs.SetHighScore(high)
}

// Draw renders the cell screen as filled cells and font glyphs.
func (w *Window) Draw(dst *ebiten.Image) {
	dst.Fill(background)
	w.game.Render(w.screen)

	for y := 0; y < w.screen.Height(); y++ {
		for x := 0; x < w.screen.Width(); x++ {
			drawCell(dst, x, y, w.screen.GetCell(x, y))
		}
	}
}

func drawCell(dst *ebiten.Image, x, y int, c core.Cell) {
	if c.Rune == ' ' || c.Rune == 0 {
		return
	}
	px, py := float32(x*cellW), float32(y*cellH)
	col := colorOf(c.Color)

	if g, ok := blockGlyphs[c.Rune]; ok {
		fill := shade(col, g.Alpha)
		for _, r := range g.Rects {
			vector.DrawFilledRect(dst, px+r.X*cellW, py+r.Y*cellH, r.W*cellW, r.H*cellH, fill, false)
		}
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(px), float64(py))
	op.ColorScale.ScaleWithColor(col)
	text.Draw(dst, string(c.Rune), glyphFace, op)
}

// Layout sizes the cell screen to the window, so resizing shows more of the stage.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	cols := max(outsideWidth/(cellW*pixelScale), 1)
	rows := max(outsideHeight/(cellH*pixelScale), 1)
	if cols != w.screen.Width() || rows != w.screen.Height() {
		w.screen.Resize(cols, rows)
		w.config.ScreenW, w.config.ScreenH = cols, rows
	}
	return cols * cellW, rows * cellH
}

// Run opens a resizable window and plays the game until it is closed or Q is pressed.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	w := NewWindow(game, store, cfg)

	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowSize(w.config.ScreenW*cellW*pixelScale, w.config.ScreenH*cellH*pixelScale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.config.TickRate)

	return ebiten.RunGame(w)
}
