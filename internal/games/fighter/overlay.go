package fighter

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
)

// Overlay is a HUD element drawn above the stage.
type Overlay interface {
	Update(time core.FrameTime)
	Draw(dst *core.Screen, camera *Camera)
}

// minWidthForHighScore keeps the high score clear of both player scores.
const minWidthForHighScore = 34

// StatusBar shows scores, health bars, names, round wins, the round clock
// and the round banners.
type StatusBar struct {
	battle *BattleState
	names  map[FighterID]string
	rules  config.RoundConfig
	high   int
	frame  int
}

// NewStatusBar creates the status bar for a battle.
func NewStatusBar(battle *BattleState, names map[FighterID]string, rules config.RoundConfig) *StatusBar {
	return &StatusBar{battle: battle, names: names, rules: rules}
}

// SetHighScore sets the recorded best shown between the scores. Zero hides it.
func (s *StatusBar) SetHighScore(score int) {
	s.high = score
}

// Update advances the blink animations.
func (s *StatusBar) Update(_ core.FrameTime) {
	s.frame++
}

func (s *StatusBar) name(slot int) string {
	id := s.battle.Fighters[slot].ID
	if n, ok := s.names[id]; ok && n != "" {
		return n
	}
	return strings.ToUpper(string(id))
}

// Draw renders the HUD rows at the top of the screen and any banner.
func (s *StatusBar) Draw(dst *core.Screen, camera *Camera) {
	w := dst.Width()
	p1, p2 := s.battle.Fighters[0], s.battle.Fighters[1]

	// Scores.
	dst.DrawTextColored(1, 0, "1P", core.ColorBrightRed)
	dst.DrawTextColored(4, 0, fmt.Sprintf("%06d", p1.Score), core.ColorBrightWhite)
	right := fmt.Sprintf("%06d", p2.Score)
	dst.DrawTextColored(w-1-len(right)-3, 0, "2P", core.ColorBrightBlue)
	dst.DrawTextColored(w-1-len(right), 0, right, core.ColorBrightWhite)
	if s.high > 0 && w >= minWidthForHighScore {
		dst.DrawTextCentered(0, fmt.Sprintf("HI %06d", max(s.high, p1.Score)), core.ColorBrightYellow)
	}

	// Health bars.
	barW := max(4, (w-8)/2)
	s.drawBar(dst, 1, barW, p1.HitPoints, false)
	s.drawBar(dst, w-1-barW, barW, p2.HitPoints, true)

	koColor := core.ColorBrightWhite
	if s.lowHealth() && (s.frame/15)%2 == 0 {
		koColor = core.ColorBrightRed
	}
	dst.DrawTextColored(w/2-1, 1, "KO", koColor)

	// Names, round wins and timer.
	n1, n2 := s.name(0), s.name(1)
	dst.DrawTextColored(1, 2, n1, core.ColorBrightWhite)
	dst.DrawTextColored(2+utf8.RuneCountInString(n1), 2, strings.Repeat("★", p1.RoundsWon), core.ColorBrightYellow)
	dst.DrawTextColored(w-1-utf8.RuneCountInString(n2), 2, n2, core.ColorBrightWhite)
	dst.DrawTextColored(w-2-utf8.RuneCountInString(n2)-p2.RoundsWon, 2, strings.Repeat("★", p2.RoundsWon), core.ColorBrightYellow)

	timerColor := core.ColorBrightYellow
	if s.battle.Timer < 10 && (s.frame/20)%2 == 0 {
		timerColor = core.ColorBrightRed
	}
	timer := fmt.Sprintf("%02d", s.battle.Timer)
	if s.battle.Timer < 0 {
		timer = "∞"
	}
	dst.DrawTextCentered(2, timer, timerColor)

	s.drawBanner(dst, camera)
}

func (s *StatusBar) lowHealth() bool {
	limit := s.rules.HitPoints / 4
	return s.battle.Fighters[0].HitPoints <= limit || s.battle.Fighters[1].HitPoints <= limit
}

// drawBar draws a health bar. Damage eats into the bar from the centre side.
func (s *StatusBar) drawBar(dst *core.Screen, x, width, hp int, mirror bool) {
	maxHP := max(1, s.rules.HitPoints)
	filled := int(math.Ceil(float64(max(0, hp)) * float64(width) / float64(maxHP)))
	filled = core.Clamp(filled, 0, width)
	for i := range width {
		full := i < filled
		if mirror {
			full = i >= width-filled
		}
		if full {
			dst.SetColored(x+i, 1, '█', core.ColorBrightYellow)
		} else {
			dst.SetColored(x+i, 1, '░', core.ColorRed)
		}
	}
}

// banner returns the centre-screen text for the round phase.
func (s *StatusBar) banner() (string, core.Color) {
	b := s.battle
	switch b.Phase {
	case PhaseIntro:
		if b.PhaseFrames < s.rules.IntroFrames/2 {
			return fmt.Sprintf("ROUND %d", b.Round), core.ColorBrightWhite
		}
		return "FIGHT!", core.ColorBrightRed
	case PhaseRoundOver:
		if b.PhaseFrames < s.rules.EndDelay/2 {
			switch b.Result {
			case RoundKO:
				return "K.O.", core.ColorBrightRed
			case RoundTimeOver:
				return "TIME OVER", core.ColorBrightYellow
			case RoundDraw:
				return "DRAW GAME", core.ColorBrightYellow
			}
		}
		if b.Winner >= 0 {
			return s.name(b.Winner) + " WINS", core.ColorBrightWhite
		}
		return "DRAW GAME", core.ColorBrightYellow
	case PhaseMatchOver:
		if b.MatchWinner >= 0 {
			return s.name(b.MatchWinner) + " WINS THE MATCH", core.ColorBrightYellow
		}
	}
	return "", core.ColorDefault
}

func (s *StatusBar) drawBanner(dst *core.Screen, camera *Camera) {
	text, color := s.banner()
	if text == "" {
		return
	}
	row := max(4, camera.FloorRow()-9)
	dst.DrawTextCentered(row, text, color)
}

// FpsCounter shows the presented frame rate.
// Without measurements from the platform it reports the simulated rate.
type FpsCounter struct {
	fps      float64
	measured bool
}

// NewFpsCounter creates an FPS counter.
func NewFpsCounter() *FpsCounter {
	return &FpsCounter{fps: FrameRate}
}

// Observe records a measured frame interval.
func (c *FpsCounter) Observe(ft core.FrameTime) {
	if ft.SecondsPassed <= 0 {
		return
	}
	sample := 1 / ft.SecondsPassed
	if !c.measured {
		c.fps = sample
		c.measured = true
		return
	}
	c.fps = c.fps*0.9 + sample*0.1
}

// Update derives the rate from the simulation clock until measurements arrive.
func (c *FpsCounter) Update(time core.FrameTime) {
	if c.measured || time.SecondsPassed <= 0 {
		return
	}
	c.fps = 1 / time.SecondsPassed
}

// FPS returns the current estimate.
func (c *FpsCounter) FPS() float64 { return c.fps }

// Draw renders the counter in the bottom-right corner.
func (c *FpsCounter) Draw(dst *core.Screen, _ *Camera) {
	text := fmt.Sprintf("%d FPS", int(math.Round(c.fps)))
	dst.DrawTextColored(dst.Width()-len(text)-1, dst.Height()-1, text, core.ColorGreen)
}
