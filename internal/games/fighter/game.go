package fighter

import (
	"fmt"
	"maps"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
	"github.com/vovakirdan/tui-fighter/internal/registry"
)

// Mode selects who controls Player 2 and whether rounds are played.
type Mode int

const (
	ModeFight    Mode = iota // Player 1 against the CPU
	ModeVersus               // Two players on one keyboard, or online
	ModeTraining             // CPU dummy, no clock, health refills
)

// matchOverDelay is how long the victory pose plays before the game reports game over.
const matchOverDelay = 120

var modeInfo = map[Mode]struct{ id, title string }{
	ModeFight:    {"fight", "Fight (vs CPU)"},
	ModeVersus:   {"versus", "Versus (2 players)"},
	ModeTraining: {"training", "Training"},
}

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// fighterPicks stores the characters chosen on the CLI or in the menu.
var fighterPicks = [2]FighterID{Ken, Ryu}

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch config.DifficultyPreset(preset) {
	case config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		difficultyPreset = config.DifficultyPreset(preset)
	default:
		difficultyPreset = ""
	}
}

// SetFighters sets the characters used by newly reset games.
func SetFighters(p1, p2 FighterID) {
	fighterPicks = [2]FighterID{p1, p2}
}

// Picks returns the characters newly reset games will use.
func Picks() (p1, p2 FighterID) {
	return fighterPicks[0], fighterPicks[1]
}

// Game is the top-level composition: a battle scene stepped at a fixed frame
// rate with its own frame clock.
type Game struct {
	mode  Mode
	picks [2]FighterID

	rules      config.FighterConfig
	roster     map[FighterID]config.CharDef
	battle     *BattleState
	scene      *BattleScene
	cpu        *CPU
	difficulty *config.DifficultyManager

	runtime   core.RuntimeConfig
	frameTime core.FrameTime
	tick      uint64
	paused    bool
	online    bool // Both sides are remote; pausing is disabled
	highScore int
	err       error
}

// New creates a game in the given mode with the current fighter picks.
func New(mode Mode) *Game {
	return &Game{
		mode:  mode,
		picks: fighterPicks,
		rules: config.DefaultFighterConfig(),
	}
}

// NewOnline creates a versus game for an online match with explicit picks.
func NewOnline(p1, p2 FighterID) *Game {
	g := New(ModeVersus)
	g.picks = [2]FighterID{p1, p2}
	g.online = true
	return g
}

// Pick sets the characters for this game. Takes effect on the next Reset.
func (g *Game) Pick(p1, p2 FighterID) {
	g.picks = [2]FighterID{p1, p2}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return modeInfo[g.mode].id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return modeInfo[g.mode].title
}

// Mode returns the game mode.
func (g *Game) Mode() Mode { return g.mode }

// LocalPlayers returns how many people share the keyboard in this mode.
func (g *Game) LocalPlayers() int {
	if g.mode == ModeVersus && !g.online {
		return 2
	}
	return 1
}

// Reset loads rules and characters and starts a new match.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.err = nil

	rules, err := config.Load(configPath)
	if err != nil {
		g.err = err
		rules = config.DefaultFighterConfig()
	}
	config.ApplyPreset(&rules, difficultyPreset)
	g.rules = rules

	g.roster = loadRoster()
	g.difficulty = config.NewDifficultyManager(rules.Difficulty)
	g.cpu = NewCPU(runtime.Seed+1, rules.CPU, g.difficulty)
	g.cpu.SetLevel(g.difficulty.Level(0, 0))

	if err := g.startMatch(); err != nil {
		g.err = err
		// Fall back to the default pairing so the screen is never empty.
		g.picks = [2]FighterID{Ken, Ryu}
		if err := g.startMatch(); err != nil {
			g.err = err
		}
	}
}

func (g *Game) startMatch() error {
	timer := g.rules.Round.TimerSeconds
	g.battle = NewBattleState(g.picks[0], g.picks[1], g.rules.Round.HitPoints, timer)
	scene, err := NewBattleScene(SceneOptions{
		Rules:    &g.rules,
		Roster:   g.roster,
		Battle:   g.battle,
		Width:    max(g.runtime.ScreenW, 1),
		Height:   max(g.runtime.ScreenH, 1),
		Training: g.mode == ModeTraining,
	})
	if err != nil {
		return err
	}
	scene.statusBar.SetHighScore(g.highScore)
	g.scene = scene
	g.tick = 0
	g.frameTime = core.FixedFrameTime(0, FrameRate)
	g.paused = false
	return nil
}

// loadRoster reads every character definition, falling back to the
// built-in file when a user override is broken.
func loadRoster() map[FighterID]config.CharDef {
	roster := make(map[FighterID]config.CharDef, len(Roster))
	for _, id := range Roster {
		def, err := config.LoadCharacter(string(id))
		if err != nil {
			def, err = config.LoadCharacterWithOverride(string(id), "")
			if err != nil {
				continue
			}
		}
		roster[id] = def
	}
	return roster
}

// SetHighScore sets the best recorded score for this mode, shown in the HUD.
func (g *Game) SetHighScore(score int) {
	g.highScore = score
	if g.scene != nil {
		g.scene.statusBar.SetHighScore(score)
	}
}

// Err returns the last configuration or setup error, if any.
func (g *Game) Err() error {
	if g.err != nil {
		return g.err
	}
	if g.scene != nil {
		return g.scene.Err()
	}
	return nil
}

// Step advances the game by one frame with Player 1 input.
// Player 2 is the CPU in fight mode, a standing dummy in training and idle in versus.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.scene == nil {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && !g.State().GameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	p2 := core.NewInputFrame()
	if g.mode == ModeFight {
		f := g.scene.Fighters()
		p2 = g.cpu.Think(f[1], f[0])
	}
	g.frame(in, p2)
	return core.StepResult{State: g.State()}
}

// StepMulti advances the game with input from both players.
func (g *Game) StepMulti(in core.MultiInputFrame) core.StepResult {
	if g.scene == nil {
		return core.StepResult{State: g.State()}
	}
	if g.mode != ModeVersus {
		return g.Step(in.Player1())
	}
	if in.Player1().Has(core.ActionPause) && !g.online && !g.State().GameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}
	g.frame(in.Player1(), in.Player2())
	return core.StepResult{State: g.State()}
}

// frame runs one frame of the scene and then advances the frame clock.
func (g *Game) frame(p1, p2 core.InputFrame) {
	g.scene.SetInputs(p1, p2)
	g.scene.Update(g.frameTime)

	g.tick++
	g.frameTime = core.FixedFrameTime(g.tick, FrameRate)

	if g.mode == ModeFight {
		g.cpu.SetLevel(g.difficulty.Level(g.battle.Fighters[0].Score, int(min(g.tick, 1<<31)))) //nolint:gosec // clamped
	}
}

// ObserveFrame feeds the measured presentation clock to the FPS counter.
func (g *Game) ObserveFrame(ft core.FrameTime) {
	if g.scene != nil {
		g.scene.FpsCounter().Observe(ft)
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.scene == nil {
		dst.DrawMessageBox([]string{"NO FIGHTERS", fmt.Sprint(g.Err())}, core.ColorBrightRed)
		return
	}
	g.scene.Draw(dst)

	if g.paused {
		dst.DrawMessageBox([]string{"PAUSED", "Press P to resume"}, core.ColorBrightWhite)
	}
	if g.State().GameOver {
		b := g.battle
		title := "DRAW GAME"
		if b.MatchWinner >= 0 {
			title = g.fighterName(b.MatchWinner) + " WINS"
		}
		lines := []string{
			title,
			fmt.Sprintf("Rounds %d - %d   Score %d", b.Fighters[0].RoundsWon, b.Fighters[1].RoundsWon, b.Fighters[0].Score),
		}
		if g.highScore > 0 && b.Fighters[0].Score > g.highScore {
			lines = append(lines, "NEW HIGH SCORE!")
		}
		lines = append(lines, "Press R to restart")
		dst.DrawMessageBox(lines, core.ColorBrightYellow)
	}
}

func (g *Game) fighterName(slot int) string {
	id := g.battle.Fighters[slot].ID
	if def, ok := g.roster[id]; ok {
		return def.Info.DisplayName
	}
	return string(id)
}

// State returns the current game state. Score is Player 1's score.
func (g *Game) State() core.GameState {
	if g.battle == nil {
		return core.GameState{GameOver: g.scene == nil && g.err != nil}
	}
	return core.GameState{
		Score:    g.battle.Fighters[0].Score,
		GameOver: g.battle.Phase == PhaseMatchOver && g.battle.PhaseFrames >= matchOverDelay,
		Paused:   g.paused,
	}
}

// Battle returns a copy of the battle state.
func (g *Game) Battle() BattleState {
	if g.battle == nil {
		return BattleState{}
	}
	return *g.battle
}

// Scene returns the running battle scene.
func (g *Game) Scene() *BattleScene { return g.scene }

// CPULevel returns the current skill of the CPU opponent.
func (g *Game) CPULevel() float64 {
	if g.cpu == nil {
		return 0
	}
	return g.cpu.Level()
}

// IsGameOver reports whether the match has been decided.
func (g *Game) IsGameOver() bool {
	return g.State().GameOver
}

// Winner returns the player who won the match, PlayerNone while undecided or on a draw.
func (g *Game) Winner() multiplayer.PlayerID {
	if g.battle == nil || g.battle.Phase != PhaseMatchOver || g.battle.MatchWinner < 0 {
		return core.PlayerNone
	}
	return core.PlayerID(g.battle.MatchWinner + 1)
}

// Score1 returns Player 1's score.
func (g *Game) Score1() int {
	if g.battle == nil {
		return 0
	}
	return g.battle.Fighters[0].Score
}

// Score2 returns Player 2's score.
func (g *Game) Score2() int {
	if g.battle == nil {
		return 0
	}
	return g.battle.Fighters[1].Score
}

// Rounds returns the rounds won by each player.
func (g *Game) Rounds() (p1, p2 int) {
	if g.battle == nil {
		return 0, 0
	}
	return g.battle.Fighters[0].RoundsWon, g.battle.Fighters[1].RoundsWon
}

// FighterIDs returns the characters in play.
func (g *Game) FighterIDs() (p1, p2 FighterID) {
	return g.picks[0], g.picks[1]
}

// Roster returns the loaded character definitions.
func (g *Game) Roster() map[FighterID]config.CharDef {
	return maps.Clone(g.roster)
}

var (
	_ registry.MultiPlayerGame = (*Game)(nil)
	_ registry.FrameObserver   = (*Game)(nil)
	_ multiplayer.OnlineGame   = (*Game)(nil)
)

// Register the modes with the registry
func init() {
	for _, mode := range []Mode{ModeFight, ModeVersus, ModeTraining} {
		registry.Register(modeInfo[mode].id, func() registry.Game {
			return New(mode)
		})
	}
}
