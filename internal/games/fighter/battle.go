package fighter

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
)

// trainingRefillFrames is how long a training dummy goes unhit before its health refills.
const trainingRefillFrames = 90

// SceneOptions configures a battle scene.
type SceneOptions struct {
	Rules    *config.FighterConfig
	Roster   map[FighterID]config.CharDef
	Battle   *BattleState
	Width    int
	Height   int
	Training bool // No round clock, hit points refill, no knockouts
}

// BattleScene runs a match between two fighters: it owns the fighters, the
// camera, their shadows, dynamic entities and the overlays, and decides
// rounds.
type BattleScene struct {
	fighters  [2]*Fighter
	camera    *Camera
	shadows   [2]*Shadow
	entities  []Entity
	overlays  []Overlay
	drawOrder [2]int
	hurtTimer time.Duration

	stage     *Stage
	statusBar *StatusBar
	fps       *FpsCounter

	battle   *BattleState
	rules    *config.FighterConfig
	roster   map[FighterID]config.CharDef
	width    int
	height   int
	training bool

	inputs         [2]core.InputFrame
	framesSinceHit int
	timerFrames    int
	err            error
}

// NewBattleScene builds the stage and overlays and starts the first round.
func NewBattleScene(opts SceneOptions) (*BattleScene, error) {
	if opts.Rules == nil {
		rules := config.DefaultFighterConfig()
		opts.Rules = &rules
	}
	if opts.Battle == nil {
		return nil, errors.New("fighter: battle state is required")
	}

	names := make(map[FighterID]string, len(opts.Roster))
	for id, def := range opts.Roster {
		names[id] = def.Info.DisplayName
	}

	s := &BattleScene{
		stage:     NewStage(),
		fps:       NewFpsCounter(),
		battle:    opts.Battle,
		rules:     opts.Rules,
		roster:    opts.Roster,
		width:     opts.Width,
		height:    opts.Height,
		training:  opts.Training,
		drawOrder: [2]int{0, 1},
	}
	s.statusBar = NewStatusBar(opts.Battle, names, opts.Rules.Round)
	s.overlays = []Overlay{s.statusBar, s.fps}

	if s.training {
		s.battle.Timer = -1
	}
	if err := s.startRound(); err != nil {
		return nil, err
	}
	return s, nil
}

// fighterClass maps a fighter id to its constructor.
func (s *BattleScene) fighterClass(id FighterID) (FighterClass, error) {
	switch id {
	case Ken:
		return NewKen, nil
	case Ryu:
		return NewRyu, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFighter, id)
	}
}

// fighterEntity builds the fighter for a battle slot, wired to the scene's
// hit handler and entity spawner.
func (s *BattleScene) fighterEntity(id FighterID, index int) (*Fighter, error) {
	class, err := s.fighterClass(id)
	if err != nil {
		return nil, err
	}
	def, ok := s.roster[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no character definition", ErrUnknownFighter, id)
	}
	f := class(def, index, s.handleAttackHit, s.addEntity)
	f.bind(s.rules, s.battle)
	return f, nil
}

// fighterEntities builds one fighter per battle slot and makes them opponents.
func (s *BattleScene) fighterEntities() ([2]*Fighter, error) {
	var out [2]*Fighter
	for i, fs := range s.battle.Fighters {
		f, err := s.fighterEntity(fs.ID, i)
		if err != nil {
			return out, err
		}
		out[i] = f
	}
	out[0].SetOpponent(out[1])
	out[1].SetOpponent(out[0])
	return out, nil
}

// updateFighters runs the normal update, or the hurt shake while hitstop lasts.
func (s *BattleScene) updateFighters(ft core.FrameTime) {
	for i, f := range s.fighters {
		if s.hurtTimer > ft.Previous {
			f.UpdateHurtShake(ft, s.hurtTimer)
			continue
		}
		in := core.NewInputFrame()
		if s.battle.Phase == PhaseFight {
			in = s.inputs[i]
		}
		f.SetInput(in)
		f.Update(ft, s.camera)
	}
}

// hitSplashClass maps an attack strength to its hit splash.
func (s *BattleScene) hitSplashClass(strength AttackStrength) (SplashClass, error) {
	return hitSplashClass(strength)
}

// handleAttackHit applies a landed attack: the attacker is drawn on top,
// scores, the opponent loses hit points, a splash appears at position and
// both fighters freeze for the struck delay.
func (s *BattleScene) handleAttackHit(ft core.FrameTime, playerID, opponentID int, position *core.Vec, strength AttackStrength) {
	data, err := baseData(s.rules.Attacks, strength)
	if err != nil {
		s.err = err
		return
	}
	s.drawOrder = [2]int{opponentID, playerID}
	s.battle.Fighters[playerID].Score += data.Score
	s.battle.Fighters[opponentID].HitPoints -= data.Damage

	if s.training {
		s.framesSinceHit = 0
		if s.battle.Fighters[opponentID].HitPoints <= 0 {
			s.battle.Fighters[opponentID].HitPoints = s.rules.Round.HitPoints
		}
	}

	if position != nil {
		class, err := s.hitSplashClass(strength)
		if err != nil {
			s.err = err
		} else {
			x, y := position.X, position.Y
			s.addEntity(func(remove RemoveFunc) Entity {
				return class(x, y, playerID, remove)
			})
		}
	}

	s.hurtTimer = ft.Previous + time.Duration(s.rules.StruckDelay)*FrameDuration
}

// startRound puts fresh fighters at their marks and recentres the camera.
func (s *BattleScene) startRound() error {
	fighters, err := s.fighterEntities()
	if err != nil {
		return err
	}
	s.fighters = fighters

	stage := s.rules.Stage
	center := stage.Padding + stage.MidPoint()
	s.fighters[0].place(center - stage.StartDistance)
	s.fighters[1].place(center + stage.StartDistance)

	s.camera = NewCamera(StartX(stage, s.width), s.fighters, stage, s.width, s.height)
	s.shadows = [2]*Shadow{NewShadow(s.fighters[0]), NewShadow(s.fighters[1])}
	s.entities = nil
	s.drawOrder = [2]int{0, 1}
	s.hurtTimer = 0
	s.timerFrames = 0
	return nil
}

// addEntity spawns a dynamic entity that can later remove itself.
func (s *BattleScene) addEntity(factory EntityFactory) Entity {
	e := factory(s.removeEntity)
	s.entities = append(s.entities, e)
	return e
}

// removeEntity drops an entity from the scene.
func (s *BattleScene) removeEntity(e Entity) {
	s.entities = slices.DeleteFunc(s.entities, func(x Entity) bool { return x == e })
}

func (s *BattleScene) updateShadows(ft core.FrameTime) {
	for _, sh := range s.shadows {
		sh.Update(ft, s.camera)
	}
}

func (s *BattleScene) updateEntities(ft core.FrameTime) {
	// Entities may remove themselves while updating.
	for _, e := range slices.Clone(s.entities) {
		e.Update(ft, s.camera)
	}
}

func (s *BattleScene) updateOverlays(ft core.FrameTime) {
	for _, o := range s.overlays {
		o.Update(ft)
	}
}

// SetInputs hands both players' controls to the scene for the next update.
func (s *BattleScene) SetInputs(p1, p2 core.InputFrame) {
	s.inputs = [2]core.InputFrame{p1, p2}
}

// Update advances the scene by one frame.
func (s *BattleScene) Update(ft core.FrameTime) {
	s.updateFighters(ft)
	s.updateShadows(ft)
	s.stage.Update(ft)
	s.updateEntities(ft)
	s.camera.Update(ft)
	s.updateOverlays(ft)
	s.updateRound()
}

// Draw renders the scene back to front.
func (s *BattleScene) Draw(dst *core.Screen) {
	if dst.Width() != s.camera.SceneWidth() || dst.Height() != s.camera.SceneHeight() {
		s.Resize(dst.Width(), dst.Height())
	}
	s.stage.DrawBackground(dst, s.camera)
	for _, sh := range s.shadows {
		sh.Draw(dst, s.camera)
	}
	for _, id := range s.drawOrder {
		s.fighters[id].Draw(dst, s.camera)
	}
	for _, e := range s.entities {
		e.Draw(dst, s.camera)
	}
	s.stage.DrawForeground(dst, s.camera)
	for _, o := range s.overlays {
		o.Draw(dst, s.camera)
	}
}

// Resize adapts the viewport to a new screen size.
func (s *BattleScene) Resize(width, height int) {
	s.width, s.height = width, height
	s.camera.Resize(width, height)
}

// updateRound runs the intro, the round clock, knockouts and the match result.
func (s *BattleScene) updateRound() {
	b := s.battle
	round := s.rules.Round
	b.PhaseFrames++

	switch b.Phase {
	case PhaseIntro:
		if b.PhaseFrames >= round.IntroFrames {
			b.Phase = PhaseFight
			b.PhaseFrames = 0
		}

	case PhaseFight:
		if s.training {
			s.framesSinceHit++
			if s.framesSinceHit >= trainingRefillFrames {
				for i := range b.Fighters {
					b.Fighters[i].HitPoints = round.HitPoints
				}
			}
			return
		}

		s.timerFrames++
		if s.timerFrames >= round.TimerFrames && b.Timer > 0 {
			s.timerFrames = 0
			b.Timer--
		}

		ko0, ko1 := b.Fighters[0].HitPoints <= 0, b.Fighters[1].HitPoints <= 0
		switch {
		case ko0 && ko1:
			s.endRound(RoundDraw, -1)
		case ko0:
			s.endRound(RoundKO, 1)
		case ko1:
			s.endRound(RoundKO, 0)
		case b.Timer == 0:
			hp0, hp1 := b.Fighters[0].HitPoints, b.Fighters[1].HitPoints
			switch {
			case hp0 > hp1:
				s.endRound(RoundTimeOver, 0)
			case hp1 > hp0:
				s.endRound(RoundTimeOver, 1)
			default:
				s.endRound(RoundDraw, -1)
			}
		}

	case PhaseRoundOver:
		if b.Winner >= 0 && b.PhaseFrames >= round.EndDelay/3 {
			s.fighters[b.Winner].Celebrate()
		}
		if b.PhaseFrames >= round.EndDelay {
			s.nextRound()
		}

	case PhaseMatchOver:
		if b.MatchWinner >= 0 {
			s.fighters[b.MatchWinner].Celebrate()
		}
	}
}

// endRound records the round result. A draw awards no round.
func (s *BattleScene) endRound(result RoundResult, winner int) {
	b := s.battle
	b.Phase = PhaseRoundOver
	b.PhaseFrames = 0
	b.Result = result
	b.Winner = winner
	if winner >= 0 {
		b.Fighters[winner].RoundsWon++
	}
	if result == RoundDraw {
		for _, f := range s.fighters {
			if f.HitPoints() <= 0 {
				f.KnockOut()
			}
		}
	}
}

// maxRounds ends a match that keeps drawing.
func (s *BattleScene) maxRounds() int {
	return 2*s.rules.Round.RoundsToWin + 1
}

// nextRound either closes the match or starts the following round.
func (s *BattleScene) nextRound() {
	b := s.battle
	for i, f := range b.Fighters {
		if f.RoundsWon >= s.rules.Round.RoundsToWin {
			s.finishMatch(i)
			return
		}
	}
	if b.Round >= s.maxRounds() {
		switch {
		case b.Fighters[0].RoundsWon > b.Fighters[1].RoundsWon:
			s.finishMatch(0)
		case b.Fighters[1].RoundsWon > b.Fighters[0].RoundsWon:
			s.finishMatch(1)
		default:
			s.finishMatch(-1)
		}
		return
	}

	b.Round++
	timer := s.rules.Round.TimerSeconds
	if s.training {
		timer = -1
	}
	b.resetRound(s.rules.Round.HitPoints, timer)
	if err := s.startRound(); err != nil {
		s.err = err
		s.finishMatch(-1)
	}
}

func (s *BattleScene) finishMatch(winner int) {
	s.battle.Phase = PhaseMatchOver
	s.battle.PhaseFrames = 0
	s.battle.MatchWinner = winner
}

// Err returns the last error raised while running the match, if any.
func (s *BattleScene) Err() error { return s.err }

// Fighters returns both fighters, Player 1 first.
func (s *BattleScene) Fighters() [2]*Fighter { return s.fighters }

// Camera returns the scene camera.
func (s *BattleScene) Camera() *Camera { return s.camera }

// Entities returns the live dynamic entities.
func (s *BattleScene) Entities() []Entity { return s.entities }

// DrawOrder returns the slots in the order fighters are drawn.
func (s *BattleScene) DrawOrder() [2]int { return s.drawOrder }

// HurtTimer returns the time until which fighters are frozen by a hit.
func (s *BattleScene) HurtTimer() time.Duration { return s.hurtTimer }

// FpsCounter returns the FPS overlay so the platform can feed it measured frames.
func (s *BattleScene) FpsCounter() *FpsCounter { return s.fps }
