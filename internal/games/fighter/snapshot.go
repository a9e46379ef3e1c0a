package fighter

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
)

// Positions are scaled by 1000 for transmission.
const snapshotScale = 1000

// FighterSnapshot is the visible state of one fighter.
type FighterSnapshot struct {
	X, Y      int
	Direction int
	State     int
	AnimFrame int
	Lying     bool
	HurtShake int
}

// EntityKind tells snapshot entities apart.
type EntityKind int

const (
	EntitySplash EntityKind = iota
	EntityFireball
)

// EntitySnapshot is the visible state of a hit splash or fireball.
type EntitySnapshot struct {
	Kind      EntityKind
	X, Y      int
	Owner     int
	Strength  int
	Direction int
	Frame     int
	Collided  bool
}

// Snapshot contains everything an online client needs to draw a frame.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick      uint64
	Battle    BattleState
	Fighters  [2]FighterSnapshot
	CameraX   int
	CameraY   int
	DrawOrder [2]int
	HurtTimer int64
	Entities  []EntitySnapshot
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (Snapshot) IsGameSnapshot() {}

// Ensure Snapshot implements multiplayer.GameSnapshot
var _ multiplayer.GameSnapshot = Snapshot{}

func scale(v float64) int { return int(math.Round(v * snapshotScale)) }
func unscale(v int) float64 { return float64(v) / snapshotScale }
func (g *Game) hasScene() bool { return g.scene != nil && g.battle != nil }

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	if !g.hasScene() {
		return Snapshot{Tick: g.tick}
	}
	s := g.scene
	snap := Snapshot{
		Tick:      g.tick,
		Battle:    *g.battle,
		CameraX:   scale(s.camera.Position.X),
		CameraY:   scale(s.camera.Position.Y),
		DrawOrder: s.drawOrder,
		HurtTimer: int64(s.hurtTimer),
	}
	for i, f := range s.fighters {
		snap.Fighters[i] = FighterSnapshot{
			X:         scale(f.Position.X),
			Y:         scale(f.Position.Y),
			Direction: int(f.Direction),
			State:     int(f.state),
			AnimFrame: f.animFrame,
			Lying:     f.anim.frames[0].sprite == sprKnockedDown,
			HurtShake: f.hurtShake,
		}
	}
	for _, e := range s.entities {
		switch v := e.(type) {
		case *HitSplash:
			snap.Entities = append(snap.Entities, EntitySnapshot{
				Kind:     EntitySplash,
				X:        scale(v.Position.X),
				Y:        scale(v.Position.Y),
				Owner:    v.playerID,
				Strength: int(v.Strength),
				Frame:    v.frame,
			})
		case *Fireball:
			snap.Entities = append(snap.Entities, EntitySnapshot{
				Kind:      EntityFireball,
				X:         scale(v.Position.X),
				Y:         scale(v.Position.Y),
				Owner:     v.owner.PlayerID,
				Strength:  int(v.Strength),
				Direction: int(v.Direction),
				Frame:     v.ticks,
				Collided:  v.collided,
			})
		}
	}
	return snap
}

// ApplySnapshot updates the game state from a snapshot.
// Used by clients to draw the server's match; the client does not simulate.
func (g *Game) ApplySnapshot(snap Snapshot) {
	ids := [2]FighterID{snap.Battle.Fighters[0].ID, snap.Battle.Fighters[1].ID}
	if ids[0] == "" || ids[1] == "" {
		return
	}
	if !g.hasScene() || g.picks != ids {
		if g.roster == nil {
			g.roster = loadRoster()
		}
		g.picks = ids
		if err := g.startMatch(); err != nil {
			g.err = err
			return
		}
	}

	g.tick = snap.Tick
	g.frameTime = core.FixedFrameTime(g.tick, FrameRate)
	*g.battle = snap.Battle
	s := g.scene
	s.camera.Position = core.Vec{X: unscale(snap.CameraX), Y: unscale(snap.CameraY)}
	s.drawOrder = snap.DrawOrder
	s.hurtTimer = time.Duration(snap.HurtTimer)

	for i, fs := range snap.Fighters {
		f := s.fighters[i]
		f.Position = core.Vec{X: unscale(fs.X), Y: unscale(fs.Y)}
		f.Direction = Direction(fs.Direction)
		if f.Direction != Left {
			f.Direction = Right
		}
		state := State(fs.State)
		if _, ok := animations[state]; !ok {
			state = StateIdle
		}
		f.state = state
		f.anim = animations[state]
		if fs.Lying {
			f.anim = knockedDownAnimation
		}
		f.animFrame = core.Clamp(fs.AnimFrame, 0, len(f.anim.frames)-1)
		f.hurtShake = fs.HurtShake
	}

	s.entities = s.entities[:0]
	for _, es := range snap.Entities {
		owner := s.fighters[es.Owner&1]
		switch es.Kind {
		case EntitySplash:
			class, err := hitSplashClass(AttackStrength(es.Strength))
			if err != nil {
				continue
			}
			h := class(unscale(es.X), unscale(es.Y), es.Owner&1, nil)
			h.frame = core.Clamp(es.Frame, 0, len(h.frames)-1)
			s.entities = append(s.entities, h)
		case EntityFireball:
			fb := NewFireball(owner, AttackStrength(es.Strength), nil)
			fb.Position = core.Vec{X: unscale(es.X), Y: unscale(es.Y)}
			fb.Direction = Direction(es.Direction)
			fb.ticks = es.Frame
			fb.collided = es.Collided
			if fb.collided {
				fb.burst = min(es.Frame/fireballBurstTicks, len(fireballBurst)-1)
			}
			s.entities = append(s.entities, fb)
		}
	}
	s.updateShadows(g.frameTime)
}
