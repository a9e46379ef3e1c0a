package fighter

import "github.com/vovakirdan/tui-fighter/internal/core"

// Entity is anything the scene updates and draws once per frame.
type Entity interface {
	Update(time core.FrameTime, camera *Camera)
	Draw(dst *core.Screen, camera *Camera)
}

// RemoveFunc takes an entity out of the scene. Spawned entities call it on themselves.
type RemoveFunc func(e Entity)

// EntityFactory builds a dynamic entity wired to the scene's remover.
type EntityFactory func(remove RemoveFunc) Entity

// AddEntityFunc spawns a dynamic entity into the scene and returns it.
type AddEntityFunc func(factory EntityFactory) Entity

// AttackHitFunc reports a landed attack to the scene.
// position is where the hit splash goes; nil means no splash.
type AttackHitFunc func(time core.FrameTime, playerID, opponentID int, position *core.Vec, strength AttackStrength)
