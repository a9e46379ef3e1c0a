package multiplayer

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-fighter/internal/core"
)

type fakeSnapshot struct{ Tick int }

func (fakeSnapshot) IsGameSnapshot() {}

// fakeGame ends after endAfter steps, Player 1 winning two rounds to nil.
// endAfter 0 never ends.
type fakeGame struct {
	mu       sync.Mutex
	endAfter int
	steps    int
	last     core.MultiInputFrame
}

func (g *fakeGame) Reset(core.RuntimeConfig) {}

func (g *fakeGame) StepMulti(in core.MultiInputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.steps++
	g.last = in.Clone()
	return core.StepResult{}
}

func (g *fakeGame) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fakeSnapshot{Tick: g.steps}
}

func (g *fakeGame) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endAfter > 0 && g.steps >= g.endAfter
}

func (g *fakeGame) Winner() PlayerID { return Player1 }
func (g *fakeGame) Score1() int      { return 800 }
func (g *fakeGame) Score2() int      { return 100 }
func (g *fakeGame) Rounds() (int, int) {
	return 2, 0
}

func (g *fakeGame) lastInput() core.MultiInputFrame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// waitEvent reads events until one of type T arrives.
func waitEvent[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(T); ok {
				return e
			}
		case <-timeout:
			var zero T
			t.Fatalf("session %s: timed out waiting for %T", s.ID(), zero)
			return zero
		}
	}
}
