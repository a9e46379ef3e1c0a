package multiplayer

import "testing"

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	s.Send(LobbyErrorEvent{Message: "1"})
	s.Send(LobbyErrorEvent{Message: "2"})
	s.Send(LobbyErrorEvent{Message: "3"})

	if s.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", s.Dropped())
	}
	for _, want := range []string{"2", "3"} {
		got := (<-s.Events()).(LobbyErrorEvent)
		if got.Message != want {
			t.Errorf("event = %q, want %q", got.Message, want)
		}
	}
}

func TestChannelSessionClose(t *testing.T) {
	s := NewChannelSession("s", 4)
	s.Close()
	s.Close()
	s.Send(LobbyErrorEvent{Message: "late"})

	select {
	case evt := <-s.Events():
		t.Errorf("closed session received %v", evt)
	default:
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done should be closed")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	s := NewChannelSession("a", 1)
	r.Register(s)

	if got, ok := r.Get("a"); !ok || got.ID() != "a" {
		t.Errorf("Get(a) = %v, %v", got, ok)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("session should be unregistered")
	}
}
