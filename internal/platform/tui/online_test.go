package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
)

type onlineRig struct {
	coord    *multiplayer.Coordinator
	sessions *multiplayer.SessionRegistry
}

func newOnlineRig(t *testing.T) *onlineRig {
	t.Helper()
	cfg := multiplayer.DefaultCoordinatorConfig()
	cfg.Logger = log.New(io.Discard)
	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(cfg, newOnlineGame, sessions)
	coord.Start()
	t.Cleanup(coord.Stop)
	return &onlineRig{coord: coord, sessions: sessions}
}

func (r *onlineRig) session(id string) *multiplayer.ChannelSession {
	s := multiplayer.NewChannelSession(multiplayer.SessionID(id), sessionEventBuffer)
	r.sessions.Register(s)
	return s
}

// nextEvent reads events until one of type T arrives.
func nextEvent[T multiplayer.SessionEvent](t *testing.T, s *multiplayer.ChannelSession) T {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(T); ok {
				return e
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(SessionModel)
}

// openLobby drives a session from the menu to the online lobby screen.
func openLobby(t *testing.T, m SessionModel) SessionModel {
	t.Helper()
	m.menu.cursor = menuIndex(t, m.menu, multiplayer.MatchModeOnlinePvP)
	m = sessionUpdate(t, m, keyEnter)
	m = sessionUpdate(t, m, keyEnter)
	if m.screen != screenLobby {
		t.Fatalf("screen = %v, want lobby", m.screen)
	}
	return m
}

func TestSessionOnlineMatchFlow(t *testing.T) {
	rig := newOnlineRig(t)
	hostSession, joinSession := rig.session("host"), rig.session("joiner")
	cfg := testConfig()

	host := openLobby(t, NewSessionModel(nil, cfg, hostSession, rig.coord))
	host = sessionUpdate(t, host, runeKey("h"))
	host = sessionUpdate(t, host, nextEvent[multiplayer.LobbyCreatedEvent](t, hostSession))
	code := host.lobby.LobbyCode()
	if len(code) != joinCodeLen {
		t.Fatalf("lobby code = %q", code)
	}
	if !strings.Contains(host.View(), code) {
		t.Error("host should see the code to share")
	}

	joiner := openLobby(t, NewSessionModel(nil, cfg, joinSession, rig.coord))
	joiner = sessionUpdate(t, joiner, runeKey("j"))
	for _, r := range strings.ToLower(code) {
		joiner = sessionUpdate(t, joiner, runeKey(string(r)))
	}
	joiner = sessionUpdate(t, joiner, keyEnter)

	host = sessionUpdate(t, host, nextEvent[multiplayer.MatchStartedEvent](t, hostSession))
	joiner = sessionUpdate(t, joiner, nextEvent[multiplayer.MatchStartedEvent](t, joinSession))
	if host.screen != screenOnlineMatch || joiner.screen != screenOnlineMatch {
		t.Fatalf("screens = %v, %v; want online match", host.screen, joiner.screen)
	}
	if host.onlineMatch.side != core.Player1 || joiner.onlineMatch.side != core.Player2 {
		t.Error("host plays the left side")
	}

	host = sessionUpdate(t, host, nextEvent[multiplayer.SnapshotEvent](t, hostSession))
	if host.onlineMatch.lastTick == 0 {
		t.Error("snapshot should be applied")
	}
	if !strings.Contains(host.View(), "KEN") {
		t.Error("match view should draw the fighters")
	}

	host = sessionUpdate(t, host, keyEsc)
	if host.screen != screenMenu {
		t.Errorf("leaving should return to the menu, got %v", host.screen)
	}

	ended := nextEvent[multiplayer.MatchEndedEvent](t, joinSession)
	joiner = sessionUpdate(t, joiner, ended)
	if joiner.onlineMatch.ended == nil {
		t.Fatal("joiner should see the match end")
	}
	if strings.Contains(strings.Join(joiner.onlineMatch.resultLines(), "\n"), "Rematch") {
		t.Error("an abandoned match offers no rematch")
	}
}

func TestOnlineLobbyJoinCodeInput(t *testing.T) {
	rig := newOnlineRig(t)
	m := NewOnlineLobbyModel("versus", "ken", "s1", rig.coord, 80, 24)

	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(OnlineLobbyModel)
	}

	press(runeKey("j"))
	if m.State() != OnlineStateJoinEnterCode {
		t.Fatal("j should open code entry")
	}
	for _, k := range []string{"a", "b", "-", "1", "2", "3", "4", "5"} {
		press(runeKey(k))
	}
	if m.joinCodeInput != "AB1234" {
		t.Errorf("code = %q, want AB1234", m.joinCodeInput)
	}
	press(tea.KeyMsg{Type: tea.KeyBackspace})
	press(keyEnter)
	if m.State() != OnlineStateJoinEnterCode {
		t.Error("a short code must not be submitted")
	}

	next, _ := m.Update(multiplayer.LobbyErrorEvent{Message: "Lobby not found"})
	m = next.(OnlineLobbyModel)
	if !strings.Contains(m.View(), "Lobby not found") {
		t.Error("errors should be shown")
	}

	press(keyEsc)
	if m.State() != OnlineStateChooseMode {
		t.Error("Esc should step back")
	}
}

func TestOnlineMatchRematchPrompt(t *testing.T) {
	rig := newOnlineRig(t)
	m := NewOnlineMatchModel(multiplayer.MatchStartedEvent{
		MatchID:  "m1",
		Side:     core.Player2,
		Fighters: [2]string{"ken", "ryu"},
	}, "s2", rig.coord, testConfig())

	apply := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(OnlineMatchModel)
	}

	apply(multiplayer.MatchEndedEvent{MatchID: "m1", Reason: multiplayer.MatchEndReasonCompleted, Winner: core.Player2, Rounds2: 2})
	lines := strings.Join(m.resultLines(), "\n")
	if !strings.Contains(lines, "YOU WIN") || !strings.Contains(lines, "R: Rematch") {
		t.Errorf("result panel = %q", lines)
	}

	apply(multiplayer.RematchRequestedEvent{MatchID: "m1"})
	if !strings.Contains(strings.Join(m.resultLines(), "\n"), "Opponent wants a rematch") {
		t.Error("opponent's request should be shown")
	}

	apply(runeKey("r"))
	if !m.rematchOK {
		t.Error("R should accept the rematch")
	}

	apply(multiplayer.MatchStartedEvent{MatchID: "m2", Side: core.Player2, Fighters: [2]string{"ryu", "ryu"}, Rematch: true})
	if m.ended != nil || m.matchID != "m2" {
		t.Error("a rematch should reset the view")
	}
	if p1, _ := m.Game().FighterIDs(); p1 != "ryu" {
		t.Errorf("rematch fighters not applied, p1 = %q", p1)
	}
}

func TestOnlineMatchIgnoresStaleSnapshots(t *testing.T) {
	rig := newOnlineRig(t)
	m := NewOnlineMatchModel(multiplayer.MatchStartedEvent{
		MatchID: "m1", Side: core.Player1, Fighters: [2]string{"ken", "ryu"},
	}, "s1", rig.coord, testConfig())
	m.lastTick = 10

	next, _ := m.Update(multiplayer.SnapshotEvent{MatchID: "other", Tick: 20, Snapshot: m.Game().Snapshot()})
	if next.(OnlineMatchModel).lastTick != 10 {
		t.Error("snapshots of other matches must be ignored")
	}
	next, _ = m.Update(multiplayer.SnapshotEvent{MatchID: "m1", Tick: 5, Snapshot: m.Game().Snapshot()})
	if next.(OnlineMatchModel).lastTick != 10 {
		t.Error("older snapshots must be ignored")
	}
}
