package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
)

func menuKey(t *testing.T, m MenuModel, msg tea.KeyMsg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(MenuModel)
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func menuIndex(t *testing.T, m MenuModel, mode multiplayer.MatchMode) int {
	t.Helper()
	for i, item := range m.items {
		if item.Mode == mode {
			return i
		}
	}
	t.Fatalf("mode %v not in menu", mode)
	return 0
}

func TestMenuListsFighterModes(t *testing.T) {
	m := NewMenuModel(nil, testConfig())
	if len(m.items) != 3 {
		t.Fatalf("menu has %d items, want fight, training and versus", len(m.items))
	}
	for _, item := range m.items {
		if item.Mode == multiplayer.MatchModeOnlinePvP {
			t.Error("local menu must not offer online play")
		}
	}

	online := newMenuModel(nil, testConfig(), true)
	menuIndex(t, online, multiplayer.MatchModeOnlinePvP)
}

func TestMenuPicksBothFighters(t *testing.T) {
	m := NewMenuModel(nil, testConfig())
	m.cursor = menuIndex(t, m, multiplayer.MatchModeLocalVersus)

	m = menuKey(t, m, keyEnter)
	if m.stage != stageFighter {
		t.Fatal("selecting a mode should open fighter select")
	}
	if !strings.Contains(m.View(), "Player 1") {
		t.Error("first pick belongs to player 1")
	}

	m.cursor = m.rosterIndex(fighter.Ryu)
	m = menuKey(t, m, keyEnter)
	if m.Selected() != nil {
		t.Fatal("versus needs a second pick")
	}
	m.cursor = m.rosterIndex(fighter.Ryu)
	m = menuKey(t, m, keyEnter)

	res := m.Result()
	if res.Quit || res.GameID != "versus" || res.Mode != multiplayer.MatchModeLocalVersus {
		t.Fatalf("result = %+v", res)
	}
	if res.Fighters != [2]fighter.FighterID{fighter.Ryu, fighter.Ryu} {
		t.Errorf("fighters = %v", res.Fighters)
	}
}

func TestMenuOnlinePicksOneFighter(t *testing.T) {
	m := newMenuModel(nil, testConfig(), true)
	m.cursor = menuIndex(t, m, multiplayer.MatchModeOnlinePvP)

	m = menuKey(t, m, keyEnter)
	m = menuKey(t, m, keyEnter)

	if m.Selected() == nil || m.Selected().Mode != multiplayer.MatchModeOnlinePvP {
		t.Fatalf("online should be selected after one pick, got %+v", m.Selected())
	}
}

func TestMenuBackSteps(t *testing.T) {
	m := NewMenuModel(nil, testConfig())
	m = menuKey(t, m, keyDown)
	chosen := m.cursor

	m = menuKey(t, m, keyEnter)
	m = menuKey(t, m, keyEnter)
	if m.picking != 1 {
		t.Fatalf("picking = %d, want 1", m.picking)
	}

	m = menuKey(t, m, keyEsc)
	if m.stage != stageFighter || m.picking != 0 {
		t.Fatal("Esc should step back to the first pick")
	}
	m = menuKey(t, m, keyEsc)
	if m.stage != stageMode || m.cursor != chosen {
		t.Errorf("Esc should return to the mode list at %d, got stage %v cursor %d", chosen, m.stage, m.cursor)
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := menuKey(t, NewMenuModel(nil, testConfig()), tea.KeyMsg{Type: tea.KeyTab})
	if !m.Result().WantsScoreboard {
		t.Error("Tab should open the scoreboard")
	}

	m = menuKey(t, NewMenuModel(nil, testConfig()), runeKey("q"))
	if !m.Result().Quit {
		t.Error("q should quit")
	}
}

func TestCenterTextIgnoresStyling(t *testing.T) {
	got := centerText(menuCursorStyle.Render("ab"), 10)
	if !strings.HasPrefix(got, "    ") {
		t.Errorf("centerText = %q", got)
	}
}
