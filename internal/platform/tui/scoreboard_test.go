package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-fighter/internal/multiplayer"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestScoreRows(t *testing.T) {
	now := time.Now()
	rows := scoreRows([]storage.ScoreEntry{
		{FighterID: "ken", Score: 12300, RoundsWon: 2, CreatedAt: now.Add(-2 * time.Hour)},
		{FighterID: "akuma", Score: 900, CreatedAt: now},
	}, map[string]string{"ken": "KEN"}, now)

	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][0] != "#1" || rows[0][1] != "KEN" || rows[0][2] != "12,300" || rows[0][3] != "2" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if !strings.Contains(rows[0][4], "ago") {
		t.Errorf("when = %q", rows[0][4])
	}
	if rows[1][1] != "AKUMA" {
		t.Errorf("unknown fighters fall back to their ID, got %q", rows[1][1])
	}
}

func TestOnlineRows(t *testing.T) {
	now := time.Now()
	rows := onlineRows([]storage.OnlineMatchResult{{
		Fighter1: "ken", Fighter2: "ryu",
		Score1: 3200, Score2: 100,
		Rounds1: 2, Rounds2: 1,
		Duration:  65,
		CreatedAt: now.Add(-time.Minute),
	}}, map[string]string{"ken": "KEN", "ryu": "RYU"}, now)

	row := rows[0]
	if row[0] != "KEN vs RYU" || row[1] != "3,200-100" || row[2] != "2-1" {
		t.Errorf("row = %v", row)
	}
	if row[3] == "-" || !strings.Contains(row[3], "1") {
		t.Errorf("length = %q", row[3])
	}
}

func TestMatchLengthEmpty(t *testing.T) {
	if got := matchLength(0); got != "-" {
		t.Errorf("matchLength(0) = %q", got)
	}
}

func TestBestsLine(t *testing.T) {
	got := bestsLine([]storage.FighterBest{
		{FighterID: "ryu", HighScore: 5000, Matches: 3},
		{FighterID: "ken", HighScore: 800, Matches: 1},
	}, map[string]string{"ryu": "RYU", "ken": "KEN"})

	want := "Best: RYU 5,000 (3 matches)  KEN 800 (1 match)"
	if got != want {
		t.Errorf("bestsLine = %q, want %q", got, want)
	}
	if bestsLine(nil, nil) != "" {
		t.Error("no bests should render nothing")
	}
}

func TestScoreboardLoadsModes(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveScore("fight", "ken", 4000, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveScore("fight", "ryu", 1000, 0); err != nil {
		t.Fatal(err)
	}

	m := newScoreboardAt(store, 120, 40, "fight")
	if m.games[m.gameCursor].ID != "fight" {
		t.Fatalf("opened on %q", m.games[m.gameCursor].ID)
	}
	if len(m.rows) != 2 || len(m.bests) != 2 {
		t.Fatalf("rows=%d bests=%d", len(m.rows), len(m.bests))
	}
	if !strings.Contains(m.View(), "Best: KEN 4,000") {
		t.Error("view should summarize fighter bests")
	}

	// The online tab is last; step back to it from the first tab.
	m.gameCursor = 0
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.games[m.gameCursor].ID != onlineTab {
		t.Fatalf("shift+tab from the first tab should wrap to online, got %q", m.games[m.gameCursor].ID)
	}
	if !strings.Contains(m.View(), "No online matches yet") {
		t.Error("empty online history should say so")
	}
}

func TestScoreboardOnlineHistory(t *testing.T) {
	store := openStore(t)
	err := store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID: "m1", GameID: "versus",
		Player1Session: "a", Player2Session: "b",
		Fighter1: "ken", Fighter2: "ryu",
		Score1: 2000, Score2: 300, Rounds1: 2,
		WinnerSession: "a", EndReason: "Completed", DurationSecs: 95,
	})
	if err != nil {
		t.Fatal(err)
	}

	m := newScoreboardAt(store, 80, 30, onlineTab)
	if len(m.rows) != 1 || m.rows[0][1] != "2,000-300" {
		t.Errorf("online rows = %v", m.rows)
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("Esc should go back")
	}
	next, _ = m.Update(runeKey("q"))
	if !next.(ScoreboardModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestStatsLine(t *testing.T) {
	now := time.Now()
	got := statsLine(&storage.GameStats{
		GamesCount: 3, AvgScore: 1233.6, RoundsWon: 1, LastPlayed: now.Add(-3 * time.Hour),
	}, now)
	if !strings.HasPrefix(got, "3 matches  avg 1,234  1 round won  last played 3 hours ago") {
		t.Errorf("statsLine = %q", got)
	}
	if statsLine(&storage.GameStats{}, now) != "" || statsLine(nil, now) != "" {
		t.Error("a mode never played has no stats line")
	}
}

func TestScoreboardShowsModeStats(t *testing.T) {
	store := openStore(t)
	for _, score := range []int{3000, 1000} {
		if _, err := store.SaveScore("fight", "ken", score, 1); err != nil {
			t.Fatal(err)
		}
	}

	m := newScoreboardAt(store, 120, 40, "fight")
	if m.stats == nil || m.stats.GamesCount != 2 {
		t.Fatalf("stats = %+v", m.stats)
	}
	if !strings.Contains(m.View(), "2 matches  avg 2,000  2 rounds won") {
		t.Error("view should summarize the mode's stats")
	}
}

func TestSessionScoreboardListsOwnMatches(t *testing.T) {
	store := openStore(t)
	for _, r := range []multiplayer.MatchResultData{
		{MatchID: "m1", GameID: "versus", Player1Session: "alice-1", Player2Session: "bob-2", Fighter1: "ken", Fighter2: "ryu", Score1: 900},
		{MatchID: "m2", GameID: "versus", Player1Session: "carol-3", Player2Session: "dave-4", Fighter1: "ryu", Fighter2: "ryu", Score1: 100},
	} {
		if err := store.SaveMatchResult(r); err != nil {
			t.Fatal(err)
		}
	}

	local := NewScoreboardModel(store, 80, 30)
	if local.games[len(local.games)-1].ID != onlineTab {
		t.Error("without a session there is no tab for its own matches")
	}

	m := newSessionScoreboard(store, 80, 30, "bob-2")
	last := len(m.games) - 1
	if m.games[last].ID != myMatchesTab {
		t.Fatalf("last tab = %q", m.games[last].ID)
	}
	m.gameCursor = last
	m.loadScores(myMatchesTab)
	if len(m.rows) != 1 || m.rows[0][1] != "900-0" {
		t.Errorf("own matches = %v", m.rows)
	}

	m = newSessionScoreboard(store, 80, 30, "erin-5")
	m.gameCursor = len(m.games) - 1
	m.loadScores(myMatchesTab)
	if !strings.Contains(m.View(), "You have not finished an online match yet") {
		t.Error("an empty history should say so")
	}
}
