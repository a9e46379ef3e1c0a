package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-fighter/internal/storage"
)

func TestPrintStats(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, s := range []struct {
		mode  string
		score int
	}{{"versus", 800}, {"fight", 12000}, {"fight", 4000}} {
		if _, err := store.SaveScore(s.mode, "ken", s.score, 1); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	printStats(&out, stats, time.Now())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("output:\n%s", out.String())
	}
	fight := strings.Fields(lines[1])
	if fight[0] != "fight" || fight[1] != "2" || fight[2] != "12,000" || fight[3] != "8,000" || fight[4] != "2" {
		t.Errorf("fight line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "versus") {
		t.Errorf("modes should be listed in order, got %q", lines[2])
	}
}

func TestPrintStatsEmpty(t *testing.T) {
	var out bytes.Buffer
	printStats(&out, nil, time.Now())
	if !strings.Contains(out.String(), "No scores recorded yet") {
		t.Errorf("output = %q", out.String())
	}
}
