package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchBuiltIn(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded YAML should parse: %v", err)
	}

	builtIn := DefaultFighterConfig()
	if cfg.Round != builtIn.Round {
		t.Errorf("round config drifted: yaml=%+v built-in=%+v", cfg.Round, builtIn.Round)
	}
	if cfg.Attacks != builtIn.Attacks {
		t.Errorf("attack table drifted: yaml=%+v built-in=%+v", cfg.Attacks, builtIn.Attacks)
	}
	if cfg.StruckDelay != 15 {
		t.Errorf("struck_delay = %d, expected 15", cfg.StruckDelay)
	}
}

func TestLoadCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fighter.yaml")
	data := "round:\n  rounds_to_win: 3\nattacks:\n  heavy:\n    damage: 40\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Round.RoundsToWin != 3 {
		t.Errorf("rounds_to_win = %d, expected 3", cfg.Round.RoundsToWin)
	}
	if cfg.Attacks.Heavy.Damage != 40 {
		t.Errorf("heavy damage = %d, expected 40", cfg.Attacks.Heavy.Damage)
	}
	if cfg.Round.HitPoints != 144 {
		t.Errorf("unspecified hit_points should keep default, got %d", cfg.Round.HitPoints)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("round:\n  hit_points: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "hit_points") {
		t.Errorf("expected hit_points validation error, got %v", err)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
	}{
		{DifficultyEasy, true, 0.0},
		{DifficultyNormal, true, 0.3},
		{DifficultyHard, true, 0.7},
		{DifficultyFixed, false, 0.0},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultFighterConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("initial level = %f, expected %f", cfg.Difficulty.InitialLevel, tc.level)
			}
		})
	}

	if !ValidPreset("") || ValidPreset("insane") {
		t.Error("ValidPreset misclassified")
	}
}

func TestDifficultyLevel(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 1000},
	})

	if got := dm.Level(0, 0); got != 0.2 {
		t.Errorf("Level at 0 = %f, expected 0.2", got)
	}
	if got := dm.Level(500, 0); got < 0.59 || got > 0.61 {
		t.Errorf("Level halfway = %f, expected 0.6", got)
	}
	if got := dm.Level(5000, 0); got != 1.0 {
		t.Errorf("Level should cap at 1.0, got %f", got)
	}

	fixed := NewDifficultyManager(DifficultyConfig{Enabled: false, InitialLevel: 0.4})
	if got := fixed.Level(5000, 5000); got != 0.4 {
		t.Errorf("disabled progression should stay at initial level, got %f", got)
	}
}

func TestReactionFrames(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{})
	cpu := CPUConfig{SlowReaction: 30, FastReaction: 6}

	if got := dm.ReactionFrames(cpu, 0); got != 30 {
		t.Errorf("level 0 = %d frames, expected 30", got)
	}
	if got := dm.ReactionFrames(cpu, 1); got != 6 {
		t.Errorf("level 1 = %d frames, expected 6", got)
	}
	if got := dm.ReactionFrames(CPUConfig{}, 1); got != 1 {
		t.Errorf("reaction should never drop below 1 frame, got %d", got)
	}
}
