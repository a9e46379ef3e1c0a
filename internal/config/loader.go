package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "fighter.yaml"

// Load loads the fighter rules.
// Search order: customPath -> ~/.fighter/configs/fighter.yaml -> ./configs/fighter.yaml -> embedded default.
// Files only need to contain the keys they override.
func Load(customPath string) (FighterConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FighterConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return FighterConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userPath("configs", configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parse(defaultFighterYAML)
	if err != nil {
		return DefaultFighterConfig(), nil
	}
	return cfg, nil
}

// parse decodes YAML over the built-in defaults and validates the result.
func parse(data []byte) (FighterConfig, error) {
	cfg := DefaultFighterConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FighterConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return FighterConfig{}, err
	}
	return cfg, nil
}

// Validate rejects rules the simulation cannot run with.
func (c FighterConfig) Validate() error {
	var errs []error
	if c.Stage.Width <= 2*c.Stage.Padding {
		errs = append(errs, fmt.Errorf("stage.width %.1f must exceed twice the padding", c.Stage.Width))
	}
	if c.Round.HitPoints <= 0 {
		errs = append(errs, errors.New("round.hit_points must be positive"))
	}
	if c.Round.RoundsToWin <= 0 {
		errs = append(errs, errors.New("round.rounds_to_win must be positive"))
	}
	if c.Round.TimerFrames <= 0 {
		errs = append(errs, errors.New("round.timer_frames must be positive"))
	}
	if c.Physics.Gravity <= 0 {
		errs = append(errs, errors.New("physics.gravity must be positive"))
	}
	if c.StruckDelay < 0 {
		errs = append(errs, errors.New("struck_delay cannot be negative"))
	}
	return errors.Join(errs...)
}

// userPath returns a path under ~/.fighter, or empty if home is unavailable.
func userPath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, ".fighter"}, elem...)...)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *FighterConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.CPU.Aggression *= 0.6
	case DifficultyHard:
		cfg.CPU.Aggression = min(1.0, cfg.CPU.Aggression*1.5)
	}
}
