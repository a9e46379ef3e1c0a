package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/core"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/platform/canvas"
	"github.com/vovakirdan/tui-fighter/internal/platform/tui"
	"github.com/vovakirdan/tui-fighter/internal/registry"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagP1         string
	flagP2         string
	flagWindow     bool
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Start a match",
	Long: `Start a match in the given mode: fight, versus or training.

Player 1:
  W A S D    - Move, jump, crouch
  U I O      - Light, medium, heavy punch
  J K L      - Light, medium, heavy kick

Player 2 (versus):
  Arrows     - Move, jump, crouch
  7 8 9      - Light, medium, heavy punch
  4 5 6      - Light, medium, heavy kick

  P/Esc      - Pause
  R          - Restart (after the match)
  Q/Ctrl+C   - Quit

Difficulty options (CPU):
  easy   - CPU starts slow and sharpens as you win
  normal - Starts at 30% difficulty
  hard   - Starts at 70% difficulty
  fixed  - No progression, stays at config's initial level

Examples:
  fighter play fight
  fighter play fight --p1 ryu --p2 ken --difficulty hard
  fighter play versus --window
  fighter play training --config ./my-fighter.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom fighter config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "CPU difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagP1, "p1", string(fighter.Ken), "Player 1 fighter")
	playCmd.Flags().StringVar(&flagP2, "p2", string(fighter.Ryu), "Player 2 or CPU fighter")
	playCmd.Flags().BoolVar(&flagWindow, "window", false, "Play in a desktop window instead of the terminal")
}

// applyFighterFlags pushes --config, --difficulty, --p1 and --p2 into the fighter package.
func applyFighterFlags() error {
	if !config.ValidPreset(flagDifficulty) {
		return fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}
	p1, err := fighter.ParseFighterID(flagP1)
	if err != nil {
		return err
	}
	p2, err := fighter.ParseFighterID(flagP2)
	if err != nil {
		return err
	}
	fighter.SetConfigPath(flagConfig)
	fighter.SetDifficultyPreset(flagDifficulty)
	fighter.SetFighters(p1, p2)
	return nil
}

// terminalConfig builds the runtime config from the terminal size and global flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scoreboard. Matches still run without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'fighter list' to see available modes.")
		os.Exit(1)
	}
	if err := applyFighterFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := terminalConfig()

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()

	var runErr error
	if flagWindow {
		runErr = canvas.Run(game, store, cfg)
	} else {
		runErr = tui.Run(game, store, cfg)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
