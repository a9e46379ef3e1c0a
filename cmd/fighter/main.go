// fighter is a two-player arcade fighting game for the terminal, a desktop
// window, or an SSH server.
//
// Usage:
//
//	fighter list              - List match modes and fighters
//	fighter play <mode>       - Play a mode directly
//	fighter menu              - Pick mode and fighters interactively
//	fighter scores [mode]     - Browse the scoreboard
//	fighter serve             - Start SSH server for remote and online play
//
// Global flags:
//
//	--fps <rate>          - Frames stepped per second (default: 60); the match always advances 1/60 s per frame
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.fighter/scores.db)
//	--log-level <level>   - debug, info, warn or error (default: warn)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import the fighter to register its modes
	_ "github.com/vovakirdan/tui-fighter/internal/games/fighter"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fighter",
	Short: "TUI Fighter - Street-fighting in your terminal",
	Long: `TUI Fighter is a two-player arcade fighting game rendered as
colored characters. Fight the CPU, a friend on the same keyboard, or an
opponent over SSH.

Available commands:
  list     - Show match modes and fighters
  play     - Start a match directly
  menu     - Interactive mode and fighter select
  serve    - Start SSH server for remote and online play
  scores   - View the scoreboard

Examples:
  fighter list
  fighter play fight --p1 ryu
  fighter play versus --window
  fighter menu
  fighter serve --ssh :2222
  fighter scores fight`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		log.SetLevel(level)
		log.SetReportTimestamp(true)
		log.SetPrefix("fighter")
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frames stepped per second; each frame advances the match by 1/60 s, so lower rates play in slow motion")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.fighter/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
