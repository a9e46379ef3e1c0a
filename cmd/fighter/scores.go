package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-fighter/internal/platform/tui"
	"github.com/vovakirdan/tui-fighter/internal/registry"
	"github.com/vovakirdan/tui-fighter/internal/storage"
)

var (
	flagStats bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Browse the scoreboard",
	Long: `Open the scoreboard on the given mode, or on the first mode if none is given.
Use "online" for the history of online matches.

Tab/Shift+Tab switch modes, Esc or Q leaves.

Examples:
  fighter scores
  fighter scores fight
  fighter scores online
  fighter scores --stats
  fighter scores --clear training`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Print per-mode statistics instead of opening the scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded score of the given mode")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) && gameID != "online" {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'fighter list' to see available modes.")
			os.Exit(1)
		}
	}
	if flagClear && !registry.Exists(gameID) {
		fmt.Fprintln(os.Stderr, "Error: --clear needs a mode, e.g. 'fighter scores --clear fight'")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared %s scores.\n", gameID)
		return
	case flagStats:
		stats, err := store.GetAllGamesStats()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printStats(os.Stdout, stats, time.Now())
		return
	}

	cfg := terminalConfig()
	if _, err := tui.RunScoreboardFor(store, cfg.ScreenW, cfg.ScreenH, gameID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// printStats writes one line per played mode, registered modes first.
func printStats(w io.Writer, stats map[string]*storage.GameStats, now time.Time) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for _, g := range registry.List() {
		if _, ok := stats[g.ID]; ok {
			ids = append(ids, g.ID)
		}
	}
	var other []string
	for id := range stats {
		if !registry.Exists(id) {
			other = append(other, id)
		}
	}
	sort.Strings(other)
	ids = append(ids, other...)

	fmt.Fprintf(w, "%-10s %8s %10s %10s %7s  %s\n", "MODE", "MATCHES", "BEST", "AVERAGE", "ROUNDS", "LAST PLAYED")
	for _, id := range ids {
		st := stats[id]
		last := "-"
		if !st.LastPlayed.IsZero() {
			last = humanize.RelTime(st.LastPlayed, now, "ago", "from now")
		}
		fmt.Fprintf(w, "%-10s %8s %10s %10s %7s  %s\n",
			id,
			humanize.Comma(int64(st.GamesCount)),
			humanize.Comma(int64(st.HighScore)),
			humanize.Comma(int64(math.Round(st.AvgScore))),
			humanize.Comma(int64(st.RoundsWon)),
			last)
	}
}
