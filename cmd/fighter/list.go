package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/games/fighter"
	"github.com/vovakirdan/tui-fighter/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List match modes and fighters",
	Long:  `Shows every match mode and the playable fighters.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Match modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Fighters:")
	fmt.Println()
	for _, id := range fighter.Roster {
		name := string(id)
		if def, err := config.LoadCharacter(string(id)); err == nil {
			name = def.Info.DisplayName
		}
		fmt.Printf("  %-*s  %s\n", maxIDLen, id, name)
	}

	fmt.Println()
	fmt.Println("Run 'fighter play <mode> --p1 <fighter>' to start a match.")
}
