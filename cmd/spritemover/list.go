package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spritemover/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List vblank sync strategies",
	Long:  `Shows the strategies the frame loop can use to wait for vertical blank.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	strategies := registry.List()

	if len(strategies) == 0 {
		fmt.Println("No sync strategies available.")
		return
	}

	fmt.Println("Sync strategies:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range strategies {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")

	for _, s := range strategies {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	fmt.Println()
	fmt.Println("Select one with --sync <id> or sync.mode in the config.")
}
