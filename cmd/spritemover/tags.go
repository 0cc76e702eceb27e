package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spritemover/internal/assets"
)

var flagSheet string

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List sprite sheet tags",
	Long: `Shows each tag of the sprite sheet with its frames, size, first tile
and palette bank. Without --sheet the sheet from the config is used.`,
	Args: cobra.NoArgs,
	Run:  runTags,
}

func init() {
	tagsCmd.Flags().StringVar(&flagSheet, "sheet", "", "Aseprite JSON export to inspect")
}

func runTags(cmd *cobra.Command, args []string) {
	path := flagSheet
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path = cfg.Sprite.Sheet
	}

	var (
		g   *assets.Graphics
		err error
	)
	if path == "" {
		g, err = assets.Default()
	} else {
		g, err = assets.LoadFile(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	maxName := 3 // "Tag" header
	for _, t := range g.Tags() {
		if len(t.Name) > maxName {
			maxName = len(t.Name)
		}
	}

	fmt.Printf("  %-*s  %-6s  %-5s  %-4s  %-7s  %s\n", maxName, "Tag", "Frames", "Size", "Tile", "Palette", "Color")
	for _, t := range g.Tags() {
		f, err := t.Sprite(0)
		if err != nil {
			continue
		}
		fmt.Printf("  %-*s  %-6d  %-5s  %-4d  %-7d  %s\n",
			maxName, t.Name, t.Len(), fmt.Sprintf("%dx%d", f.W, f.H), f.Tile, f.Palette, g.PaletteColor(f.Palette))
	}
	fmt.Printf("\n%d frames in sheet.\n", g.Frames())
}
