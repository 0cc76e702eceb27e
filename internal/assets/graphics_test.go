package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSheet(t *testing.T) {
	g, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	if g.Frames() != 3 {
		t.Errorf("Frames() = %d, expected 3", g.Frames())
	}

	ball, err := g.Lookup("Ball")
	if err != nil {
		t.Fatalf("Lookup(Ball) failed: %v", err)
	}
	if ball.Len() != 1 {
		t.Errorf("Ball has %d frames, expected 1", ball.Len())
	}

	f, err := ball.Sprite(0)
	if err != nil {
		t.Fatalf("Sprite(0) failed: %v", err)
	}
	if f.W != 16 || f.H != 16 {
		t.Errorf("Ball frame is %dx%d, expected 16x16", f.W, f.H)
	}
	if f.Index != 2 {
		t.Errorf("Ball frame index = %d, expected 2", f.Index)
	}
	// Two 16x16 frames (4 tiles each) come before the ball
	if f.Tile != 8 {
		t.Errorf("Ball tile = %d, expected 8", f.Tile)
	}
	if f.Duration != 100*time.Millisecond {
		t.Errorf("Ball duration = %v, expected 100ms", f.Duration)
	}
	if g.PaletteColor(f.Palette) != "#ffaf00" {
		t.Errorf("Ball palette colour = %q, expected #ffaf00", g.PaletteColor(f.Palette))
	}
}

func TestLookupErrors(t *testing.T) {
	g, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	if _, err := g.Lookup("Missing"); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("Lookup(Missing) error = %v, expected ErrTagNotFound", err)
	}

	ball, _ := g.Lookup("Ball")
	if _, err := ball.Sprite(1); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("Sprite(1) error = %v, expected ErrFrameOutOfRange", err)
	}
	if _, err := ball.Sprite(-1); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("Sprite(-1) error = %v, expected ErrFrameOutOfRange", err)
	}
}

func TestLoadArrayLayout(t *testing.T) {
	sheet := `{
	  "frames": [
	    {"filename": "a", "frame": {"x":0,"y":0,"w":8,"h":8}, "duration": 50},
	    {"filename": "b", "frame": {"x":8,"y":0,"w":8,"h":8}, "duration": 50},
	    {"filename": "c", "frame": {"x":16,"y":0,"w":32,"h":16}, "duration": 50}
	  ],
	  "meta": {"frameTags": [
	    {"name": "Spin", "from": 0, "to": 1, "direction": "reverse"},
	    {"name": "Bar", "from": 2, "to": 2}
	  ]}
	}`

	g, err := Load([]byte(sheet))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	spin, err := g.Lookup("Spin")
	if err != nil {
		t.Fatalf("Lookup(Spin) failed: %v", err)
	}
	first, _ := spin.Sprite(0)
	if first.Index != 1 {
		t.Errorf("reverse tag frame 0 = sheet frame %d, expected 1", first.Index)
	}

	bar, _ := g.Lookup("Bar")
	f, _ := bar.Sprite(0)
	if f.Tile != 2 {
		t.Errorf("Bar tile = %d, expected 2", f.Tile)
	}
	if f.Tiles() != 8 {
		t.Errorf("Bar tiles = %d, expected 8", f.Tiles())
	}
	if bar.Direction != "forward" {
		t.Errorf("Bar direction = %q, expected forward", bar.Direction)
	}
	if bar.Color == "" {
		t.Error("Bar should receive a fallback colour")
	}

	tags := g.Tags()
	if len(tags) != 2 || tags[0].Name != "Spin" || tags[1].Name != "Bar" {
		t.Errorf("Tags() out of sheet order: %v", tags)
	}
}

func TestLoadRejectsBadSheets(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
	}{
		{"not json", `{frames`},
		{"no frames", `{"meta": {}}`},
		{"odd size", `{"frames": [{"frame": {"w": 12, "h": 8}}]}`},
		{"tag out of range", `{"frames": [{"frame": {"w": 8, "h": 8}}], "meta": {"frameTags": [{"name": "X", "from": 0, "to": 3}]}}`},
		{"duplicate tag", `{"frames": [{"frame": {"w": 8, "h": 8}}], "meta": {"frameTags": [{"name": "X", "from": 0, "to": 0}, {"name": "X", "from": 0, "to": 0}]}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load([]byte(tc.sheet)); err == nil {
				t.Error("expected Load() to fail")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	if err := os.WriteFile(path, defaultSheet, 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	g, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if _, err := g.Lookup("Paddle Mid"); err != nil {
		t.Errorf("Lookup(Paddle Mid) failed: %v", err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected LoadFile() to fail for a missing file")
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := map[string]string{
		"#FFAF00FF": "#ffaf00",
		"#123456":   "#123456",
		"red":       "",
		"#123":      "",
	}
	for in, want := range tests {
		if got := normalizeColor(in); got != want {
			t.Errorf("normalizeColor(%q) = %q, expected %q", in, got, want)
		}
	}
}
