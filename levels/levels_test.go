package levels

import (
	"slices"
	"testing"
)

func TestEmbeddedLevelsLoad(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatalf("no embedded levels")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q): %v", name, err)
			}
			if lvl.StageTime <= 0 {
				t.Fatalf("stage_time %v", lvl.StageTime)
			}
			if len(lvl.SolidRects()) == 0 {
				t.Fatalf("level has no ground")
			}
			types := make([]string, 0, len(lvl.Entities))
			for _, e := range lvl.Entities {
				types = append(types, e.Type)
			}
			for _, want := range []string{"player", "spawn_point", "door", "goal"} {
				if !slices.Contains(types, want) {
					t.Fatalf("level %q has no %s", name, want)
				}
			}
		})
	}
}

func TestLoadAcceptsPathForms(t *testing.T) {
	for _, name := range []string{"level_01", "level_01.yaml", "levels/level_01.yaml"} {
		if _, err := Load(name); err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
	}
	if _, err := Load("missing"); err == nil {
		t.Fatalf("expected error for missing level")
	}
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no_tiles", "name: x\nentities:\n  - {type: player}\n"},
		{"ragged_rows", "name: x\ntiles: [\"###\", \"##\"]\nentities:\n  - {type: player}\n"},
		{"no_player", "name: x\ntiles: [\"###\"]\n"},
		{"two_players", "name: x\ntiles: [\"###\"]\nentities:\n  - {type: player}\n  - {type: player}\n"},
		{"untyped_entity", "name: x\ntiles: [\"###\"]\nentities:\n  - {type: player}\n  - {x: 3}\n"},
		{"gapped_door_slots", "name: x\ntiles: [\"###\"]\nentities:\n  - {type: player}\n  - {type: door, props: {slot: 0}}\n  - {type: door, props: {slot: 2}}\n"},
		{"duplicate_door_slots", "name: x\ntiles: [\"###\"]\nentities:\n  - {type: player}\n  - {type: door}\n  - {type: door, props: {slot: 0}}\n"},
		{"non_numeric_slot", "name: x\ntiles: [\"###\"]\nentities:\n  - {type: player}\n  - {type: door, props: {slot: a}}\n"},
		{"trigger_past_last_door", "name: x\ntiles: [\"###\"]\nentities:\n  - {type: player}\n  - {type: door}\n  - {type: button, props: {door: 1}}\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.src)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseAcceptsUnorderedDoorSlots(t *testing.T) {
	src := "name: x\ntiles: [\"###\"]\nentities:\n  - {type: player}\n" +
		"  - {type: door, props: {slot: 1}}\n  - {type: door}\n  - {type: lever, props: {door: 1}}\n"
	if _, err := Parse([]byte(src)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func TestSolidRects(t *testing.T) {
	cases := []struct {
		name  string
		tiles []string
		want  []Rect
	}{
		{
			name:  "floor",
			tiles: []string{"....", "####"},
			want:  []Rect{{X: 0, Y: 1, W: 4, H: 1}},
		},
		{
			name:  "block",
			tiles: []string{"##..", "##..", "...."},
			want:  []Rect{{X: 0, Y: 0, W: 2, H: 2}},
		},
		{
			name:  "l_shape",
			tiles: []string{"#...", "#...", "####"},
			want:  []Rect{{X: 0, Y: 0, W: 1, H: 3}, {X: 1, Y: 2, W: 3, H: 1}},
		},
		{
			name:  "empty",
			tiles: []string{"...."},
			want:  nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lvl := &Level{Tiles: c.tiles}
			got := lvl.SolidRects()
			if !slices.Equal(got, c.want) {
				t.Fatalf("SolidRects = %v, want %v", got, c.want)
			}
		})
	}
}
