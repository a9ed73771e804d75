package levels

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Level is a tile grid plus the entities placed on it. Tiles are rows of
// characters; '#' is solid ground, anything else is empty.
type Level struct {
	Name      string   `yaml:"name"`
	StageTime float64  `yaml:"stage_time"`
	TileSize  float64  `yaml:"tile_size"`
	Tiles     []string `yaml:"tiles"`
	Entities  []Entity `yaml:"entities"`
}

// Entity places one prefab. Type names the prefab file without extension.
// X and Y are the entity center in pixels.
type Entity struct {
	Type  string         `yaml:"type"`
	X     float64        `yaml:"x"`
	Y     float64        `yaml:"y"`
	Props map[string]any `yaml:"props,omitempty"`
}

// Rect is a solid area in tiles.
type Rect struct {
	X, Y, W, H int
}

// Load reads a level by basename, preferring the copy on disk so levels can
// be edited while the game runs.
func Load(name string) (*Level, error) {
	clean := cleanLevelPath(name)
	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = LevelsFS.ReadFile(clean)
		if err != nil {
			return nil, fmt.Errorf("read level %s: %w", clean, err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.TileSize <= 0 {
		lvl.TileSize = 32
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if len(l.Tiles) == 0 {
		return fmt.Errorf("level %q: no tiles", l.Name)
	}
	width := len(l.Tiles[0])
	for i, row := range l.Tiles {
		if len(row) != width {
			return fmt.Errorf("level %q: row %d has %d tiles, want %d", l.Name, i, len(row), width)
		}
	}
	players := 0
	var slots []int
	for i, e := range l.Entities {
		if e.Type == "" {
			return fmt.Errorf("level %q: entity %d has no type", l.Name, i)
		}
		switch e.Type {
		case "player":
			players++
		case "door":
			slot, err := numberProp(e.Props, "slot")
			if err != nil {
				return fmt.Errorf("level %q: entity %d: %w", l.Name, i, err)
			}
			slots = append(slots, slot)
		}
	}
	if players != 1 {
		return fmt.Errorf("level %q: want exactly one player, got %d", l.Name, players)
	}
	if err := checkDoorSlots(slots); err != nil {
		return fmt.Errorf("level %q: %w", l.Name, err)
	}
	for i, e := range l.Entities {
		if _, ok := e.Props["door"]; !ok {
			continue
		}
		door, err := numberProp(e.Props, "door")
		if err != nil {
			return fmt.Errorf("level %q: entity %d: %w", l.Name, i, err)
		}
		if door < 0 || door >= len(slots) {
			return fmt.Errorf("level %q: entity %d targets door %d, level has %d", l.Name, i, door, len(slots))
		}
	}
	return nil
}

// checkDoorSlots requires door slots to be unique and to count up from 0,
// so a slot is also the door's index in the door list.
func checkDoorSlots(slots []int) error {
	sorted := slices.Clone(slots)
	slices.Sort(sorted)
	for i, slot := range sorted {
		if slot != i {
			if i > 0 && sorted[i-1] == slot {
				return fmt.Errorf("door slot %d used twice", slot)
			}
			return fmt.Errorf("door slot %d missing", i)
		}
	}
	return nil
}

// numberProp reads an integer prop. A missing prop is 0.
func numberProp(props map[string]any, key string) (int, error) {
	v, ok := props[key]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s: want a number, got %T", key, v)
	}
}

func (l *Level) Width() int {
	if len(l.Tiles) == 0 {
		return 0
	}
	return len(l.Tiles[0])
}

func (l *Level) Height() int {
	return len(l.Tiles)
}

func (l *Level) Solid(x, y int) bool {
	if y < 0 || y >= len(l.Tiles) || x < 0 || x >= len(l.Tiles[y]) {
		return false
	}
	return l.Tiles[y][x] == '#'
}

// SolidRects merges solid tiles into rectangles, growing each one right and
// then down, so the physics world gets a handful of boxes instead of one per
// tile.
func (l *Level) SolidRects() []Rect {
	width, height := l.Width(), l.Height()
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	free := func(x, y int) bool { return !visited[index(x, y)] && l.Solid(x, y) }

	var rects []Rect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !free(x, y) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && free(x2, y); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !free(x2, y2) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			rects = append(rects, Rect{X: x, Y: y, W: maxW, H: maxH})
		}
	}
	return rects
}

// Names lists the embedded levels in order.
func Names() []string {
	entries, err := LevelsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	return names
}

func cleanLevelPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".yaml") {
		s += ".yaml"
	}
	return s
}
