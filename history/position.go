package history

import (
	"errors"
	"fmt"
	"slices"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

// PositionEntry is one tracked entity's parent-local position.
type PositionEntry struct {
	Entity ecs.Entity
	X      float64
	Y      float64
}

// PositionSnapshot holds one entry per tracked entity, in child order.
type PositionSnapshot []PositionEntry

// Spawner creates and destroys the entities recorded in the object log.
type Spawner interface {
	Spawn(x, y float64) (ecs.Entity, error)
	Despawn(e ecs.Entity)
}

type PositionConfig struct {
	// Root's children that carry a Transform are the tracked entities.
	Root ecs.Entity
	// Anchor is where SaveLog spawns an object, usually the player.
	Anchor  ecs.Entity
	Spawner Spawner
}

// PositionHistory keeps two independent logs: snapshots of tracked entity
// positions and the entities spawned at each save. Either log can be used
// alone, so their lengths are not required to match.
type PositionHistory struct {
	world     *ecs.World
	cfg       PositionConfig
	positions []PositionSnapshot
	objects   []ecs.Entity
	baseline  PositionSnapshot
}

func NewPositionHistory(w *ecs.World, cfg PositionConfig) *PositionHistory {
	return &PositionHistory{world: w, cfg: cfg}
}

// Initialize forgets both logs and records the level-start positions used
// by RestoreBaseline.
func (h *PositionHistory) Initialize() {
	h.positions = nil
	h.objects = nil
	h.baseline = nil
	if h.world.IsAlive(h.cfg.Root) {
		h.baseline = h.capture()
	}
}

func (h *PositionHistory) tracked() []ecs.Entity {
	var out []ecs.Entity
	for _, c := range ecs.Children(h.world, h.cfg.Root) {
		if ecs.Has(h.world, c, component.TransformComponent.Kind()) {
			out = append(out, c)
		}
	}
	return out
}

func (h *PositionHistory) capture() PositionSnapshot {
	tracked := h.tracked()
	snap := make(PositionSnapshot, 0, len(tracked))
	for _, e := range tracked {
		t, _ := ecs.Get(h.world, e, component.TransformComponent.Kind())
		snap = append(snap, PositionEntry{Entity: e, X: t.X, Y: t.Y})
	}
	return snap
}

// SaveLog appends a position snapshot when a root is configured and spawns
// one object at the anchor when a spawner is configured.
func (h *PositionHistory) SaveLog() error {
	saved := false
	if h.world.IsAlive(h.cfg.Root) {
		h.positions = append(h.positions, h.capture())
		saved = true
	}
	if h.cfg.Spawner != nil && h.world.IsAlive(h.cfg.Anchor) {
		x, y, ok := ecs.WorldPosition(h.world, h.cfg.Anchor)
		if !ok {
			return fmt.Errorf("%w: spawn anchor has no transform", ErrMissingReference)
		}
		e, err := h.cfg.Spawner.Spawn(x, y)
		if err != nil {
			return fmt.Errorf("position history: spawn: %w", err)
		}
		h.objects = append(h.objects, e)
		saved = true
	}
	if !saved {
		return fmt.Errorf("%w: no tracked root or spawn anchor", ErrMissingReference)
	}
	return nil
}

// Undo rolls back one position snapshot and one spawned object. Both are
// attempted even when the other fails.
func (h *PositionHistory) Undo() error {
	return errors.Join(h.UndoPosition(), h.UndoObject())
}

// UndoPosition writes the last snapshot back onto the tracked entities and
// removes it. A snapshot that no longer matches the live children is kept
// and ErrHistoryDesync is returned.
func (h *PositionHistory) UndoPosition() error {
	if len(h.positions) == 0 {
		return fmt.Errorf("%w: position log is empty", ErrEmptyHistory)
	}
	last := len(h.positions) - 1
	if err := h.apply(h.positions[last]); err != nil {
		return err
	}
	h.positions[last] = nil
	h.positions = h.positions[:last]
	return nil
}

// UndoObject destroys the most recently spawned object.
func (h *PositionHistory) UndoObject() error {
	if len(h.objects) == 0 {
		return fmt.Errorf("%w: object log is empty", ErrEmptyHistory)
	}
	last := len(h.objects) - 1
	e := h.objects[last]
	h.objects = h.objects[:last]
	h.destroy(e)
	return nil
}

func (h *PositionHistory) destroy(e ecs.Entity) {
	if !h.world.IsAlive(e) {
		return
	}
	if h.cfg.Spawner != nil {
		h.cfg.Spawner.Despawn(e)
		return
	}
	h.world.DestroyEntity(e)
}

func (h *PositionHistory) apply(snap PositionSnapshot) error {
	tracked := h.tracked()
	if len(tracked) != len(snap) {
		return fmt.Errorf("%w: %d tracked entities, snapshot has %d", ErrHistoryDesync, len(tracked), len(snap))
	}
	for i, entry := range snap {
		if tracked[i] != entry.Entity {
			return fmt.Errorf("%w: child %d is %v, snapshot recorded %v", ErrHistoryDesync, i, tracked[i], entry.Entity)
		}
	}
	for _, entry := range snap {
		t, _ := ecs.Get(h.world, entry.Entity, component.TransformComponent.Kind())
		t.X = entry.X
		t.Y = entry.Y
	}
	ecs.SyncTransforms(h.world)
	return nil
}

// RestoreBaseline moves tracked entities back to their level-start
// positions. It does not touch either log.
func (h *PositionHistory) RestoreBaseline() error {
	if h.baseline == nil {
		return nil
	}
	return h.apply(h.baseline)
}

// ClearHistory forgets both logs without destroying anything.
func (h *PositionHistory) ClearHistory() {
	h.positions = nil
	h.objects = nil
}

// ClearDeadBodies destroys every logged object and empties the object log.
func (h *PositionHistory) ClearDeadBodies() {
	for _, e := range h.objects {
		h.destroy(e)
	}
	h.objects = nil
}

func (h *PositionHistory) PositionCount() int {
	return len(h.positions)
}

func (h *PositionHistory) ObjectCount() int {
	return len(h.objects)
}

// LastPosition returns a copy of the newest snapshot.
func (h *PositionHistory) LastPosition() (PositionSnapshot, bool) {
	if len(h.positions) == 0 {
		return nil, false
	}
	return slices.Clone(h.positions[len(h.positions)-1]), true
}

// LastObject returns the most recently spawned object.
func (h *PositionHistory) LastObject() (ecs.Entity, bool) {
	if len(h.objects) == 0 {
		return 0, false
	}
	return h.objects[len(h.objects)-1], true
}
