package history

import (
	"fmt"
	"slices"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

// DoorState records one door in a snapshot. Door is the handle the entry
// was captured from, so a snapshot can be checked against the live list.
type DoorState struct {
	Door ecs.Entity
	Open bool
}

// DoorSnapshot holds one DoorState per slot, in slot order.
type DoorSnapshot []DoorState

func (s DoorSnapshot) Clone() DoorSnapshot {
	return slices.Clone(s)
}

// OpenFlags returns the open flags in slot order.
func (s DoorSnapshot) OpenFlags() []bool {
	out := make([]bool, len(s))
	for i, st := range s {
		out[i] = st.Open
	}
	return out
}

// DoorSprites are the image keys swapped in when a door opens or closes.
type DoorSprites struct {
	Open   string
	Closed string
}

// DoorTracker owns the ordered door list of a level and a stack of door
// snapshots. The top of the stack is the live state; everything below it is
// archived.
type DoorTracker struct {
	world   *ecs.World
	doors   []ecs.Entity
	sprites DoorSprites
	stack   *Stack[DoorSnapshot]
}

func NewDoorTracker(w *ecs.World, sprites DoorSprites) *DoorTracker {
	return &DoorTracker{
		world:   w,
		sprites: sprites,
		stack:   NewStack(DoorSnapshot.Clone),
	}
}

// Initialize fixes the door list for the lifetime of the level and records
// the current door state as the baseline.
func (t *DoorTracker) Initialize(doors []ecs.Entity) {
	t.doors = slices.Clone(doors)
	t.stack.Clear(t.capture())
}

// Doors returns the door list in slot order.
func (t *DoorTracker) Doors() []ecs.Entity {
	return slices.Clone(t.doors)
}

func (t *DoorTracker) capture() DoorSnapshot {
	snap := make(DoorSnapshot, len(t.doors))
	for i, d := range t.doors {
		snap[i] = DoorState{Door: d, Open: t.open(d)}
	}
	return snap
}

func (t *DoorTracker) open(d ecs.Entity) bool {
	col, ok := ecs.Get(t.world, d, component.ColliderComponent.Kind())
	return ok && col.Disabled
}

// SaveState pushes the current door state.
func (t *DoorTracker) SaveState() error {
	if len(t.doors) == 0 {
		return fmt.Errorf("%w: door list is empty", ErrMissingReference)
	}
	t.stack.Push(t.capture())
	return nil
}

// UndoState drops the live snapshot and applies the one below it. With only
// the baseline left it returns ErrEmptyHistory and changes nothing. A
// snapshot below that no longer matches the door list returns
// ErrHistoryDesync and both entries are kept.
func (t *DoorTracker) UndoState() error {
	prev, err := t.stack.PeekBelow()
	if err != nil {
		return err
	}
	if err := t.check(prev); err != nil {
		return err
	}
	if _, err := t.stack.Pop(); err != nil {
		return err
	}
	return t.Apply(prev)
}

func (t *DoorTracker) check(snap DoorSnapshot) error {
	if len(snap) != len(t.doors) {
		return fmt.Errorf("%w: snapshot has %d doors, level has %d", ErrHistoryDesync, len(snap), len(t.doors))
	}
	for i, st := range snap {
		if st.Door != t.doors[i] {
			return fmt.Errorf("%w: slot %d recorded door %v, level has %v", ErrHistoryDesync, i, st.Door, t.doors[i])
		}
	}
	return nil
}

// Apply makes every live door match snap and then flushes the physics
// world, since toggling many colliders in one frame leaves stale cached
// shapes otherwise. Destroyed doors are skipped.
func (t *DoorTracker) Apply(snap DoorSnapshot) error {
	if err := t.check(snap); err != nil {
		return err
	}
	for _, st := range snap {
		if !t.world.IsAlive(st.Door) {
			continue
		}
		ecs.SetSolid(t.world, st.Door, !st.Open)
		t.setSprite(st.Door, st.Open)
	}
	ecs.SyncTransforms(t.world)
	return nil
}

func (t *DoorTracker) setSprite(d ecs.Entity, open bool) {
	sp, ok := ecs.Get(t.world, d, component.SpriteComponent.Kind())
	if !ok {
		return
	}
	key := t.sprites.Closed
	if open {
		key = t.sprites.Open
	}
	if key != "" {
		sp.Image = key
	}
}

// ToggleDoor flips one door and rewrites the live snapshot in place, so the
// change survives later undos without adding a history entry.
func (t *DoorTracker) ToggleDoor(slot int) error {
	if slot < 0 || slot >= len(t.doors) {
		return fmt.Errorf("%w: door slot %d of %d", ErrIndexOutOfRange, slot, len(t.doors))
	}
	d := t.doors[slot]
	if !ecs.Has(t.world, d, component.ColliderComponent.Kind()) {
		return fmt.Errorf("%w: door slot %d has no collider", ErrMissingReference, slot)
	}
	open := ecs.IsSolid(t.world, d)
	ecs.SetSolid(t.world, d, !open)
	ecs.SyncTransforms(t.world)
	t.setSprite(d, open)

	_ = t.stack.UpdateTop(func(s DoorSnapshot) DoorSnapshot {
		if slot < len(s) {
			s[slot] = DoorState{Door: d, Open: open}
		}
		return s
	})
	return nil
}

// IsOpen reports the live state of a door. Unknown slots are closed.
func (t *DoorTracker) IsOpen(slot int) bool {
	if slot < 0 || slot >= len(t.doors) {
		return false
	}
	return t.open(t.doors[slot])
}

// Reset re-applies the baseline, drops every later snapshot and then forces
// all doors solid and closed. Doors always start a level closed, whatever
// the baseline recorded.
func (t *DoorTracker) Reset() error {
	baseline, err := t.stack.PeekBottom()
	if err != nil {
		return err
	}
	applyErr := t.Apply(baseline)
	t.stack.Clear(baseline)

	for _, d := range t.doors {
		if !t.world.IsAlive(d) {
			continue
		}
		ecs.SetSolid(t.world, d, true)
		t.setSprite(d, false)
	}
	ecs.SyncTransforms(t.world)
	return applyErr
}

// Current returns a copy of the live snapshot.
func (t *DoorTracker) Current() (DoorSnapshot, error) {
	return t.stack.Peek()
}

// Baseline returns a copy of the bottom snapshot.
func (t *DoorTracker) Baseline() (DoorSnapshot, error) {
	return t.stack.PeekBottom()
}

// Len returns the number of snapshots, baseline included.
func (t *DoorTracker) Len() int {
	return t.stack.Len()
}
