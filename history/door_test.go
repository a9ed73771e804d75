package history

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

var testSprites = DoorSprites{Open: "door_open", Closed: "door_closed"}

func newTracker(t *testing.T, n int) (*ecs.World, *DoorTracker, []ecs.Entity) {
	t.Helper()
	w := newPhysicsWorld()
	doors := make([]ecs.Entity, n)
	for i := range doors {
		doors[i] = addDoor(t, w, i, float64(100+i*64))
	}
	ecs.SyncTransforms(w)
	tr := NewDoorTracker(w, testSprites)
	tr.Initialize(doors)
	return w, tr, doors
}

func openFlags(tr *DoorTracker) []bool {
	flags := make([]bool, 0)
	for i := range tr.Doors() {
		flags = append(flags, tr.IsOpen(i))
	}
	return flags
}

func TestDoorTrackerToggleSaveUndo(t *testing.T) {
	w, tr, doors := newTracker(t, 3)

	if err := tr.ToggleDoor(1); err != nil {
		t.Fatalf("ToggleDoor(1): %v", err)
	}
	if err := tr.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := tr.ToggleDoor(0); err != nil {
		t.Fatalf("ToggleDoor(0): %v", err)
	}
	if got := openFlags(tr); !slices.Equal(got, []bool{true, true, false}) {
		t.Fatalf("expected [open open closed] before undo, got %v", got)
	}

	if err := tr.UndoState(); err != nil {
		t.Fatalf("UndoState: %v", err)
	}
	if got := openFlags(tr); !slices.Equal(got, []bool{false, true, false}) {
		t.Fatalf("expected [closed open closed] after undo, got %v", got)
	}
	if w.PhysicsWorld().InSpace(doors[1]) {
		t.Fatalf("open door should not collide")
	}
	if !w.PhysicsWorld().InSpace(doors[0]) {
		t.Fatalf("closed door should collide")
	}
	sp, _ := ecs.Get(w, doors[1], component.SpriteComponent.Kind())
	if sp.Image != testSprites.Open {
		t.Fatalf("expected open sprite, got %q", sp.Image)
	}

	if err := tr.UndoState(); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory at baseline, got %v", err)
	}
	if got := openFlags(tr); !slices.Equal(got, []bool{false, true, false}) {
		t.Fatalf("undo at baseline changed doors: %v", got)
	}
}

func TestDoorTrackerToggleRewritesLiveSnapshot(t *testing.T) {
	_, tr, _ := newTracker(t, 2)
	if err := tr.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := tr.ToggleDoor(1); err != nil {
		t.Fatalf("ToggleDoor: %v", err)
	}

	cur, err := tr.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !slices.Equal(cur.OpenFlags(), []bool{false, true}) {
		t.Fatalf("live snapshot not rewritten: %v", cur.OpenFlags())
	}
	base, _ := tr.Baseline()
	if !slices.Equal(base.OpenFlags(), []bool{false, false}) {
		t.Fatalf("baseline rewritten by toggle: %v", base.OpenFlags())
	}
	if tr.Len() != 2 {
		t.Fatalf("toggle should not add history, len %d", tr.Len())
	}
}

func TestDoorTrackerErrors(t *testing.T) {
	cases := []struct {
		name string
		run  func(tr *DoorTracker) error
		want error
	}{
		{"toggle_negative", func(tr *DoorTracker) error { return tr.ToggleDoor(-1) }, ErrIndexOutOfRange},
		{"toggle_past_end", func(tr *DoorTracker) error { return tr.ToggleDoor(2) }, ErrIndexOutOfRange},
		{"undo_baseline", func(tr *DoorTracker) error { return tr.UndoState() }, ErrEmptyHistory},
		{"apply_short", func(tr *DoorTracker) error { return tr.Apply(DoorSnapshot{{}}) }, ErrHistoryDesync},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, tr, _ := newTracker(t, 2)
			if err := c.run(tr); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestDoorTrackerEmptyListCannotSave(t *testing.T) {
	_, tr, _ := newTracker(t, 0)
	if err := tr.SaveState(); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
	if tr.IsOpen(0) {
		t.Fatalf("unknown slot reported open")
	}
}

func TestDoorTrackerApplySkipsDestroyedDoor(t *testing.T) {
	w, tr, doors := newTracker(t, 2)
	if err := tr.ToggleDoor(0); err != nil {
		t.Fatalf("ToggleDoor: %v", err)
	}
	if err := tr.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	ecs.DestroyEntity(w, doors[1])

	if err := tr.UndoState(); err != nil {
		t.Fatalf("UndoState with destroyed door: %v", err)
	}
	if !tr.IsOpen(0) {
		t.Fatalf("toggle before save should persist through undo")
	}
}

func TestDoorTrackerReset(t *testing.T) {
	w, tr, doors := newTracker(t, 3)
	for i := 0; i < 3; i++ {
		if err := tr.ToggleDoor(i); err != nil {
			t.Fatalf("ToggleDoor(%d): %v", i, err)
		}
		if err := tr.SaveState(); err != nil {
			t.Fatalf("SaveState: %v", err)
		}
	}

	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected only baseline after reset, len %d", tr.Len())
	}
	if got := openFlags(tr); !slices.Equal(got, []bool{false, false, false}) {
		t.Fatalf("expected all closed after reset, got %v", got)
	}
	for _, d := range doors {
		if !w.PhysicsWorld().InSpace(d) {
			t.Fatalf("door %v not solid after reset", d)
		}
		sp, _ := ecs.Get(w, d, component.SpriteComponent.Kind())
		if sp.Image != testSprites.Closed {
			t.Fatalf("door %v sprite %q after reset", d, sp.Image)
		}
	}
}

func TestDoorTrackerApplyIsIdempotent(t *testing.T) {
	cases := []struct {
		name string
		open []bool
	}{
		{"all_closed", []bool{false, false, false}},
		{"middle_open", []bool{false, true, false}},
		{"all_open", []bool{true, true, true}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, tr, doors := newTracker(t, 3)
			snap := make(DoorSnapshot, len(doors))
			for i, d := range doors {
				snap[i] = DoorState{Door: d, Open: c.open[i]}
			}

			for pass := 1; pass <= 2; pass++ {
				if err := tr.Apply(snap); err != nil {
					t.Fatalf("Apply pass %d: %v", pass, err)
				}
				if got := openFlags(tr); !slices.Equal(got, c.open) {
					t.Fatalf("pass %d: open flags %v, want %v", pass, got, c.open)
				}
				for i, d := range doors {
					if w.PhysicsWorld().InSpace(d) == c.open[i] {
						t.Fatalf("pass %d: door %d solidity does not match open=%v", pass, i, c.open[i])
					}
				}
			}
		})
	}
}

func TestDoorTrackerDoubleToggleRestores(t *testing.T) {
	cases := []struct {
		name  string
		slot  int
		saves int
	}{
		{"baseline_only", 0, 0},
		{"after_one_save", 1, 1},
		{"after_many_saves", 2, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, tr, _ := newTracker(t, 3)
			for i := 0; i < c.saves; i++ {
				if err := tr.SaveState(); err != nil {
					t.Fatalf("SaveState: %v", err)
				}
			}
			before := openFlags(tr)
			top, _ := tr.Current()

			for i := 0; i < 2; i++ {
				if err := tr.ToggleDoor(c.slot); err != nil {
					t.Fatalf("ToggleDoor(%d): %v", c.slot, err)
				}
			}

			if got := openFlags(tr); !slices.Equal(got, before) {
				t.Fatalf("open flags %v after double toggle, want %v", got, before)
			}
			after, _ := tr.Current()
			if !slices.Equal(after, top) {
				t.Fatalf("top snapshot %v after double toggle, want %v", after, top)
			}
			if tr.Len() != c.saves+1 {
				t.Fatalf("toggle changed history length to %d", tr.Len())
			}
		})
	}
}

func TestDoorTrackerSaveUndoReturnsToBaseline(t *testing.T) {
	for n := 0; n <= 5; n++ {
		t.Run(fmt.Sprintf("saves_%d", n), func(t *testing.T) {
			_, tr, _ := newTracker(t, 3)

			for i := 0; i < n; i++ {
				if err := tr.ToggleDoor(i % 3); err != nil {
					t.Fatalf("ToggleDoor: %v", err)
				}
				if err := tr.SaveState(); err != nil {
					t.Fatalf("SaveState: %v", err)
				}
			}
			for i := 0; i < n; i++ {
				if err := tr.UndoState(); err != nil {
					t.Fatalf("UndoState %d: %v", i, err)
				}
			}

			if tr.Len() != 1 {
				t.Fatalf("expected only the baseline, len %d", tr.Len())
			}
			if err := tr.UndoState(); !errors.Is(err, ErrEmptyHistory) {
				t.Fatalf("undo past baseline: expected ErrEmptyHistory, got %v", err)
			}
			baseline, _ := tr.Baseline()
			if got := openFlags(tr); !slices.Equal(got, baseline.OpenFlags()) {
				t.Fatalf("live doors %v, baseline %v", got, baseline.OpenFlags())
			}
		})
	}
}

func TestDoorTrackerUndoKeepsDesyncedSnapshot(t *testing.T) {
	_, tr, _ := newTracker(t, 2)
	tr.stack.Push(DoorSnapshot{{}})
	if err := tr.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := tr.ToggleDoor(0); err != nil {
		t.Fatalf("ToggleDoor: %v", err)
	}

	if err := tr.UndoState(); !errors.Is(err, ErrHistoryDesync) {
		t.Fatalf("expected ErrHistoryDesync, got %v", err)
	}
	if tr.Len() != 3 {
		t.Fatalf("desynced undo should keep every snapshot, len %d", tr.Len())
	}
	if !tr.IsOpen(0) {
		t.Fatalf("desynced undo should leave doors untouched")
	}
}
