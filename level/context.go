package level

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
	"github.com/milk9111/rewind/history"
	"github.com/milk9111/rewind/spawn"
	"go.uber.org/zap"
)

// Setup names the entities a loaded level hands to its Context.
type Setup struct {
	Player     ecs.Entity
	SpawnPoint ecs.Entity
	// Doors fixes the slot order. When empty, every entity with a Door
	// component is used, ordered by slot.
	Doors []ecs.Entity
	// PropsRoot's children are rewound on undo.
	PropsRoot ecs.Entity
	// ObjectsRoot parents everything spawned at runtime.
	ObjectsRoot ecs.Entity
	DeadBody    spawn.Template
	DoorSprites history.DoorSprites
	StageTime   float64
}

// Context is the state of one loaded level. The game creates it when a
// level is built and closes it before the level's world is dropped.
type Context struct {
	World      *ecs.World
	Doors      *history.DoorTracker
	Positions  *history.PositionHistory
	Objects    *spawn.Manager
	Controller *Controller

	logger *zap.Logger
	closed bool
}

func New(w *ecs.World, setup Setup, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}

	doors := setup.Doors
	if len(doors) == 0 {
		doors = DetectDoors(w)
		if err := CheckDoorSlots(w, doors); err != nil {
			logger.Error("level: door slots do not match door order", zap.Error(err))
		}
	}
	tracker := history.NewDoorTracker(w, setup.DoorSprites)
	tracker.Initialize(doors)

	objects := spawn.NewManager(w, setup.ObjectsRoot, setup.Player, logger.Named("spawn"))

	posCfg := history.PositionConfig{Root: setup.PropsRoot}
	if setup.DeadBody != nil {
		posCfg.Anchor = setup.Player
		posCfg.Spawner = deadBodySpawner{objects: objects, template: setup.DeadBody}
	}
	positions := history.NewPositionHistory(w, posCfg)
	positions.Initialize()

	ctrl := NewController(w, ControllerConfig{
		Player:     setup.Player,
		SpawnPoint: setup.SpawnPoint,
		Doors:      tracker,
		Positions:  positions,
		Objects:    objects,
		StageTime:  setup.StageTime,
		Logger:     logger,
	})
	ctrl.RespawnPlayer()

	logger.Info("level: context created",
		zap.Int("doors", len(doors)),
		zap.Int("props", len(ecs.Children(w, setup.PropsRoot))),
		zap.Float64("stage_time", setup.StageTime),
	)

	return &Context{
		World:      w,
		Doors:      tracker,
		Positions:  positions,
		Objects:    objects,
		Controller: ctrl,
		logger:     logger,
	}
}

// Close destroys everything the level spawned and forgets its history.
// Calling it twice is harmless.
func (c *Context) Close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	c.Positions.ClearHistory()
	c.Objects.ClearAllObjects()
	c.logger.Debug("level: context closed")
}

func (c *Context) Closed() bool {
	return c == nil || c.closed
}

// DetectDoors returns every door in w ordered by slot, then by entity id.
func DetectDoors(w *ecs.World) []ecs.Entity {
	doors := ecs.Query(w, component.DoorComponent.Kind())
	slices.SortStableFunc(doors, func(a, b ecs.Entity) int {
		da, _ := ecs.Get(w, a, component.DoorComponent.Kind())
		db, _ := ecs.Get(w, b, component.DoorComponent.Kind())
		return cmp.Compare(da.Slot, db.Slot)
	})
	return doors
}

// CheckDoorSlots reports doors whose slot is not their index in doors.
// Gapped or duplicate slots would make triggers address the wrong door.
func CheckDoorSlots(w *ecs.World, doors []ecs.Entity) error {
	for i, e := range doors {
		d, ok := ecs.Get(w, e, component.DoorComponent.Kind())
		if !ok {
			continue
		}
		if d.Slot != i {
			return fmt.Errorf("%w: door %d has slot %d at index %d", history.ErrIndexOutOfRange, e, d.Slot, i)
		}
	}
	return nil
}

type deadBodySpawner struct {
	objects  *spawn.Manager
	template spawn.Template
}

func (s deadBodySpawner) Spawn(x, y float64) (ecs.Entity, error) {
	return s.objects.SpawnDeadBody(s.template, x, y, 0)
}

func (s deadBodySpawner) Despawn(e ecs.Entity) {
	s.objects.DespawnObject(e)
}
