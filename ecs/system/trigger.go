package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
	"github.com/milk9111/rewind/spawn"
	"go.uber.org/zap"
)

// TriggerSystem fires buttons, levers and goals the player overlaps.
// A trigger with a script runs it instead of its default action.
type TriggerSystem struct {
	level   Level
	scripts *scriptCache
	logger  *zap.Logger
}

func NewTriggerSystem(level Level, logger *zap.Logger) *TriggerSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	ts := &TriggerSystem{level: level, logger: logger}
	ts.scripts = newScriptCache(ts)
	return ts
}

func (ts *TriggerSystem) Update(w *ecs.World) {
	if ts == nil || w == nil || ts.level == nil {
		return
	}
	if ts.level.Won() || ts.level.TimeScale() == 0 {
		return
	}

	var (
		playerBB cp.BB
		present  bool
		interact bool
	)
	if player, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok && ecs.ActiveInHierarchy(w, player) {
		playerBB, present = spawn.Bounds(w, player)
		if input, ok := ecs.Get(w, player, component.InputComponent.Kind()); ok {
			interact = input.Interact
		}
	}

	for _, e := range ecs.Query(w, component.TriggerComponent.Kind()) {
		trig, _ := ecs.Get(w, e, component.TriggerComponent.Kind())
		inside := present && ecs.ActiveInHierarchy(w, e) && overlaps(w, e, trig, playerBB)
		entered := inside && !trig.Occupied
		trig.Occupied = inside

		var fire bool
		switch trig.Kind {
		case component.TriggerLever:
			fire = inside && interact
		default:
			fire = entered
		}
		if !fire {
			continue
		}

		ts.fire(e, trig)
		if ts.level.Won() {
			return
		}
	}
}

func (ts *TriggerSystem) fire(e ecs.Entity, trig *component.Trigger) {
	ts.logger.Debug("trigger: fired",
		zap.Stringer("entity", e),
		zap.Int("door", trig.Door),
		zap.String("script", trig.Script),
	)
	if trig.Script != "" {
		if err := ts.scripts.run(trig.Script, trig.Door); err != nil {
			ts.logger.Warn("trigger: script failed", zap.String("script", trig.Script), zap.Error(err))
		}
		return
	}

	switch trig.Kind {
	case component.TriggerGoal:
		ts.level.OnPlayerWin()
	default:
		ts.level.DoorInteraction(trig.Door)
	}
}

// TriggerArea returns the world-space area of a trigger entity.
func TriggerArea(w *ecs.World, e ecs.Entity) (cp.BB, bool) {
	trig, ok := ecs.Get(w, e, component.TriggerComponent.Kind())
	if !ok {
		return cp.BB{}, false
	}
	x, y, ok := ecs.WorldPosition(w, e)
	if !ok {
		return cp.BB{}, false
	}
	return cp.NewBBForExtents(cp.Vector{X: x, Y: y}, trig.Width/2, trig.Height/2), true
}

func overlaps(w *ecs.World, e ecs.Entity, trig *component.Trigger, bb cp.BB) bool {
	area, ok := TriggerArea(w, e)
	if !ok || trig.Width <= 0 || trig.Height <= 0 {
		return false
	}
	return area.Intersects(bb)
}
