package system_test

import (
	"testing"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
	"github.com/milk9111/rewind/history"
	"github.com/milk9111/rewind/level"
)

const frame = 1.0 / 60

type scene struct {
	w      *ecs.World
	player ecs.Entity
	doors  []ecs.Entity
	ctx    *level.Context
}

// newScene builds a player standing at the spawn point (0, 100) and
// doorCount closed doors in slot order.
func newScene(t *testing.T, physics bool, doorCount int) *scene {
	t.Helper()
	w := ecs.NewWorld()
	if physics {
		w.SetPhysicsWorld(ecs.NewPhysicsWorld())
	}
	s := &scene{w: w}

	s.player = entityAt(t, w, 0, 100)
	mustAdd(t, ecs.Add(w, s.player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	mustAdd(t, ecs.Add(w, s.player, component.PlayerComponent.Kind(), &component.Player{MoveSpeed: 200, JumpSpeed: 500}))
	mustAdd(t, ecs.Add(w, s.player, component.InputComponent.Kind(), &component.Input{}))
	mustAdd(t, ecs.Add(w, s.player, component.SpriteComponent.Kind(), &component.Sprite{Image: "player"}))
	mustAdd(t, ecs.Add(w, s.player, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ShapeBox, Width: 24, Height: 48}))
	mustAdd(t, ecs.Add(w, s.player, component.RigidBodyComponent.Kind(), &component.RigidBody{
		Type: component.BodyDynamic, Mass: 1, GravityScale: 1, Constraints: component.FreezeRotation,
	}))
	spawnPoint := entityAt(t, w, 0, 100)

	for i := 0; i < doorCount; i++ {
		d := entityAt(t, w, float64(1000+i*100), 100)
		mustAdd(t, ecs.Add(w, d, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ShapeBox, Width: 32, Height: 96}))
		mustAdd(t, ecs.Add(w, d, component.RigidBodyComponent.Kind(), &component.RigidBody{Type: component.BodyStatic}))
		mustAdd(t, ecs.Add(w, d, component.SpriteComponent.Kind(), &component.Sprite{Image: "door_closed"}))
		mustAdd(t, ecs.Add(w, d, component.DoorComponent.Kind(), &component.Door{Slot: i}))
		s.doors = append(s.doors, d)
	}

	s.ctx = level.New(w, level.Setup{
		Player:      s.player,
		SpawnPoint:  spawnPoint,
		Doors:       s.doors,
		DoorSprites: history.DoorSprites{Open: "door_open", Closed: "door_closed"},
		StageTime:   5,
	}, nil)
	return s
}

func (s *scene) trigger(t *testing.T, x, y float64, trig component.Trigger) ecs.Entity {
	t.Helper()
	e := entityAt(t, s.w, x, y)
	mustAdd(t, ecs.Add(s.w, e, component.TriggerComponent.Kind(), &trig))
	return e
}

func (s *scene) movePlayer(t *testing.T, x, y float64) {
	t.Helper()
	if err := ecs.SetWorldPosition(s.w, s.player, x, y); err != nil {
		t.Fatalf("move player: %v", err)
	}
}

func (s *scene) input() *component.Input {
	in, _ := ecs.Get(s.w, s.player, component.InputComponent.Kind())
	return in
}

func entityAt(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}))
	return e
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
}
