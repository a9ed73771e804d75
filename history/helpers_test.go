package history

import (
	"testing"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

func newPhysicsWorld() *ecs.World {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())
	return w
}

func addDoor(t *testing.T, w *ecs.World, slot int, x float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: 100, ScaleX: 1, ScaleY: 1}))
	mustAdd(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ShapeBox, Width: 32, Height: 96}))
	mustAdd(t, ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Type: component.BodyStatic}))
	mustAdd(t, ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Image: "door_closed", Width: 32, Height: 96}))
	mustAdd(t, ecs.Add(w, e, component.DoorComponent.Kind(), &component.Door{Slot: slot}))
	return e
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
}
