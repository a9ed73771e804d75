package spawn

import (
	"testing"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

func TestMirrorShapeCopiesOneCategory(t *testing.T) {
	ice := &component.PhysicsMaterial{Name: "ice", Friction: 0.05}
	cases := []struct {
		name  string
		ref   component.Collider
		check func(t *testing.T, got component.Collider)
	}{
		{
			name: "box",
			ref:  component.Collider{Shape: component.ShapeBox, Width: 20, Height: 40, Radius: 99, Material: ice},
			check: func(t *testing.T, got component.Collider) {
				if got.Width != 20 || got.Height != 40 || got.Radius != 0 {
					t.Fatalf("box geometry not mirrored: %+v", got)
				}
			},
		},
		{
			name: "circle",
			ref:  component.Collider{Shape: component.ShapeCircle, Radius: 12, Width: 5, Material: ice},
			check: func(t *testing.T, got component.Collider) {
				if got.Radius != 12 || got.Width != 0 {
					t.Fatalf("circle geometry not mirrored: %+v", got)
				}
			},
		},
		{
			name: "capsule",
			ref:  component.Collider{Shape: component.ShapeCapsule, Width: 16, Height: 48, Direction: component.CapsuleHorizontal, Material: ice},
			check: func(t *testing.T, got component.Collider) {
				if got.Width != 16 || got.Height != 48 || got.Direction != component.CapsuleHorizontal {
					t.Fatalf("capsule geometry not mirrored: %+v", got)
				}
			},
		},
		{
			name: "polygon",
			ref: component.Collider{Shape: component.ShapePolygon, Material: ice, Paths: [][]component.Point{
				{{X: -8, Y: -8}, {X: 8, Y: -8}, {X: 0, Y: 8}},
			}},
			check: func(t *testing.T, got component.Collider) {
				if len(got.Paths) != 1 || len(got.Paths[0]) != 3 {
					t.Fatalf("polygon paths not mirrored: %+v", got)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ref := ecs.CreateEntity(w)
			target := ecs.CreateEntity(w)
			ref0 := c.ref
			mustAdd(t, ecs.Add(w, ref, component.ColliderComponent.Kind(), &ref0))
			mustAdd(t, ecs.Add(w, target, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ShapeCircle, Radius: 3, Sensor: true}))

			if err := MirrorShape(w, ref, target); err != nil {
				t.Fatalf("MirrorShape: %v", err)
			}
			got, ok := ecs.Get(w, target, component.ColliderComponent.Kind())
			if !ok {
				t.Fatalf("target lost its collider")
			}
			if got.Shape != c.ref.Shape {
				t.Fatalf("shape %v, want %v", got.Shape, c.ref.Shape)
			}
			if got.Material != ice {
				t.Fatalf("material should be shared, not copied")
			}
			if got.Sensor {
				t.Fatalf("template collider was not replaced")
			}
			c.check(t, *got)
		})
	}
}

func TestMirrorShapePolygonPathsAreCopied(t *testing.T) {
	w := ecs.NewWorld()
	ref := ecs.CreateEntity(w)
	target := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, ref, component.ColliderComponent.Kind(), &component.Collider{
		Shape: component.ShapePolygon,
		Paths: [][]component.Point{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}},
	}))
	if err := MirrorShape(w, ref, target); err != nil {
		t.Fatalf("MirrorShape: %v", err)
	}

	src, _ := ecs.Get(w, ref, component.ColliderComponent.Kind())
	src.Paths[0][0].X = 42
	got, _ := ecs.Get(w, target, component.ColliderComponent.Kind())
	if got.Paths[0][0].X == 42 {
		t.Fatalf("mirrored polygon aliases reference paths")
	}
}

func TestMirrorShapeRigidBody(t *testing.T) {
	t.Run("mirrors_reference", func(t *testing.T) {
		w := ecs.NewWorld()
		ref := ecs.CreateEntity(w)
		target := ecs.CreateEntity(w)
		want := component.RigidBody{Type: component.BodyDynamic, Mass: 3, GravityScale: 0.5, Constraints: component.FreezeRotation}
		mustAdd(t, ecs.Add(w, ref, component.RigidBodyComponent.Kind(), &want))
		mustAdd(t, ecs.Add(w, target, component.RigidBodyComponent.Kind(), &component.RigidBody{Type: component.BodyKinematic}))

		if err := MirrorShape(w, ref, target); err != nil {
			t.Fatalf("MirrorShape: %v", err)
		}
		got, _ := ecs.Get(w, target, component.RigidBodyComponent.Kind())
		if *got != want {
			t.Fatalf("rigid body %+v, want %+v", *got, want)
		}
	})

	t.Run("static_without_reference_body", func(t *testing.T) {
		w := ecs.NewWorld()
		ref := ecs.CreateEntity(w)
		target := ecs.CreateEntity(w)

		if err := MirrorShape(w, ref, target); err != nil {
			t.Fatalf("MirrorShape: %v", err)
		}
		got, ok := ecs.Get(w, target, component.RigidBodyComponent.Kind())
		if !ok || got.Type != component.BodyStatic || got.Constraints != component.FreezeAll {
			t.Fatalf("expected frozen static body, got %+v", got)
		}
		if !ecs.Has(w, target, component.ColliderComponent.Kind()) {
			t.Fatalf("target should always end up with a collider")
		}
	})
}
