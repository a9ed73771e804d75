package spawn

import (
	"fmt"

	"github.com/milk9111/rewind/common"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

// MirrorShape gives target the physical shape of reference.
//
// Exactly one collider category is copied and it replaces target's collider;
// the material pointer is shared, not copied. The rigid body mirrors the
// reference's, or becomes a fully frozen static body when the reference has
// none. Target always ends up with both a collider and a rigid body.
func MirrorShape(w *ecs.World, reference, target ecs.Entity) error {
	if !w.IsAlive(target) {
		return component.ErrEntityNotAlive
	}

	if ref, ok := ecs.Get(w, reference, component.ColliderComponent.Kind()); ok && ref.Shape != component.ShapeNone {
		col := mirrorCollider(*ref)
		if err := ecs.Add(w, target, component.ColliderComponent.Kind(), &col); err != nil {
			return fmt.Errorf("collider: %w", err)
		}
	}
	if !ecs.Has(w, target, component.ColliderComponent.Kind()) {
		col := component.Collider{Shape: component.ShapeBox, Width: common.TileSize, Height: common.TileSize}
		if err := ecs.Add(w, target, component.ColliderComponent.Kind(), &col); err != nil {
			return fmt.Errorf("collider: %w", err)
		}
	}

	rb := component.RigidBody{Type: component.BodyStatic, Constraints: component.FreezeAll}
	if ref, ok := ecs.Get(w, reference, component.RigidBodyComponent.Kind()); ok {
		rb = component.RigidBody{
			Type:         ref.Type,
			Mass:         ref.Mass,
			GravityScale: ref.GravityScale,
			Constraints:  ref.Constraints,
		}
	}
	if cur, ok := ecs.Get(w, target, component.RigidBodyComponent.Kind()); ok {
		*cur = rb
		return nil
	}
	if err := ecs.Add(w, target, component.RigidBodyComponent.Kind(), &rb); err != nil {
		return fmt.Errorf("rigid body: %w", err)
	}
	return nil
}

func mirrorCollider(ref component.Collider) component.Collider {
	col := component.Collider{
		Shape:    ref.Shape,
		OffsetX:  ref.OffsetX,
		OffsetY:  ref.OffsetY,
		Material: ref.Material,
	}
	switch ref.Shape {
	case component.ShapeBox:
		col.Width, col.Height = ref.Width, ref.Height
	case component.ShapeCircle:
		col.Radius = ref.Radius
	case component.ShapeCapsule:
		col.Width, col.Height = ref.Width, ref.Height
		col.Radius = ref.Radius
		col.Direction = ref.Direction
	case component.ShapePolygon:
		col.Paths = ref.Clone().Paths
	}
	return col
}
