package entity

import (
	"fmt"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
	"github.com/milk9111/rewind/levels"
)

const (
	propsContainer   = "props"
	objectsContainer = "objects"

	OpenDoorImage   = "door_open"
	ClosedDoorImage = "door_closed"
)

// LevelEntities are the handles a level hands to its runtime context.
type LevelEntities struct {
	Player     ecs.Entity
	SpawnPoint ecs.Entity
	// Props parents every entity tagged as a prop, in level file order.
	Props ecs.Entity
	// Objects parents entities spawned while the level runs.
	Objects  ecs.Entity
	Triggers []ecs.Entity
	Solids   []ecs.Entity
}

// LoadLevelToWorld builds the tile colliders and every placed entity of
// lvl into world.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) (*LevelEntities, error) {
	out := &LevelEntities{}

	var err error
	if out.Props, err = newContainer(world, propsContainer); err != nil {
		return nil, err
	}
	if out.Objects, err = newContainer(world, objectsContainer); err != nil {
		return nil, err
	}

	stone, err := Material("stone")
	if err != nil {
		return nil, err
	}
	for _, r := range lvl.SolidRects() {
		e, err := newSolid(world, r, lvl.TileSize, stone)
		if err != nil {
			return nil, err
		}
		out.Solids = append(out.Solids, e)
	}

	for i, ent := range lvl.Entities {
		e, err := BuildEntity(world, ent.Type+".yaml")
		if err != nil {
			return nil, fmt.Errorf("level %q: entity %d: %w", lvl.Name, i, err)
		}
		if err := applyProps(world, e, ent.Props); err != nil {
			return nil, fmt.Errorf("level %q: entity %d (%s): %w", lvl.Name, i, ent.Type, err)
		}
		if ecs.Has(world, e, component.PropTagComponent.Kind()) {
			ecs.SetParent(world, e, out.Props)
		}
		if err := ecs.SetWorldPosition(world, e, ent.X, ent.Y); err != nil {
			return nil, err
		}

		switch {
		case ecs.Has(world, e, component.PlayerTagComponent.Kind()):
			out.Player = e
		case ecs.Has(world, e, component.SpawnPointTagComponent.Kind()):
			out.SpawnPoint = e
		case ecs.Has(world, e, component.TriggerComponent.Kind()):
			out.Triggers = append(out.Triggers, e)
		}
	}

	if !out.Player.Valid() {
		return nil, fmt.Errorf("level %q: no player", lvl.Name)
	}
	if !out.SpawnPoint.Valid() {
		// the player's placement doubles as the spawn point
		sp := ecs.CreateEntity(world)
		x, y, _ := ecs.WorldPosition(world, out.Player)
		if err := ecs.Add(world, sp, component.SpawnPointTagComponent.Kind(), &component.SpawnPointTag{}); err != nil {
			return nil, err
		}
		if err := SetEntityTransform(world, sp, x, y, 0); err != nil {
			return nil, err
		}
		out.SpawnPoint = sp
	}
	return out, nil
}

func newContainer(w *ecs.World, name string) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ContainerTagComponent.Kind(), &component.ContainerTag{Name: name}); err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, 0, 0, 0); err != nil {
		return 0, err
	}
	return e, nil
}

func newSolid(w *ecs.World, r levels.Rect, tileSize float64, mat *component.PhysicsMaterial) (ecs.Entity, error) {
	width := float64(r.W) * tileSize
	height := float64(r.H) * tileSize
	e := ecs.CreateEntity(w)
	if err := SetEntityTransform(w, e, float64(r.X)*tileSize+width/2, float64(r.Y)*tileSize+height/2, 0); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Shape:    component.ShapeBox,
		Width:    width,
		Height:   height,
		Material: mat,
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Type: component.BodyStatic}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Image: "tile", Width: width, Height: height}); err != nil {
		return 0, err
	}
	return e, ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 0})
}

// applyProps overrides prefab values with the per-placement props of a
// level entity.
func applyProps(w *ecs.World, e ecs.Entity, props map[string]any) error {
	if len(props) == 0 {
		return nil
	}
	if door, ok := ecs.Get(w, e, component.DoorComponent.Kind()); ok {
		if v, ok := props["slot"]; ok {
			slot, err := intProp(v)
			if err != nil {
				return fmt.Errorf("slot: %w", err)
			}
			door.Slot = slot
		}
		if v, ok := props["open"].(bool); ok && v {
			ecs.SetSolid(w, e, false)
			if sp, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
				sp.Image = OpenDoorImage
			}
		}
	}
	if trig, ok := ecs.Get(w, e, component.TriggerComponent.Kind()); ok {
		if v, ok := props["door"]; ok {
			slot, err := intProp(v)
			if err != nil {
				return fmt.Errorf("door: %w", err)
			}
			trig.Door = slot
		}
		if v, ok := props["script"].(string); ok {
			trig.Script = v
		}
	}
	return nil
}

func intProp(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("want a number, got %T", v)
	}
}
