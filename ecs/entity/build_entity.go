package entity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
	"github.com/milk9111/rewind/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"dead_body_tag":   addDeadBodyTag,
	"spawn_point_tag": addSpawnPointTag,
	"prop_tag":        addPropTag,
	"container":       addContainer,
	"player":          addPlayer,
	"input":           addInput,
	"transform":       addTransform,
	"sprite":          addSprite,
	"render_layer":    addRenderLayer,
	"collider":        addCollider,
	"rigid_body":      addRigidBody,
	"door":            addDoor,
	"trigger":         addTrigger,
}

var componentBuildOrder = []string{
	"player_tag",
	"dead_body_tag",
	"spawn_point_tag",
	"prop_tag",
	"container",
	"player",
	"input",
	"transform",
	"sprite",
	"render_layer",
	"collider",
	"rigid_body",
	"door",
	"trigger",
}

// BuildEntity creates a new entity from a prefab file.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	e := ecs.CreateEntity(w)
	if err := BuildInto(w, e, prefabPath); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// BuildInto adds a prefab's components to an existing entity. Components
// already present are replaced.
func BuildInto(w *ecs.World, e ecs.Entity, prefabPath string) error {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("build entity: %q: no builder for components %v", prefabPath, names)
	}

	return nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

var (
	materialsMu sync.Mutex
	materials   map[string]*component.PhysicsMaterial
)

// Material returns the shared material with the given name. Every collider
// naming the same material holds the same pointer.
func Material(name string) (*component.PhysicsMaterial, error) {
	if name == "" {
		return nil, nil
	}
	materialsMu.Lock()
	defer materialsMu.Unlock()

	if materials == nil {
		spec, err := prefabs.LoadMaterialsSpec()
		if err != nil {
			return nil, err
		}
		materials = make(map[string]*component.PhysicsMaterial, len(spec.Materials))
		for _, m := range spec.Materials {
			materials[m.Name] = &component.PhysicsMaterial{Name: m.Name, Friction: m.Friction, Elasticity: m.Elasticity}
		}
	}
	m, ok := materials[name]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", name)
	}
	return m, nil
}

// ResetMaterials drops the material cache so the next lookup rereads
// materials.yaml.
func ResetMaterials() {
	materialsMu.Lock()
	materials = nil
	materialsMu.Unlock()
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addDeadBodyTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.DeadBodyTagComponent.Kind(), &component.DeadBodyTag{})
}

func addSpawnPointTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SpawnPointTagComponent.Kind(), &component.SpawnPointTag{})
}

func addPropTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PropTagComponent.Kind(), &component.PropTag{})
}

type containerSpec = prefabs.ContainerComponentSpec

func addContainer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[containerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode container spec: %w", err)
	}
	return ecs.Add(w, e, component.ContainerTagComponent.Kind(), &component.ContainerTag{Name: spec.Name})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed: spec.MoveSpeed,
		JumpSpeed: spec.JumpSpeed,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

type spriteSpec = prefabs.SpriteComponentSpec

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spriteSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}
	return ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Image:      spec.Image,
		Width:      spec.Width,
		Height:     spec.Height,
		FacingLeft: spec.FacingLeft,
	})
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	shape := component.ParseShapeKind(spec.Shape)
	if shape == component.ShapeNone {
		return fmt.Errorf("unknown collider shape %q", spec.Shape)
	}
	mat, err := Material(spec.Material)
	if err != nil {
		return err
	}

	col := component.Collider{
		Shape:    shape,
		Width:    spec.Width,
		Height:   spec.Height,
		Radius:   spec.Radius,
		OffsetX:  spec.OffsetX,
		OffsetY:  spec.OffsetY,
		Material: mat,
		Sensor:   spec.Sensor,
		Disabled: spec.Disabled,
	}
	if spec.Direction == "horizontal" {
		col.Direction = component.CapsuleHorizontal
	}
	for _, path := range spec.Paths {
		pts := make([]component.Point, 0, len(path))
		for _, p := range path {
			pts = append(pts, component.Point{X: p.X, Y: p.Y})
		}
		col.Paths = append(col.Paths, pts)
	}
	if shape == component.ShapePolygon && len(col.Paths) == 0 {
		return fmt.Errorf("polygon collider needs at least one path")
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &col)
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}
	rb := component.RigidBody{
		Type:         component.ParseBodyType(spec.Type),
		Mass:         spec.Mass,
		GravityScale: 1,
	}
	if spec.GravityScale != nil {
		rb.GravityScale = *spec.GravityScale
	}
	if spec.FreezePositionX {
		rb.Constraints |= component.FreezePositionX
	}
	if spec.FreezePositionY {
		rb.Constraints |= component.FreezePositionY
	}
	if spec.FreezeRotation {
		rb.Constraints |= component.FreezeRotation
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &rb)
}

type doorSpec = prefabs.DoorComponentSpec

func addDoor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[doorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode door spec: %w", err)
	}
	return ecs.Add(w, e, component.DoorComponent.Kind(), &component.Door{Slot: spec.Slot})
}

type triggerSpec = prefabs.TriggerComponentSpec

func addTrigger(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[triggerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode trigger spec: %w", err)
	}
	return ecs.Add(w, e, component.TriggerComponent.Kind(), &component.Trigger{
		Kind:   component.ParseTriggerKind(spec.Kind),
		Door:   spec.Door,
		Width:  spec.Width,
		Height: spec.Height,
		Script: spec.Script,
	})
}
