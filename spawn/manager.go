package spawn

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
	"go.uber.org/zap"
)

var ErrInvalidTemplate = errors.New("spawn: invalid template")

// Template fills a freshly created entity with components.
type Template interface {
	Build(w *ecs.World, e ecs.Entity) error
}

// TemplateFunc adapts a function to Template.
type TemplateFunc func(w *ecs.World, e ecs.Entity) error

func (f TemplateFunc) Build(w *ecs.World, e ecs.Entity) error {
	return f(w, e)
}

// Manager creates and destroys runtime entities. Everything it spawns is a
// child of one container and is tracked in a registry; dead bodies are also
// tracked in their own LIFO registry.
type Manager struct {
	world      *ecs.World
	container  ecs.Entity
	reference  ecs.Entity
	objects    []ecs.Entity
	deadBodies []ecs.Entity
	logger     *zap.Logger
}

// NewManager returns a manager that parents spawned entities under
// container and mirrors dead bodies from reference.
func NewManager(w *ecs.World, container, reference ecs.Entity, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		world:     w,
		container: container,
		reference: reference,
		logger:    logger,
	}
}

// SetReference changes the entity dead bodies are mirrored from.
func (m *Manager) SetReference(e ecs.Entity) {
	m.reference = e
}

// SpawnObject builds tpl into a new entity at world position (x, y) with
// the given rotation.
func (m *Manager) SpawnObject(tpl Template, x, y, rotation float64) (ecs.Entity, error) {
	if tpl == nil {
		return 0, fmt.Errorf("%w: template is nil", ErrInvalidTemplate)
	}
	e := ecs.CreateEntity(m.world)
	if err := tpl.Build(m.world, e); err != nil {
		ecs.DestroyEntity(m.world, e)
		return 0, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	if m.world.IsAlive(m.container) {
		ecs.SetParent(m.world, e, m.container)
	}
	if err := ecs.SetWorldPosition(m.world, e, x, y); err != nil {
		ecs.DestroyEntity(m.world, e)
		return 0, fmt.Errorf("spawn: place entity: %w", err)
	}
	if t, ok := ecs.Get(m.world, e, component.TransformComponent.Kind()); ok {
		t.Rotation = rotation
		if t.ScaleX == 0 {
			t.ScaleX = 1
		}
		if t.ScaleY == 0 {
			t.ScaleY = 1
		}
	}

	m.objects = append(m.objects, e)
	m.logger.Debug("spawned object", zap.Stringer("entity", e), zap.Float64("x", x), zap.Float64("y", y))
	return e, nil
}

// DespawnObject forgets e and destroys it. Unknown or dead entities are
// ignored.
func (m *Manager) DespawnObject(e ecs.Entity) {
	m.objects = slices.DeleteFunc(m.objects, func(o ecs.Entity) bool { return o == e })
	m.deadBodies = slices.DeleteFunc(m.deadBodies, func(o ecs.Entity) bool { return o == e })
	if ecs.DestroyEntity(m.world, e) {
		m.logger.Debug("despawned object", zap.Stringer("entity", e))
	}
}

// ClearAllObjects destroys every registered entity.
func (m *Manager) ClearAllObjects() {
	for _, e := range m.objects {
		ecs.DestroyEntity(m.world, e)
	}
	m.objects = nil
	m.deadBodies = nil
}

// SpawnDeadBody spawns tpl and turns it into a copy of the reference
// entity's physical shape. The body is solid in the physics world as soon
// as this returns.
func (m *Manager) SpawnDeadBody(tpl Template, x, y, rotation float64) (ecs.Entity, error) {
	e, err := m.SpawnObject(tpl, x, y, rotation)
	if err != nil {
		return 0, err
	}
	if err := MirrorShape(m.world, m.reference, e); err != nil {
		m.DespawnObject(e)
		return 0, fmt.Errorf("spawn: mirror dead body: %w", err)
	}
	if err := ecs.Add(m.world, e, component.DeadBodyTagComponent.Kind(), &component.DeadBodyTag{}); err != nil {
		m.DespawnObject(e)
		return 0, fmt.Errorf("spawn: tag dead body: %w", err)
	}
	m.deadBodies = append(m.deadBodies, e)
	ecs.SyncTransforms(m.world)
	m.logger.Debug("spawned dead body", zap.Stringer("entity", e), zap.Int("count", len(m.deadBodies)))
	return e, nil
}

// RemoveLastDeadBody destroys the newest dead body. It reports false when
// there is none.
func (m *Manager) RemoveLastDeadBody() (ecs.Entity, bool) {
	if len(m.deadBodies) == 0 {
		return 0, false
	}
	e := m.deadBodies[len(m.deadBodies)-1]
	m.DespawnObject(e)
	return e, true
}

// ClearDeadBodies destroys every dead body. Other spawned objects stay.
func (m *Manager) ClearDeadBodies() {
	bodies := m.deadBodies
	m.deadBodies = nil
	for _, e := range bodies {
		m.DespawnObject(e)
	}
}

// IsCollidingWithDeadBodies reports whether (x, y) lies inside a live dead
// body. It is always false when reference cannot collide.
func (m *Manager) IsCollidingWithDeadBodies(x, y float64, reference ecs.Entity) bool {
	if !ecs.Has(m.world, reference, component.ColliderComponent.Kind()) {
		return false
	}
	_, _, ok := m.DeadBodyAt(x, y)
	return ok
}

// DeadBodyAt returns the newest live dead body containing (x, y) and its
// bounds.
func (m *Manager) DeadBodyAt(x, y float64) (ecs.Entity, cp.BB, bool) {
	p := cp.Vector{X: x, Y: y}
	for i := len(m.deadBodies) - 1; i >= 0; i-- {
		e := m.deadBodies[i]
		bb, ok := Bounds(m.world, e)
		if ok && bb.ContainsVect(p) {
			return e, bb, true
		}
	}
	return 0, cp.BB{}, false
}

// LastObject returns the most recently spawned live entity.
func (m *Manager) LastObject() (ecs.Entity, bool) {
	if len(m.objects) == 0 {
		return 0, false
	}
	return m.objects[len(m.objects)-1], true
}

// LastDeadBody returns the newest dead body.
func (m *Manager) LastDeadBody() (ecs.Entity, bool) {
	if len(m.deadBodies) == 0 {
		return 0, false
	}
	return m.deadBodies[len(m.deadBodies)-1], true
}

func (m *Manager) DeadBodyCount() int {
	return len(m.deadBodies)
}

func (m *Manager) ObjectCount() int {
	return len(m.objects)
}

// DeadBodies returns the dead bodies oldest first.
func (m *Manager) DeadBodies() []ecs.Entity {
	return slices.Clone(m.deadBodies)
}
