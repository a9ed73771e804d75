package ecs

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rewind/common"
	"github.com/milk9111/rewind/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeSensor
)

// PhysicsWorld owns the Chipmunk space. Every entity with a Collider and a
// Transform gets one body; its shapes are in the space only while the entity
// is active and the collider is enabled.
type PhysicsWorld struct {
	space  *cp.Space
	bodies map[Entity]*bodyInfo
}

type bodyInfo struct {
	body     *cp.Body
	shapes   []*cp.Shape
	inSpace  bool
	collider component.Collider
	rigid    component.RigidBody
	x, y     float64
}

// NewPhysicsWorld creates an empty space with screen-down gravity.
func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return &PhysicsWorld{
		space:  space,
		bodies: make(map[Entity]*bodyInfo),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Sync brings the space in line with the ECS: bodies are created, rebuilt,
// teleported, added and removed to match components. Shapes of a moved body
// are reinserted so the spatial index and cached bounds follow it.
func (pw *PhysicsWorld) Sync(w *World) {
	if pw == nil || w == nil {
		return
	}
	for e := range pw.bodies {
		if !Has(w, e, component.ColliderComponent.Kind()) || !Has(w, e, component.TransformComponent.Kind()) {
			pw.forget(e)
		}
	}
	for _, e := range Query(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind()) {
		pw.syncEntity(w, e)
	}
}

func (pw *PhysicsWorld) syncEntity(w *World, e Entity) {
	col, ok := Get(w, e, component.ColliderComponent.Kind())
	if !ok {
		pw.forget(e)
		return
	}
	wx, wy, ok := WorldPosition(w, e)
	if !ok {
		pw.forget(e)
		return
	}
	rb := component.RigidBody{Type: component.BodyStatic}
	if r, ok := Get(w, e, component.RigidBodyComponent.Kind()); ok {
		rb = *r
	}

	info := pw.bodies[e]
	if info != nil && (!sameGeometry(info.collider, *col) || info.rigid != rb) {
		pw.forget(e)
		info = nil
	}
	if info == nil {
		info = pw.build(*col, rb, wx, wy)
		if info == nil {
			return
		}
		pw.bodies[e] = info
	}

	if info.x != wx || info.y != wy {
		info.body.SetPosition(cp.Vector{X: wx, Y: wy})
		if rb.Type != component.BodyStatic {
			info.body.SetVelocityVector(cp.Vector{})
			info.body.SetAngularVelocity(0)
		}
		info.x, info.y = wx, wy
		if info.inSpace {
			pw.reindex(info)
		}
	}

	want := !col.Disabled && ActiveInHierarchy(w, e)
	switch {
	case want && !info.inSpace:
		pw.space.AddBody(info.body)
		for _, s := range info.shapes {
			pw.space.AddShape(s)
		}
		info.inSpace = true
	case !want && info.inSpace:
		pw.removeFromSpace(info)
	}
	info.collider.Disabled = col.Disabled
}

func (pw *PhysicsWorld) build(col component.Collider, rb component.RigidBody, x, y float64) *bodyInfo {
	var body *cp.Body
	switch rb.Type {
	case component.BodyStatic:
		body = cp.NewStaticBody()
	case component.BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		mass := rb.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := momentFor(col, mass)
		if rb.Constraints.Has(component.FreezeRotation) {
			moment = math.Inf(1)
		}
		body = cp.NewBody(mass, moment)
		scale := rb.GravityScale
		constraints := rb.Constraints
		body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(b, gravity.Mult(scale), damping, dt)
			if constraints&component.FreezePosition == 0 {
				return
			}
			v := b.Velocity()
			if constraints.Has(component.FreezePositionX) {
				v.X = 0
			}
			if constraints.Has(component.FreezePositionY) {
				v.Y = 0
			}
			b.SetVelocityVector(v)
		})
	}
	body.SetPosition(cp.Vector{X: x, Y: y})

	shapes := shapesFor(body, col)
	if len(shapes) == 0 {
		return nil
	}
	friction := common.DefaultFriction
	elasticity := 0.0
	if col.Material != nil {
		friction = col.Material.Friction
		elasticity = col.Material.Elasticity
	}
	for _, s := range shapes {
		s.SetFriction(friction)
		s.SetElasticity(elasticity)
		s.SetSensor(col.Sensor)
		if col.Sensor {
			s.SetCollisionType(collisionTypeSensor)
		} else {
			s.SetCollisionType(collisionTypeSolid)
		}
	}
	return &bodyInfo{body: body, shapes: shapes, collider: col.Clone(), rigid: rb, x: x, y: y}
}

func shapesFor(body *cp.Body, col component.Collider) []*cp.Shape {
	off := cp.Vector{X: col.OffsetX, Y: col.OffsetY}
	switch col.Shape {
	case component.ShapeBox:
		w, h := boxSize(col)
		bb := cp.BB{L: off.X - w/2, B: off.Y - h/2, R: off.X + w/2, T: off.Y + h/2}
		return []*cp.Shape{cp.NewBox2(body, bb, 0)}
	case component.ShapeCircle:
		return []*cp.Shape{cp.NewCircle(body, circleRadius(col), off)}
	case component.ShapeCapsule:
		a, b, r := capsuleSegment(col)
		return []*cp.Shape{cp.NewSegment(body, a, b, r)}
	case component.ShapePolygon:
		var shapes []*cp.Shape
		for _, path := range col.Paths {
			if len(path) < 3 {
				continue
			}
			verts := make([]cp.Vector, len(path))
			for i, p := range path {
				verts[i] = cp.Vector{X: p.X + off.X, Y: p.Y + off.Y}
			}
			shapes = append(shapes, cp.NewPolyShapeRaw(body, len(verts), verts, 0))
		}
		return shapes
	default:
		return nil
	}
}

func momentFor(col component.Collider, mass float64) float64 {
	off := cp.Vector{X: col.OffsetX, Y: col.OffsetY}
	switch col.Shape {
	case component.ShapeCircle:
		return cp.MomentForCircle(mass, 0, circleRadius(col), off)
	case component.ShapeCapsule:
		a, b, r := capsuleSegment(col)
		return cp.MomentForSegment(mass, a, b, r)
	case component.ShapePolygon:
		total := 0.0
		for _, path := range col.Paths {
			if len(path) < 3 {
				continue
			}
			verts := make([]cp.Vector, len(path))
			for i, p := range path {
				verts[i] = cp.Vector{X: p.X, Y: p.Y}
			}
			total += cp.MomentForPoly(mass, len(verts), verts, off, 0)
		}
		if total > 0 {
			return total
		}
	}
	w, h := boxSize(col)
	return cp.MomentForBox(mass, w, h)
}

// boxSize falls back to a single tile when the collider has no size.
func boxSize(col component.Collider) (float64, float64) {
	w, h := col.Width, col.Height
	if w <= 0 || h <= 0 {
		return common.TileSize, common.TileSize
	}
	return w, h
}

func circleRadius(col component.Collider) float64 {
	if col.Radius > 0 {
		return col.Radius
	}
	return common.TileSize / 2
}

// capsuleSegment converts a capsule into a rounded segment along its
// direction.
func capsuleSegment(col component.Collider) (cp.Vector, cp.Vector, float64) {
	w, h := boxSize(col)
	off := cp.Vector{X: col.OffsetX, Y: col.OffsetY}
	if col.Direction == component.CapsuleHorizontal {
		r := h / 2
		half := math.Max(w/2-r, 0)
		return cp.Vector{X: off.X - half, Y: off.Y}, cp.Vector{X: off.X + half, Y: off.Y}, r
	}
	r := w / 2
	half := math.Max(h/2-r, 0)
	return cp.Vector{X: off.X, Y: off.Y - half}, cp.Vector{X: off.X, Y: off.Y + half}, r
}

func sameGeometry(a, b component.Collider) bool {
	if a.Shape != b.Shape || a.Width != b.Width || a.Height != b.Height || a.Radius != b.Radius ||
		a.OffsetX != b.OffsetX || a.OffsetY != b.OffsetY || a.Direction != b.Direction ||
		a.Material != b.Material || a.Sensor != b.Sensor || len(a.Paths) != len(b.Paths) {
		return false
	}
	for i := range a.Paths {
		if !slices.Equal(a.Paths[i], b.Paths[i]) {
			return false
		}
	}
	return true
}

func (pw *PhysicsWorld) removeFromSpace(info *bodyInfo) {
	if info == nil || !info.inSpace {
		return
	}
	for _, s := range info.shapes {
		pw.space.RemoveShape(s)
	}
	pw.space.RemoveBody(info.body)
	info.inSpace = false
}

// reindex removes and re-adds info's shapes. Step never refreshes static
// shapes.
func (pw *PhysicsWorld) reindex(info *bodyInfo) {
	for _, s := range info.shapes {
		pw.space.RemoveShape(s)
	}
	for _, s := range info.shapes {
		pw.space.AddShape(s)
	}
}

func (pw *PhysicsWorld) forget(e Entity) {
	if pw == nil {
		return
	}
	info, ok := pw.bodies[e]
	if !ok {
		return
	}
	pw.removeFromSpace(info)
	delete(pw.bodies, e)
}

// Step advances the simulation by dt seconds.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// WriteBack copies simulated dynamic body positions into transforms.
func (pw *PhysicsWorld) WriteBack(w *World) {
	if pw == nil || w == nil {
		return
	}
	for e, info := range pw.bodies {
		if !info.inSpace || info.rigid.Type != component.BodyDynamic {
			continue
		}
		pos := info.body.Position()
		if err := SetWorldPosition(w, e, pos.X, pos.Y); err != nil {
			continue
		}
		info.x, info.y = pos.X, pos.Y
	}
}

// InSpace reports whether e's shapes currently take part in the simulation.
func (pw *PhysicsWorld) InSpace(e Entity) bool {
	if pw == nil {
		return false
	}
	info, ok := pw.bodies[e]
	return ok && info.inSpace
}

// Bounds returns the union of e's shape bounding boxes in world space.
func (pw *PhysicsWorld) Bounds(e Entity) (cp.BB, bool) {
	if pw == nil {
		return cp.BB{}, false
	}
	info, ok := pw.bodies[e]
	if !ok || len(info.shapes) == 0 {
		return cp.BB{}, false
	}
	bb := info.shapes[0].CacheBB()
	for _, s := range info.shapes[1:] {
		bb = bb.Merge(s.CacheBB())
	}
	return bb, true
}

// Velocity returns e's body velocity.
func (pw *PhysicsWorld) Velocity(e Entity) (cp.Vector, bool) {
	if pw == nil {
		return cp.Vector{}, false
	}
	info, ok := pw.bodies[e]
	if !ok || !info.inSpace {
		return cp.Vector{}, false
	}
	return info.body.Velocity(), true
}

// SetVelocity sets e's body velocity. Static bodies ignore it.
func (pw *PhysicsWorld) SetVelocity(e Entity, v cp.Vector) bool {
	if pw == nil {
		return false
	}
	info, ok := pw.bodies[e]
	if !ok || !info.inSpace || info.rigid.Type == component.BodyStatic {
		return false
	}
	info.body.SetVelocityVector(v)
	return true
}

// Touching reports whether e's body has at least one active contact.
func (pw *PhysicsWorld) Touching(e Entity) bool {
	if pw == nil {
		return false
	}
	info, ok := pw.bodies[e]
	if !ok || !info.inSpace {
		return false
	}
	touching := false
	info.body.EachArbiter(func(*cp.Arbiter) {
		touching = true
	})
	return touching
}

// SetSolid enables or disables e's collider. The attached physics world, if
// any, adds or removes the shape immediately.
func SetSolid(w *World, e Entity, solid bool) bool {
	col, ok := Get(w, e, component.ColliderComponent.Kind())
	if !ok {
		return false
	}
	col.Disabled = !solid
	if pw := w.PhysicsWorld(); pw != nil {
		pw.syncEntity(w, e)
	}
	return true
}

// IsSolid reports whether e has an enabled collider.
func IsSolid(w *World, e Entity) bool {
	col, ok := Get(w, e, component.ColliderComponent.Kind())
	return ok && !col.Disabled
}

// SyncTransforms flushes pending collider and transform changes into the
// attached physics world so spatial queries in the same frame see them.
// Without one it does nothing.
func SyncTransforms(w *World) {
	if w == nil {
		return
	}
	w.physicsWorld.Sync(w)
}
