package system

import "github.com/milk9111/rewind/ecs"

// PhysicsSystem pushes component changes into the attached physics world,
// steps it and writes simulated positions back to transforms.
type PhysicsSystem struct {
	dt    float64
	level Level
}

func NewPhysicsSystem(dt float64, level Level) *PhysicsSystem {
	return &PhysicsSystem{dt: dt, level: level}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	pw.Sync(w)
	if scale := timeScale(ps.level); scale > 0 {
		pw.Step(ps.dt * scale)
	}
	pw.WriteBack(w)
}
