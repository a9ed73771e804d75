package system

import (
	"math"

	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

// groundedSpeed is the largest vertical speed at which a touching player
// still counts as standing.
const groundedSpeed = 5.0

type PlayerControllerSystem struct {
	level Level
}

func NewPlayerControllerSystem(level Level) *PlayerControllerSystem {
	return &PlayerControllerSystem{level: level}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}
	if timeScale(p.level) == 0 {
		return
	}
	pw := w.PhysicsWorld()

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, player *component.Player, input *component.Input) {
		if !ecs.ActiveInHierarchy(w, e) {
			return
		}
		if input.MoveX != 0 || input.JumpPressed {
			if p.level != nil {
				p.level.SetPlayerMoving()
			}
		}

		if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok && input.MoveX != 0 {
			sprite.FacingLeft = input.MoveX < 0
		}

		vel, ok := pw.Velocity(e)
		if !ok {
			return
		}
		vel.X = input.MoveX * player.MoveSpeed
		if input.JumpPressed && pw.Touching(e) && math.Abs(vel.Y) < groundedSpeed {
			vel.Y = -player.JumpSpeed
		}
		pw.SetVelocity(e, vel)
	})
}
