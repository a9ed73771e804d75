package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
	"github.com/milk9111/rewind/spawn"
)

var (
	debugSolid    = color.RGBA{G: 0xff, A: 0xff}
	debugDisabled = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	debugTrigger  = color.RGBA{R: 0xff, G: 0xd0, A: 0xff}
)

// DrawColliderDebug outlines every collider and trigger area. Disabled
// colliders are drawn grey.
func DrawColliderDebug(w *ecs.World, screen *ebiten.Image, area func(*ecs.World, ecs.Entity) (cp.BB, bool)) {
	if w == nil || screen == nil {
		return
	}
	ecs.ForEach(w, component.ColliderComponent.Kind(), func(e ecs.Entity, col *component.Collider) {
		if !ecs.ActiveInHierarchy(w, e) {
			return
		}
		bb, ok := spawn.Bounds(w, e)
		if !ok {
			return
		}
		clr := debugSolid
		if col.Disabled {
			clr = debugDisabled
		}
		strokeBB(screen, bb, clr)
	})
	if area == nil {
		return
	}
	for _, e := range ecs.Query(w, component.TriggerComponent.Kind()) {
		if bb, ok := area(w, e); ok {
			strokeBB(screen, bb, debugTrigger)
		}
	}
}

func strokeBB(screen *ebiten.Image, bb cp.BB, clr color.Color) {
	vector.StrokeRect(screen, float32(bb.L), float32(bb.B), float32(bb.R-bb.L), float32(bb.T-bb.B), 1, clr, false)
}
