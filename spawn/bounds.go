package spawn

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rewind/common"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

// Bounds returns e's collider bounds in world space, computed from the
// collider geometry so it does not depend on the physics world having
// stepped.
func Bounds(w *ecs.World, e ecs.Entity) (cp.BB, bool) {
	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok {
		return cp.BB{}, false
	}
	x, y, ok := ecs.WorldPosition(w, e)
	if !ok {
		return cp.BB{}, false
	}
	cx, cy := x+col.OffsetX, y+col.OffsetY

	switch col.Shape {
	case component.ShapeCircle:
		r := col.Radius
		if r <= 0 {
			r = common.TileSize / 2
		}
		return cp.BB{L: cx - r, B: cy - r, R: cx + r, T: cy + r}, true
	case component.ShapePolygon:
		bb := cp.BB{L: math.Inf(1), B: math.Inf(1), R: math.Inf(-1), T: math.Inf(-1)}
		for _, path := range col.Paths {
			for _, p := range path {
				bb.L = math.Min(bb.L, cx+p.X)
				bb.R = math.Max(bb.R, cx+p.X)
				bb.B = math.Min(bb.B, cy+p.Y)
				bb.T = math.Max(bb.T, cy+p.Y)
			}
		}
		if bb.L > bb.R {
			return cp.BB{}, false
		}
		return bb, true
	case component.ShapeNone:
		return cp.BB{}, false
	default:
		hw, hh := col.Width/2, col.Height/2
		if hw <= 0 || hh <= 0 {
			hw, hh = common.TileSize/2, common.TileSize/2
		}
		return cp.BB{L: cx - hw, B: cy - hh, R: cx + hw, T: cy + hh}, true
	}
}
