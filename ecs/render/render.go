package render

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rewind/ecs"
	"github.com/milk9111/rewind/ecs/component"
)

// RenderSystem draws sprites centered on their world position, ordered by
// render layer and then by entity.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	entities := ecs.Query(w, component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layer(w, entities[i]), layer(w, entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		if !ecs.ActiveInHierarchy(w, e) {
			continue
		}
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		img := GetImage(s.Image)
		if img == nil {
			continue
		}
		x, y, ok := ecs.WorldPosition(w, e)
		if !ok {
			continue
		}
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
		sx, sy := 1.0, 1.0
		if s.Width > 0 {
			sx = s.Width / iw
		}
		if s.Height > 0 {
			sy = s.Height / ih
		}
		if t.ScaleX != 0 {
			sx *= t.ScaleX
		}
		if t.ScaleY != 0 {
			sy *= t.ScaleY
		}
		if s.FacingLeft {
			sx = -sx
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-iw/2, -ih/2)
		op.GeoM.Scale(sx, sy)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Translate(x, y)
		screen.DrawImage(img, op)
	}
}

func layer(w *ecs.World, e ecs.Entity) int {
	if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		return l.Index
	}
	return 0
}
