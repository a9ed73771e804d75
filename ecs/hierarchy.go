package ecs

import "github.com/milk9111/rewind/ecs/component"

// SetParent makes child a child of parent, appended after its existing
// siblings. A zero parent detaches child.
func SetParent(w *World, child, parent Entity) bool {
	if w == nil || !w.IsAlive(child) || child == parent {
		return false
	}
	if parent.Valid() && !w.IsAlive(parent) {
		return false
	}
	for p := parent; p.Valid(); p = w.parents[p] {
		if p == child {
			return false
		}
	}
	w.detach(child)
	if !parent.Valid() {
		return true
	}
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
	return true
}

// Parent returns e's parent, if any.
func Parent(w *World, e Entity) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	p, ok := w.parents[e]
	return p, ok && w.IsAlive(p)
}

// Children returns a copy of parent's live children in insertion order.
func Children(w *World, parent Entity) []Entity {
	if w == nil {
		return nil
	}
	kids := w.children[parent]
	out := make([]Entity, 0, len(kids))
	for _, c := range kids {
		if w.IsAlive(c) {
			out = append(out, c)
		}
	}
	return out
}

func (w *World) detach(child Entity) {
	parent, ok := w.parents[child]
	if !ok {
		return
	}
	delete(w.parents, child)
	kids := w.children[parent]
	for i, c := range kids {
		if c == child {
			w.children[parent] = append(kids[:i:i], kids[i+1:]...)
			break
		}
	}
}

// WorldPosition sums local transforms up the parent chain. Entities without
// a transform contribute nothing.
func WorldPosition(w *World, e Entity) (x, y float64, ok bool) {
	if w == nil || !w.IsAlive(e) {
		return 0, 0, false
	}
	t, ok := Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	x, y = t.X, t.Y
	for p, has := Parent(w, e); has; p, has = Parent(w, p) {
		if pt, ok := Get(w, p, component.TransformComponent.Kind()); ok {
			x += pt.X
			y += pt.Y
		}
	}
	return x, y, true
}

// SetWorldPosition writes e's local transform so that its world position
// becomes (x, y). A missing transform is created.
func SetWorldPosition(w *World, e Entity, x, y float64) error {
	if w == nil || !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	px, py := 0.0, 0.0
	if p, ok := Parent(w, e); ok {
		px, py, _ = WorldPosition(w, p)
	}
	t, ok := Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x - px
	t.Y = y - py
	return Add(w, e, component.TransformComponent.Kind(), t)
}

// ActiveInHierarchy reports false when e or any ancestor carries Inactive.
func ActiveInHierarchy(w *World, e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	for cur, ok := e, true; ok; cur, ok = Parent(w, cur) {
		if Has(w, cur, component.InactiveComponent.Kind()) {
			return false
		}
	}
	return true
}

// SetActive adds or removes the Inactive marker.
func SetActive(w *World, e Entity, active bool) error {
	if active {
		Remove(w, e, component.InactiveComponent.Kind())
		return nil
	}
	return Add(w, e, component.InactiveComponent.Kind(), &component.Inactive{})
}
