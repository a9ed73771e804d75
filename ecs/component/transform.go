package component

// Transform is an entity's position relative to its parent. Entities without
// a parent are positioned in world space. X and Y address the entity's
// center.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
