package component

// ShapeKind is the collider geometry category.
type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeBox
	ShapeCircle
	ShapeCapsule
	ShapePolygon
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	case ShapeCapsule:
		return "capsule"
	case ShapePolygon:
		return "polygon"
	default:
		return "none"
	}
}

// ParseShapeKind maps a prefab name onto a ShapeKind.
func ParseShapeKind(s string) ShapeKind {
	switch s {
	case "box", "":
		return ShapeBox
	case "circle":
		return ShapeCircle
	case "capsule":
		return ShapeCapsule
	case "polygon":
		return ShapePolygon
	default:
		return ShapeNone
	}
}

type CapsuleDirection int

const (
	CapsuleVertical CapsuleDirection = iota
	CapsuleHorizontal
)

type Point struct {
	X float64
	Y float64
}

// PhysicsMaterial is shared by pointer between colliders, like an authored
// asset.
type PhysicsMaterial struct {
	Name       string
	Friction   float64
	Elasticity float64
}

// Collider describes one collision shape relative to the entity center.
// Width/Height are used by boxes and capsules, Radius by circles, and Paths
// by polygons (each path convex, counter-clockwise).
type Collider struct {
	Shape     ShapeKind
	Width     float64
	Height    float64
	Radius    float64
	OffsetX   float64
	OffsetY   float64
	Direction CapsuleDirection
	Paths     [][]Point
	Material  *PhysicsMaterial
	Sensor    bool
	// Disabled colliders do not block anything. A door is open exactly
	// when its collider is disabled.
	Disabled bool
}

// Clone copies the collider. Paths are deep-copied; Material stays shared.
func (c Collider) Clone() Collider {
	out := c
	if c.Paths != nil {
		out.Paths = make([][]Point, len(c.Paths))
		for i, p := range c.Paths {
			out.Paths[i] = append([]Point(nil), p...)
		}
	}
	return out
}

var ColliderComponent = NewComponent[Collider]()
