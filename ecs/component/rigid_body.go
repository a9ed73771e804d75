package component

type BodyType int

const (
	BodyDynamic BodyType = iota
	BodyKinematic
	BodyStatic
)

func (t BodyType) String() string {
	switch t {
	case BodyKinematic:
		return "kinematic"
	case BodyStatic:
		return "static"
	default:
		return "dynamic"
	}
}

func ParseBodyType(s string) BodyType {
	switch s {
	case "kinematic":
		return BodyKinematic
	case "static":
		return BodyStatic
	default:
		return BodyDynamic
	}
}

// Constraints freeze parts of a body's motion.
type Constraints uint8

const (
	FreezePositionX Constraints = 1 << iota
	FreezePositionY
	FreezeRotation

	FreezeNone     Constraints = 0
	FreezePosition             = FreezePositionX | FreezePositionY
	FreezeAll                  = FreezePosition | FreezeRotation
)

func (c Constraints) Has(flag Constraints) bool {
	return c&flag == flag
}

// RigidBody configures how the physics world simulates an entity's collider.
// Entities with a collider and no rigid body are static.
type RigidBody struct {
	Type         BodyType
	Mass         float64
	GravityScale float64
	Constraints  Constraints
}

var RigidBodyComponent = NewComponent[RigidBody]()
