package component

type TriggerKind int

const (
	// TriggerButton fires once each time the player enters its area.
	TriggerButton TriggerKind = iota
	// TriggerLever fires when the player interacts while inside its area.
	TriggerLever
	// TriggerGoal completes the level.
	TriggerGoal
)

func ParseTriggerKind(s string) TriggerKind {
	switch s {
	case "lever":
		return TriggerLever
	case "goal":
		return TriggerGoal
	default:
		return TriggerButton
	}
}

// Trigger is an axis-aligned area centered on the entity transform.
type Trigger struct {
	Kind   TriggerKind
	Door   int
	Width  float64
	Height float64
	// Script is a tengo script path run instead of toggling Door.
	Script string
	// Occupied is maintained by the trigger system for edge detection.
	Occupied bool
}

var TriggerComponent = NewComponent[Trigger]()
