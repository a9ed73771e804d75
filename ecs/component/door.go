package component

// Door marks an entity whose collider and sprite are driven by the door
// tracker. Slot orders doors when the list is detected automatically.
type Door struct {
	Slot int
}

var DoorComponent = NewComponent[Door]()
