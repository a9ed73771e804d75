package system

// Level is the part of the level controller the systems drive.
type Level interface {
	Advance(dt float64) bool
	TimeScale() float64
	Won() bool
	SetPlayerMoving()
	DoorCount() int
	DoorInteraction(slot int)
	IsDoorOpen(slot int) bool
	OnPlayerWin()
}

func timeScale(l Level) float64 {
	if l == nil {
		return 1
	}
	return l.TimeScale()
}
