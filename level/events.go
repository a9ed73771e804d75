package level

import "github.com/milk9111/rewind/ecs"

// EventType is the ecs.Event type used for every controller notification.
const EventType = "level"

type EventKind int

const (
	EventDied EventKind = iota
	EventRespawned
	EventUndo
	EventReset
	EventPaused
	EventResumed
	EventWon
	EventDoorToggled
)

func (k EventKind) String() string {
	switch k {
	case EventDied:
		return "died"
	case EventRespawned:
		return "respawned"
	case EventUndo:
		return "undo"
	case EventReset:
		return "reset"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventWon:
		return "won"
	case EventDoorToggled:
		return "door_toggled"
	default:
		return "unknown"
	}
}

// Event is the payload of a level notification. Slot is set for door
// toggles only.
type Event struct {
	Kind EventKind
	Slot int
}

func (c *Controller) emit(kind EventKind, slot int) {
	c.world.Events().Push(ecs.Event{Type: EventType, Data: Event{Kind: kind, Slot: slot}})
}

// Events returns the level notifications waiting in w's queue, leaving
// other events in place.
func Events(w *ecs.World) []Event {
	q := w.Events()
	var out []Event
	for _, evt := range q.Drain() {
		if e, ok := evt.Data.(Event); ok && evt.Type == EventType {
			out = append(out, e)
			continue
		}
		q.Push(evt)
	}
	return out
}
