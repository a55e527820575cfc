package ecs

// Event is a frame-local message between systems. The queue is cleared at the
// end of every World.Update.
type Event struct {
	Type   string
	Entity Entity
	Data   any
}

const (
	// EventInteract is pushed when the pointer selects an interactable.
	EventInteract = "interact"
	// EventSubmit carries the terminal text when the user transmits.
	EventSubmit = "submit"
)

type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
