package display

// EventType identifies a pointer event delivered by the Stage.
type EventType int

const (
	// EventPointerOver fires when the pointer enters a node's hit region.
	EventPointerOver EventType = iota
	// EventPointerOut fires when the pointer leaves a node's hit region.
	EventPointerOut
	// EventPointerDown fires when the primary button is pressed over a node.
	EventPointerDown
	// EventPointerUp fires when the primary button is released over a node.
	EventPointerUp
	// EventPointerUpOutside fires on the node that received the press when the
	// release happens outside of it.
	EventPointerUpOutside
	// EventPointerMove fires on the node under the pointer whenever it moves.
	EventPointerMove
)

var eventNames = [...]string{
	EventPointerOver:      "pointerover",
	EventPointerOut:       "pointerout",
	EventPointerDown:      "pointerdown",
	EventPointerUp:        "pointerup",
	EventPointerUpOutside: "pointerupoutside",
	EventPointerMove:      "pointermove",
}

// String returns the DOM-style name of the event.
func (t EventType) String() string {
	if int(t) < 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// Event carries pointer event data. Events bubble from Target up through its
// ancestors until a handler calls StopPropagation.
type Event struct {
	Type EventType
	// GlobalX, GlobalY are screen coordinates of the pointer.
	GlobalX, GlobalY float64
	// Target is the node the event was dispatched to.
	Target *Node
	// CurrentTarget is the node whose handlers are currently running.
	CurrentTarget *Node

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Handler receives pointer events for a node.
type Handler func(e *Event)

// dispatch delivers e to target and bubbles it through the parent chain.
func dispatch(t EventType, target *Node, x, y float64) *Event {
	e := &Event{Type: t, GlobalX: x, GlobalY: y, Target: target}
	for n := target; n != nil && !e.stopped; n = n.parent {
		e.CurrentTarget = n
		n.emit(e)
	}
	return e
}
