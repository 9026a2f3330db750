package viewer

// EventKind identifies the type of an input [Event].
type EventKind int

const (
	// KeyDown is a key press. [Event.Key] holds the key name.
	KeyDown EventKind = iota + 1
	// MouseWheel is a wheel step. [Event.Delta] is positive for wheel up.
	MouseWheel
)

// Event is a host input event.
//
// Key names follow the keystroke notation used by bubbletea, for example
// "f11", "shift+tab", "enter" or "3".
type Event struct {
	Key   string
	Kind  EventKind
	Delta int
}

// KeyEvent returns a [KeyDown] event for key.
func KeyEvent(key string) Event {
	return Event{Kind: KeyDown, Key: key}
}

// WheelEvent returns a [MouseWheel] event. Positive delta scrolls up.
func WheelEvent(delta int) Event {
	return Event{Kind: MouseWheel, Delta: delta}
}

// Reaction tells the host whether the viewer consumed an event.
type Reaction int

const (
	// Pass means the event is not meant for the viewer and other consumers
	// should see it.
	Pass Reaction = iota
	// Handled means the viewer consumed the event.
	Handled
)

func (r Reaction) String() string {
	if r == Handled {
		return "handled"
	}

	return "pass"
}
