package dom

import "time"

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// EventInit carries the constructor options of an Event.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Composed   bool
	Detail     any
}

// Event represents a DOM event.
// https://dom.spec.whatwg.org/#interface-event
type Event struct {
	eventType        string
	target           EventTarget
	currentTarget    EventTarget
	eventPhase       EventPhase
	bubbles          bool
	cancelable       bool
	composed         bool
	defaultPrevented bool
	stopPropagation  bool
	stopImmediate    bool
	dispatching      bool
	inPassive        bool
	isTrusted        bool
	timeStamp        time.Time
	detail           any
	path             []EventTarget
}

// NewEvent creates an untrusted event of the given type.
func NewEvent(eventType string, init EventInit) *Event {
	return &Event{
		eventType:  eventType,
		bubbles:    init.Bubbles,
		cancelable: init.Cancelable,
		composed:   init.Composed,
		detail:     init.Detail,
		timeStamp:  time.Now(),
	}
}

// Type returns the event type.
func (e *Event) Type() string { return e.eventType }

// Target returns the object the event was dispatched to.
func (e *Event) Target() EventTarget { return e.target }

// CurrentTarget returns the object whose listeners are running.
func (e *Event) CurrentTarget() EventTarget { return e.currentTarget }

// EventPhase returns the current dispatch phase.
func (e *Event) EventPhase() EventPhase { return e.eventPhase }

// Bubbles reports whether the event bubbles.
func (e *Event) Bubbles() bool { return e.bubbles }

// Cancelable reports whether PreventDefault has an effect.
func (e *Event) Cancelable() bool { return e.cancelable }

// Composed reports the composed flag.
func (e *Event) Composed() bool { return e.composed }

// DefaultPrevented reports whether a listener canceled the event.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// IsTrusted is always false for script-created events.
func (e *Event) IsTrusted() bool { return e.isTrusted }

// TimeStamp returns the creation time.
func (e *Event) TimeStamp() time.Time { return e.timeStamp }

// Detail returns the CustomEvent detail payload.
func (e *Event) Detail() any { return e.detail }

// PreventDefault cancels the event if it is cancelable and the running
// listener is not passive.
func (e *Event) PreventDefault() {
	if e.cancelable && !e.inPassive {
		e.defaultPrevented = true
	}
}

// StopPropagation prevents the event from reaching further targets.
func (e *Event) StopPropagation() {
	e.stopPropagation = true
}

// StopImmediatePropagation also skips the remaining listeners of the
// current target.
func (e *Event) StopImmediatePropagation() {
	e.stopPropagation = true
	e.stopImmediate = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopPropagation }

// ComposedPath returns the propagation path, target first, while the event
// is being dispatched; it is empty otherwise.
func (e *Event) ComposedPath() []EventTarget {
	if !e.dispatching {
		return nil
	}
	return append([]EventTarget(nil), e.path...)
}
