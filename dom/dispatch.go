package dom

// storeOwner is implemented by the targets of this package.
type storeOwner interface {
	EventTarget
	eventStore() *listenerStore
	parentTarget() EventTarget
}

// dispatch runs e through capture, target and bubble phases along the path
// from target up to the window.
// https://dom.spec.whatwg.org/#concept-event-dispatch (reduced)
func dispatch(target EventTarget, e *Event) bool {
	if e == nil || e.dispatching {
		return true
	}
	owner, ok := target.(storeOwner)
	if !ok {
		return true
	}

	path := []storeOwner{owner}
	for next := owner.parentTarget(); next != nil; {
		o, ok := next.(storeOwner)
		if !ok {
			break
		}
		path = append(path, o)
		next = o.parentTarget()
	}

	e.target = target
	e.dispatching = true
	e.stopPropagation = false
	e.stopImmediate = false
	e.path = make([]EventTarget, len(path))
	for i, o := range path {
		e.path[i] = o
	}
	defer func() {
		e.dispatching = false
		e.eventPhase = EventPhaseNone
		e.currentTarget = nil
		e.path = nil
	}()

	// Capture phase, outermost first.
	for i := len(path) - 1; i > 0 && !e.stopPropagation; i-- {
		e.eventPhase = EventPhaseCapturing
		invokeListeners(path[i], e, phaseCapture)
	}

	if !e.stopPropagation {
		e.eventPhase = EventPhaseAtTarget
		invokeListeners(path[0], e, phaseCapture)
		if !e.stopPropagation {
			invokeListeners(path[0], e, phaseBubble)
		}
	}

	if e.bubbles {
		for i := 1; i < len(path) && !e.stopPropagation; i++ {
			e.eventPhase = EventPhaseBubbling
			invokeListeners(path[i], e, phaseBubble)
		}
	}

	return !e.defaultPrevented
}

type listenerPhase int

const (
	phaseCapture listenerPhase = iota
	phaseBubble
)

func invokeListeners(owner storeOwner, e *Event, phase listenerPhase) {
	store := owner.eventStore()
	e.currentTarget = owner

	for _, entry := range store.snapshot(e.eventType) {
		if entry.removed {
			continue
		}
		if entry.options.Capture != (phase == phaseCapture) {
			continue
		}
		if entry.options.Once {
			store.removeEntry(entry)
		}

		e.inPassive = entry.options.Passive
		entry.listener.HandleEvent(owner, e)
		e.inPassive = false

		if e.stopImmediate {
			return
		}
	}
}
