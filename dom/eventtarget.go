package dom

import (
	"reflect"
	"strings"
)

// EventTarget is implemented by every object that can receive events:
// *Node, *Element, *Document and *Window.
type EventTarget interface {
	AddEventListener(eventType string, l EventListener, opts ListenerOptions)
	RemoveEventListener(eventType string, l EventListener, opts ListenerOptions)
	DispatchEvent(e *Event) bool
}

// LegacyEventTarget is the attachEvent/detachEvent registration surface.
// Event names carry the "on" prefix and listeners receive no options.
type LegacyEventTarget interface {
	AttachEvent(name string, l EventListener) bool
	DetachEvent(name string, l EventListener)
}

// EventListener receives events. this is the object the listener is
// running for: the current target for plain listeners, the matched element
// for delegated ones.
type EventListener interface {
	HandleEvent(this EventTarget, e *Event) any
}

// FuncListener adapts a function to EventListener. Its identity is the
// pointer, so keep the value returned by NewEventListener to remove it later.
type FuncListener struct {
	fn func(this EventTarget, e *Event) any
}

// NewEventListener wraps fn in a FuncListener.
func NewEventListener(fn func(this EventTarget, e *Event) any) *FuncListener {
	return &FuncListener{fn: fn}
}

// HandleEvent calls the wrapped function.
func (f *FuncListener) HandleEvent(this EventTarget, e *Event) any {
	if f == nil || f.fn == nil {
		return nil
	}
	return f.fn(this, e)
}

// SameListener reports whether a and b are the same listener. A listener may
// define SameListener(EventListener) bool to supply its own identity;
// otherwise comparable values are compared with == and anything else is
// never equal.
func SameListener(a, b EventListener) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if s, ok := a.(interface{ SameListener(EventListener) bool }); ok {
		return s.SameListener(b)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// ListenerOptions are the addEventListener options.
type ListenerOptions struct {
	Capture bool `yaml:"capture" json:"capture"`
	Once    bool `yaml:"once" json:"once"`
	Passive bool `yaml:"passive" json:"passive"`
}

type listenerEntry struct {
	eventType string
	listener  EventListener
	options   ListenerOptions
	removed   bool
}

// listenerStore keeps the listeners of one target in registration order.
type listenerStore struct {
	entries []*listenerEntry
}

func newListenerStore() *listenerStore {
	return &listenerStore{}
}

func (s *listenerStore) add(eventType string, l EventListener, opts ListenerOptions) {
	if eventType == "" || l == nil {
		return
	}
	for _, e := range s.entries {
		if e.eventType == eventType && e.options.Capture == opts.Capture && SameListener(e.listener, l) {
			return
		}
	}
	s.entries = append(s.entries, &listenerEntry{
		eventType: eventType,
		listener:  l,
		options:   opts,
	})
}

func (s *listenerStore) remove(eventType string, l EventListener, capture bool) {
	for i, e := range s.entries {
		if e.eventType == eventType && e.options.Capture == capture && SameListener(e.listener, l) {
			s.removeAt(i)
			return
		}
	}
}

func (s *listenerStore) removeEntry(entry *listenerEntry) {
	for i, e := range s.entries {
		if e == entry {
			s.removeAt(i)
			return
		}
	}
}

// removeAt flags the entry so an in-flight dispatch holding a snapshot
// skips it, then drops it from the live list.
func (s *listenerStore) removeAt(i int) {
	s.entries[i].removed = true
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
}

func (s *listenerStore) attach(name string, l EventListener) bool {
	eventType, ok := legacyEventType(name)
	if !ok {
		return false
	}
	s.add(eventType, l, ListenerOptions{})
	return true
}

func (s *listenerStore) detach(name string, l EventListener) {
	if eventType, ok := legacyEventType(name); ok {
		s.remove(eventType, l, false)
	}
}

func legacyEventType(name string) (string, bool) {
	if !strings.HasPrefix(name, "on") || len(name) == len("on") {
		return "", false
	}
	return name[len("on"):], true
}

// snapshot returns the entries for eventType at the time of the call.
func (s *listenerStore) snapshot(eventType string) []*listenerEntry {
	var out []*listenerEntry
	for _, e := range s.entries {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of registered listeners, all types included.
func (s *listenerStore) Len() int {
	return len(s.entries)
}

// ListenerCount returns how many listeners target holds for eventType, or
// for every type when eventType is empty. Targets from other packages
// report zero.
func ListenerCount(target EventTarget, eventType string) int {
	owner, ok := target.(storeOwner)
	if !ok {
		return 0
	}
	store := owner.eventStore()
	if eventType == "" {
		return store.Len()
	}
	return len(store.snapshot(eventType))
}
