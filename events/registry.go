package events

import (
	"reflect"

	"github.com/chrisuehlinger/domsugar/dom"
)

// Target is any host object that can own a Registry: *dom.Element,
// *dom.Document, *dom.Window, *dom.Node, or a foreign object exposing the
// native or legacy listener surface. Targets must be comparable.
type Target = any

// Handler is a user callback. Its identity, as decided by dom.SameListener,
// is the identity used for deduplication and removal.
type Handler = dom.EventListener

// Descriptor records one logical binding.
type Descriptor struct {
	eventType      string
	selector       string
	handler        Handler
	dispatchTarget dom.EventListener
	options        Options
}

// EventType returns the single event type of the binding.
func (d *Descriptor) EventType() string { return d.eventType }

// Selector returns the delegate selector, or "" for direct bindings.
func (d *Descriptor) Selector() string { return d.selector }

// Delegated reports whether the binding goes through a delegation proxy.
func (d *Descriptor) Delegated() bool { return d.selector != "" }

// Handler returns the user handler.
func (d *Descriptor) Handler() Handler { return d.handler }

// DispatchTarget returns the listener registered with the backend: the
// handler itself or a wrapper around it.
func (d *Descriptor) DispatchTarget() dom.EventListener { return d.dispatchTarget }

// Options returns the options passed to the backend.
func (d *Descriptor) Options() Options { return d.options }

func (d *Descriptor) is(eventType, selector string, h Handler) bool {
	return d.eventType == eventType && d.selector == selector && dom.SameListener(d.handler, h)
}

// Registry is the ordered set of descriptors bound on one target.
type Registry struct {
	target      Target
	descriptors []*Descriptor
}

func newRegistry(target Target) *Registry {
	return &Registry{target: target}
}

// Target returns the target the registry belongs to.
func (r *Registry) Target() Target { return r.target }

// Len returns the number of descriptors.
func (r *Registry) Len() int { return len(r.descriptors) }

// Descriptors returns a copy of the descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

func (r *Registry) lookup(eventType, selector string, h Handler) *Descriptor {
	for _, d := range r.descriptors {
		if d.is(eventType, selector, h) {
			return d
		}
	}
	return nil
}

func (r *Registry) append(d *Descriptor) {
	r.descriptors = append(r.descriptors, d)
}

// removeMatching removes every descriptor accepted by match and returns them
// in ascending index order. The scan walks a snapshot, so removing an
// earlier match never shifts a later one out of view.
func (r *Registry) removeMatching(match func(*Descriptor) bool) []*Descriptor {
	snapshot := r.Descriptors()
	kept := r.descriptors[:0:0]
	var removed []*Descriptor
	for _, d := range snapshot {
		if match(d) {
			removed = append(removed, d)
			continue
		}
		kept = append(kept, d)
	}
	if len(removed) > 0 {
		r.descriptors = kept
	}
	return removed
}

func (r *Registry) remove(target *Descriptor) bool {
	return len(r.removeMatching(func(d *Descriptor) bool { return d == target })) > 0
}

// canonicalTarget maps the views of one node (*dom.Element, *dom.Document,
// *dom.Node) to a single key. nil is returned for targets that cannot key a
// map.
func canonicalTarget(t Target) Target {
	if t == nil {
		return nil
	}
	if n, ok := t.(*dom.Node); ok {
		if n == nil {
			return nil
		}
		return n.AsEventTarget()
	}
	if v, ok := t.(interface{ AsNode() *dom.Node }); ok {
		n := v.AsNode()
		if n == nil {
			return nil
		}
		return n.AsEventTarget()
	}
	rv := reflect.ValueOf(t)
	if !rv.Type().Comparable() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}
	return t
}
