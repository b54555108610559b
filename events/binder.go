package events

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/domsugar/dom"
)

// Binder owns the registries of every target it has bound, keyed in a
// side-table. The mutex is never held while a listener runs, so handlers
// may bind and unbind freely, including removing themselves. Backends must
// not deliver events from inside Register or Deregister.
type Binder struct {
	mu         sync.Mutex
	backend    Backend
	matcher    Matcher
	logger     *zap.Logger
	registries map[Target]*Registry
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger. Registry mutations are logged at debug level
// and backend failures at warn level.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBinder creates a Binder over backend. matcher may be nil, in which case
// delegated binds are ignored.
func NewBinder(backend Backend, matcher Matcher, opts ...Option) *Binder {
	b := &Binder{
		backend:    backend,
		matcher:    matcher,
		logger:     zap.NewNop(),
		registries: make(map[Target]*Registry),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.Named("events")
	return b
}

// NewBinderFor resolves the backend for mode against sample once, then
// creates a Binder over it.
func NewBinderFor(mode Mode, sample any, matcher Matcher, opts ...Option) (*Binder, error) {
	backend, err := BackendFor(mode, sample)
	if err != nil {
		return nil, err
	}
	b := NewBinder(backend, matcher, opts...)
	b.logger.Debug("backend resolved", zap.String("backend", backend.Name()))
	return b, nil
}

// Backend returns the backend the Binder forwards to.
func (b *Binder) Backend() Backend { return b.backend }

// Wrap returns the on/off surface for t.
func (b *Binder) Wrap(t Target) *Wrapper {
	return &Wrapper{binder: b, target: t}
}

// Registry returns the registry of t, creating an empty one if t has none.
// It returns nil for nil or non-comparable targets.
func (b *Binder) Registry(t Target) *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ensureLocked(t)
}

// Lookup returns the registry of t without creating one.
func (b *Binder) Lookup(t Target) (*Registry, bool) {
	key := canonicalTarget(t)
	if key == nil {
		return nil, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	reg, ok := b.registries[key]
	return reg, ok
}

// Targets returns the number of targets holding a registry.
func (b *Binder) Targets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.registries)
}

// Release detaches every listener bound on t and drops its registry. Call it
// when t is destroyed so handler closures do not keep it alive.
func (b *Binder) Release(t Target) {
	key := canonicalTarget(t)
	if key == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	reg, ok := b.registries[key]
	if !ok {
		return
	}
	removed := reg.removeMatching(func(*Descriptor) bool { return true })
	for _, d := range removed {
		b.deregisterLocked(reg, d)
	}
	delete(b.registries, key)
	b.logger.Debug("registry released",
		zap.String("target", describe(key)),
		zap.Int("removed", len(removed)))
}

func (b *Binder) ensureLocked(t Target) *Registry {
	key := canonicalTarget(t)
	if key == nil {
		return nil
	}
	reg, ok := b.registries[key]
	if !ok {
		reg = newRegistry(key)
		b.registries[key] = reg
	}
	return reg
}

func (b *Binder) bind(t Target, types, selector string, delegated bool, h Handler, opts Options) {
	eventTypes := strings.Fields(types)
	switch {
	case len(eventTypes) == 0, isNilHandler(h), delegated && strings.TrimSpace(selector) == "":
		b.logger.Debug("malformed bind ignored", zap.String("types", types), zap.String("selector", selector))
		return
	case delegated && b.matcher == nil:
		b.logger.Warn("delegated bind without a selector matcher", zap.String("selector", selector))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	reg := b.ensureLocked(t)
	if reg == nil {
		return
	}
	for _, eventType := range eventTypes {
		if reg.lookup(eventType, selector, h) != nil {
			continue
		}

		d := &Descriptor{eventType: eventType, selector: selector, handler: h, options: opts}
		var l dom.EventListener = h
		if delegated {
			l = &delegateProxy{selector: selector, handler: h, matcher: b.matcher}
		}
		if opts.Once {
			l = &onceListener{binder: b, registry: reg, desc: d, inner: l}
		}
		d.dispatchTarget = l

		if err := b.backend.Register(reg.target, eventType, l, opts); err != nil {
			b.logger.Warn("backend register failed",
				zap.String("backend", b.backend.Name()),
				zap.String("target", describe(reg.target)),
				zap.String("type", eventType),
				zap.Error(err))
			continue
		}
		reg.append(d)
		b.logger.Debug("bound",
			zap.String("target", describe(reg.target)),
			zap.String("type", eventType),
			zap.String("selector", selector),
			zap.Int("registry", reg.Len()))
	}
}

// unbindQuery is a partial key. Absent qualifiers are wildcards.
type unbindQuery struct {
	anyType     bool
	types       []string
	anySelector bool
	selector    string
	handler     Handler // nil matches any handler
}

func (q unbindQuery) matches(eventType string) func(*Descriptor) bool {
	return func(d *Descriptor) bool {
		if !q.anyType && d.eventType != eventType {
			return false
		}
		if !q.anySelector && d.selector != q.selector {
			return false
		}
		return q.handler == nil || dom.SameListener(d.handler, q.handler)
	}
}

func (b *Binder) unbind(t Target, q unbindQuery) {
	b.mu.Lock()
	defer b.mu.Unlock()

	reg := b.ensureLocked(t)
	if reg == nil || reg.Len() == 0 {
		return
	}

	passes := q.types
	if q.anyType {
		passes = []string{""}
	}
	for _, eventType := range passes {
		for _, d := range reg.removeMatching(q.matches(eventType)) {
			b.deregisterLocked(reg, d)
		}
	}
}

// retire drops d after a once-listener fired. It reports false when d was
// already gone.
func (b *Binder) retire(reg *Registry, d *Descriptor) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !reg.remove(d) {
		return false
	}
	b.deregisterLocked(reg, d)
	return true
}

func (b *Binder) deregisterLocked(reg *Registry, d *Descriptor) {
	if err := b.backend.Deregister(reg.target, d.eventType, d.dispatchTarget, d.options); err != nil {
		b.logger.Warn("backend deregister failed",
			zap.String("backend", b.backend.Name()),
			zap.String("target", describe(reg.target)),
			zap.String("type", d.eventType),
			zap.Error(err))
		return
	}
	b.logger.Debug("unbound",
		zap.String("target", describe(reg.target)),
		zap.String("type", d.eventType),
		zap.String("selector", d.selector),
		zap.Int("registry", reg.Len()))
}

func isNilHandler(h Handler) bool {
	if h == nil {
		return true
	}
	rv := reflect.ValueOf(h)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func describe(t Target) string {
	switch v := t.(type) {
	case *dom.Element:
		s := v.LocalName()
		if id := v.Id(); id != "" {
			s += "#" + id
		}
		return s
	case *dom.Document:
		return "#document"
	case *dom.Window:
		return "window"
	case *dom.Node:
		return v.NodeName()
	}
	return fmt.Sprintf("%T", t)
}
