package events

import "strings"

// Wrapper is the on/off surface of one target. Every method returns the
// wrapper so calls chain, and malformed arguments make a call a no-op.
type Wrapper struct {
	binder *Binder
	target Target
}

// Target returns the wrapped target.
func (w *Wrapper) Target() Target { return w.target }

// Registry returns the target's registry, creating it if needed.
func (w *Wrapper) Registry() *Registry { return w.binder.Registry(w.target) }

// Bind binds h for every whitespace-separated type in types.
func (w *Wrapper) Bind(types string, h Handler, opts ...Options) *Wrapper {
	w.binder.bind(w.target, types, "", false, h, mergeOptions(opts))
	return w
}

// BindDelegate binds h for events whose origin matches selector.
func (w *Wrapper) BindDelegate(types, selector string, h Handler, opts ...Options) *Wrapper {
	w.binder.bind(w.target, types, selector, true, h, mergeOptions(opts))
	return w
}

// UnbindAll removes every binding on the target.
func (w *Wrapper) UnbindAll() *Wrapper {
	w.binder.unbind(w.target, unbindQuery{anyType: true, anySelector: true})
	return w
}

// Unbind removes every binding of the given types.
func (w *Wrapper) Unbind(types string) *Wrapper {
	w.binder.unbind(w.target, unbindQuery{types: splitTypes(types), anySelector: true})
	return w
}

// UnbindHandler removes the bindings of h for the given types, delegated or
// not.
func (w *Wrapper) UnbindHandler(types string, h Handler) *Wrapper {
	if isNilHandler(h) {
		return w
	}
	w.binder.unbind(w.target, unbindQuery{types: splitTypes(types), anySelector: true, handler: h})
	return w
}

// UnbindDelegate removes the bindings of h delegated to selector.
func (w *Wrapper) UnbindDelegate(types, selector string, h Handler) *Wrapper {
	if isNilHandler(h) {
		return w
	}
	w.binder.unbind(w.target, unbindQuery{types: splitTypes(types), selector: selector, handler: h})
	return w
}

// On is the dynamic form of Bind and BindDelegate. Accepted shapes:
//
//	On(types string, h Handler)
//	On(types string, h Handler, options)
//	On(types string, selector string, h Handler)
//	On(types string, selector string, h Handler, options)
//
// options is anything ParseOptions accepts; nil and unrecognized values mean
// no options.
func (w *Wrapper) On(args ...any) *Wrapper {
	if len(args) < 2 {
		return w
	}
	types, ok := args[0].(string)
	if !ok {
		return w
	}
	rest := args[1:]
	selector, delegated := rest[0].(string)
	if delegated {
		rest = rest[1:]
	}
	if len(rest) == 0 || len(rest) > 2 {
		return w
	}
	h, ok := rest[0].(Handler)
	if !ok {
		return w
	}
	var opts Options
	if len(rest) == 2 {
		opts, _ = ParseOptions(rest[1])
	}
	w.binder.bind(w.target, types, selector, delegated, h, opts)
	return w
}

// Off is the dynamic form of the Unbind methods. Shapes are tried in order:
//
//	Off()
//	Off(types string)
//	Off(types string, h Handler)
//	Off(types string, selector string, h Handler)
//
// A trailing options argument after a handler is accepted and ignored, since
// options take no part in binding identity. Any other shape is a no-op.
func (w *Wrapper) Off(args ...any) *Wrapper {
	if len(args) == 0 {
		return w.UnbindAll()
	}
	types, ok := args[0].(string)
	if !ok {
		return w
	}
	switch len(args) {
	case 1:
		return w.Unbind(types)
	case 2:
		if h, ok := args[1].(Handler); ok {
			return w.UnbindHandler(types, h)
		}
	case 3:
		if selector, ok := args[1].(string); ok {
			if h, ok := args[2].(Handler); ok {
				return w.UnbindDelegate(types, selector, h)
			}
			return w
		}
		if h, ok := args[1].(Handler); ok {
			return w.UnbindHandler(types, h)
		}
	}
	return w
}

func splitTypes(types string) []string {
	return strings.Fields(types)
}
