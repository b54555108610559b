package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/domsugar/dom"
)

// maxCachedEvents bounds eventMap; events are short-lived and the cache
// only keeps identity stable while one dispatch is in flight.
const maxCachedEvents = 256

// jsHandler adapts a JS function, or an object with a handleEvent method,
// to dom.EventListener. Two handlers are the same listener when they wrap
// the same JS value.
type jsHandler struct {
	b     *DOMBinder
	fn    goja.Callable
	this  goja.Value // receiver for handleEvent objects
	value goja.Value
}

func (b *DOMBinder) newHandler(v goja.Value) (*jsHandler, bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false
	}
	if fn, ok := goja.AssertFunction(v); ok {
		return &jsHandler{b: b, fn: fn, value: v}, true
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	if fn, ok := goja.AssertFunction(obj.Get("handleEvent")); ok {
		return &jsHandler{b: b, fn: fn, this: obj, value: v}, true
	}
	return nil, false
}

func (h *jsHandler) HandleEvent(this dom.EventTarget, e *dom.Event) any {
	receiver := h.this
	if receiver == nil {
		receiver = h.b.BindTarget(this)
	}
	result, err := h.fn(receiver, h.b.BindEvent(e))
	if err != nil {
		h.b.runtime.reportError(err)
		return nil
	}
	if result == nil {
		return nil
	}
	return result.Export()
}

func (h *jsHandler) SameListener(other dom.EventListener) bool {
	o, ok := other.(*jsHandler)
	return ok && h.value.SameAs(o.value)
}

// toArgs converts call arguments for the dynamic On/Off forms: functions
// and handleEvent objects become listeners, undefined and null become nil,
// and everything else is exported.
func (b *DOMBinder) toArgs(args []goja.Value) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if a == nil || goja.IsUndefined(a) || goja.IsNull(a) {
			continue
		}
		if h, ok := b.newHandler(a); ok {
			out[i] = h
			continue
		}
		out[i] = a.Export()
	}
	return out
}

// BindEvent returns the JS object for e.
func (b *DOMBinder) BindEvent(e *dom.Event) *goja.Object {
	if e == nil {
		return nil
	}
	if jsObj, ok := b.eventMap[e]; ok {
		return jsObj
	}
	if len(b.eventMap) >= maxCachedEvents {
		b.eventMap = make(map[*dom.Event]*goja.Object)
	}
	jsEvent := b.newObject(b.eventProto, e)
	b.eventMap[e] = jsEvent
	return jsEvent
}

func (b *DOMBinder) thisEvent(call goja.FunctionCall) *dom.Event {
	e, _ := b.goTarget(call.This).(*dom.Event)
	return e
}

func (b *DOMBinder) bindEventProperties(proto *goja.Object) {
	vm := b.runtime.vm

	for name, phase := range map[string]dom.EventPhase{
		"NONE":            dom.EventPhaseNone,
		"CAPTURING_PHASE": dom.EventPhaseCapturing,
		"AT_TARGET":       dom.EventPhaseAtTarget,
		"BUBBLING_PHASE":  dom.EventPhaseBubbling,
	} {
		proto.DefineDataProperty(name, vm.ToValue(int(phase)), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}

	prop := func(name string, get func(*dom.Event) goja.Value) {
		b.getter(proto, name, func(call goja.FunctionCall) goja.Value {
			if e := b.thisEvent(call); e != nil {
				return get(e)
			}
			return goja.Undefined()
		})
	}
	prop("type", func(e *dom.Event) goja.Value { return vm.ToValue(e.Type()) })
	prop("target", func(e *dom.Event) goja.Value { return b.BindTarget(e.Target()) })
	prop("currentTarget", func(e *dom.Event) goja.Value { return b.BindTarget(e.CurrentTarget()) })
	prop("eventPhase", func(e *dom.Event) goja.Value { return vm.ToValue(int(e.EventPhase())) })
	prop("bubbles", func(e *dom.Event) goja.Value { return vm.ToValue(e.Bubbles()) })
	prop("cancelable", func(e *dom.Event) goja.Value { return vm.ToValue(e.Cancelable()) })
	prop("composed", func(e *dom.Event) goja.Value { return vm.ToValue(e.Composed()) })
	prop("defaultPrevented", func(e *dom.Event) goja.Value { return vm.ToValue(e.DefaultPrevented()) })
	prop("isTrusted", func(e *dom.Event) goja.Value { return vm.ToValue(e.IsTrusted()) })
	prop("timeStamp", func(e *dom.Event) goja.Value {
		return vm.ToValue(float64(e.TimeStamp().UnixNano()) / 1e6)
	})
	prop("detail", func(e *dom.Event) goja.Value {
		switch d := e.Detail().(type) {
		case nil:
			return goja.Null()
		case goja.Value:
			return d
		default:
			return vm.ToValue(d)
		}
	})

	b.method(proto, "preventDefault", func(call goja.FunctionCall) goja.Value {
		if e := b.thisEvent(call); e != nil {
			e.PreventDefault()
		}
		return goja.Undefined()
	})
	b.method(proto, "stopPropagation", func(call goja.FunctionCall) goja.Value {
		if e := b.thisEvent(call); e != nil {
			e.StopPropagation()
		}
		return goja.Undefined()
	})
	b.method(proto, "stopImmediatePropagation", func(call goja.FunctionCall) goja.Value {
		if e := b.thisEvent(call); e != nil {
			e.StopImmediatePropagation()
		}
		return goja.Undefined()
	})
	b.method(proto, "composedPath", func(call goja.FunctionCall) goja.Value {
		e := b.thisEvent(call)
		if e == nil {
			return vm.NewArray()
		}
		path := e.ComposedPath()
		items := make([]any, len(path))
		for i, t := range path {
			items[i] = b.BindTarget(t)
		}
		return vm.NewArray(items...)
	})
}

// setupEventConstructors installs Event and CustomEvent.
func (b *DOMBinder) setupEventConstructors() {
	vm := b.runtime.vm

	customProto := vm.NewObject()
	customProto.SetPrototype(b.eventProto)

	newEvent := func(call goja.ConstructorCall, custom bool) *goja.Object {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to construct event: 1 argument required"))
		}
		var init dom.EventInit
		if opts, ok := call.Argument(1).(*goja.Object); ok {
			init.Bubbles = opts.Get("bubbles") != nil && opts.Get("bubbles").ToBoolean()
			init.Cancelable = opts.Get("cancelable") != nil && opts.Get("cancelable").ToBoolean()
			init.Composed = opts.Get("composed") != nil && opts.Get("composed").ToBoolean()
			if d := opts.Get("detail"); custom && d != nil && !goja.IsUndefined(d) {
				init.Detail = d
			}
		}
		e := dom.NewEvent(call.Argument(0).String(), init)
		obj := b.BindEvent(e)
		if custom {
			obj.SetPrototype(customProto)
		}
		return obj
	}

	eventCtor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		return newEvent(call, false)
	}).ToObject(vm)
	eventCtor.Set("prototype", b.eventProto)
	b.eventProto.DefineDataProperty("constructor", eventCtor, goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	vm.Set("Event", eventCtor)

	customCtor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		return newEvent(call, true)
	}).ToObject(vm)
	customCtor.Set("prototype", customProto)
	customProto.DefineDataProperty("constructor", customCtor, goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	vm.Set("CustomEvent", customCtor)
}

// bindEventTargetMethods defines the standard listener methods and the
// on/off sugar shared by elements, documents and windows.
func (b *DOMBinder) bindEventTargetMethods(proto *goja.Object) {
	vm := b.runtime.vm
	target := func(call goja.FunctionCall) dom.EventTarget {
		t, _ := b.thisTarget(call).(dom.EventTarget)
		return t
	}
	options := func(v goja.Value) dom.ListenerOptions {
		if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
			return dom.ListenerOptions{}
		}
		var opts dom.ListenerOptions
		if obj, ok := v.(*goja.Object); ok {
			for _, f := range []struct {
				key string
				dst *bool
			}{{"capture", &opts.Capture}, {"once", &opts.Once}, {"passive", &opts.Passive}} {
				if p := obj.Get(f.key); p != nil {
					*f.dst = p.ToBoolean()
				}
			}
			return opts
		}
		opts.Capture = v.ToBoolean()
		return opts
	}

	b.method(proto, "addEventListener", func(call goja.FunctionCall) goja.Value {
		t := target(call)
		h, ok := b.newHandler(call.Argument(1))
		if t == nil || !ok {
			return goja.Undefined()
		}
		t.AddEventListener(call.Argument(0).String(), h, options(call.Argument(2)))
		return goja.Undefined()
	})
	b.method(proto, "removeEventListener", func(call goja.FunctionCall) goja.Value {
		t := target(call)
		h, ok := b.newHandler(call.Argument(1))
		if t == nil || !ok {
			return goja.Undefined()
		}
		t.RemoveEventListener(call.Argument(0).String(), h, options(call.Argument(2)))
		return goja.Undefined()
	})
	b.method(proto, "dispatchEvent", func(call goja.FunctionCall) goja.Value {
		t := target(call)
		e, ok := b.goTarget(call.Argument(0)).(*dom.Event)
		if t == nil || !ok {
			panic(vm.NewTypeError("dispatchEvent: argument is not an Event"))
		}
		return vm.ToValue(t.DispatchEvent(e))
	})

	b.method(proto, "on", func(call goja.FunctionCall) goja.Value {
		if t := b.thisTarget(call); t != nil {
			b.query.Wrap(t).On(b.toArgs(call.Arguments)...)
		}
		return call.This
	})
	b.method(proto, "off", func(call goja.FunctionCall) goja.Value {
		if t := b.thisTarget(call); t != nil {
			b.query.Wrap(t).Off(b.toArgs(call.Arguments)...)
		}
		return call.This
	})
}
