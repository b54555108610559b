package js

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/domsugar/dom"
	"github.com/chrisuehlinger/domsugar/query"
)

func (b *DOMBinder) bindElementSugar(proto *goja.Object) {
	vm := b.runtime.vm

	// An element poses as a one-item list so that appendTo(el) and
	// appendTo(list) read the same.
	b.getter(proto, "length", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(1)
	})
	b.getter(proto, "0", func(call goja.FunctionCall) goja.Value {
		return call.This
	})
	b.method(proto, "item", func(call goja.FunctionCall) goja.Value {
		if call.Argument(0).ToInteger() == 0 {
			return call.This
		}
		return goja.Null()
	})

	b.getter(proto, "index", func(call goja.FunctionCall) goja.Value {
		if el := b.thisElement(call); el != nil {
			return vm.ToValue(query.Index(el))
		}
		return vm.ToValue(-1)
	})
	b.getter(proto, "parents", func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		if el == nil {
			return b.BindList(b.query.List())
		}
		return b.BindList(b.query.List(query.Parents(el)...))
	})

	b.method(proto, "find", func(call goja.FunctionCall) goja.Value {
		return b.findResult(b.query.Find(b.thisElement(call), call.Argument(0).String()))
	})
	b.method(proto, "appendTo", func(call goja.FunctionCall) goja.Value {
		if el := b.thisElement(call); el != nil {
			b.query.AppendTo(el, b.destination(call.Argument(0)))
		}
		return call.This
	})
	b.method(proto, "insertAfter", func(call goja.FunctionCall) goja.Value {
		if el := b.thisElement(call); el != nil {
			b.query.InsertAfter(el, b.destination(call.Argument(0)))
		}
		return call.This
	})
	b.method(proto, "remove", func(call goja.FunctionCall) goja.Value {
		if el := b.thisElement(call); el != nil {
			b.query.Remove(el)
		}
		return goja.Undefined()
	})
	b.bindIs(proto)
}

func (b *DOMBinder) bindIs(proto *goja.Object) {
	vm := b.runtime.vm
	b.method(proto, "is", func(call goja.FunctionCall) goja.Value {
		t := b.thisTarget(call)
		if t == nil {
			return vm.ToValue(false)
		}
		return vm.ToValue(query.Is(t, b.destination(call.Argument(0))))
	})
}

func (b *DOMBinder) bindListSugar(proto *goja.Object) {
	vm := b.runtime.vm
	list := func(call goja.FunctionCall) *query.List {
		if l, ok := b.goTarget(call.This).(*query.List); ok {
			return l
		}
		return b.query.List()
	}

	b.getter(proto, "length", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list(call).Len())
	})
	b.getter(proto, "index", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list(call).Index())
	})
	b.method(proto, "item", func(call goja.FunctionCall) goja.Value {
		if el := list(call).Item(int(call.Argument(0).ToInteger())); el != nil {
			return b.BindElement(el)
		}
		return goja.Null()
	})
	b.method(proto, "forEach", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("forEach: callback is not a function"))
		}
		for i, el := range list(call).Elements() {
			if _, err := fn(call.Argument(1), b.BindElement(el), vm.ToValue(i), call.This); err != nil {
				panic(err)
			}
		}
		return goja.Undefined()
	})
	b.method(proto, "find", func(call goja.FunctionCall) goja.Value {
		return b.findResult(list(call).Find(call.Argument(0).String()))
	})
	b.method(proto, "has", func(call goja.FunctionCall) goja.Value {
		return b.findResult(list(call).Has(call.Argument(0).String()))
	})
	b.method(proto, "is", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list(call).Is(call.Argument(0).String()))
	})
	b.method(proto, "on", func(call goja.FunctionCall) goja.Value {
		list(call).On(b.toArgs(call.Arguments)...)
		return call.This
	})
	b.method(proto, "off", func(call goja.FunctionCall) goja.Value {
		list(call).Off(b.toArgs(call.Arguments)...)
		return call.This
	})
	b.method(proto, "appendTo", func(call goja.FunctionCall) goja.Value {
		list(call).AppendTo(b.destination(call.Argument(0)))
		return call.This
	})
	b.method(proto, "insertAfter", func(call goja.FunctionCall) goja.Value {
		list(call).InsertAfter(b.destination(call.Argument(0)))
		return call.This
	})
	b.method(proto, "remove", func(call goja.FunctionCall) goja.Value {
		list(call).Remove()
		return goja.Undefined()
	})
}

func (b *DOMBinder) bindDocumentSugar(proto *goja.Object) {
	vm := b.runtime.vm
	doc := func(call goja.FunctionCall) *dom.Document {
		d, _ := b.goTarget(call.This).(*dom.Document)
		return d
	}

	find := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		d := doc(call)
		if d == nil {
			panic(vm.NewTypeError("find: receiver is not a document"))
		}
		return b.findResult(b.query.Find(d, call.Argument(0).String()))
	}).ToObject(vm)

	// find.setAlias(name) exposes document.find as a global function.
	find.Set("setAlias", func(call goja.FunctionCall) goja.Value {
		alias := call.Argument(0).String()
		global := vm.GlobalObject()
		if old := b.findAlias; old != "" && old != alias {
			global.Delete(old)
		}
		b.findAlias = alias
		global.Set(alias, func(inner goja.FunctionCall) goja.Value {
			fn, _ := goja.AssertFunction(find)
			result, err := fn(global.Get("document"), inner.Arguments...)
			if err != nil {
				panic(err)
			}
			return result
		})
		b.logger.Debug("find alias set", zap.String("alias", alias))
		return goja.Undefined()
	})
	find.Set("getAlias", func(goja.FunctionCall) goja.Value {
		if b.findAlias == "" {
			return goja.Undefined()
		}
		if v := vm.GlobalObject().Get(b.findAlias); v == nil || goja.IsUndefined(v) {
			return goja.Undefined()
		}
		return vm.ToValue(b.findAlias)
	})
	proto.DefineDataProperty("find", find, goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE)

	b.method(proto, "ready", func(call goja.FunctionCall) goja.Value {
		d := doc(call)
		fn, ok := goja.AssertFunction(call.Argument(0))
		if d == nil || !ok {
			return call.This
		}
		this := call.This
		b.query.Ready(d, func() {
			if _, err := fn(this); err != nil {
				b.runtime.reportError(err)
			}
		})
		return call.This
	})
	b.bindIs(proto)
}

func (b *DOMBinder) bindWindowSugar(proto *goja.Object) {
	b.method(proto, "load", func(call goja.FunctionCall) goja.Value {
		w, _ := b.goTarget(call.This).(*dom.Window)
		fn, ok := goja.AssertFunction(call.Argument(0))
		if w == nil || !ok {
			return call.This
		}
		this := call.This
		b.query.Load(w, func() {
			if _, err := fn(this); err != nil {
				b.runtime.reportError(err)
			}
		})
		return call.This
	})
	b.bindIs(proto)
}
