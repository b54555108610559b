package js

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/domsugar/dom"
	"github.com/chrisuehlinger/domsugar/events"
	"github.com/chrisuehlinger/domsugar/query"
)

// goTargetKey holds the Go object behind every bound JS object.
const goTargetKey = "_goTarget"

// DOMBinder provides methods to bind DOM objects to JavaScript.
type DOMBinder struct {
	runtime *Runtime
	query   *query.Query
	logger  *zap.Logger

	nodeMap   map[*dom.Node]*goja.Object // same JS object for the same node
	windowMap map[*dom.Window]*goja.Object
	eventMap  map[*dom.Event]*goja.Object
	findAlias string

	// Prototype objects for instanceof checks
	eventTargetProto *goja.Object
	nodeProto        *goja.Object
	elementProto     *goja.Object
	documentProto    *goja.Object
	windowProto      *goja.Object
	listProto        *goja.Object
	eventProto       *goja.Object
}

// NewDOMBinder creates a DOM binder for runtime whose on/off calls go
// through q.
func NewDOMBinder(runtime *Runtime, q *query.Query) *DOMBinder {
	b := &DOMBinder{
		runtime:   runtime,
		query:     q,
		logger:    runtime.logger.Named("bindings"),
		nodeMap:   make(map[*dom.Node]*goja.Object),
		windowMap: make(map[*dom.Window]*goja.Object),
		eventMap:  make(map[*dom.Event]*goja.Object),
	}
	b.setupPrototypes()
	b.setupEventConstructors()
	return b
}

// Install binds win and its document to the window and document globals.
func (b *DOMBinder) Install(win *dom.Window) {
	vm := b.runtime.vm
	jsWin := b.BindWindow(win)
	if err := vm.Set("window", jsWin); err != nil {
		b.logger.Error("Failed to set 'window' global", zap.Error(err))
	}
	if err := vm.Set("document", b.BindDocument(win.Document())); err != nil {
		b.logger.Error("Failed to set 'document' global", zap.Error(err))
	}
}

// setupPrototypes creates the prototype chain:
// EventTarget <- Node <- Element / Document, EventTarget <- Window.
func (b *DOMBinder) setupPrototypes() {
	vm := b.runtime.vm

	b.eventTargetProto = vm.NewObject()
	b.bindEventTargetMethods(b.eventTargetProto)

	b.nodeProto = vm.NewObject()
	b.nodeProto.SetPrototype(b.eventTargetProto)
	b.bindNodeProperties(b.nodeProto)

	b.elementProto = vm.NewObject()
	b.elementProto.SetPrototype(b.nodeProto)
	b.bindElementProperties(b.elementProto)
	b.bindElementSugar(b.elementProto)

	b.documentProto = vm.NewObject()
	b.documentProto.SetPrototype(b.nodeProto)
	b.bindDocumentProperties(b.documentProto)

	b.windowProto = vm.NewObject()
	b.windowProto.SetPrototype(b.eventTargetProto)
	b.bindWindowProperties(b.windowProto)

	b.listProto = vm.NewObject()
	b.bindListSugar(b.listProto)

	b.eventProto = vm.NewObject()
	b.bindEventProperties(b.eventProto)

	for name, proto := range map[string]*goja.Object{
		"EventTarget": b.eventTargetProto,
		"Node":        b.nodeProto,
		"Element":     b.elementProto,
		"HTMLElement": b.elementProto,
		"Document":    b.documentProto,
		"Window":      b.windowProto,
		"ElementList": b.listProto,
	} {
		b.exposeInterface(name, proto)
	}
}

// exposeInterface defines a non-constructible global whose prototype is
// proto, so instanceof works.
func (b *DOMBinder) exposeInterface(name string, proto *goja.Object) {
	vm := b.runtime.vm
	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		panic(vm.NewTypeError("Illegal constructor"))
	}).ToObject(vm)
	ctor.Set("prototype", proto)
	proto.DefineDataProperty("constructor", ctor, goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	vm.Set(name, ctor)
}

func (b *DOMBinder) newObject(proto *goja.Object, target any) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()
	obj.SetPrototype(proto)
	obj.DefineDataProperty(goTargetKey, vm.ToValue(target), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	return obj
}

// BindDocument returns the JS object for doc.
func (b *DOMBinder) BindDocument(doc *dom.Document) *goja.Object {
	if doc == nil {
		return nil
	}
	node := doc.AsNode()
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}
	jsDoc := b.newObject(b.documentProto, doc)
	b.nodeMap[node] = jsDoc
	return jsDoc
}

// BindElement returns the JS object for el.
func (b *DOMBinder) BindElement(el *dom.Element) *goja.Object {
	if el == nil {
		return nil
	}
	node := el.AsNode()
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}
	jsEl := b.newObject(b.elementProto, el)
	b.nodeMap[node] = jsEl
	return jsEl
}

// BindNode returns the JS object for node, using the most specific
// prototype available.
func (b *DOMBinder) BindNode(node *dom.Node) *goja.Object {
	if node == nil {
		return nil
	}
	switch t := node.AsEventTarget().(type) {
	case *dom.Element:
		return b.BindElement(t)
	case *dom.Document:
		return b.BindDocument(t)
	}
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}
	jsNode := b.newObject(b.nodeProto, node)
	b.nodeMap[node] = jsNode
	return jsNode
}

// BindWindow returns the JS object for win.
func (b *DOMBinder) BindWindow(win *dom.Window) *goja.Object {
	if win == nil {
		return nil
	}
	if jsObj, ok := b.windowMap[win]; ok {
		return jsObj
	}
	jsWin := b.newObject(b.windowProto, win)
	b.windowMap[win] = jsWin
	return jsWin
}

// BindTarget binds any event target, returning null for nil.
func (b *DOMBinder) BindTarget(t dom.EventTarget) goja.Value {
	var obj *goja.Object
	switch v := t.(type) {
	case *dom.Element:
		obj = b.BindElement(v)
	case *dom.Document:
		obj = b.BindDocument(v)
	case *dom.Window:
		obj = b.BindWindow(v)
	case *dom.Node:
		obj = b.BindNode(v)
	}
	if obj == nil {
		return goja.Null()
	}
	return obj
}

// BindList returns a JS element list for l.
func (b *DOMBinder) BindList(l *query.List) *goja.Object {
	vm := b.runtime.vm
	jsList := b.newObject(b.listProto, l)
	for i, el := range l.Elements() {
		jsList.DefineDataProperty(vm.ToValue(i).String(), b.BindElement(el), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	return jsList
}

// findResult mirrors find(): one match is returned as the element itself,
// anything else as a list.
func (b *DOMBinder) findResult(l *query.List) goja.Value {
	if l.Len() == 1 {
		return b.BindElement(l.Item(0))
	}
	return b.BindList(l)
}

// ClearCache drops every cached JS object.
func (b *DOMBinder) ClearCache() {
	b.nodeMap = make(map[*dom.Node]*goja.Object)
	b.windowMap = make(map[*dom.Window]*goja.Object)
	b.eventMap = make(map[*dom.Event]*goja.Object)
}

// goTarget returns the Go object behind v, or nil.
func (b *DOMBinder) goTarget(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	inner := obj.Get(goTargetKey)
	if inner == nil || goja.IsUndefined(inner) {
		return nil
	}
	return inner.Export()
}

func (b *DOMBinder) thisTarget(call goja.FunctionCall) events.Target {
	t := b.goTarget(call.This)
	if _, isList := t.(*query.List); isList {
		return nil
	}
	return t
}

func (b *DOMBinder) thisElement(call goja.FunctionCall) *dom.Element {
	el, _ := b.goTarget(call.This).(*dom.Element)
	return el
}

func (b *DOMBinder) thisNode(call goja.FunctionCall) *dom.Node {
	switch t := b.goTarget(call.This).(type) {
	case *dom.Element:
		return t.AsNode()
	case *dom.Document:
		return t.AsNode()
	case *dom.Node:
		return t
	}
	return nil
}

// destination converts an appendTo/insertAfter argument: selector strings
// pass through, bound elements and lists become their Go values.
func (b *DOMBinder) destination(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if t := b.goTarget(v); t != nil {
		return t
	}
	return v.String()
}

// bindNodeProperties defines the node accessors shared by elements,
// documents and character data.
func (b *DOMBinder) bindNodeProperties(proto *goja.Object) {
	vm := b.runtime.vm
	b.getter(proto, "nodeType", func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil {
			return vm.ToValue(int(n.NodeType()))
		}
		return goja.Undefined()
	})
	b.getter(proto, "nodeName", func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil {
			return vm.ToValue(n.NodeName())
		}
		return goja.Undefined()
	})
	b.getter(proto, "parentNode", func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil && n.ParentNode() != nil {
			return b.BindNode(n.ParentNode())
		}
		return goja.Null()
	})
	b.getter(proto, "parentElement", func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil && n.ParentElement() != nil {
			return b.BindElement(n.ParentElement())
		}
		return goja.Null()
	})
	b.getter(proto, "nextSibling", func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil && n.NextSibling() != nil {
			return b.BindNode(n.NextSibling())
		}
		return goja.Null()
	})
	b.getter(proto, "previousSibling", func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil && n.PreviousSibling() != nil {
			return b.BindNode(n.PreviousSibling())
		}
		return goja.Null()
	})
	b.accessor(proto, "textContent", func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil && n.NodeType() != dom.DocumentNode {
			return vm.ToValue(n.TextContent())
		}
		return goja.Null()
	}, func(call goja.FunctionCall) goja.Value {
		if n := b.thisNode(call); n != nil && n.NodeType() != dom.DocumentNode {
			n.SetTextContent(call.Argument(0).String())
		}
		return goja.Undefined()
	})
	b.method(proto, "contains", func(call goja.FunctionCall) goja.Value {
		n := b.thisNode(call)
		other, _ := b.goTarget(call.Argument(0)).(interface{ AsNode() *dom.Node })
		if n == nil || other == nil {
			return vm.ToValue(false)
		}
		return vm.ToValue(n.Contains(other.AsNode()))
	})
}

func (b *DOMBinder) bindElementProperties(proto *goja.Object) {
	vm := b.runtime.vm
	str := func(name string, get func(*dom.Element) string, set func(*dom.Element, string)) {
		getter := func(call goja.FunctionCall) goja.Value {
			if el := b.thisElement(call); el != nil {
				return vm.ToValue(get(el))
			}
			return goja.Undefined()
		}
		if set == nil {
			b.getter(proto, name, getter)
			return
		}
		b.accessor(proto, name, getter, func(call goja.FunctionCall) goja.Value {
			if el := b.thisElement(call); el != nil {
				set(el, call.Argument(0).String())
			}
			return goja.Undefined()
		})
	}
	str("tagName", (*dom.Element).TagName, nil)
	str("localName", (*dom.Element).LocalName, nil)
	str("id", (*dom.Element).Id, (*dom.Element).SetId)
	str("className", (*dom.Element).ClassName, (*dom.Element).SetClassName)

	b.method(proto, "getAttribute", func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		name := call.Argument(0).String()
		if el == nil || !el.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(name))
	})
	b.method(proto, "setAttribute", func(call goja.FunctionCall) goja.Value {
		if el := b.thisElement(call); el != nil {
			el.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
		}
		return goja.Undefined()
	})
	b.method(proto, "hasAttribute", func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		return vm.ToValue(el != nil && el.HasAttribute(call.Argument(0).String()))
	})
	b.method(proto, "removeAttribute", func(call goja.FunctionCall) goja.Value {
		if el := b.thisElement(call); el != nil {
			el.RemoveAttribute(call.Argument(0).String())
		}
		return goja.Undefined()
	})
	b.getter(proto, "children", func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		if el == nil {
			return goja.Undefined()
		}
		return b.BindList(b.query.List(el.Children()...))
	})
	b.getter(proto, "classList", func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		if el == nil {
			return goja.Undefined()
		}
		return b.bindTokenList(el.ClassList())
	})
	b.method(proto, "appendChild", func(call goja.FunctionCall) goja.Value {
		el := b.thisElement(call)
		child, _ := b.goTarget(call.Argument(0)).(interface{ AsNode() *dom.Node })
		if el == nil || child == nil {
			panic(vm.NewTypeError("appendChild: argument is not a node"))
		}
		if _, err := el.AsNode().AppendChildWithError(child.AsNode()); err != nil {
			panic(vm.NewGoError(err))
		}
		return call.Argument(0)
	})
}

func (b *DOMBinder) bindTokenList(tl *dom.DOMTokenList) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()
	strings := func(args []goja.Value) []string {
		out := make([]string, len(args))
		for i, a := range args {
			out[i] = a.String()
		}
		return out
	}
	obj.DefineAccessorProperty("length", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Length())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("value", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Value())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Contains(call.Argument(0).String()))
	})
	obj.Set("add", func(call goja.FunctionCall) goja.Value {
		tl.Add(strings(call.Arguments)...)
		return goja.Undefined()
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		tl.Remove(strings(call.Arguments)...)
		return goja.Undefined()
	})
	obj.Set("toggle", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Toggle(call.Argument(0).String()))
	})
	return obj
}

func (b *DOMBinder) bindDocumentProperties(proto *goja.Object) {
	vm := b.runtime.vm
	doc := func(call goja.FunctionCall) *dom.Document {
		d, _ := b.goTarget(call.This).(*dom.Document)
		return d
	}
	elementOrNull := func(el *dom.Element) goja.Value {
		if el == nil {
			return goja.Null()
		}
		return b.BindElement(el)
	}

	b.getter(proto, "readyState", func(call goja.FunctionCall) goja.Value {
		if d := doc(call); d != nil {
			return vm.ToValue(d.ReadyState())
		}
		return goja.Undefined()
	})
	b.getter(proto, "documentElement", func(call goja.FunctionCall) goja.Value {
		if d := doc(call); d != nil {
			return elementOrNull(d.DocumentElement())
		}
		return goja.Null()
	})
	b.getter(proto, "head", func(call goja.FunctionCall) goja.Value {
		if d := doc(call); d != nil {
			return elementOrNull(d.Head())
		}
		return goja.Null()
	})
	b.getter(proto, "body", func(call goja.FunctionCall) goja.Value {
		if d := doc(call); d != nil {
			return elementOrNull(d.Body())
		}
		return goja.Null()
	})
	b.getter(proto, "defaultView", func(call goja.FunctionCall) goja.Value {
		if d := doc(call); d != nil && d.DefaultView() != nil {
			return b.BindWindow(d.DefaultView())
		}
		return goja.Null()
	})
	b.method(proto, "getElementById", func(call goja.FunctionCall) goja.Value {
		if d := doc(call); d != nil {
			return elementOrNull(d.GetElementById(call.Argument(0).String()))
		}
		return goja.Null()
	})
	b.method(proto, "createElement", func(call goja.FunctionCall) goja.Value {
		d := doc(call)
		if d == nil {
			return goja.Undefined()
		}
		return b.BindElement(d.CreateElement(call.Argument(0).String()))
	})
	b.method(proto, "createTextNode", func(call goja.FunctionCall) goja.Value {
		d := doc(call)
		if d == nil {
			return goja.Undefined()
		}
		return b.BindNode(d.CreateTextNode(call.Argument(0).String()))
	})
	b.method(proto, "querySelector", func(call goja.FunctionCall) goja.Value {
		return elementOrNull(b.query.Find(doc(call), call.Argument(0).String()).Item(0))
	})
	b.method(proto, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.BindList(b.query.Find(doc(call), call.Argument(0).String()))
	})
	b.bindDocumentSugar(proto)
}

func (b *DOMBinder) bindWindowProperties(proto *goja.Object) {
	b.getter(proto, "document", func(call goja.FunctionCall) goja.Value {
		if w, ok := b.goTarget(call.This).(*dom.Window); ok && w.Document() != nil {
			return b.BindDocument(w.Document())
		}
		return goja.Null()
	})
	b.getter(proto, "window", func(call goja.FunctionCall) goja.Value {
		return call.This
	})
	b.bindWindowSugar(proto)
}

func (b *DOMBinder) method(obj *goja.Object, name string, fn func(goja.FunctionCall) goja.Value) {
	vm := b.runtime.vm
	if err := obj.DefineDataProperty(name, vm.ToValue(fn), goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE); err != nil {
		b.logger.Error("Failed to define method", zap.String("method", name), zap.Error(err))
	}
}

func (b *DOMBinder) getter(obj *goja.Object, name string, get func(goja.FunctionCall) goja.Value) {
	b.accessor(obj, name, get, nil)
}

func (b *DOMBinder) accessor(obj *goja.Object, name string, get, set func(goja.FunctionCall) goja.Value) {
	vm := b.runtime.vm
	var setter goja.Value
	if set != nil {
		setter = vm.ToValue(set)
	}
	if err := obj.DefineAccessorProperty(name, vm.ToValue(get), setter, goja.FLAG_TRUE, goja.FLAG_FALSE); err != nil {
		b.logger.Error("Failed to define accessor", zap.String("property", name), zap.Error(err))
	}
}
