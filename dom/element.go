package dom

import (
	"strings"
)

// Element represents an element in the DOM tree.
type Element Node

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode.
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// NodeName returns the upper-case tag name.
func (e *Element) NodeName() string {
	return e.AsNode().nodeName
}

// TagName returns the upper-case tag name.
func (e *Element) TagName() string {
	return e.AsNode().elementData.tagName
}

// LocalName returns the lower-case local name.
func (e *Element) LocalName() string {
	return e.AsNode().elementData.localName
}

// Id returns the value of the id attribute.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the id attribute.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the value of the class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the class attribute.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns the live token list backed by the class attribute.
func (e *Element) ClassList() *DOMTokenList {
	data := e.AsNode().elementData
	if data.classList == nil {
		data.classList = newDOMTokenList(e, "class")
	}
	return data.classList
}

// Attributes returns a copy of the element's attributes in source order.
func (e *Element) Attributes() []Attribute {
	return append([]Attribute(nil), e.AsNode().elementData.attributes...)
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	name = strings.ToLower(name)
	for _, attr := range e.AsNode().elementData.attributes {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}

// HasAttribute reports whether the named attribute is present.
func (e *Element) HasAttribute(name string) bool {
	name = strings.ToLower(name)
	for _, attr := range e.AsNode().elementData.attributes {
		if attr.Name == name {
			return true
		}
	}
	return false
}

// SetAttribute sets an attribute value, creating it if it doesn't exist.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	data := e.AsNode().elementData
	for i, attr := range data.attributes {
		if attr.Name == name {
			data.attributes[i].Value = value
			return
		}
	}
	data.attributes = append(data.attributes, Attribute{Name: name, Value: value})
}

// RemoveAttribute removes the named attribute.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	data := e.AsNode().elementData
	for i, attr := range data.attributes {
		if attr.Name == name {
			data.attributes = append(data.attributes[:i], data.attributes[i+1:]...)
			return
		}
	}
}

// ParentElement returns the parent element, or nil.
func (e *Element) ParentElement() *Element {
	return e.AsNode().ParentElement()
}

// Children returns the element children in tree order.
func (e *Element) Children() []*Element {
	return elementChildren(e.AsNode())
}

func elementChildren(n *Node) []*Element {
	var out []*Element
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			out = append(out, (*Element)(c))
		}
	}
	return out
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	return len(e.Children())
}

// FirstElementChild returns the first element child.
func (e *Element) FirstElementChild() *Element {
	for c := e.AsNode().firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// LastElementChild returns the last element child.
func (e *Element) LastElementChild() *Element {
	for c := e.AsNode().lastChild; c != nil; c = c.prevSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling that is an element.
func (e *Element) PreviousElementSibling() *Element {
	for s := e.AsNode().prevSibling; s != nil; s = s.prevSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling that is an element.
func (e *Element) NextElementSibling() *Element {
	for s := e.AsNode().nextSibling; s != nil; s = s.nextSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// Index returns the position of the element among its parent's element
// children, or -1 when detached.
func (e *Element) Index() int {
	parent := e.AsNode().parentNode
	if parent == nil {
		return -1
	}
	for i, child := range elementChildren(parent) {
		if child == e {
			return i
		}
	}
	return -1
}

// Parents returns the ancestor elements, nearest first.
func (e *Element) Parents() []*Element {
	var parents []*Element
	for p := e.ParentElement(); p != nil; p = p.ParentElement() {
		parents = append(parents, p)
	}
	return parents
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	n := e.AsNode()
	if n.parentNode != nil {
		n.parentNode.removeChildInternal(n)
	}
}

// TextContent returns the text of the element's descendants.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the element's children with a text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// AppendChild appends child and returns it.
func (e *Element) AppendChild(child *Node) *Node {
	return e.AsNode().AppendChild(child)
}

// AddEventListener registers l on the element.
func (e *Element) AddEventListener(eventType string, l EventListener, opts ListenerOptions) {
	e.AsNode().AddEventListener(eventType, l, opts)
}

// RemoveEventListener unregisters l from the element.
func (e *Element) RemoveEventListener(eventType string, l EventListener, opts ListenerOptions) {
	e.AsNode().RemoveEventListener(eventType, l, opts)
}

// DispatchEvent dispatches e with the element as target.
func (e *Element) DispatchEvent(ev *Event) bool {
	return e.AsNode().DispatchEvent(ev)
}

// AttachEvent is the legacy registration primitive.
func (e *Element) AttachEvent(name string, l EventListener) bool {
	return e.AsNode().AttachEvent(name, l)
}

// DetachEvent is the legacy removal primitive.
func (e *Element) DetachEvent(name string, l EventListener) {
	e.AsNode().DetachEvent(name, l)
}

func (e *Element) eventStore() *listenerStore {
	return e.AsNode().eventStore()
}

func (e *Element) parentTarget() EventTarget {
	return e.AsNode().parentTarget()
}
