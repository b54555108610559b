package dom

import (
	"strings"
)

// Document represents the entire HTML document.
type Document Node

// Document ready states.
const (
	ReadyStateLoading     = "loading"
	ReadyStateInteractive = "interactive"
	ReadyStateComplete    = "complete"
)

// NewDocument creates a new empty HTML Document in the "loading" state.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{readyState: ReadyStateLoading}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode.
func (d *Document) NodeType() NodeType {
	return DocumentNode
}

// NodeName returns "#document".
func (d *Document) NodeName() string {
	return "#document"
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	for child := d.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

func (d *Document) rootChild(localName string) *Element {
	docEl := d.DocumentElement()
	if docEl == nil {
		return nil
	}
	for _, child := range docEl.Children() {
		if strings.EqualFold(child.LocalName(), localName) {
			return child
		}
	}
	return nil
}

// CreateElement creates an element owned by this document.
func (d *Document) CreateElement(tagName string) *Element {
	localName := strings.ToLower(tagName)
	node := newNode(ElementNode, strings.ToUpper(localName), d)
	node.elementData = &elementData{
		localName: localName,
		tagName:   strings.ToUpper(localName),
	}
	return (*Element)(node)
}

// CreateTextNode creates a text node owned by this document.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.data = data
	return node
}

// CreateComment creates a comment node owned by this document.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.data = data
	return node
}

// CreateDocumentType creates a doctype node owned by this document.
func (d *Document) CreateDocumentType(name string) *Node {
	return newNode(DocumentTypeNode, name, d)
}

// AppendChild appends child to the document.
func (d *Document) AppendChild(child *Node) *Node {
	return d.AsNode().AppendChild(child)
}

// GetElementById returns the first element in tree order with the given id.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	for _, n := range d.AsNode().Descendants() {
		if n.nodeType == ElementNode && (*Element)(n).Id() == id {
			return (*Element)(n)
		}
	}
	return nil
}

// ReadyState returns "loading", "interactive" or "complete".
func (d *Document) ReadyState() string {
	return d.AsNode().documentData.readyState
}

// SetReadyState advances the document's ready state. It fires
// readystatechange, DOMContentLoaded on the first move past "loading", and
// load on the window when the state reaches "complete".
func (d *Document) SetReadyState(state string) {
	data := d.AsNode().documentData
	prev := data.readyState
	if prev == state {
		return
	}
	data.readyState = state

	d.DispatchEvent(NewEvent("readystatechange", EventInit{}))
	if prev == ReadyStateLoading {
		d.DispatchEvent(NewEvent("DOMContentLoaded", EventInit{Bubbles: true}))
	}
	if state == ReadyStateComplete && data.window != nil {
		data.window.DispatchEvent(NewEvent("load", EventInit{}))
	}
}

// DefaultView returns the window attached to the document, if any.
func (d *Document) DefaultView() *Window {
	return d.AsNode().documentData.window
}

// AddEventListener registers l on the document.
func (d *Document) AddEventListener(eventType string, l EventListener, opts ListenerOptions) {
	d.AsNode().AddEventListener(eventType, l, opts)
}

// RemoveEventListener unregisters l from the document.
func (d *Document) RemoveEventListener(eventType string, l EventListener, opts ListenerOptions) {
	d.AsNode().RemoveEventListener(eventType, l, opts)
}

// DispatchEvent dispatches e with the document as target.
func (d *Document) DispatchEvent(e *Event) bool {
	return d.AsNode().DispatchEvent(e)
}

// AttachEvent is the legacy registration primitive.
func (d *Document) AttachEvent(name string, l EventListener) bool {
	return d.AsNode().AttachEvent(name, l)
}

// DetachEvent is the legacy removal primitive.
func (d *Document) DetachEvent(name string, l EventListener) {
	d.AsNode().DetachEvent(name, l)
}

func (d *Document) eventStore() *listenerStore {
	return d.AsNode().eventStore()
}

func (d *Document) parentTarget() EventTarget {
	return d.AsNode().parentTarget()
}
