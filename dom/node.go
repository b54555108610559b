package dom

import (
	"strings"
)

// Node represents a node in the DOM tree. Element and Document share its
// storage through type conversion (see AsNode).
type Node struct {
	nodeType NodeType
	nodeName string
	ownerDoc *Document

	parentNode  *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Type-specific data (only one is set based on nodeType)
	elementData  *elementData
	data         string // text and comment content
	documentData *documentData

	listeners *listenerStore
}

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName  string
	tagName    string
	attributes []Attribute
	classList  *DOMTokenList
}

// documentData holds data specific to Document nodes.
type documentData struct {
	readyState string
	window     *Window
}

func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node: the upper-case tag name for
// elements, "#text", "#comment" or "#document" otherwise.
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the character data of text and comment nodes.
func (n *Node) NodeValue() string {
	switch n.nodeType {
	case TextNode, CommentNode:
		return n.data
	}
	return ""
}

// OwnerDocument returns the Document that owns this node, nil for documents.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent Element, or nil if the parent is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// FirstChild returns the first child node.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// ChildNodes returns a snapshot of the child nodes.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return children
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// IsConnected returns true if the node's root is a document.
func (n *Node) IsConnected() bool {
	return n.GetRootNode().nodeType == DocumentNode
}

// GetRootNode returns the topmost ancestor of this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// Contains returns true if other is an inclusive descendant of this node.
func (n *Node) Contains(other *Node) bool {
	for ; other != nil; other = other.parentNode {
		if other == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of this node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case TextNode, CommentNode:
		return n.data
	case DocumentNode:
		return ""
	}
	var sb strings.Builder
	n.collectTextContent(&sb)
	return sb.String()
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		switch c.nodeType {
		case TextNode:
			sb.WriteString(c.data)
		case ElementNode:
			c.collectTextContent(sb)
		}
	}
}

// SetTextContent replaces the children with a single text node, or sets the
// data of a text or comment node.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case TextNode, CommentNode:
		n.data = value
		return
	case DocumentNode:
		return
	}
	for n.firstChild != nil {
		n.removeChildInternal(n.firstChild)
	}
	if value != "" {
		text := newNode(TextNode, "#text", n.ownerDoc)
		text.data = value
		n.insertBefore(text, nil)
	}
}

// AppendChild adds a node to the end of the list of children of this node.
// For error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of the list of children of this node.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before a reference child node and
// reports hierarchy violations.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	return n.insertBefore(newChild, refChild), nil
}

// https://dom.spec.whatwg.org/#concept-node-pre-insert (reduced)
func (n *Node) validatePreInsertion(node, child *Node) error {
	if node == nil {
		return ErrHierarchyRequest("The node to be inserted is null.")
	}
	if n.nodeType != ElementNode && n.nodeType != DocumentNode {
		return ErrHierarchyRequest("This node type does not support children.")
	}
	if node.nodeType == DocumentNode {
		return ErrHierarchyRequest("A document cannot be inserted.")
	}
	if node.Contains(n) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && child.parentNode != n {
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	if n.nodeType == DocumentNode && node.nodeType == ElementNode && n.hasElementChildExcluding(node) {
		return ErrHierarchyRequest("Only one element on document allowed.")
	}
	return nil
}

func (n *Node) hasElementChildExcluding(exclude *Node) bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode && c != exclude {
			return true
		}
	}
	return false
}

func (n *Node) insertBefore(newChild, refChild *Node) *Node {
	if newChild == refChild {
		return newChild
	}
	if newChild.parentNode != nil {
		newChild.parentNode.removeChildInternal(newChild)
	}

	newChild.parentNode = n
	if n.nodeType == DocumentNode {
		adoptNode(newChild, (*Document)(n))
	} else if n.ownerDoc != nil && newChild.ownerDoc != n.ownerDoc {
		adoptNode(newChild, n.ownerDoc)
	}

	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
		return newChild
	}

	newChild.prevSibling = refChild.prevSibling
	newChild.nextSibling = refChild
	if refChild.prevSibling != nil {
		refChild.prevSibling.nextSibling = newChild
	} else {
		n.firstChild = newChild
	}
	refChild.prevSibling = newChild
	return newChild
}

func adoptNode(node *Node, doc *Document) {
	node.ownerDoc = doc
	for c := node.firstChild; c != nil; c = c.nextSibling {
		adoptNode(c, doc)
	}
}

// RemoveChild removes a child node from this node.
// For error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node and returns NotFoundError when
// child does not belong to this node.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil || child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.removeChildInternal(child)
	return child, nil
}

func (n *Node) removeChildInternal(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// Descendants returns every descendant in tree order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.firstChild; c != nil; c = c.nextSibling {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// AsEventTarget returns the most specific EventTarget view of the node:
// *Element for elements, *Document for documents and the node otherwise.
func (n *Node) AsEventTarget() EventTarget {
	switch n.nodeType {
	case ElementNode:
		return (*Element)(n)
	case DocumentNode:
		return (*Document)(n)
	}
	return n
}

func (n *Node) eventStore() *listenerStore {
	if n.listeners == nil {
		n.listeners = newListenerStore()
	}
	return n.listeners
}

// parentTarget is the next hop on the propagation path: the parent node, or
// the window once the document is reached.
func (n *Node) parentTarget() EventTarget {
	if n.parentNode != nil {
		return n.parentNode.AsEventTarget()
	}
	if n.nodeType == DocumentNode && n.documentData.window != nil {
		return n.documentData.window
	}
	return nil
}

// AddEventListener registers l for eventType on this node.
func (n *Node) AddEventListener(eventType string, l EventListener, opts ListenerOptions) {
	n.eventStore().add(eventType, l, opts)
}

// RemoveEventListener unregisters l for eventType and the capture flag in opts.
func (n *Node) RemoveEventListener(eventType string, l EventListener, opts ListenerOptions) {
	n.eventStore().remove(eventType, l, opts.Capture)
}

// DispatchEvent dispatches e with this node as target. It returns false if
// a listener canceled the event.
func (n *Node) DispatchEvent(e *Event) bool {
	return dispatch(n.AsEventTarget(), e)
}

// AttachEvent is the legacy registration primitive. name must carry the
// "on" prefix; the listener only sees the bubbling phase.
func (n *Node) AttachEvent(name string, l EventListener) bool {
	return n.eventStore().attach(name, l)
}

// DetachEvent is the legacy removal primitive.
func (n *Node) DetachEvent(name string, l EventListener) {
	n.eventStore().detach(name, l)
}
