// Package dom is the host document model the event layer runs against: a
// node tree with elements, a document and a window, plus native and legacy
// event registration and capture/target/bubble dispatch.
package dom

// NodeType represents the type of a Node.
type NodeType uint16

const (
	// ElementNode represents an Element node.
	ElementNode NodeType = 1
	// TextNode represents a Text node.
	TextNode NodeType = 3
	// CommentNode represents a Comment node.
	CommentNode NodeType = 8
	// DocumentNode represents a Document node.
	DocumentNode NodeType = 9
	// DocumentTypeNode represents a DocumentType node.
	DocumentTypeNode NodeType = 10
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	case CommentNode:
		return "COMMENT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	case DocumentTypeNode:
		return "DOCUMENT_TYPE_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}
