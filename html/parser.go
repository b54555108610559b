// Package html builds dom trees from markup using golang.org/x/net/html as
// the underlying parser implementation.
package html

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/domsugar/dom"
)

// Parse parses an HTML document from a string.
func Parse(htmlContent string) (*dom.Document, error) {
	return ParseReader(strings.NewReader(htmlContent))
}

// ParseReader parses an HTML document from r. The returned document is in
// the "loading" ready state; the caller decides when it becomes ready.
func ParseReader(r io.Reader) (*dom.Document, error) {
	netNode, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	doc := dom.NewDocument()
	for c := netNode.FirstChild; c != nil; c = c.NextSibling {
		if child := convertNode(c, doc); child != nil {
			doc.AppendChild(child)
		}
	}
	return doc, nil
}

// ParseFragment parses markup as the children of context, which defaults to
// a body element. The nodes are owned by doc and detached.
func ParseFragment(doc *dom.Document, fragment string, context *dom.Element) ([]*dom.Node, error) {
	contextNode := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	if context != nil {
		contextNode = &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Lookup([]byte(context.LocalName())),
			Data:     context.LocalName(),
		}
	}
	netNodes, err := html.ParseFragment(strings.NewReader(fragment), contextNode)
	if err != nil {
		return nil, errors.Wrap(err, "parse html fragment")
	}
	var nodes []*dom.Node
	for _, nn := range netNodes {
		if n := convertNode(nn, doc); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// convertNode converts a golang.org/x/net/html node and its subtree.
// Node kinds the dom package does not model yield nil.
func convertNode(n *html.Node, doc *dom.Document) *dom.Node {
	var node *dom.Node
	switch n.Type {
	case html.ElementNode:
		el := doc.CreateElement(n.Data)
		for _, attr := range n.Attr {
			key := attr.Key
			if attr.Namespace != "" {
				key = attr.Namespace + ":" + key
			}
			el.SetAttribute(key, attr.Val)
		}
		node = el.AsNode()
	case html.TextNode:
		return doc.CreateTextNode(n.Data)
	case html.CommentNode:
		return doc.CreateComment(n.Data)
	case html.DoctypeNode:
		return doc.CreateDocumentType(n.Data)
	default:
		return nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertNode(c, doc); child != nil {
			node.AppendChild(child)
		}
	}
	return node
}
