package html

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/domsugar/dom"
)

// Render serializes n and its subtree as HTML.
func Render(w io.Writer, n *dom.Node) error {
	if n == nil {
		return errors.New("html: render nil node")
	}
	if err := html.Render(w, toHTML(n)); err != nil {
		return errors.Wrap(err, "html: render")
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(n *dom.Node) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// toHTML converts a dom subtree back into golang.org/x/net/html nodes.
func toHTML(n *dom.Node) *html.Node {
	var hn *html.Node
	switch n.NodeType() {
	case dom.DocumentNode:
		hn = &html.Node{Type: html.DocumentNode}
	case dom.ElementNode:
		el := n.AsEventTarget().(*dom.Element)
		name := el.LocalName()
		hn = &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(name))}
		for _, a := range el.Attributes() {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
	case dom.TextNode:
		return &html.Node{Type: html.TextNode, Data: n.NodeValue()}
	case dom.CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.NodeValue()}
	case dom.DocumentTypeNode:
		return &html.Node{Type: html.DoctypeNode, Data: n.NodeName()}
	default:
		return &html.Node{Type: html.TextNode}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		hn.AppendChild(toHTML(c))
	}
	return hn
}
