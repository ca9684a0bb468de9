// Package html bridges golang.org/x/net/html and the dom package: it parses
// HTML markup into a dom tree and serializes a dom tree back to markup.
package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/textsplice/dom"
)

// Parse parses HTML from r and returns the resulting document.
func Parse(r io.Reader) (*dom.Document, error) {
	netDoc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := dom.NewDocument()
	convertTree(netDoc, doc.AsNode(), doc)
	return doc, nil
}

// ParseString parses HTML from a string and returns the resulting document.
func ParseString(markup string) (*dom.Document, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFragment parses an HTML fragment in the context of the given element
// and returns the parsed nodes. A nil context behaves like a <div> context.
func ParseFragment(fragment string, context *dom.Element) ([]*dom.Node, error) {
	contextTag := "div"
	if context != nil {
		contextTag = context.LocalName()
	}
	contextNode := &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}

	netNodes, err := html.ParseFragment(strings.NewReader(fragment), contextNode)
	if err != nil {
		return nil, err
	}

	doc := dom.NewDocument()
	holder := doc.CreateDocumentFragment()
	for _, nn := range netNodes {
		wrapper := &html.Node{Type: html.DocumentNode}
		wrapper.AppendChild(nn)
		convertTree(wrapper, holder.AsNode(), doc)
	}
	return holder.AsNode().ChildNodes(), nil
}

// convertTree converts an html.Node subtree into dom nodes under parent.
func convertTree(src *html.Node, parent *dom.Node, doc *dom.Document) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		var node *dom.Node

		switch c.Type {
		case html.TextNode:
			node = doc.CreateTextNode(c.Data)

		case html.ElementNode:
			el := doc.CreateElement(c.Data)
			if el == nil {
				continue
			}
			for _, attr := range c.Attr {
				el.SetAttribute(attr.Key, attr.Val)
			}
			node = el.AsNode()

		case html.CommentNode:
			node = doc.CreateComment(c.Data)

		case html.DoctypeNode:
			node = doc.CreateDocumentType(c.Data)

		case html.DocumentNode:
			convertTree(c, parent, doc)
			continue

		default:
			continue
		}

		parent.AppendChild(node)
		if c.Type == html.ElementNode {
			convertTree(c, node, doc)
		}
	}
}

// Render serializes a dom node (and its descendants) as HTML to w.
func Render(w io.Writer, n *dom.Node) error {
	_, err := io.WriteString(w, RenderString(n))
	return err
}

// RenderString serializes a dom node (and its descendants) as HTML.
func RenderString(n *dom.Node) string {
	var sb strings.Builder
	renderNode(&sb, n)
	return sb.String()
}

func renderNode(sb *strings.Builder, n *dom.Node) {
	switch n.NodeType() {
	case dom.DocumentNode, dom.DocumentFragmentNode:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			renderNode(sb, c)
		}
	case dom.DocumentTypeNode:
		sb.WriteString("<!DOCTYPE ")
		sb.WriteString(n.NodeName())
		sb.WriteString(">")
	case dom.ElementNode:
		sb.WriteString(n.AsElement().OuterHTML())
	case dom.TextNode:
		sb.WriteString(html.EscapeString(n.NodeValue()))
	case dom.CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.NodeValue())
		sb.WriteString("-->")
	}
}
