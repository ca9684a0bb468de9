package dom

import (
	"strings"
)

// Document represents an HTML document.
type Document Node

// DocumentFragment represents a minimal document tree fragment.
type DocumentFragment Node

// NewDocument creates a new empty Document.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode (9).
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

// Doctype returns the DocumentType node, or nil if there is none.
func (d *Document) Doctype() *Node {
	for child := d.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == DocumentTypeNode {
			return child
		}
	}
	return nil
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.childOfRoot("HEAD")
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.childOfRoot("BODY")
}

func (d *Document) childOfRoot(tagName string) *Element {
	docEl := d.DocumentElement()
	if docEl == nil {
		return nil
	}
	for child := docEl.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			el := (*Element)(child)
			if strings.EqualFold(el.TagName(), tagName) {
				return el
			}
		}
	}
	return nil
}

// CreateElement creates a new element with the given tag name.
// This method ignores errors for convenience. Use CreateElementWithError for
// proper error handling.
func (d *Document) CreateElement(tagName string) *Element {
	el, _ := d.CreateElementWithError(tagName)
	return el
}

// CreateElementWithError creates a new element with the given tag name.
// Returns an InvalidCharacterError if the tag name is not a valid name.
// Tag names are lowercased for storage and uppercased for TagName, as for
// an HTML document.
func (d *Document) CreateElementWithError(tagName string) (*Element, error) {
	if !isValidName(tagName) {
		return nil, ErrInvalidCharacter("The string contains invalid characters.")
	}

	localName := strings.ToLower(tagName)
	resultTagName := strings.ToUpper(tagName)

	node := newNode(ElementNode, resultTagName, d)
	node.elementData = &elementData{
		localName: localName,
		tagName:   resultTagName,
	}
	return (*Element)(node), nil
}

// isValidName reports whether the string is acceptable as an element name: a
// letter followed by letters, digits, or the -_. punctuation.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// CreateTextNode creates a new text node with the given data.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.data = &data
	return node
}

// CreateComment creates a new comment node with the given data.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.data = &data
	return node
}

// CreateDocumentType creates a new DocumentType node with the given name.
func (d *Document) CreateDocumentType(name string) *Node {
	node := newNode(DocumentTypeNode, name, d)
	node.data = &name
	return node
}

// CreateDocumentFragment creates a new empty DocumentFragment.
func (d *Document) CreateDocumentFragment() *DocumentFragment {
	return (*DocumentFragment)(newNode(DocumentFragmentNode, "#document-fragment", d))
}

// AsNode returns the underlying Node.
func (f *DocumentFragment) AsNode() *Node {
	return (*Node)(f)
}

// GetElementById returns the first element with the given id, in document
// order, or nil if none exists.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	return findElementById(d.AsNode(), id)
}

func findElementById(node *Node, id string) *Element {
	for child := node.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			el := (*Element)(child)
			if el.Id() == id {
				return el
			}
			if found := findElementById(child, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// QuerySelector returns the first element in the document matching the
// selector, or nil.
func (d *Document) QuerySelector(selector string) *Element {
	results := querySelectorAll(d.AsNode(), selector, true)
	if len(results) > 0 {
		return results[0]
	}
	return nil
}

// QuerySelectorAll returns all elements in the document matching the
// selector, in document order.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	return querySelectorAll(d.AsNode(), selector, false)
}
