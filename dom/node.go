package dom

import (
	"strings"
)

// Node represents a node in the document tree. It is the base type from which
// Document, Element, Text, and the other node views are derived.
type Node struct {
	nodeType NodeType
	nodeName string
	ownerDoc *Document

	parentNode  *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// data holds the character payload of text and comment nodes, and the
	// doctype name of DocumentType nodes. Nil for other node types.
	data *string

	// elementData is non-nil only for Element nodes.
	elementData *elementData
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName string
	tagName   string
	attrs     []Attribute

	// listeners are registered behavior, not document state; CloneNode
	// never carries them over.
	listeners map[string][]EventListener
}

// Attribute is a single name/value attribute of an element.
type Attribute struct {
	Name  string
	Value string
}

// newNode creates a new node with the given type and name.
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

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text".
// For comments, this is "#comment".
// For documents, this is "#document".
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the value of the node.
// For text and comment nodes, this is the character content.
// For other nodes, this is the empty string.
func (n *Node) NodeValue() string {
	if n.data != nil && (n.nodeType == TextNode || n.nodeType == CommentNode) {
		return *n.data
	}
	return ""
}

// SetNodeValue sets the value of the node.
// This only has an effect on text and comment nodes.
func (n *Node) SetNodeValue(value string) {
	switch n.nodeType {
	case TextNode, CommentNode:
		n.data = &value
	}
}

// OwnerDocument returns the Document that owns this node.
// For Document nodes, this returns nil.
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

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node, or nil if this is the first child.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node, or nil if this is the last child.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes returns a snapshot slice of the current child nodes.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return children
}

// AsElement returns the Element view of this node, or nil if the node is not
// an element.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

// AsText returns the Text view of this node, or nil if the node is not a
// text node.
func (n *Node) AsText() *Text {
	if n == nil || n.nodeType != TextNode {
		return nil
	}
	return (*Text)(n)
}

// AsDocument returns the Document view of this node, or nil if the node is
// not a document.
func (n *Node) AsDocument() *Document {
	if n == nil || n.nodeType != DocumentNode {
		return nil
	}
	return (*Document)(n)
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return ""
	case TextNode, CommentNode:
		return n.NodeValue()
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.NodeValue())
		case ElementNode, DocumentFragmentNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements and document fragments, this replaces all children with a
// single text node.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		// Do nothing per the spec
		return
	case TextNode, CommentNode:
		n.SetNodeValue(value)
	default:
		for n.firstChild != nil {
			n.RemoveChild(n.firstChild)
		}
		if value != "" {
			n.AppendChild(n.owner().CreateTextNode(value))
		}
	}
}

// owner returns the document used to create derived nodes: the owning
// document, or the node itself when it is a document.
func (n *Node) owner() *Document {
	if n.nodeType == DocumentNode {
		return (*Document)(n)
	}
	return n.ownerDoc
}

// AppendChild adds a node to the end of the list of children of this node.
// For the error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of the list of children of this
// node. Returns an error if the operation violates tree constraints.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
// For the error-returning version, use InsertBeforeWithError.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
// Returns an error if the operation violates tree constraints.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	return n.insertBefore(newChild, refChild), nil
}

// validatePreInsertion implements the pre-insertion checks from the DOM spec,
// reduced to the constraints this tree can actually violate.
func (n *Node) validatePreInsertion(node, child *Node) error {
	if !n.canHaveChildren() {
		return ErrHierarchyRequest("The operation would yield an incorrect node tree.")
	}
	if n.isInclusiveAncestor(node) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && child.parentNode != n {
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	if node == nil || node.nodeType == DocumentNode {
		return ErrHierarchyRequest("The operation would yield an incorrect node tree.")
	}
	if node.nodeType == TextNode && n.nodeType == DocumentNode {
		return ErrHierarchyRequest("Cannot insert Text node as a direct child of Document.")
	}
	return nil
}

// canHaveChildren returns true if this node can have child nodes.
func (n *Node) canHaveChildren() bool {
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
		return true
	default:
		return false
	}
}

// isInclusiveAncestor returns true if node is this node or an ancestor of this node.
func (n *Node) isInclusiveAncestor(node *Node) bool {
	if node == nil {
		return false
	}
	for current := n; current != nil; current = current.parentNode {
		if current == node {
			return true
		}
	}
	return false
}

func (n *Node) insertBefore(newChild, refChild *Node) *Node {
	if newChild == nil {
		return nil
	}

	// A DocumentFragment is inserted by moving all of its children.
	if newChild.nodeType == DocumentFragmentNode {
		for _, child := range newChild.ChildNodes() {
			n.insertBefore(child, refChild)
		}
		return newChild
	}

	// Inserting a node before itself is a no-op.
	if newChild == refChild {
		return newChild
	}

	if newChild.parentNode != nil {
		newChild.parentNode.removeChildInternal(newChild)
	}

	newChild.parentNode = n

	if n.ownerDoc != nil && newChild.ownerDoc != n.ownerDoc {
		adoptNode(newChild, n.ownerDoc)
	} else if n.nodeType == DocumentNode {
		adoptNode(newChild, (*Document)(n))
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
	} else {
		newChild.prevSibling = refChild.prevSibling
		newChild.nextSibling = refChild
		if refChild.prevSibling != nil {
			refChild.prevSibling.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		refChild.prevSibling = newChild
	}

	return newChild
}

// adoptNode recursively sets the owner document for a node and its descendants.
func adoptNode(node *Node, doc *Document) {
	node.ownerDoc = doc
	for child := node.firstChild; child != nil; child = child.nextSibling {
		adoptNode(child, doc)
	}
}

// RemoveChild removes a child node from this node.
// For the error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node from this node.
// Returns an error if the child is not a child of this node.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrNotFound("The node to be removed is null.")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.removeChildInternal(child)
	return child, nil
}

// removeChildInternal unlinks a child from this node's children list without
// checking that it actually is one.
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

// ReplaceChild replaces a child node with a new node.
// For the error-returning version, use ReplaceChildWithError.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	result, _ := n.ReplaceChildWithError(newChild, oldChild)
	return result
}

// ReplaceChildWithError replaces a child node with a new node and returns the
// replaced child. Returns an error if the operation violates tree constraints.
func (n *Node) ReplaceChildWithError(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil {
		return nil, ErrNotFound("The node to be replaced is null.")
	}
	if oldChild.parentNode != n {
		return nil, ErrNotFound("The node to be replaced is not a child of this node.")
	}
	if err := n.validatePreInsertion(newChild, nil); err != nil {
		return nil, err
	}
	if newChild == oldChild {
		return oldChild, nil
	}

	referenceChild := oldChild.nextSibling
	if referenceChild == newChild {
		referenceChild = newChild.nextSibling
	}

	n.removeChildInternal(oldChild)
	n.insertBefore(newChild, referenceChild)
	return oldChild, nil
}

// CloneNode creates a copy of this node. If deep is true, all descendants are
// also cloned. Element clones carry attributes but never event listeners.
func (n *Node) CloneNode(deep bool) *Node {
	clone := n.shallowClone()
	if deep {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			clone.insertBefore(child.CloneNode(true), nil)
		}
	}
	return clone
}

func (n *Node) shallowClone() *Node {
	clone := newNode(n.nodeType, n.nodeName, n.ownerDoc)

	if n.data != nil {
		value := *n.data
		clone.data = &value
	}

	switch n.nodeType {
	case ElementNode:
		if n.elementData != nil {
			clone.elementData = &elementData{
				localName: n.elementData.localName,
				tagName:   n.elementData.tagName,
				attrs:     append([]Attribute(nil), n.elementData.attrs...),
			}
		}
	case DocumentNode:
		clone.ownerDoc = (*Document)(clone)
	}

	return clone
}

// Normalize merges adjacent text nodes and removes empty text nodes.
func (n *Node) Normalize() {
	var nodesToRemove []*Node

	for child := n.firstChild; child != nil; {
		next := child.nextSibling

		if child.nodeType == TextNode {
			if child.NodeValue() == "" {
				nodesToRemove = append(nodesToRemove, child)
			} else {
				for next != nil && next.nodeType == TextNode {
					child.SetNodeValue(child.NodeValue() + next.NodeValue())
					nodesToRemove = append(nodesToRemove, next)
					next = next.nextSibling
				}
			}
		} else if child.nodeType == ElementNode {
			child.Normalize()
		}

		child = next
	}

	for _, node := range nodesToRemove {
		n.RemoveChild(node)
	}
}

// Contains returns true if the given node is this node or a descendant of it.
func (n *Node) Contains(other *Node) bool {
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// IsSameNode returns true if this node is the same node as the given node.
func (n *Node) IsSameNode(other *Node) bool {
	return n == other
}

// IsEqualNode returns true if this node is structurally equal to the given
// node: same type, same type-specific properties, and pairwise equal children.
func (n *Node) IsEqualNode(other *Node) bool {
	if other == nil || n.nodeType != other.nodeType {
		return false
	}

	switch n.nodeType {
	case ElementNode:
		if !elementsEqual(n.elementData, other.elementData) {
			return false
		}
	case TextNode, CommentNode, DocumentTypeNode:
		a, b := "", ""
		if n.data != nil {
			a = *n.data
		}
		if other.data != nil {
			b = *other.data
		}
		if a != b {
			return false
		}
	}

	c1, c2 := n.firstChild, other.firstChild
	for c1 != nil && c2 != nil {
		if !c1.IsEqualNode(c2) {
			return false
		}
		c1, c2 = c1.nextSibling, c2.nextSibling
	}
	return c1 == nil && c2 == nil
}

// elementsEqual compares element data on local name and attributes.
// Attribute order is not significant.
func elementsEqual(e1, e2 *elementData) bool {
	if e1 == nil || e2 == nil {
		return e1 == e2
	}
	if e1.localName != e2.localName || len(e1.attrs) != len(e2.attrs) {
		return false
	}
	for _, a1 := range e1.attrs {
		found := false
		for _, a2 := range e2.attrs {
			if a1.Name == a2.Name && a1.Value == a2.Value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// convertItemsToNodes converts a mixed list of nodes and strings into nodes,
// turning each string into a new text node. This implements the "converting
// nodes into a node" step shared by ReplaceWith, Before, and After.
func (n *Node) convertItemsToNodes(items []interface{}) []*Node {
	doc := n.owner()
	nodes := make([]*Node, 0, len(items))
	for _, item := range items {
		var node *Node
		switch v := item.(type) {
		case *Node:
			node = v
		case *Element:
			node = v.AsNode()
		case *Text:
			node = v.AsNode()
		case string:
			if doc != nil {
				node = doc.CreateTextNode(v)
			} else {
				node = NewTextNode(v)
			}
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
