package dom

// Text represents a text node in the document tree.
type Text Node

// NewTextNode creates a new detached text node with the given data.
// The node has no owner document.
func NewTextNode(data string) *Node {
	node := newNode(TextNode, "#text", nil)
	node.data = &data
	return node
}

// AsNode returns the underlying Node.
func (t *Text) AsNode() *Node {
	return (*Node)(t)
}

// NodeType returns TextNode (3).
func (t *Text) NodeType() NodeType {
	return TextNode
}

// NodeName returns "#text".
func (t *Text) NodeName() string {
	return "#text"
}

// Data returns the text content.
func (t *Text) Data() string {
	return t.AsNode().NodeValue()
}

// SetData sets the text content.
func (t *Text) SetData(data string) {
	t.AsNode().SetNodeValue(data)
}

// Length returns the length of the text content in bytes.
func (t *Text) Length() int {
	return len(t.Data())
}

// WholeText returns the text of this node and all adjacent text nodes.
func (t *Text) WholeText() string {
	first := t.AsNode()
	for first.prevSibling != nil && first.prevSibling.nodeType == TextNode {
		first = first.prevSibling
	}
	var result string
	for node := first; node != nil && node.nodeType == TextNode; node = node.nextSibling {
		result += node.NodeValue()
	}
	return result
}

// SplitText splits this text node at the given byte offset.
// Returns the new text node containing the text after the offset.
func (t *Text) SplitText(offset int) *Text {
	data := t.Data()
	if offset < 0 || offset > len(data) {
		return nil
	}

	var newNode *Node
	if doc := t.AsNode().ownerDoc; doc != nil {
		newNode = doc.CreateTextNode(data[offset:])
	} else {
		newNode = NewTextNode(data[offset:])
	}
	t.SetData(data[:offset])

	if parent := t.AsNode().parentNode; parent != nil {
		parent.InsertBefore(newNode, t.AsNode().nextSibling)
	}
	return (*Text)(newNode)
}

// CloneNode clones this text node.
func (t *Text) CloneNode() *Text {
	return (*Text)(t.AsNode().CloneNode(false))
}

// ReplaceWith atomically replaces this text node in its parent's child list
// with the given nodes and strings, in order. Strings become new text nodes.
// Implements the ChildNode.replaceWith() algorithm from the DOM spec.
func (t *Text) ReplaceWith(items ...interface{}) {
	parent := t.AsNode().parentNode
	if parent == nil {
		return
	}

	nodes := t.AsNode().convertItemsToNodes(items)
	ref := t.AsNode().nextSibling
	for ref != nil && containsNode(nodes, ref) {
		ref = ref.nextSibling
	}

	parent.RemoveChild(t.AsNode())
	for _, node := range nodes {
		parent.InsertBefore(node, ref)
	}
}

// Before inserts nodes and strings before this text node.
func (t *Text) Before(items ...interface{}) {
	parent := t.AsNode().parentNode
	if parent == nil {
		return
	}
	for _, node := range t.AsNode().convertItemsToNodes(items) {
		parent.InsertBefore(node, t.AsNode())
	}
}

// After inserts nodes and strings after this text node.
func (t *Text) After(items ...interface{}) {
	parent := t.AsNode().parentNode
	if parent == nil {
		return
	}
	ref := t.AsNode().nextSibling
	for _, node := range t.AsNode().convertItemsToNodes(items) {
		parent.InsertBefore(node, ref)
	}
}

// Remove removes this text node from its parent.
func (t *Text) Remove() {
	if parent := t.AsNode().parentNode; parent != nil {
		parent.RemoveChild(t.AsNode())
	}
}

func containsNode(nodes []*Node, target *Node) bool {
	for _, n := range nodes {
		if n == target {
			return true
		}
	}
	return false
}
