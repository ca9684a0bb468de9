package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element represents an element in the document tree.
type Element Node

// EventListener is a callback registered on an element for a named event.
// Listeners are behavior, not document state: CloneNode never copies them.
type EventListener func(event interface{})

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode (1).
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// NodeName returns the tag name in uppercase.
func (e *Element) NodeName() string {
	return e.TagName()
}

// TagName returns the tag name in uppercase.
func (e *Element) TagName() string {
	if e.AsNode().elementData != nil {
		return e.AsNode().elementData.tagName
	}
	return strings.ToUpper(e.AsNode().nodeName)
}

// LocalName returns the local name of the element (lowercase).
func (e *Element) LocalName() string {
	if e.AsNode().elementData != nil {
		return e.AsNode().elementData.localName
	}
	return strings.ToLower(e.AsNode().nodeName)
}

// Id returns the id attribute value.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the id attribute value.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the class attribute value.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the class attribute value.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns the whitespace-separated class tokens.
func (e *Element) ClassList() []string {
	return strings.Fields(e.ClassName())
}

// HasClass returns true if the element's class attribute contains the token.
func (e *Element) HasClass(token string) bool {
	for _, c := range e.ClassList() {
		if c == token {
			return true
		}
	}
	return false
}

// Attributes returns a snapshot of the element's attributes in document order.
func (e *Element) Attributes() []Attribute {
	if e.AsNode().elementData == nil {
		return nil
	}
	return append([]Attribute(nil), e.AsNode().elementData.attrs...)
}

// GetAttribute returns the value of the attribute with the given name, or the
// empty string if the attribute is absent.
func (e *Element) GetAttribute(name string) string {
	if e.AsNode().elementData == nil {
		return ""
	}
	name = strings.ToLower(name)
	for _, attr := range e.AsNode().elementData.attrs {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}

// SetAttribute sets an attribute value, creating it if it doesn't exist.
func (e *Element) SetAttribute(name, value string) {
	if e.AsNode().elementData == nil {
		e.AsNode().elementData = &elementData{}
	}
	name = strings.ToLower(name)
	ed := e.AsNode().elementData
	for i, attr := range ed.attrs {
		if attr.Name == name {
			ed.attrs[i].Value = value
			return
		}
	}
	ed.attrs = append(ed.attrs, Attribute{Name: name, Value: value})
}

// HasAttribute returns true if the element has the given attribute.
func (e *Element) HasAttribute(name string) bool {
	if e.AsNode().elementData == nil {
		return false
	}
	name = strings.ToLower(name)
	for _, attr := range e.AsNode().elementData.attrs {
		if attr.Name == name {
			return true
		}
	}
	return false
}

// RemoveAttribute removes the attribute with the given name.
func (e *Element) RemoveAttribute(name string) {
	if e.AsNode().elementData == nil {
		return
	}
	name = strings.ToLower(name)
	ed := e.AsNode().elementData
	for i, attr := range ed.attrs {
		if attr.Name == name {
			ed.attrs = append(ed.attrs[:i], ed.attrs[i+1:]...)
			return
		}
	}
}

// AddEventListener registers a listener for the given event type.
func (e *Element) AddEventListener(eventType string, listener EventListener) {
	if e.AsNode().elementData == nil {
		e.AsNode().elementData = &elementData{}
	}
	ed := e.AsNode().elementData
	if ed.listeners == nil {
		ed.listeners = make(map[string][]EventListener)
	}
	eventType = strings.ToLower(eventType)
	ed.listeners[eventType] = append(ed.listeners[eventType], listener)
}

// RemoveEventListeners removes all listeners for the given event type.
func (e *Element) RemoveEventListeners(eventType string) {
	if e.AsNode().elementData == nil || e.AsNode().elementData.listeners == nil {
		return
	}
	delete(e.AsNode().elementData.listeners, strings.ToLower(eventType))
}

// EventListeners returns the listeners registered for the given event type.
func (e *Element) EventListeners(eventType string) []EventListener {
	if e.AsNode().elementData == nil || e.AsNode().elementData.listeners == nil {
		return nil
	}
	return e.AsNode().elementData.listeners[strings.ToLower(eventType)]
}

// DispatchEvent invokes every listener registered for the given event type,
// in registration order. There is no capture/bubble phase.
func (e *Element) DispatchEvent(eventType string, event interface{}) {
	for _, listener := range e.EventListeners(eventType) {
		listener(event)
	}
}

// TextContent returns the text content of the element and its descendants.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// FirstElementChild returns the first child that is an element, or nil.
func (e *Element) FirstElementChild() *Element {
	for c := e.AsNode().firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling that is an element, or nil.
func (e *Element) NextElementSibling() *Element {
	for s := e.AsNode().nextSibling; s != nil; s = s.nextSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// QuerySelector returns the first descendant element matching the selector,
// or nil if none matches.
func (e *Element) QuerySelector(selector string) *Element {
	results := querySelectorAll(e.AsNode(), selector, true)
	if len(results) > 0 {
		return results[0]
	}
	return nil
}

// QuerySelectorAll returns all descendant elements matching the selector, in
// document order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	return querySelectorAll(e.AsNode(), selector, false)
}

func querySelectorAll(root *Node, selector string, firstOnly bool) []*Element {
	var results []*Element
	var visit func(n *Node)
	visit = func(n *Node) {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			if child.nodeType == ElementNode {
				el := (*Element)(child)
				if el.Matches(selector) {
					results = append(results, el)
					if firstOnly {
						return
					}
				}
				visit(child)
				if firstOnly && len(results) > 0 {
					return
				}
			}
		}
	}
	visit(root)
	return results
}

// Closest returns the closest ancestor element (or self) matching the selector.
func (e *Element) Closest(selector string) *Element {
	current := e
	for current != nil {
		if current.Matches(selector) {
			return current
		}
		parent := current.AsNode().parentNode
		if parent == nil || parent.nodeType != ElementNode {
			break
		}
		current = (*Element)(parent)
	}
	return nil
}

// Matches returns true if the element matches the given selector.
// The supported grammar covers the common simple cases: tag, #id, .class,
// [attr], [attr=value] with the ~= |= ^= $= *= operators, compound selectors,
// the universal selector, and comma-separated lists.
func (e *Element) Matches(selector string) bool {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return false
	}

	if strings.Contains(selector, ",") {
		for _, part := range strings.Split(selector, ",") {
			if e.matchesCompoundSelector(strings.TrimSpace(part)) {
				return true
			}
		}
		return false
	}

	return e.matchesCompoundSelector(selector)
}

func (e *Element) matchesCompoundSelector(selector string) bool {
	if selector == "*" {
		return true
	}

	current := selector
	tagName := "*"

	idx := strings.IndexAny(current, ".#[")
	if idx > 0 {
		tagName = current[:idx]
		current = current[idx:]
	} else if idx < 0 {
		tagName = current
		current = ""
	}

	if tagName != "*" && !strings.EqualFold(e.TagName(), tagName) {
		return false
	}

	for len(current) > 0 {
		switch current[0] {
		case '.':
			token, rest := splitSimpleSelector(current[1:])
			current = rest
			if !e.HasClass(token) {
				return false
			}
		case '#':
			token, rest := splitSimpleSelector(current[1:])
			current = rest
			if e.Id() != token {
				return false
			}
		case '[':
			end := strings.Index(current, "]")
			if end == -1 {
				return false
			}
			attrSelector := current[1:end]
			current = current[end+1:]
			if !e.matchesAttributeSelector(attrSelector) {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// splitSimpleSelector cuts a class or id token off the front of a compound
// selector tail, returning the token and the remainder (starting at the next
// '.', '#', or '[').
func splitSimpleSelector(s string) (token, rest string) {
	if end := strings.IndexAny(s, ".#["); end != -1 {
		return s[:end], s[end:]
	}
	return s, ""
}

func (e *Element) matchesAttributeSelector(selector string) bool {
	if !strings.Contains(selector, "=") {
		return e.HasAttribute(selector)
	}

	var attrName, op, value string
	for i, r := range selector {
		if r == '=' {
			attrName = selector[:i]
			op = "="
			value = selector[i+1:]
			break
		}
		if (r == '~' || r == '|' || r == '^' || r == '$' || r == '*') &&
			i+1 < len(selector) && selector[i+1] == '=' {
			attrName = selector[:i]
			op = selector[i : i+2]
			value = selector[i+2:]
			break
		}
	}
	if attrName == "" {
		return false
	}
	value = strings.Trim(value, "\"'")

	if !e.HasAttribute(attrName) {
		return false
	}
	attrValue := e.GetAttribute(attrName)

	switch op {
	case "=":
		return attrValue == value
	case "~=":
		for _, word := range strings.Fields(attrValue) {
			if word == value {
				return true
			}
		}
		return false
	case "|=":
		return attrValue == value || strings.HasPrefix(attrValue, value+"-")
	case "^=":
		return strings.HasPrefix(attrValue, value)
	case "$=":
		return strings.HasSuffix(attrValue, value)
	case "*=":
		return strings.Contains(attrValue, value)
	}
	return false
}

// InnerHTML returns the serialized HTML content of the element.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		serializeNode(child, &sb)
	}
	return sb.String()
}

// OuterHTML returns the serialized HTML of the element and its content.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	serializeNode(e.AsNode(), &sb)
	return sb.String()
}

func serializeNode(n *Node, sb *strings.Builder) {
	switch n.nodeType {
	case TextNode:
		if parent := n.ParentElement(); parent != nil && isRawTextElement(parent.LocalName()) {
			sb.WriteString(n.NodeValue())
		} else {
			sb.WriteString(html.EscapeString(n.NodeValue()))
		}
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.NodeValue())
		sb.WriteString("-->")
	case DocumentTypeNode:
		sb.WriteString("<!DOCTYPE ")
		if n.data != nil {
			sb.WriteString(*n.data)
		}
		sb.WriteString(">")
	case ElementNode:
		el := (*Element)(n)
		tagName := el.LocalName()
		sb.WriteString("<")
		sb.WriteString(tagName)

		if n.elementData != nil {
			for _, attr := range n.elementData.attrs {
				sb.WriteString(" ")
				sb.WriteString(attr.Name)
				sb.WriteString("=\"")
				sb.WriteString(html.EscapeString(attr.Value))
				sb.WriteString("\"")
			}
		}
		sb.WriteString(">")

		if isVoidElement(tagName) {
			return
		}

		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}

		sb.WriteString("</")
		sb.WriteString(tagName)
		sb.WriteString(">")
	case DocumentNode, DocumentFragmentNode:
		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}
	}
}

func isVoidElement(tagName string) bool {
	switch tagName {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// isRawTextElement reports whether the element's text children are serialized
// without entity escaping.
func isRawTextElement(tagName string) bool {
	switch tagName {
	case "script", "style":
		return true
	}
	return false
}
