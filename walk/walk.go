// Package walk provides filtered pre-order traversal over dom trees.
//
// A traversal takes two predicates: reject excludes a node and its entire
// subtree, while accept only decides whether a visited node appears in the
// output and never stops descent. Collect materializes the result as a
// snapshot of the tree at call time; callers that mutate the tree afterwards
// are responsible for nodes in the snapshot becoming detached.
package walk

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/textsplice/dom"
)

// Filter is a canonical node predicate. The loose accept/reject shapes a
// caller may supply (selector strings, tag lists) are resolved into a Filter
// once, at the API boundary, by Coerce.
type Filter func(n *dom.Node) bool

// All accepts every node. It is the default accept filter.
func All(n *dom.Node) bool {
	return true
}

// None rejects no node. It is the default reject filter.
func None(n *dom.Node) bool {
	return false
}

// TextNodes accepts text nodes only.
func TextNodes(n *dom.Node) bool {
	return n.NodeType() == dom.TextNode
}

// Elements accepts element nodes only.
func Elements(n *dom.Node) bool {
	return n.NodeType() == dom.ElementNode
}

// Selector returns a filter matching elements against a CSS selector.
// Non-element nodes never match.
func Selector(selector string) Filter {
	return func(n *dom.Node) bool {
		el := n.AsElement()
		return el != nil && el.Matches(selector)
	}
}

// Tags returns a filter matching elements whose tag name is in the list,
// case-insensitively. Non-element nodes never match.
func Tags(names ...string) Filter {
	lower := make(map[string]bool, len(names))
	for _, name := range names {
		lower[strings.ToLower(name)] = true
	}
	return func(n *dom.Node) bool {
		el := n.AsElement()
		return el != nil && lower[el.LocalName()]
	}
}

// DefaultReject excludes script and style subtrees, the contents of which are
// code rather than document text.
var DefaultReject = Tags("script", "style")

// Coerce resolves a loose filter specification into a Filter. It accepts a
// Filter, a func(*dom.Node) bool, a CSS selector string, or a []string tag
// list. Anything else fails with an InvalidFilterError.
func Coerce(spec interface{}) (Filter, error) {
	switch v := spec.(type) {
	case nil:
		return nil, dom.ErrInvalidFilter("filter specification is nil")
	case Filter:
		return v, nil
	case func(n *dom.Node) bool:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, dom.ErrInvalidFilter("selector is empty")
		}
		return Selector(v), nil
	case []string:
		if len(v) == 0 {
			return nil, dom.ErrInvalidFilter("tag list is empty")
		}
		return Tags(v...), nil
	}
	return nil, dom.ErrInvalidFilter(fmt.Sprintf("filter must be a predicate, selector string, or tag list, got %T", spec))
}

// Collect visits root and its descendants in pre-order (a node before its
// children, children left to right) and returns the nodes for which accept
// holds. A node for which reject holds is excluded together with its whole
// subtree; accept never prunes descent. A nil accept includes every node and
// a nil reject excludes none.
//
// The returned slice is a snapshot: it reflects the tree exactly as of the
// call, once per node, regardless of later mutation.
func Collect(root *dom.Node, accept, reject Filter) []*dom.Node {
	if root == nil {
		return nil
	}
	if accept == nil {
		accept = All
	}
	if reject == nil {
		reject = None
	}

	var out []*dom.Node

	// Explicit work-list rather than recursion, so arbitrarily deep trees
	// cannot exhaust the call stack.
	stack := []*dom.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if reject(n) {
			continue
		}
		if accept(n) {
			out = append(out, n)
		}
		for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
			stack = append(stack, c)
		}
	}
	return out
}

// CollectSpec is Collect with loosely typed accept/reject specifications,
// resolved through Coerce. A nil spec keeps the corresponding default.
func CollectSpec(root *dom.Node, acceptSpec, rejectSpec interface{}) ([]*dom.Node, error) {
	var accept, reject Filter
	var err error
	if acceptSpec != nil {
		if accept, err = Coerce(acceptSpec); err != nil {
			return nil, err
		}
	}
	if rejectSpec != nil {
		if reject, err = Coerce(rejectSpec); err != nil {
			return nil, err
		}
	}
	return Collect(root, accept, reject), nil
}

// Texts returns the text nodes under root in document order, excluding
// rejected subtrees. A nil reject applies DefaultReject.
func Texts(root *dom.Node, reject Filter) []*dom.Node {
	if reject == nil {
		reject = DefaultReject
	}
	return Collect(root, TextNodes, reject)
}
