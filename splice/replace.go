package splice

import (
	"fmt"
	"time"

	"github.com/chrisuehlinger/textsplice/dom"
	"github.com/chrisuehlinger/textsplice/walk"
)

// Wrapper post-processes the full fragment sequence of one text node before
// it is materialized into nodes. It is the caller's hook to decorate
// fragments with cross-fragment context (numbering, anchor wrapping) and to
// convert opaque payloads into node-like values; a payload that is still
// neither string nor node after wrapping is stringified into a text node.
type Wrapper func(frags []interface{}, source *dom.Text) []interface{}

// Callback is invoked after each text node has been considered, with the
// inserted node sequence (nil when nothing changed), the original node
// (detached when a mutation occurred), and whether a mutation occurred.
type Callback func(inserted []*dom.Node, original *dom.Text, mutated bool)

// ReplaceTextNode fragments the node's current text against the rules and,
// unless the result is a no-op, atomically replaces the node in its parent's
// child list with the materialized sequence. On a no-op the node is left
// untouched: no mutation, no detachment, external references stay valid.
// The inserted node sequence is returned, nil for a no-op.
func ReplaceTextNode(t *dom.Text, rules []Rule, wrap Wrapper, cb Callback) ([]*dom.Node, error) {
	data := t.Data()
	frags, err := SplitByRules(data, rules)
	if err != nil {
		return nil, err
	}
	if wrap != nil {
		frags = wrap(frags, t)
	}

	if isNoop(frags, data) {
		if cb != nil {
			cb(nil, t, false)
		}
		return nil, nil
	}

	nodes := materialize(frags, t)
	items := make([]interface{}, len(nodes))
	for i, n := range nodes {
		items[i] = n
	}
	t.ReplaceWith(items...)

	if cb != nil {
		cb(nodes, t, true)
	}
	return nodes, nil
}

// isNoop reports whether the fragment sequence is the untouched original: a
// single string fragment equal to the node's current text.
func isNoop(frags []interface{}, original string) bool {
	if len(frags) != 1 {
		return false
	}
	s, ok := frags[0].(string)
	return ok && s == original
}

// materialize converts fragments into concrete nodes: strings become new
// text nodes, node-like payloads are used as-is, and anything else is
// stringified into a text node.
func materialize(frags []interface{}, source *dom.Text) []*dom.Node {
	doc := source.AsNode().OwnerDocument()
	newText := func(s string) *dom.Node {
		if doc != nil {
			return doc.CreateTextNode(s)
		}
		return dom.NewTextNode(s)
	}

	nodes := make([]*dom.Node, 0, len(frags))
	for _, frag := range frags {
		switch v := frag.(type) {
		case string:
			nodes = append(nodes, newText(v))
		case *dom.Node:
			nodes = append(nodes, v)
		case *dom.Element:
			nodes = append(nodes, v.AsNode())
		case *dom.Text:
			nodes = append(nodes, v.AsNode())
		default:
			nodes = append(nodes, newText(fmt.Sprint(v)))
		}
	}
	return nodes
}

// Options configures ReplaceTexts and ReplaceTextsPaced.
type Options struct {
	// Reject prunes subtrees from the traversal. Nil applies
	// walk.DefaultReject (script and style contents).
	Reject walk.Filter

	// Wrapper, when set, post-processes each node's fragment sequence.
	Wrapper Wrapper

	// Callback, when set, is invoked once per visited text node.
	Callback Callback

	// GroupSize is the number of text nodes processed between yields in
	// paced mode. Zero or negative applies DefaultGroupSize.
	GroupSize int

	// Interval is the delay between groups in paced mode. Zero or
	// negative applies DefaultInterval.
	Interval time.Duration
}

// ReplaceTexts runs the rules over every text node under root in one
// uninterrupted pass and returns the number of nodes that were mutated.
// The traversal snapshot is taken up front; text nodes detached by the time
// they are reached are skipped. An error aborts the pass but leaves
// already-completed replacements committed.
func ReplaceTexts(root *dom.Node, rules []Rule, opts Options) (int, error) {
	nodes := walk.Texts(root, opts.Reject)
	mutated := 0
	for _, n := range nodes {
		t := n.AsText()
		if t == nil || n.ParentNode() == nil {
			continue
		}
		inserted, err := ReplaceTextNode(t, rules, opts.Wrapper, opts.Callback)
		if err != nil {
			return mutated, err
		}
		if inserted != nil {
			mutated++
		}
	}
	return mutated, nil
}
