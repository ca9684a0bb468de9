package walk

import (
	"testing"

	"github.com/chrisuehlinger/textsplice/dom"
)

// buildTree constructs:
//
//	<div>
//	  <span class="skip"><b>X</b></span>
//	  "Y"
//	  <p>"Z"</p>
//	</div>
func buildTree() (*dom.Document, *dom.Node) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")

	span := doc.CreateElement("span")
	span.SetAttribute("class", "skip")
	b := doc.CreateElement("b")
	b.AsNode().AppendChild(doc.CreateTextNode("X"))
	span.AsNode().AppendChild(b.AsNode())

	p := doc.CreateElement("p")
	p.AsNode().AppendChild(doc.CreateTextNode("Z"))

	div.AsNode().AppendChild(span.AsNode())
	div.AsNode().AppendChild(doc.CreateTextNode("Y"))
	div.AsNode().AppendChild(p.AsNode())

	return doc, div.AsNode()
}

func names(nodes []*dom.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		if n.NodeType() == dom.TextNode {
			out[i] = n.NodeValue()
		} else {
			out[i] = n.NodeName()
		}
	}
	return out
}

func TestCollect_PreOrder(t *testing.T) {
	_, root := buildTree()

	got := names(Collect(root, nil, nil))
	want := []string{"DIV", "SPAN", "B", "X", "Y", "P", "Z"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d nodes, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCollect_RejectPrunesSubtree(t *testing.T) {
	_, root := buildTree()

	got := names(Collect(root, nil, Selector(".skip")))
	want := []string{"DIV", "Y", "P", "Z"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d nodes, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCollect_AcceptDoesNotPruneDescent(t *testing.T) {
	_, root := buildTree()

	// Text accept never matches the span, but its descendant text must
	// still be visited.
	got := names(Collect(root, TextNodes, nil))
	want := []string{"X", "Y", "Z"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d text nodes, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCollect_NilRoot(t *testing.T) {
	if got := Collect(nil, nil, nil); got != nil {
		t.Errorf("Expected nil for nil root, got %v", got)
	}
}

func TestCollect_Snapshot(t *testing.T) {
	_, root := buildTree()

	texts := Collect(root, TextNodes, nil)
	if len(texts) != 3 {
		t.Fatalf("Expected 3 text nodes, got %d", len(texts))
	}

	// Detaching a node after the fact must not shrink the snapshot.
	texts[1].ParentNode().RemoveChild(texts[1])
	if len(texts) != 3 {
		t.Errorf("Expected snapshot to be unaffected by mutation, got %d", len(texts))
	}
	if texts[1].ParentNode() != nil {
		t.Error("Expected detached node to have no parent")
	}
}

func TestTags_CaseInsensitive(t *testing.T) {
	doc := dom.NewDocument()
	script := doc.CreateElement("SCRIPT")
	p := doc.CreateElement("p")

	filter := Tags("script")
	if !filter(script.AsNode()) {
		t.Error("Expected SCRIPT to match the script tag filter")
	}
	if filter(p.AsNode()) {
		t.Error("Expected p not to match the script tag filter")
	}
	if filter(doc.CreateTextNode("script")) {
		t.Error("Expected a text node never to match a tag filter")
	}
}

func TestTexts_DefaultRejectsScriptAndStyle(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")

	script := doc.CreateElement("script")
	script.AsNode().AppendChild(doc.CreateTextNode("var x = 1;"))
	style := doc.CreateElement("style")
	style.AsNode().AppendChild(doc.CreateTextNode("body { color: red }"))

	div.AsNode().AppendChild(doc.CreateTextNode("visible"))
	div.AsNode().AppendChild(script.AsNode())
	div.AsNode().AppendChild(style.AsNode())

	got := Texts(div.AsNode(), nil)
	if len(got) != 1 {
		t.Fatalf("Expected 1 text node, got %d", len(got))
	}
	if got[0].NodeValue() != "visible" {
		t.Errorf("Expected 'visible', got '%s'", got[0].NodeValue())
	}
}

func TestCoerce(t *testing.T) {
	doc := dom.NewDocument()
	em := doc.CreateElement("em")

	filter, err := Coerce("em")
	if err != nil {
		t.Fatalf("Coerce selector failed: %v", err)
	}
	if !filter(em.AsNode()) {
		t.Error("Expected selector filter to match em")
	}

	filter, err = Coerce([]string{"EM", "strong"})
	if err != nil {
		t.Fatalf("Coerce tag list failed: %v", err)
	}
	if !filter(em.AsNode()) {
		t.Error("Expected tag list filter to match em")
	}

	filter, err = Coerce(func(n *dom.Node) bool { return n.NodeType() == dom.TextNode })
	if err != nil {
		t.Fatalf("Coerce predicate failed: %v", err)
	}
	if filter(em.AsNode()) {
		t.Error("Expected text predicate not to match em")
	}
}

func TestCoerce_Invalid(t *testing.T) {
	cases := []interface{}{nil, 42, "", "   ", []string{}}
	for _, spec := range cases {
		_, err := Coerce(spec)
		if err == nil {
			t.Errorf("Expected error for spec %#v", spec)
			continue
		}
		if !dom.IsError(err, "InvalidFilterError") {
			t.Errorf("Expected InvalidFilterError for spec %#v, got %v", spec, err)
		}
	}
}

func TestCollectSpec(t *testing.T) {
	_, root := buildTree()

	got, err := CollectSpec(root, []string{"p"}, ".skip")
	if err != nil {
		t.Fatalf("CollectSpec failed: %v", err)
	}
	if len(got) != 1 || got[0].NodeName() != "P" {
		t.Errorf("Expected [P], got %v", names(got))
	}

	_, err = CollectSpec(root, 42, nil)
	if !dom.IsError(err, "InvalidFilterError") {
		t.Errorf("Expected InvalidFilterError, got %v", err)
	}
}
