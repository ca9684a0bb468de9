package splice

import (
	"regexp"
	"strings"
	"testing"

	"github.com/dlclark/regexp2"

	"github.com/chrisuehlinger/textsplice/dom"
)

// marker is a non-string payload used where tests need fragments that the
// engine must treat as opaque.
type marker struct{ id int }

func fragStrings(t *testing.T, frags []interface{}) []string {
	t.Helper()
	out := make([]string, len(frags))
	for i, f := range frags {
		s, ok := f.(string)
		if !ok {
			t.Fatalf("Fragment %d: expected string, got %T", i, f)
		}
		out[i] = s
	}
	return out
}

func TestSplitAndJoin_Literal(t *testing.T) {
	frags, err := SplitAndJoin("a,b,,c", ",", "|")
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}

	want := []string{"a", "|", "b", "|", "", "|", "c"}
	got := fragStrings(t, frags)
	if len(got) != len(want) {
		t.Fatalf("Expected %d fragments, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fragment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitAndJoin_NoMatch(t *testing.T) {
	frags, err := SplitAndJoin("hello", "z", "|")
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}
	if len(frags) != 1 {
		t.Fatalf("Expected the one-element no-op sequence, got %d fragments", len(frags))
	}
	if frags[0] != "hello" {
		t.Errorf("Expected original string, got %v", frags[0])
	}
}

func TestSplitAndJoin_EmptyLiteralNeverMatches(t *testing.T) {
	frags, err := SplitAndJoin("abc", "", "|")
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}
	if len(frags) != 1 || frags[0] != "abc" {
		t.Errorf("Expected no-op for empty literal, got %v", frags)
	}
}

func TestSplitAndJoin_Regexp(t *testing.T) {
	re := regexp2.MustCompile(`[a-z]+`, 0)
	frags, err := SplitAndJoin("xx77yyy", Regexp(re), strings.ToUpper)
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}

	want := []string{"", "XX", "77", "YYY", ""}
	got := fragStrings(t, frags)
	if len(got) != len(want) {
		t.Fatalf("Expected %d fragments, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fragment %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitAndJoin_OrderPreserved(t *testing.T) {
	m := &marker{}
	frags, err := SplitAndJoin("one two three", " ", m)
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}
	// Concatenating the string fragments in order must reconstruct the
	// unmatched text, in the original order.
	var rebuilt strings.Builder
	payloads := 0
	for _, f := range frags {
		if s, ok := f.(string); ok {
			rebuilt.WriteString(s)
		} else {
			payloads++
		}
	}
	if rebuilt.String() != "onetwothree" {
		t.Errorf("Expected 'onetwothree', got %q", rebuilt.String())
	}
	if payloads != 2 {
		t.Errorf("Expected 2 payloads, got %d", payloads)
	}
}

func TestSplitAndJoin_ZeroLengthMatch(t *testing.T) {
	re := regexp.MustCompile("x*")
	m := &marker{}
	frags, err := SplitAndJoin("ab", GoRegexp(re), m)
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}

	// Must terminate, and the string fragments must still reconstruct the
	// input.
	var rebuilt strings.Builder
	payloads := 0
	for _, f := range frags {
		if s, ok := f.(string); ok {
			rebuilt.WriteString(s)
		} else {
			payloads++
		}
	}
	if rebuilt.String() != "ab" {
		t.Errorf("Expected string fragments to reconstruct 'ab', got %q", rebuilt.String())
	}
	if payloads == 0 {
		t.Error("Expected at least one payload for zero-length matches")
	}
}

func TestSplitAndJoin_ReplacerReceivesMatch(t *testing.T) {
	var seen []Match
	replacer := func(m Match) interface{} {
		seen = append(seen, m)
		return m.Text
	}
	_, err := SplitAndJoin("a,b", ",", Replacer(replacer))
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(seen))
	}
	if seen[0].Text != "," || seen[0].Index != 1 || seen[0].Input != "a,b" {
		t.Errorf("Unexpected match %+v", seen[0])
	}
}

func TestSplitAndJoin_NodeTemplateClonedPerMatch(t *testing.T) {
	doc := dom.NewDocument()
	template := doc.CreateElement("mark")
	template.SetAttribute("class", "hit")

	frags, err := SplitAndJoin("x,y,z", ",", template)
	if err != nil {
		t.Fatalf("SplitAndJoin failed: %v", err)
	}
	if len(frags) != 5 {
		t.Fatalf("Expected 5 fragments, got %d", len(frags))
	}

	first, ok := frags[1].(*dom.Node)
	if !ok {
		t.Fatalf("Expected node payload, got %T", frags[1])
	}
	second, ok := frags[3].(*dom.Node)
	if !ok {
		t.Fatalf("Expected node payload, got %T", frags[3])
	}
	if first == second || first == template.AsNode() || second == template.AsNode() {
		t.Error("Expected each match to receive an independent clone")
	}

	first.AsElement().SetAttribute("class", "changed")
	if second.AsElement().GetAttribute("class") != "hit" {
		t.Error("Expected clone mutation not to leak into other clones")
	}
	if template.GetAttribute("class") != "hit" {
		t.Error("Expected clone mutation not to leak into the template")
	}
}

func TestSplitAndJoin_InvalidPattern(t *testing.T) {
	_, err := SplitAndJoin("x", 42, "y")
	if err == nil {
		t.Fatal("Expected error for a non-pattern value")
	}
	if !dom.IsError(err, "InvalidPatternError") {
		t.Errorf("Expected InvalidPatternError, got %v", err)
	}
}

func TestSplitByRules_NoChange(t *testing.T) {
	rules := []Rule{{Pattern: "z", Replace: "|"}}
	frags, err := SplitByRules("hello", rules)
	if err != nil {
		t.Fatalf("SplitByRules failed: %v", err)
	}
	if len(frags) != 1 || frags[0] != "hello" {
		t.Errorf("Expected the unchanged sequence, got %v", frags)
	}
}

func TestSplitByRules_StringPayloadsMerge(t *testing.T) {
	rules := []Rule{{Pattern: ",", Replace: "|"}}
	frags, err := SplitByRules("a,b,,c", rules)
	if err != nil {
		t.Fatalf("SplitByRules failed: %v", err)
	}
	// All fragments are strings, so canonicalization merges the whole
	// sequence into one.
	if len(frags) != 1 {
		t.Fatalf("Expected 1 canonical fragment, got %d: %v", len(frags), frags)
	}
	if frags[0] != "a|b||c" {
		t.Errorf("Expected 'a|b||c', got %v", frags[0])
	}
}

func TestSplitByRules_MinLength(t *testing.T) {
	rules := []Rule{{Pattern: "a", Replace: "X", MinLength: 5}}
	frags, err := SplitByRules("abc", rules)
	if err != nil {
		t.Fatalf("SplitByRules failed: %v", err)
	}
	if len(frags) != 1 || frags[0] != "abc" {
		t.Errorf("Expected a short fragment to be untouched, got %v", frags)
	}
}

func TestSplitByRules_MinLengthPerFragment(t *testing.T) {
	m := &marker{}
	rules := []Rule{
		{Pattern: ",", Replace: m},
		{Pattern: "h", Replace: "H", MinLength: 3},
	}
	frags, err := SplitByRules("hello,hi", rules)
	if err != nil {
		t.Fatalf("SplitByRules failed: %v", err)
	}

	// "hello" clears the length gate and is rewritten; "hi" does not.
	if len(frags) != 3 {
		t.Fatalf("Expected 3 fragments, got %d: %v", len(frags), frags)
	}
	if frags[0] != "Hello" {
		t.Errorf("Expected 'Hello', got %v", frags[0])
	}
	if frags[1] != m {
		t.Errorf("Expected marker payload, got %v", frags[1])
	}
	if frags[2] != "hi" {
		t.Errorf("Expected 'hi', got %v", frags[2])
	}
}

func TestSplitByRules_PayloadsOpaque(t *testing.T) {
	doc := dom.NewDocument()
	template := doc.CreateElement("b")
	rules := []Rule{
		{Pattern: "a", Replace: template},
		{Pattern: "b", Replace: "B"},
	}
	frags, err := SplitByRules("ab", rules)
	if err != nil {
		t.Fatalf("SplitByRules failed: %v", err)
	}

	if len(frags) != 2 {
		t.Fatalf("Expected 2 fragments, got %d: %v", len(frags), frags)
	}
	node, ok := frags[0].(*dom.Node)
	if !ok {
		t.Fatalf("Expected node payload first, got %T", frags[0])
	}
	// The second rule matches "b" in the remaining text but must never
	// descend into the node payload, a <b> element, inserted by the first.
	if node.NodeName() != "B" {
		t.Errorf("Expected <b> payload, got %s", node.NodeName())
	}
	if frags[1] != "B" {
		t.Errorf("Expected 'B', got %v", frags[1])
	}
}

func TestSplitByRules_RuleOrder(t *testing.T) {
	rules := []Rule{
		{Pattern: "ab", Replace: &marker{id: 1}},
		{Pattern: "b", Replace: &marker{id: 2}},
	}
	frags, err := SplitByRules("ab", rules)
	if err != nil {
		t.Fatalf("SplitByRules failed: %v", err)
	}
	if len(frags) != 1 {
		t.Fatalf("Expected 1 fragment, got %d: %v", len(frags), frags)
	}
	m, ok := frags[0].(*marker)
	if !ok || m.id != 1 {
		t.Errorf("Expected the earlier rule to win, got %v", frags[0])
	}
}

func TestSplitByRules_InvalidPattern(t *testing.T) {
	rules := []Rule{{Pattern: 3.14, Replace: "x"}}
	_, err := SplitByRules("abc", rules)
	if !dom.IsError(err, "InvalidPatternError") {
		t.Errorf("Expected InvalidPatternError, got %v", err)
	}
}

func TestCanonicalize(t *testing.T) {
	m1, m2 := &marker{id: 1}, &marker{id: 2}
	got := Canonicalize([]interface{}{"", "a", "b", m1, "", m2, "c", ""})

	want := []interface{}{"ab", m1, "", m2, "c"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d fragments, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fragment %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestCanonicalize_Empty(t *testing.T) {
	if got := Canonicalize(nil); len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
	if got := Canonicalize([]interface{}{""}); len(got) != 0 {
		t.Errorf("Expected empty string to be dropped, got %v", got)
	}
}

func TestLiteral_FindNext(t *testing.T) {
	p := Literal(",")
	m, ok := p.FindNext("a,b,c", 2)
	if !ok {
		t.Fatal("Expected a match")
	}
	if m.Index != 3 || m.Text != "," {
		t.Errorf("Expected match ',' at 3, got %q at %d", m.Text, m.Index)
	}
	if _, ok := p.FindNext("a,b,c", 4); ok {
		t.Error("Expected no match past the last separator")
	}
}

func TestRegexp_Groups(t *testing.T) {
	re := regexp2.MustCompile(`(a)|(b)`, 0)
	m, ok := Regexp(re).FindNext("b", 0)
	if !ok {
		t.Fatal("Expected a match")
	}
	if len(m.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(m.Groups))
	}
	if m.Groups[0].Matched {
		t.Error("Expected the first alternation branch to be unmatched")
	}
	if !m.Groups[1].Matched || m.Groups[1].Value != "b" {
		t.Errorf("Expected second group 'b', got %+v", m.Groups[1])
	}
}

func TestRegexp_MultibyteOffsets(t *testing.T) {
	s := "héllo world"
	m, ok := Regexp(regexp2.MustCompile(`world`, 0)).FindNext(s, 0)
	if !ok {
		t.Fatal("Expected a match")
	}
	if m.Index != 7 {
		t.Errorf("Expected byte offset 7, got %d", m.Index)
	}
	if s[m.Index:m.Index+len(m.Text)] != "world" {
		t.Error("Expected the index to address the match in bytes")
	}
}

func TestCompilePattern(t *testing.T) {
	p, err := CompilePattern(`\d+`)
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}
	m, ok := p.FindNext("abc123", 0)
	if !ok || m.Text != "123" || m.Index != 3 {
		t.Errorf("Expected '123' at 3, got %+v", m)
	}

	if _, err := CompilePattern("("); err == nil {
		t.Error("Expected error for an invalid expression")
	}
}

func TestGoRegexp_Groups(t *testing.T) {
	re := regexp.MustCompile(`(\d+)-(\d+)`)
	m, ok := GoRegexp(re).FindNext("pages 10-20", 0)
	if !ok {
		t.Fatal("Expected a match")
	}
	if m.Text != "10-20" || m.Index != 6 {
		t.Errorf("Expected '10-20' at 6, got %q at %d", m.Text, m.Index)
	}
	if len(m.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(m.Groups))
	}
	if m.Groups[0].Value != "10" || m.Groups[1].Value != "20" {
		t.Errorf("Unexpected groups %+v", m.Groups)
	}
}
