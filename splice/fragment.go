// Package splice fragments text-node content against ordered replacement
// rules and splices the materialized results back into a dom tree.
//
// The fragment engine turns one string plus a rule list into an ordered
// sequence of fragments: plain substrings interleaved with replacement
// payloads produced by the rules' replacers. The splice controller drives the
// engine over every qualifying text node of a subtree and atomically replaces
// each original text node in place, either in one synchronous pass or in
// paced groups that yield between batches so large documents don't monopolize
// the caller's thread.
//
// The tree is assumed to be confined to a single goroutine. Mutating it from
// elsewhere while a traversal snapshot is in flight invalidates the
// snapshot's unprocessed entries; the controller skips nodes it finds
// detached but does not otherwise guard against concurrent mutation.
package splice

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/chrisuehlinger/textsplice/dom"
)

// Rule pairs a pattern with a replacement. Rules are applied in list order;
// each rule re-fragments every string fragment produced so far, while payload
// fragments inserted by earlier rules are opaque and never re-matched.
type Rule struct {
	// Pattern is a literal string, a Pattern, a *regexp2.Regexp, or a
	// standard library *regexp.Regexp.
	Pattern interface{}

	// Replace determines the payload emitted for each match: a Replacer
	// function, a node template (deep-cloned per match), or any other
	// value used verbatim as a constant payload.
	Replace interface{}

	// MinLength, when positive, skips this rule for string fragments
	// shorter than MinLength runes.
	MinLength int
}

// Replacer computes the replacement payload for one match.
type Replacer func(m Match) interface{}

// coercePattern resolves the loose pattern shapes a Rule may carry into a
// Pattern, once, before any scanning runs.
func coercePattern(pattern interface{}) (Pattern, error) {
	switch p := pattern.(type) {
	case Pattern:
		return p, nil
	case string:
		return Literal(p), nil
	case *regexp2.Regexp:
		return Regexp(p), nil
	case *regexp.Regexp:
		return GoRegexp(p), nil
	}
	return nil, dom.ErrInvalidPattern(fmt.Sprintf("pattern must be a string or a pattern object, got %T", pattern))
}

// coerceReplacer normalizes the loose replacer shapes into a Replacer.
// Node templates become a fresh deep clone per invocation, so every match
// gets an independent node. Any other non-function value is a constant.
func coerceReplacer(replace interface{}) Replacer {
	switch v := replace.(type) {
	case Replacer:
		return v
	case func(m Match) interface{}:
		return v
	case func(s string) string:
		return func(m Match) interface{} { return v(m.Text) }
	case func(s string) interface{}:
		return func(m Match) interface{} { return v(m.Text) }
	case *dom.Node:
		return func(Match) interface{} { return v.CloneNode(true) }
	case *dom.Element:
		return func(Match) interface{} { return v.AsNode().CloneNode(true) }
	case *dom.Text:
		return func(Match) interface{} { return v.AsNode().CloneNode(false) }
	default:
		return func(Match) interface{} { return v }
	}
}

// SplitAndJoin fragments s against a single pattern, inserting one
// replacement payload per match. A call with no matches returns the
// one-element sequence [s], which callers use as the no-op sentinel.
//
// Zero-length matches emit their payload and then advance the scan position
// by one rune, so progress is strictly monotonic.
func SplitAndJoin(s string, pattern, replace interface{}) ([]interface{}, error) {
	p, err := coercePattern(pattern)
	if err != nil {
		return nil, err
	}
	replacer := coerceReplacer(replace)

	var frags []interface{}
	emit := 0 // start of text not yet emitted
	scan := 0 // where the next search begins
	for scan <= len(s) {
		m, ok := p.FindNext(s, scan)
		if !ok {
			break
		}
		frags = append(frags, s[emit:m.Index], replacer(m))
		emit = m.Index + len(m.Text)
		scan = emit
		if len(m.Text) == 0 {
			if scan >= len(s) {
				break
			}
			_, size := utf8.DecodeRuneInString(s[scan:])
			scan += size
		}
	}

	if frags == nil {
		return []interface{}{s}, nil
	}
	return append(frags, s[emit:]), nil
}

// SplitByRules folds SplitAndJoin over the rule list. Only string fragments
// of the current sequence are re-scanned by subsequent rules; fragments
// shorter than a rule's MinLength are left untouched by that rule. When no
// rule matched anything the result is the unchanged sequence [s]; otherwise
// the final sequence is canonicalized with Canonicalize.
func SplitByRules(s string, rules []Rule) ([]interface{}, error) {
	frags := []interface{}{s}
	changed := false

	for _, rule := range rules {
		next := make([]interface{}, 0, len(frags))
		for _, frag := range frags {
			str, isString := frag.(string)
			if !isString || (rule.MinLength > 0 && utf8.RuneCountInString(str) < rule.MinLength) {
				next = append(next, frag)
				continue
			}
			sub, err := SplitAndJoin(str, rule.Pattern, rule.Replace)
			if err != nil {
				return nil, err
			}
			if len(sub) == 1 {
				next = append(next, frag)
				continue
			}
			changed = true
			next = append(next, sub...)
		}
		frags = next
	}

	if !changed {
		return []interface{}{s}, nil
	}
	return Canonicalize(frags), nil
}

// Canonicalize normalizes a fragment sequence: runs of adjacent string
// fragments are merged into one, and empty strings at the head or tail of
// the sequence are dropped. Empty strings between two payload fragments are
// kept, since they mark a genuinely empty span between adjacent matches.
func Canonicalize(frags []interface{}) []interface{} {
	out := make([]interface{}, 0, len(frags))
	for _, frag := range frags {
		s, isString := frag.(string)
		if isString && len(out) > 0 {
			if prev, ok := out[len(out)-1].(string); ok {
				out[len(out)-1] = prev + s
				continue
			}
		}
		out = append(out, frag)
	}

	if len(out) > 0 {
		if s, ok := out[0].(string); ok && s == "" {
			out = out[1:]
		}
	}
	if n := len(out); n > 0 {
		if s, ok := out[n-1].(string); ok && s == "" {
			out = out[:n-1]
		}
	}
	return out
}
