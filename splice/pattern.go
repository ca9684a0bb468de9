package splice

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Pattern finds non-overlapping matches in a string, scanning left to right.
// The scan position is threaded through FindNext explicitly; implementations
// must not keep cursor state on the pattern itself, so a single Pattern value
// can back any number of concurrent scans.
type Pattern interface {
	// FindNext returns the first match at or after byte offset from, and
	// false when no further match exists. A returned match may be empty
	// (zero-length); callers are responsible for advancing past it.
	FindNext(s string, from int) (Match, bool)
}

// Match describes one pattern match.
type Match struct {
	// Text is the full matched substring. Empty for a zero-length match.
	Text string
	// Groups holds the capture groups, in order. Literal patterns have none.
	Groups []Group
	// Index is the byte offset of the match within Input.
	Index int
	// Input is the string the match was found in.
	Input string
}

// Group is a single capture group of a match. An alternation branch that did
// not participate in the match leaves Matched false.
type Group struct {
	Value   string
	Matched bool
}

// Literal is a Pattern matching every non-overlapping occurrence of a fixed
// substring. The empty literal never matches.
type Literal string

// FindNext implements Pattern.
func (p Literal) FindNext(s string, from int) (Match, bool) {
	if p == "" || from > len(s) {
		return Match{}, false
	}
	idx := strings.Index(s[from:], string(p))
	if idx < 0 {
		return Match{}, false
	}
	return Match{Text: string(p), Index: from + idx, Input: s}, true
}

// Regexp wraps a regexp2 pattern (ECMAScript-compatible semantics) as a
// Pattern. The wrapped pattern is scanned with an explicit start offset per
// call; nothing is stored on re between calls.
func Regexp(re *regexp2.Regexp) Pattern {
	return &regexPattern{re: re}
}

type regexPattern struct {
	re *regexp2.Regexp
}

func (p *regexPattern) FindNext(s string, from int) (Match, bool) {
	if from > len(s) {
		return Match{}, false
	}
	// regexp2 indexes by rune, this API by byte.
	m, err := p.re.FindStringMatchStartingAt(s, utf8.RuneCountInString(s[:from]))
	if err != nil || m == nil {
		return Match{}, false
	}

	groups := m.Groups()
	result := Match{
		Text:  m.String(),
		Index: byteOffset(s, m.Index),
		Input: s,
	}
	if len(groups) > 1 {
		result.Groups = make([]Group, 0, len(groups)-1)
		for _, g := range groups[1:] {
			group := Group{Matched: len(g.Captures) > 0}
			if group.Matched {
				group.Value = g.String()
			}
			result.Groups = append(result.Groups, group)
		}
	}
	return result, true
}

// byteOffset converts a rune index into s to the corresponding byte offset.
func byteOffset(s string, runeIdx int) int {
	count := 0
	for i := range s {
		if count == runeIdx {
			return i
		}
		count++
	}
	return len(s)
}

// CompilePattern compiles a regular expression with ECMAScript-compatible
// semantics into a Pattern.
func CompilePattern(expr string) (Pattern, error) {
	re, err := regexp2.Compile(expr, 0)
	if err != nil {
		return nil, err
	}
	return Regexp(re), nil
}

// GoRegexp wraps a standard library regexp as a Pattern. Note that ^ anchors
// re-anchor at each scan offset rather than at the start of the string.
func GoRegexp(re *regexp.Regexp) Pattern {
	return &goPattern{re: re}
}

type goPattern struct {
	re *regexp.Regexp
}

func (p *goPattern) FindNext(s string, from int) (Match, bool) {
	if from > len(s) {
		return Match{}, false
	}
	loc := p.re.FindStringSubmatchIndex(s[from:])
	if loc == nil {
		return Match{}, false
	}

	result := Match{
		Text:  s[from+loc[0] : from+loc[1]],
		Index: from + loc[0],
		Input: s,
	}
	if len(loc) > 2 {
		result.Groups = make([]Group, 0, len(loc)/2-1)
		for i := 2; i < len(loc); i += 2 {
			group := Group{Matched: loc[i] >= 0}
			if group.Matched {
				group.Value = s[from+loc[i] : from+loc[i+1]]
			}
			result.Groups = append(result.Groups, group)
		}
	}
	return result, true
}
