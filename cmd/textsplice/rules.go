package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dlclark/regexp2"
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/textsplice/dom"
	"github.com/chrisuehlinger/textsplice/splice"
)

// ruleConfig is one entry of a JSON rules file.
//
//	[
//	  {"pattern": "cat", "replace": "dog"},
//	  {"pattern": "\\bhttps?://\\S+", "regex": true, "wrap": "a", "class": "found-url"},
//	  {"pattern": "(\\w+)@(\\w+)", "regex": true, "js": "(m, user, host) => user + ' at ' + host"}
//	]
type ruleConfig struct {
	// Pattern is a literal substring, or a regular expression when Regex
	// is set. Flags holds regex flags ("i", "m", "s") in any combination.
	Pattern string `json:"pattern"`
	Regex   bool   `json:"regex"`
	Flags   string `json:"flags"`

	// Exactly one replacement shape applies, in this precedence order:
	// JS (a JavaScript function source invoked per match), Wrap (each
	// match is wrapped in an element of this tag, with an optional
	// Class), or Replace (fixed text).
	Replace string `json:"replace"`
	JS      string `json:"js"`
	Wrap    string `json:"wrap"`
	Class   string `json:"class"`

	// MinLength skips text fragments shorter than this many characters.
	MinLength int `json:"minLength"`
}

// loadRules reads and compiles a JSON rules file.
func loadRules(path string, doc *dom.Document, vm *goja.Runtime, logger *slog.Logger) ([]splice.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var configs []ruleConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}

	rules := make([]splice.Rule, 0, len(configs))
	for i, cfg := range configs {
		rule, err := buildRule(cfg, doc, vm, logger)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// buildRule compiles one rule configuration.
func buildRule(cfg ruleConfig, doc *dom.Document, vm *goja.Runtime, logger *slog.Logger) (splice.Rule, error) {
	if cfg.Pattern == "" {
		return splice.Rule{}, fmt.Errorf("pattern is required")
	}

	rule := splice.Rule{Pattern: cfg.Pattern, MinLength: cfg.MinLength}
	if cfg.Regex {
		pattern, err := compileRegex(cfg.Pattern, cfg.Flags)
		if err != nil {
			return splice.Rule{}, err
		}
		rule.Pattern = pattern
	}

	switch {
	case cfg.JS != "":
		replacer, err := jsReplacer(vm, cfg.JS, logger)
		if err != nil {
			return splice.Rule{}, err
		}
		rule.Replace = replacer
	case cfg.Wrap != "":
		rule.Replace = wrapReplacer(doc, cfg.Wrap, cfg.Class, cfg.Replace)
	default:
		rule.Replace = cfg.Replace
	}
	return rule, nil
}

// compileRegex compiles a regular expression with ECMAScript semantics.
func compileRegex(expr, flags string) (splice.Pattern, error) {
	var opts regexp2.RegexOptions
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		default:
			return nil, fmt.Errorf("unsupported regex flag %q", f)
		}
	}
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}
	return splice.Regexp(re), nil
}

// wrapReplacer wraps each match in a new element. The element's text is the
// fixed replacement when one is given, otherwise the matched text itself.
func wrapReplacer(doc *dom.Document, tag, class, text string) splice.Replacer {
	return func(m splice.Match) interface{} {
		content := text
		if content == "" {
			content = m.Text
		}
		attrs := dom.Attrs{}
		if class != "" {
			attrs["class"] = class
		}
		return doc.BuildElement(tag, attrs, content)
	}
}

// jsReplacer evaluates a JavaScript function source and adapts it as a
// splice.Replacer. The function is called per match with the matched text,
// each capture group (undefined when unmatched), the match offset, and the
// original string. A JavaScript exception leaves that match unreplaced.
func jsReplacer(vm *goja.Runtime, src string, logger *slog.Logger) (splice.Replacer, error) {
	value, err := vm.RunString("(" + src + ")")
	if err != nil {
		return nil, fmt.Errorf("evaluating js replacer: %w", err)
	}
	fn, ok := goja.AssertFunction(value)
	if !ok {
		return nil, fmt.Errorf("js replacer is not a function")
	}

	return func(m splice.Match) interface{} {
		args := make([]goja.Value, 0, len(m.Groups)+3)
		args = append(args, vm.ToValue(m.Text))
		for _, g := range m.Groups {
			if g.Matched {
				args = append(args, vm.ToValue(g.Value))
			} else {
				args = append(args, goja.Undefined())
			}
		}
		args = append(args, vm.ToValue(m.Index), vm.ToValue(m.Input))

		result, err := fn(goja.Undefined(), args...)
		if err != nil {
			logger.Warn("js replacer failed", "error", err, "match", m.Text)
			return m.Text
		}
		return result.Export()
	}, nil
}
