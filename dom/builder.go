package dom

import (
	"fmt"
	"sort"
	"strings"
)

// Attrs describes the attributes passed to BuildElement. A few keys get
// special treatment:
//
//   - "class" / "className": string or []string, joined by spaces
//   - "style": CSS text string, or a map of property to value
//   - "data" / "dataset": map of dataset keys; camelCase keys become
//     data-kebab-case attributes
//   - "on<event>": func value registered as an event listener for <event>
//
// Every other key is set as a plain attribute with its value stringified.
type Attrs map[string]interface{}

// BuildElement creates an element with the given tag name, attributes, and
// children. Children may be nodes, element/text views, or strings (which
// become text nodes). It is a convenience for constructing replacement
// payloads; it ignores tag-name errors the way CreateElement does.
func (d *Document) BuildElement(tagName string, attrs Attrs, children ...interface{}) *Element {
	el := d.CreateElement(tagName)
	if el == nil {
		return nil
	}

	for key, value := range attrs {
		applyAttr(el, key, value)
	}

	for _, node := range el.AsNode().convertItemsToNodes(children) {
		el.AsNode().AppendChild(node)
	}
	return el
}

func applyAttr(el *Element, key string, value interface{}) {
	switch {
	case key == "class" || key == "className":
		el.SetAttribute("class", classValue(value))
	case key == "style":
		el.SetAttribute("style", styleValue(value))
	case key == "data" || key == "dataset":
		applyDataset(el, value)
	case strings.HasPrefix(key, "on") && len(key) > 2:
		if listener, ok := listenerValue(value); ok {
			el.AddEventListener(key[2:], listener)
		}
	default:
		el.SetAttribute(key, fmt.Sprint(value))
	}
}

func classValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []interface{}:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(value)
	}
}

func styleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]string:
		props := make([]string, 0, len(v))
		for name := range v {
			props = append(props, name)
		}
		sort.Strings(props)
		parts := make([]string, len(props))
		for i, name := range props {
			parts[i] = name + ": " + v[name]
		}
		return strings.Join(parts, "; ")
	case map[string]interface{}:
		props := make([]string, 0, len(v))
		for name := range v {
			props = append(props, name)
		}
		sort.Strings(props)
		parts := make([]string, len(props))
		for i, name := range props {
			parts[i] = name + ": " + fmt.Sprint(v[name])
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(value)
	}
}

func applyDataset(el *Element, value interface{}) {
	switch v := value.(type) {
	case map[string]string:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			el.SetAttribute("data-"+datasetName(key), v[key])
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			el.SetAttribute("data-"+datasetName(key), fmt.Sprint(v[key]))
		}
	}
}

// datasetName converts a camelCase dataset key to its kebab-case attribute
// form, mirroring the HTMLElement.dataset name conversion.
func datasetName(key string) string {
	var sb strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func listenerValue(value interface{}) (EventListener, bool) {
	switch v := value.(type) {
	case EventListener:
		return v, true
	case func(interface{}):
		return v, true
	case func():
		return func(interface{}) { v() }, true
	}
	return nil, false
}
