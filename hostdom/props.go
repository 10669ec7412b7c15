package hostdom

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/delaneyj/vdomparty/vnode"
)

type propKind uint8

const (
	propString propKind = iota
	propBool
	propNumber
)

// nativeProps lists keys each tag exposes as settable properties. "*"
// applies to every tag.
var nativeProps = map[string]map[string]propKind{
	"*": {
		"id":        propString,
		"title":     propString,
		"hidden":    propBool,
		"tabIndex":  propNumber,
		"innerHTML": propString,
	},
	"input": {
		"value":    propString,
		"checked":  propBool,
		"disabled": propBool,
		"readOnly": propBool,
		"required": propBool,
		"type":     propString,
		"name":     propString,
	},
	"textarea": {
		"value":    propString,
		"disabled": propBool,
		"readOnly": propBool,
	},
	"select": {
		"value":    propString,
		"disabled": propBool,
		"multiple": propBool,
	},
	"option": {
		"value":    propString,
		"selected": propBool,
		"disabled": propBool,
	},
	"button": {
		"disabled": propBool,
		"type":     propString,
	},
}

func propKindOf(tag, key string) (propKind, bool) {
	// form is read-only on the element; it is only settable as an
	// attribute.
	if tag == "input" && key == "form" {
		return 0, false
	}
	if k, ok := nativeProps[tag][key]; ok {
		return k, true
	}
	k, ok := nativeProps["*"][key]
	return k, ok
}

// PatchProp applies one prop change. Event keys manage invokers, class
// replaces the class string, native properties are set as properties and
// everything else becomes an attribute.
func (d *Document) PatchProp(node vnode.HostNode, key string, prev, next any) {
	n := asNode(node)
	switch {
	case isEventKey(key):
		d.patchEvent(n, eventName(key), next)
	case key == "class":
		n.class = stringify(next)
		d.record(OpProp, n, key)
	default:
		if kind, ok := propKindOf(n.Tag, key); ok {
			if n.properties == nil {
				n.properties = map[string]any{}
			}
			n.properties[key] = coerce(kind, next)
			d.record(OpProp, n, key)
			return
		}
		if next == nil || next == false {
			if _, had := n.attrs[key]; had {
				delete(n.attrs, key)
				d.record(OpProp, n, key)
			}
			return
		}
		if n.attrs == nil {
			n.attrs = map[string]string{}
		}
		n.attrs[key] = stringify(next)
		d.record(OpProp, n, key)
	}
}

func coerce(kind propKind, v any) any {
	switch kind {
	case propBool:
		switch b := v.(type) {
		case bool:
			return b
		case string:
			return true
		case nil:
			return false
		default:
			return true
		}
	case propNumber:
		if v == nil {
			return 0
		}
		return v
	default:
		return stringify(v)
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func isEventKey(key string) bool {
	if len(key) < 3 || !strings.HasPrefix(key, "on") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key[2:])
	return unicode.IsUpper(r)
}

// eventName maps onClick to click.
func eventName(key string) string {
	return strings.ToLower(key[2:])
}
