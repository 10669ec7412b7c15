package hostdom

import "slices"

//go:generate qtc -file=markup.qtpl

type markupAttr struct {
	Name  string
	Value string
	Bare  bool
}

// markupAttrs lists class, then attributes, then properties, each group
// sorted by name. False boolean properties are omitted.
func (n *Node) markupAttrs() []markupAttr {
	var out []markupAttr
	if n.class != "" {
		out = append(out, markupAttr{Name: "class", Value: n.class})
	}
	for _, k := range sortedNames(n.attrs) {
		out = append(out, markupAttr{Name: k, Value: n.attrs[k]})
	}
	for _, k := range sortedNames(n.properties) {
		switch v := n.properties[k].(type) {
		case bool:
			if v {
				out = append(out, markupAttr{Name: k, Bare: true})
			}
		default:
			out = append(out, markupAttr{Name: k, Value: stringify(v)})
		}
	}
	return out
}

func sortedNames[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
