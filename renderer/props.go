package renderer

import (
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/delaneyj/vdomparty/vnode"
)

// patchProps diffs element props, narrowing the work to the flagged parts
// when the new node carries a patch flag.
func (r *Renderer) patchProps(n1, n2 *vnode.Node, el vnode.HostNode) {
	flag := n2.PatchFlag
	if flag == 0 || flag.Has(vnode.FlagFullProps) {
		r.patchAllProps(n1.Props, n2.Props, el)
		return
	}
	if flag.Has(vnode.FlagClass) {
		r.patchProp(el, "class", n1.Props["class"], n2.Props["class"])
	}
	if flag.Has(vnode.FlagStyle) {
		r.patchProp(el, "style", n1.Props["style"], n2.Props["style"])
	}
	if flag.Has(vnode.FlagProps) {
		for _, k := range n2.DynamicProps {
			r.patchProp(el, k, n1.Props[k], n2.Props[k])
		}
	}
}

func (r *Renderer) patchAllProps(prev, next vnode.Props, el vnode.HostNode) {
	for _, k := range sortedKeys(next) {
		r.patchProp(el, k, prev[k], next[k])
	}
	for _, k := range sortedKeys(prev) {
		if _, kept := next[k]; !kept && prev[k] != nil {
			r.host.PatchProp(el, k, prev[k], nil)
		}
	}
}

// patchProp forwards a change to the host. Event handlers cannot be compared
// so they are always forwarded; the host swaps its invoker target.
func (r *Renderer) patchProp(el vnode.HostNode, key string, prev, next any) {
	if prev == nil && next == nil {
		return
	}
	if !isOn(key) && propEqual(prev, next) {
		return
	}
	r.host.PatchProp(el, key, prev, next)
}

func propEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Kind() == reflect.Func {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// isOn matches event handler props: "on" followed by an upper-case letter.
func isOn(key string) bool {
	if len(key) < 3 || !strings.HasPrefix(key, "on") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key[2:])
	return unicode.IsUpper(r)
}

// handlerName maps an emitted event to its prop: "update-value" becomes
// "onUpdateValue".
func handlerName(event string) string {
	var b strings.Builder
	b.WriteString("on")
	upper := true
	for _, c := range event {
		if c == '-' || c == ':' {
			upper = true
			continue
		}
		if upper {
			c = unicode.ToUpper(c)
			upper = false
		}
		b.WriteRune(c)
	}
	return b.String()
}
