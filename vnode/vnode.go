// Package vnode defines the render-instruction tree the renderer diffs.
package vnode

type Kind uint8

const (
	KindElement Kind = iota
	KindText
	KindComment
	KindFragment
	KindComponent
	KindTeleport
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindFragment:
		return "fragment"
	case KindComponent:
		return "component"
	case KindTeleport:
		return "teleport"
	default:
		return "unknown"
	}
}

// HostNode is an opaque handle produced by the host adapter. nil means none.
type HostNode any

// Descriptor identifies a component definition. Two component nodes are the
// same type when their descriptors are equal.
type Descriptor interface {
	ComponentName() string
}

type Props map[string]any

// Slot lazily renders children passed to a component.
type Slot func() []*Node

type Slots map[string]Slot

// TransitionHooks are called around insertion and removal of an element.
// Leave owns removal: it must call remove once the exit is finished.
type TransitionHooks struct {
	BeforeEnter func(el HostNode)
	Enter       func(el HostNode)
	Leave       func(el HostNode, remove func())
}

// Node is one node of a render tree. Nodes are created fresh on every render
// and only their host links survive into the next tree.
type Node struct {
	Kind Kind
	Tag  string
	Comp Descriptor

	Props    Props
	Children []*Node
	Text     string
	Key      string

	PatchFlag       PatchFlag
	DynamicProps    []string
	DynamicChildren []*Node

	// El is the single host node this tree node owns once mounted. For
	// fragments it is the start anchor, for components the root of the
	// rendered subtree, for teleports the placeholder.
	El     HostNode
	Anchor HostNode

	Transition *TransitionHooks
	Target     any
	Slots      Slots

	ShouldKeepAlive bool
	KeptAlive       bool
	KeepAliveOwner  any
	Instance        any
}

type ChildShape uint8

const (
	ShapeNone ChildShape = iota
	ShapeText
	ShapeList
)

// Shape reports whether the node carries a child list, text, or nothing.
func (n *Node) Shape() ChildShape {
	switch {
	case n.Children != nil:
		return ShapeList
	case n.Text != "" && n.Kind == KindElement:
		return ShapeText
	default:
		return ShapeNone
	}
}

// SameType reports whether b can be patched in place of a.
func SameType(a, b *Node) bool {
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return a.Comp == b.Comp
	default:
		return true
	}
}

func newNode(kind Kind, props Props) *Node {
	n := &Node{Kind: kind}
	if len(props) == 0 {
		return n
	}
	n.Props = make(Props, len(props))
	for k, v := range props {
		if k == "key" {
			if s, ok := v.(string); ok {
				n.Key = s
				continue
			}
		}
		n.Props[k] = v
	}
	return n
}

func compact(children []*Node) []*Node {
	if children == nil {
		return nil
	}
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// H builds an element. A string "key" prop becomes the node key.
func H(tag string, props Props, children ...*Node) *Node {
	n := newNode(KindElement, props)
	n.Tag = tag
	n.Children = compact(children)
	return n
}

// HText builds an element whose only child is text.
func HText(tag string, props Props, text string) *Node {
	n := newNode(KindElement, props)
	n.Tag = tag
	n.Text = text
	return n
}

func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

func Comment(s string) *Node {
	return &Node{Kind: KindComment, Text: s}
}

// Fragment groups children without a host element of its own. Its child
// list is never nil.
func Fragment(children ...*Node) *Node {
	c := compact(children)
	if c == nil {
		c = []*Node{}
	}
	return &Node{Kind: KindFragment, Children: c}
}

// Teleport renders children into target, which is either a host node or a
// name resolved by the host.
func Teleport(target any, children ...*Node) *Node {
	c := compact(children)
	if c == nil {
		c = []*Node{}
	}
	return &Node{Kind: KindTeleport, Target: target, Children: c}
}

func Comp(desc Descriptor, props Props, slots Slots) *Node {
	n := newNode(KindComponent, props)
	n.Comp = desc
	n.Slots = slots
	return n
}

// DefaultSlot wraps children as the "default" slot.
func DefaultSlot(children ...*Node) Slots {
	return Slots{"default": func() []*Node { return children }}
}

// Keyed sets the key of n and returns it.
func Keyed(key string, n *Node) *Node {
	n.Key = key
	return n
}

// Dynamic marks which parts of n are bound to changing data.
func (n *Node) Dynamic(flag PatchFlag, props ...string) *Node {
	n.PatchFlag |= flag
	n.DynamicProps = append(n.DynamicProps, props...)
	return n
}

// WithTransition attaches transition hooks to n.
func (n *Node) WithTransition(h *TransitionHooks) *Node {
	n.Transition = h
	return n
}
