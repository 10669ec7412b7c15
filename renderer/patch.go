package renderer

import (
	"github.com/delaneyj/vdomparty/vnode"
)

// patch brings the host in line with n2, reusing what n1 mounted. A nil n1
// mounts n2 before anchor.
func (r *Renderer) patch(n1, n2 *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	if n1 == n2 {
		return
	}
	if n1 != nil && !vnode.SameType(n1, n2) {
		anchor = r.nextHostSibling(n1)
		r.unmount(n1, parent, true)
		n1 = nil
	}

	switch n2.Kind {
	case vnode.KindText:
		r.processText(n1, n2, container, anchor)
	case vnode.KindComment:
		r.processComment(n1, n2, container, anchor)
	case vnode.KindFragment:
		r.processFragment(n1, n2, container, anchor, parent)
	case vnode.KindElement:
		r.processElement(n1, n2, container, anchor, parent)
	case vnode.KindComponent:
		r.processComponent(n1, n2, container, anchor, parent)
	case vnode.KindTeleport:
		r.processTeleport(n1, n2, container, anchor, parent)
	}
}

func (r *Renderer) processText(n1, n2 *vnode.Node, container, anchor vnode.HostNode) {
	if n1 == nil {
		n2.El = r.host.CreateText(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		r.metrics.mounted("text")
		return
	}
	n2.El = n1.El
	if n2.Text != n1.Text {
		r.host.SetText(n2.El, n2.Text)
	}
}

func (r *Renderer) processComment(n1, n2 *vnode.Node, container, anchor vnode.HostNode) {
	if n1 == nil {
		n2.El = r.host.CreateComment(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		r.metrics.mounted("comment")
		return
	}
	n2.El = n1.El
}

// Fragments are delimited by two empty text nodes so the range can be moved
// and found again.
func (r *Renderer) processFragment(n1, n2 *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	if n1 == nil {
		n2.El = r.host.CreateText("")
		n2.Anchor = r.host.CreateText("")
		r.host.Insert(n2.El, container, anchor)
		r.host.Insert(n2.Anchor, container, anchor)
		r.mountChildren(n2.Children, container, n2.Anchor, parent)
		r.metrics.mounted("fragment")
		return
	}

	n2.El, n2.Anchor = n1.El, n1.Anchor
	if canPatchBlock(n1, n2) {
		r.patchBlockChildren(n1.DynamicChildren, n2.DynamicChildren, container, parent)
		carryStatic(n1.Children, n2.Children)
		return
	}
	r.patchChildren(n1, n2, container, n2.Anchor, parent)
}

func (r *Renderer) processElement(n1, n2 *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	if n1 == nil {
		r.mountElement(n2, container, anchor, parent)
		return
	}
	r.patchElement(n1, n2, parent)
}

func (r *Renderer) mountElement(n *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	el := r.host.CreateElement(n.Tag)
	n.El = el

	switch n.Shape() {
	case vnode.ShapeText:
		r.host.SetElementText(el, n.Text)
	case vnode.ShapeList:
		r.mountChildren(n.Children, el, nil, parent)
	}

	for _, k := range sortedKeys(n.Props) {
		if v := n.Props[k]; v != nil {
			r.host.PatchProp(el, k, nil, v)
		}
	}

	if t := n.Transition; t != nil && t.BeforeEnter != nil {
		t.BeforeEnter(el)
	}
	r.host.Insert(el, container, anchor)
	if t := n.Transition; t != nil && t.Enter != nil {
		t.Enter(el)
	}
	r.metrics.mounted("element")
}

func (r *Renderer) patchElement(n1, n2 *vnode.Node, parent *Instance) {
	el := n1.El
	n2.El = el
	r.patchProps(n1, n2, el)

	if canPatchBlock(n1, n2) {
		r.patchBlockChildren(n1.DynamicChildren, n2.DynamicChildren, el, parent)
		carryStatic(n1.Children, n2.Children)
		if n2.PatchFlag.Has(vnode.FlagText) && n1.Text != n2.Text {
			r.host.SetElementText(el, n2.Text)
		}
		return
	}
	r.patchChildren(n1, n2, el, nil, parent)
}

func canPatchBlock(n1, n2 *vnode.Node) bool {
	return n1.DynamicChildren != nil && n2.DynamicChildren != nil &&
		len(n1.DynamicChildren) == len(n2.DynamicChildren)
}

// patchBlockChildren patches dynamic descendants pairwise. Each pair finds
// its own container since blocks skip the static levels in between.
func (r *Renderer) patchBlockChildren(old, next []*vnode.Node, fallback vnode.HostNode, parent *Instance) {
	for i, n2 := range next {
		n1 := old[i]
		container := fallback
		if n1.El != nil {
			if p := r.host.Parent(n1.El); p != nil {
				container = p
			}
		}
		r.patch(n1, n2, container, nil, parent)
	}
}

// carryStatic copies host links onto nodes a block patch skipped, so a later
// full diff of the same lists still finds them.
func carryStatic(old, next []*vnode.Node) {
	if len(old) != len(next) {
		return
	}
	for i, n2 := range next {
		n1 := old[i]
		if n2.El != nil || n1 == n2 || !vnode.SameType(n1, n2) {
			continue
		}
		n2.El, n2.Anchor = n1.El, n1.Anchor
		if n2.Kind == vnode.KindElement || n2.Kind == vnode.KindFragment {
			carryStatic(n1.Children, n2.Children)
		}
	}
}

func (r *Renderer) mountChildren(children []*vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	for _, c := range children {
		r.patch(nil, c, container, anchor, parent)
	}
}

func (r *Renderer) unmountChildren(children []*vnode.Node, parent *Instance, doRemove bool) {
	for _, c := range children {
		r.unmount(c, parent, doRemove)
	}
}

// patchChildren handles every combination of absent, text and list children.
func (r *Renderer) patchChildren(n1, n2 *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	prev, next := n1.Shape(), n2.Shape()
	switch next {
	case vnode.ShapeText:
		if prev == vnode.ShapeList {
			r.unmountChildren(n1.Children, parent, true)
		}
		if prev != vnode.ShapeText || n1.Text != n2.Text {
			r.host.SetElementText(container, n2.Text)
		}
	case vnode.ShapeList:
		switch prev {
		case vnode.ShapeList:
			r.diffChildren(n1.Children, n2.Children, container, anchor, parent)
		case vnode.ShapeText:
			r.host.SetElementText(container, "")
			r.mountChildren(n2.Children, container, anchor, parent)
		default:
			r.mountChildren(n2.Children, container, anchor, parent)
		}
	default:
		switch prev {
		case vnode.ShapeList:
			r.unmountChildren(n1.Children, parent, true)
		case vnode.ShapeText:
			r.host.SetElementText(container, "")
		}
	}
}

func (r *Renderer) diffChildren(c1, c2 []*vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	switch r.strategy {
	case DoubleEnded:
		r.doubleEndedDiff(c1, c2, container, anchor, parent)
	case Simple:
		r.simpleDiff(c1, c2, container, anchor, parent)
	default:
		r.fastDiff(c1, c2, container, anchor, parent)
	}
}

// unmount tears n down. doRemove is false for descendants of a node that is
// itself being removed from the host: they only need their teardown.
func (r *Renderer) unmount(n *vnode.Node, parent *Instance, doRemove bool) {
	if n.ShouldKeepAlive {
		if owner, ok := n.KeepAliveOwner.(*Instance); ok && owner.keepAlive != nil {
			owner.keepAlive.deactivate(n)
			return
		}
	}

	r.metrics.unmounted(n.Kind.String())
	switch n.Kind {
	case vnode.KindComponent:
		if inst, ok := n.Instance.(*Instance); ok {
			r.unmountComponent(inst, doRemove)
		}
	case vnode.KindFragment:
		r.unmountChildren(n.Children, parent, doRemove)
		if doRemove {
			r.host.Remove(n.El)
			r.host.Remove(n.Anchor)
		}
	case vnode.KindTeleport:
		r.unmountTeleport(n, parent, doRemove)
	case vnode.KindElement:
		if n.Shape() == vnode.ShapeList {
			r.unmountChildren(n.Children, parent, false)
		}
		if doRemove {
			r.remove(n)
		}
	default:
		if doRemove {
			r.remove(n)
		}
	}
}

// remove detaches n's host node, letting a leave transition decide when.
func (r *Renderer) remove(n *vnode.Node) {
	el := n.El
	removed := false
	performRemove := func() {
		if removed {
			return
		}
		removed = true
		r.host.Remove(el)
	}
	if t := n.Transition; t != nil && t.Leave != nil && n.Kind == vnode.KindElement {
		t.Leave(el, performRemove)
		return
	}
	performRemove()
}

// move reinserts every host node owned by n before anchor.
func (r *Renderer) move(n *vnode.Node, container, anchor vnode.HostNode) {
	r.metrics.move()
	r.moveNode(n, container, anchor)
}

func (r *Renderer) moveNode(n *vnode.Node, container, anchor vnode.HostNode) {
	switch n.Kind {
	case vnode.KindComponent:
		if inst, ok := n.Instance.(*Instance); ok && inst.subTree != nil {
			r.moveNode(inst.subTree, container, anchor)
		}
	case vnode.KindFragment:
		r.host.Insert(n.El, container, anchor)
		for _, c := range n.Children {
			r.moveNode(c, container, anchor)
		}
		r.host.Insert(n.Anchor, container, anchor)
	default:
		// Teleported children stay in their target; only the placeholder
		// moves.
		r.host.Insert(n.El, container, anchor)
	}
}

// nextHostSibling is the host node right after everything n owns.
func (r *Renderer) nextHostSibling(n *vnode.Node) vnode.HostNode {
	switch n.Kind {
	case vnode.KindComponent:
		if inst, ok := n.Instance.(*Instance); ok && inst.subTree != nil {
			return r.nextHostSibling(inst.subTree)
		}
		return nil
	case vnode.KindFragment:
		return r.host.NextSibling(n.Anchor)
	default:
		return r.host.NextSibling(n.El)
	}
}
