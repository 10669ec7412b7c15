package renderer

import (
	"fmt"

	"github.com/delaneyj/vdomparty/vnode"
)

// resolveTarget turns a teleport's Target into a host node. Names go through
// the host's TargetResolver.
func (r *Renderer) resolveTarget(n *vnode.Node) vnode.HostNode {
	var target vnode.HostNode
	switch t := n.Target.(type) {
	case nil:
	case string:
		if r.resolver != nil {
			target = r.resolver.ResolveTarget(t)
		}
	default:
		target = t
	}
	if target == nil {
		r.ReportError(n, fmt.Errorf("%w: %v", ErrTeleportTarget, n.Target))
	}
	return target
}

// A teleport leaves a comment placeholder (El) in its logical position and
// mounts its children in the target before an empty text anchor (Anchor).
func (r *Renderer) processTeleport(n1, n2 *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	if n1 == nil {
		n2.El = r.host.CreateComment("teleport")
		r.host.Insert(n2.El, container, anchor)
		if target := r.resolveTarget(n2); target != nil {
			r.mountTeleportChildren(n2, target, parent)
		}
		r.metrics.mounted("teleport")
		return
	}

	n2.El, n2.Anchor = n1.El, n1.Anchor
	target := r.resolveTarget(n2)
	if n1.Anchor == nil {
		if target != nil {
			r.mountTeleportChildren(n2, target, parent)
		}
		return
	}

	current := r.host.Parent(n1.Anchor)
	if canPatchBlock(n1, n2) {
		r.patchBlockChildren(n1.DynamicChildren, n2.DynamicChildren, current, parent)
		carryStatic(n1.Children, n2.Children)
	} else {
		r.patchChildren(n1, n2, current, n1.Anchor, parent)
	}

	if target != nil && target != current {
		for _, c := range n2.Children {
			r.moveNode(c, target, nil)
		}
		r.host.Insert(n2.Anchor, target, nil)
	}
}

func (r *Renderer) mountTeleportChildren(n *vnode.Node, target vnode.HostNode, parent *Instance) {
	n.Anchor = r.host.CreateText("")
	r.host.Insert(n.Anchor, target, nil)
	r.mountChildren(n.Children, target, n.Anchor, parent)
}

// Teleported children always leave their target, even when only the
// placeholder's ancestor is being removed.
func (r *Renderer) unmountTeleport(n *vnode.Node, parent *Instance, doRemove bool) {
	r.unmountChildren(n.Children, parent, true)
	if n.Anchor != nil {
		r.host.Remove(n.Anchor)
	}
	if doRemove {
		r.host.Remove(n.El)
	}
}
