package renderer

import "github.com/delaneyj/vdomparty/vnode"

// Host is the platform adapter the renderer mutates. nil HostNode values mean
// "none": a nil anchor appends, a nil Parent or NextSibling means there is
// none.
type Host interface {
	CreateElement(tag string) vnode.HostNode
	CreateText(text string) vnode.HostNode
	CreateComment(text string) vnode.HostNode
	SetText(node vnode.HostNode, text string)
	SetElementText(node vnode.HostNode, text string)
	Insert(node, parent, anchor vnode.HostNode)
	Remove(node vnode.HostNode)
	PatchProp(node vnode.HostNode, key string, prev, next any)
	Parent(node vnode.HostNode) vnode.HostNode
	NextSibling(node vnode.HostNode) vnode.HostNode
}

// TargetResolver is implemented by hosts that can look up teleport targets
// by name.
type TargetResolver interface {
	ResolveTarget(name string) vnode.HostNode
}

// instrumentedHost counts every host call.
type instrumentedHost struct {
	Host
	m *Metrics
}

func (h instrumentedHost) CreateElement(tag string) vnode.HostNode {
	h.m.hostOp("create_element")
	return h.Host.CreateElement(tag)
}

func (h instrumentedHost) CreateText(text string) vnode.HostNode {
	h.m.hostOp("create_text")
	return h.Host.CreateText(text)
}

func (h instrumentedHost) CreateComment(text string) vnode.HostNode {
	h.m.hostOp("create_comment")
	return h.Host.CreateComment(text)
}

func (h instrumentedHost) SetText(node vnode.HostNode, text string) {
	h.m.hostOp("set_text")
	h.Host.SetText(node, text)
}

func (h instrumentedHost) SetElementText(node vnode.HostNode, text string) {
	h.m.hostOp("set_element_text")
	h.Host.SetElementText(node, text)
}

func (h instrumentedHost) Insert(node, parent, anchor vnode.HostNode) {
	h.m.hostOp("insert")
	h.Host.Insert(node, parent, anchor)
}

func (h instrumentedHost) Remove(node vnode.HostNode) {
	h.m.hostOp("remove")
	h.Host.Remove(node)
}

func (h instrumentedHost) PatchProp(node vnode.HostNode, key string, prev, next any) {
	h.m.hostOp("patch_prop")
	h.Host.PatchProp(node, key, prev, next)
}
