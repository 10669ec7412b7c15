// Package hostdom is an in-memory element tree that implements the
// renderer's host interface. It records every mutation so callers can
// count what a patch cost.
package hostdom

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

type Node struct {
	ID   int
	Type NodeType
	Tag  string
	// Data is the content of text and comment nodes.
	Data string

	doc        *Document
	parent     *Node
	children   []*Node
	class      string
	attrs      map[string]string
	properties map[string]any
	invokers   map[string]*invoker
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) Class() string { return n.class }

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Prop returns a value set as a native property.
func (n *Node) Prop(name string) any { return n.properties[name] }

// HasClass reports whether class is one of the node's class tokens.
func (n *Node) HasClass(class string) bool {
	return slices.Contains(strings.Fields(n.class), class)
}

// TextContent concatenates the data of all descendant text nodes.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode:
		return n.Data
	case CommentNode:
		return ""
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) detach() bool {
	p := n.parent
	if p == nil {
		return false
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
	return true
}

type Document struct {
	clock   clockz.Clock
	log     *zap.Logger
	nextID  int
	ops     []Op
	targets map[string]*Node
}

type Option func(*Document)

// WithClock sets the clock used to stamp event listeners and events.
func WithClock(clock clockz.Clock) Option {
	return func(d *Document) {
		d.clock = clock
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Document) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDocument(opts ...Option) *Document {
	d := &Document{
		clock:   clockz.RealClock,
		log:     zap.NewNop(),
		targets: map[string]*Node{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{ID: d.nextID, Type: t, doc: d}
}

// Element creates a detached element without recording an operation. Use it
// for containers that exist before rendering starts.
func (d *Document) Element(tag string) *Node {
	n := d.newNode(ElementNode)
	n.Tag = tag
	return n
}

// Target creates a named container that teleports can resolve.
func (d *Document) Target(name string) *Node {
	n := d.Element("div")
	n.attrs = map[string]string{"id": name}
	d.targets[name] = n
	return n
}

func (d *Document) ResolveTarget(name string) vnode.HostNode {
	if n, ok := d.targets[name]; ok {
		return n
	}
	return nil
}

func asNode(h vnode.HostNode) *Node {
	n, _ := h.(*Node)
	return n
}

func (d *Document) CreateElement(tag string) vnode.HostNode {
	n := d.Element(tag)
	d.record(OpCreate, n, tag)
	return n
}

func (d *Document) CreateText(text string) vnode.HostNode {
	n := d.newNode(TextNode)
	n.Data = text
	d.record(OpCreate, n, "#text")
	return n
}

func (d *Document) CreateComment(text string) vnode.HostNode {
	n := d.newNode(CommentNode)
	n.Data = text
	d.record(OpCreate, n, "#comment")
	return n
}

func (d *Document) SetText(node vnode.HostNode, text string) {
	n := asNode(node)
	n.Data = text
	d.record(OpSetText, n, text)
}

// SetElementText replaces every child of node with a single text node.
func (d *Document) SetElementText(node vnode.HostNode, text string) {
	n := asNode(node)
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	if text != "" {
		t := d.newNode(TextNode)
		t.Data = text
		t.parent = n
		n.children = []*Node{t}
	}
	d.record(OpSetText, n, text)
}

// Insert places node before anchor in parent, or appends it when anchor is
// nil. Inserting a node that is already attached is recorded as a move.
func (d *Document) Insert(node, parent, anchor vnode.HostNode) {
	n, p, a := asNode(node), asNode(parent), asNode(anchor)
	if n == a {
		d.record(OpMove, n, "")
		return
	}
	kind := OpInsert
	if n.detach() {
		kind = OpMove
	}
	i := len(p.children)
	if a != nil {
		if j := p.indexOf(a); j >= 0 {
			i = j
		} else {
			d.log.Warn("insert anchor is not a child of parent",
				zap.Int("node", n.ID),
				zap.Int("parent", p.ID),
				zap.Int("anchor", a.ID),
			)
		}
	}
	p.children = slices.Insert(p.children, i, n)
	n.parent = p
	d.record(kind, n, p.Tag)
}

func (d *Document) Remove(node vnode.HostNode) {
	n := asNode(node)
	if n.detach() {
		d.record(OpRemove, n, "")
	}
}

// Parent and NextSibling return an untyped nil when there is none so the
// renderer can compare against nil.
func (d *Document) Parent(node vnode.HostNode) vnode.HostNode {
	n := asNode(node)
	if n == nil || n.parent == nil {
		return nil
	}
	return n.parent
}

func (d *Document) NextSibling(node vnode.HostNode) vnode.HostNode {
	n := asNode(node)
	if n == nil || n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	if i := slices.Index(siblings, n); i >= 0 && i+1 < len(siblings) {
		return siblings[i+1]
	}
	return nil
}

// AddClass and RemoveClass toggle single class tokens.
func (d *Document) AddClass(node vnode.HostNode, class string) {
	n := asNode(node)
	if n.HasClass(class) {
		return
	}
	n.class = strings.TrimSpace(n.class + " " + class)
	d.record(OpClass, n, "+"+class)
}

func (d *Document) RemoveClass(node vnode.HostNode, class string) {
	n := asNode(node)
	fields := strings.Fields(n.class)
	i := slices.Index(fields, class)
	if i < 0 {
		return
	}
	n.class = strings.Join(slices.Delete(fields, i, i+1), " ")
	d.record(OpClass, n, "-"+class)
}

// Digest hashes the markup of n so two trees can be compared cheaply.
func (d *Document) Digest(n *Node) uint64 {
	return xxhash.Sum64String(Markup(n))
}
