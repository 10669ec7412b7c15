package vnode

import "strings"

// PatchFlag tells the renderer which parts of an element may change between
// renders. Zero means unknown, so everything is diffed.
type PatchFlag uint16

const (
	FlagText PatchFlag = 1 << iota
	FlagClass
	FlagStyle
	FlagProps
	FlagFullProps
)

func (f PatchFlag) Has(other PatchFlag) bool {
	return f&other != 0
}

func (f PatchFlag) String() string {
	if f == 0 {
		return "NONE"
	}
	var parts []string
	for _, p := range []struct {
		flag PatchFlag
		name string
	}{
		{FlagText, "TEXT"},
		{FlagClass, "CLASS"},
		{FlagStyle, "STYLE"},
		{FlagProps, "PROPS"},
		{FlagFullProps, "FULL_PROPS"},
	} {
		if f.Has(p.flag) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// Block collects dynamic descendants while a tree is built so the renderer
// can patch them directly and skip static structure. Open a block, create
// nodes through Track, then Close it on the block root.
type Block struct {
	stack [][]*Node
}

func NewBlock() *Block {
	return &Block{}
}

func (b *Block) Open() *Block {
	b.stack = append(b.stack, []*Node{})
	return b
}

// Track records n in the innermost open block when it carries dynamic parts.
func (b *Block) Track(n *Node) *Node {
	if len(b.stack) == 0 || n == nil {
		return n
	}
	if n.PatchFlag != 0 || n.Kind == KindComponent || n.Kind == KindTeleport {
		top := len(b.stack) - 1
		b.stack[top] = append(b.stack[top], n)
	}
	return n
}

// Close hands the innermost block's dynamic nodes to root and records root
// in the enclosing block, if any.
func (b *Block) Close(root *Node) *Node {
	top := len(b.stack) - 1
	if top < 0 {
		return root
	}
	root.DynamicChildren = b.stack[top]
	b.stack = b.stack[:top]
	if len(b.stack) > 0 {
		b.stack[len(b.stack)-1] = append(b.stack[len(b.stack)-1], root)
	}
	return root
}

// Depth is the number of open blocks.
func (b *Block) Depth() int {
	return len(b.stack)
}
