package vnode_test

import (
	"testing"

	"github.com/delaneyj/vdomparty/vnode"
	"github.com/stretchr/testify/assert"
)

type desc string

func (d desc) ComponentName() string { return string(d) }

// should lift a string key prop onto the node
func TestHExtractsKey(t *testing.T) {
	n := vnode.H("li", vnode.Props{"key": "a", "class": "item"}, vnode.Text("A"), nil)

	assert.Equal(t, "a", n.Key)
	assert.Equal(t, vnode.Props{"class": "item"}, n.Props)
	assert.Len(t, n.Children, 1)
	assert.Equal(t, vnode.ShapeList, n.Shape())
}

// should classify children shapes
func TestShape(t *testing.T) {
	assert.Equal(t, vnode.ShapeText, vnode.HText("p", nil, "hi").Shape())
	assert.Equal(t, vnode.ShapeNone, vnode.H("p", nil).Shape())
	assert.Equal(t, vnode.ShapeList, vnode.Fragment().Shape())
	assert.Equal(t, vnode.ShapeNone, vnode.Text("x").Shape())
}

// should compare kind, key, tag and descriptor
func TestSameType(t *testing.T) {
	assert.True(t, vnode.SameType(vnode.H("div", nil), vnode.H("div", nil)))
	assert.False(t, vnode.SameType(vnode.H("div", nil), vnode.H("span", nil)))
	assert.False(t, vnode.SameType(vnode.Keyed("a", vnode.H("div", nil)), vnode.Keyed("b", vnode.H("div", nil))))
	assert.True(t, vnode.SameType(vnode.Comp(desc("x"), nil, nil), vnode.Comp(desc("x"), nil, nil)))
	assert.False(t, vnode.SameType(vnode.Comp(desc("x"), nil, nil), vnode.Comp(desc("y"), nil, nil)))
	assert.False(t, vnode.SameType(vnode.Text("a"), vnode.Comment("a")))
}

// should collect only dynamic nodes, nesting blocks
func TestBlockCollectsDynamicChildren(t *testing.T) {
	b := vnode.NewBlock()
	b.Open()
	static := vnode.HText("h1", nil, "title")
	dyn := b.Track(vnode.HText("p", nil, "x").Dynamic(vnode.FlagText))
	b.Track(static)

	b.Open()
	inner := b.Track(vnode.H("span", vnode.Props{"class": "c"}).Dynamic(vnode.FlagClass))
	innerRoot := b.Close(vnode.H("section", nil, inner))
	assert.Equal(t, []*vnode.Node{inner}, innerRoot.DynamicChildren)

	root := b.Close(vnode.H("div", nil, static, dyn, innerRoot))
	assert.Equal(t, []*vnode.Node{dyn, innerRoot}, root.DynamicChildren)
	assert.Zero(t, b.Depth())
}

// should print flags by name
func TestPatchFlagString(t *testing.T) {
	assert.Equal(t, "NONE", vnode.PatchFlag(0).String())
	assert.Equal(t, "TEXT|PROPS", (vnode.FlagText | vnode.FlagProps).String())
}
