package renderer_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/vdomparty/hostdom"
	"github.com/delaneyj/vdomparty/renderer"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should mount children into the named target and leave a placeholder
func TestTeleportMount(t *testing.T) {
	h := newHarness(t)
	modal := h.doc.Target("modal")

	h.render(vnode.H("main", nil, vnode.Teleport("modal", vnode.HText("p", nil, "hi"))))

	assert.Equal(t, "<div><main><!--teleport--></main></div>", h.markup())
	assert.Equal(t, `<div id="modal"><p>hi</p></div>`, hostdom.Markup(modal))
}

// should move children when the target changes
func TestTeleportTargetChange(t *testing.T) {
	h := newHarness(t)
	modal, side := h.doc.Target("modal"), h.doc.Target("side")

	h.render(vnode.Teleport("modal", vnode.HText("p", nil, "a"), vnode.HText("p", nil, "b")))
	p := modal.Children()[0]
	h.render(vnode.Teleport("side", vnode.HText("p", nil, "a"), vnode.HText("p", nil, "c")))

	assert.Equal(t, `<div id="modal"></div>`, hostdom.Markup(modal))
	assert.Equal(t, `<div id="side"><p>a</p><p>c</p></div>`, hostdom.Markup(side))
	assert.Same(t, p, side.Children()[0])
}

// should accept a host node as target and clean it up on unmount
func TestTeleportHostTarget(t *testing.T) {
	h := newHarness(t)
	target := h.doc.Element("aside")

	h.render(vnode.H("main", nil, vnode.Teleport(target, vnode.HText("p", nil, "x"))))
	assert.Equal(t, "<aside><p>x</p></aside>", hostdom.Markup(target))

	h.render(nil)
	assert.Equal(t, "<aside></aside>", hostdom.Markup(target))
	assert.Equal(t, "<div></div>", h.markup())
}

// should report an unknown target and still leave the placeholder
func TestTeleportMissingTarget(t *testing.T) {
	h := newHarness(t)
	h.render(vnode.Teleport("nowhere", vnode.HText("p", nil, "x")))

	assert.Equal(t, "<div><!--teleport--></div>", h.markup())
	require.Len(t, h.errs, 1)
	assert.True(t, errors.Is(h.errs[0], renderer.ErrTeleportTarget))
}
