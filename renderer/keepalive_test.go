package renderer_test

import (
	"regexp"
	"testing"

	"github.com/delaneyj/vdomparty/reactive"
	"github.com/delaneyj/vdomparty/renderer"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifeCounts struct {
	setups, unmounted, activated, deactivated int
}

func tracked(name string, c *lifeCounts) *renderer.Component {
	return &renderer.Component{
		Name: name,
		Setup: func(_ *reactive.Object, sc *renderer.SetupContext) any {
			c.setups++
			sc.OnUnmounted(func() { c.unmounted++ })
			sc.OnActivated(func() { c.activated++ })
			sc.OnDeactivated(func() { c.deactivated++ })
			return nil
		},
		Render: func(*renderer.Context) *vnode.Node { return vnode.HText("p", nil, name) },
	}
}

func kept(ka, child *renderer.Component) *vnode.Node {
	return vnode.Comp(ka, nil, vnode.DefaultSlot(vnode.Comp(child, nil, nil)))
}

func keptInstance(t *testing.T, h *harness) *renderer.Instance {
	t.Helper()
	inst, ok := h.rootInstance(t).SubTree().Instance.(*renderer.Instance)
	require.True(t, ok)
	return inst
}

// should reuse the same instance when switching back to a cached component
func TestKeepAliveRoundTrip(t *testing.T) {
	var xc, yc lifeCounts
	x, y := tracked("X", &xc), tracked("Y", &yc)
	ka := renderer.KeepAlive(renderer.KeepAliveOptions{})
	h := newHarness(t)

	h.render(kept(ka, x))
	first := keptInstance(t, h)
	assert.Equal(t, "<div><p>X</p></div>", h.markup())

	h.render(kept(ka, y))
	assert.Equal(t, "<div><p>Y</p></div>", h.markup())
	assert.Equal(t, renderer.PhaseDeactivated, first.Phase())
	assert.Equal(t, 1, xc.deactivated)
	assert.Zero(t, xc.unmounted)

	h.render(kept(ka, x))
	assert.Equal(t, "<div><p>X</p></div>", h.markup())
	assert.Same(t, first, keptInstance(t, h))
	assert.Equal(t, 1, xc.setups)
	assert.Zero(t, xc.unmounted)
	assert.Equal(t, 2, xc.activated)
	assert.Equal(t, renderer.PhaseMounted, first.Phase())
	assert.Empty(t, h.errs)
}

// should evict the least recently used entry beyond Max
func TestKeepAliveMax(t *testing.T) {
	var xc, yc lifeCounts
	x, y := tracked("X", &xc), tracked("Y", &yc)
	ka := renderer.KeepAlive(renderer.KeepAliveOptions{Max: 1})
	h := newHarness(t)

	h.render(kept(ka, x))
	h.render(kept(ka, y))
	assert.Equal(t, 1, xc.unmounted)
	assert.Zero(t, xc.deactivated)

	h.render(kept(ka, x))
	assert.Equal(t, 2, xc.setups)
	assert.Equal(t, 1, yc.unmounted)
	assert.Equal(t, "<div><p>X</p></div>", h.markup())
}

// should bypass the cache for names the filters reject
func TestKeepAliveExclude(t *testing.T) {
	var xc, yc lifeCounts
	x, y := tracked("X", &xc), tracked("Y", &yc)
	ka := renderer.KeepAlive(renderer.KeepAliveOptions{Exclude: regexp.MustCompile("^X$")})
	h := newHarness(t)

	h.render(kept(ka, x))
	h.render(kept(ka, y))
	h.render(kept(ka, x))
	assert.Equal(t, 2, xc.setups)
	assert.Equal(t, 1, xc.unmounted)
	assert.Equal(t, 1, yc.setups)
	assert.Equal(t, 1, yc.deactivated)
}

// should destroy every cached instance when the keep-alive itself unmounts
func TestKeepAliveUnmount(t *testing.T) {
	var xc, yc lifeCounts
	x, y := tracked("X", &xc), tracked("Y", &yc)
	ka := renderer.KeepAlive(renderer.KeepAliveOptions{})
	h := newHarness(t)

	h.render(kept(ka, x))
	h.render(kept(ka, y))
	h.render(nil)

	assert.Equal(t, 1, xc.unmounted)
	assert.Equal(t, 1, yc.unmounted)
	assert.Equal(t, "<div></div>", h.markup())
}
