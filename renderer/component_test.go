package renderer_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/delaneyj/vdomparty/reactive"
	"github.com/delaneyj/vdomparty/renderer"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should re-render once after several writes in one turn
func TestComponentBatchesWrites(t *testing.T) {
	renders := 0
	counter := &renderer.Component{
		Name: "Counter",
		Data: func() map[string]any { return map[string]any{"a": 1, "b": 2, "c": 3} },
		Render: func(ctx *renderer.Context) *vnode.Node {
			renders++
			sum := ctx.Get("a").(int) + ctx.Get("b").(int) + ctx.Get("c").(int)
			return vnode.HText("p", nil, fmt.Sprint(sum))
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(counter, nil, nil))
	require.Equal(t, 1, renders)
	assert.Equal(t, "<div><p>6</p></div>", h.markup())

	state := h.rootInstance(t).State()
	state.Set("a", 10)
	state.Set("b", 20)
	state.Set("c", 30)
	assert.Equal(t, 1, renders)
	assert.Equal(t, "<div><p>6</p></div>", h.markup())

	h.flush()
	assert.Equal(t, 2, renders)
	assert.Equal(t, "<div><p>60</p></div>", h.markup())
}

// should re-render a child when the parent passes new props
func TestComponentPropsUpdate(t *testing.T) {
	childRenders := 0
	child := &renderer.Component{
		Name:  "Label",
		Props: renderer.PropsSchema{"text": {Default: "none"}},
		Render: func(ctx *renderer.Context) *vnode.Node {
			childRenders++
			return vnode.HText("span", nil, ctx.Get("text").(string))
		},
	}
	parent := &renderer.Component{
		Name: "Parent",
		Data: func() map[string]any { return map[string]any{"text": "a", "other": 0} },
		Render: func(ctx *renderer.Context) *vnode.Node {
			ctx.Get("other")
			return vnode.H("div", nil, vnode.Comp(child, vnode.Props{"text": ctx.Get("text")}, nil))
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(parent, nil, nil))
	assert.Equal(t, "<div><div><span>a</span></div></div>", h.markup())

	state := h.rootInstance(t).State()
	state.Set("text", "b")
	h.flush()
	assert.Equal(t, "<div><div><span>b</span></div></div>", h.markup())
	assert.Equal(t, 2, childRenders)

	state.Set("other", 1)
	h.flush()
	assert.Equal(t, 2, childRenders)
}

// should fill prop defaults, calling function defaults per instance
func TestComponentPropDefaults(t *testing.T) {
	calls := 0
	comp := &renderer.Component{
		Props: renderer.PropsSchema{
			"size": {Default: 3},
			"tags": {Default: func() any { calls++; return []string{"x"} }},
		},
		Render: func(ctx *renderer.Context) *vnode.Node {
			return vnode.HText("i", nil, fmt.Sprint(ctx.Get("size"), ctx.Get("tags")))
		},
	}
	h := newHarness(t)
	h.render(vnode.H("div", nil, vnode.Comp(comp, nil, nil), vnode.Comp(comp, vnode.Props{"size": 5}, nil)))
	assert.Equal(t, "<div><div><i>3 [x]</i><i>5 [x]</i></div></div>", h.markup())
	assert.Equal(t, 2, calls)
}

// should call lifecycle hooks in order
func TestComponentLifecycleOrder(t *testing.T) {
	var log []string
	hook := func(name string) renderer.Hook {
		return func(*renderer.Context) { log = append(log, name) }
	}
	comp := &renderer.Component{
		Name:          "Life",
		Data:          func() map[string]any { return map[string]any{"n": 0} },
		BeforeCreate:  hook("beforeCreate"),
		Created:       hook("created"),
		BeforeMount:   hook("beforeMount"),
		Mounted:       hook("mounted"),
		BeforeUpdate:  hook("beforeUpdate"),
		Updated:       hook("updated"),
		BeforeUnmount: hook("beforeUnmount"),
		Unmounted:     hook("unmounted"),
		Render: func(ctx *renderer.Context) *vnode.Node {
			log = append(log, "render")
			return vnode.HText("b", nil, fmt.Sprint(ctx.Get("n")))
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, nil, nil))
	inst := h.rootInstance(t)
	assert.Equal(t, renderer.PhaseMounted, inst.Phase())

	inst.State().Set("n", 1)
	h.flush()
	h.render(nil)

	assert.Equal(t, []string{
		"beforeCreate", "created", "beforeMount", "render", "mounted",
		"beforeUpdate", "render", "updated",
		"beforeUnmount", "unmounted",
	}, log)
	assert.Equal(t, renderer.PhaseUnmounted, inst.Phase())
}

// should unwrap refs returned from setup and write through them
func TestSetupStateRefs(t *testing.T) {
	var count *reactive.Ref[int]
	comp := &renderer.Component{
		Setup: func(_ *reactive.Object, sc *renderer.SetupContext) any {
			count = reactive.NewRef(sc.System(), 1)
			return map[string]any{"count": count}
		},
		Render: func(ctx *renderer.Context) *vnode.Node {
			return vnode.HText("b", nil, fmt.Sprint(ctx.Get("count")))
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, nil, nil))
	assert.Equal(t, "<div><b>1</b></div>", h.markup())

	count.SetValue(2)
	h.flush()
	assert.Equal(t, "<div><b>2</b></div>", h.markup())
}

// should render what a setup render function returns
func TestSetupRenderFunc(t *testing.T) {
	comp := &renderer.Component{
		Setup: func(props *reactive.Object, sc *renderer.SetupContext) any {
			n := reactive.NewRef(sc.System(), 0)
			sc.OnMounted(func() { n.SetValue(n.Peek() + 1) })
			return renderer.RenderFunc(func(*renderer.Context) *vnode.Node {
				return vnode.HText("b", nil, fmt.Sprint(n.Value()))
			})
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, nil, nil))
	assert.Equal(t, "<div><b>1</b></div>", h.markup())
	assert.Empty(t, h.errs)
}

// should report a render function from both setup and Render
func TestRenderConflict(t *testing.T) {
	comp := &renderer.Component{
		Setup: func(*reactive.Object, *renderer.SetupContext) any {
			return renderer.RenderFunc(func(*renderer.Context) *vnode.Node { return vnode.Text("setup") })
		},
		Render: func(*renderer.Context) *vnode.Node { return vnode.Text("static") },
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, nil, nil))
	require.Len(t, h.errs, 1)
	assert.True(t, errors.Is(h.errs[0], renderer.ErrRenderConflict))
	assert.Equal(t, "<div>setup</div>", h.markup())
}

// should report unknown keys and prop writes without aborting the render
func TestContextUsageErrors(t *testing.T) {
	comp := &renderer.Component{
		Props: renderer.PropsSchema{"title": {}},
		Render: func(ctx *renderer.Context) *vnode.Node {
			assert.Nil(t, ctx.Get("missing"))
			assert.False(t, ctx.Set("title", "changed"))
			assert.False(t, ctx.Set("missing", 1))
			return vnode.HText("h1", nil, ctx.Get("title").(string))
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, vnode.Props{"title": "ok"}, nil))
	assert.Equal(t, "<div><h1>ok</h1></div>", h.markup())
	require.Len(t, h.errs, 3)
	assert.True(t, errors.Is(h.errs[0], renderer.ErrUnknownProperty))
	assert.True(t, errors.Is(h.errs[1], renderer.ErrPropMutation))
	assert.True(t, errors.Is(h.errs[2], renderer.ErrUnknownProperty))
}

// should resolve props but not data from BeforeCreate
func TestBeforeCreateContext(t *testing.T) {
	var title any
	comp := &renderer.Component{
		Name:  "Early",
		Props: renderer.PropsSchema{"title": {}},
		Data:  func() map[string]any { return map[string]any{"count": 1} },
		BeforeCreate: func(ctx *renderer.Context) {
			title = ctx.Get("title")
			ctx.Get("count")
			ctx.Set("count", 2)
		},
		Render: func(ctx *renderer.Context) *vnode.Node {
			return vnode.HText("p", nil, fmt.Sprint(ctx.Get("count")))
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, vnode.Props{"title": "t"}, nil))

	assert.Equal(t, "t", title)
	assert.Equal(t, "<div><p>1</p></div>", h.markup())
	require.Len(t, h.errs, 2)
	for _, err := range h.errs {
		assert.True(t, errors.Is(err, renderer.ErrUnknownProperty))
		assert.False(t, errors.Is(err, renderer.ErrHookPanic))
	}
}

// should call the on-prefixed handler for an emitted event
func TestEmit(t *testing.T) {
	child := &renderer.Component{
		Name: "Saver",
		Mounted: func(ctx *renderer.Context) {
			ctx.Emit("save", 42)
			ctx.Emit("update-value", "v")
			ctx.Emit("close")
		},
		Render: func(*renderer.Context) *vnode.Node { return vnode.H("form", nil) },
	}
	var saved, updated []any
	h := newHarness(t)
	h.render(vnode.Comp(child, vnode.Props{
		"onSave":        func(args ...any) { saved = args },
		"onUpdateValue": func(args ...any) { updated = args },
	}, nil))

	assert.Equal(t, []any{42}, saved)
	assert.Equal(t, []any{"v"}, updated)
	require.Len(t, h.errs, 1)
	assert.True(t, errors.Is(h.errs[0], renderer.ErrMissingHandler))
}

// should not re-render a child when only its handler changes
func TestHandlerChangeSkipsRender(t *testing.T) {
	renders := 0
	child := &renderer.Component{
		Render: func(ctx *renderer.Context) *vnode.Node {
			renders++
			return vnode.H("button", nil)
		},
	}
	h := newHarness(t)
	got := ""
	h.render(vnode.Comp(child, vnode.Props{"onPress": func() { got = "first" }}, nil))
	h.render(vnode.Comp(child, vnode.Props{"onPress": func() { got = "second" }}, nil))
	assert.Equal(t, 1, renders)

	h.rootInstance(t).Props().Raw()["onPress"].(func())()
	assert.Equal(t, "second", got)
}

// should put undeclared attributes on the root element
func TestAttrsFallthrough(t *testing.T) {
	comp := &renderer.Component{
		Props: renderer.PropsSchema{"label": {}},
		Render: func(ctx *renderer.Context) *vnode.Node {
			return vnode.HText("div", vnode.Props{"class": "own"}, ctx.Get("label").(string))
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, vnode.Props{"label": "x", "class": "extra", "data-role": "card"}, nil))
	assert.Equal(t, `<div><div class="own extra" data-role="card">x</div></div>`, h.markup())

	h.render(vnode.Comp(comp, vnode.Props{"label": "x", "class": "other"}, nil))
	assert.Equal(t, `<div><div class="own other">x</div></div>`, h.markup())
}

// should keep attributes off the root when fallthrough is disabled
func TestAttrsFallthroughDisabled(t *testing.T) {
	comp := &renderer.Component{
		DisableAttrsFallthrough: true,
		Render: func(ctx *renderer.Context) *vnode.Node {
			assert.Equal(t, "card", ctx.Attrs().Get("data-role"))
			return vnode.H("div", nil)
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(comp, vnode.Props{"data-role": "card"}, nil))
	assert.Equal(t, `<div><div></div></div>`, h.markup())
}

// should render functional components from props
func TestFunctionalComponent(t *testing.T) {
	greet := renderer.Functional("Greet", renderer.PropsSchema{"name": {}}, func(ctx *renderer.Context) *vnode.Node {
		return vnode.HText("p", nil, "hi "+ctx.Get("name").(string))
	})
	h := newHarness(t)
	h.render(vnode.Comp(greet, vnode.Props{"name": "ann"}, nil))
	h.render(vnode.Comp(greet, vnode.Props{"name": "bo"}, nil))
	assert.Equal(t, "<div><p>hi bo</p></div>", h.markup())
}

// should render slots passed by the parent
func TestSlots(t *testing.T) {
	card := &renderer.Component{
		Render: func(ctx *renderer.Context) *vnode.Node {
			return vnode.H("article", nil,
				vnode.H("header", nil, ctx.Slot("title")...),
				vnode.H("main", nil, ctx.Slot("default")...),
			)
		},
	}
	h := newHarness(t)
	h.render(vnode.Comp(card, nil, vnode.Slots{
		"title":   func() []*vnode.Node { return []*vnode.Node{vnode.Text("T")} },
		"default": func() []*vnode.Node { return []*vnode.Node{vnode.HText("p", nil, "body")} },
	}))
	assert.Equal(t, "<div><article><header>T</header><main><p>body</p></main></article></div>", h.markup())
}

// should render a comment for a nil render result and recover from panics
func TestNilAndPanickingRender(t *testing.T) {
	empty := &renderer.Component{Render: func(*renderer.Context) *vnode.Node { return nil }}
	boom := &renderer.Component{Render: func(*renderer.Context) *vnode.Node { panic("boom") }}
	h := newHarness(t)
	h.render(vnode.H("div", nil, vnode.Comp(empty, nil, nil), vnode.Comp(boom, nil, nil)))
	assert.Equal(t, "<div><div><!----><!----></div></div>", h.markup())
	require.Len(t, h.errs, 1)
	assert.True(t, errors.Is(h.errs[0], renderer.ErrRenderPanic))
}

// should tear down children inside a removed element without extra removals
func TestNestedUnmount(t *testing.T) {
	unmounted := 0
	leaf := &renderer.Component{
		Unmounted: func(*renderer.Context) { unmounted++ },
		Render:    func(*renderer.Context) *vnode.Node { return vnode.H("i", nil) },
	}
	h := newHarness(t)
	h.render(vnode.H("section", nil, vnode.Comp(leaf, nil, nil), vnode.Comp(leaf, nil, nil)))
	h.doc.ResetOps()

	h.render(nil)
	assert.Equal(t, 2, unmounted)
	assert.Equal(t, 1, h.doc.Stats().Mutations())
}

// should keep a higher-order component's host node in sync with its child
func TestNestedComponentRootUpdate(t *testing.T) {
	inner := &renderer.Component{
		Data: func() map[string]any { return map[string]any{"tag": "p"} },
		Render: func(ctx *renderer.Context) *vnode.Node {
			return vnode.HText(ctx.Get("tag").(string), nil, "x")
		},
	}
	var innerInst *renderer.Instance
	outer := &renderer.Component{
		Render: func(*renderer.Context) *vnode.Node { return vnode.Comp(inner, nil, nil) },
		Mounted: func(ctx *renderer.Context) {
			innerInst = ctx.Instance().SubTree().Instance.(*renderer.Instance)
		},
	}
	h := newHarness(t)
	h.render(vnode.H("div", nil, vnode.Comp(outer, nil, nil), vnode.HText("b", nil, "end")))
	innerInst.State().Set("tag", "h2")
	h.flush()
	assert.Equal(t, "<div><div><h2>x</h2><b>end</b></div></div>", h.markup())

	outerNode := h.r.Root(h.root).Children[0]
	assert.Same(t, h.root.Children()[0].Children()[0], outerNode.El)
}
