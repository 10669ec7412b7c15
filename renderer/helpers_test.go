package renderer_test

import (
	"testing"

	"github.com/delaneyj/vdomparty/hostdom"
	"github.com/delaneyj/vdomparty/renderer"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type harness struct {
	doc  *hostdom.Document
	root *hostdom.Node
	r    *renderer.Renderer
	errs []error
}

func newHarness(t *testing.T, opts ...renderer.Option) *harness {
	t.Helper()
	h := &harness{doc: hostdom.NewDocument()}
	h.root = h.doc.Element("div")
	opts = append([]renderer.Option{
		renderer.WithErrorHandler(func(_ any, err error) {
			h.errs = append(h.errs, err)
		}),
	}, opts...)
	h.r = renderer.New(h.doc, opts...)
	return h
}

// render patches n into the root and drains the microtasks it queued.
func (h *harness) render(n *vnode.Node) {
	h.r.Render(n, h.root)
	h.flush()
}

func (h *harness) flush() { h.r.Scheduler().Flush() }

func (h *harness) markup() string { return hostdom.Markup(h.root) }

func (h *harness) rootInstance(t *testing.T) *renderer.Instance {
	t.Helper()
	root := h.r.Root(h.root)
	require.NotNil(t, root)
	inst, ok := root.Instance.(*renderer.Instance)
	require.True(t, ok)
	return inst
}

func keyedList(keys ...string) *vnode.Node {
	items := make([]*vnode.Node, 0, len(keys))
	for _, k := range keys {
		items = append(items, vnode.HText("li", vnode.Props{"key": k}, k))
	}
	return vnode.H("ul", nil, items...)
}

func listMarkup(keys ...string) string {
	s := "<div><ul>"
	for _, k := range keys {
		s += "<li>" + k + "</li>"
	}
	return s + "</ul></div>"
}

// verifyNoLeaks ignores capitan's per-signal workers, which live for the
// whole process once any test emits a lifecycle signal.
func verifyNoLeaks(t *testing.T) {
	t.Helper()
	goleak.VerifyNone(t, goleak.IgnoreTopFunction("github.com/zoobzio/capitan.(*Capitan).processEvents"))
}
