package renderer

import (
	"regexp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/vdomparty/reactive"
	"github.com/delaneyj/vdomparty/vnode"
	"go.uber.org/zap"
)

// KeepAliveOptions filter which children are cached. Include and Exclude
// match the component name; Max bounds the cache, evicting the least
// recently used entry.
type KeepAliveOptions struct {
	Include *regexp.Regexp
	Exclude *regexp.Regexp
	Max     int
}

type cacheKey struct {
	comp vnode.Descriptor
	key  string
}

// keepAliveContext lets the renderer move cached subtrees in and out of an
// off-tree storage element instead of mounting and unmounting them.
type keepAliveContext struct {
	owner   *Instance
	storage vnode.HostNode
	cache   map[cacheKey]*vnode.Node
	keys    mapset.Set[cacheKey]
	order   []cacheKey
}

func (ka *keepAliveContext) touch(k cacheKey) {
	if i := slices.Index(ka.order, k); i >= 0 {
		ka.order = slices.Delete(ka.order, i, i+1)
	}
	ka.order = append(ka.order, k)
}

func (ka *keepAliveContext) forget(k cacheKey) {
	delete(ka.cache, k)
	ka.keys.Remove(k)
	if i := slices.Index(ka.order, k); i >= 0 {
		ka.order = slices.Delete(ka.order, i, i+1)
	}
}

// activate brings a cached subtree back from storage and lets its instance
// see the new props.
func (ka *keepAliveContext) activate(n *vnode.Node, container, anchor vnode.HostNode) {
	r := ka.owner.r
	inst, ok := n.Instance.(*Instance)
	if !ok {
		return
	}
	r.moveNode(n, container, anchor)
	r.patch(inst.vnode, n, container, anchor, ka.owner)
	inst.setPhase(PhaseMounted)
	inst.callHook(hookActivated)
}

func (ka *keepAliveContext) deactivate(n *vnode.Node) {
	r := ka.owner.r
	inst, ok := n.Instance.(*Instance)
	if !ok {
		return
	}
	r.moveNode(n, ka.storage, nil)
	inst.setPhase(PhaseDeactivated)
	inst.callHook(hookDeactivated)
}

func resetKeepAlive(n *vnode.Node) {
	n.ShouldKeepAlive = false
	n.KeptAlive = false
}

// prune evicts k. The entry currently rendered is only unflagged; the patch
// that replaces it then unmounts it for real.
func (ka *keepAliveContext) prune(k cacheKey) {
	r := ka.owner.r
	cached := ka.cache[k]
	ka.forget(k)
	if cached == nil {
		return
	}
	current := ka.owner.subTree
	resetKeepAlive(cached)
	if current != nil && current.Instance == cached.Instance {
		resetKeepAlive(current)
		return
	}
	r.unmount(cached, ka.owner, true)
}

// KeepAlive caches the component rendered in its default slot so switching
// away and back reuses the same instance.
func KeepAlive(opts KeepAliveOptions) *Component {
	return &Component{
		Name:                    "KeepAlive",
		keepAlive:               true,
		DisableAttrsFallthrough: true,
		Setup: func(_ *reactive.Object, sc *SetupContext) any {
			inst := sc.inst
			r := inst.r
			ka := inst.keepAlive
			ka.storage = r.host.CreateElement("div")
			ka.cache = map[cacheKey]*vnode.Node{}
			ka.keys = mapset.NewThreadUnsafeSet[cacheKey]()

			var (
				pending    cacheKey
				hasPending bool
			)
			cacheSubtree := func() {
				if hasPending {
					ka.cache[pending] = inst.subTree
				}
			}
			sc.OnMounted(cacheSubtree)
			sc.OnUpdated(cacheSubtree)

			sc.OnBeforeUnmount(func() {
				current := inst.subTree
				for _, k := range slices.Clone(ka.order) {
					cached := ka.cache[k]
					if cached == nil {
						continue
					}
					resetKeepAlive(cached)
					if current != nil && cached.Instance == current.Instance {
						resetKeepAlive(current)
						if ci, ok := cached.Instance.(*Instance); ok {
							ci.callHook(hookDeactivated)
						}
						continue
					}
					r.unmount(cached, inst, true)
				}
				ka.cache = map[cacheKey]*vnode.Node{}
				ka.keys.Clear()
				ka.order = nil
			})

			return RenderFunc(func(ctx *Context) *vnode.Node {
				hasPending = false
				children := ctx.Slot("default")
				switch len(children) {
				case 0:
					return nil
				case 1:
				default:
					r.log.Warn("KeepAlive expects exactly one child", zap.Int("children", len(children)))
					return vnode.Fragment(children...)
				}

				child := children[0]
				comp, ok := child.Comp.(*Component)
				if child.Kind != vnode.KindComponent || !ok {
					return child
				}
				name := comp.ComponentName()
				if (opts.Include != nil && !opts.Include.MatchString(name)) ||
					(opts.Exclude != nil && opts.Exclude.MatchString(name)) {
					return child
				}

				k := cacheKey{comp: comp, key: child.Key}
				if cached, hit := ka.cache[k]; hit {
					child.El = cached.El
					child.Instance = cached.Instance
					child.KeptAlive = true
					ka.touch(k)
				} else {
					ka.keys.Add(k)
					ka.touch(k)
					if opts.Max > 0 && ka.keys.Cardinality() > opts.Max {
						ka.prune(ka.order[0])
					}
				}
				child.ShouldKeepAlive = true
				child.KeepAliveOwner = inst
				pending, hasPending = k, true
				return child
			})
		},
	}
}
