package renderer

import (
	"fmt"
	"maps"
	"strings"

	"github.com/delaneyj/vdomparty/reactive"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type (
	Hook       func(ctx *Context)
	RenderFunc func(ctx *Context) *vnode.Node
	SetupFunc  func(props *reactive.Object, sc *SetupContext) any
)

// Prop declares a component prop. A Default of type func() any is called
// for every instance.
type Prop struct {
	Default any
}

type PropsSchema map[string]Prop

// Component describes a stateful component. Every field is optional.
type Component struct {
	Name  string
	Props PropsSchema
	Data  func() map[string]any
	Setup SetupFunc

	Render RenderFunc

	BeforeCreate  Hook
	Created       Hook
	BeforeMount   Hook
	Mounted       Hook
	BeforeUpdate  Hook
	Updated       Hook
	BeforeUnmount Hook
	Unmounted     Hook
	Activated     Hook
	Deactivated   Hook

	// DisableAttrsFallthrough keeps undeclared attributes off the root node.
	DisableAttrsFallthrough bool

	keepAlive bool
}

func (c *Component) ComponentName() string {
	if c.Name == "" {
		return "Anonymous"
	}
	return c.Name
}

// Functional builds a stateless component that renders fn on every update.
func Functional(name string, props PropsSchema, fn RenderFunc) *Component {
	return &Component{Name: name, Props: props, Render: fn}
}

type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseSetup
	PhaseMounted
	PhaseUpdating
	PhaseUnmounted
	PhaseDeactivated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseSetup:
		return "setup"
	case PhaseMounted:
		return "mounted"
	case PhaseUpdating:
		return "updating"
	case PhaseUnmounted:
		return "unmounted"
	case PhaseDeactivated:
		return "deactivated"
	default:
		return "unknown"
	}
}

type hookKind uint8

const (
	hookBeforeMount hookKind = iota
	hookMounted
	hookBeforeUpdate
	hookUpdated
	hookBeforeUnmount
	hookUnmounted
	hookActivated
	hookDeactivated
)

// Instance is a mounted component.
type Instance struct {
	UID uuid.UUID

	r      *Renderer
	comp   *Component
	vnode  *vnode.Node
	next   *vnode.Node
	parent *Instance
	phase  Phase

	state      *reactive.Object
	props      *reactive.Object
	attrs      *reactive.Object
	setupState *reactive.Object
	slots      vnode.Slots

	render  RenderFunc
	subTree *vnode.Node
	effect  *reactive.EffectRunner
	job     *reactive.Job
	ctx     *Context

	hooks     map[hookKind][]func()
	cleanups  []func()
	keepAlive *keepAliveContext
}

func (inst *Instance) Name() string            { return inst.comp.ComponentName() }
func (inst *Instance) Phase() Phase            { return inst.phase }
func (inst *Instance) SubTree() *vnode.Node    { return inst.subTree }
func (inst *Instance) Parent() *Instance       { return inst.parent }
func (inst *Instance) Props() *reactive.Object { return inst.props }
func (inst *Instance) State() *reactive.Object { return inst.state }

func (inst *Instance) setPhase(p Phase) {
	inst.phase = p
	inst.r.log.Debug("component phase",
		zap.String("component", inst.Name()),
		zap.Stringer("phase", p),
	)
	inst.r.emitLifecycle(inst)
}

func (inst *Instance) addHook(kind hookKind, fn func()) {
	inst.hooks[kind] = append(inst.hooks[kind], fn)
}

func (inst *Instance) callHook(kind hookKind) {
	var static Hook
	switch kind {
	case hookBeforeMount:
		static = inst.comp.BeforeMount
	case hookMounted:
		static = inst.comp.Mounted
	case hookBeforeUpdate:
		static = inst.comp.BeforeUpdate
	case hookUpdated:
		static = inst.comp.Updated
	case hookBeforeUnmount:
		static = inst.comp.BeforeUnmount
	case hookUnmounted:
		static = inst.comp.Unmounted
	case hookActivated:
		static = inst.comp.Activated
	case hookDeactivated:
		static = inst.comp.Deactivated
	}
	// Hooks run outside the render effect so their writes schedule a new
	// render instead of being dropped.
	inst.r.rs.Detached(func() {
		if static != nil {
			inst.safeCall(func() { static(inst.ctx) })
		}
		for _, fn := range inst.hooks[kind] {
			inst.safeCall(fn)
		}
	})
}

func (inst *Instance) safeCall(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			inst.r.ReportError(inst, fmt.Errorf("%w: %s: %v", ErrHookPanic, inst.Name(), rec))
		}
	}()
	fn()
}

func (inst *Instance) addCleanup(fn func()) {
	inst.cleanups = append(inst.cleanups, fn)
}

func (inst *Instance) runCleanups() {
	cleanups := inst.cleanups
	inst.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		inst.safeCall(cleanups[i])
	}
}

func (r *Renderer) processComponent(n1, n2 *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	if n1 != nil {
		r.patchComponent(n1, n2)
		return
	}
	if n2.KeptAlive {
		if owner, ok := n2.KeepAliveOwner.(*Instance); ok && owner.keepAlive != nil {
			owner.keepAlive.activate(n2, container, anchor)
			return
		}
	}
	r.mountComponent(n2, container, anchor, parent)
}

func (r *Renderer) mountComponent(n *vnode.Node, container, anchor vnode.HostNode, parent *Instance) {
	comp, ok := n.Comp.(*Component)
	if !ok {
		r.ReportError(n, fmt.Errorf("%w: unsupported descriptor %T", ErrMissingRender, n.Comp))
		comp = &Component{Name: n.Comp.ComponentName()}
	}

	inst := &Instance{
		UID:    uuid.New(),
		r:      r,
		comp:   comp,
		vnode:  n,
		parent: parent,
		slots:  n.Slots,
		hooks:  map[hookKind][]func(){},
	}
	inst.ctx = &Context{inst: inst}
	n.Instance = inst
	if comp.keepAlive {
		inst.keepAlive = &keepAliveContext{owner: inst}
	}

	r.setupComponent(inst)
	r.setupRenderEffect(inst, container, anchor)
	r.metrics.mounted("component")
}

// resolveProps splits raw node props into declared props and passthrough
// attributes and fills schema defaults.
func resolveProps(schema PropsSchema, raw vnode.Props) (props, attrs map[string]any) {
	props, attrs = map[string]any{}, map[string]any{}
	for k, p := range schema {
		if d, ok := p.Default.(func() any); ok {
			props[k] = d()
		} else {
			props[k] = p.Default
		}
	}
	for k, v := range raw {
		if _, declared := schema[k]; declared || isOn(k) {
			props[k] = v
		} else {
			attrs[k] = v
		}
	}
	return props, attrs
}

func (r *Renderer) setupComponent(inst *Instance) {
	rs := r.rs
	comp := inst.comp
	props, attrs := resolveProps(comp.Props, inst.vnode.Props)
	inst.props = reactive.ShallowReactive(rs, props)
	inst.attrs = reactive.ShallowReactive(rs, attrs)
	inst.setPhase(PhaseSetup)

	if comp.BeforeCreate != nil {
		inst.safeCall(func() { comp.BeforeCreate(inst.ctx) })
	}

	data := map[string]any{}
	if comp.Data != nil {
		if d := comp.Data(); d != nil {
			data = d
		}
	}
	inst.state = reactive.Reactive(rs, data)

	if comp.Setup != nil {
		sc := &SetupContext{inst: inst}
		var result any
		rs.Untracked(func() {
			inst.safeCall(func() {
				result = comp.Setup(inst.props, sc)
			})
		})

		switch res := result.(type) {
		case RenderFunc:
			inst.setRender(res)
		case func(*Context) *vnode.Node:
			inst.setRender(res)
		case map[string]any:
			inst.setupState = reactive.ShallowReactive(rs, res)
		case nil:
		default:
			r.log.Warn("setup returned an unsupported value",
				zap.String("component", inst.Name()),
				zap.String("type", fmt.Sprintf("%T", res)),
			)
		}
	}

	if inst.render == nil {
		inst.render = comp.Render
	}
	if inst.render == nil {
		r.ReportError(inst, fmt.Errorf("%w: %s", ErrMissingRender, inst.Name()))
	}

	if comp.Created != nil {
		inst.safeCall(func() { comp.Created(inst.ctx) })
	}
}

func (inst *Instance) setRender(fn RenderFunc) {
	if inst.comp.Render != nil {
		inst.r.ReportError(inst, fmt.Errorf("%w: %s", ErrRenderConflict, inst.Name()))
	}
	inst.render = fn
}

// setupRenderEffect wraps mounting and updating in an effect whose triggers
// queue the instance job, so any number of writes in one turn cause one
// re-render.
func (r *Renderer) setupRenderEffect(inst *Instance, container, anchor vnode.HostNode) {
	rs := r.rs
	update := func() any {
		if inst.subTree == nil {
			inst.callHook(hookBeforeMount)
			tree := r.renderRoot(inst)
			inst.subTree = tree
			r.patch(nil, tree, container, anchor, inst)
			inst.vnode.El = tree.El
			inst.setPhase(PhaseMounted)
			inst.callHook(hookMounted)
			if inst.vnode.ShouldKeepAlive {
				inst.callHook(hookActivated)
			}
			return nil
		}

		if next := inst.next; next != nil {
			inst.next = nil
			next.El = inst.vnode.El
			inst.vnode = next
		}
		inst.setPhase(PhaseUpdating)
		inst.callHook(hookBeforeUpdate)
		prevTree := inst.subTree
		nextTree := r.renderRoot(inst)
		inst.subTree = nextTree
		r.patch(prevTree, nextTree, r.host.Parent(firstHostNode(prevTree)), r.nextHostSibling(prevTree), inst)
		inst.vnode.El = nextTree.El
		// Parents whose root is this component own the same host node.
		for owner := inst; owner.parent != nil && owner.parent.subTree == owner.vnode; owner = owner.parent {
			owner.parent.vnode.El = nextTree.El
		}
		inst.setPhase(PhaseMounted)
		inst.callHook(hookUpdated)
		return nil
	}

	inst.job = reactive.NewJob(inst.Name(), func() {
		if inst.effect.Active() && inst.effect.Dirty() {
			inst.effect.Run()
		}
	})
	inst.effect = reactive.Effect(rs, update, reactive.Lazy(), reactive.WithEffectScheduler(func(*reactive.EffectRunner) {
		rs.Scheduler().QueueJob(inst.job)
	}))
	inst.effect.Run()
}

// renderRoot calls the render function and applies attribute fallthrough.
// A nil result renders as a comment. Transition hooks on the component node
// move down to the root it renders.
func (r *Renderer) renderRoot(inst *Instance) (tree *vnode.Node) {
	r.metrics.componentRender()
	if inst.render != nil {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					r.ReportError(inst, fmt.Errorf("%w: %s: %v", ErrRenderPanic, inst.Name(), rec))
					tree = nil
				}
			}()
			tree = inst.render(inst.ctx)
		}()
	}
	if tree == nil {
		return vnode.Comment("")
	}
	if tree.Kind != vnode.KindElement && tree.Kind != vnode.KindComponent {
		return tree
	}
	if t := inst.vnode.Transition; t != nil && tree.Transition == nil {
		tree.Transition = t
	}

	if inst.comp.DisableAttrsFallthrough {
		return tree
	}
	keys := inst.attrs.Keys()
	if len(keys) == 0 {
		return tree
	}
	merged := make(vnode.Props, len(tree.Props)+len(keys))
	maps.Copy(merged, tree.Props)
	for _, k := range keys {
		v := inst.attrs.Get(k)
		if k == "class" {
			if own, ok := merged[k].(string); ok && own != "" {
				if extra, ok := v.(string); ok && extra != "" {
					v = own + " " + extra
				}
			}
		}
		merged[k] = v
	}
	out := *tree
	out.Props = merged
	if tree.PatchFlag != 0 {
		out.PatchFlag |= vnode.FlagFullProps
	}
	return &out
}

// patchComponent moves the instance onto n2 and re-renders when its inputs
// changed.
func (r *Renderer) patchComponent(n1, n2 *vnode.Node) {
	inst, ok := n1.Instance.(*Instance)
	if !ok {
		return
	}
	n2.Instance = inst
	n2.El = n1.El

	changed := r.updateProps(inst, n2.Props)
	if n1.Slots != nil || n2.Slots != nil {
		inst.slots = n2.Slots
		changed = true
	}
	if !changed {
		inst.vnode = n2
		return
	}
	inst.next = n2
	inst.effect.Run()
}

// updateProps writes new prop and attr values through the reactive wrappers
// and reports whether anything the render can see changed. Handlers are
// written raw since only Emit reads them.
func (r *Renderer) updateProps(inst *Instance, raw vnode.Props) bool {
	props, attrs := resolveProps(inst.comp.Props, raw)
	changed := false

	rawProps := inst.props.Raw()
	for k, v := range props {
		if isOn(k) {
			rawProps[k] = v
			continue
		}
		if old, had := rawProps[k]; !had || !propEqual(old, v) {
			changed = true
			inst.props.Set(k, v)
		}
	}
	for k := range rawProps {
		if _, kept := props[k]; !kept {
			if !isOn(k) {
				changed = true
			}
			inst.props.Delete(k)
		}
	}

	rawAttrs := inst.attrs.Raw()
	for k, v := range attrs {
		if old, had := rawAttrs[k]; !had || !propEqual(old, v) {
			changed = true
			inst.attrs.Set(k, v)
		}
	}
	for k := range rawAttrs {
		if _, kept := attrs[k]; !kept {
			changed = true
			inst.attrs.Delete(k)
		}
	}
	return changed
}

func (r *Renderer) unmountComponent(inst *Instance, doRemove bool) {
	inst.callHook(hookBeforeUnmount)
	inst.effect.Stop()
	inst.runCleanups()
	if inst.subTree != nil {
		r.unmount(inst.subTree, inst, doRemove)
	}
	inst.setPhase(PhaseUnmounted)
	inst.callHook(hookUnmounted)
}

// Context is the view a render function and option hooks get of an
// instance. Get and Set resolve state first, then props, then setup state.
type Context struct {
	inst *Instance
}

func (c *Context) Get(key string) any {
	inst := c.inst
	if inst.state != nil {
		if _, ok := inst.state.Raw()[key]; ok {
			return inst.state.Get(key)
		}
	}
	if _, ok := inst.props.Raw()[key]; ok {
		return inst.props.Get(key)
	}
	if inst.setupState != nil {
		if _, ok := inst.setupState.Raw()[key]; ok {
			return reactive.Unref(inst.setupState.Get(key))
		}
	}
	inst.r.ReportError(inst, fmt.Errorf("%w: get %q on %s", ErrUnknownProperty, key, inst.Name()))
	return nil
}

func (c *Context) Set(key string, v any) bool {
	inst := c.inst
	if inst.state != nil {
		if _, ok := inst.state.Raw()[key]; ok {
			return inst.state.Set(key, v)
		}
	}
	if _, ok := inst.props.Raw()[key]; ok {
		inst.r.ReportError(inst, fmt.Errorf("%w: set %q on %s", ErrPropMutation, key, inst.Name()))
		return false
	}
	if inst.setupState != nil {
		if cur, ok := inst.setupState.Raw()[key]; ok {
			if reactive.SetRef(cur, v) {
				return true
			}
			return inst.setupState.Set(key, v)
		}
	}
	inst.r.ReportError(inst, fmt.Errorf("%w: set %q on %s", ErrUnknownProperty, key, inst.Name()))
	return false
}

func (c *Context) Props() *reactive.Object  { return c.inst.props }
func (c *Context) Attrs() *reactive.Object  { return c.inst.attrs }
func (c *Context) State() *reactive.Object  { return c.inst.state }
func (c *Context) Instance() *Instance      { return c.inst }
func (c *Context) System() *reactive.System { return c.inst.r.rs }

// Slot renders the named slot, or nil when the parent passed none.
func (c *Context) Slot(name string) []*vnode.Node {
	if s, ok := c.inst.slots[name]; ok && s != nil {
		return s()
	}
	return nil
}

func (c *Context) Emit(event string, args ...any) {
	c.inst.emit(event, args...)
}

func (inst *Instance) emit(event string, args ...any) {
	name := handlerName(event)
	switch h := inst.props.Raw()[name].(type) {
	case func(...any):
		h(args...)
	case func():
		h()
	case nil:
		inst.r.ReportError(inst, fmt.Errorf("%w: %s emitted %q", ErrMissingHandler, inst.Name(), event))
	default:
		inst.r.ReportError(inst, fmt.Errorf("%w: %s emitted %q, handler is %T", ErrMissingHandler, inst.Name(), event, h))
	}
}

// SetupContext is handed to Setup. Lifecycle registrations made through it
// belong to the instance being set up.
type SetupContext struct {
	inst *Instance
}

func (sc *SetupContext) Attrs() *reactive.Object  { return sc.inst.attrs }
func (sc *SetupContext) Slots() vnode.Slots       { return sc.inst.slots }
func (sc *SetupContext) System() *reactive.System { return sc.inst.r.rs }
func (sc *SetupContext) Instance() *Instance      { return sc.inst }

func (sc *SetupContext) Emit(event string, args ...any) {
	sc.inst.emit(event, args...)
}

func (sc *SetupContext) OnBeforeMount(fn func())   { sc.inst.addHook(hookBeforeMount, fn) }
func (sc *SetupContext) OnMounted(fn func())       { sc.inst.addHook(hookMounted, fn) }
func (sc *SetupContext) OnBeforeUpdate(fn func())  { sc.inst.addHook(hookBeforeUpdate, fn) }
func (sc *SetupContext) OnUpdated(fn func())       { sc.inst.addHook(hookUpdated, fn) }
func (sc *SetupContext) OnBeforeUnmount(fn func()) { sc.inst.addHook(hookBeforeUnmount, fn) }
func (sc *SetupContext) OnUnmounted(fn func())     { sc.inst.addHook(hookUnmounted, fn) }
func (sc *SetupContext) OnActivated(fn func())     { sc.inst.addHook(hookActivated, fn) }
func (sc *SetupContext) OnDeactivated(fn func())   { sc.inst.addHook(hookDeactivated, fn) }

// OnCleanup runs fn when the instance is unmounted, after BeforeUnmount.
func (sc *SetupContext) OnCleanup(fn func()) { sc.inst.addCleanup(fn) }

// Watch is reactive.Watch stopped automatically on unmount.
func (sc *SetupContext) Watch(source any, cb reactive.WatchCallback, opts reactive.WatchOptions) (stop func()) {
	stop = reactive.Watch(sc.inst.r.rs, source, cb, opts)
	sc.inst.addCleanup(stop)
	return stop
}

func (inst *Instance) String() string {
	var b strings.Builder
	b.WriteString(inst.Name())
	b.WriteByte('#')
	b.WriteString(inst.UID.String()[:8])
	return b.String()
}
