// Package renderer reconciles render trees against a Host and drives
// component instances through the reactive system.
package renderer

import (
	"github.com/delaneyj/vdomparty/reactive"
	"github.com/delaneyj/vdomparty/vnode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// DiffStrategy selects the keyed list algorithm.
type DiffStrategy uint8

const (
	// FastDiff trims common ends, then moves only nodes off the longest
	// increasing subsequence.
	FastDiff DiffStrategy = iota
	// DoubleEnded compares the four list ends each step.
	DoubleEnded
	// Simple scans old children for each new child.
	Simple
)

func (s DiffStrategy) String() string {
	switch s {
	case FastDiff:
		return "fast"
	case DoubleEnded:
		return "double"
	case Simple:
		return "simple"
	default:
		return "unknown"
	}
}

// ParseDiffStrategy accepts the names printed by String.
func ParseDiffStrategy(s string) (DiffStrategy, bool) {
	for _, d := range []DiffStrategy{FastDiff, DoubleEnded, Simple} {
		if d.String() == s {
			return d, true
		}
	}
	return FastDiff, false
}

type Renderer struct {
	host     Host
	rs       *reactive.System
	log      *zap.Logger
	clock    clockz.Clock
	strategy DiffStrategy
	metrics  *Metrics
	onError  reactive.OnErrorFunc
	events   bool
	resolver TargetResolver
	classes  ClassListHost

	roots map[vnode.HostNode]*vnode.Node
}

type Option func(*Renderer)

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithSystem binds the renderer to an existing reactive system. By default
// the renderer creates its own, routing its errors to the renderer's
// handler.
func WithSystem(rs *reactive.System) Option {
	return func(r *Renderer) {
		r.rs = rs
	}
}

// WithClock sets the clock used for async component timers.
func WithClock(clock clockz.Clock) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

func WithDiffStrategy(s DiffStrategy) Option {
	return func(r *Renderer) {
		r.strategy = s
	}
}

// WithMetrics registers renderer metrics with reg and counts every host call.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Renderer) {
		r.metrics = NewMetrics(reg)
	}
}

// WithErrorHandler receives usage errors and async failures. The default
// logs them.
func WithErrorHandler(onError reactive.OnErrorFunc) Option {
	return func(r *Renderer) {
		r.onError = onError
	}
}

// WithLifecycleEvents emits capitan signals for instance phase changes and
// async loading state.
func WithLifecycleEvents() Option {
	return func(r *Renderer) {
		r.events = true
	}
}

func New(host Host, opts ...Option) *Renderer {
	r := &Renderer{
		host:  host,
		log:   zap.NewNop(),
		clock: clockz.RealClock,
		roots: map[vnode.HostNode]*vnode.Node{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rs == nil {
		r.rs = reactive.NewSystem(
			reactive.WithLogger(r.log),
			reactive.WithErrorHandler(r.ReportError),
		)
	}
	r.resolver, _ = host.(TargetResolver)
	r.classes, _ = host.(ClassListHost)
	if r.metrics != nil {
		r.host = instrumentedHost{Host: host, m: r.metrics}
	}
	return r
}

func (r *Renderer) System() *reactive.System {
	return r.rs
}

func (r *Renderer) Scheduler() *reactive.Scheduler {
	return r.rs.Scheduler()
}

func (r *Renderer) Strategy() DiffStrategy {
	return r.strategy
}

// ReportError delivers a non-fatal error to the error handler.
func (r *Renderer) ReportError(from any, err error) {
	if r.onError != nil {
		r.onError(from, err)
		return
	}
	r.log.Warn("render error", zap.Error(err))
}

// Render diffs node against whatever was last rendered into container. A nil
// node unmounts the previous tree.
func (r *Renderer) Render(node *vnode.Node, container vnode.HostNode) {
	start := r.clock.Now()
	defer func() {
		r.metrics.observeRender(r.clock.Since(start))
	}()

	prev := r.roots[container]
	if node == nil {
		if prev != nil {
			r.unmount(prev, nil, true)
			delete(r.roots, container)
		}
		return
	}
	r.patch(prev, node, container, nil, nil)
	r.roots[container] = node
}

// Root returns the tree last rendered into container.
func (r *Renderer) Root(container vnode.HostNode) *vnode.Node {
	return r.roots[container]
}
