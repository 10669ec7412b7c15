package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/delaneyj/vdomparty/reactive"
	"github.com/delaneyj/vdomparty/vnode"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultAsyncDelay is how long an async component waits before showing its
// loading component.
const DefaultAsyncDelay = 200 * time.Millisecond

// AsyncLoader produces the component to render. It runs on its own
// goroutine; ctx is cancelled once no mounted instance waits for it.
type AsyncLoader func(ctx context.Context) (*Component, error)

type AsyncOptions struct {
	Name   string
	Loader AsyncLoader

	// Loading is shown once Delay has passed without a result. A zero Delay
	// means DefaultAsyncDelay; a negative one shows Loading immediately.
	Loading *Component
	Delay   time.Duration

	// Error is rendered after a failure with the error under the "error" prop.
	Error *Component
	// Timeout fails the load with ErrAsyncTimeout. Zero disables it.
	Timeout time.Duration

	// OnError decides what happens to a failed load. retry runs the loader
	// again; fail settles the component as failed. Both must be called on the
	// loop goroutine. attempts counts earlier retries.
	OnError func(err error, retry, fail func(), attempts int)
}

type asyncState uint8

const (
	asyncIdle asyncState = iota
	asyncLoading
	asyncResolved
	asyncFailed
)

func (s asyncState) String() string {
	switch s {
	case asyncIdle:
		return "idle"
	case asyncLoading:
		return "loading"
	case asyncResolved:
		return "resolved"
	case asyncFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// asyncDef is shared by every instance of one async component so that
// concurrent mounts wait on a single loader call.
type asyncDef struct {
	opts  AsyncOptions
	group singleflight.Group

	mu       sync.Mutex
	resolved *Component
	ctx      context.Context
	cancel   context.CancelFunc
	waiters  int
}

func (d *asyncDef) loaded() *Component {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolved
}

// start joins the in-flight load, or begins one, and posts its result to s.
// release stops waiting; the last waiter to leave cancels the loader.
func (d *asyncDef) start(s *reactive.Scheduler, done func(*Component, error)) (release func()) {
	d.mu.Lock()
	if d.waiters == 0 {
		d.ctx, d.cancel = context.WithCancel(context.Background())
	}
	d.waiters++
	ctx := d.ctx
	d.mu.Unlock()

	ch := d.group.DoChan("load", func() (any, error) {
		comp, err := d.opts.Loader(ctx)
		if err == nil && comp != nil {
			d.mu.Lock()
			d.resolved = comp
			d.mu.Unlock()
		}
		return comp, err
	})

	stop := make(chan struct{})
	go func() {
		select {
		case res := <-ch:
			comp, _ := res.Val.(*Component)
			s.Post(func() { done(comp, res.Err) })
		case <-stop:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			d.mu.Lock()
			d.waiters--
			if d.waiters == 0 {
				d.cancel()
				d.group.Forget("load")
			}
			d.mu.Unlock()
		})
	}
}

// DefineAsyncComponent wraps a lazily loaded component. Instances move from
// loading to resolved or failed; failed is final, so a loader that settles
// after a timeout is ignored.
func DefineAsyncComponent(opts AsyncOptions) *Component {
	if opts.Name == "" {
		opts.Name = "AsyncComponentWrapper"
	}
	if opts.Delay == 0 {
		opts.Delay = DefaultAsyncDelay
	}
	def := &asyncDef{opts: opts}

	inner := func(inst *Instance, comp *Component) *vnode.Node {
		return vnode.Comp(comp, inst.vnode.Props, inst.slots)
	}

	return &Component{
		Name:                    opts.Name,
		DisableAttrsFallthrough: true,
		Setup: func(_ *reactive.Object, sc *SetupContext) any {
			inst := sc.inst
			r := inst.r
			rs := r.rs

			if comp := def.loaded(); comp != nil {
				return RenderFunc(func(*Context) *vnode.Node { return inner(inst, comp) })
			}
			if opts.Loader == nil {
				err := fmt.Errorf("%w: %s has no loader", ErrAsyncLoad, opts.Name)
				r.ReportError(inst, err)
				return RenderFunc(func(*Context) *vnode.Node { return nil })
			}

			state := reactive.NewRef(rs, asyncLoading)
			delayed := reactive.NewRef(rs, opts.Delay > 0)
			var (
				comp     *Component
				loadErr  error
				settled  bool
				attempts int
				release  func()
				timers   []func()
			)

			after := func(d time.Duration, fn func()) {
				timers = append(timers, r.after(d, func() {
					if !settled {
						fn()
					}
				}))
			}
			finish := func() {
				settled = true
				for _, cancel := range timers {
					cancel()
				}
				timers = nil
				if release != nil {
					release()
					release = nil
				}
			}
			resolve := func(c *Component) {
				finish()
				comp = c
				state.SetValue(asyncResolved)
				r.emitAsyncState(opts.Name, asyncResolved, attempts, nil)
			}
			fail := func(err error) {
				if settled {
					return
				}
				finish()
				loadErr = err
				r.log.Error("async component failed",
					zap.String("component", opts.Name),
					zap.Int("attempts", attempts),
					zap.Error(err),
				)
				r.ReportError(inst, err)
				state.SetValue(asyncFailed)
				r.emitAsyncState(opts.Name, asyncFailed, attempts, err)
			}

			var load func()
			onResult := func(c *Component, err error) {
				if settled {
					return
				}
				if err == nil && c == nil {
					err = errors.New("loader returned no component")
				}
				if err == nil {
					resolve(c)
					return
				}
				err = fmt.Errorf("%w: %s: %w", ErrAsyncLoad, opts.Name, err)
				if opts.OnError == nil {
					fail(err)
					return
				}
				release()
				release = nil
				retried := false
				retry := func() {
					if settled || retried {
						return
					}
					retried = true
					attempts++
					load()
				}
				opts.OnError(err, retry, func() { fail(err) }, attempts)
			}
			load = func() {
				release = def.start(rs.Scheduler(), onResult)
			}

			if opts.Delay > 0 {
				after(opts.Delay, func() { delayed.SetValue(false) })
			}
			if opts.Timeout > 0 {
				after(opts.Timeout, func() {
					fail(fmt.Errorf("%w: %s after %s", ErrAsyncTimeout, opts.Name, opts.Timeout))
				})
			}
			load()
			sc.OnCleanup(finish)

			return RenderFunc(func(*Context) *vnode.Node {
				switch state.Value() {
				case asyncResolved:
					return inner(inst, comp)
				case asyncFailed:
					if opts.Error != nil {
						return vnode.Comp(opts.Error, vnode.Props{"error": loadErr}, nil)
					}
					return nil
				default:
					if opts.Loading != nil && !delayed.Value() {
						return vnode.Comp(opts.Loading, nil, nil)
					}
					return vnode.Text("")
				}
			})
		},
	}
}
