package renderer

import (
	"time"

	"github.com/delaneyj/vdomparty/vnode"
)

// TransitionProps are the hooks Transition attaches to its child. Leave must
// call done once the element may be detached.
type TransitionProps struct {
	BeforeEnter func(el vnode.HostNode)
	Enter       func(el vnode.HostNode)
	Leave       func(el vnode.HostNode, done func())
}

// Transition renders its default slot child with enter and leave hooks.
// When the child is a component the hooks reach the root element it renders.
func Transition(p TransitionProps) *Component {
	return &Component{
		Name:                    "Transition",
		DisableAttrsFallthrough: true,
		Render: func(ctx *Context) *vnode.Node {
			children := ctx.Slot("default")
			if len(children) == 0 {
				return nil
			}
			inner := children[0]
			inner.Transition = &vnode.TransitionHooks{
				BeforeEnter: p.BeforeEnter,
				Enter:       p.Enter,
				Leave:       p.Leave,
			}
			return inner
		},
	}
}

// ClassListHost is implemented by hosts that can toggle single classes.
type ClassListHost interface {
	AddClass(el vnode.HostNode, class string)
	RemoveClass(el vnode.HostNode, class string)
}

// ClassTransition drives enter and leave through classes named after name:
// <name>-enter-from, -enter-active, -enter-to and the leave equivalents.
// The "to" state is applied on the next microtask and cleared after
// duration on the renderer clock.
func (r *Renderer) ClassTransition(name string, duration time.Duration) TransitionProps {
	if name == "" {
		name = "v"
	}
	add := func(el vnode.HostNode, suffix string) {
		if r.classes != nil {
			r.classes.AddClass(el, name+suffix)
		}
	}
	del := func(el vnode.HostNode, suffix string) {
		if r.classes != nil {
			r.classes.RemoveClass(el, name+suffix)
		}
	}
	sched := r.rs.Scheduler()

	return TransitionProps{
		BeforeEnter: func(el vnode.HostNode) {
			add(el, "-enter-from")
			add(el, "-enter-active")
		},
		Enter: func(el vnode.HostNode) {
			sched.QueueMicrotask(func() {
				del(el, "-enter-from")
				add(el, "-enter-to")
				r.after(duration, func() {
					del(el, "-enter-to")
					del(el, "-enter-active")
				})
			})
		},
		Leave: func(el vnode.HostNode, done func()) {
			add(el, "-leave-from")
			add(el, "-leave-active")
			sched.QueueMicrotask(func() {
				del(el, "-leave-from")
				add(el, "-leave-to")
				r.after(duration, func() {
					del(el, "-leave-to")
					del(el, "-leave-active")
					done()
				})
			})
		},
	}
}

// after runs fn on the loop goroutine once d has passed on the renderer
// clock. The returned func cancels it.
func (r *Renderer) after(d time.Duration, fn func()) (cancel func()) {
	if d <= 0 {
		r.rs.Scheduler().QueueMicrotask(fn)
		return func() {}
	}
	timer := r.clock.NewTimer(d)
	stop := make(chan struct{})
	go func() {
		select {
		case <-timer.C():
			r.rs.Scheduler().Post(fn)
		case <-stop:
		}
	}()
	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		timer.Stop()
		close(stop)
	}
}
