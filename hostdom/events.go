package hostdom

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	Type      string
	Timestamp time.Time
	Args      []any
}

// invoker is the one listener bound per event name. Changing the handler
// swaps its target instead of rebinding.
type invoker struct {
	handler  any
	attached time.Time
}

func (d *Document) patchEvent(n *Node, name string, next any) {
	inv := n.invokers[name]
	switch {
	case next == nil && inv == nil:
	case next == nil:
		delete(n.invokers, name)
		d.record(OpUnlisten, n, name)
	case inv != nil:
		inv.handler = next
		d.record(OpInvokerSwap, n, name)
	default:
		if n.invokers == nil {
			n.invokers = map[string]*invoker{}
		}
		n.invokers[name] = &invoker{handler: next, attached: d.clock.Now()}
		d.record(OpListen, n, name)
	}
}

// Now is the document clock's current time, for stamping events.
func (d *Document) Now() time.Time { return d.clock.Now() }

// Dispatch delivers ev to the listener on n. Events stamped before the
// listener was attached are dropped; a zero Timestamp means now. It reports
// whether a handler ran.
func (d *Document) Dispatch(n *Node, ev Event) bool {
	inv := n.invokers[ev.Type]
	if inv == nil {
		return false
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = d.clock.Now()
	}
	if ev.Timestamp.Before(inv.attached) {
		d.log.Debug("event predates listener",
			zap.String("event", ev.Type),
			zap.Int("node", n.ID),
			zap.Time("event_time", ev.Timestamp),
			zap.Time("attached", inv.attached),
		)
		return false
	}
	switch h := inv.handler.(type) {
	case func():
		h()
	case func(Event):
		h(ev)
	case func(...any):
		h(ev.Args...)
	default:
		d.log.Warn("unsupported event handler",
			zap.String("event", ev.Type),
			zap.String("type", fmt.Sprintf("%T", h)),
		)
		return false
	}
	return true
}

// Listening reports whether n has a listener for event.
func (n *Node) Listening(event string) bool {
	_, ok := n.invokers[event]
	return ok
}
