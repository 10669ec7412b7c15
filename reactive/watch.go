package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type FlushMode uint8

const (
	// FlushSync runs the callback inside the trigger.
	FlushSync FlushMode = iota
	// FlushPost runs the callback once, after the current turn's job flush.
	FlushPost
)

type WatchOptions struct {
	Immediate bool
	Flush     FlushMode
}

// WatchCallback receives the new and previous source values.
type WatchCallback func(newValue, oldValue any)

// Watch observes source and calls cb when it changes. source may be a getter
// func() any, a ref or computed, or a tracked wrapper (watched deeply). The
// returned func stops the watcher.
func Watch(rs *System, source any, cb WatchCallback, opts WatchOptions) (stop func()) {
	var (
		getter func() any
		deep   bool
	)
	switch s := source.(type) {
	case func() any:
		getter = s
	case RefLike:
		getter = s.refValue
	case rawer:
		deep = true
		getter = func() any {
			traverse(s, mapset.NewThreadUnsafeSet[any]())
			return s
		}
	default:
		rs.log.Warn("watch source is not reactive")
		getter = func() any { return source }
	}

	var (
		oldValue any
		runner   *EffectRunner
		queued   bool
	)
	job := func() {
		if !runner.Active() {
			return
		}
		newValue := runner.Run()
		if deep || !identical(newValue, oldValue) {
			prev := oldValue
			oldValue = newValue
			cb(newValue, prev)
		}
	}

	runner = Effect(rs, getter, Lazy(), WithEffectScheduler(func(*EffectRunner) {
		if opts.Flush == FlushSync {
			job()
			return
		}
		if queued {
			return
		}
		queued = true
		rs.scheduler.NextTick(func() {
			queued = false
			job()
		})
	}))

	if opts.Immediate {
		job()
	} else {
		oldValue = runner.Run()
	}
	return runner.Stop
}

// traverse reads every reachable value so the active effect depends on all of
// them. seen guards against cycles.
func traverse(v any, seen mapset.Set[any]) {
	id := identityOf(v)
	if id == nil {
		return
	}
	if !seen.Add(id) {
		return
	}
	switch t := v.(type) {
	case *Object:
		t.Range(func(_ string, value any) bool {
			traverse(value, seen)
			return true
		})
	case *Array:
		t.Range(func(_ int, value any) bool {
			traverse(value, seen)
			return true
		})
	case *Map:
		for _, e := range t.Entries() {
			traverse(e.Value, seen)
		}
	case *Set:
		for _, value := range t.Values() {
			traverse(value, seen)
		}
	case RefLike:
		traverse(t.refValue(), seen)
	}
}
