package reactive

// EffectRunner is a re-runnable computation whose reads are tracked.
type EffectRunner struct {
	rs        *System
	id        uint64
	fn        func() any
	deps      []dependencySet
	scheduler func(*EffectRunner)
	lazy      bool
	active    bool
	dirty     bool
}

type EffectOption func(*EffectRunner)

// Lazy skips the initial run; the caller decides when to Run.
func Lazy() EffectOption {
	return func(e *EffectRunner) {
		e.lazy = true
	}
}

// WithEffectScheduler makes triggers call fn instead of re-running the
// effect immediately.
func WithEffectScheduler(fn func(*EffectRunner)) EffectOption {
	return func(e *EffectRunner) {
		e.scheduler = fn
	}
}

// Effect wraps fn so that every reactive read it performs is recorded, and
// any later write to one of those reads re-runs it (or calls its scheduler).
func Effect(rs *System, fn func() any, opts ...EffectOption) *EffectRunner {
	rs.nextID++
	e := &EffectRunner{
		rs:     rs,
		id:     rs.nextID,
		fn:     fn,
		active: true,
		dirty:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.lazy {
		e.Run()
	}
	return e
}

// Run drops every dependency recorded by the previous run, then executes the
// computation with this effect on top of the effect stack.
func (e *EffectRunner) Run() any {
	if !e.active {
		return e.fn()
	}

	rs := e.rs
	e.cleanup()
	rs.stack = append(rs.stack, e)
	rs.EnableTracking()
	defer func() {
		rs.ResumeTracking()
		rs.stack = rs.stack[:len(rs.stack)-1]
	}()

	e.dirty = false
	return e.fn()
}

// Stop detaches the effect from every dependency; triggers no longer reach it.
func (e *EffectRunner) Stop() {
	if !e.active {
		return
	}
	e.cleanup()
	e.active = false
}

func (e *EffectRunner) cleanup() {
	for _, deps := range e.deps {
		deps.Remove(e)
	}
	clear(e.deps)
	e.deps = e.deps[:0]
}

func (e *EffectRunner) ID() uint64 {
	return e.id
}

func (e *EffectRunner) Active() bool {
	return e.active
}

// Dirty reports whether a dependency changed since the last run.
func (e *EffectRunner) Dirty() bool {
	return e.dirty
}

// DependencyCount is the number of dependency sets this effect belongs to.
func (e *EffectRunner) DependencyCount() int {
	return len(e.deps)
}
