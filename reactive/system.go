package reactive

import (
	"go.uber.org/zap"
)

// OnErrorFunc receives usage errors and recovered job panics. It is never
// allowed to abort the current flush.
type OnErrorFunc func(from any, err error)

// System owns everything reactive: the dependency store, the effect stack,
// the wrapper memo and the job scheduler. A System must only be used from one
// goroutine; other goroutines talk to it through Scheduler.Post.
type System struct {
	store       depStore
	stack       []*EffectRunner
	trackStack  []bool
	shouldTrack bool
	wrappers    map[wrapperKey]any
	scheduler   *Scheduler
	log         *zap.Logger
	onError     OnErrorFunc
	nextID      uint64
}

type Option func(*System)

// WithLogger sets the diagnostics logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(rs *System) {
		if log != nil {
			rs.log = log
		}
	}
}

// WithErrorHandler replaces the default handler, which logs at warn level.
func WithErrorHandler(onError OnErrorFunc) Option {
	return func(rs *System) {
		rs.onError = onError
	}
}

// WithScheduler lets several systems share one job queue.
func WithScheduler(s *Scheduler) Option {
	return func(rs *System) {
		rs.scheduler = s
	}
}

func NewSystem(opts ...Option) *System {
	rs := &System{
		store:       depStore{},
		wrappers:    map[wrapperKey]any{},
		shouldTrack: true,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(rs)
	}
	if rs.scheduler == nil {
		rs.scheduler = NewScheduler(rs.log)
	}
	if rs.scheduler.onPanic == nil {
		rs.scheduler.onPanic = func(err error) {
			rs.ReportError(rs.scheduler, err)
		}
	}
	return rs
}

func (rs *System) Scheduler() *Scheduler {
	return rs.scheduler
}

func (rs *System) Logger() *zap.Logger {
	return rs.log
}

// Flush drains the microtask queue, running every pending job once.
func (rs *System) Flush() {
	rs.scheduler.Flush()
}

// ReportError sends a non-fatal error through the diagnostics channel.
func (rs *System) ReportError(from any, err error) {
	if rs.onError != nil {
		rs.onError(from, err)
		return
	}
	rs.log.Warn("reactive error", zap.Error(err))
}

func (rs *System) PauseTracking() {
	rs.trackStack = append(rs.trackStack, rs.shouldTrack)
	rs.shouldTrack = false
}

func (rs *System) EnableTracking() {
	rs.trackStack = append(rs.trackStack, rs.shouldTrack)
	rs.shouldTrack = true
}

func (rs *System) ResumeTracking() {
	lastIdx := len(rs.trackStack) - 1
	if lastIdx < 0 {
		rs.shouldTrack = true
		return
	}
	rs.shouldTrack = rs.trackStack[lastIdx]
	rs.trackStack = rs.trackStack[:lastIdx]
}

// Untracked runs fn without registering any dependency on the active effect.
func (rs *System) Untracked(fn func()) {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	fn()
}

// Detached runs fn as if no effect were running. Nothing is tracked and its
// writes may re-trigger the effect that called it.
func (rs *System) Detached(fn func()) {
	rs.stack = append(rs.stack, nil)
	defer func() {
		rs.stack = rs.stack[:len(rs.stack)-1]
	}()
	fn()
}

func (rs *System) activeEffect() *EffectRunner {
	if len(rs.stack) == 0 {
		return nil
	}
	return rs.stack[len(rs.stack)-1]
}
