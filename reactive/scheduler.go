package reactive

import (
	"context"
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// RecursionLimit bounds how many times one job may run inside a single flush.
const RecursionLimit = 100

// Job is a unit of scheduled work. Jobs are deduplicated by pointer identity.
type Job struct {
	Name string
	Fn   func()
}

func NewJob(name string, fn func()) *Job {
	return &Job{Name: name, Fn: fn}
}

// Scheduler is a single-threaded microtask queue plus a coalescing job queue.
// Work produced on other goroutines enters through Post and runs on whichever
// goroutine drives RunOnce, RunPending or Run.
type Scheduler struct {
	log     *zap.Logger
	onPanic func(err error)

	microtasks []func()

	queue          []*Job
	pending        mapset.Set[*Job]
	flushScheduled bool
	flushing       bool
	postFlush      []func()

	ingressMu sync.Mutex
	ingress   []func()
	wake      chan struct{}
}

func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		log:     log,
		pending: mapset.NewThreadUnsafeSet[*Job](),
		wake:    make(chan struct{}, 1),
	}
}

// QueueJob adds job to the pending queue unless it is already waiting. The
// first job queued in a turn schedules a single microtask that drains the
// queue in first-scheduled order.
func (s *Scheduler) QueueJob(job *Job) {
	if !s.pending.Add(job) {
		return
	}
	s.queue = append(s.queue, job)
	if !s.flushScheduled {
		s.flushScheduled = true
		s.QueueMicrotask(s.flushJobs)
	}
}

func (s *Scheduler) flushJobs() {
	s.flushing = true
	runs := map[*Job]int{}

	for i := 0; i < len(s.queue); i++ {
		job := s.queue[i]
		s.pending.Remove(job)
		runs[job]++
		if runs[job] > RecursionLimit {
			err := fmt.Errorf("%w: job %q", ErrRecursionLimit, job.Name)
			s.log.Error("job recursion limit reached", zap.String("job", job.Name))
			if s.onPanic != nil {
				s.onPanic(err)
			}
			continue
		}
		s.safeRun(job.Name, job.Fn)
	}

	clear(s.queue)
	s.queue = s.queue[:0]
	s.flushing = false
	s.flushScheduled = false

	post := s.postFlush
	s.postFlush = nil
	for _, fn := range post {
		s.safeRun("post-flush", fn)
	}
}

// QueueMicrotask defers fn until the current synchronous turn ends.
func (s *Scheduler) QueueMicrotask(fn func()) {
	s.microtasks = append(s.microtasks, fn)
}

// NextTick runs fn after the pending job flush, or on the next microtask when
// nothing is pending.
func (s *Scheduler) NextTick(fn func()) {
	if s.flushScheduled {
		s.postFlush = append(s.postFlush, fn)
		return
	}
	s.QueueMicrotask(fn)
}

// Flush drains the microtask queue, including microtasks queued while
// draining.
func (s *Scheduler) Flush() {
	for len(s.microtasks) > 0 {
		task := s.microtasks[0]
		s.microtasks[0] = nil
		s.microtasks = s.microtasks[1:]
		s.safeRun("microtask", task)
	}
}

// Pending reports whether microtasks are waiting for Flush.
func (s *Scheduler) Pending() bool {
	return len(s.microtasks) > 0
}

// Flushing reports whether the job queue is being drained right now.
func (s *Scheduler) Flushing() bool {
	return s.flushing
}

// Post enqueues fn from any goroutine. It runs on the loop goroutine.
func (s *Scheduler) Post(fn func()) {
	s.ingressMu.Lock()
	s.ingress = append(s.ingress, fn)
	s.ingressMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// RunPending runs everything posted so far without blocking, flushing
// microtasks after each task. It returns the number of tasks run.
func (s *Scheduler) RunPending() int {
	s.ingressMu.Lock()
	tasks := s.ingress
	s.ingress = nil
	s.ingressMu.Unlock()

	for _, task := range tasks {
		s.safeRun("ingress", task)
		s.Flush()
	}
	return len(tasks)
}

// RunOnce blocks until at least one posted task has run or ctx is done.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	for {
		if s.RunPending() > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

// Run processes posted work until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Flush()
	for {
		if err := s.RunOnce(ctx); err != nil {
			return err
		}
	}
}

func (s *Scheduler) safeRun(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduled task panicked", zap.String("task", name), zap.Any("panic", r))
			if s.onPanic != nil {
				s.onPanic(fmt.Errorf("%w: %s: %v", ErrTaskPanic, name, r))
			}
		}
	}()
	fn()
}
