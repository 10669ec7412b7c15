package reactive_test

import (
	"testing"

	"github.com/delaneyj/vdomparty/reactive"
	"github.com/stretchr/testify/assert"
)

func newSystem(t *testing.T) *reactive.System {
	t.Helper()
	return reactive.NewSystem(reactive.WithErrorHandler(func(from any, err error) {
		assert.FailNow(t, err.Error())
	}))
}

// should only re-run for keys read during the last run
func TestEffectConditionalDependencies(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"a": true, "b": 1, "c": 2})

	runs := 0
	reactive.Effect(rs, func() any {
		runs++
		if o.Get("a").(bool) {
			return o.Get("b")
		}
		return o.Get("c")
	})
	assert.Equal(t, 1, runs)

	o.Set("b", 10)
	assert.Equal(t, 2, runs)

	o.Set("a", false)
	assert.Equal(t, 3, runs)
	assert.Zero(t, rs.DependencyCount(o, "b"))

	o.Set("b", 11)
	assert.Equal(t, 3, runs)

	o.Set("c", 5)
	assert.Equal(t, 4, runs)
}

// should not re-run for unread keys
func TestEffectIgnoresUnreadKeys(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"read": 1, "unread": 1})

	runs := 0
	reactive.Effect(rs, func() any {
		runs++
		return o.Get("read")
	})

	o.Set("unread", 2)
	o.Set("fresh", 3)
	assert.Equal(t, 1, runs)
}

// should skip triggers when the value is unchanged, NaN included
func TestEffectSkipsIdenticalWrites(t *testing.T) {
	rs := newSystem(t)
	nan := 0.0
	nan /= nan
	o := reactive.Reactive(rs, map[string]any{"n": 1, "f": nan})

	runs := 0
	reactive.Effect(rs, func() any {
		runs++
		o.Get("n")
		return o.Get("f")
	})

	o.Set("n", 1)
	o.Set("f", nan)
	assert.Equal(t, 1, runs)
}

// should restore the outer effect after a nested one finishes
func TestNestedEffectRestoresOuter(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"outer": 1, "inner": 1})

	outerRuns, innerRuns := 0, 0
	reactive.Effect(rs, func() any {
		outerRuns++
		reactive.Effect(rs, func() any {
			innerRuns++
			return o.Get("inner")
		})
		return o.Get("outer")
	})
	assert.Equal(t, 1, outerRuns)
	assert.Equal(t, 1, innerRuns)

	o.Set("outer", 2)
	assert.Equal(t, 2, outerRuns)
	assert.Equal(t, 2, innerRuns)
}

// should not run lazy effects until asked
func TestLazyEffect(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"v": 1})

	runs := 0
	e := reactive.Effect(rs, func() any {
		runs++
		return o.Get("v")
	}, reactive.Lazy())
	assert.Zero(t, runs)
	assert.True(t, e.Dirty())

	assert.Equal(t, 1, e.Run())
	assert.Equal(t, 1, runs)
	assert.False(t, e.Dirty())
}

// should stop reacting once stopped
func TestEffectStop(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"v": 1})

	runs := 0
	e := reactive.Effect(rs, func() any {
		runs++
		return o.Get("v")
	})
	e.Stop()
	assert.False(t, e.Active())
	assert.Zero(t, e.DependencyCount())

	o.Set("v", 2)
	assert.Equal(t, 1, runs)
}

// should coalesce several writes into a single scheduled run
func TestSchedulerBatchesRuns(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"a": 1, "b": 1, "c": 1})

	renders := 0
	var runner *reactive.EffectRunner
	job := reactive.NewJob("render", func() {
		if runner.Dirty() {
			runner.Run()
		}
	})
	runner = reactive.Effect(rs, func() any {
		renders++
		return o.Get("a").(int) + o.Get("b").(int) + o.Get("c").(int)
	}, reactive.WithEffectScheduler(func(*reactive.EffectRunner) {
		rs.Scheduler().QueueJob(job)
	}))
	assert.Equal(t, 1, renders)

	o.Set("a", 2)
	o.Set("b", 2)
	o.Set("c", 2)
	assert.Equal(t, 1, renders)
	assert.True(t, rs.Scheduler().Pending())

	rs.Flush()
	assert.Equal(t, 2, renders)
	assert.False(t, rs.Scheduler().Pending())
}

// should not track reads inside Untracked
func TestUntracked(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"v": 1})

	runs := 0
	reactive.Effect(rs, func() any {
		runs++
		rs.Untracked(func() {
			o.Get("v")
		})
		return nil
	})

	o.Set("v", 2)
	assert.Equal(t, 1, runs)
}

// should let writes inside Detached schedule the running effect again
func TestDetachedWritesRetrigger(t *testing.T) {
	rs := newSystem(t)
	o := reactive.Reactive(rs, map[string]any{"v": 0, "other": 0})

	runs := 0
	var runner *reactive.EffectRunner
	job := reactive.NewJob("detached", func() {
		if runner.Dirty() {
			runner.Run()
		}
	})
	runner = reactive.Effect(rs, func() any {
		runs++
		v := o.Get("v").(int)
		rs.Detached(func() {
			o.Get("other")
			if v < 2 {
				o.Set("v", v+1)
			}
		})
		return v
	}, reactive.WithEffectScheduler(func(*reactive.EffectRunner) {
		rs.Scheduler().QueueJob(job)
	}))
	assert.Equal(t, 1, runs)

	rs.Flush()
	assert.Equal(t, 3, runs)
	assert.Equal(t, 2, o.Get("v"))
	assert.Zero(t, rs.DependencyCount(o, "other"))
}
