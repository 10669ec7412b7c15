package reactive

// ComputedRef caches the result of a getter until one of its dependencies
// changes. The getter never runs before the first Value call.
type ComputedRef[T any] struct {
	rs     *System
	effect *EffectRunner
	value  T
	dirty  bool
}

func Computed[T any](rs *System, getter func() T) *ComputedRef[T] {
	c := &ComputedRef[T]{rs: rs, dirty: true}
	c.effect = Effect(rs, func() any {
		return getter()
	}, Lazy(), WithEffectScheduler(func(*EffectRunner) {
		if c.dirty {
			return
		}
		c.dirty = true
		rs.trigger(c, kindObject, valueKey, opSet, 0)
	}))
	return c
}

func (c *ComputedRef[T]) Value() T {
	if c.dirty {
		c.value, _ = c.effect.Run().(T)
		c.dirty = false
	}
	c.rs.track(c, valueKey)
	return c.value
}

// Stop detaches the computed; Value keeps returning the last result.
func (c *ComputedRef[T]) Stop() {
	c.effect.Stop()
	c.dirty = false
}

func (c *ComputedRef[T]) refValue() any {
	return c.Value()
}
