package reactive

import (
	"slices"
)

// Object is a tracked view over a map[string]any.
type Object struct {
	base
	raw map[string]any
}

// Reactive returns the deep, writable wrapper for raw. Wrapping the same map
// twice yields the same *Object.
func Reactive(rs *System, raw map[string]any) *Object {
	return rs.object(raw, false, false)
}

func ShallowReactive(rs *System, raw map[string]any) *Object {
	return rs.object(raw, true, false)
}

func Readonly(rs *System, raw map[string]any) *Object {
	return rs.object(raw, false, true)
}

func ShallowReadonly(rs *System, raw map[string]any) *Object {
	return rs.object(raw, true, true)
}

func (rs *System) object(raw map[string]any, shallow, readonly bool) *Object {
	if raw == nil {
		raw = map[string]any{}
	}
	return rs.memo(raw, shallow, readonly, func(b base) any {
		b.kind = kindObject
		return &Object{base: b, raw: raw}
	}).(*Object)
}

func (o *Object) rawValue() any {
	return o.raw
}

// Raw is the escape hatch to the untracked map.
func (o *Object) Raw() map[string]any {
	return o.raw
}

func (o *Object) Get(key string) any {
	o.track(key)
	v, ok := o.raw[key]
	if !ok {
		return nil
	}
	return o.wrap(v)
}

// Lookup is Get that also reports presence. Both the value and the presence
// are tracked.
func (o *Object) Lookup(key string) (any, bool) {
	o.track(key)
	v, ok := o.raw[key]
	if !ok {
		return nil, false
	}
	return o.wrap(v), true
}

func (o *Object) Has(key string) bool {
	o.track(key)
	_, ok := o.raw[key]
	return ok
}

// Set writes key, notifying readers of key when the value changed and
// enumerators when the key is new. It returns false on readonly wrappers.
func (o *Object) Set(key string, v any) bool {
	if o.denyWrite("set", key) {
		return false
	}
	v = o.stored(v)
	old, had := o.raw[key]
	o.raw[key] = v
	switch {
	case !had:
		o.trigger(key, opAdd, 0)
	case !identical(old, v):
		o.trigger(key, opSet, 0)
	}
	return true
}

func (o *Object) Delete(key string) bool {
	if o.denyWrite("delete", key) {
		return false
	}
	if _, had := o.raw[key]; !had {
		return false
	}
	delete(o.raw, key)
	o.trigger(key, opDelete, 0)
	return true
}

// Keys returns the sorted key set and subscribes to additions and deletions.
func (o *Object) Keys() []string {
	o.track(iterateKey)
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (o *Object) Len() int {
	o.track(iterateKey)
	return len(o.raw)
}

// Range visits every key in sorted order; returning false stops early.
func (o *Object) Range(fn func(key string, value any) bool) {
	for _, k := range o.Keys() {
		if !fn(k, o.Get(k)) {
			return
		}
	}
}
