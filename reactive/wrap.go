package reactive

import (
	"fmt"
	"math"
	"reflect"
)

type wrapperKey struct {
	id       any
	shallow  bool
	readonly bool
}

// rawer is implemented by every tracked wrapper.
type rawer interface {
	rawValue() any
	targetID() any
}

// base carries what every tracked wrapper shares: the owning system, the
// identity of the raw target in the dependency store, and its flags.
type base struct {
	rs       *System
	id       any
	kind     targetKind
	shallow  bool
	readonly bool
}

func (b *base) targetID() any {
	return b.id
}

func (b *base) track(key any) {
	if b.readonly {
		return
	}
	b.rs.track(b.id, key)
}

func (b *base) trigger(key any, op triggerOp, newLen int) {
	b.rs.trigger(b.id, b.kind, key, op, newLen)
}

func (b *base) wrap(v any) any {
	if b.shallow {
		return v
	}
	return b.rs.wrap(v, false, b.readonly)
}

// stored converts a written value to what the raw target keeps: deep
// wrappers never store other wrappers, shallow ones keep what they are given.
func (b *base) stored(v any) any {
	if b.shallow {
		return v
	}
	return ToRaw(v)
}

func (b *base) denyWrite(op string, key any) bool {
	if !b.readonly {
		return false
	}
	b.rs.ReportError(b, fmt.Errorf("%w: %s %v", ErrReadonly, op, key))
	return true
}

// IsReadonly reports whether writes through the wrapper are rejected.
func (b *base) IsReadonly() bool {
	return b.readonly
}

// IsShallow reports whether nested values are returned unwrapped.
func (b *base) IsShallow() bool {
	return b.shallow
}

// Wrap returns the canonical tracked wrapper for raw. Values that cannot be
// tracked (scalars, funcs, plain slices) are returned unchanged.
func Wrap(rs *System, raw any, shallow, readonly bool) any {
	return rs.wrap(raw, shallow, readonly)
}

func (rs *System) wrap(raw any, shallow, readonly bool) any {
	switch r := raw.(type) {
	case map[string]any:
		return rs.object(r, shallow, readonly)
	case *[]any:
		return rs.array(r, shallow, readonly)
	case *MapData:
		return rs.mapOf(r, shallow, readonly)
	case *SetData:
		return rs.setOf(r, shallow, readonly)
	default:
		return raw
	}
}

func (rs *System) memo(raw any, shallow, readonly bool, build func(b base) any) any {
	k := wrapperKey{id: identityOf(raw), shallow: shallow, readonly: readonly}
	if existing, ok := rs.wrappers[k]; ok {
		return existing
	}
	w := build(base{rs: rs, id: k.id, shallow: shallow, readonly: readonly})
	rs.wrappers[k] = w
	return w
}

// identityOf returns the dependency-store identity of a raw target or wrapper.
func identityOf(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case rawer:
		return t.targetID()
	case map[string]any:
		return reflect.ValueOf(t).UnsafePointer()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		return rv.UnsafePointer()
	}
	return nil
}

// ToRaw strips a tracked wrapper, returning the underlying raw value.
func ToRaw(v any) any {
	if w, ok := v.(rawer); ok {
		return w.rawValue()
	}
	return v
}

// IsReactive reports whether v is a tracked wrapper.
func IsReactive(v any) bool {
	_, ok := v.(rawer)
	return ok
}

// identical is identity comparison: maps, pointers and slices by address,
// funcs never equal, NaN equal to itself, everything else by value.
func identical(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Func:
		return false
	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	}

	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	defer func() {
		if recover() != nil {
			same = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// normKey makes a raw collection key usable as a Go map key.
func normKey(k any) any {
	k = ToRaw(k)
	if k == nil {
		return nil
	}
	switch reflect.TypeOf(k).Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		return reflect.ValueOf(k).Pointer()
	}
	return k
}
