package reactive

// RefLike is anything that boxes a single tracked value: refs and computeds.
type RefLike interface {
	refValue() any
}

type writableRef interface {
	RefLike
	setRefValue(v any)
}

// Ref boxes a value in a shallow reactive object under the key "value".
type Ref[T any] struct {
	box *Object
}

func NewRef[T any](rs *System, initial T) *Ref[T] {
	return &Ref[T]{box: ShallowReactive(rs, map[string]any{valueKey: initial})}
}

func (r *Ref[T]) Value() T {
	v, _ := r.box.Get(valueKey).(T)
	return v
}

func (r *Ref[T]) SetValue(v T) {
	r.box.Set(valueKey, v)
}

// Peek reads the value without tracking.
func (r *Ref[T]) Peek() T {
	v, _ := r.box.raw[valueKey].(T)
	return v
}

func (r *Ref[T]) refValue() any {
	return r.box.Get(valueKey)
}

func (r *Ref[T]) setRefValue(v any) {
	r.box.Set(valueKey, v)
}

// IsRef reports whether v is a ref or a computed.
func IsRef(v any) bool {
	_, ok := v.(RefLike)
	return ok
}

// Unref returns the boxed value of a ref, or v itself.
func Unref(v any) any {
	if r, ok := v.(RefLike); ok {
		return r.refValue()
	}
	return v
}

// SetRef writes through a writable ref and reports whether v was one.
func SetRef(ref, v any) bool {
	if r, ok := ref.(writableRef); ok {
		r.setRefValue(v)
		return true
	}
	return false
}
