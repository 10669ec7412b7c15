package reactive

// Array is a tracked view over a *[]any. Index reads track the index, length
// reads track "length".
type Array struct {
	base
	raw *[]any
}

func ReactiveArray(rs *System, raw *[]any) *Array {
	return rs.array(raw, false, false)
}

func ShallowReactiveArray(rs *System, raw *[]any) *Array {
	return rs.array(raw, true, false)
}

func ReadonlyArray(rs *System, raw *[]any) *Array {
	return rs.array(raw, false, true)
}

func (rs *System) array(raw *[]any, shallow, readonly bool) *Array {
	if raw == nil {
		raw = &[]any{}
	}
	return rs.memo(raw, shallow, readonly, func(b base) any {
		b.kind = kindArray
		return &Array{base: b, raw: raw}
	}).(*Array)
}

func (a *Array) rawValue() any {
	return a.raw
}

func (a *Array) Raw() []any {
	return *a.raw
}

func (a *Array) Get(i int) any {
	a.track(i)
	s := *a.raw
	if i < 0 || i >= len(s) {
		return nil
	}
	return a.wrap(s[i])
}

func (a *Array) Len() int {
	a.track(lengthKey)
	return len(*a.raw)
}

// Set writes index i. Writing past the end grows the slice with nils and
// counts as an addition, which also notifies length readers.
func (a *Array) Set(i int, v any) bool {
	if i < 0 || a.denyWrite("set", i) {
		return false
	}
	v = a.stored(v)
	s := *a.raw
	if i < len(s) {
		old := s[i]
		s[i] = v
		if !identical(old, v) {
			a.trigger(i, opSet, 0)
		}
		return true
	}

	grown := make([]any, i+1)
	copy(grown, s)
	grown[i] = v
	*a.raw = grown
	a.trigger(i, opAdd, 0)
	return true
}

// SetLen truncates or grows the array, notifying length readers and readers
// of every index at or beyond the new length.
func (a *Array) SetLen(n int) bool {
	if n < 0 || a.denyWrite("set", lengthKey) {
		return false
	}
	s := *a.raw
	if n == len(s) {
		return true
	}
	if n < len(s) {
		clear(s[n:])
		*a.raw = s[:n]
	} else {
		grown := make([]any, n)
		copy(grown, s)
		*a.raw = grown
	}
	a.trigger(lengthKey, opSet, n)
	return true
}

// Values reads every element, subscribing to length and each index.
func (a *Array) Values() []any {
	n := a.Len()
	out := make([]any, n)
	for i := range n {
		out[i] = a.Get(i)
	}
	return out
}

func (a *Array) Range(fn func(i int, v any) bool) {
	n := a.Len()
	for i := range n {
		if !fn(i, a.Get(i)) {
			return
		}
	}
}

// The mutators below read and write length through the tracked accessors,
// so tracking is paused around them to keep an effect that pushes from
// subscribing to its own writes.

func (a *Array) Push(values ...any) int {
	a.rs.PauseTracking()
	defer a.rs.ResumeTracking()

	n := a.Len()
	for i, v := range values {
		a.Set(n+i, v)
	}
	return a.Len()
}

func (a *Array) Pop() any {
	a.rs.PauseTracking()
	defer a.rs.ResumeTracking()

	n := a.Len()
	if n == 0 {
		return nil
	}
	v := a.Get(n - 1)
	a.SetLen(n - 1)
	return v
}

func (a *Array) Shift() any {
	a.rs.PauseTracking()
	defer a.rs.ResumeTracking()

	n := a.Len()
	if n == 0 {
		return nil
	}
	v := a.Get(0)
	for i := 1; i < n; i++ {
		a.Set(i-1, (*a.raw)[i])
	}
	a.SetLen(n - 1)
	return v
}

func (a *Array) Unshift(values ...any) int {
	a.rs.PauseTracking()
	defer a.rs.ResumeTracking()

	n := a.Len()
	m := len(values)
	if m == 0 {
		return n
	}
	for i := n - 1; i >= 0; i-- {
		a.Set(i+m, (*a.raw)[i])
	}
	for i, v := range values {
		a.Set(i, v)
	}
	return a.Len()
}

// Splice removes deleteCount elements at start, inserts items in their place
// and returns the removed elements. A negative start counts from the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	a.rs.PauseTracking()
	defer a.rs.ResumeTracking()

	n := a.Len()
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = max(min(deleteCount, n-start), 0)

	removed := make([]any, deleteCount)
	for i := range deleteCount {
		removed[i] = a.Get(start + i)
	}

	s := *a.raw
	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, s[:start]...)
	for _, item := range items {
		next = append(next, a.stored(item))
	}
	next = append(next, s[start+deleteCount:]...)

	for i, v := range next {
		a.Set(i, v)
	}
	if len(next) < n {
		a.SetLen(len(next))
	}
	return removed
}

// Includes searches the tracked elements first and falls back to the raw
// slice, so both wrapped and raw values are found.
func (a *Array) Includes(v any) bool {
	return a.IndexOf(v) >= 0
}

func (a *Array) IndexOf(v any) int {
	n := a.Len()
	for i := range n {
		if identical(a.Get(i), v) {
			return i
		}
	}
	s := *a.raw
	for i := range s {
		if identical(s[i], v) {
			return i
		}
	}
	return -1
}

func (a *Array) LastIndexOf(v any) int {
	n := a.Len()
	for i := n - 1; i >= 0; i-- {
		if identical(a.Get(i), v) {
			return i
		}
	}
	s := *a.raw
	for i := len(s) - 1; i >= 0; i-- {
		if identical(s[i], v) {
			return i
		}
	}
	return -1
}
