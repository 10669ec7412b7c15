package reactive

// MapData is an insertion-ordered raw map. Keys are compared by identity:
// maps, slices and funcs by address, everything else by value.
type MapData struct {
	keys   []any
	values map[any]any
	index  map[any]int
}

func NewMapData() *MapData {
	return &MapData{values: map[any]any{}, index: map[any]int{}}
}

func (m *MapData) init() {
	if m.values == nil {
		m.values = map[any]any{}
		m.index = map[any]int{}
	}
}

func (m *MapData) Get(k any) (any, bool) {
	m.init()
	v, ok := m.values[normKey(k)]
	return v, ok
}

// Set stores v under k and reports whether k was new.
func (m *MapData) Set(k, v any) bool {
	m.init()
	nk := normKey(k)
	_, had := m.values[nk]
	m.values[nk] = v
	if !had {
		m.index[nk] = len(m.keys)
		m.keys = append(m.keys, ToRaw(k))
	}
	return !had
}

func (m *MapData) Delete(k any) bool {
	m.init()
	nk := normKey(k)
	i, had := m.index[nk]
	if !had {
		return false
	}
	delete(m.values, nk)
	delete(m.index, nk)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	for j := i; j < len(m.keys); j++ {
		m.index[normKey(m.keys[j])] = j
	}
	return true
}

func (m *MapData) Len() int {
	return len(m.keys)
}

func (m *MapData) Clear() {
	m.keys = nil
	m.values = map[any]any{}
	m.index = map[any]int{}
}

// Keys returns the keys in insertion order.
func (m *MapData) Keys() []any {
	return append([]any(nil), m.keys...)
}

// SetData is an insertion-ordered raw set with the same key identity rules
// as MapData.
type SetData struct {
	m MapData
}

func NewSetData(values ...any) *SetData {
	s := &SetData{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s *SetData) Add(v any) bool {
	if _, ok := s.m.Get(v); ok {
		return false
	}
	return s.m.Set(v, struct{}{})
}

func (s *SetData) Has(v any) bool {
	_, ok := s.m.Get(v)
	return ok
}

func (s *SetData) Delete(v any) bool { return s.m.Delete(v) }
func (s *SetData) Len() int          { return s.m.Len() }
func (s *SetData) Clear()            { s.m.Clear() }
func (s *SetData) Values() []any     { return s.m.Keys() }

// Map is the tracked wrapper over *MapData. Value reads and key-shape reads
// are tracked separately so that Keys consumers ignore value-only writes.
type Map struct {
	base
	raw *MapData
}

func ReactiveMap(rs *System, raw *MapData) *Map {
	return rs.mapOf(raw, false, false)
}

func ReadonlyMap(rs *System, raw *MapData) *Map {
	return rs.mapOf(raw, false, true)
}

func (rs *System) mapOf(raw *MapData, shallow, readonly bool) *Map {
	if raw == nil {
		raw = NewMapData()
	}
	return rs.memo(raw, shallow, readonly, func(b base) any {
		b.kind = kindMap
		return &Map{base: b, raw: raw}
	}).(*Map)
}

func (m *Map) rawValue() any {
	return m.raw
}

func (m *Map) Raw() *MapData {
	return m.raw
}

func (m *Map) Get(k any) any {
	m.track(normKey(k))
	v, ok := m.raw.Get(k)
	if !ok {
		return nil
	}
	return m.wrap(v)
}

func (m *Map) Has(k any) bool {
	m.track(normKey(k))
	_, ok := m.raw.Get(k)
	return ok
}

func (m *Map) Set(k, v any) bool {
	if m.denyWrite("set", k) {
		return false
	}
	v = m.stored(v)
	nk := normKey(k)
	old, had := m.raw.Get(k)
	m.raw.Set(k, v)
	switch {
	case !had:
		m.trigger(nk, opAdd, 0)
	case !identical(old, v):
		m.trigger(nk, opSet, 0)
	}
	return true
}

func (m *Map) Delete(k any) bool {
	if m.denyWrite("delete", k) {
		return false
	}
	if !m.raw.Delete(k) {
		return false
	}
	m.trigger(normKey(k), opDelete, 0)
	return true
}

func (m *Map) Clear() {
	if m.denyWrite("clear", nil) {
		return
	}
	if m.raw.Len() == 0 {
		return
	}
	m.raw.Clear()
	m.trigger(nil, opClear, 0)
}

func (m *Map) Size() int {
	m.track(iterateKey)
	return m.raw.Len()
}

// Keys subscribes only to additions and deletions.
func (m *Map) Keys() []any {
	m.track(mapKeyIterateKey)
	keys := m.raw.Keys()
	for i, k := range keys {
		keys[i] = m.wrap(k)
	}
	return keys
}

func (m *Map) Values() []any {
	m.track(iterateKey)
	keys := m.raw.Keys()
	out := make([]any, len(keys))
	for i, k := range keys {
		v, _ := m.raw.Get(k)
		out[i] = m.wrap(v)
	}
	return out
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   any
	Value any
}

func (m *Map) Entries() []Entry {
	m.track(iterateKey)
	keys := m.raw.Keys()
	out := make([]Entry, len(keys))
	for i, k := range keys {
		v, _ := m.raw.Get(k)
		out[i] = Entry{Key: m.wrap(k), Value: m.wrap(v)}
	}
	return out
}

func (m *Map) ForEach(fn func(value, key any)) {
	for _, e := range m.Entries() {
		fn(e.Value, e.Key)
	}
}

// Set is the tracked wrapper over *SetData.
type Set struct {
	base
	raw *SetData
}

func ReactiveSet(rs *System, raw *SetData) *Set {
	return rs.setOf(raw, false, false)
}

func ReadonlySet(rs *System, raw *SetData) *Set {
	return rs.setOf(raw, false, true)
}

func (rs *System) setOf(raw *SetData, shallow, readonly bool) *Set {
	if raw == nil {
		raw = NewSetData()
	}
	return rs.memo(raw, shallow, readonly, func(b base) any {
		b.kind = kindSet
		return &Set{base: b, raw: raw}
	}).(*Set)
}

func (s *Set) rawValue() any {
	return s.raw
}

func (s *Set) Raw() *SetData {
	return s.raw
}

func (s *Set) Has(v any) bool {
	s.track(normKey(v))
	return s.raw.Has(v)
}

func (s *Set) Add(v any) bool {
	if s.denyWrite("add", v) {
		return false
	}
	v = s.stored(v)
	if !s.raw.Add(v) {
		return false
	}
	s.trigger(normKey(v), opAdd, 0)
	return true
}

func (s *Set) Delete(v any) bool {
	if s.denyWrite("delete", v) {
		return false
	}
	if !s.raw.Delete(v) {
		return false
	}
	s.trigger(normKey(v), opDelete, 0)
	return true
}

func (s *Set) Clear() {
	if s.denyWrite("clear", nil) {
		return
	}
	if s.raw.Len() == 0 {
		return
	}
	s.raw.Clear()
	s.trigger(nil, opClear, 0)
}

func (s *Set) Size() int {
	s.track(iterateKey)
	return s.raw.Len()
}

func (s *Set) Values() []any {
	s.track(iterateKey)
	values := s.raw.Values()
	for i, v := range values {
		values[i] = s.wrap(v)
	}
	return values
}

func (s *Set) ForEach(fn func(value any)) {
	for _, v := range s.Values() {
		fn(v)
	}
}
