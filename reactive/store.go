package reactive

import (
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Reserved dependency keys. iterateKey covers anything that enumerates a
// container, mapKeyIterateKey only the key set of a Map.
type (
	iterateKeyType       struct{}
	mapKeyIterateKeyType struct{}
)

var (
	iterateKey       = iterateKeyType{}
	mapKeyIterateKey = mapKeyIterateKeyType{}
)

const (
	lengthKey = "length"
	valueKey  = "value"
)

type triggerOp uint8

const (
	opSet triggerOp = iota
	opAdd
	opDelete
	opClear
)

type targetKind uint8

const (
	kindObject targetKind = iota
	kindArray
	kindMap
	kindSet
)

type dependencySet = mapset.Set[*EffectRunner]

// depStore maps target identity -> key -> effects that read it during their
// last run.
type depStore map[any]map[any]dependencySet

func (rs *System) track(target, key any) {
	e := rs.activeEffect()
	if e == nil || !rs.shouldTrack {
		return
	}

	keys, ok := rs.store[target]
	if !ok {
		keys = map[any]dependencySet{}
		rs.store[target] = keys
	}
	deps, ok := keys[key]
	if !ok {
		deps = mapset.NewThreadUnsafeSet[*EffectRunner]()
		keys[key] = deps
	}
	if deps.Add(e) {
		e.deps = append(e.deps, deps)
	}
}

func (rs *System) trigger(target any, kind targetKind, key any, op triggerOp, newLen int) {
	keys, ok := rs.store[target]
	if !ok {
		return
	}

	active := rs.activeEffect()
	toRun := mapset.NewThreadUnsafeSet[*EffectRunner]()
	add := func(deps dependencySet) {
		if deps == nil {
			return
		}
		for _, e := range deps.ToSlice() {
			if e != active {
				toRun.Add(e)
			}
		}
	}

	if op == opClear {
		for _, deps := range keys {
			add(deps)
		}
	} else {
		add(keys[key])

		switch {
		case op == opAdd || op == opDelete:
			add(keys[iterateKey])
			if kind == kindMap {
				add(keys[mapKeyIterateKey])
			}
		case op == opSet && kind == kindMap:
			add(keys[iterateKey])
		}

		if kind == kindArray {
			if op == opAdd {
				add(keys[lengthKey])
			}
			if key == lengthKey {
				for k, deps := range keys {
					if idx, isIndex := k.(int); isIndex && idx >= newLen {
						add(deps)
					}
				}
			}
		}
	}

	effects := toRun.ToSlice()
	slices.SortFunc(effects, func(a, b *EffectRunner) int {
		return cmp.Compare(a.id, b.id)
	})
	for _, e := range effects {
		if !e.active {
			continue
		}
		e.dirty = true
		if e.scheduler != nil {
			e.scheduler(e)
		} else {
			e.Run()
		}
	}
}

// DependencyCount reports how many effects currently depend on key of the
// wrapped value. Meant for diagnostics and tests.
func (rs *System) DependencyCount(wrapped any, key any) int {
	id := identityOf(wrapped)
	if id == nil {
		return 0
	}
	keys, ok := rs.store[id]
	if !ok {
		return 0
	}
	deps, ok := keys[key]
	if !ok {
		return 0
	}
	return deps.Cardinality()
}
