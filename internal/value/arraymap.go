package value

import "github.com/coreclj/coreclj/internal/gc"

// ArrayMap is the insertion-ordered key/value representation used up to N
// entries (spec.md §3.1), with linear lookup — cheap for the small maps
// that dominate real programs (function argument maps, small records).
type ArrayMap struct {
	heapHandle
	keys   []Value
	vals   []Value
	meta   Meta
}

func (*ArrayMap) Kind() Kind { return KindArrayMap }

// ArrayMapThreshold is the entry count above which a hash_map should be
// built instead; enforced by callers (e.g. FormToValue's map conversion),
// not by ArrayMap itself.
const ArrayMapThreshold = 8

func (m *ArrayMap) Count() int { return len(m.keys) }

func (m *ArrayMap) Get(key Value) (Value, bool) {
	for i, k := range m.keys {
		if Eql(k, key) {
			return m.vals[i], true
		}
	}
	return nil, false
}

func (m *ArrayMap) Assoc(key, val Value) *ArrayMap {
	for i, k := range m.keys {
		if Eql(k, key) {
			keys := append([]Value(nil), m.keys...)
			vals := append([]Value(nil), m.vals...)
			vals[i] = val
			return &ArrayMap{heapHandle: m.heapHandle, keys: keys, vals: vals, meta: m.meta}
		}
	}
	keys := append(append([]Value(nil), m.keys...), key)
	vals := append(append([]Value(nil), m.vals...), val)
	return &ArrayMap{heapHandle: m.heapHandle, keys: keys, vals: vals, meta: m.meta}
}

func (m *ArrayMap) Keys() []Value { return m.keys }
func (m *ArrayMap) Vals() []Value { return m.vals }
func (m *ArrayMap) Meta() Meta    { return m.meta }

func NewArrayMap(h *gc.Heap, keys, vals []Value) *ArrayMap {
	p, _ := h.Alloc((len(keys)+len(vals))*8, 8)
	m := &ArrayMap{heapHandle: heapHandle{ptr: p}, keys: keys, vals: vals}
	p.SetPayload(m)
	return m
}

var emptyArrayMap = &ArrayMap{}

func EmptyArrayMap() *ArrayMap { return emptyArrayMap }
