package value

import "github.com/coreclj/coreclj/internal/gc"

// HashSet is array-backed with linear membership test, per spec.md §3.1.
// Iteration is deterministic within a process run (insertion order) even
// though the type is conceptually unordered.
type HashSet struct {
	heapHandle
	items []Value
	meta  Meta
}

func (*HashSet) Kind() Kind { return KindHashSet }

func (s *HashSet) Count() int { return len(s.items) }

func (s *HashSet) Contains(x Value) bool {
	for _, it := range s.items {
		if Eql(it, x) {
			return true
		}
	}
	return false
}

func (s *HashSet) Conj(x Value) *HashSet {
	if s.Contains(x) {
		return s
	}
	items := append(append([]Value(nil), s.items...), x)
	return &HashSet{heapHandle: s.heapHandle, items: items, meta: s.meta}
}

func (s *HashSet) Items() []Value { return s.items }
func (s *HashSet) Meta() Meta     { return s.meta }

func NewHashSet(h *gc.Heap, items []Value) *HashSet {
	p, _ := h.Alloc(len(items)*8, 8)
	s := &HashSet{heapHandle: heapHandle{ptr: p}, items: items}
	p.SetPayload(s)
	return s
}

var emptyHashSet = &HashSet{}

func EmptyHashSet() *HashSet { return emptyHashSet }
