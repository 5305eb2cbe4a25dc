package value

import "github.com/coreclj/coreclj/internal/gc"

// Vector is the indexed sequence, array-backed initially (spec.md §3.1
// flags it as "designed to evolve into a 32-way trie" — a later revision
// of the core, not required by this spec's invariants).
type Vector struct {
	heapHandle
	items []Value
	meta  Meta

	Line, Column uint32
	ChildLines   []uint32
	ChildColumns []uint32
}

func (*Vector) Kind() Kind { return KindVector }

func (v *Vector) Count() int { return len(v.items) }

func (v *Vector) Get(i int) (Value, bool) {
	if i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

func (v *Vector) Items() []Value { return v.items }

func (v *Vector) Meta() Meta { return v.meta }

func (v *Vector) WithMeta(m Meta) *Vector {
	n := *v
	n.meta = m
	return &n
}

// Conj returns a new Vector with x appended; the backing array is copied
// (persistent, not structurally shared on append — only Rest-on-List
// shares structure per the spec's invariant list).
func (v *Vector) Conj(x Value) *Vector {
	items := make([]Value, len(v.items)+1)
	copy(items, v.items)
	items[len(v.items)] = x
	return &Vector{heapHandle: v.heapHandle, items: items, meta: v.meta}
}

func NewVector(h *gc.Heap, items []Value) *Vector {
	p, _ := h.Alloc(len(items)*8, 8)
	vec := &Vector{heapHandle: heapHandle{ptr: p}, items: items}
	p.SetPayload(vec)
	return vec
}

var emptyVector = &Vector{}

func EmptyVector() *Vector { return emptyVector }
