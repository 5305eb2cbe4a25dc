package value

import "github.com/coreclj/coreclj/internal/gc"

// List is the immutable ordered sequence, array-backed initially per
// spec.md §3.1 ("designed to evolve into a 32-way trie" applies to Vector,
// not List). Rest is a slice re-slice, which in Go shares the same backing
// array — giving the "rest on a list does not copy" invariant for free.
type List struct {
	heapHandle
	items []Value
	meta  Meta

	// Source positions, round-tripped through Form→Value→Form (spec.md
	// §3.1, §4.5). Zero when constructed at runtime, not from source text.
	Line, Column uint32
	ChildLines   []uint32
	ChildColumns []uint32
}

func (*List) Kind() Kind { return KindList }

func (l *List) Count() int { return len(l.items) }

func (l *List) First() Value {
	if len(l.items) == 0 {
		return NilValue
	}
	return l.items[0]
}

func (l *List) Rest() *List {
	if len(l.items) == 0 {
		return l
	}
	r := &List{heapHandle: l.heapHandle, items: l.items[1:], meta: l.meta}
	if len(l.ChildLines) > 1 {
		r.ChildLines = l.ChildLines[1:]
		r.ChildColumns = l.ChildColumns[1:]
	}
	return r
}

func (l *List) Nth(i int) (Value, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

func (l *List) Items() []Value { return l.items }

func (l *List) Meta() Meta { return l.meta }

func (l *List) WithMeta(m Meta) *List {
	n := *l
	n.meta = m
	return &n
}

// NewList allocates a List whose backing array is tracked by the GC heap.
func NewList(h *gc.Heap, items []Value) *List {
	p, _ := h.Alloc(len(items)*8, 8)
	l := &List{heapHandle: heapHandle{ptr: p}, items: items}
	p.SetPayload(l)
	return l
}

// EmptyList is the shared empty-list sentinel; it carries no backing array
// so it needs no heap allocation.
var emptyList = &List{}

func EmptyList() *List { return emptyList }
