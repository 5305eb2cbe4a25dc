package value

import "github.com/coreclj/coreclj/internal/gc"

// Thunk produces the realized value of a LazySeq on first deref. It is
// supplied by the evaluator (fn_val bodies, in the full system); the core
// only needs to memoize the result, never to re-invoke it once realized.
type Thunk func() (Value, error)

// LazySeq is realized at most once: once Realized holds a value, Thunk must
// not be invoked again (spec.md §3.1 invariant).
type LazySeq struct {
	heapHandle
	thunk    Thunk
	realized Value // nil until Realize succeeds
	meta     Meta
}

func (*LazySeq) Kind() Kind { return KindLazySeq }

func (l *LazySeq) IsRealized() bool { return l.realized != nil }

// Realize memoizes thunk()'s result. Calling it again after success returns
// the cached value without invoking thunk, satisfying the idempotence
// invariant.
func (l *LazySeq) Realize() (Value, error) {
	if l.realized != nil {
		return l.realized, nil
	}
	v, err := l.thunk()
	if err != nil {
		return nil, err
	}
	l.realized = v
	return v, nil
}

func (l *LazySeq) Meta() Meta { return l.meta }

func NewLazySeq(h *gc.Heap, thunk Thunk) *LazySeq {
	p, _ := h.Alloc(8, 8)
	ls := &LazySeq{heapHandle: heapHandle{ptr: p}, thunk: thunk}
	p.SetPayload(ls)
	return ls
}

// Cons is the classic pair cell: first element plus the rest of the
// sequence (itself a Value, typically another Cons, a List, or nil).
type Cons struct {
	heapHandle
	First Value
	Rest  Value
}

func (*Cons) Kind() Kind { return KindCons }

func NewCons(h *gc.Heap, first, rest Value) *Cons {
	p, _ := h.Alloc(16, 8)
	c := &Cons{heapHandle: heapHandle{ptr: p}, First: first, Rest: rest}
	p.SetPayload(c)
	return c
}

// ArrayChunk is a sub-range view over a backing items slice, used by chunked
// sequences to hand out batches without copying.
type ArrayChunk struct {
	heapHandle
	Items    []Value
	Off, End int
}

func (*ArrayChunk) Kind() Kind { return KindArrayChunk }

func (c *ArrayChunk) Count() int { return c.End - c.Off }

func (c *ArrayChunk) Nth(i int) (Value, bool) {
	idx := c.Off + i
	if idx < 0 || idx >= c.End {
		return nil, false
	}
	return c.Items[idx], true
}

func NewArrayChunk(h *gc.Heap, items []Value, off, end int) *ArrayChunk {
	p, _ := h.Alloc(len(items)*8, 8)
	ac := &ArrayChunk{heapHandle: heapHandle{ptr: p}, Items: items, Off: off, End: end}
	p.SetPayload(ac)
	return ac
}

// ChunkBuffer is a mutable builder that accumulates elements before being
// frozen into an ArrayChunk; it is itself heap-tracked since it is handed
// around during sequence-producing loops.
type ChunkBuffer struct {
	heapHandle
	items []Value
}

func (*ChunkBuffer) Kind() Kind { return KindChunkBuffer }

func (b *ChunkBuffer) Add(v Value) { b.items = append(b.items, v) }

func (b *ChunkBuffer) Chunk(h *gc.Heap) *ArrayChunk {
	return NewArrayChunk(h, b.items, 0, len(b.items))
}

func NewChunkBuffer(h *gc.Heap) *ChunkBuffer {
	p, _ := h.Alloc(8, 8)
	b := &ChunkBuffer{heapHandle: heapHandle{ptr: p}}
	p.SetPayload(b)
	return b
}

// ChunkedCons pairs a realized ArrayChunk with the (possibly lazy) remainder
// of the sequence.
type ChunkedCons struct {
	heapHandle
	Chunk *ArrayChunk
	More  Value
}

func (*ChunkedCons) Kind() Kind { return KindChunkedCons }

func NewChunkedCons(h *gc.Heap, chunk *ArrayChunk, more Value) *ChunkedCons {
	p, _ := h.Alloc(16, 8)
	cc := &ChunkedCons{heapHandle: heapHandle{ptr: p}, Chunk: chunk, More: more}
	p.SetPayload(cc)
	return cc
}
