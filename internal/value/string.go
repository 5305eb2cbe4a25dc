package value

import "github.com/coreclj/coreclj/internal/gc"

// Str is the heap string variant: an immutable byte slice allocated through
// the GC heap so trace_value can mark its backing storage.
type Str struct {
	heapHandle
	Bytes []byte
}

func (*Str) Kind() Kind { return KindString }

func (s *Str) String() string { return string(s.Bytes) }

// NewString allocates a Str on h and registers its backing bytes as the
// payload of the allocation.
func NewString(h *gc.Heap, s string) *Str {
	b := []byte(s)
	p, _ := h.Alloc(len(b), 1)
	p.SetPayload(b)
	return &Str{heapHandle: heapHandle{ptr: p}, Bytes: b}
}
