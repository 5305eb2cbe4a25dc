// Package gc implements the tracked-allocation mark-and-sweep collector
// described by the core runtime substrate: every heap-backed Value payload
// is registered in the heap's allocation table, traced from an explicit root
// set, and swept back into size-classed free pools for recycling.
package gc

import "sync"

// Ptr is an opaque handle to a tracked allocation. The zero Ptr is invalid
// and never present in the allocation table, so a Ptr that was never
// returned by Alloc can be passed to Mark* safely (it is silently ignored).
type Ptr struct {
	cell *cell
}

// Valid reports whether p refers to an allocation (as opposed to the zero Ptr).
func (p Ptr) Valid() bool { return p.cell != nil }

type cell struct {
	size      int
	alignment int
	marked    bool
	payload   any
	// next links this cell into a size-class free pool's LIFO stack while
	// the cell is unallocated. The reference allocator overlays this link on
	// the freed memory itself; Go doesn't let us reinterpret freed memory as
	// a raw pointer safely, so the link is an ordinary struct field instead.
	next *cell
}

// sizeClass identifies a free pool keyed by (size, alignment), mirroring the
// up-to-16-size-classes free-pool design.
type sizeClass struct {
	size      int
	alignment int
}

const freePoolCapPerClass = 4096
const maxFreeClasses = 16

// Stats reports collector bookkeeping, read by the rpcdebug introspection
// service and the CLI's humanized stats output.
type Stats struct {
	BytesAllocated int64
	AllocCount     int64
	CollectCount   int64
	Threshold      int64
}

// Heap is a mark-and-sweep collector with size-class free-pool recycling.
// It is single-threaded-cooperative per the core's concurrency model, but
// guards its bookkeeping with a mutex so the rpcdebug read-only inspection
// surface can safely sample Stats from a different goroutine between
// mutator turns.
type Heap struct {
	mu sync.Mutex

	tracked map[*cell]struct{}
	pools   map[sizeClass][]*cell // LIFO stack per class; last element is top

	bytesAllocated int64
	allocCount     int64
	collectCount   int64
	threshold      int64

	tracing bool // guards against freeing memory mid-trace (§4.2)
}

// New creates a Heap with the given initial collection threshold in bytes.
// A threshold of 0 uses the reference seed of 1 MiB.
func New(initialThreshold int64) *Heap {
	if initialThreshold <= 0 {
		initialThreshold = 1 << 20
	}
	return &Heap{
		tracked:   make(map[*cell]struct{}),
		pools:     make(map[sizeClass][]*cell),
		threshold: initialThreshold,
	}
}

// Alloc returns a tracked allocation of the given size and alignment, which
// payload is later attached to via (*Ptr).SetPayload. It returns the zero
// Ptr and false on failure — there is no backing-allocator failure mode in
// the Go port (Go's runtime allocator does not return errors), so failure is
// limited to the heap being mid-trace.
func (h *Heap) Alloc(size, alignment int) (Ptr, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tracing {
		return Ptr{}, false
	}

	class := sizeClass{size, alignment}
	if pool := h.pools[class]; len(pool) > 0 {
		c := pool[len(pool)-1]
		h.pools[class] = pool[:len(pool)-1]
		c.marked = false
		c.payload = nil
		h.tracked[c] = struct{}{}
		h.bytesAllocated += int64(size)
		h.allocCount++
		return Ptr{cell: c}, true
	}

	c := &cell{size: size, alignment: alignment}
	h.tracked[c] = struct{}{}
	h.bytesAllocated += int64(size)
	h.allocCount++
	return Ptr{cell: c}, true
}

// SetPayload attaches the Go-level value a tracked allocation logically
// owns. trace_value dispatches on the Value variant to know how to recurse
// into a cell's payload; the heap itself treats payload as opaque.
func (p Ptr) SetPayload(v any) {
	if p.cell != nil {
		p.cell.payload = v
	}
}

// Payload returns the value previously attached with SetPayload.
func (p Ptr) Payload() any {
	if p.cell == nil {
		return nil
	}
	return p.cell.payload
}

// MarkPtr marks a single tracked allocation reachable. A Ptr not present in
// the allocation table (e.g. the zero Ptr, or a static/interned handle the
// heap never tracked) is silently ignored.
func (h *Heap) MarkPtr(p Ptr) {
	if p.cell == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tracked[p.cell]; !ok {
		return
	}
	p.cell.marked = true
}

// MarkAndCheck is the cycle-detection primitive used by every recursive
// trace: it marks p and reports whether this is the first time p has been
// marked during the current trace. Callers stop recursing when it returns
// false. A Ptr outside the allocation table reports false without marking
// anything, which also safely terminates recursion into untracked data.
func (h *Heap) MarkAndCheck(p Ptr) bool {
	if p.cell == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tracked[p.cell]; !ok {
		return false
	}
	if p.cell.marked {
		return false
	}
	p.cell.marked = true
	return true
}

// MarkSlice marks the backing allocation for a slice-shaped payload (the
// slice header's storage itself, not its elements — trace_value is
// responsible for tracing elements separately when they are themselves
// heap-backed).
func (h *Heap) MarkSlice(p Ptr) { h.MarkPtr(p) }

// ShouldCollect reports whether bytes_allocated has reached the threshold.
func (h *Heap) ShouldCollect() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bytesAllocated >= h.threshold
}

// RootTracer is supplied by the caller (the evaluator, in the full system)
// to mark every GC root per trace_roots (spec.md §4.2): value slices,
// individual values, the Environment, and the dynamic binding frame stack.
// It is invoked once per Collect.
type RootTracer func(h *Heap)

// Collect performs one mark-then-sweep cycle over the given root tracer.
func (h *Heap) Collect(trace RootTracer) {
	h.mu.Lock()
	h.tracing = true
	h.mu.Unlock()

	trace(h)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.tracing = false

	for c := range h.tracked {
		if c.marked {
			c.marked = false
			continue
		}
		delete(h.tracked, c)
		h.bytesAllocated -= int64(c.size)
		h.freeLocked(c)
	}
	h.collectCount++
}

// freeLocked returns a swept cell to its size-class free pool, or drops it
// if the pool is at capacity or the class count has been exhausted, or if
// the allocation is smaller than a pointer (§9 open question 2: allocations
// smaller than sizeof(pointer) bypass recycling unconditionally — here,
// smaller than the size of a Go pointer word).
func (h *Heap) freeLocked(c *cell) {
	const pointerSize = 8
	if c.size < pointerSize {
		return
	}
	class := sizeClass{c.size, c.alignment}
	pool, exists := h.pools[class]
	if !exists && len(h.pools) >= maxFreeClasses {
		return // backing allocator reclaims it (garbage-collected by Go itself)
	}
	if len(pool) >= freePoolCapPerClass {
		return
	}
	c.payload = nil
	h.pools[class] = append(pool, c)
}

// CollectIfNeeded collects when over threshold, then grows the threshold to
// 2x bytes_allocated if the live set is still over threshold afterwards, to
// avoid thrashing on a working set that simply needs more headroom.
func (h *Heap) CollectIfNeeded(trace RootTracer) {
	if !h.ShouldCollect() {
		return
	}
	h.Collect(trace)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bytesAllocated >= h.threshold {
		h.threshold = 2 * h.bytesAllocated
	}
}

// Stats returns a snapshot of collector bookkeeping.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		BytesAllocated: h.bytesAllocated,
		AllocCount:     h.allocCount,
		CollectCount:   h.collectCount,
		Threshold:      h.threshold,
	}
}

// Deinit frees every tracked allocation and every free-pool entry, in that
// order, per the scoped-acquisition discipline described in spec.md §5.
func (h *Heap) Deinit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.tracked {
		delete(h.tracked, c)
	}
	h.bytesAllocated = 0
	for class := range h.pools {
		delete(h.pools, class)
	}
}
