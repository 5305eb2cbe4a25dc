package value

import "github.com/coreclj/coreclj/internal/gc"

// DelayFn computes a Delay's value on first force; supplied by the
// evaluator, mirroring Thunk's role for LazySeq.
type DelayFn func() (Value, error)

// Delay realizes its Fn at most once; Cached holds the memoized result and
// ErrorCached holds a memoized failure so a delay that errors does not
// re-attempt evaluation on every Force.
type Delay struct {
	heapHandle
	fn           DelayFn
	realized     bool
	cached       Value
	errorCached  error
}

func (*Delay) Kind() Kind { return KindDelay }

func (d *Delay) Force() (Value, error) {
	if d.realized {
		return d.cached, d.errorCached
	}
	v, err := d.fn()
	d.realized = true
	d.cached, d.errorCached = v, err
	return v, err
}

func (d *Delay) IsRealized() bool { return d.realized }

func NewDelay(h *gc.Heap, fn DelayFn) *Delay {
	p, _ := h.Alloc(8, 8)
	d := &Delay{heapHandle: heapHandle{ptr: p}, fn: fn}
	p.SetPayload(d)
	return d
}

// Reduced wraps a value to signal early termination from a reduce; per
// spec.md §3.1 it is never nested — unwrapping once always suffices, so
// Unwrap does not loop.
type Reduced struct {
	heapHandle
	Value Value
}

func (*Reduced) Kind() Kind { return KindReduced }

// Unwrap returns the wrapped value once; callers must not re-wrap a Reduced
// inside another Reduced. NewReduced does not check for this: it accepts
// any Value, including a *Reduced.
func (r *Reduced) Unwrap() Value { return r.Value }

func NewReduced(h *gc.Heap, v Value) *Reduced {
	p, _ := h.Alloc(8, 8)
	r := &Reduced{heapHandle: heapHandle{ptr: p}, Value: v}
	p.SetPayload(r)
	return r
}
