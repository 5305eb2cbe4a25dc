package namespace

import (
	"fmt"

	"github.com/coreclj/coreclj/internal/value"
)

// bindingEntry is one (var*, value) pair within a Frame.
type bindingEntry struct {
	v   *Var
	val value.Value
}

// Frame is one dynamic-binding stack frame: an array of entries plus a
// pointer to the previous frame (spec.md §3.2). Frames form a LIFO; the
// design note in spec.md §9 models the frame stack as a thread-local
// pointer to the top-of-stack frame — BindingStack.top plays that role.
type Frame struct {
	entries []bindingEntry
	prev    *Frame
}

// NewFrame builds a frame binding each var to its paired value. It does not
// push the frame; call (*BindingStack).Push to install it.
func NewFrame(pairs map[*Var]value.Value) *Frame {
	f := &Frame{entries: make([]bindingEntry, 0, len(pairs))}
	for v, val := range pairs {
		f.entries = append(f.entries, bindingEntry{v: v, val: val})
	}
	return f
}

// BindingStack is the sole process-wide mutable state in the core (spec.md
// §5): a LIFO stack of dynamic-binding frames, global to the runtime since
// the core is single-threaded cooperative.
type BindingStack struct {
	top *Frame
}

// PushBindings installs f as the new top of stack, linking it to the
// previous top. Pushes and pops must pair on every control-flow path
// (spec.md §4.3 invariant); the evaluator is responsible for popping on
// exception unwind.
func (s *BindingStack) PushBindings(f *Frame) {
	f.prev = s.top
	s.top = f
}

// PopBindings restores the previous frame. Popping an empty stack is a
// caller bug; per spec.md §7 the reference implementation treats it as a
// no-op rather than a fatal error.
func (s *BindingStack) PopBindings() {
	if s.top == nil {
		return
	}
	s.top = s.top.prev
}

// ThreadBinding walks the frame stack most-recent-first and returns the
// first bound value for v, per spec.md §4.3.
func (s *BindingStack) ThreadBinding(v *Var) (value.Value, bool) {
	for f := s.top; f != nil; f = f.prev {
		for _, e := range f.entries {
			if e.v == v {
				return e.val, true
			}
		}
	}
	return nil, false
}

// SetThreadBinding mutates the entry for v in the top-most frame that
// contains it. It fails (illegal-state) if no frame binds v, per spec.md
// §4.3's set_thread_binding contract.
func (s *BindingStack) SetThreadBinding(v *Var, val value.Value) error {
	for f := s.top; f != nil; f = f.prev {
		for i, e := range f.entries {
			if e.v == v {
				f.entries[i].val = val
				return nil
			}
		}
	}
	return fmt.Errorf("illegal state: set! on var %s with no thread binding", v.Qualified())
}

// CurrentBindingFrame returns the top of stack, used by the GC's
// trace_roots to walk the dynamic binding frame stack (spec.md §4.2).
func (s *BindingStack) CurrentBindingFrame() *Frame { return s.top }

// Deref implements spec.md §8 testable property 3: deref(var) =
// thread_binding(var) if present, else var.root.
func (s *BindingStack) Deref(v *Var) value.Value {
	if v.Dynamic {
		if val, ok := s.ThreadBinding(v); ok {
			return val
		}
	}
	return v.Root
}
