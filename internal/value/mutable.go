package value

import (
	"fmt"

	"github.com/coreclj/coreclj/internal/gc"
)

// Validator is called with a proposed new value before an Atom update is
// committed; it returns an error to reject the update (spec.md §3.1
// invariant: rejection preserves the prior value).
type Validator func(proposed Value) error

// WatchFn observes committed Atom updates: key, the atom itself, old and new
// value, mirroring Clojure's add-watch contract closely enough for the
// core's purposes.
type WatchFn func(key string, a *Atom, old, new Value)

// Atom is a mutable holder with an optional validator and watches.
type Atom struct {
	heapHandle
	value     Value
	meta      Meta
	validator Validator

	watchKeys []string
	watchFns  []WatchFn
}

func (*Atom) Kind() Kind { return KindAtom }

func (a *Atom) Deref() Value { return a.value }

func (a *Atom) SetValidator(v Validator) { a.validator = v }

func (a *Atom) AddWatch(key string, fn WatchFn) {
	a.watchKeys = append(a.watchKeys, key)
	a.watchFns = append(a.watchFns, fn)
}

func (a *Atom) RemoveWatch(key string) {
	for i, k := range a.watchKeys {
		if k == key {
			a.watchKeys = append(a.watchKeys[:i], a.watchKeys[i+1:]...)
			a.watchFns = append(a.watchFns[:i], a.watchFns[i+1:]...)
			return
		}
	}
}

// Reset validates and installs a new value, firing watches on success.
func (a *Atom) Reset(v Value) error {
	if a.validator != nil {
		if err := a.validator(v); err != nil {
			return fmt.Errorf("invalid value for atom: %w", err)
		}
	}
	old := a.value
	a.value = v
	for i, fn := range a.watchFns {
		fn(a.watchKeys[i], a, old, v)
	}
	return nil
}

// Swap applies fn to the current value and resets to the result, subject to
// the same validation.
func (a *Atom) Swap(fn func(Value) (Value, error)) (Value, error) {
	nv, err := fn(a.value)
	if err != nil {
		return nil, err
	}
	if err := a.Reset(nv); err != nil {
		return nil, err
	}
	return nv, nil
}

func NewAtom(h *gc.Heap, v Value) *Atom {
	p, _ := h.Alloc(8, 8)
	a := &Atom{heapHandle: heapHandle{ptr: p}, value: v}
	p.SetPayload(a)
	return a
}

// VolatileRef is a mutable holder without validation or watches — cheaper
// than Atom, meant for tight loops inside a single function body.
type VolatileRef struct {
	heapHandle
	value Value
}

func (*VolatileRef) Kind() Kind { return KindVolatile }

func (v *VolatileRef) Deref() Value    { return v.value }
func (v *VolatileRef) Set(nv Value)    { v.value = nv }

func NewVolatile(h *gc.Heap, v Value) *VolatileRef {
	p, _ := h.Alloc(8, 8)
	vr := &VolatileRef{heapHandle: heapHandle{ptr: p}, value: v}
	p.SetPayload(vr)
	return vr
}

// transientState tracks the single-threaded-builder discipline common to
// all three transient variants: once Persistent() is called, any further
// mutation is a runtime error (spec.md §3.1: "the spec does not require
// capturing this at the type level but requires runtime detection").
type transientState struct {
	dead bool
}

func (t *transientState) checkLive() error {
	if t.dead {
		return fmt.Errorf("transient used after persistent!")
	}
	return nil
}

// TransientVector is a single-threaded mutable builder over a Vector.
type TransientVector struct {
	heapHandle
	transientState
	items []Value
}

func (*TransientVector) Kind() Kind { return KindTransientVector }

func (t *TransientVector) Conj(v Value) error {
	if err := t.checkLive(); err != nil {
		return err
	}
	t.items = append(t.items, v)
	return nil
}

func (t *TransientVector) Persistent(h *gc.Heap) (*Vector, error) {
	if err := t.checkLive(); err != nil {
		return nil, err
	}
	t.dead = true
	return NewVector(h, t.items), nil
}

func NewTransientVector(h *gc.Heap, v *Vector) *TransientVector {
	p, _ := h.Alloc(8, 8)
	items := append([]Value(nil), v.items...)
	tv := &TransientVector{heapHandle: heapHandle{ptr: p}, items: items}
	p.SetPayload(tv)
	return tv
}

// TransientMap is a single-threaded mutable builder over a HashMap.
type TransientMap struct {
	heapHandle
	transientState
	m *HashMap
}

func (*TransientMap) Kind() Kind { return KindTransientMap }

func (t *TransientMap) Assoc(key, val Value) error {
	if err := t.checkLive(); err != nil {
		return err
	}
	t.m = t.m.Assoc(key, val)
	return nil
}

func (t *TransientMap) Persistent() (*HashMap, error) {
	if err := t.checkLive(); err != nil {
		return nil, err
	}
	t.dead = true
	return t.m, nil
}

func NewTransientMap(h *gc.Heap, m *HashMap) *TransientMap {
	p, _ := h.Alloc(8, 8)
	tm := &TransientMap{heapHandle: heapHandle{ptr: p}, m: m}
	p.SetPayload(tm)
	return tm
}

// TransientSet is a single-threaded mutable builder over a HashSet.
type TransientSet struct {
	heapHandle
	transientState
	s *HashSet
}

func (*TransientSet) Kind() Kind { return KindTransientSet }

func (t *TransientSet) Conj(v Value) error {
	if err := t.checkLive(); err != nil {
		return err
	}
	t.s = t.s.Conj(v)
	return nil
}

func (t *TransientSet) Persistent() (*HashSet, error) {
	if err := t.checkLive(); err != nil {
		return nil, err
	}
	t.dead = true
	return t.s, nil
}

func NewTransientSet(h *gc.Heap, s *HashSet) *TransientSet {
	p, _ := h.Alloc(8, 8)
	ts := &TransientSet{heapHandle: heapHandle{ptr: p}, s: s}
	p.SetPayload(ts)
	return ts
}
