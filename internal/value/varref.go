package value

import "github.com/coreclj/coreclj/internal/gc"

// VarRef is the reflection/refs Value produced by the `var` special form
// (spec.md §4.4.2): a snapshot of a Var's identity and metadata, not the Var
// itself. The Var lives in internal/namespace; VarRef is deliberately
// self-contained (duplicating the fields it needs) so internal/value never
// imports internal/namespace — namespace imports value, not the reverse.
type VarRef struct {
	heapHandle
	Sym      string
	NSName   string
	Root     Value
	Doc      string
	Arglists Value
	Added    string
	Meta     Meta
}

func (*VarRef) Kind() Kind { return KindVarRef }

func NewVarRef(h *gc.Heap, sym, nsName string, root Value) *VarRef {
	p, _ := h.Alloc(8, 8)
	vr := &VarRef{heapHandle: heapHandle{ptr: p}, Sym: sym, NSName: nsName, Root: root}
	p.SetPayload(vr)
	return vr
}

// NewVarRefDetailed is NewVarRef plus the optional reflection fields a `var`
// special form snapshot carries (spec.md §3.1).
func NewVarRefDetailed(h *gc.Heap, sym, nsName string, root Value, doc string, arglists Value, meta Meta) *VarRef {
	vr := NewVarRef(h, sym, nsName, root)
	vr.Doc, vr.Arglists, vr.Meta = doc, arglists, meta
	return vr
}
