package namespace

import (
	"github.com/google/uuid"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/value"
)

// Var is a named, namespace-scoped cell holding a Value, per spec.md §3.2.
// It carries a uuid so external tooling (the rpcdebug introspection
// service) can report a stable identity across a run instead of leaking Go
// pointer values.
type Var struct {
	ID uuid.UUID

	Sym    string
	NSName string
	Root   value.Value

	Dynamic bool
	Macro   bool
	Private bool
	Const   bool

	Doc      string
	Arglists value.Value
	Meta     value.Meta
}

// newVar constructs an unbound Var (Root is nil until bindRoot/def runs).
func newVar(nsName, sym string) *Var {
	return &Var{ID: uuid.New(), Sym: sym, NSName: nsName}
}

// Qualified returns the fully qualified ns/name symbol text for this Var.
func (v *Var) Qualified() string { return v.NSName + "/" + v.Sym }

// ToVarRef snapshots this Var into the var_ref Value produced by the `var`
// special form (spec.md §4.4.2).
func (v *Var) ToVarRef(h *gc.Heap) *value.VarRef {
	return value.NewVarRefDetailed(h, v.Sym, v.NSName, v.Root, v.Doc, v.Arglists, v.Meta)
}
