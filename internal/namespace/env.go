package namespace

import (
	"strings"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/value"
)

// Env is the global registry of namespaces, the dynamic binding stack, and
// the owned ErrorContext — the single process-wide mutable state described
// in spec.md §3.2, §4.3, §5.
type Env struct {
	Heap *gc.Heap

	namespaces map[string]*Namespace
	Bindings   BindingStack
	Errors     ErrorContext
}

func NewEnv(h *gc.Heap) *Env {
	return &Env{
		Heap:       h,
		namespaces: make(map[string]*Namespace),
	}
}

// FindOrCreate returns the namespace named name, creating it if absent.
// Idempotent, per spec.md §4.3.
func (e *Env) FindOrCreate(name string) *Namespace {
	if ns, ok := e.namespaces[name]; ok {
		return ns
	}
	ns := newNamespace(name)
	e.namespaces[name] = ns
	return ns
}

// Find returns an existing namespace without creating one.
func (e *Env) Find(name string) (*Namespace, bool) {
	ns, ok := e.namespaces[name]
	return ns, ok
}

// Namespaces exposes the registry for GC root tracing and introspection.
func (e *Env) Namespaces() map[string]*Namespace { return e.namespaces }

// Resolve looks up a bare name in ns per spec.md §3.2.
func (e *Env) Resolve(ns *Namespace, name string) (*Var, bool) {
	return ns.Resolve(name)
}

// ResolveQualified resolves `ns_or_alias/name`: resolve ns_or_alias (a
// namespace name or an alias registered in `from`), then look up name there
// — public only, unless from is the defining namespace (spec.md §3.2).
func (e *Env) ResolveQualified(from *Namespace, nsOrAlias, name string) (*Var, bool) {
	target, ok := e.namespaces[nsOrAlias]
	if !ok {
		if aliased, aok := from.aliases[nsOrAlias]; aok {
			target = aliased
			ok = true
		}
	}
	if !ok {
		return nil, false
	}
	v, found := target.mappings[name]
	if !found {
		return nil, false
	}
	if v.Private && target != from {
		return nil, false
	}
	return v, true
}

// ResolveSymbolText resolves a possibly-qualified "ns/name" or bare "name"
// symbol string against from, combining Resolve/ResolveQualified the way
// the analyzer's dispatch needs (spec.md §4.4.1).
func (e *Env) ResolveSymbolText(from *Namespace, sym string) (*Var, bool) {
	if idx := strings.IndexByte(sym, '/'); idx > 0 && idx < len(sym)-1 {
		return e.ResolveQualified(from, sym[:idx], sym[idx+1:])
	}
	return e.Resolve(from, sym)
}

func (e *Env) SetMacro(v *Var)   { v.Macro = true }
func (e *Env) SetPrivate(v *Var) { v.Private = true }

func (e *Env) BindRoot(v *Var, val value.Value) { v.Root = val }

// TraceRoots implements trace_roots (spec.md §4.2): it walks value slices,
// individual values, the Environment's namespace→var→root/meta graph, and
// the dynamic binding frame stack, in that order. Callers pass the
// evaluator's operand stacks and current-exception-like individual roots;
// the Environment and binding-frame roots are always traced from e.
func (e *Env) TraceRoots(h *gc.Heap, valueSlices [][]value.Value, individual []value.Value) {
	for _, slice := range valueSlices {
		for _, v := range slice {
			value.TraceValue(h, v)
		}
	}
	for _, v := range individual {
		value.TraceValue(h, v)
	}
	for _, ns := range e.namespaces {
		for _, v := range ns.mappings {
			value.TraceValue(h, v.Root)
			if v.Meta != nil {
				value.TraceValue(h, v.Meta)
			}
		}
	}
	for f := e.Bindings.CurrentBindingFrame(); f != nil; f = f.prev {
		for _, entry := range f.entries {
			value.TraceValue(h, entry.val)
		}
	}
}
