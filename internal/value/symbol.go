package value

import "github.com/coreclj/coreclj/internal/gc"

// Symbol is an interned-style atom: an optional namespace qualifier, a name,
// and optional metadata. Two symbols with equal ns/name are Eql but are not
// required to be the same allocation (the core does not intern symbols at
// the GC level — only Vars are interned, per spec.md §3.2).
type Symbol struct {
	heapHandle
	NS   string // empty when unqualified
	Name string
	Meta Meta
}

func (*Symbol) Kind() Kind { return KindSymbol }

func (s *Symbol) Qualified() bool { return s.NS != "" }

func (s *Symbol) String() string {
	if s.NS == "" {
		return s.Name
	}
	return s.NS + "/" + s.Name
}

// NewSymbol allocates a cell sized to the symbol's ns and name and
// registers the Symbol itself as that cell's payload.
func NewSymbol(h *gc.Heap, ns, name string) *Symbol {
	p, _ := h.Alloc(len(ns)+len(name), 1)
	sym := &Symbol{heapHandle: heapHandle{ptr: p}, NS: ns, Name: name}
	p.SetPayload(sym)
	return sym
}

// Keyword is like Symbol but self-evaluating. Keywords are not interned:
// every NewKeyword call (including each one FormToValue makes) creates a
// new allocation, and two keywords with equal ns/name are Eql.
type Keyword struct {
	heapHandle
	NS   string
	Name string
}

func (*Keyword) Kind() Kind { return KindKeyword }

func (k *Keyword) String() string {
	if k.NS == "" {
		return ":" + k.Name
	}
	return ":" + k.NS + "/" + k.Name
}

func NewKeyword(h *gc.Heap, ns, name string) *Keyword {
	p, _ := h.Alloc(len(ns)+len(name), 1)
	kw := &Keyword{heapHandle: heapHandle{ptr: p}, NS: ns, Name: name}
	p.SetPayload(kw)
	return kw
}
