// Package value implements the tagged Value union described in the core
// runtime substrate: the universal runtime datum every analyzed Node
// eventually evaluates to, every Var root holds, and the GC walks.
package value

import "github.com/coreclj/coreclj/internal/gc"

// Kind tags every Value variant. trace_value (see trace.go) switches over
// Kind exhaustively; a variant added here without a trace arm is not a
// compile-time failure (Go has no sum types) but is caught at test time by
// the exhaustiveness test in trace_test.go, once the Kind also appears in
// kindNames (design note in spec.md §9).
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindBuiltinFn

	KindString

	KindSymbol
	KindKeyword

	KindList
	KindVector
	KindArrayMap
	KindHashMap
	KindHashSet

	KindLazySeq
	KindCons
	KindChunkedCons
	KindChunkBuffer
	KindArrayChunk

	KindAtom
	KindVolatile
	KindTransientVector
	KindTransientMap
	KindTransientSet

	KindFn
	KindProtocol
	KindProtocolFn
	KindMultiFn

	KindDelay
	KindReduced

	KindVarRef
	KindRegex
)

var kindNames = map[Kind]string{
	KindNil: "nil", KindBool: "boolean", KindInt: "integer", KindFloat: "float",
	KindChar: "char", KindBuiltinFn: "builtin_fn", KindString: "string",
	KindSymbol: "symbol", KindKeyword: "keyword", KindList: "list",
	KindVector: "vector", KindArrayMap: "array_map", KindHashMap: "hash_map",
	KindHashSet: "hash_set", KindLazySeq: "lazy_seq", KindCons: "cons",
	KindChunkedCons: "chunked_cons", KindChunkBuffer: "chunk_buffer",
	KindArrayChunk: "array_chunk", KindAtom: "atom", KindVolatile: "volatile_ref",
	KindTransientVector: "transient_vector", KindTransientMap: "transient_map",
	KindTransientSet: "transient_set", KindFn: "fn_val", KindProtocol: "protocol",
	KindProtocolFn: "protocol_fn", KindMultiFn: "multi_fn", KindDelay: "delay",
	KindReduced: "reduced", KindVarRef: "var_ref", KindRegex: "regex",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Value is the universal runtime datum. It is deliberately a narrow
// interface: the GC needs to know the concrete shape of every variant to
// trace it, so Value is never used as an erasing trait object boundary the
// way e.g. fn_val.proto is (see trace.go and spec.md §9).
type Value interface {
	Kind() Kind
}

// Meta is the optional metadata map attached to symbols, keywords, and
// persistent collections. It is itself backed by a HashMap/ArrayMap Value in
// the full system; the core only needs to carry it through untouched, so it
// is represented as a plain Value here (nil when absent).
type Meta = Value

// Pos is a source position, preserved per the round-trip contract in
// spec.md §3.1 and §4.5. Zero means "no source position" (synthesized at
// runtime, never fabricated).
type Pos struct {
	Line   uint32
	Column uint16
}

func (p Pos) IsZero() bool { return p.Line == 0 && p.Column == 0 }

// --- Primitives: copy, no heap. ---

type Nil struct{}

func (Nil) Kind() Kind { return KindNil }

// NilValue is the single shared nil instance; nil carries no payload so one
// instance suffices and callers may compare by identity.
var NilValue Value = Nil{}

type Bool bool

func (Bool) Kind() Kind { return KindBool }

type Int int64

func (Int) Kind() Kind { return KindInt }

type Float float64

func (Float) Kind() Kind { return KindFloat }

type Char rune

func (Char) Kind() Kind { return KindChar }

// BuiltinFn is a code pointer primitive: a host-native callable with no
// heap-backed closure state of its own (closures are fn_val; see fn.go).
type BuiltinFn struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*BuiltinFn) Kind() Kind { return KindBuiltinFn }

// heapHandle is embedded by every heap-backed Value variant so the GC can
// trace it; it is the "pointer (logical 'owned elsewhere') to a GC-managed
// record" spec.md §3.1 requires every heap-backed variant to carry.
type heapHandle struct {
	ptr gc.Ptr
}

// Alloc returns the GC allocation backing this value, used by trace_value.
func (h heapHandle) Alloc() gc.Ptr { return h.ptr }
