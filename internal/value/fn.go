package value

import "github.com/coreclj/coreclj/internal/gc"

// FnProtoKind distinguishes the two function backends a fn_val can wrap
// (spec.md §3.1: "kind ∈ {bytecode, treewalk}").
type FnProtoKind int

const (
	ProtoBytecode FnProtoKind = iota
	ProtoTreewalk
)

// FnProto is the opaque proto pointer referenced by fn_val. Per the design
// note in spec.md §9, its interior is traced by a dedicated
// trace_fn_proto helper (see trace.go), not by the main trace_value switch —
// this lets a future bytecode compiler change FnProto's layout without
// touching the collector's exhaustive dispatch.
type FnProto struct {
	heapHandle
	ProtoKind FnProtoKind

	// Bytecode backend fields.
	Constants []Value
	Code      []byte
	Lines     []uint32
	Columns   []uint32
	Name      string

	// Treewalk backend fields: captured locals live on fn_val's
	// ClosureBindings, so the proto itself only needs to mark its own
	// closure pointer (the lexical environment chain it was built from).
	Closure gc.Ptr
	Body    any // *node.Node; kept as any to avoid an import cycle with internal/node.
}

func NewBytecodeProto(h *gc.Heap, name string, constants []Value, code []byte, lines, cols []uint32) *FnProto {
	p, _ := h.Alloc(len(code)+len(constants)*8, 8)
	fp := &FnProto{heapHandle: heapHandle{ptr: p}, ProtoKind: ProtoBytecode,
		Name: name, Constants: constants, Code: code, Lines: lines, Columns: cols}
	p.SetPayload(fp)
	return fp
}

func NewTreewalkProto(h *gc.Heap, body any, closure gc.Ptr) *FnProto {
	p, _ := h.Alloc(8, 8)
	fp := &FnProto{heapHandle: heapHandle{ptr: p}, ProtoKind: ProtoTreewalk, Body: body, Closure: closure}
	p.SetPayload(fp)
	return fp
}

// FnVal is the function-like Value variant.
type FnVal struct {
	heapHandle
	Proto           *FnProto
	Backend         FnProtoKind
	ClosureBindings []Value
	ExtraArities    []*FnVal
	Meta            Meta
	DefiningNS      string
	Name            string
}

func (*FnVal) Kind() Kind { return KindFn }

func NewFn(h *gc.Heap, proto *FnProto, backend FnProtoKind, closureBindings []Value) *FnVal {
	p, _ := h.Alloc(8, 8)
	fv := &FnVal{heapHandle: heapHandle{ptr: p}, Proto: proto, Backend: backend, ClosureBindings: closureBindings}
	p.SetPayload(fv)
	return fv
}

// Protocol is the polymorphism descriptor: a named set of method signatures
// plus the registered per-type implementations.
type Protocol struct {
	heapHandle
	Name       string
	MethodSigs []string
	Impls      map[string]map[string]Value // typeName -> methodName -> fn
}

func (*Protocol) Kind() Kind { return KindProtocol }

func NewProtocol(h *gc.Heap, name string, sigs []string) *Protocol {
	p, _ := h.Alloc(8, 8)
	pr := &Protocol{heapHandle: heapHandle{ptr: p}, Name: name, MethodSigs: sigs, Impls: map[string]map[string]Value{}}
	p.SetPayload(pr)
	return pr
}

// ProtocolFn is the callable entry point for one protocol method, dispatched
// at call time on the runtime type of its first argument.
type ProtocolFn struct {
	heapHandle
	Protocol   *Protocol
	MethodName string
}

func (*ProtocolFn) Kind() Kind { return KindProtocolFn }

func NewProtocolFn(h *gc.Heap, p *Protocol, method string) *ProtocolFn {
	ptr, _ := h.Alloc(8, 8)
	pf := &ProtocolFn{heapHandle: heapHandle{ptr: ptr}, Protocol: p, MethodName: method}
	ptr.SetPayload(pf)
	return pf
}

// MultiFn is the defmulti/defmethod dispatch table.
type MultiFn struct {
	heapHandle
	Name         string
	DispatchFn   Value
	Methods      map[string]Value // dispatch-value key (string form) -> fn
	PreferTable  map[string]string
	HierarchyVar Value // var_ref, optional
}

func (*MultiFn) Kind() Kind { return KindMultiFn }

func NewMultiFn(h *gc.Heap, name string, dispatchFn Value) *MultiFn {
	p, _ := h.Alloc(8, 8)
	mf := &MultiFn{heapHandle: heapHandle{ptr: p}, Name: name, DispatchFn: dispatchFn, Methods: map[string]Value{}}
	p.SetPayload(mf)
	return mf
}
