// Package node defines the analyzer's output AST (spec.md §3.3). Unlike the
// teacher's internal/ast package, which uses a Visitor interface to let an
// open-ended statement/expression grammar grow new node kinds over time,
// coreclj's Node set is the special-form dispatch table itself — fixed and
// non-extensible by design (spec.md §4.4.1) — so a plain Kind tag plus type
// switches is a better fit than visitor boilerplate for a closed sum type
// (see DESIGN.md).
package node

import "github.com/coreclj/coreclj/internal/value"

type Kind int

const (
	KindConstant Kind = iota
	KindLocalRef
	KindVarRef
	KindQuote

	KindIf
	KindDo
	KindLet
	KindLoop
	KindRecur
	KindFn
	KindCall
	KindThrow
	KindTry
	KindDef
	KindDefProtocol
	KindExtendType
	KindDefMulti
	KindDefMethod
	KindLazySeq
)

// SourceInfo is carried by every node, per spec.md §3.3.
type SourceInfo struct {
	File   string
	Line   uint32
	Column uint16
}

// Node is the analyzer's output AST. Every concrete node embeds SourceInfo
// and reports its Kind; downstream consumers (evaluator, compiler) treat
// nodes as read-only (spec.md §6).
type Node interface {
	Kind() Kind
	Source() SourceInfo
}

type base struct {
	Info SourceInfo
}

func (b base) Source() SourceInfo { return b.Info }

// --- Leaves ---

type Constant struct {
	base
	Value value.Value
}

func (*Constant) Kind() Kind { return KindConstant }

// LocalRef refers to a lexically-scoped local by name and stack index.
type LocalRef struct {
	base
	Name string
	Idx  int
}

func (*LocalRef) Kind() Kind { return KindLocalRef }

// VarRef is an unresolved-at-analysis-time reference to a Var by
// namespace-qualified (or bare) name; the evaluator resolves it against the
// Environment at call/eval time.
type VarRef struct {
	base
	NS   string
	Name string
}

func (*VarRef) Kind() Kind { return KindVarRef }

// Quote is (quote form): its Value was produced once, at analysis time, via
// Form→Value (spec.md §4.4.2).
type Quote struct {
	base
	Value value.Value
}

func (*Quote) Kind() Kind { return KindQuote }

// --- Compound ---

type If struct {
	base
	Test Node
	Then Node
	Else Node // nil means "no else", distinct from a constant-nil else.
}

func (*If) Kind() Kind { return KindIf }

type Do struct {
	base
	Statements []Node
}

func (*Do) Kind() Kind { return KindDo }

// Binding is one let/loop binding: a local name bound to an init
// expression, evaluated left to right with each RHS seeing all prior binds.
type Binding struct {
	Name string
	Idx  int
	Init Node
}

type Let struct {
	base
	Bindings []Binding
	Body     Node
}

func (*Let) Kind() Kind { return KindLet }

// Loop is Let plus a recur target: the same lexical-scoping contract, but
// `recur` inside Body rebinds these locals and jumps back to the top
// (spec.md §4.4.2).
type Loop struct {
	base
	Bindings []Binding
	Body     Node
}

func (*Loop) Kind() Kind { return KindLoop }

// Recur packages arguments for the innermost recur target. The analyzer
// does not enforce arity against the target — that is a contract on the
// evaluator (spec.md §4.4.2).
type Recur struct {
	base
	Args []Node
}

func (*Recur) Kind() Kind { return KindRecur }

// FnArity is one arity of a fn special form.
type FnArity struct {
	Params   []string
	Variadic bool
	Body     Node
}

type Fn struct {
	base
	Name    string // empty when anonymous
	Arities []FnArity
}

func (*Fn) Kind() Kind { return KindFn }

type Call struct {
	base
	Callee Node
	Args   []Node
}

func (*Call) Kind() Kind { return KindCall }

type Throw struct {
	base
	Expr Node
}

func (*Throw) Kind() Kind { return KindThrow }

// CatchClause binds Name as a local for Body only, per spec.md §4.4.2.
type CatchClause struct {
	Type        string
	BindingName string
	Body        Node
}

type Try struct {
	base
	Body    Node
	Catch   *CatchClause // nil when absent
	Finally Node         // nil when absent
}

func (*Try) Kind() Kind { return KindTry }

type Def struct {
	base
	SymName string
	Init    Node // nil for (def name) with no init
	IsMacro bool
}

func (*Def) Kind() Kind { return KindDef }

// DefProtocol records a defprotocol form: its name and the names of its
// declared methods (spec.md §4.4.2). Method argument vectors and protocol-fn
// definitions are not recorded.
type DefProtocol struct {
	base
	Name       string
	MethodSigs []string
}

func (*DefProtocol) Kind() Kind { return KindDefProtocol }

// ExtendType records an extend-type form: the target type name and its
// method implementations, each already analyzed to a Fn node.
type ExtendType struct {
	base
	TypeName string
	Protocol string
	Methods  map[string]*Fn
}

func (*ExtendType) Kind() Kind { return KindExtendType }

type DefMulti struct {
	base
	Name       string
	DispatchFn Node
}

func (*DefMulti) Kind() Kind { return KindDefMulti }

type DefMethod struct {
	base
	Name         string
	DispatchVal  Node
	Fn           *Fn
}

func (*DefMethod) Kind() Kind { return KindDefMethod }

// LazySeqNode wraps (lazy-seq body) as `(fn [] body)` and records that
// synthesized fn as BodyFn, per spec.md §4.4.2.
type LazySeqNode struct {
	base
	BodyFn *Fn
}

func (*LazySeqNode) Kind() Kind { return KindLazySeq }

// New* constructors stamp SourceInfo uniformly so special-form handlers
// don't repeat the embedding boilerplate.
func NewConstant(info SourceInfo, v value.Value) *Constant { return &Constant{base{info}, v} }
func NewLocalRef(info SourceInfo, name string, idx int) *LocalRef {
	return &LocalRef{base{info}, name, idx}
}
func NewVarRef(info SourceInfo, ns, name string) *VarRef { return &VarRef{base{info}, ns, name} }
func NewQuote(info SourceInfo, v value.Value) *Quote     { return &Quote{base{info}, v} }
func NewIf(info SourceInfo, test, then, els Node) *If    { return &If{base{info}, test, then, els} }
func NewDo(info SourceInfo, stmts []Node) *Do            { return &Do{base{info}, stmts} }
func NewLet(info SourceInfo, bindings []Binding, body Node) *Let {
	return &Let{base{info}, bindings, body}
}
func NewLoop(info SourceInfo, bindings []Binding, body Node) *Loop {
	return &Loop{base{info}, bindings, body}
}
func NewRecur(info SourceInfo, args []Node) *Recur { return &Recur{base{info}, args} }
func NewFn(info SourceInfo, name string, arities []FnArity) *Fn {
	return &Fn{base{info}, name, arities}
}
func NewCall(info SourceInfo, callee Node, args []Node) *Call {
	return &Call{base{info}, callee, args}
}
func NewThrow(info SourceInfo, expr Node) *Throw { return &Throw{base{info}, expr} }
func NewTry(info SourceInfo, body Node, catch *CatchClause, finally Node) *Try {
	return &Try{base{info}, body, catch, finally}
}
func NewDef(info SourceInfo, symName string, init Node, isMacro bool) *Def {
	return &Def{base{info}, symName, init, isMacro}
}
func NewDefProtocol(info SourceInfo, name string, methodSigs []string) *DefProtocol {
	return &DefProtocol{base{info}, name, methodSigs}
}
func NewExtendType(info SourceInfo, typeName, protocol string, methods map[string]*Fn) *ExtendType {
	return &ExtendType{base{info}, typeName, protocol, methods}
}
func NewDefMulti(info SourceInfo, name string, dispatchFn Node) *DefMulti {
	return &DefMulti{base{info}, name, dispatchFn}
}
func NewDefMethod(info SourceInfo, name string, dispatchVal Node, fn *Fn) *DefMethod {
	return &DefMethod{base{info}, name, dispatchVal, fn}
}
func NewLazySeqNode(info SourceInfo, bodyFn *Fn) *LazySeqNode {
	return &LazySeqNode{base{info}, bodyFn}
}
