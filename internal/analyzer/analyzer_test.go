package analyzer

import (
	"fmt"
	"testing"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/sreader"
	"github.com/coreclj/coreclj/internal/value"
)

// nullInvoker is used by tests that never trigger macro expansion.
type nullInvoker struct{}

func (nullInvoker) Call(fn value.Value, args []value.Value) (value.Value, error) {
	return value.NilValue, nil
}

func newTestAnalyzer(t *testing.T) (*Analyzer, *namespace.Env) {
	t.Helper()
	h := gc.New(1 << 20)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("user")
	for _, name := range []string{"+", "nth", "drop", "get", "list", "mapcat", "vector", "hash-map", "hash-set"} {
		ns.Intern(name)
	}
	return New(env, ns, nullInvoker{}), env
}

func analyze(t *testing.T, a *Analyzer, src string) node.Node {
	t.Helper()
	f, err := sreader.Read(src)
	if err != nil {
		t.Fatalf("sreader.Read(%q): %v", src, err)
	}
	n, err := a.Analyze(f)
	if err != nil {
		t.Fatalf("Analyze(%q): %v", src, err)
	}
	return n
}

func TestAnalyzeConstant(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "42")
	c, ok := n.(*node.Constant)
	if !ok {
		t.Fatalf("got %T, want *node.Constant", n)
	}
	if iv, ok := c.Value.(value.Int); !ok || int64(iv) != 42 {
		t.Errorf("got %v, want Int(42)", c.Value)
	}
}

func TestAnalyzeIf(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(if true 1 2)")
	ifn, ok := n.(*node.If)
	if !ok {
		t.Fatalf("got %T, want *node.If", n)
	}
	if ifn.Else == nil {
		t.Errorf("else branch should be present")
	}
}

func TestAnalyzeIfNoElse(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(if true 1)").(*node.If)
	if n.Else != nil {
		t.Errorf("else branch should be nil when omitted, got %v", n.Else)
	}
}

func TestAnalyzeLetSimple(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(let [x 1 y 2] (+ x y))")
	let, ok := n.(*node.Let)
	if !ok {
		t.Fatalf("got %T, want *node.Let", n)
	}
	if len(let.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(let.Bindings))
	}
	call, ok := let.Body.(*node.Do).Statements[0].(*node.Call)
	if !ok {
		t.Fatalf("body statement is %T, want *node.Call", let.Body.(*node.Do).Statements[0])
	}
	if len(call.Args) != 2 {
		t.Fatalf("call has %d args, want 2", len(call.Args))
	}
	for _, arg := range call.Args {
		if _, ok := arg.(*node.LocalRef); !ok {
			t.Errorf("call arg is %T, want *node.LocalRef", arg)
		}
	}
}

func TestAnalyzeLetInnermostWins(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(let [x 1] (let [x 2] x))")
	outer := n.(*node.Let)
	inner := outer.Body.(*node.Do).Statements[0].(*node.Let)
	ref := inner.Body.(*node.Do).Statements[0].(*node.LocalRef)
	if ref.Idx != inner.Bindings[0].Idx {
		t.Errorf("innermost x did not win: ref.Idx=%d, inner binding Idx=%d", ref.Idx, inner.Bindings[0].Idx)
	}
}

func TestAnalyzeFnSelfReference(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(fn fact [n] (if n (fact n) n))")
	fn, ok := n.(*node.Fn)
	if !ok {
		t.Fatalf("got %T, want *node.Fn", n)
	}
	if fn.Name != "fact" {
		t.Errorf("got Name=%q, want fact", fn.Name)
	}
	body := fn.Arities[0].Body.(*node.Do).Statements[0].(*node.If)
	call := body.Then.(*node.Call)
	if _, ok := call.Callee.(*node.LocalRef); !ok {
		t.Errorf("self-reference did not resolve to a local, got %T", call.Callee)
	}
}

func TestAnalyzeSequentialDestructure(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(let [[a b] [1 2]] a)")
	let := n.(*node.Let)
	if len(let.Bindings) < 3 {
		t.Fatalf("got %d bindings, want at least 3 (tmp, a, b)", len(let.Bindings))
	}
}

// TestAnalyzeAssociativeDestructureOrAfterKeys exercises spec.md §4.4.3's
// :or pre-scan: {:keys [a b] :or {a 1}} is the common ordering (:or after
// :keys) and must still populate a's default, even though :or's map entry
// is positioned after the :keys entry it supplies defaults for.
func TestAnalyzeAssociativeDestructureOrAfterKeys(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(let [{:keys [a b] :or {a 1}} {}] a)")
	let := n.(*node.Let)

	var aBinding *node.Binding
	for i := range let.Bindings {
		if let.Bindings[i].Name == "a" {
			aBinding = &let.Bindings[i]
		}
	}
	if aBinding == nil {
		t.Fatalf("no binding named %q among %d bindings", "a", len(let.Bindings))
	}
	call, ok := aBinding.Init.(*node.Call)
	if !ok {
		t.Fatalf("a's init is %T, want *node.Call to get", aBinding.Init)
	}
	if len(call.Args) != 3 {
		t.Fatalf("got %d args to get, want 3 (map, key, default) — the :or default was dropped", len(call.Args))
	}
	def, ok := call.Args[2].(*node.Constant)
	if !ok {
		t.Fatalf("default arg is %T, want *node.Constant", call.Args[2])
	}
	if iv, ok := def.Value.(value.Int); !ok || int64(iv) != 1 {
		t.Errorf("got default %v, want Int(1)", def.Value)
	}
}

func TestAnalyzeRecurInLoop(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	n := analyze(t, a, "(loop [i 0] (recur i))")
	loop, ok := n.(*node.Loop)
	if !ok {
		t.Fatalf("got %T, want *node.Loop", n)
	}
	recur, ok := loop.Body.(*node.Do).Statements[0].(*node.Recur)
	if !ok {
		t.Fatalf("body is %T, want *node.Recur", loop.Body.(*node.Do).Statements[0])
	}
	if len(recur.Args) != 1 {
		t.Errorf("got %d recur args, want 1", len(recur.Args))
	}
}

// builtinInvoker calls through to a *value.BuiltinFn's Go function, the
// minimal real bridge.Invoker a test can use without a full evaluator.
type builtinInvoker struct{}

func (builtinInvoker) Call(fn value.Value, args []value.Value) (value.Value, error) {
	bf, ok := fn.(*value.BuiltinFn)
	if !ok {
		return nil, fmt.Errorf("builtinInvoker: %T is not callable", fn)
	}
	return bf.Fn(args)
}

// whenMacroFn implements `(defmacro when [test & body] `(if ~test (do ~@body)))`
// directly in Go, standing in for the fn_val a real evaluator would produce
// from analyzing and running the defmacro body.
func whenMacroFn(h *gc.Heap) *value.BuiltinFn {
	return &value.BuiltinFn{
		Name: "when",
		Fn: func(args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("when requires a test form")
			}
			test, body := args[0], args[1:]
			doForm := append([]value.Value{value.NewSymbol(h, "", "do")}, body...)
			ifForm := []value.Value{value.NewSymbol(h, "", "if"), test, value.NewList(h, doForm)}
			return value.NewList(h, ifForm), nil
		},
	}
}

// TestMacroExpansionWhen exercises spec.md §8 scenario 4: (when true 1 2)
// through a macro var bound to an expander fn must analyze to the same Node
// shape as directly analyzing (if true (do 1 2)).
func TestMacroExpansionWhen(t *testing.T) {
	h := gc.New(1 << 20)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("user")
	macroVar := ns.Intern("when")
	env.SetMacro(macroVar)
	macroVar.Root = whenMacroFn(h)

	a := New(env, ns, builtinInvoker{})
	got := analyze(t, a, "(when true 1 2)")

	a2 := New(env, ns, builtinInvoker{})
	want := analyze(t, a2, "(if true (do 1 2))")

	if !nodesEqual(got, want) {
		t.Errorf("macro expansion of (when true 1 2) = %#v, want the same shape as (if true (do 1 2)) = %#v", got, want)
	}
}

func nodesEqual(a, b node.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *node.Constant:
		return x.Value == b.(*node.Constant).Value
	case *node.If:
		y := b.(*node.If)
		return nodesEqual(x.Test, y.Test) && nodesEqual(x.Then, y.Then) && nodesEqual(x.Else, y.Else)
	case *node.Do:
		y := b.(*node.Do)
		if len(x.Statements) != len(y.Statements) {
			return false
		}
		for i := range x.Statements {
			if !nodesEqual(x.Statements[i], y.Statements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func TestAnalyzeUnresolvedSymbolFails(t *testing.T) {
	a, env := newTestAnalyzer(t)
	f, err := sreader.Read("totally-unbound-name")
	if err != nil {
		t.Fatalf("sreader.Read: %v", err)
	}
	if _, err := a.Analyze(f); err == nil {
		t.Fatal("expected an error for an unresolved symbol")
	}
	if !env.Errors.HasError() {
		t.Error("ErrorContext should have recorded the failure")
	}
}
