// Package analyzer implements the form→node transformer described in
// spec.md §4.4: special-form dispatch, lexical scope, destructuring
// expansion, and macro expansion with Form↔Value round-tripping.
package analyzer

import (
	"fmt"

	"github.com/coreclj/coreclj/internal/bridge"
	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/value"
)

// specialForms is the comptime, non-extensible dispatch table from
// spec.md §4.4.1.
var specialForms = map[string]bool{
	"if": true, "do": true, "let": true, "let*": true, "fn": true, "fn*": true,
	"def": true, "quote": true, "defmacro": true, "loop": true, "recur": true,
	"throw": true, "try": true, "for": true, "defprotocol": true,
	"extend-type": true, "defrecord": true, "defmulti": true, "defmethod": true,
	"lazy-seq": true, "var": true,
}

// Analyzer holds the per-compilation-unit mutable state: the locals stack
// plus a reference to the global Env for Var resolution and error
// recording, and the current namespace analysis proceeds against.
type Analyzer struct {
	Env       *namespace.Env
	CurrentNS *namespace.Namespace
	Invoker   bridge.Invoker

	locals localsStack

	// synthCounter produces unique synthetic local names for destructuring
	// and desugared special forms (lazy-seq, for, defrecord).
	synthCounter int
}

func New(env *namespace.Env, ns *namespace.Namespace, invoker bridge.Invoker) *Analyzer {
	return &Analyzer{Env: env, CurrentNS: ns, Invoker: invoker}
}

func (a *Analyzer) gensym(prefix string) string {
	a.synthCounter++
	return fmt.Sprintf("%s__%d__auto__", prefix, a.synthCounter)
}

func infoOf(f *form.Form) node.SourceInfo {
	if f == nil {
		return node.SourceInfo{}
	}
	return node.SourceInfo{Line: f.Line, Column: f.Column}
}

func symText(f *form.Form) string {
	if f.NS == "" {
		return f.Name
	}
	return f.NS + "/" + f.Name
}

func (a *Analyzer) fail(kind namespace.ErrorKind, f *form.Form, msg string) error {
	err := &namespace.Error{Kind: kind, Phase: namespace.PhaseAnalysis, Message: msg, Loc: namespace.SourceLoc{Line: infoOf(f).Line, Column: infoOf(f).Column}}
	a.Env.Errors.Record(err)
	return err
}

// Analyze is the analyzer's entry point: deterministic for a given
// (form, env, locals) per spec.md §4.4.
func (a *Analyzer) Analyze(f *form.Form) (node.Node, error) {
	if f == nil {
		return node.NewConstant(node.SourceInfo{}, value.NilValue), nil
	}

	switch f.Kind {
	case form.KindSymbol:
		return a.analyzeSymbol(f)
	case form.KindList:
		return a.analyzeList(f)
	case form.KindVector:
		return a.analyzeCollectionCall(f, "vector", f.Items)
	case form.KindMap:
		return a.analyzeCollectionCall(f, "hash-map", f.Items)
	case form.KindSet:
		return a.analyzeCollectionCall(f, "hash-set", f.Items)
	default:
		v, err := value.FormToValue(a.Env.Heap, a.CurrentNS, f)
		if err != nil {
			return nil, a.fail(namespace.ErrValue, f, err.Error())
		}
		return node.NewConstant(infoOf(f), v), nil
	}
}

// analyzeCollectionCall analyzes vector/map/set literals by recursively
// analyzing each element and building a Call to the matching constructor
// function — real Clojure analyzes literal collections' elements rather
// than quoting them wholesale, so `[1 (+ 1 2)]` must still analyze the call.
func (a *Analyzer) analyzeCollectionCall(f *form.Form, ctorName string, items []*form.Form) (node.Node, error) {
	args := make([]node.Node, len(items))
	for i, it := range items {
		n, err := a.Analyze(it)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return node.NewCall(infoOf(f), node.NewVarRef(infoOf(f), "", ctorName), args), nil
}

func (a *Analyzer) analyzeSymbol(f *form.Form) (node.Node, error) {
	if f.NS == "" {
		if idx, ok := a.locals.resolve(f.Name); ok {
			return node.NewLocalRef(infoOf(f), f.Name, idx), nil
		}
	}
	v, ok := a.resolveVar(f)
	if !ok {
		return nil, a.fail(namespace.ErrName, f, fmt.Sprintf("unable to resolve symbol: %s", symText(f)))
	}
	return node.NewVarRef(infoOf(f), v.NSName, v.Sym), nil
}

func (a *Analyzer) resolveVar(f *form.Form) (*namespace.Var, bool) {
	if f.NS == "" {
		return a.Env.Resolve(a.CurrentNS, f.Name)
	}
	return a.Env.ResolveQualified(a.CurrentNS, f.NS, f.Name)
}

func (a *Analyzer) analyzeList(f *form.Form) (node.Node, error) {
	if len(f.Items) == 0 {
		v, _ := value.FormToValue(a.Env.Heap, a.CurrentNS, f)
		return node.NewConstant(infoOf(f), v), nil
	}
	head := f.Items[0]

	if head.Kind == form.KindSymbol && head.NS == "" {
		if _, isLocal := a.locals.resolve(head.Name); !isLocal && specialForms[head.Name] {
			return a.analyzeSpecialForm(head.Name, f)
		}
	}

	if head.Kind == form.KindSymbol {
		if _, isLocal := a.locals.resolve(head.Name); !isLocal {
			if v, ok := a.resolveVar(head); ok && v.Macro {
				return a.expandAndAnalyze(f, v)
			}
		}
	}

	callee, err := a.Analyze(head)
	if err != nil {
		return nil, err
	}
	args := make([]node.Node, len(f.Items)-1)
	for i, argForm := range f.Items[1:] {
		n, err := a.Analyze(argForm)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return node.NewCall(infoOf(f), callee, args), nil
}
