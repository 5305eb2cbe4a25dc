package analyzer

import (
	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/value"
)

// analyzeDefProtocol handles (defprotocol Name (method-name [args] ...) ...):
// it interns a Var per declared method (callable via extend-type
// implementations dispatching on the first argument's type) plus the
// protocol Var itself, and records the method names on the node for
// the evaluator to build the protocol object from (spec.md §4.4.2).
func (a *Analyzer) analyzeDefProtocol(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) == 0 || args[0].Kind != form.KindSymbol {
		return nil, a.fail(namespace.ErrSyntax, f, "defprotocol requires a name symbol")
	}
	name := args[0].Name
	a.CurrentNS.Intern(name)

	var sigs []string
	for _, sigForm := range args[1:] {
		if sigForm.Kind != form.KindList || len(sigForm.Items) == 0 || sigForm.Items[0].Kind != form.KindSymbol {
			return nil, a.fail(namespace.ErrSyntax, sigForm, "defprotocol method signature must be (name [args...])")
		}
		methodName := sigForm.Items[0].Name
		a.CurrentNS.Intern(methodName)
		sigs = append(sigs, methodName)
	}
	return node.NewDefProtocol(infoOf(f), name, sigs), nil
}

// analyzeExtendType handles (extend-type Type Protocol (method [args] body)
// ...): each method body analyzes as a plain fn arity, with the first
// param bound per the method's own arg list (spec.md §4.4.2).
func (a *Analyzer) analyzeExtendType(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) < 2 || args[0].Kind != form.KindSymbol || args[1].Kind != form.KindSymbol {
		return nil, a.fail(namespace.ErrSyntax, f, "extend-type requires (extend-type Type Protocol method...)")
	}
	typeName, protocolName := args[0].Name, args[1].Name
	methods := map[string]*node.Fn{}
	for _, m := range args[2:] {
		if m.Kind != form.KindList || len(m.Items) < 2 || m.Items[0].Kind != form.KindSymbol {
			return nil, a.fail(namespace.ErrSyntax, m, "extend-type method must be (name [args...] body...)")
		}
		methodName := m.Items[0].Name
		fnForm := m.Items[1:]
		fnNode, err := a.analyzeFn(m, fnForm, "")
		if err != nil {
			return nil, err
		}
		methods[methodName] = fnNode.(*node.Fn)
	}
	return node.NewExtendType(infoOf(f), typeName, protocolName, methods), nil
}

// analyzeDefRecord handles (defrecord Name [field1 field2 ...]): it
// desugars to a constructor Var bound to a fn that builds a hash-map of
// field keywords to positional arguments, tagged with a :record/Name entry
// used for dispatch and printing (spec.md §4 supplement; records are not
// named in spec.md's core but extend-type style dispatch needs a concrete
// representation, so a tagged map is the natural fit — no separate struct
// kind was introduced in the Value union for it).
func (a *Analyzer) analyzeDefRecord(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) < 2 || args[0].Kind != form.KindSymbol || args[1].Kind != form.KindVector {
		return nil, a.fail(namespace.ErrSyntax, f, "defrecord requires (defrecord Name [fields...])")
	}
	name := args[0].Name
	fields := args[1].Items

	mark := a.locals.mark()
	var params []string
	var pairs []node.Node
	for _, fld := range fields {
		if fld.Kind != form.KindSymbol {
			a.locals.shrinkTo(mark)
			return nil, a.fail(namespace.ErrSyntax, fld, "defrecord field must be a symbol")
		}
		idx := a.locals.push(fld.Name)
		params = append(params, fld.Name)
		pairs = append(pairs,
			node.NewConstant(infoOf(fld), value.NewKeyword(a.Env.Heap, "", fld.Name)),
			node.NewLocalRef(infoOf(fld), fld.Name, idx),
		)
	}
	pairs = append(pairs,
		node.NewConstant(infoOf(f), value.NewKeyword(a.Env.Heap, "", "type")),
		node.NewConstant(infoOf(f), value.NewKeyword(a.Env.Heap, "record", name)),
	)
	body := node.NewCall(infoOf(f), node.NewVarRef(infoOf(f), "", "hash-map"), pairs)
	a.locals.shrinkTo(mark)

	ctorName := "->" + name
	a.CurrentNS.Intern(ctorName)
	fnNode := node.NewFn(infoOf(f), ctorName, []node.FnArity{{Params: params, Body: body}})
	return node.NewDef(infoOf(f), ctorName, fnNode, false), nil
}

func (a *Analyzer) analyzeDefMulti(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) < 2 || args[0].Kind != form.KindSymbol {
		return nil, a.fail(namespace.ErrSyntax, f, "defmulti requires (defmulti name dispatch-fn)")
	}
	name := args[0].Name
	a.CurrentNS.Intern(name)
	dispatchNode, err := a.Analyze(args[1])
	if err != nil {
		return nil, err
	}
	return node.NewDefMulti(infoOf(f), name, dispatchNode), nil
}

// analyzeDefMethod handles (defmethod name dispatch-val [params] body...):
// dispatch-val is analyzed as an ordinary expression (often a quoted
// keyword) rather than a pattern, per spec.md §4 supplement.
func (a *Analyzer) analyzeDefMethod(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) < 3 || args[0].Kind != form.KindSymbol || args[2].Kind != form.KindVector {
		return nil, a.fail(namespace.ErrSyntax, f, "defmethod requires (defmethod name dispatch-val [params] body...)")
	}
	name := args[0].Name
	dispatchNode, err := a.Analyze(args[1])
	if err != nil {
		return nil, err
	}
	fnNode, err := a.analyzeFn(f, args[2:], "")
	if err != nil {
		return nil, err
	}
	return node.NewDefMethod(infoOf(f), name, dispatchNode, fnNode.(*node.Fn)), nil
}
