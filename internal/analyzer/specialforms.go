package analyzer

import (
	"fmt"

	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/value"
)

// analyzeSpecialForm dispatches one of the fixed special forms (spec.md
// §4.4.1). f.Items[0] is the special-form symbol itself.
func (a *Analyzer) analyzeSpecialForm(name string, f *form.Form) (node.Node, error) {
	args := f.Items[1:]
	switch name {
	case "if":
		return a.analyzeIf(f, args)
	case "do":
		return a.analyzeDo(f, args)
	case "quote":
		return a.analyzeQuote(f, args)
	case "var":
		return a.analyzeVarSpecial(f, args)
	case "throw":
		return a.analyzeThrow(f, args)
	case "try":
		return a.analyzeTry(f, args)
	case "let", "let*":
		return a.analyzeLet(f, args, false)
	case "loop":
		return a.analyzeLet(f, args, true)
	case "recur":
		return a.analyzeRecur(f, args)
	case "fn", "fn*":
		return a.analyzeFn(f, args, "")
	case "def":
		return a.analyzeDef(f, args, false)
	case "defmacro":
		return a.analyzeDef(f, args, true)
	case "defprotocol":
		return a.analyzeDefProtocol(f, args)
	case "extend-type":
		return a.analyzeExtendType(f, args)
	case "defrecord":
		return a.analyzeDefRecord(f, args)
	case "defmulti":
		return a.analyzeDefMulti(f, args)
	case "defmethod":
		return a.analyzeDefMethod(f, args)
	case "lazy-seq":
		return a.analyzeLazySeq(f, args)
	case "for":
		return a.analyzeFor(f, args)
	default:
		return nil, a.fail(namespace.ErrInternal, f, fmt.Sprintf("unimplemented special form: %s", name))
	}
}

func (a *Analyzer) analyzeIf(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, a.fail(namespace.ErrArity, f, "if requires 2 or 3 forms: (if test then else?)")
	}
	test, err := a.Analyze(args[0])
	if err != nil {
		return nil, err
	}
	then, err := a.Analyze(args[1])
	if err != nil {
		return nil, err
	}
	var els node.Node
	if len(args) == 3 {
		els, err = a.Analyze(args[2])
		if err != nil {
			return nil, err
		}
	}
	return node.NewIf(infoOf(f), test, then, els), nil
}

func (a *Analyzer) analyzeDo(f *form.Form, args []*form.Form) (node.Node, error) {
	stmts := make([]node.Node, len(args))
	for i, af := range args {
		n, err := a.Analyze(af)
		if err != nil {
			return nil, err
		}
		stmts[i] = n
	}
	return node.NewDo(infoOf(f), stmts), nil
}

func (a *Analyzer) analyzeQuote(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) != 1 {
		return nil, a.fail(namespace.ErrArity, f, "quote requires exactly 1 form")
	}
	v, err := value.FormToValue(a.Env.Heap, a.CurrentNS, args[0])
	if err != nil {
		return nil, a.fail(namespace.ErrValue, f, err.Error())
	}
	return node.NewQuote(infoOf(f), v), nil
}

// analyzeVarSpecial handles (var sym): it resolves the symbol to its Var and
// produces a Constant holding that Var's var_ref Value (Var.ToVarRef), a
// snapshot of its symbol, namespace, current root, doc, arglists and meta
// taken at analysis time (spec.md §4.4.2).
func (a *Analyzer) analyzeVarSpecial(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) != 1 || args[0].Kind != form.KindSymbol {
		return nil, a.fail(namespace.ErrSyntax, f, "var requires a single symbol")
	}
	v, ok := a.resolveVar(args[0])
	if !ok {
		return nil, a.fail(namespace.ErrName, f, "unable to resolve var: "+symText(args[0]))
	}
	return node.NewConstant(infoOf(f), v.ToVarRef(a.Env.Heap)), nil
}

func (a *Analyzer) analyzeThrow(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) != 1 {
		return nil, a.fail(namespace.ErrArity, f, "throw requires exactly 1 form")
	}
	expr, err := a.Analyze(args[0])
	if err != nil {
		return nil, err
	}
	return node.NewThrow(infoOf(f), expr), nil
}

// analyzeTry handles (try body... (catch Type name body...)? (finally body...)?).
// catch and finally, when present, must be the trailing forms, in that
// order (spec.md §4.4.2).
func (a *Analyzer) analyzeTry(f *form.Form, args []*form.Form) (node.Node, error) {
	body := args
	var catchClause *node.CatchClause
	var finallyNode node.Node

	if n := len(body); n > 0 {
		last := body[n-1]
		if last.Kind == form.KindList && len(last.Items) > 0 && last.Items[0].IsSymbolNamed("finally") {
			mark := a.locals.mark()
			stmts := make([]node.Node, len(last.Items)-1)
			for i, sf := range last.Items[1:] {
				nd, err := a.Analyze(sf)
				if err != nil {
					return nil, err
				}
				stmts[i] = nd
			}
			a.locals.shrinkTo(mark)
			finallyNode = node.NewDo(infoOf(last), stmts)
			body = body[:n-1]
		}
	}
	if n := len(body); n > 0 {
		last := body[n-1]
		if last.Kind == form.KindList && len(last.Items) >= 2 && last.Items[0].IsSymbolNamed("catch") {
			if len(last.Items) < 3 || last.Items[2].Kind != form.KindSymbol {
				return nil, a.fail(namespace.ErrSyntax, last, "catch requires (catch Type name body...)")
			}
			typeForm, nameForm := last.Items[1], last.Items[2]
			typeName := ""
			if typeForm.Kind == form.KindSymbol {
				typeName = symText(typeForm)
			}
			mark := a.locals.mark()
			a.locals.push(nameForm.Name)
			stmts := make([]node.Node, len(last.Items)-3)
			for i, sf := range last.Items[3:] {
				nd, err := a.Analyze(sf)
				if err != nil {
					a.locals.shrinkTo(mark)
					return nil, err
				}
				stmts[i] = nd
			}
			a.locals.shrinkTo(mark)
			catchClause = &node.CatchClause{Type: typeName, BindingName: nameForm.Name, Body: node.NewDo(infoOf(last), stmts)}
			body = body[:n-1]
		}
	}

	stmts := make([]node.Node, len(body))
	for i, bf := range body {
		nd, err := a.Analyze(bf)
		if err != nil {
			return nil, err
		}
		stmts[i] = nd
	}
	return node.NewTry(infoOf(f), node.NewDo(infoOf(f), stmts), catchClause, finallyNode), nil
}

func (a *Analyzer) analyzeRecur(f *form.Form, args []*form.Form) (node.Node, error) {
	out := make([]node.Node, len(args))
	for i, af := range args {
		n, err := a.Analyze(af)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return node.NewRecur(infoOf(f), out), nil
}

// analyzeLet handles both let and loop: identical lexical-scoping contract,
// differing only in the Node kind produced (spec.md §4.4.2). Bindings may
// themselves be destructuring patterns (spec.md §4.4.3): each pattern
// desugars to one or more plain-symbol bindings before the body is analyzed.
func (a *Analyzer) analyzeLet(f *form.Form, args []*form.Form, isLoop bool) (node.Node, error) {
	if len(args) < 1 || args[0].Kind != form.KindVector {
		return nil, a.fail(namespace.ErrSyntax, f, "let/loop requires a binding vector")
	}
	pairs := args[0].Items
	if len(pairs)%2 != 0 {
		return nil, a.fail(namespace.ErrSyntax, f, "let/loop binding vector must have an even number of forms")
	}

	mark := a.locals.mark()
	var bindings []node.Binding
	for i := 0; i+1 < len(pairs); i += 2 {
		pattern, init := pairs[i], pairs[i+1]
		initNode, err := a.Analyze(init)
		if err != nil {
			a.locals.shrinkTo(mark)
			return nil, err
		}
		bs, err := a.destructure(pattern, initNode)
		if err != nil {
			a.locals.shrinkTo(mark)
			return nil, err
		}
		bindings = append(bindings, bs...)
	}

	bodyForms := args[1:]
	bodyStmts := make([]node.Node, len(bodyForms))
	for i, bf := range bodyForms {
		n, err := a.Analyze(bf)
		if err != nil {
			a.locals.shrinkTo(mark)
			return nil, err
		}
		bodyStmts[i] = n
	}
	a.locals.shrinkTo(mark)
	body := node.Node(node.NewDo(infoOf(f), bodyStmts))
	if isLoop {
		return node.NewLoop(infoOf(f), bindings, body), nil
	}
	return node.NewLet(infoOf(f), bindings, body), nil
}

// analyzeFn handles (fn name? ([params] body...)+) and the single-arity
// sugar (fn name? [params] body...). forcedName, when non-empty, supplies
// the name for a defmacro's fn; (def name (fn ...)) passes none (spec.md §4.4.2).
func (a *Analyzer) analyzeFn(f *form.Form, args []*form.Form, forcedName string) (node.Node, error) {
	name := forcedName
	rest := args
	if len(rest) > 0 && rest[0].Kind == form.KindSymbol {
		name = rest[0].Name
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil, a.fail(namespace.ErrSyntax, f, "fn requires at least one arity")
	}

	var arityForms [][]*form.Form
	if rest[0].Kind == form.KindVector {
		arityForms = [][]*form.Form{rest}
	} else {
		for _, af := range rest {
			if af.Kind != form.KindList || len(af.Items) == 0 || af.Items[0].Kind != form.KindVector {
				return nil, a.fail(namespace.ErrSyntax, af, "fn arity must be ([params] body...)")
			}
			arityForms = append(arityForms, af.Items)
		}
	}

	mark := a.locals.mark()
	if name != "" {
		a.locals.push(name)
	}

	arities := make([]node.FnArity, len(arityForms))
	for i, af := range arityForms {
		params := af[0].Items
		body := af[1:]
		amark := a.locals.mark()
		var paramNames []string
		variadic := false
		for pi := 0; pi < len(params); pi++ {
			p := params[pi]
			if p.IsSymbolNamed("&") {
				variadic = true
				continue
			}
			if p.Kind != form.KindSymbol {
				return nil, a.fail(namespace.ErrSyntax, p, "fn parameter must be a symbol (destructuring params: use let inside the body)")
			}
			a.locals.push(p.Name)
			paramNames = append(paramNames, p.Name)
		}
		stmts := make([]node.Node, len(body))
		for bi, bf := range body {
			n, err := a.Analyze(bf)
			if err != nil {
				a.locals.shrinkTo(mark)
				return nil, err
			}
			stmts[bi] = n
		}
		a.locals.shrinkTo(amark)
		arities[i] = node.FnArity{Params: paramNames, Variadic: variadic, Body: node.NewDo(infoOf(af[0]), stmts)}
	}
	a.locals.shrinkTo(mark)
	return node.NewFn(infoOf(f), name, arities), nil
}

// analyzeDef handles (def name init?) and defmacro, which desugars to
// def-of-a-fn with the macro flag set (spec.md §4.4.2).
func (a *Analyzer) analyzeDef(f *form.Form, args []*form.Form, isMacro bool) (node.Node, error) {
	if len(args) == 0 || args[0].Kind != form.KindSymbol {
		return nil, a.fail(namespace.ErrSyntax, f, "def requires a symbol name")
	}
	name := args[0].Name
	ns := a.CurrentNS
	v := ns.Intern(name)
	if isMacro {
		a.Env.SetMacro(v)
	}

	if isMacro {
		fnArgs := args[1:]
		fnNode, err := a.analyzeFn(f, fnArgs, name)
		if err != nil {
			return nil, err
		}
		return node.NewDef(infoOf(f), name, fnNode, true), nil
	}

	var init node.Node
	if len(args) >= 2 {
		n, err := a.Analyze(args[1])
		if err != nil {
			return nil, err
		}
		init = n
	}
	return node.NewDef(infoOf(f), name, init, false), nil
}

// analyzeLazySeq desugars (lazy-seq body...) to a thunk wrapping
// (fn [] body...), per spec.md §4.4.2.
func (a *Analyzer) analyzeLazySeq(f *form.Form, args []*form.Form) (node.Node, error) {
	mark := a.locals.mark()
	stmts := make([]node.Node, len(args))
	for i, af := range args {
		n, err := a.Analyze(af)
		if err != nil {
			a.locals.shrinkTo(mark)
			return nil, err
		}
		stmts[i] = n
	}
	a.locals.shrinkTo(mark)
	body := node.NewDo(infoOf(f), stmts)
	thunk := node.NewFn(infoOf(f), "", []node.FnArity{{Body: body}})
	return node.NewLazySeqNode(infoOf(f), thunk), nil
}
