package analyzer

import (
	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/value"
)

// analyzeFor desugars (for [x coll :when test :let [a b]] body...) into
// nested mapcat calls over the sequence builtins: each binding pair
// becomes one level of mapcat, with :when filtering via an if that
// produces an empty list on failure (list, not nil, so mapcat's flattening
// stays uniform) and :let introducing an inner let before the body.
func (a *Analyzer) analyzeFor(f *form.Form, args []*form.Form) (node.Node, error) {
	if len(args) < 1 || args[0].Kind != form.KindVector {
		return nil, a.fail(namespace.ErrSyntax, f, "for requires [binding coll ...] and a body")
	}
	body := args[1:]
	return a.forClauses(f, args[0].Items, body)
}

func (a *Analyzer) forClauses(f *form.Form, clauses []*form.Form, body []*form.Form) (node.Node, error) {
	if len(clauses) < 2 {
		return nil, a.fail(namespace.ErrSyntax, f, "for binding vector requires a symbol/coll pair")
	}
	pattern, collForm := clauses[0], clauses[1]
	rest := clauses[2:]

	collNode, err := a.Analyze(collForm)
	if err != nil {
		return nil, err
	}

	mark := a.locals.mark()
	bindings, err := a.destructure(pattern, nil)
	if err != nil {
		a.locals.shrinkTo(mark)
		return nil, err
	}
	elemBinding := bindings[0]
	extraBindings := bindings[1:]

	var when node.Node
	i := 0
clauses:
	for i+1 < len(rest) {
		switch {
		case rest[i].Kind == form.KindKeyword && rest[i].Name == "when":
			w, werr := a.Analyze(rest[i+1])
			if werr != nil {
				a.locals.shrinkTo(mark)
				return nil, werr
			}
			when = w
			i += 2
		case rest[i].Kind == form.KindKeyword && rest[i].Name == "let":
			if rest[i+1].Kind != form.KindVector {
				a.locals.shrinkTo(mark)
				return nil, a.fail(namespace.ErrSyntax, rest[i+1], ":let requires a binding vector")
			}
			letPairs := rest[i+1].Items
			for j := 0; j+1 < len(letPairs); j += 2 {
				initNode, ierr := a.Analyze(letPairs[j+1])
				if ierr != nil {
					a.locals.shrinkTo(mark)
					return nil, ierr
				}
				bs, derr := a.destructure(letPairs[j], initNode)
				if derr != nil {
					a.locals.shrinkTo(mark)
					return nil, derr
				}
				extraBindings = append(extraBindings, bs...)
			}
			i += 2
		default:
			break clauses
		}
	}

	remaining := rest[i:]
	var tail node.Node
	if len(remaining) >= 2 {
		tail, err = a.forClauses(f, remaining, body)
	} else {
		stmts := make([]node.Node, len(body))
		for bi, bf := range body {
			n, aerr := a.Analyze(bf)
			if aerr != nil {
				err = aerr
				break
			}
			stmts[bi] = n
		}
		tail = node.NewCall(infoOf(f), node.NewVarRef(infoOf(f), "", "list"), []node.Node{node.NewDo(infoOf(f), stmts)})
	}
	if err != nil {
		a.locals.shrinkTo(mark)
		return nil, err
	}

	if len(extraBindings) > 0 {
		tail = node.NewLet(infoOf(f), extraBindings, tail)
	}
	if when != nil {
		empty := node.NewConstant(infoOf(f), value.EmptyList())
		tail = node.NewIf(infoOf(f), when, tail, empty)
	}

	mapFn := node.NewFn(infoOf(f), "", []node.FnArity{{Params: []string{elemBinding.Name}, Body: tail}})
	a.locals.shrinkTo(mark)

	return node.NewCall(infoOf(f), node.NewVarRef(infoOf(f), "", "mapcat"), []node.Node{mapFn, collNode}), nil
}
