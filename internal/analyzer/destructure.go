package analyzer

import (
	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/value"
)

func intValue(i int) value.Value { return value.Int(int64(i)) }

// destructure expands one let/loop or `for` binding pattern against an
// already analyzed init expression, per spec.md §4.4.3; fn parameters are
// not destructured (analyzeFn accepts only plain symbols). A plain symbol binds
// directly; a vector pattern destructures sequentially (with optional
// `& rest`); a map pattern destructures associatively (with `:keys`,
// `:strs`, `:as`, `:or`). Each intermediate value is itself bound to a
// synthetic local so nested patterns can refer back to it.
func (a *Analyzer) destructure(pattern *form.Form, init node.Node) ([]node.Binding, error) {
	switch pattern.Kind {
	case form.KindSymbol:
		idx := a.locals.push(pattern.Name)
		return []node.Binding{{Name: pattern.Name, Idx: idx, Init: init}}, nil
	case form.KindVector:
		return a.destructureSequential(pattern, init)
	case form.KindMap:
		return a.destructureAssociative(pattern, init)
	default:
		return nil, a.fail(namespace.ErrSyntax, pattern, "invalid binding pattern")
	}
}

// destructureSequential expands [a b & more] against init by binding a
// synthetic local to init, then successive locals to (nth tmp 0), (nth tmp
// 1), ... and `more` to (drop n tmp) when `& more` is present.
func (a *Analyzer) destructureSequential(pattern *form.Form, init node.Node) ([]node.Binding, error) {
	tmpName := a.gensym("seq")
	tmpIdx := a.locals.push(tmpName)
	bindings := []node.Binding{{Name: tmpName, Idx: tmpIdx, Init: init}}

	tmpRef := func() node.Node { return node.NewLocalRef(node.SourceInfo{}, tmpName, tmpIdx) }

	i := 0
	for i < len(pattern.Items) {
		item := pattern.Items[i]
		if item.IsSymbolNamed("&") {
			if i+1 >= len(pattern.Items) {
				return nil, a.fail(namespace.ErrSyntax, pattern, "& in binding pattern requires a following symbol")
			}
			restForm := pattern.Items[i+1]
			restInit := node.NewCall(node.SourceInfo{}, node.NewVarRef(node.SourceInfo{}, "", "drop"), []node.Node{
				node.NewConstant(node.SourceInfo{}, intValue(i)), tmpRef(),
			})
			bs, err := a.destructure(restForm, restInit)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, bs...)
			i += 2
			continue
		}
		if item.IsSymbolNamed("_") {
			i++
			continue
		}
		nthInit := node.NewCall(node.SourceInfo{}, node.NewVarRef(node.SourceInfo{}, "", "nth"), []node.Node{
			tmpRef(), node.NewConstant(node.SourceInfo{}, intValue(i)),
		})
		bs, err := a.destructure(item, nthInit)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, bs...)
		i++
	}
	return bindings, nil
}

// destructureAssociative expands {:keys [a b] :strs [c] :as m :or {a 1}}
// style map-destructuring patterns, plus the plain {sym key, ...} form.
func (a *Analyzer) destructureAssociative(pattern *form.Form, init node.Node) ([]node.Binding, error) {
	tmpName := a.gensym("map")
	tmpIdx := a.locals.push(tmpName)
	bindings := []node.Binding{{Name: tmpName, Idx: tmpIdx, Init: init}}
	tmpRef := func() node.Node { return node.NewLocalRef(node.SourceInfo{}, tmpName, tmpIdx) }

	// :or can appear before or after the :keys/:strs/plain-sym entries it
	// supplies defaults for ({:keys [a b] :or {a 1}} is the common ordering),
	// so every entry's defaults must be known before any binding is built:
	// scan for :or first, per spec.md §4.4.3.
	defaults := map[string]*form.Form{}
	items := pattern.Items
	for i := 0; i+1 < len(items); i += 2 {
		k, v := items[i], items[i+1]
		if k.Kind == form.KindKeyword && k.Name == "or" {
			for j := 0; j+1 < len(v.Items); j += 2 {
				if v.Items[j].Kind == form.KindSymbol {
					defaults[v.Items[j].Name] = v.Items[j+1]
				}
			}
		}
	}

	for i := 0; i+1 < len(items); i += 2 {
		k, v := items[i], items[i+1]
		switch {
		case k.Kind == form.KindKeyword && k.Name == "as":
			bs, err := a.destructure(v, tmpRef())
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, bs...)
		case k.Kind == form.KindKeyword && k.Name == "or":
			// handled in the pre-scan above
		case k.Kind == form.KindKeyword && k.Name == "keys":
			for _, sym := range v.Items {
				bs, err := a.mapLookupBinding(sym.Name, form.Kw("", sym.Name, false), tmpRef(), defaults[sym.Name])
				if err != nil {
					return nil, err
				}
				bindings = append(bindings, bs...)
			}
		case k.Kind == form.KindKeyword && k.Name == "strs":
			for _, sym := range v.Items {
				bs, err := a.mapLookupBinding(sym.Name, form.StrForm(sym.Name), tmpRef(), defaults[sym.Name])
				if err != nil {
					return nil, err
				}
				bindings = append(bindings, bs...)
			}
		default:
			// {sym key-form} plain associative binding.
			if k.Kind == form.KindSymbol {
				bs, err := a.mapLookupBinding(k.Name, v, tmpRef(), defaults[k.Name])
				if err != nil {
					return nil, err
				}
				bindings = append(bindings, bs...)
			}
		}
	}
	return bindings, nil
}

func (a *Analyzer) mapLookupBinding(name string, keyForm *form.Form, mapNode node.Node, defaultForm *form.Form) ([]node.Binding, error) {
	keyVal, err := a.Analyze(keyForm)
	if err != nil {
		return nil, err
	}
	lookup := node.Node(node.NewCall(node.SourceInfo{}, node.NewVarRef(node.SourceInfo{}, "", "get"), []node.Node{mapNode, keyVal}))
	if defaultForm != nil {
		defNode, err := a.Analyze(defaultForm)
		if err != nil {
			return nil, err
		}
		lookup = node.NewCall(node.SourceInfo{}, node.NewVarRef(node.SourceInfo{}, "", "get"), []node.Node{mapNode, keyVal, defNode})
	}
	idx := a.locals.push(name)
	return []node.Binding{{Name: name, Idx: idx, Init: lookup}}, nil
}
