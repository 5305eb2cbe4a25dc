package analyzer

import (
	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/node"
	"github.com/coreclj/coreclj/internal/value"
)

// expandAndAnalyze implements macro expansion (spec.md §4.4.4): the call
// form's unevaluated argument forms convert to Values, the macro Var's
// fn_val/builtin_fn Root is invoked through the caller-supplied bridge, and
// the resulting Value converts back to a Form and is analyzed recursively
// until a non-macro call, special form, or literal is reached.
func (a *Analyzer) expandAndAnalyze(f *form.Form, macroVar *namespace.Var) (node.Node, error) {
	if a.Invoker == nil {
		return nil, a.fail(namespace.ErrInternal, f, "macro expansion requires a bridge.Invoker")
	}
	if macroVar.Root == nil {
		return nil, a.fail(namespace.ErrName, f, "macro var has no root binding: "+macroVar.Qualified())
	}

	argVals := make([]value.Value, len(f.Items)-1)
	for i, af := range f.Items[1:] {
		v, err := value.FormToValue(a.Env.Heap, a.CurrentNS, af)
		if err != nil {
			return nil, a.fail(namespace.ErrValue, af, err.Error())
		}
		argVals[i] = v
	}

	expanded, err := a.Invoker.Call(macroVar.Root, argVals)
	if err != nil {
		return nil, a.fail(namespace.ErrInternal, f, "macro expansion failed: "+err.Error())
	}

	expandedForm, err := value.ValueToForm(expanded)
	if err != nil {
		return nil, a.fail(namespace.ErrValue, f, "macro expansion result is not a form: "+err.Error())
	}
	expandedForm.Line, expandedForm.Column = f.Line, f.Column
	return a.Analyze(expandedForm)
}
