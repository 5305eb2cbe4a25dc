package value

import (
	"fmt"
	"strconv"

	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/gc"
)

// NSContext supplies the current-namespace information needed to resolve
// auto-resolved keywords (spec.md §4.5) without internal/value importing
// internal/namespace (namespace imports value, not the reverse).
type NSContext interface {
	CurrentNSName() string
	ResolveAlias(alias string) (targetNS string, ok bool)
}

// FormToValue converts a reader Form to a Value, per spec.md §4.5. List and
// Vector record source_line/source_column plus per-child parallel arrays;
// values constructed at runtime (not via this function) keep zero positions.
func FormToValue(h *gc.Heap, ns NSContext, f *form.Form) (Value, error) {
	if f == nil {
		return NilValue, nil
	}
	switch f.Kind {
	case form.KindNil:
		return NilValue, nil
	case form.KindBool:
		return Bool(f.Bool), nil
	case form.KindInt:
		return Int(f.Int), nil
	case form.KindFloat:
		return Float(f.Float), nil
	case form.KindBigInt, form.KindBigDecimal, form.KindRatio:
		// Numeric literals beyond i64 range become bignum/rational Values in
		// the full system; bignum/rational arithmetic is explicitly out of
		// scope for this core (spec.md §1), so the literal text is carried
		// through unevaluated rather than parsed into an opaque numeric type.
		return NewString(h, f.Str), nil
	case form.KindChar:
		return Char(f.Char), nil
	case form.KindString:
		return NewString(h, f.Str), nil
	case form.KindSymbol:
		return NewSymbol(h, f.NS, f.Name), nil
	case form.KindKeyword:
		return formKeywordToValue(h, ns, f)
	case form.KindList:
		return formSeqToValue(h, ns, f, true)
	case form.KindVector:
		return formSeqToValue(h, ns, f, false)
	case form.KindMap:
		return formMapToValue(h, ns, f)
	case form.KindSet:
		items, err := formItemsToValues(h, ns, f.Items)
		if err != nil {
			return nil, err
		}
		return NewHashSet(h, items), nil
	case form.KindRegex:
		return NewRegex(h, f.Str)
	case form.KindTag:
		// Tagged literals produce nil unless extended (spec.md §6).
		return NilValue, nil
	default:
		return nil, fmt.Errorf("form_to_value: unknown form kind %d", f.Kind)
	}
}

// formKeywordToValue implements the auto-resolved keyword rule (spec.md
// §4.5, §9 open question 3): `::alias/name` resolves `alias` through the
// current namespace's aliases; `::name` promotes to `current_ns/name`. An
// unknown alias falls back to storing the alias literally as the keyword's
// namespace — intentionally, per §9 open question 3, rather than silently
// substituting different behavior.
func formKeywordToValue(h *gc.Heap, nsCtx NSContext, f *form.Form) (Value, error) {
	if !f.Auto {
		return NewKeyword(h, f.NS, f.Name), nil
	}
	if f.NS == "" {
		current := ""
		if nsCtx != nil {
			current = nsCtx.CurrentNSName()
		}
		return NewKeyword(h, current, f.Name), nil
	}
	if nsCtx != nil {
		if target, ok := nsCtx.ResolveAlias(f.NS); ok {
			return NewKeyword(h, target, f.Name), nil
		}
	}
	return NewKeyword(h, f.NS, f.Name), nil
}

func formItemsToValues(h *gc.Heap, ns NSContext, items []*form.Form) ([]Value, error) {
	out := make([]Value, len(items))
	for i, it := range items {
		v, err := FormToValue(h, ns, it)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formSeqToValue(h *gc.Heap, ns NSContext, f *form.Form, isList bool) (Value, error) {
	items, err := formItemsToValues(h, ns, f.Items)
	if err != nil {
		return nil, err
	}
	childLines := make([]uint32, len(f.Items))
	childCols := make([]uint32, len(f.Items))
	for i, it := range f.Items {
		childLines[i] = it.Line
		childCols[i] = uint32(it.Column)
	}
	if isList {
		l := NewList(h, items)
		l.Line, l.Column = f.Line, uint32(f.Column)
		l.ChildLines, l.ChildColumns = childLines, childCols
		return l, nil
	}
	v := NewVector(h, items)
	v.Line, v.Column = f.Line, uint32(f.Column)
	v.ChildLines, v.ChildColumns = childLines, childCols
	return v, nil
}

func formMapToValue(h *gc.Heap, ns NSContext, f *form.Form) (Value, error) {
	items, err := formItemsToValues(h, ns, f.Items)
	if err != nil {
		return nil, err
	}
	var keys, vals []Value
	for i := 0; i+1 < len(items); i += 2 {
		keys = append(keys, items[i])
		vals = append(vals, items[i+1])
	}
	if len(keys) > ArrayMapThreshold {
		m := NewHashMap(h)
		for i, k := range keys {
			m = m.Assoc(k, vals[i])
		}
		return m, nil
	}
	return NewArrayMap(h, keys, vals), nil
}

// ValueToForm is the inverse conversion (spec.md §4.5). List/Vector restore
// their recorded source positions; when a child carries no position of its
// own, the parallel ChildLines/ChildColumns arrays supply one. Lazy
// sequences and cons chains are realized first. Non-data Values (functions,
// atoms, transients, opaque refs) convert to nil — they cannot appear as
// macro output semantically.
func ValueToForm(v Value) (*form.Form, error) {
	switch x := v.(type) {
	case Nil:
		return form.Nil(), nil
	case Bool:
		return form.BoolForm(bool(x)), nil
	case Int:
		return form.IntForm(int64(x)), nil
	case Float:
		return form.FloatForm(float64(x)), nil
	case Char:
		return form.CharForm(rune(x)), nil
	case *Str:
		return form.StrForm(string(x.Bytes)), nil
	case *Symbol:
		return form.Sym(x.NS, x.Name), nil
	case *Keyword:
		return form.Kw(x.NS, x.Name, false), nil
	case *List:
		return valueSeqToForm(x.items, true, x.Line, uint16(x.Column), x.ChildLines, x.ChildColumns)
	case *Vector:
		return valueSeqToForm(x.items, false, x.Line, uint16(x.Column), x.ChildLines, x.ChildColumns)
	case *ArrayMap:
		return arrayMapToForm(x)
	case *HashMap:
		var items []*form.Form
		var convErr error
		x.Each(func(k, val Value) {
			if convErr != nil {
				return
			}
			kf, err := ValueToForm(k)
			if err != nil {
				convErr = err
				return
			}
			vf, err := ValueToForm(val)
			if err != nil {
				convErr = err
				return
			}
			items = append(items, kf, vf)
		})
		if convErr != nil {
			return nil, convErr
		}
		return form.MapForm(items...), nil
	case *HashSet:
		items, err := valuesToForms(x.items)
		if err != nil {
			return nil, err
		}
		return form.SetForm(items...), nil
	case *LazySeq:
		realized, err := x.Realize()
		if err != nil {
			return nil, err
		}
		return ValueToForm(realized)
	case *Cons:
		items, err := consToForms(x)
		if err != nil {
			return nil, err
		}
		return form.ListForm(items...), nil
	case *Regex:
		return &form.Form{Kind: form.KindRegex, Str: x.Source}, nil
	default:
		// Functions, atoms, transients, protocols, var refs, delays,
		// reduced: not data; convert to nil.
		return form.Nil(), nil
	}
}

func arrayMapToForm(m *ArrayMap) (*form.Form, error) {
	var items []*form.Form
	for i, k := range m.keys {
		kf, err := ValueToForm(k)
		if err != nil {
			return nil, err
		}
		vf, err := ValueToForm(m.vals[i])
		if err != nil {
			return nil, err
		}
		items = append(items, kf, vf)
	}
	return form.MapForm(items...), nil
}

func valuesToForms(vs []Value) ([]*form.Form, error) {
	out := make([]*form.Form, len(vs))
	for i, v := range vs {
		f, err := ValueToForm(v)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func consToForms(c *Cons) ([]*form.Form, error) {
	var out []*form.Form
	var cur Value = c
	for {
		switch x := cur.(type) {
		case *Cons:
			f, err := ValueToForm(x.First)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
			cur = x.Rest
		case *List:
			for i := 0; i < x.Count(); i++ {
				item, _ := x.Nth(i)
				f, err := ValueToForm(item)
				if err != nil {
					return nil, err
				}
				out = append(out, f)
			}
			return out, nil
		case Nil:
			return out, nil
		default:
			return out, nil
		}
	}
}

func valueSeqToForm(items []Value, isList bool, line uint32, col uint16, childLines []uint32, childCols []uint32) (*form.Form, error) {
	forms, err := valuesToForms(items)
	if err != nil {
		return nil, err
	}
	for i, f := range forms {
		if f.Line == 0 && i < len(childLines) {
			f.Line = childLines[i]
		}
		if f.Column == 0 && i < len(childCols) {
			f.Column = uint16(childCols[i])
		}
	}
	var out *form.Form
	if isList {
		out = form.ListForm(forms...)
	} else {
		out = form.VectorForm(forms...)
	}
	out.Line, out.Column = line, col
	return out, nil
}

// parseBigLiteral is kept for future bignum support; unused today since
// bignum arithmetic is out of scope (spec.md §1) and literals are carried
// as text (see FormToValue's KindBigInt/KindBigDecimal/KindRatio case).
func parseBigLiteral(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
