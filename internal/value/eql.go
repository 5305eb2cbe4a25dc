package value

// Eql implements the value-wise/structural equality contract from
// spec.md §4.1: primitives compare by value, collections compare
// structurally, everything else (functions, atoms, transients, opaque refs)
// compares by identity, which for Go pointers is reference equality.
func Eql(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Nil:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Float:
		return x == b.(Float)
	case Char:
		return x == b.(Char)
	case *BuiltinFn:
		return x == b.(*BuiltinFn)
	case *Str:
		y := b.(*Str)
		return string(x.Bytes) == string(y.Bytes)
	case *Symbol:
		y := b.(*Symbol)
		return x.NS == y.NS && x.Name == y.Name
	case *Keyword:
		y := b.(*Keyword)
		return x.NS == y.NS && x.Name == y.Name
	case *List:
		y := b.(*List)
		return eqlSeq(x.items, y.items)
	case *Vector:
		y := b.(*Vector)
		return eqlSeq(x.items, y.items)
	case *ArrayMap:
		return eqlMapLike(a, b)
	case *HashMap:
		return eqlMapLike(a, b)
	case *HashSet:
		y := b.(*HashSet)
		if len(x.items) != len(y.items) {
			return false
		}
		for _, it := range x.items {
			if !y.Contains(it) {
				return false
			}
		}
		return true
	case *Cons:
		return eqlSeqValue(a, b)
	case *Regex:
		y := b.(*Regex)
		return x.Source == y.Source
	default:
		// Functions, atoms, volatiles, transients, lazy seqs, delays,
		// reduced, protocols, var refs: identity comparison.
		return a == b
	}
}

func eqlSeq(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Eql(a[i], b[i]) {
			return false
		}
	}
	return true
}

// eqlSeqValue compares two sequence-shaped Values (List/Cons mixes)
// element-by-element by walking First/Rest.
func eqlSeqValue(a, b Value) bool {
	for {
		af, aok := firstRest(a)
		bf, bok := firstRest(b)
		if aok != bok {
			return false
		}
		if !aok {
			return true
		}
		if !Eql(af.first, bf.first) {
			return false
		}
		a, b = af.rest, bf.rest
	}
}

type firstRestPair struct {
	first Value
	rest  Value
}

func firstRest(v Value) (firstRestPair, bool) {
	switch x := v.(type) {
	case *List:
		if x.Count() == 0 {
			return firstRestPair{}, false
		}
		return firstRestPair{x.First(), x.Rest()}, true
	case *Cons:
		return firstRestPair{x.First, x.Rest}, true
	case Nil:
		return firstRestPair{}, false
	default:
		return firstRestPair{}, false
	}
}

func eqlMapLike(a, b Value) bool {
	ak, av := mapEntries(a)
	bk, bv := mapEntries(b)
	if len(ak) != len(bk) {
		return false
	}
	for i, k := range ak {
		found := false
		for j, k2 := range bk {
			if Eql(k, k2) {
				found = Eql(av[i], bv[j])
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func mapEntries(v Value) (keys, vals []Value) {
	switch m := v.(type) {
	case *ArrayMap:
		return m.keys, m.vals
	case *HashMap:
		m.Each(func(k, val Value) {
			keys = append(keys, k)
			vals = append(vals, val)
		})
		return keys, vals
	}
	return nil, nil
}
