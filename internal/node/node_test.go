package node

import (
	"testing"

	"github.com/coreclj/coreclj/internal/value"
)

// kindConstructors pairs every constructor with the Kind it must report.
// Only the Kinds listed here are checked; a new Kind added to node.go
// without an entry here is not detected.
func kindConstructors() map[Kind]Node {
	info := SourceInfo{File: "t.clj", Line: 1, Column: 2}
	fn := NewFn(info, "f", []FnArity{{Params: []string{"x"}, Body: NewConstant(info, value.Int(1))}})
	return map[Kind]Node{
		KindConstant:    NewConstant(info, value.Int(1)),
		KindLocalRef:    NewLocalRef(info, "x", 0),
		KindVarRef:      NewVarRef(info, "user", "f"),
		KindQuote:       NewQuote(info, value.Int(1)),
		KindIf:          NewIf(info, NewConstant(info, value.Bool(true)), NewConstant(info, value.Int(1)), nil),
		KindDo:          NewDo(info, nil),
		KindLet:         NewLet(info, nil, NewConstant(info, value.Int(1))),
		KindLoop:        NewLoop(info, nil, NewConstant(info, value.Int(1))),
		KindRecur:       NewRecur(info, nil),
		KindFn:          fn,
		KindCall:        NewCall(info, NewVarRef(info, "", "f"), nil),
		KindThrow:       NewThrow(info, NewConstant(info, value.Int(1))),
		KindTry:         NewTry(info, NewConstant(info, value.Int(1)), nil, nil),
		KindDef:         NewDef(info, "x", NewConstant(info, value.Int(1)), false),
		KindDefProtocol: NewDefProtocol(info, "Proto", []string{"m"}),
		KindExtendType:  NewExtendType(info, "T", "Proto", map[string]*Fn{}),
		KindDefMulti:    NewDefMulti(info, "m", NewConstant(info, value.Int(1))),
		KindDefMethod:   NewDefMethod(info, "m", NewConstant(info, value.Int(1)), fn),
		KindLazySeq:     NewLazySeqNode(info, fn),
	}
}

func TestEveryNodeReportsItsOwnKind(t *testing.T) {
	for wantKind, n := range kindConstructors() {
		if got := n.Kind(); got != wantKind {
			t.Errorf("constructor for Kind %d produced a node reporting Kind() = %d", wantKind, got)
		}
	}
}

func TestEveryNodePreservesSourceInfo(t *testing.T) {
	want := SourceInfo{File: "t.clj", Line: 1, Column: 2}
	for kind, n := range kindConstructors() {
		if got := n.Source(); got != want {
			t.Errorf("Kind %d: Source() = %+v, want %+v", kind, got, want)
		}
	}
}

func TestIfElseNilMeansNoElseBranch(t *testing.T) {
	info := SourceInfo{}
	n := NewIf(info, NewConstant(info, value.Bool(true)), NewConstant(info, value.Int(1)), nil)
	if n.Else != nil {
		t.Error("If.Else should be nil when no else branch was supplied")
	}
}

func TestRecurCarriesArgsForInnermostTarget(t *testing.T) {
	info := SourceInfo{}
	args := []Node{NewConstant(info, value.Int(1)), NewConstant(info, value.Int(2))}
	n := NewRecur(info, args)
	if len(n.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(n.Args))
	}
}
