package value

import (
	"reflect"
	"testing"

	"github.com/coreclj/coreclj/internal/gc"
)

// TestTraceValueCoversAllKinds is the completeness check trace.go's doc
// comment promises: one representative instance per Kind, traced through
// TraceValue under recover(). A Kind listed in kindNames without a matching
// sample here, or without a matching case in TraceValue's switch, fails
// this test by name — the closest Go gets to the compile-time exhaustive
// match spec.md §9 asks for and can't actually have.
func TestTraceValueCoversAllKinds(t *testing.T) {
	h := gc.New(1 << 20)

	proto := NewTreewalkProto(h, nil, gc.Ptr{})
	fn := NewFn(h, proto, ProtoTreewalk, nil)
	protocol := NewProtocol(h, "Proto", []string{"m"})
	regex, err := NewRegex(h, "a+")
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}

	samples := map[Kind]Value{
		KindNil:       NilValue,
		KindBool:      Bool(true),
		KindInt:       Int(1),
		KindFloat:     Float(1.5),
		KindChar:      Char('a'),
		KindBuiltinFn: &BuiltinFn{Name: "f", Fn: func([]Value) (Value, error) { return NilValue, nil }},

		KindString: NewString(h, "s"),

		KindSymbol:  NewSymbol(h, "", "sym"),
		KindKeyword: NewKeyword(h, "", "kw"),

		KindList:     NewList(h, []Value{Int(1)}),
		KindVector:   NewVector(h, []Value{Int(1)}),
		KindArrayMap: NewArrayMap(h, []Value{Int(1)}, []Value{Int(2)}),
		KindHashMap:  NewHashMap(h),
		KindHashSet:  NewHashSet(h, []Value{Int(1)}),

		KindLazySeq:     NewLazySeq(h, func() (Value, error) { return NilValue, nil }),
		KindCons:        NewCons(h, Int(1), EmptyList()),
		KindChunkedCons: NewChunkedCons(h, NewArrayChunk(h, []Value{Int(1)}, 0, 1), EmptyList()),
		KindChunkBuffer: NewChunkBuffer(h),
		KindArrayChunk:  NewArrayChunk(h, []Value{Int(1)}, 0, 1),

		KindAtom:            NewAtom(h, Int(1)),
		KindVolatile:        NewVolatile(h, Int(1)),
		KindTransientVector: NewTransientVector(h, NewVector(h, []Value{Int(1)})),
		KindTransientMap:    NewTransientMap(h, NewHashMap(h)),
		KindTransientSet:    NewTransientSet(h, NewHashSet(h, nil)),

		KindFn:         fn,
		KindProtocol:   protocol,
		KindProtocolFn: NewProtocolFn(h, protocol, "m"),
		KindMultiFn:    NewMultiFn(h, "multi", NilValue),

		KindDelay:   NewDelay(h, func() (Value, error) { return NilValue, nil }),
		KindReduced: NewReduced(h, Int(1)),

		KindVarRef: NewVarRef(h, "x", "ns", Int(1)),
		KindRegex:  regex,
	}

	for k := range kindNames {
		if _, ok := samples[k]; !ok {
			t.Errorf("Kind %s (%d) has no sample in this test — add one before relying on TraceValue's coverage", k, k)
		}
	}

	for k, v := range samples {
		if v.Kind() != k {
			t.Errorf("sample for %s reports Kind() = %s", k, v.Kind())
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("TraceValue panicked on Kind %s (%s): %v", k, reflect.TypeOf(v), r)
				}
			}()
			TraceValue(h, v)
		}()
	}
}
