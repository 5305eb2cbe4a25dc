package ext

import (
	"errors"
	"testing"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/value"
)

func TestBindFuncSimple(t *testing.T) {
	h := gc.New(1 << 16)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("go.strings")

	add := func(a, b int) int { return a + b }
	if err := BindFunc(h, ns, BindSpec{As: "add"}, add); err != nil {
		t.Fatalf("BindFunc: %v", err)
	}

	v, ok := ns.Resolve("add")
	if !ok {
		t.Fatal("add not interned")
	}
	builtin, ok := v.Root.(*value.BuiltinFn)
	if !ok {
		t.Fatalf("Root is %T, want *value.BuiltinFn", v.Root)
	}
	out, err := builtin.Fn([]value.Value{value.Int(2), value.Int(3)})
	if err != nil {
		t.Fatalf("calling add: %v", err)
	}
	if out.(value.Int) != 5 {
		t.Errorf("add(2,3) = %v, want 5", out)
	}
}

func TestBindFuncErrorPropagation(t *testing.T) {
	h := gc.New(1 << 16)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("go.errs")

	boom := func() (int, error) { return 0, errors.New("boom") }
	if err := BindFunc(h, ns, BindSpec{As: "boom"}, boom); err != nil {
		t.Fatalf("BindFunc: %v", err)
	}
	v, _ := ns.Resolve("boom")
	builtin := v.Root.(*value.BuiltinFn)
	if _, err := builtin.Fn(nil); err == nil {
		t.Error("expected the Go error to propagate when ErrorToResult is false")
	}
}

func TestBindFuncErrorToResult(t *testing.T) {
	h := gc.New(1 << 16)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("go.errs2")

	boom := func() (int, error) { return 0, errors.New("boom") }
	if err := BindFunc(h, ns, BindSpec{As: "boom", ErrorToResult: true}, boom); err != nil {
		t.Fatalf("BindFunc: %v", err)
	}
	v, _ := ns.Resolve("boom")
	builtin := v.Root.(*value.BuiltinFn)
	out, err := builtin.Fn(nil)
	if err != nil {
		t.Fatalf("expected no Go error with ErrorToResult, got %v", err)
	}
	vec, ok := out.(*value.Vector)
	if !ok || vec.Count() != 2 {
		t.Fatalf("expected a 2-element result vector, got %T", out)
	}
}
