package namespace

import (
	"testing"

	"github.com/coreclj/coreclj/internal/value"
)

func TestDerefPrefersThreadBindingOverRoot(t *testing.T) {
	v := newVar("user", "*out*")
	v.Dynamic = true
	v.Root = value.Int(1)

	var stack BindingStack
	if got := stack.Deref(v); got != value.Int(1) {
		t.Fatalf("Deref with no thread binding = %v, want root 1", got)
	}

	stack.PushBindings(NewFrame(map[*Var]value.Value{v: value.Int(2)}))
	if got := stack.Deref(v); got != value.Int(2) {
		t.Fatalf("Deref with a thread binding = %v, want 2", got)
	}

	stack.PopBindings()
	if got := stack.Deref(v); got != value.Int(1) {
		t.Fatalf("Deref after pop = %v, want root 1 again", got)
	}
}

func TestDerefIgnoresThreadBindingForNonDynamicVar(t *testing.T) {
	v := newVar("user", "x")
	v.Root = value.Int(1)

	var stack BindingStack
	stack.PushBindings(NewFrame(map[*Var]value.Value{v: value.Int(99)}))
	if got := stack.Deref(v); got != value.Int(1) {
		t.Errorf("Deref on a non-dynamic var = %v, want root 1 (thread bindings ignored)", got)
	}
}

func TestPushPopNestedFramesRoundTrip(t *testing.T) {
	v := newVar("user", "*d*")
	v.Dynamic = true
	v.Root = value.Int(0)

	var stack BindingStack
	stack.PushBindings(NewFrame(map[*Var]value.Value{v: value.Int(1)}))
	stack.PushBindings(NewFrame(map[*Var]value.Value{v: value.Int(2)}))
	if got := stack.Deref(v); got != value.Int(2) {
		t.Fatalf("innermost frame = %v, want 2", got)
	}
	stack.PopBindings()
	if got := stack.Deref(v); got != value.Int(1) {
		t.Fatalf("after one pop = %v, want 1", got)
	}
	stack.PopBindings()
	if got := stack.Deref(v); got != value.Int(0) {
		t.Fatalf("after popping every frame = %v, want root 0", got)
	}
}

func TestPopBindingsOnEmptyStackIsNoOp(t *testing.T) {
	var stack BindingStack
	stack.PopBindings() // must not panic
	if stack.CurrentBindingFrame() != nil {
		t.Error("popping an empty stack produced a non-nil frame")
	}
}

func TestSetThreadBindingRequiresAnExistingFrame(t *testing.T) {
	v := newVar("user", "*d*")
	v.Dynamic = true

	var stack BindingStack
	if err := stack.SetThreadBinding(v, value.Int(1)); err == nil {
		t.Error("expected an error setting a thread binding with no bound frame")
	}

	stack.PushBindings(NewFrame(map[*Var]value.Value{v: value.Int(1)}))
	if err := stack.SetThreadBinding(v, value.Int(2)); err != nil {
		t.Fatalf("SetThreadBinding: %v", err)
	}
	if got := stack.Deref(v); got != value.Int(2) {
		t.Errorf("after SetThreadBinding, Deref = %v, want 2", got)
	}
}
