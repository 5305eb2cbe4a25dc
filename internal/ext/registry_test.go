package ext

import (
	"testing"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/namespace"
	"github.com/coreclj/coreclj/internal/value"
)

func TestBindAllKnownPackage(t *testing.T) {
	h := gc.New(1 << 16)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("go.strings")

	if err := BindAll(h, ns, "strings", []string{"ToUpper"}, ""); err != nil {
		t.Fatalf("BindAll: %v", err)
	}
	v, ok := ns.Resolve("toUpper")
	if !ok {
		t.Fatal("toUpper not interned")
	}
	builtin := v.Root.(*value.BuiltinFn)
	out, err := builtin.Fn([]value.Value{value.NewString(h, "hi")})
	if err != nil {
		t.Fatalf("calling toUpper: %v", err)
	}
	if out.(*value.Str).String() != "HI" {
		t.Errorf("toUpper(hi) = %v, want HI", out)
	}
}

func TestBindAllUnknownPackage(t *testing.T) {
	h := gc.New(1 << 16)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("go.bogus")

	if err := BindAll(h, ns, "not-a-real-pkg", []string{"X"}, ""); err == nil {
		t.Error("expected an error for an unregistered package")
	}
}
