package rpcdebug

import (
	"context"
	"testing"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/coreclj/coreclj/internal/gc"
	"github.com/coreclj/coreclj/internal/namespace"
)

func newTestService(t *testing.T) (*Service, *namespace.Env) {
	t.Helper()
	h := gc.New(1 << 16)
	env := namespace.NewEnv(h)
	ns := env.FindOrCreate("user")
	ns.Intern("x")
	svc, err := New(h, env)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc, env
}

func TestNewParsesEmbeddedSchema(t *testing.T) {
	svc, _ := newTestService(t)
	if svc.svcDesc.FindMethodByName("GetStats") == nil {
		t.Error("GetStats missing from parsed service descriptor")
	}
	if svc.svcDesc.FindMethodByName("ListVars") == nil {
		t.Error("ListVars missing from parsed service descriptor")
	}
}

func TestGetStats(t *testing.T) {
	svc, _ := newTestService(t)
	out, err := svc.getStats(context.Background(), nil)
	if err != nil {
		t.Fatalf("getStats: %v", err)
	}
	v, err := out.TryGetFieldByName("threshold")
	if err != nil {
		t.Fatalf("reading threshold field: %v", err)
	}
	if v.(int64) != 1<<16 {
		t.Errorf("threshold = %v, want %d", v, 1<<16)
	}
}

func TestListNamespaces(t *testing.T) {
	svc, _ := newTestService(t)
	out, err := svc.listNamespaces(context.Background(), nil)
	if err != nil {
		t.Fatalf("listNamespaces: %v", err)
	}
	names, err := out.TryGetFieldByName("namespaces")
	if err != nil {
		t.Fatalf("reading namespaces field: %v", err)
	}
	list, ok := names.([]interface{})
	if !ok || len(list) != 1 {
		t.Fatalf("got %#v, want a single-namespace list", names)
	}
}

func TestListVarsUnknownNamespace(t *testing.T) {
	svc, _ := newTestService(t)
	req := dynamic.NewMessage(svc.svcDesc.FindMethodByName("ListVars").GetInputType())
	if err := req.TrySetFieldByName("namespace", "does.not.exist"); err != nil {
		t.Fatalf("setting request field: %v", err)
	}
	out, err := svc.listVars(context.Background(), req)
	if err != nil {
		t.Fatalf("listVars: %v", err)
	}
	vars, _ := out.TryGetFieldByName("vars")
	if list, ok := vars.([]interface{}); ok && len(list) != 0 {
		t.Errorf("expected no vars for an unknown namespace, got %d", len(list))
	}
}

func TestListVarsKnownNamespace(t *testing.T) {
	svc, _ := newTestService(t)
	req := dynamic.NewMessage(svc.svcDesc.FindMethodByName("ListVars").GetInputType())
	if err := req.TrySetFieldByName("namespace", "user"); err != nil {
		t.Fatalf("setting request field: %v", err)
	}
	out, err := svc.listVars(context.Background(), req)
	if err != nil {
		t.Fatalf("listVars: %v", err)
	}
	vars, err := out.TryGetFieldByName("vars")
	if err != nil {
		t.Fatalf("reading vars field: %v", err)
	}
	list, ok := vars.([]interface{})
	if !ok || len(list) != 1 {
		t.Fatalf("got %#v, want a single-var list for namespace user", vars)
	}
}
