package sreader

import (
	"testing"

	"github.com/coreclj/coreclj/internal/form"
)

func TestReadAtoms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want form.Kind
	}{
		{"nil", "nil", form.KindNil},
		{"true", "true", form.KindBool},
		{"int", "42", form.KindInt},
		{"negative int", "-7", form.KindInt},
		{"float", "3.14", form.KindFloat},
		{"string", `"hello"`, form.KindString},
		{"symbol", "foo", form.KindSymbol},
		{"keyword", ":foo", form.KindKeyword},
		{"list", "(+ 1 2)", form.KindList},
		{"vector", "[1 2 3]", form.KindVector},
		{"map", "{:a 1}", form.KindMap},
		{"set", "#{1 2 3}", form.KindSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Read(tt.src)
			if err != nil {
				t.Fatalf("Read(%q): %v", tt.src, err)
			}
			if f == nil {
				t.Fatalf("Read(%q): got nil form", tt.src)
			}
			if f.Kind != tt.want {
				t.Errorf("Read(%q).Kind = %v, want %v", tt.src, f.Kind, tt.want)
			}
		})
	}
}

func TestReadSymbolNamespace(t *testing.T) {
	f, err := Read("clojure.core/map")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.NS != "clojure.core" || f.Name != "map" {
		t.Errorf("got NS=%q Name=%q, want NS=clojure.core Name=map", f.NS, f.Name)
	}
}

func TestReadAutoResolvedKeyword(t *testing.T) {
	f, err := Read("::foo")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !f.Auto || f.Name != "foo" {
		t.Errorf("got Auto=%v Name=%q, want Auto=true Name=foo", f.Auto, f.Name)
	}
}

func TestReadNestedList(t *testing.T) {
	f, err := Read("(let [x 1] (+ x 2))")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Kind != form.KindList || len(f.Items) != 3 {
		t.Fatalf("got Kind=%v len(Items)=%d, want List of 3", f.Kind, len(f.Items))
	}
	if !f.Items[0].IsSymbolNamed("let") {
		t.Errorf("first item is not the `let` symbol")
	}
	if f.Items[1].Kind != form.KindVector {
		t.Errorf("second item is not a vector, got %v", f.Items[1].Kind)
	}
}

func TestReadAll(t *testing.T) {
	forms, err := ReadAll("1 2 3")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(forms) != 3 {
		t.Fatalf("got %d forms, want 3", len(forms))
	}
}

func TestReadComment(t *testing.T) {
	f, err := Read("; a comment\n42")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Kind != form.KindInt || f.Int != 42 {
		t.Errorf("got %+v, want int 42", f)
	}
}

func TestReadQuote(t *testing.T) {
	f, err := Read("'(a b)")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Kind != form.KindList || !f.Items[0].IsSymbolNamed("quote") {
		t.Fatalf("quote did not desugar to (quote ...): %+v", f)
	}
}
