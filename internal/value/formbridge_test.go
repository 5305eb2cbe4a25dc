package value

import (
	"testing"

	"github.com/coreclj/coreclj/internal/form"
	"github.com/coreclj/coreclj/internal/gc"
)

type fixedNS struct {
	current string
	aliases map[string]string
}

func (n fixedNS) CurrentNSName() string { return n.current }
func (n fixedNS) ResolveAlias(alias string) (string, bool) {
	target, ok := n.aliases[alias]
	return target, ok
}

// TestFormValueRoundTrip exercises §8 invariant 5: FormToValue followed by
// ValueToForm must reproduce the original form for every data-bearing Kind.
func TestFormValueRoundTrip(t *testing.T) {
	h := gc.New(1 << 20)
	ns := fixedNS{current: "user"}

	cases := []*form.Form{
		form.Nil(),
		form.BoolForm(true),
		form.IntForm(42),
		form.FloatForm(1.5),
		form.CharForm('a'),
		form.StrForm("hi"),
		form.Sym("ns", "x"),
		form.Kw("ns", "kw", false),
		form.ListForm(form.IntForm(1), form.IntForm(2)),
		form.VectorForm(form.IntForm(1), form.IntForm(2)),
		form.MapForm(form.Kw("", "a", false), form.IntForm(1)),
		form.SetForm(form.IntForm(1), form.IntForm(2)),
	}

	for _, in := range cases {
		v, err := FormToValue(h, ns, in)
		if err != nil {
			t.Fatalf("FormToValue(%v): %v", in, err)
		}
		out, err := ValueToForm(v)
		if err != nil {
			t.Fatalf("ValueToForm(%v): %v", v, err)
		}
		if !formsEqual(in, out) {
			t.Errorf("round trip mismatch: in=%+v out=%+v", in, out)
		}
	}
}

func TestAutoResolvedKeywordPromotesToCurrentNamespace(t *testing.T) {
	h := gc.New(1 << 20)
	ns := fixedNS{current: "user"}
	v, err := FormToValue(h, ns, form.Kw("", "x", true))
	if err != nil {
		t.Fatalf("FormToValue: %v", err)
	}
	kw, ok := v.(*Keyword)
	if !ok {
		t.Fatalf("got %T, want *Keyword", v)
	}
	if kw.NS != "user" {
		t.Errorf("got NS=%q, want %q", kw.NS, "user")
	}
}

func TestAutoResolvedKeywordResolvesAlias(t *testing.T) {
	h := gc.New(1 << 20)
	ns := fixedNS{current: "user", aliases: map[string]string{"s": "str-utils"}}
	v, err := FormToValue(h, ns, form.Kw("s", "x", true))
	if err != nil {
		t.Fatalf("FormToValue: %v", err)
	}
	kw := v.(*Keyword)
	if kw.NS != "str-utils" {
		t.Errorf("got NS=%q, want str-utils", kw.NS)
	}
}

func formsEqual(a, b *form.Form) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.NS != b.NS || a.Name != b.Name ||
		a.Int != b.Int || a.Float != b.Float || a.Bool != b.Bool ||
		a.Str != b.Str || a.Char != b.Char {
		return false
	}
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !formsEqual(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}
