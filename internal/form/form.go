// Package form defines Form, the reader's output type. The Reader itself
// (text → Form) is out of scope for the core (spec.md §1); this package
// exists only so the analyzer has something concrete to consume, per the
// external interface contract in spec.md §6.
package form

// Kind tags the shape of a Form's Data.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindBigInt
	KindBigDecimal
	KindRatio
	KindChar
	KindString
	KindSymbol
	KindKeyword
	KindList
	KindVector
	KindMap
	KindSet
	KindRegex
	KindTag
)

// Form is a source-level datum with position, exactly as spec.md §6
// describes: `{ data, line: u32, column: u16 }`.
type Form struct {
	Kind   Kind
	Line   uint32
	Column uint16

	Bool    bool
	Int     int64
	Float   float64
	Char    rune
	Str     string // string/bigint/bigdecimal/ratio literal text, or regex source
	NS      string // symbol/keyword namespace
	Name    string // symbol/keyword name
	Auto    bool   // keyword auto-resolve flag (::name / ::alias/name)
	Tag     string // tagged-literal tag name

	// Collections: flat k,v,k,v for maps, per spec.md §6.
	Items []*Form
}

func Nil() *Form                    { return &Form{Kind: KindNil} }
func Sym(ns, name string) *Form     { return &Form{Kind: KindSymbol, NS: ns, Name: name} }
func Kw(ns, name string, auto bool) *Form {
	return &Form{Kind: KindKeyword, NS: ns, Name: name, Auto: auto}
}
func IntForm(v int64) *Form   { return &Form{Kind: KindInt, Int: v} }
func FloatForm(v float64) *Form { return &Form{Kind: KindFloat, Float: v} }
func BoolForm(v bool) *Form   { return &Form{Kind: KindBool, Bool: v} }
func StrForm(v string) *Form  { return &Form{Kind: KindString, Str: v} }
func CharForm(v rune) *Form   { return &Form{Kind: KindChar, Char: v} }
func ListForm(items ...*Form) *Form   { return &Form{Kind: KindList, Items: items} }
func VectorForm(items ...*Form) *Form { return &Form{Kind: KindVector, Items: items} }
func MapForm(items ...*Form) *Form    { return &Form{Kind: KindMap, Items: items} }
func SetForm(items ...*Form) *Form    { return &Form{Kind: KindSet, Items: items} }

// WithPos returns f with its source position set, for readers/tests that
// build Forms programmatically.
func (f *Form) WithPos(line uint32, col uint16) *Form {
	f.Line = line
	f.Column = col
	return f
}

// IsSymbolNamed reports whether f is an unqualified symbol with the given
// name — used throughout the analyzer's special-form dispatch.
func (f *Form) IsSymbolNamed(name string) bool {
	return f != nil && f.Kind == KindSymbol && f.NS == "" && f.Name == name
}
