// Package ext binds Go functions into the running interpreter's namespaces
// as builtin_fn Values, driven by coreconfig's go_bind entries
// (runtime_bind.go, registry.go).
package ext

// BindSpec describes one Go function binding: which host function to wrap
// and how to adapt its signature to a builtin_fn call. A trimmed form of
// the teacher's funxy.yaml BindSpec (internal/ext's original Type/Const/
// Methods/ChainResult/Constructor/TypeArgs fields addressed a static
// codegen pipeline this runtime binder doesn't have; see DESIGN.md for why
// that pipeline wasn't carried forward).
type BindSpec struct {
	// Func names the Go function being bound, for error messages; the
	// actual reflect.Value comes from the caller (BindFunc's fn argument).
	Func string

	// As is the builtin_fn name it is interned under.
	As string

	// ErrorToResult converts a trailing (T, error) return into a
	// two-element [result err] vector instead of propagating a Go error.
	ErrorToResult bool

	// SkipContext supplies context.Background() automatically when the
	// wrapped function's first parameter is context.Context.
	SkipContext bool
}
