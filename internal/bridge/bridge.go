// Package bridge defines the evaluator/bridge interface the analyzer calls
// during macro expansion (spec.md §4.4.4, §6). The analyzer does not embed
// an evaluator — it calls out to a caller-supplied Invoker, the sole
// recursive analyzer→evaluator coupling in the core.
package bridge

import "github.com/coreclj/coreclj/internal/value"

// Invoker dispatches a call to a Value that may be a builtin_fn or an
// interpreted (fn_val) callable. Spec.md §4.4.4 mandates it: without it,
// macros cannot fire (§9 open question 4).
type Invoker interface {
	Call(fn value.Value, args []value.Value) (value.Value, error)
}
