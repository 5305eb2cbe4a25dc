package namespace

import "fmt"

// ErrorKind enumerates the analyzer failure kinds from spec.md §4.4.5.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrNumber
	ErrString
	ErrName
	ErrArity
	ErrValue
	ErrType
	ErrArithmetic
	ErrIndex
	ErrIO
	ErrInternal
	ErrOutOfMemory
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax_error"
	case ErrNumber:
		return "number_error"
	case ErrString:
		return "string_error"
	case ErrName:
		return "name_error"
	case ErrArity:
		return "arity_error"
	case ErrValue:
		return "value_error"
	case ErrType:
		return "type_error"
	case ErrArithmetic:
		return "arithmetic_error"
	case ErrIndex:
		return "index_error"
	case ErrIO:
		return "io_error"
	case ErrInternal:
		return "internal_error"
	case ErrOutOfMemory:
		return "out_of_memory"
	}
	return "unknown_error"
}

// Phase is the pipeline stage an error was recorded in.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseAnalysis
	PhaseEval
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseAnalysis:
		return "analysis"
	case PhaseEval:
		return "eval"
	}
	return "unknown"
}

// SourceLoc is the offending Form's location, carried on an Error.
type SourceLoc struct {
	Line   uint32
	Column uint16
}

// Error is one recorded analyzer/eval failure.
type Error struct {
	Kind    ErrorKind
	Phase   Phase
	Message string
	Loc     SourceLoc

	// CallStack records fn name / namespace / file / line entries, per the
	// "short call-stack record" spec.md §6 requires error reporting to
	// carry.
	CallStack []CallStackEntry
}

type CallStackEntry struct {
	FnName string
	NS     string
	File   string
	Line   uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s) at %d:%d: %s", e.Kind, e.Phase, e.Loc.Line, e.Loc.Column, e.Message)
}

// ErrorContext is owned by Env (spec.md §4.4.5). It enforces "fail fast,
// fail once": the first error recorded for a compilation unit is never
// overwritten by a later one.
type ErrorContext struct {
	last *Error
}

// Record stores err unless an error is already recorded for this context.
// Returns true if it recorded (i.e. this was the first error).
func (c *ErrorContext) Record(err *Error) bool {
	if c.last != nil {
		return false
	}
	c.last = err
	return true
}

func (c *ErrorContext) Last() *Error { return c.last }

func (c *ErrorContext) HasError() bool { return c.last != nil }

// Reset clears the recorded error, starting a new compilation unit.
func (c *ErrorContext) Reset() { c.last = nil }
