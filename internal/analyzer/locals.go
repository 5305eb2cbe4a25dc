package analyzer

// localEntry is one (name, index) pair in the locals stack (spec.md §4.4).
type localEntry struct {
	name string
	idx  int
}

// localsStack is the analyzer's mutable ordered sequence of locals. A local
// is in scope from push to matching shrink; innermost-first wins on name
// collision; indices are monotonically increasing within one compilation
// unit (spec.md §4.4).
type localsStack struct {
	entries []localEntry
	nextIdx int
}

// push introduces a new local and returns its index.
func (s *localsStack) push(name string) int {
	idx := s.nextIdx
	s.nextIdx++
	s.entries = append(s.entries, localEntry{name, idx})
	return idx
}

// mark returns a checkpoint to shrink back to when the local's scope ends.
func (s *localsStack) mark() int { return len(s.entries) }

// shrinkTo pops locals pushed since mark, restoring the checkpoint's scope.
func (s *localsStack) shrinkTo(mark int) { s.entries = s.entries[:mark] }

// resolve looks up name innermost-first, matching spec.md §4.4's "innermost
// first wins on name collision".
func (s *localsStack) resolve(name string) (int, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].name == name {
			return s.entries[i].idx, true
		}
	}
	return 0, false
}
