// Package history implements the History Service (spec §4.7): two
// independent undo/redo stacks (layer graph, per-network graph) with
// debounced coalescing, bypass windows for transient operations, and
// context-sensitive routing of a single user-facing undo command.
package history

// MaxHistory bounds every stack's past/future length (spec §3
// HistoryStack, default 50).
const MaxHistory = 50

// Stack is the {past, present, future} triple of spec §3, generic over the
// snapshot type each domain uses (LayerSnapshot or NetworkSnapshot).
type Stack[T any] struct {
	past    []T
	present T
	future  []T
	hasPresent bool
}

// NewStack returns an empty stack with no present value yet. The first
// Push establishes the initial present without creating a past entry.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Present returns the current value and whether one has ever been set.
func (s *Stack[T]) Present() (T, bool) {
	return s.present, s.hasPresent
}

// Push appends the current present to past (bounded at MaxHistory, oldest
// dropped first), sets next as the new present, and clears future (spec
// §4.7 pushLayer/pushNetwork: "append present to past, replace present,
// clear future").
func (s *Stack[T]) Push(next T, equal func(a, b T) bool) {
	if s.hasPresent && equal != nil && equal(s.present, next) {
		return // identical to present: no-op, per spec §4.7
	}
	if s.hasPresent {
		s.past = append(s.past, s.present)
		if len(s.past) > MaxHistory {
			s.past = s.past[len(s.past)-MaxHistory:]
		}
	}
	s.present = next
	s.hasPresent = true
	s.future = nil
}

// CanUndo reports whether past has at least one entry.
func (s *Stack[T]) CanUndo() bool {
	return len(s.past) > 0
}

// CanRedo reports whether future has at least one entry.
func (s *Stack[T]) CanRedo() bool {
	return len(s.future) > 0
}

// Undo moves present to future and pops the most recent past entry into
// present, returning the new present. No-op (returns current present) if
// past is empty.
func (s *Stack[T]) Undo() T {
	if !s.CanUndo() {
		return s.present
	}
	s.future = append(s.future, s.present)
	if len(s.future) > MaxHistory {
		s.future = s.future[len(s.future)-MaxHistory:]
	}
	n := len(s.past) - 1
	s.present = s.past[n]
	s.past = s.past[:n]
	return s.present
}

// Redo is the symmetric inverse of Undo.
func (s *Stack[T]) Redo() T {
	if !s.CanRedo() {
		return s.present
	}
	s.past = append(s.past, s.present)
	if len(s.past) > MaxHistory {
		s.past = s.past[len(s.past)-MaxHistory:]
	}
	n := len(s.future) - 1
	s.present = s.future[n]
	s.future = s.future[:n]
	return s.present
}

// PastLen and FutureLen expose stack depth for diagnostics/tests.
func (s *Stack[T]) PastLen() int   { return len(s.past) }
func (s *Stack[T]) FutureLen() int { return len(s.future) }
