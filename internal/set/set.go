/*
Package set implements a small ordered, iteratable set type over a
comparable element type, layered on top of github.com/emirpasic/gods's
red-black-tree backed treeset.

Unlike a plain Go map, iteration order is deterministic -- elements come
back in the order they were first added -- which keeps FIRST/FOLLOW dumps
and transition-table construction order reproducible across runs, useful
for golden-file style tests and for diffing parser tables between grammar
revisions.
*/
package set

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// entry pairs a set element with the position it was first inserted at.
// The backing treeset orders strictly by seq, never by the element's own
// value: a comparator keyed on value content (e.g. its %v form) can alias
// two genuinely distinct comparable values that happen to format the same
// way, silently dropping one of them from the tree. seq is unique per
// insertion by construction, so no two entries can ever collide.
type entry[T comparable] struct {
	value T
	seq   int
}

func comparator[T comparable](a, b interface{}) int {
	ea, eb := a.(entry[T]), b.(entry[T])
	switch {
	case ea.seq < eb.seq:
		return -1
	case ea.seq > eb.seq:
		return 1
	default:
		return 0
	}
}

// Set is an ordered set of comparable elements of type T.
type Set[T comparable] struct {
	tree  *treeset.Set
	index map[T]int
	next  int
}

// New returns an empty set, optionally pre-populated with elems.
func New[T comparable](elems ...T) *Set[T] {
	s := &Set[T]{tree: treeset.NewWith(comparator[T]), index: make(map[T]int)}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Add inserts v into the set. Returns true if the set grew. Membership is
// decided by v itself (T's built-in equality), not by the tree's internal
// ordering, so Add is correct regardless of how v formats.
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = s.next
	s.tree.Add(entry[T]{value: v, seq: s.next})
	s.next++
	return true
}

// Contains reports whether v is a member.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Size returns the number of elements.
func (s *Set[T]) Size() int { return len(s.index) }

// Empty reports whether the set has no elements.
func (s *Set[T]) Empty() bool { return len(s.index) == 0 }

// Values returns the elements in insertion order.
func (s *Set[T]) Values() []T {
	raw := s.tree.Values()
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(entry[T]).value
	}
	return out
}

// Union adds every element of other into s. Returns true if s grew.
func (s *Set[T]) Union(other *Set[T]) bool {
	changed := false
	for _, v := range other.Values() {
		if s.Add(v) {
			changed = true
		}
	}
	return changed
}

// Each calls f for every element, in insertion order.
func (s *Set[T]) Each(f func(T)) {
	for _, v := range s.Values() {
		f(v)
	}
}

func (s *Set[T]) String() string {
	vals := s.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
