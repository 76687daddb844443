// Package history keeps snapshots of the field for undoing commands.
package history

import "src.movdino.sh/pkg/field"

// DefaultDepth is the default maximum number of snapshots kept.
const DefaultDepth = 100

// Stack is a bounded last-in-first-out stack of field snapshots. When full,
// new snapshots are refused rather than evicting old ones, so the oldest
// history always survives.
type Stack struct {
	depth     int
	snapshots []*field.Field
}

// New creates an empty Stack holding at most depth snapshots. A non-positive
// depth means DefaultDepth.
func New(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{depth: depth}
}

// Push saves a deep copy of f. It returns false and does nothing if the stack
// is full.
func (s *Stack) Push(f *field.Field) bool {
	if len(s.snapshots) >= s.depth {
		return false
	}
	s.snapshots = append(s.snapshots, f.Clone())
	return true
}

// Pop restores the latest snapshot into f and discards it. It returns false
// and leaves f untouched if the stack is empty.
func (s *Stack) Pop(f *field.Field) bool {
	n := len(s.snapshots)
	if n == 0 {
		return false
	}
	f.CopyFrom(s.snapshots[n-1])
	s.snapshots[n-1] = nil
	s.snapshots = s.snapshots[:n-1]
	return true
}

// Len returns the number of snapshots.
func (s *Stack) Len() int { return len(s.snapshots) }

// Depth returns the capacity of the stack.
func (s *Stack) Depth() int { return s.depth }
