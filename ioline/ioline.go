/*
File    : simplesml/ioline/ioline.go

Package ioline supplies the sequential integer input abstraction shared by
the tree-walking interpreter's INPUT statement and the Simpletron VM's READ
opcode. Both consumers ask for exactly one integer at a time and must be
able to give up waiting for it, so Source is expressed in terms of
context.Context rather than a bare channel read.
*/
package ioline

import (
	"context"

	"github.com/pkg/errors"
)

// ErrExhausted is returned by a Source once it has no more values to give
// and will never produce one. Running INPUT/READ past the end of a batch
// input list is a runtime/SML fault.
var ErrExhausted = errors.New("input exhausted")

// Source is a cancellable, sequential supply of integers. Next blocks until
// a value is available, ctx is cancelled, or an implementation-specific
// timeout elapses; both the interpreter and the virtual machine call this
// same method so their I/O semantics stay identical.
type Source interface {
	Next(ctx context.Context) (int, error)
}

// Slice is a Source backed by a pre-supplied, ordered list of integers —
// a batch input mode for callers, such as the tests, where every
// INPUT/READ answer is known up front.
type Slice struct {
	values []int
	pos    int
}

// NewSlice wraps values as a batch Source. The slice is read in order and
// not mutated.
func NewSlice(values []int) *Slice {
	return &Slice{values: values}
}

// Next returns the next value in the slice, or ErrExhausted once the slice
// is used up. ctx cancellation is still honored so batch and interactive
// hosts share one call site in the interpreter and VM.
func (s *Slice) Next(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.pos >= len(s.values) {
		return 0, ErrExhausted
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}
