package pstore

import "fmt"

// InvariantError wraps a violated internal precondition: an out-of-range
// row index or active amount, a non-empty-block release, a request for an
// unregistered particle type, or (raised by simevent) a time factor above
// the current best. Index ordering is not checked. Per spec.md §7.2
// these are programmer errors: the core never
// tries to recover from them, it panics with an InvariantError so the
// host sees a typed value if it chooses to recover at its own boundary.
type InvariantError struct {
	Op      string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("particlesim: invariant violated in %s: %s", e.Op, e.Message)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Message: fmt.Sprintf(format, args...)})
}
