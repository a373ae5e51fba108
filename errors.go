package particlesim

import (
	"errors"
	"fmt"
)

// Configuration-error sentinels (spec.md §7.1), checked with errors.Is.
// Simulate returns one of these, wrapped with the offending name, before
// any block is touched; state is left unchanged.
var (
	ErrDuplicateTypeName        = errors.New("particlesim: duplicate particle type name")
	ErrUndeclaredAttributeKind  = errors.New("particlesim: attribute declared with conflicting kinds")
	ErrMissingRequiredAttribute = errors.New("particlesim: required attribute redeclared with the wrong kind")
)

// PanicError is this package's panic value for a violated internal
// precondition, raised through invariant(). Per spec.md §7.2 such
// violations are programmer errors; the core never recovers from them.
// No code path in this package calls invariant(): the checks
// that exist (a time factor exceeding the current best, in simevent;
// out-of-range rows, releasing a non-empty block and requesting an
// unregistered type, in pstore) panic with *pstore.InvariantError.
// Index ordering and event-storage reads with no prior Filter write
// are not checked anywhere.
type PanicError struct {
	Op      string
	Message string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("particlesim: invariant violated in %s: %s", e.Op, e.Message)
}

func invariant(op, format string, args ...any) {
	panic(&PanicError{Op: op, Message: fmt.Sprintf(format, args...)})
}
