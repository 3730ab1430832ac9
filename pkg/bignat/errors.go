package bignat

import (
	"errors"
	"fmt"
)

var (
	// ErrSizing indicates a size outside [0, capacity] or an operand that does
	// not fit the destination.
	ErrSizing = errors.New("bignat: invalid size")

	// ErrInvalidCopy indicates a copy into a shorter value whose truncated
	// leading bytes were not zero.
	ErrInvalidCopy = errors.New("bignat: truncated bytes are not zero")

	// ErrLockMisuse indicates a scratch slot locked twice or released while
	// free.
	ErrLockMisuse = errors.New("bignat: scratch slot lock misuse")

	// ErrDivisionByZero indicates a zero divisor on the variable-time path.
	ErrDivisionByZero = errors.New("bignat: division by zero")

	// ErrUnsupported indicates an operation the platform capability table
	// does not allow.
	ErrUnsupported = errors.New("bignat: operation not supported on this platform")

	// ErrModulusTooLarge indicates a modulus or base longer than the cipher
	// engine block.
	ErrModulusTooLarge = errors.New("bignat: modulus too large for cipher engine")

	// ErrUnexpectedLength indicates a cipher engine output shorter than its
	// block on a platform that is not known to strip zeros.
	ErrUnexpectedLength = errors.New("bignat: unexpected cipher output length")

	// ErrEngine indicates the cipher engine rejected a request.
	ErrEngine = errors.New("bignat: cipher engine failure")

	// ErrInvalidConfig indicates a Config that cannot produce a pool.
	ErrInvalidConfig = errors.New("bignat: invalid configuration")
)

// Error wraps an underlying error with the operation that raised it.
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bignat.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fatal aborts the current operation. Fatal errors are programming errors or
// variable-time failures; Resources.Guard turns them back into an error.
func fatal(op string, err error) {
	panic(&Error{Op: op, Err: err})
}

func fatalf(op string, err error, format string, args ...interface{}) {
	panic(&Error{Op: op, Err: fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))})
}
