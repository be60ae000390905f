package vecenv

import "errors"

// Error implements errors unique to a vectorized environment
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

var errNotSupported = errors.New("not supported by this adapter")

var errClosed = errors.New("environment closed")

var errMultipleActionSpaces = errors.New("only a single action space " +
	"is supported")

var errBatch = errors.New("malformed batch")

// IsNotSupported returns whether or not an error reports that an
// operation of the VecEnv interface is not supported
func IsNotSupported(err error) bool {
	return errors.Is(err, errNotSupported)
}

// IsClosed returns whether or not an error reports that an operation
// was called on a closed environment
func IsClosed(err error) bool {
	return errors.Is(err, errClosed)
}

// IsMultipleActionSpaces returns whether or not an error reports that
// an environment with more than one action head was rejected
func IsMultipleActionSpaces(err error) bool {
	return errors.Is(err, errMultipleActionSpaces)
}

// IsMalformedBatch returns whether or not an error reports that a
// batch could not be converted between its list and dict forms
func IsMalformedBatch(err error) bool {
	return errors.Is(err, errBatch)
}
