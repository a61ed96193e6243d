package pool

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// Classifier reports whether an error means the underlying connection has
// been invalidated (severed transport, closed session) as opposed to an
// application-level failure that leaves the connection usable. It is the
// sole input to the reuse-vs-destroy decision when a scoped use exits with
// an error, and it filters which errors are suppressed during destruction.
//
// Transports plug in their own classifier via WithClassifier; see
// rabbit.Classifier and muxconn.Classifier for examples.
type Classifier func(err error) bool

// DefaultClassifier is the conservative default. It recognizes only
// generic transport-close conditions and treats everything else, including
// unknown errors, as non-invalidating.
func DefaultClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var op *net.OpError
	return errors.As(err, &op)
}
