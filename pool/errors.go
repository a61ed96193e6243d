package pool

import "errors"

var (
	// ErrTimeout is returned by acquire when no connection could be
	// obtained, from the idle queue or by dialing, within the wait bound.
	ErrTimeout = errors.New("connection acquisition timed out")

	// ErrPoolClosed is returned by acquire after the pool has been closed.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrHandleFinished is returned when a Handle is used after Release
	// or Close.
	ErrHandleFinished = errors.New("handle already released or closed")
)
