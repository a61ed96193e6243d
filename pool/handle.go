package pool

import "io"

// Handle is a single-use borrow of a pooled connection, valid between
// acquire and exactly one of Release or Close. Calling either a second
// time is a no-op, never a double-destroy. A Handle must not be shared
// across goroutines.
type Handle[S io.Closer, C Conn[S]] struct {
	pool  manager[S, C]
	fairy *fairy[S, C]
}

func newHandle[S io.Closer, C Conn[S]](p manager[S, C], f *fairy[S, C]) *Handle[S, C] {
	return &Handle[S, C]{pool: p, fairy: f}
}

// Channel returns the connection's derived sub-channel, deriving it on
// first use. Repeated calls return the same sub-channel. Fails with
// ErrHandleFinished after Release or Close.
func (h *Handle[S, C]) Channel() (S, error) {
	if h.fairy == nil {
		var zero S
		return zero, ErrHandleFinished
	}
	return h.fairy.subchannel()
}

// Conn exposes the raw pooled connection for operations the sub-channel
// does not cover. Returns the zero value after Release or Close.
func (h *Handle[S, C]) Conn() C {
	if h.fairy == nil {
		var zero C
		return zero
	}
	return h.fairy.cxn
}

// Release returns the connection to the pool for reuse. The Handle is
// finished afterwards.
func (h *Handle[S, C]) Release() {
	if h.fairy == nil {
		return
	}
	h.pool.release(h.fairy)
	h.fairy = nil
}

// Close destroys the connection instead of returning it, for when the
// caller knows it is no longer usable. Destruction errors not recognized
// by the pool's classifier are returned. The Handle is finished
// afterwards.
func (h *Handle[S, C]) Close() error {
	if h.fairy == nil {
		return nil
	}
	f := h.fairy
	h.fairy = nil
	return h.pool.destroy(f)
}

func (h *Handle[S, C]) String() string {
	if h.fairy == nil {
		return "<finished>"
	}
	return h.fairy.String()
}
