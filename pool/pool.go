package pool

import (
	"context"
	"io"
	"time"
)

// Factory creates a new live connection. It is supplied by the caller at
// pool construction and invoked whenever the pool needs to grow. Errors
// are propagated to the acquiring caller as-is; the pool never retries.
type Factory[C any] func() (C, error)

// Conn is the contract a pooled connection must satisfy. S is the type of
// the sub-channel derived from it (an AMQP channel, a smux stream, ...).
// Channel is called lazily, at most once per pooled connection; the
// derived sub-channel is cached and reused for the connection's lifetime.
type Conn[S io.Closer] interface {
	io.Closer
	Channel() (S, error)
}

// Pool hands out pooled connections as single-use Handles.
//
// Implementations:
//
//   - QueuedPool: bounded idle queue + overflow budget
//   - NullPool: no caching
type Pool[S io.Closer, C Conn[S]] interface {
	// Acquire obtains a Handle, waiting up to the pool's default timeout
	// if the pool is exhausted.
	Acquire() (*Handle[S, C], error)

	// AcquireTimeout is Acquire with an explicit wait bound.
	AcquireTimeout(timeout time.Duration) (*Handle[S, C], error)

	// AcquireContext is Acquire bounded by the caller's context. A
	// deadline expiry maps to ErrTimeout; plain cancellation surfaces as
	// ctx.Err().
	AcquireContext(ctx context.Context) (*Handle[S, C], error)

	// With runs fn with a sub-channel from an acquired connection and
	// finishes the Handle on every exit path: Release when fn succeeds or
	// fails with a non-connectivity error, Close when the error is
	// classified as invalidating or fn panics.
	With(fn func(ch S) error) error

	// Stats returns a point-in-time snapshot of the pool's counters.
	Stats() Stats

	// Close shuts the pool down, destroying idle connections. Outstanding
	// Handles stay valid; their connections are destroyed on release.
	Close() error
}

// Stats is a snapshot of a pool's capacity counters. The fields are read
// under the pool's lock but may be stale by the time the caller sees them.
type Stats struct {
	// Idle is the number of connections parked in the idle queue.
	Idle int
	// InUse is the number of connections currently out with Handles.
	InUse int
	// Available is the remaining creation budget.
	Available int
	// Capacity is maxSize+maxOverflow, the live-connection ceiling.
	Capacity int
}

// manager is the pool-side contract a Handle finishes against.
type manager[S io.Closer, C Conn[S]] interface {
	release(f *fairy[S, C])
	destroy(f *fairy[S, C]) error
	classify(err error) bool
}

// NullPool is the no-caching Pool: every acquire dials a fresh connection
// and every release destroys one. Useful as a drop-in during debugging and
// as the degenerate baseline in benchmarks.
type NullPool[S io.Closer, C Conn[S]] struct {
	factory Factory[C]
	conf    *conf
}

// NewNullPool creates a NullPool around factory. Capacity and eviction
// options are ignored; WithClassifier and WithLogger apply.
func NewNullPool[S io.Closer, C Conn[S]](factory Factory[C], opts ...Option) *NullPool[S, C] {
	return &NullPool[S, C]{
		factory: factory,
		conf:    newConf(opts...),
	}
}

// Acquire dials a new connection and wraps it in a Handle. Factory errors
// are propagated unchanged.
func (p *NullPool[S, C]) Acquire() (*Handle[S, C], error) {
	cxn, err := p.factory()
	if err != nil {
		return nil, err
	}
	return newHandle(p, newFairy[S](cxn)), nil
}

// AcquireTimeout ignores the timeout; dialing is never waited on.
func (p *NullPool[S, C]) AcquireTimeout(time.Duration) (*Handle[S, C], error) {
	return p.Acquire()
}

// AcquireContext ignores the context beyond a pre-flight cancellation
// check.
func (p *NullPool[S, C]) AcquireContext(ctx context.Context) (*Handle[S, C], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Acquire()
}

// With runs fn against a freshly dialed connection's sub-channel; the
// connection is destroyed afterwards regardless of outcome.
func (p *NullPool[S, C]) With(fn func(ch S) error) error {
	return scopedUse[S, C](p, fn)
}

// Stats returns a zero snapshot; a NullPool tracks no capacity state.
func (p *NullPool[S, C]) Stats() Stats {
	return Stats{}
}

// Close is a no-op; a NullPool holds no connections.
func (p *NullPool[S, C]) Close() error {
	return nil
}

func (p *NullPool[S, C]) release(f *fairy[S, C]) {
	if err := p.destroy(f); err != nil {
		p.conf.log.Warnf("error destroying connection on release - %s: %v", f, err)
	}
}

func (p *NullPool[S, C]) destroy(f *fairy[S, C]) error {
	return f.destroy(p.conf.classifier)
}

func (p *NullPool[S, C]) classify(err error) bool {
	return p.conf.classifier(err)
}

// scopedUse is the shared acquire/use/finish cycle behind With. The defer
// guarantees the Handle is finished on every exit path, including panics,
// which destroy the connection since its state is unknown.
func scopedUse[S io.Closer, C Conn[S]](p Pool[S, C], fn func(ch S) error) (err error) {
	h, err := p.Acquire()
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = h.Close()
			panic(r)
		}
		if err != nil && h.pool.classify(err) {
			_ = h.Close()
			return
		}
		h.Release()
	}()
	ch, err := h.Channel()
	if err != nil {
		return err
	}
	return fn(ch)
}
