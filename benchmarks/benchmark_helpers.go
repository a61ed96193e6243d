package benchmarks

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/utkarsh5026/connpool/pool"
)

// benchChannel is the no-op sub-channel of the benchmark transport.
type benchChannel struct{}

func (benchChannel) Close() error { return nil }

// benchConn is an in-memory connection with zero-cost operations so the
// benchmarks measure pool overhead, not transport work.
type benchConn struct {
	id     int64
	closed atomic.Bool
}

func (c *benchConn) Channel() (benchChannel, error) { return benchChannel{}, nil }

func (c *benchConn) Close() error {
	c.closed.Store(true)
	return nil
}

var dialCounter atomic.Int64

func benchFactory() (*benchConn, error) {
	return &benchConn{id: dialCounter.Add(1)}, nil
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newQueuedPool(opts ...pool.Option) *pool.QueuedPool[benchChannel, *benchConn] {
	all := append([]pool.Option{pool.WithLogger(quietLogger())}, opts...)
	return pool.NewQueuedPool[benchChannel, *benchConn](benchFactory, all...)
}

func newNullPool() *pool.NullPool[benchChannel, *benchConn] {
	return pool.NewNullPool[benchChannel, *benchConn](benchFactory, pool.WithLogger(quietLogger()))
}
