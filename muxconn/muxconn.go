// Package muxconn adapts multiplexed smux sessions to the pool contract:
// the pooled connection is a smux session over a TCP (or any net.Conn)
// transport, and the derived sub-channel is a stream opened on it.
//
//	p := muxconn.NewPool("127.0.0.1:9000",
//	    pool.WithMaxSize(8),
//	    pool.WithStale(time.Minute),
//	)
//	defer p.Close()
//
//	err := p.With(func(stream *smux.Stream) error {
//	    _, err := stream.Write(payload)
//	    return err
//	})
package muxconn

import (
	"errors"
	"net"
	"time"

	"github.com/xtaci/smux"

	"github.com/utkarsh5026/connpool/pool"
)

// DefaultDialTimeout bounds the TCP dial inside the default factory.
const DefaultDialTimeout = 5 * time.Second

// Conn is a pooled smux session. It satisfies pool.Conn[*smux.Stream]:
// Channel opens a stream on the session.
type Conn struct {
	sess *smux.Session
	addr string
}

// Client wraps an already-established transport connection in a
// client-side smux session. A nil cfg uses DefaultConfig. Useful for
// transports other than TCP and for tests running over net.Pipe.
func Client(raw net.Conn, cfg *smux.Config) (*Conn, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	sess, err := smux.Client(raw, cfg)
	if err != nil {
		raw.Close()
		return nil, err
	}
	return &Conn{sess: sess, addr: raw.RemoteAddr().String()}, nil
}

// Channel opens a new stream on the session.
func (c *Conn) Channel() (*smux.Stream, error) {
	return c.sess.OpenStream()
}

// Close shuts the session down, closing every stream on it.
func (c *Conn) Close() error {
	return c.sess.Close()
}

// Session exposes the underlying smux session.
func (c *Conn) Session() *smux.Session {
	return c.sess
}

func (c *Conn) String() string {
	return c.addr
}

// DefaultConfig returns the smux tuning used by Dialer when none is
// given.
func DefaultConfig() *smux.Config {
	return &smux.Config{
		Version:           1,
		KeepAliveInterval: 5 * time.Second,
		KeepAliveTimeout:  30 * time.Second,
		MaxFrameSize:      65535,
		MaxReceiveBuffer:  4194304,
		MaxStreamBuffer:   131072,
	}
}

// Dialer returns a pool factory that dials addr over TCP and negotiates a
// client-side smux session on it. A nil cfg uses DefaultConfig; a
// non-positive dialTimeout uses DefaultDialTimeout.
func Dialer(addr string, cfg *smux.Config, dialTimeout time.Duration) pool.Factory[*Conn] {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return func() (*Conn, error) {
		raw, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err != nil {
			return nil, err
		}
		return Client(raw, cfg)
	}
}

// Classifier reports whether err means the session is no longer usable.
// Session-level smux failures and generic transport-close conditions are
// invalidating; stream-level timeouts and application errors are not.
func Classifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, smux.ErrInvalidProtocol) ||
		errors.Is(err, smux.ErrGoAway) ||
		errors.Is(err, smux.ErrConsumed) {
		return true
	}
	return pool.DefaultClassifier(err)
}

// NewPool builds a QueuedPool of smux sessions dialed to addr with this
// package's classifier preconfigured. Callers may still override any
// option.
func NewPool(addr string, opts ...pool.Option) *pool.QueuedPool[*smux.Stream, *Conn] {
	all := append([]pool.Option{pool.WithClassifier(Classifier)}, opts...)
	return pool.NewQueuedPool[*smux.Stream, *Conn](Dialer(addr, nil, 0), all...)
}
