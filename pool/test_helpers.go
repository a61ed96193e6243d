package pool

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// fakeChannel is the sub-channel of the fake transport used across the
// pool tests.
type fakeChannel struct {
	id       int
	mu       sync.Mutex
	closed   bool
	closeErr error
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.closeErr
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeConn is an in-memory connection with controllable failure modes.
type fakeConn struct {
	id int

	mu           sync.Mutex
	closed       bool
	derives      int
	channel      *fakeChannel
	channelErr   error
	closeErr     error
	chanCloseErr error
}

func (c *fakeConn) Channel() (*fakeChannel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channelErr != nil {
		return nil, c.channelErr
	}
	c.derives++
	c.channel = &fakeChannel{id: c.derives, closeErr: c.chanCloseErr}
	return c.channel, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.closeErr
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) deriveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.derives
}

func (c *fakeConn) String() string {
	return fmt.Sprintf("fake-%d", c.id)
}

// fakeDialer counts dials and hands out fakeConns; set err to make the
// next dials fail.
type fakeDialer struct {
	mu    sync.Mutex
	dials int
	conns []*fakeConn
	err   error
}

func (d *fakeDialer) factory() Factory[*fakeConn] {
	return func() (*fakeConn, error) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.err != nil {
			return nil, d.err
		}
		d.dials++
		cxn := &fakeConn{id: d.dials}
		d.conns = append(d.conns, cxn)
		return cxn, nil
	}
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *fakeDialer) closedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, cxn := range d.conns {
		if cxn.isClosed() {
			n++
		}
	}
	return n
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestPool builds a QueuedPool over the fake transport with logging
// silenced; extra options are appended after the defaults.
func newTestPool(opts ...Option) (*QueuedPool[*fakeChannel, *fakeConn], *fakeDialer) {
	dialer := &fakeDialer{}
	all := append([]Option{WithLogger(quietLogger())}, opts...)
	return NewQueuedPool[*fakeChannel, *fakeConn](dialer.factory(), all...), dialer
}
