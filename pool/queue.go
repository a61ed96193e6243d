package pool

import (
	"context"
	"io"
)

// idleQueue is the bounded FIFO of idle fairies. A buffered channel gives
// the three operations the pool needs: non-blocking get, non-blocking put
// and a blocking get bounded by a context.
type idleQueue[S io.Closer, C Conn[S]] struct {
	ch chan *fairy[S, C]
}

func newIdleQueue[S io.Closer, C Conn[S]](capacity int) *idleQueue[S, C] {
	return &idleQueue[S, C]{ch: make(chan *fairy[S, C], capacity)}
}

func (q *idleQueue[S, C]) tryGet() (*fairy[S, C], bool) {
	select {
	case f := <-q.ch:
		return f, true
	default:
		return nil, false
	}
}

// get blocks until a fairy is available or ctx is done. The second return
// says whether a fairy was obtained; the error is ctx.Err() when it was
// not.
func (q *idleQueue[S, C]) get(ctx context.Context) (*fairy[S, C], bool, error) {
	select {
	case f := <-q.ch:
		return f, true, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (q *idleQueue[S, C]) tryPut(f *fairy[S, C]) bool {
	select {
	case q.ch <- f:
		return true
	default:
		return false
	}
}

func (q *idleQueue[S, C]) size() int {
	return len(q.ch)
}
