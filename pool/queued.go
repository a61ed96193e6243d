package pool

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// QueuedPool is the queue-backed Pool. Released connections are parked in
// a bounded FIFO (capacity maxSize) for reuse; up to maxOverflow extra
// connections may be dialed above that when the queue is empty. A
// mutex-guarded budget counter, initialized to maxSize+maxOverflow, caps
// how many live connections the pool has created at any moment.
//
// Acquire never blocks while dialing: a dial either proceeds immediately
// against the remaining budget or the acquire waits on the idle queue.
// Release never blocks: a full queue destroys the connection instead.
type QueuedPool[S io.Closer, C Conn[S]] struct {
	factory Factory[C]
	conf    *conf
	idle    *idleQueue[S, C]

	mu     sync.Mutex
	avail  int
	closed bool
}

// NewQueuedPool creates a QueuedPool around factory.
//
// Example:
//
//	p := NewQueuedPool[*smux.Stream, *muxconn.Conn](
//	    muxconn.Dialer("127.0.0.1:9000", nil, 5*time.Second),
//	    WithMaxSize(8),
//	    WithStale(time.Minute),
//	)
func NewQueuedPool[S io.Closer, C Conn[S]](factory Factory[C], opts ...Option) *QueuedPool[S, C] {
	cfg := newConf(opts...)
	return &QueuedPool[S, C]{
		factory: factory,
		conf:    cfg,
		idle:    newIdleQueue[S, C](cfg.maxSize),
		avail:   cfg.maxSize + cfg.maxOverflow,
	}
}

// Acquire obtains a Handle, waiting up to the pool's default timeout when
// the pool is exhausted. Returns ErrTimeout if no connection could be
// obtained in time, ErrPoolClosed after Close, or the factory's error
// unchanged if dialing failed.
func (p *QueuedPool[S, C]) Acquire() (*Handle[S, C], error) {
	return p.AcquireTimeout(p.conf.timeout)
}

// AcquireTimeout is Acquire with an explicit wait bound.
//
// When an expired or stale connection forces a retry, the wait bound is
// re-armed in full for the next attempt, matching the pool's lazy-eviction
// semantics; use AcquireContext for a hard overall deadline.
func (p *QueuedPool[S, C]) AcquireTimeout(timeout time.Duration) (*Handle[S, C], error) {
	if timeout <= 0 {
		timeout = p.conf.timeout
	}
	for {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		f, err := p.acquireFairy(ctx)
		cancel()
		if err != nil {
			return nil, err
		}
		if p.vet(f) {
			return newHandle[S, C](p, f), nil
		}
	}
}

// AcquireContext is Acquire bounded by the caller's context, which is a
// hard bound across eviction retries. Deadline expiry maps to ErrTimeout;
// plain cancellation surfaces as ctx.Err().
func (p *QueuedPool[S, C]) AcquireContext(ctx context.Context) (*Handle[S, C], error) {
	for {
		f, err := p.acquireFairy(ctx)
		if err != nil {
			return nil, err
		}
		if p.vet(f) {
			return newHandle[S, C](p, f), nil
		}
	}
}

// acquireFairy implements one acquisition attempt: non-blocking pop, then
// a budget-gated dial, then a blocking pop bounded by ctx, then one last
// dial attempt for the case where budget was freed while we waited.
func (p *QueuedPool[S, C]) acquireFairy(ctx context.Context) (*fairy[S, C], error) {
	if f, ok := p.idle.tryGet(); ok {
		return f, nil
	}

	f, created, err := p.tryCreate()
	if err != nil {
		return nil, err
	}
	if created {
		return f, nil
	}

	f, ok, waitErr := p.idle.get(ctx)
	if ok {
		return f, nil
	}

	f, created, err = p.tryCreate()
	if err != nil {
		return nil, err
	}
	if created {
		return f, nil
	}
	if waitErr != nil && !errors.Is(waitErr, context.DeadlineExceeded) {
		return nil, waitErr
	}
	return nil, ErrTimeout
}

// tryCreate dials a new connection against the budget. The boolean is the
// overflow signal: (nil, false, nil) means no budget (or a denied dial
// token) and the caller should wait instead. A failed dial returns the
// reserved budget unit before propagating the factory's error.
func (p *QueuedPool[S, C]) tryCreate() (*fairy[S, C], bool, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, false, ErrPoolClosed
	}
	if p.avail <= 0 {
		p.mu.Unlock()
		return nil, false, nil
	}
	if p.conf.dialLimiter != nil && !p.conf.dialLimiter.Allow() {
		p.mu.Unlock()
		return nil, false, nil
	}
	p.avail--
	p.mu.Unlock()

	cxn, err := p.factory()
	if err != nil {
		p.mu.Lock()
		p.avail++
		p.mu.Unlock()
		return nil, false, err
	}
	return newFairy[S](cxn), true, nil
}

// vet applies the lazy eviction policies to a candidate fairy. It reports
// whether the fairy is usable; an evicted fairy has been destroyed and the
// caller should retry.
func (p *QueuedPool[S, C]) vet(f *fairy[S, C]) bool {
	if p.isExpired(f) {
		p.conf.log.Infof("closing expired connection - %s", f)
		p.destroyLogged(f)
		return false
	}
	if p.isStale(f) {
		p.conf.log.Infof("closing stale connection - %s", f)
		p.destroyLogged(f)
		return false
	}
	return true
}

func (p *QueuedPool[S, C]) isExpired(f *fairy[S, C]) bool {
	if p.conf.recycle <= 0 {
		return false
	}
	return time.Since(f.createdAt) > p.conf.recycle
}

func (p *QueuedPool[S, C]) isStale(f *fairy[S, C]) bool {
	if p.conf.stale <= 0 {
		return false
	}
	return time.Since(f.releasedAt) > p.conf.stale
}

// With runs fn with a sub-channel from an acquired connection, releasing
// or destroying it afterwards based on the classifier's verdict on fn's
// error.
func (p *QueuedPool[S, C]) With(fn func(ch S) error) error {
	return scopedUse[S, C](p, fn)
}

// Stats returns a snapshot of the pool's counters.
func (p *QueuedPool[S, C]) Stats() Stats {
	p.mu.Lock()
	avail := p.avail
	p.mu.Unlock()

	capacity := p.conf.maxSize + p.conf.maxOverflow
	idle := p.idle.size()
	return Stats{
		Idle:      idle,
		InUse:     capacity - avail - idle,
		Available: avail,
		Capacity:  capacity,
	}
}

// Close marks the pool closed and destroys every idle connection. Later
// acquires fail with ErrPoolClosed. Handles still outstanding remain
// usable; their connections are destroyed when finished. Returns the
// joined unclassified destruction errors, if any.
func (p *QueuedPool[S, C]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	var errs []error
	for {
		f, ok := p.idle.tryGet()
		if !ok {
			break
		}
		if err := p.destroy(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// release stamps the fairy and parks it for reuse. A full queue, or a
// closed pool, destroys the fairy instead; releasing never blocks and
// never errors back to the caller.
func (p *QueuedPool[S, C]) release(f *fairy[S, C]) {
	f.releasedAt = time.Now()

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed || !p.idle.tryPut(f) {
		p.destroyLogged(f)
	}
}

// destroy returns the fairy's budget unit and tears the connection down.
// Unclassified teardown errors are returned.
func (p *QueuedPool[S, C]) destroy(f *fairy[S, C]) error {
	p.mu.Lock()
	p.avail++
	p.mu.Unlock()
	return f.destroy(p.conf.classifier)
}

// destroyLogged is destroy for paths that cannot surface an error to any
// caller (eviction, silent release-path destruction).
func (p *QueuedPool[S, C]) destroyLogged(f *fairy[S, C]) {
	if err := p.destroy(f); err != nil {
		p.conf.log.Warnf("error destroying connection - %s: %v", f, err)
	}
}

func (p *QueuedPool[S, C]) classify(err error) bool {
	return p.conf.classifier(err)
}
