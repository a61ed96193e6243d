package pool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newNullTestPool(opts ...Option) (*NullPool[*fakeChannel, *fakeConn], *fakeDialer) {
	dialer := &fakeDialer{}
	all := append([]Option{WithLogger(quietLogger())}, opts...)
	return NewNullPool[*fakeChannel, *fakeConn](dialer.factory(), all...), dialer
}

func TestNullPool_Acquire_DialsEveryTime(t *testing.T) {
	p, dialer := newNullTestPool()

	h1, err := p.Acquire()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := p.AcquireTimeout(time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dialer.dialCount() != 2 {
		t.Errorf("expected 2 dials, got %d", dialer.dialCount())
	}
	if h1.Conn() == h2.Conn() {
		t.Error("expected distinct connections")
	}

	h1.Release()
	h2.Release()
}

func TestNullPool_Release_ClosesImmediately(t *testing.T) {
	p, dialer := newNullTestPool()

	h, err := p.Acquire()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.Release()

	if dialer.closedCount() != 1 {
		t.Errorf("expected the connection closed on release, got %d closed", dialer.closedCount())
	}
}

func TestNullPool_Acquire_FactoryErrorPropagates(t *testing.T) {
	p, dialer := newNullTestPool()

	dialErr := errors.New("backend unreachable")
	dialer.setErr(dialErr)

	if _, err := p.Acquire(); !errors.Is(err, dialErr) {
		t.Fatalf("expected factory error, got %v", err)
	}
}

func TestNullPool_AcquireContext_CanceledBeforeDial(t *testing.T) {
	p, dialer := newNullTestPool()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.AcquireContext(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if dialer.dialCount() != 0 {
		t.Errorf("expected no dial for a canceled context, got %d", dialer.dialCount())
	}
}

func TestNullPool_With_DestroysOnEveryExit(t *testing.T) {
	p, dialer := newNullTestPool(WithClassifier(testClassifier))

	if err := p.With(func(ch *fakeChannel) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	appErr := errors.New("rejected")
	if err := p.With(func(ch *fakeChannel) error { return appErr }); !errors.Is(err, appErr) {
		t.Fatalf("expected callback error back, got %v", err)
	}
	if err := p.With(func(ch *fakeChannel) error { return errBrokenPipe }); !errors.Is(err, errBrokenPipe) {
		t.Fatalf("expected callback error back, got %v", err)
	}

	if dialer.dialCount() != 3 {
		t.Errorf("expected 3 dials, got %d", dialer.dialCount())
	}
	if dialer.closedCount() != 3 {
		t.Errorf("expected every connection closed, got %d", dialer.closedCount())
	}
}

func TestNullPool_CloseAndStats(t *testing.T) {
	p, _ := newNullTestPool()

	if stats := p.Stats(); stats != (Stats{}) {
		t.Errorf("expected a zero snapshot, got %+v", stats)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
