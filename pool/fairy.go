package pool

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// fairy wraps one live connection together with the pool's private
// bookkeeping: the lazily derived sub-channel, creation and last-release
// timestamps and a display string computed once at creation.
//
// A fairy is owned by exactly one party at a time: the idle queue or a
// Handle. Once destroyed it is never requeued or reused.
type fairy[S io.Closer, C Conn[S]] struct {
	cxn        C
	channel    S
	hasChannel bool
	createdAt  time.Time
	releasedAt time.Time
	desc       string
}

func newFairy[S io.Closer, C Conn[S]](cxn C) *fairy[S, C] {
	now := time.Now()
	return &fairy[S, C]{
		cxn:        cxn,
		createdAt:  now,
		releasedAt: now,
		desc:       describe(cxn),
	}
}

// subchannel returns the derived sub-channel, deriving it on first use.
// The same sub-channel is reused for the fairy's whole lifetime.
func (f *fairy[S, C]) subchannel() (S, error) {
	if !f.hasChannel {
		ch, err := f.cxn.Channel()
		if err != nil {
			return ch, err
		}
		f.channel = ch
		f.hasChannel = true
	}
	return f.channel, nil
}

// destroy closes the sub-channel, if one was derived, and then the
// connection. Errors the classifier marks as invalidating are expected
// here (the connection is being torn down anyway) and suppressed;
// anything else is collected and returned. The connection close is
// attempted even when the sub-channel close fails.
func (f *fairy[S, C]) destroy(invalidated Classifier) error {
	var errs []error
	if f.hasChannel {
		if err := f.channel.Close(); err != nil && !invalidated(err) {
			errs = append(errs, err)
		}
		f.hasChannel = false
	}
	if err := f.cxn.Close(); err != nil && !invalidated(err) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (f *fairy[S, C]) String() string {
	return fmt.Sprintf("cxn=%s, created_at=%s, released_at=%s",
		f.desc,
		f.createdAt.Format(time.RFC3339),
		f.releasedAt.Format(time.RFC3339),
	)
}

// describe caches a human-readable identity for the connection so eviction
// log lines do not have to touch a possibly dead connection later.
func describe(cxn any) string {
	if s, ok := cxn.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", cxn)
}
