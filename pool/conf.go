package pool

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring a pool.
type Option func(*conf)

type conf struct {
	maxSize     int
	maxOverflow int
	timeout     time.Duration
	recycle     time.Duration
	stale       time.Duration
	classifier  Classifier
	dialLimiter *rate.Limiter
	log         logrus.FieldLogger
}

func newConf(opts ...Option) *conf {
	cfg := &conf{
		maxSize:     10,
		maxOverflow: 10,
		timeout:     30 * time.Second,
		classifier:  DefaultClassifier,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithMaxSize sets the capacity of the idle queue, i.e. how many released
// connections the pool keeps around for reuse. Defaults to 10.
func WithMaxSize(n int) Option {
	return func(cfg *conf) {
		if n > 0 {
			cfg.maxSize = n
		}
	}
}

// WithMaxOverflow sets how many connections may be created above the idle
// queue's capacity. The pool never has more than maxSize+maxOverflow live
// connections. Defaults to 10; 0 disables overflow.
func WithMaxOverflow(n int) Option {
	return func(cfg *conf) {
		if n >= 0 {
			cfg.maxOverflow = n
		}
	}
}

// WithAcquireTimeout sets the default wait bound used by Acquire when the
// pool is exhausted. Defaults to 30s.
func WithAcquireTimeout(d time.Duration) Option {
	return func(cfg *conf) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithRecycle sets the maximum lifetime of a connection since creation.
// Connections older than this are destroyed and replaced on acquire.
// Zero (the default) disables recycling.
func WithRecycle(d time.Duration) Option {
	return func(cfg *conf) {
		if d > 0 {
			cfg.recycle = d
		}
	}
}

// WithStale sets the maximum idle time of a connection since its last
// release. Connections idle longer are destroyed and replaced on acquire.
// Zero (the default) disables staleness checks.
func WithStale(d time.Duration) Option {
	return func(cfg *conf) {
		if d > 0 {
			cfg.stale = d
		}
	}
}

// WithClassifier sets the connectivity-error classifier used to decide
// whether a connection coming back from a failed scoped use is still
// reusable. Defaults to DefaultClassifier.
func WithClassifier(c Classifier) Option {
	return func(cfg *conf) {
		if c != nil {
			cfg.classifier = c
		}
	}
}

// WithDialRateLimit limits how fast the pool dials new connections,
// protecting the backend from reconnect storms. A denied token is treated
// like an exhausted overflow budget: the acquire falls back to waiting for
// a released connection instead of dialing.
//
// Example:
//
//	WithDialRateLimit(5.0, 2) // at most 5 dials/sec, burst of 2
func WithDialRateLimit(dialsPerSecond float64, burst int) Option {
	return func(cfg *conf) {
		if dialsPerSecond > 0 && burst > 0 {
			cfg.dialLimiter = rate.NewLimiter(rate.Limit(dialsPerSecond), burst)
		}
	}
}

// WithLogger sets the logger used for eviction and destruction notices.
// Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cfg *conf) {
		if log != nil {
			cfg.log = log
		}
	}
}
