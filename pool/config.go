package pool

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the file-loadable form of the pool settings, for embedding in
// an application's TOML configuration:
//
//	max_size = 10
//	max_overflow = 10
//	timeout = "30s"
//	recycle = "45s"
//	stale = "1m"
//
// Zero values fall through to the pool defaults.
type Config struct {
	MaxSize     int      `toml:"max_size"`
	MaxOverflow int      `toml:"max_overflow"`
	Timeout     duration `toml:"timeout"`
	Recycle     duration `toml:"recycle"`
	Stale       duration `toml:"stale"`

	overflowSet bool
}

// duration lets TOML carry durations as strings like "45s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadConfig reads a Config from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("loading pool config %s: %w", path, err)
	}
	cfg.overflowSet = meta.IsDefined("max_overflow")
	return &cfg, nil
}

// Options converts the Config into functional options. Fields left at
// their zero value contribute nothing, so defaults still apply, except
// max_overflow = 0 which explicitly disables overflow when present in the
// file.
func (c *Config) Options() []Option {
	var opts []Option
	if c.MaxSize > 0 {
		opts = append(opts, WithMaxSize(c.MaxSize))
	}
	if c.overflowSet {
		opts = append(opts, WithMaxOverflow(c.MaxOverflow))
	}
	if c.Timeout.Duration > 0 {
		opts = append(opts, WithAcquireTimeout(c.Timeout.Duration))
	}
	if c.Recycle.Duration > 0 {
		opts = append(opts, WithRecycle(c.Recycle.Duration))
	}
	if c.Stale.Duration > 0 {
		opts = append(opts, WithStale(c.Stale.Duration))
	}
	return opts
}
