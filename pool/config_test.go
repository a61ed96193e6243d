package pool

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig_AllFields(t *testing.T) {
	path := writeConfigFile(t, `
max_size = 4
max_overflow = 2
timeout = "5s"
recycle = "45s"
stale = "1m"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := newConf(cfg.Options()...)
	if c.maxSize != 4 {
		t.Errorf("maxSize = %d, want 4", c.maxSize)
	}
	if c.maxOverflow != 2 {
		t.Errorf("maxOverflow = %d, want 2", c.maxOverflow)
	}
	if c.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.timeout)
	}
	if c.recycle != 45*time.Second {
		t.Errorf("recycle = %v, want 45s", c.recycle)
	}
	if c.stale != time.Minute {
		t.Errorf("stale = %v, want 1m", c.stale)
	}
}

func TestLoadConfig_DefaultsPreserved(t *testing.T) {
	path := writeConfigFile(t, `max_size = 3`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := newConf(cfg.Options()...)
	if c.maxSize != 3 {
		t.Errorf("maxSize = %d, want 3", c.maxSize)
	}
	if c.maxOverflow != 10 {
		t.Errorf("maxOverflow = %d, want default 10", c.maxOverflow)
	}
	if c.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want default 30s", c.timeout)
	}
	if c.recycle != 0 {
		t.Errorf("recycle = %v, want disabled", c.recycle)
	}
}

func TestLoadConfig_ExplicitZeroOverflow(t *testing.T) {
	path := writeConfigFile(t, `
max_size = 2
max_overflow = 0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := newConf(cfg.Options()...)
	if c.maxOverflow != 0 {
		t.Errorf("maxOverflow = %d, want 0", c.maxOverflow)
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := writeConfigFile(t, `timeout = "not-a-duration"`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for a malformed duration")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
