package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 7878 {
		t.Fatalf("got port %d", cfg.Port)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{"-p", "9999", "-s", "60"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 9999 {
		t.Fatalf("got port %d", cfg.Port)
	}
	if cfg.SnapshotInterval.Seconds() != 60 {
		t.Fatalf("got interval %v", cfg.SnapshotInterval)
	}
}

func TestParseConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"max_capacity": 500, "eviction_policy": "LRU"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Parse([]string{"-c", path})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Keyspace.MaxCapacity != 500 {
		t.Fatalf("got max capacity %d", cfg.Keyspace.MaxCapacity)
	}
	if cfg.Keyspace.EvictPolicy.String() != "LRU" {
		t.Fatalf("got policy %v", cfg.Keyspace.EvictPolicy)
	}
}
