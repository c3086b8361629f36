package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/volatixdb/volatix/internal/keyspace"
	"github.com/volatixdb/volatix/internal/value"
)

func TestStartSavesSnapshotWhenDirty(t *testing.T) {
	ks := keyspace.New(keyspace.DefaultOptions())
	if err := ks.Insert("k", value.FromText("v")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	path := filepath.Join(t.TempDir(), "snap.bin")
	sched, err := Start(ks, path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer sched.Shutdown()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !ks.IsDirty() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if ks.IsDirty() {
		t.Fatalf("keyspace still dirty after scheduled save")
	}

	other := keyspace.New(keyspace.DefaultOptions())
	if err := other.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := other.Get("k"); !ok {
		t.Fatalf("expected snapshot to contain key k")
	}
}

func TestShutdownStopsJob(t *testing.T) {
	ks := keyspace.New(keyspace.DefaultOptions())
	path := filepath.Join(t.TempDir(), "snap.bin")
	sched, err := Start(ks, path, time.Hour)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sched.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
