package keyspace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/volatixdb/volatix/internal/value"
)

func newTestKeyspace(opts Options) *Keyspace {
	k := New(opts)
	k.now = time.Now
	return k
}

func TestInsertAndGet(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	if err := k.Insert("greeting", value.FromText("hello")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	v, ok := k.Get("greeting")
	if !ok || v.Text != "hello" {
		t.Fatalf("got v=%+v ok=%v", v, ok)
	}
}

func TestGetMissIsMiss(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	if _, ok := k.Get("nope"); ok {
		t.Fatal("expected miss")
	}
	if k.Stats().Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", k.Stats().Misses)
	}
}

func TestTTLExpiry(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	current := time.Now()
	k.now = func() time.Time { return current }

	if err := k.InsertWithTTL("short", value.FromInt(1), time.Second, false); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, ok := k.Get("short"); !ok {
		t.Fatal("expected hit before expiry")
	}

	current = current.Add(2 * time.Second)
	if _, ok := k.Get("short"); ok {
		t.Fatal("expected expired entry to be treated as a miss")
	}
}

func TestCapacityOneEvictsOnInsert(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCapacity = 1
	opts.EvictPolicy = PolicyOldest
	k := newTestKeyspace(opts)

	current := time.Now()
	k.now = func() time.Time { return current }
	_ = k.Insert("first", value.FromInt(1))

	current = current.Add(time.Millisecond)
	_ = k.Insert("second", value.FromInt(2))

	if k.Exists("first") {
		t.Fatal("expected the oldest entry to be evicted to make room")
	}
	if !k.Exists("second") {
		t.Fatal("expected the newest entry to survive")
	}
}

func TestExtendTTLRejectsNegativeOverflow(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	_ = k.InsertWithTTL("key", value.FromInt(1), 5*time.Second, false)

	if _, err := k.ExtendTTL("key", -10*time.Second); err == nil {
		t.Fatal("expected an UNALTERED error")
	} else if kerr, ok := err.(*Error); !ok || kerr.Kind != ErrUnaltered {
		t.Fatalf("expected ErrUnaltered, got %v", err)
	}

	if _, err := k.ExtendTTL("key", 5*time.Second); err != nil {
		t.Fatalf("expected extension to succeed, got %v", err)
	}
}

func TestRenameMovesEntry(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	_ = k.Insert("old", value.FromText("v"))
	if err := k.Rename("old", "new"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if k.Exists("old") {
		t.Fatal("old key should be gone")
	}
	if !k.Exists("new") {
		t.Fatal("new key should exist")
	}
}

func TestIncrementRequiresIntValue(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	_ = k.Insert("n", value.FromInt(10))
	got, err := k.Increment("n", 5)
	if err != nil || got != 15 {
		t.Fatalf("got %d, %v", got, err)
	}

	_ = k.Insert("s", value.FromText("not a number"))
	if _, err := k.Increment("s", 1); err == nil {
		t.Fatal("expected a type error")
	}
}

func TestEvictSizeAwarePrefersLargest(t *testing.T) {
	opts := DefaultOptions()
	opts.EvictPolicy = PolicySizeAware
	k := newTestKeyspace(opts)

	_ = k.Insert("small", value.FromText("a"))
	_ = k.Insert("big", value.FromText("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))

	removed := k.Evict(1)
	if removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}
	if k.Exists("big") {
		t.Fatal("expected the largest entry to be evicted first")
	}
	if !k.Exists("small") {
		t.Fatal("expected the smaller entry to survive")
	}
}

func TestSaveAndLoadRoundTrips(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	_ = k.Insert("a", value.FromInt(1))
	_ = k.Insert("b", value.FromList([]value.Value{value.FromText("x"), value.FromText("y")}))

	path := filepath.Join(t.TempDir(), "snap.bin")
	if err := k.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := newTestKeyspace(DefaultOptions())
	if err := loaded.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	v, ok := loaded.Get("a")
	if !ok || v.Int != 1 {
		t.Fatalf("got v=%+v ok=%v", v, ok)
	}
	list, ok := loaded.Get("b")
	if !ok || len(list.List) != 2 || list.List[0].Text != "x" {
		t.Fatalf("got v=%+v ok=%v", list, ok)
	}
}

func TestSaveAndLoadRoundTripsOptionsAndStats(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCapacity = 7
	opts.EvictPolicy = PolicyLFU
	opts.Compression = true
	opts.CompressionThreshold = 123
	k := newTestKeyspace(opts)

	_ = k.Insert("a", value.FromInt(1))
	_, _ = k.Get("a")
	_, _ = k.Get("missing")

	path := filepath.Join(t.TempDir(), "snap.bin")
	if err := k.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := newTestKeyspace(DefaultOptions())
	if err := loaded.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	got := loaded.Options()
	if got.MaxCapacity != 7 || got.EvictPolicy != PolicyLFU || !got.Compression || got.CompressionThreshold != 123 {
		t.Fatalf("options did not round-trip: %+v", got)
	}

	stats := loaded.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("stats did not round-trip: %+v", stats)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	if err := k.Load(filepath.Join(t.TempDir(), "does-not-exist.bin")); err != nil {
		t.Fatalf("expected no error for a missing snapshot file, got %v", err)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	if err := k.ConfigSet("MAXCAP", "42"); err != nil {
		t.Fatalf("configset: %v", err)
	}
	s, err := k.ConfigGet("MAXCAP")
	if err != nil || s != "MAXCAP: 42" {
		t.Fatalf("got %q, %v", s, err)
	}
}

func TestFlushClearsEverything(t *testing.T) {
	k := newTestKeyspace(DefaultOptions())
	_ = k.Insert("a", value.FromInt(1))
	k.Flush()
	if k.Len() != 0 {
		t.Fatalf("expected empty keyspace after flush, got %d entries", k.Len())
	}
}
