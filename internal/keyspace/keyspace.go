// Package keyspace implements the concurrent in-memory store: entries,
// TTL expiry, capacity-bounded eviction, and the operations the command
// dispatcher drives.
package keyspace

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/volatixdb/volatix/internal/value"
)

// Keyspace is the engine behind every command the dispatcher serves. A
// single RWMutex guards the map; reads that only inspect a value use
// RLock, but Get itself takes the write lock because every read updates
// an entry's LastAccessed/AccessCount bookkeeping that the LRU/LFU
// policies depend on.
type Keyspace struct {
	mu    sync.RWMutex
	store map[string]*Entry
	opts  Options
	stats stats
	dirty atomic.Bool

	now func() time.Time
}

// New builds an empty Keyspace with the given options.
func New(opts Options) *Keyspace {
	return &Keyspace{
		store: make(map[string]*Entry),
		opts:  opts,
		now:   time.Now,
	}
}

// SetClockForTesting overrides the clock Keyspace uses for TTL and
// eviction decisions. Production code never calls this; it exists so
// tests can advance time deterministically instead of sleeping.
func (k *Keyspace) SetClockForTesting(now func() time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.now = now
}

// Len returns the current number of stored entries, expired or not.
func (k *Keyspace) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.store)
}

// Options returns the keyspace's current configuration.
func (k *Keyspace) Options() Options {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.opts
}

// IsDirty reports whether the keyspace has changed since the last
// successful Save — the scheduler uses this to skip a no-op snapshot.
func (k *Keyspace) IsDirty() bool { return k.dirty.Load() }

// ClearDirty marks the keyspace as persisted. Called by the scheduler
// after a successful Save.
func (k *Keyspace) ClearDirty() { k.dirty.Store(false) }

func (k *Keyspace) markDirty() { k.dirty.Store(true) }

// Get returns the value stored at key, touching its LRU/LFU bookkeeping.
// A missing or expired entry reports ok=false and counts as a miss.
func (k *Keyspace) Get(key string) (value.Value, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, found := k.store[key]
	now := k.now()
	if !found || entry.expired(now) {
		k.stats.misses.Add(1)
		return value.Value{}, false
	}
	entry.touch(now)
	k.stats.hits.Add(1)

	v := entry.Value
	if entry.Compressed && v.Kind == value.KindBytes {
		raw, err := value.Decompress(v.Bytes)
		if err == nil {
			v = value.FromText(string(raw))
		}
	}
	return v, true
}

// Exists reports whether key holds a live, unexpired entry without
// updating its access bookkeeping.
func (k *Keyspace) Exists(key string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	entry, found := k.store[key]
	return found && !entry.expired(k.now())
}

// Insert stores value at key using the keyspace's configured global
// TTL.
func (k *Keyspace) Insert(key string, v value.Value) error {
	return k.InsertWithTTL(key, v, k.opts.GlobalTTL, false)
}

// InsertWithTTL stores value at key with an explicit TTL. noExpiry, when
// true, makes the entry immortal regardless of ttl.
func (k *Keyspace) InsertWithTTL(key string, v value.Value, ttl time.Duration, noExpiry bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.insertLocked(key, v, ttl, noExpiry)
	return nil
}

func (k *Keyspace) insertLocked(key string, v value.Value, ttl time.Duration, noExpiry bool) {
	if int64(len(k.store)) >= k.opts.MaxCapacity {
		k.evictLocked(0)
	}

	now := k.now()

	compressed := false
	stored := v
	size := v.SizeInBytes()
	if k.opts.Compression && size >= k.opts.CompressionThreshold {
		var raw []byte
		switch v.Kind {
		case value.KindText:
			raw = []byte(v.Text)
		case value.KindBytes:
			raw = v.Bytes
		}
		if raw != nil {
			if packed, err := value.Compress(raw); err == nil {
				stored = value.FromBytes(packed)
				compressed = true
				size = int64(len(packed))
			}
		}
	}

	k.store[key] = &Entry{
		Value:        stored,
		CreatedAt:    now,
		LastAccessed: now,
		AccessCount:  0,
		EntrySize:    size,
		TTL:          ttl,
		NoExpiry:     noExpiry,
		Compressed:   compressed,
	}
	k.markDirty()
}

// Remove deletes key, reporting whether it was present.
func (k *Keyspace) Remove(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, found := k.store[key]
	if found {
		delete(k.store, key)
		k.markDirty()
	}
	return found
}

// BatchGet looks up many keys at once, returning nil for each miss.
func (k *Keyspace) BatchGet(keys []string) []*value.Value {
	out := make([]*value.Value, len(keys))
	for i, key := range keys {
		if v, ok := k.Get(key); ok {
			vv := v
			out[i] = &vv
		}
	}
	return out
}

// BatchInsert stores every (key, value) pair using the global TTL,
// returning how many were written.
func (k *Keyspace) BatchInsert(pairs map[string]value.Value) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key, v := range pairs {
		k.insertLocked(key, v, k.opts.GlobalTTL, false)
	}
	return len(pairs)
}

// BatchRemove deletes every key present, returning how many existed.
func (k *Keyspace) BatchRemove(keys []string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	removed := 0
	for _, key := range keys {
		if _, found := k.store[key]; found {
			delete(k.store, key)
			removed++
		}
	}
	if removed > 0 {
		k.markDirty()
	}
	return removed
}

// Increment adds delta to the integer stored at key, failing if the key
// is missing or not an Int.
func (k *Keyspace) Increment(key string, delta int64) (int64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry, found := k.store[key]
	if !found || entry.expired(k.now()) {
		return 0, newError(ErrNotFound, "key does not exist")
	}
	if entry.Value.Kind != value.KindInt {
		return 0, newError(ErrWrongType, "value at key is not an integer")
	}
	entry.Value.Int += delta
	k.markDirty()
	return entry.Value.Int, nil
}

// Decrement is Increment with the delta's sign flipped.
func (k *Keyspace) Decrement(key string, delta int64) (int64, error) {
	return k.Increment(key, -delta)
}

// Rename moves the entry at oldKey to newKey, failing if oldKey is
// absent or expired.
func (k *Keyspace) Rename(oldKey, newKey string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry, found := k.store[oldKey]
	if !found || entry.expired(k.now()) {
		return newError(ErrNotFound, "key does not exist")
	}
	delete(k.store, oldKey)
	k.store[newKey] = entry
	k.markDirty()
	return nil
}

// ExtendTTL shifts key's TTL by delta, which may be negative. A delta
// that would push the remaining TTL to or below zero is rejected as
// UNALTERED rather than silently expiring the entry.
func (k *Keyspace) ExtendTTL(key string, delta time.Duration) (time.Duration, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry, found := k.store[key]
	if !found || entry.expired(k.now()) {
		return 0, newError(ErrNotFound, "key does not exist")
	}
	if entry.NoExpiry {
		return 0, newError(ErrUnaltered, "key has no expiry to extend")
	}

	remaining := entry.remaining(k.now())
	if remaining+delta <= 0 {
		return 0, newError(ErrUnaltered, "UNALTERED: requested extension would expire the key")
	}

	entry.TTL += delta
	k.markDirty()
	return entry.remaining(k.now()), nil
}

// TimeToLive returns key's configured TTL — not the time remaining
// before expiry.
func (k *Keyspace) TimeToLive(key string) (time.Duration, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	entry, found := k.store[key]
	if !found || entry.expired(k.now()) {
		return 0, newError(ErrNotFound, "key does not exist")
	}
	return entry.TTL, nil
}

// Keys returns every live, unexpired key. Order is not significant; it
// is sorted only to make tests and KEYS output deterministic.
func (k *Keyspace) Keys() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	now := k.now()
	keys := make([]string, 0, len(k.store))
	for key, entry := range k.store {
		if !entry.expired(now) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Flush removes every entry.
func (k *Keyspace) Flush() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.store = make(map[string]*Entry)
	k.markDirty()
}

// Entry exposes the raw stored Entry for DUMP, bypassing Get's access
// bookkeeping since DUMP is a diagnostic read.
func (k *Keyspace) Entry(key string) (*Entry, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	entry, found := k.store[key]
	if !found || entry.expired(k.now()) {
		return nil, false
	}
	clone := *entry
	return &clone, true
}

// Evict forces eviction of n entries (EVICTNOW), or the policy's default
// batch — 10% of the current size, rounded up — when n is 0. It first
// removes anything already expired; if that alone covers n, no
// policy-driven eviction runs.
func (k *Keyspace) Evict(n int) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.evictLocked(n)
}

func (k *Keyspace) evictLocked(n int) int {
	size := len(k.store)
	if n >= size {
		removed := size
		k.store = make(map[string]*Entry)
		if removed > 0 {
			k.stats.evictions.Add(int64(removed))
			k.markDirty()
		}
		return removed
	}

	expired := k.removeExpiredLocked()
	if n == 0 {
		n = int(math.Ceil(0.1 * float64(size)))
		if n == 0 && size > 0 {
			n = 1
		}
	}
	if expired >= n {
		return expired
	}
	remaining := n - expired

	keys := selectNEntries(k.store, remaining, metricFor(k.opts.EvictPolicy))
	for _, key := range keys {
		delete(k.store, key)
	}
	if len(keys) > 0 {
		k.stats.evictions.Add(int64(len(keys)))
		k.markDirty()
	}
	return expired + len(keys)
}

// removeExpiredLocked sweeps and deletes every expired entry, returning
// how many were removed. Caller must hold k.mu.
func (k *Keyspace) removeExpiredLocked() int {
	now := k.now()
	removed := 0
	for key, entry := range k.store {
		if entry.expired(now) {
			delete(k.store, key)
			removed++
		}
	}
	if removed > 0 {
		k.stats.expiredRemovals.Add(int64(removed))
		k.markDirty()
	}
	return removed
}

// Stats returns a point-in-time snapshot of the running counters.
func (k *Keyspace) Stats() Stats {
	k.mu.RLock()
	total := int64(len(k.store))
	k.mu.RUnlock()
	return Stats{
		Hits:            k.stats.hits.Load(),
		Misses:          k.stats.misses.Load(),
		Evictions:       k.stats.evictions.Load(),
		ExpiredRemovals: k.stats.expiredRemovals.Load(),
		TotalEntries:    total,
	}
}

// ResetStats zeroes every counter without touching stored entries.
func (k *Keyspace) ResetStats() {
	k.stats.reset()
}
