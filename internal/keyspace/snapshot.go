package keyspace

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/volatixdb/volatix/internal/value"
)

// snapshotMagic and snapshotVersion identify the binary dump format
// (§6.4): a small header followed by a flat run of entry records,
// adapted from the teacher's recursive metric checkpoint format to this
// engine's flat key/entry store.
var snapshotMagic = [4]byte{'V', 'L', 'T', 'X'}

const snapshotVersion uint32 = 1

// Save writes the entire keyspace record — store, options, and
// stats, per §6.2 — to path as a binary snapshot, creating parent
// directories as needed. Grounded on the teacher's binaryCheckpoint.go:
// bufio.Writer over an O_CREATE|O_TRUNC file, little-endian fixed-width
// header followed by the body.
func (k *Keyspace) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	k.mu.RLock()
	defer k.mu.RUnlock()

	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, snapshotVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, k.now().Unix()); err != nil {
		return err
	}

	if err := writeOptions(w, k.opts); err != nil {
		return err
	}
	if err := writeStats(w, &k.stats); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(k.store))); err != nil {
		return err
	}
	for key, entry := range k.store {
		if err := writeEntry(w, key, entry); err != nil {
			return err
		}
	}

	return w.Flush()
}

func writeOptions(w *bufio.Writer, o Options) error {
	fields := []int64{
		int64(o.GlobalTTL),
		o.MaxCapacity,
		int64(o.EvictPolicy),
		o.CompressionThreshold,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return w.WriteByte(packBools(o.Compression, false))
}

func readOptions(r *bufio.Reader) (Options, error) {
	var globalTTL, maxCap, policy, threshold int64
	for _, dst := range []*int64{&globalTTL, &maxCap, &policy, &threshold} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return Options{}, err
		}
	}
	flags, err := r.ReadByte()
	if err != nil {
		return Options{}, err
	}
	compression, _ := unpackBools(flags)
	return Options{
		GlobalTTL:            time.Duration(globalTTL),
		MaxCapacity:          maxCap,
		EvictPolicy:          Policy(policy),
		Compression:          compression,
		CompressionThreshold: threshold,
	}, nil
}

func writeStats(w *bufio.Writer, s *stats) error {
	fields := []int64{
		s.hits.Load(),
		s.misses.Load(),
		s.evictions.Load(),
		s.expiredRemovals.Load(),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readStats(r *bufio.Reader) (Stats, error) {
	var hits, misses, evictions, expiredRemovals int64
	for _, dst := range []*int64{&hits, &misses, &evictions, &expiredRemovals} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return Stats{}, err
		}
	}
	return Stats{
		Hits:            hits,
		Misses:          misses,
		Evictions:       evictions,
		ExpiredRemovals: expiredRemovals,
	}, nil
}

// Load replaces the keyspace's contents with the snapshot at path. A
// missing file is not an error — a fresh server simply starts empty.
func (k *Keyspace) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("reading snapshot magic: %w", err)
	}
	if magic != snapshotMagic {
		return fmt.Errorf("unrecognized snapshot file %q", path)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("reading snapshot version: %w", err)
	}
	if version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", version)
	}

	var savedAt int64
	if err := binary.Read(r, binary.LittleEndian, &savedAt); err != nil {
		return fmt.Errorf("reading snapshot timestamp: %w", err)
	}

	opts, err := readOptions(r)
	if err != nil {
		return fmt.Errorf("reading snapshot options: %w", err)
	}
	loadedStats, err := readStats(r)
	if err != nil {
		return fmt.Errorf("reading snapshot stats: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("reading snapshot entry count: %w", err)
	}

	store := make(map[string]*Entry, count)
	for i := uint32(0); i < count; i++ {
		key, entry, err := readEntry(r)
		if err != nil {
			return fmt.Errorf("reading snapshot entry %d: %w", i, err)
		}
		store[key] = entry
	}

	k.mu.Lock()
	k.store = store
	k.opts = opts
	k.stats.hits.Store(loadedStats.Hits)
	k.stats.misses.Store(loadedStats.Misses)
	k.stats.evictions.Store(loadedStats.Evictions)
	k.stats.expiredRemovals.Store(loadedStats.ExpiredRemovals)
	k.mu.Unlock()
	return nil
}

func writeEntry(w *bufio.Writer, key string, e *Entry) error {
	if err := writeString(w, key); err != nil {
		return err
	}
	if err := encodeValue(w, e.Value); err != nil {
		return err
	}
	fields := []int64{
		e.CreatedAt.UnixNano(),
		e.LastAccessed.UnixNano(),
		int64(e.AccessCount),
		e.EntrySize,
		int64(e.TTL),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, packBools(e.NoExpiry, e.Compressed))
}

func readEntry(r *bufio.Reader) (string, *Entry, error) {
	key, err := readString(r)
	if err != nil {
		return "", nil, err
	}
	v, err := decodeValue(r)
	if err != nil {
		return "", nil, err
	}

	var createdAt, lastAccessed, accessCount, entrySize, ttl int64
	for _, dst := range []*int64{&createdAt, &lastAccessed, &accessCount, &entrySize, &ttl} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return "", nil, err
		}
	}

	var flags uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return "", nil, err
	}
	noExpiry, compressed := unpackBools(flags)

	return key, &Entry{
		Value:        v,
		CreatedAt:    time.Unix(0, createdAt),
		LastAccessed: time.Unix(0, lastAccessed),
		AccessCount:  uint64(accessCount),
		EntrySize:    entrySize,
		TTL:          time.Duration(ttl),
		NoExpiry:     noExpiry,
		Compressed:   compressed,
	}, nil
}

func packBools(a, b bool) uint8 {
	var f uint8
	if a {
		f |= 1
	}
	if b {
		f |= 2
	}
	return f
}

func unpackBools(f uint8) (a, b bool) {
	return f&1 != 0, f&2 != 0
}

func writeString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeBytes(w *bufio.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r *bufio.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// encodeValue and decodeValue serialize the value.Value tagged union as
// a type byte followed by its payload, recursing for List and Map.
func encodeValue(w *bufio.Writer, v value.Value) error {
	if err := w.WriteByte(byte(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case value.KindNull:
		return nil
	case value.KindInt:
		return binary.Write(w, binary.LittleEndian, v.Int)
	case value.KindFloat:
		return binary.Write(w, binary.LittleEndian, math.Float64bits(v.Float))
	case value.KindBool:
		return w.WriteByte(packBools(v.Bool, false))
	case value.KindText:
		return writeString(w, v.Text)
	case value.KindBytes:
		return writeBytes(w, v.Bytes)
	case value.KindList:
		if err := binary.Write(w, binary.LittleEndian, uint32(len(v.List))); err != nil {
			return err
		}
		for _, item := range v.List {
			if err := encodeValue(w, item); err != nil {
				return err
			}
		}
		return nil
	case value.KindMap:
		if err := binary.Write(w, binary.LittleEndian, uint32(len(v.Map))); err != nil {
			return err
		}
		for _, entry := range v.Map {
			if err := writeString(w, entry.Key); err != nil {
				return err
			}
			if err := encodeValue(w, entry.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

func decodeValue(r *bufio.Reader) (value.Value, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return value.Value{}, err
	}
	kind := value.Kind(kindByte)

	switch kind {
	case value.KindNull:
		return value.Null(), nil
	case value.KindInt:
		var n int64
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return value.Value{}, err
		}
		return value.FromInt(n), nil
	case value.KindFloat:
		var bits uint64
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return value.Value{}, err
		}
		return value.FromFloat(math.Float64frombits(bits)), nil
	case value.KindBool:
		flags, err := r.ReadByte()
		if err != nil {
			return value.Value{}, err
		}
		b, _ := unpackBools(flags)
		return value.FromBool(b), nil
	case value.KindText:
		s, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromText(s), nil
	case value.KindBytes:
		b, err := readBytes(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromBytes(b), nil
	case value.KindList:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return value.Value{}, err
		}
		items := make([]value.Value, n)
		for i := range items {
			item, err := decodeValue(r)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = item
		}
		return value.FromList(items), nil
	case value.KindMap:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return value.Value{}, err
		}
		entries := make([]value.MapEntry, n)
		for i := range entries {
			key, err := readString(r)
			if err != nil {
				return value.Value{}, err
			}
			val, err := decodeValue(r)
			if err != nil {
				return value.Value{}, err
			}
			entries[i] = value.MapEntry{Key: key, Value: val}
		}
		return value.FromMap(entries), nil
	default:
		return value.Value{}, fmt.Errorf("unknown value kind byte %d", kindByte)
	}
}
