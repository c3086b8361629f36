package dispatch

import (
	"fmt"
	"time"

	"github.com/volatixdb/volatix/internal/keyspace"
	"github.com/volatixdb/volatix/internal/value"
	"github.com/volatixdb/volatix/internal/wire"
)

// commandTable maps every command name to its handler. Zero-arg
// commands (HELLO, GETSTATS, ...) simply ignore args; commands that
// take a variable tail (SETLIST, GETLIST, ...) validate the minimum
// themselves.
var commandTable = map[string]handlerFunc{
	"HELLO":       cmdHello,
	"GETSTATS":    cmdGetStats,
	"RESETSTATS":  cmdResetStats,
	"CONFOPTIONS": cmdConfOptions,
	"CONFRESET":   cmdConfReset,
	"FLUSH":       cmdFlush,
	"KEYS":        cmdKeys,

	"GET":        cmdGet,
	"EXISTS":     cmdExists,
	"SET":        cmdSet,
	"DELETE":     cmdDelete,
	"SETLIST":    cmdSetList,
	"GETLIST":    cmdGetList,
	"DELETELIST": cmdDeleteList,
	"SETMAP":     cmdSetMap,
	"SETWTTL":    cmdSetWithTTL,
	"EXPIRE":     cmdExpire,
	"GETTTL":     cmdGetTTL,
	"DUMP":       cmdDump,
	"INCR":       cmdIncr,
	"DECR":       cmdDecr,
	"RENAME":     cmdRename,
	"CONFSET":    cmdConfSet,
	"CONFGET":    cmdConfGet,
	"EVICTNOW":   cmdEvictNow,
}

func cmdHello(d *Dispatcher, args []wire.Node) []byte {
	return wire.EncodeBulkString([]byte("HELLO"))
}

func cmdGetStats(d *Dispatcher, args []wire.Node) []byte {
	return wire.EncodeBulkString([]byte(d.ks.Stats().String()))
}

func cmdResetStats(d *Dispatcher, args []wire.Node) []byte {
	d.ks.ResetStats()
	return success()
}

func cmdConfOptions(d *Dispatcher, args []wire.Node) []byte {
	return wire.EncodeBulkString([]byte(d.ks.ConfigOptions()))
}

func cmdConfReset(d *Dispatcher, args []wire.Node) []byte {
	d.ks.ConfigReset()
	return success()
}

func cmdFlush(d *Dispatcher, args []wire.Node) []byte {
	d.ks.Flush()
	return success()
}

func cmdKeys(d *Dispatcher, args []wire.Node) []byte {
	return wire.EncodeArrayOfBulkStrings(d.ks.Keys())
}

func cmdGet(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("GET key").Error())
	}
	v, ok := d.ks.Get(key)
	if !ok {
		return wire.EncodeNullBulkString()
	}
	return wire.EncodeBulkString([]byte(v.DisplayString()))
}

func cmdExists(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("EXISTS key").Error())
	}
	return wire.EncodeBoolean(d.ks.Exists(key))
}

func cmdSet(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 2); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("SET key").Error())
	}
	_ = d.ks.Insert(key, nodeToValue(args[1]))
	return success()
}

func cmdDelete(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("DELETE key").Error())
	}
	return wire.EncodeBoolean(d.ks.Remove(key))
}

func cmdSetList(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 2); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("SETLIST key").Error())
	}

	// The wire shape is key + a single Array/Set of values, not a
	// flattened tail of values — flatten its children into the list.
	rest := args[1:]
	if len(rest) == 1 && (rest[0].Kind == wire.KindArray || rest[0].Kind == wire.KindSet) {
		rest = rest[0].Children
	}
	items := make([]value.Value, len(rest))
	for i, a := range rest {
		items[i] = nodeToValue(a)
	}
	_ = d.ks.Insert(key, value.FromList(items))
	return success()
}

func cmdGetList(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	keys := make([]string, len(args))
	for i, a := range args {
		key, err := textOf(a)
		if err != nil {
			return wire.EncodeBulkError(errInvalidTypeFor("GETLIST key").Error())
		}
		keys[i] = key
	}
	values := d.ks.BatchGet(keys)
	frames := make([][]byte, len(values))
	for i, v := range values {
		if v != nil {
			frames[i] = value.EncodeTyped(*v)
		}
	}
	return wire.EncodeBatchEntries(keys, frames)
}

func cmdDeleteList(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	keys := make([]string, len(args))
	for i, a := range args {
		key, err := textOf(a)
		if err != nil {
			return wire.EncodeBulkError(errInvalidTypeFor("DELETELIST key").Error())
		}
		keys[i] = key
	}
	n := d.ks.BatchRemove(keys)
	return wire.EncodeInteger(int64(n))
}

// cmdSetMap takes a single Map argument and splats each (key, value)
// pair into its own top-level keyspace entry, rather than storing the
// map itself under one key.
func cmdSetMap(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	if args[0].Kind != wire.KindMap {
		return wire.EncodeBulkError(errInvalidTypeFor("SETMAP value").Error())
	}
	for _, pair := range args[0].Pairs {
		fieldName, err := textOf(pair.Key)
		if err != nil {
			return wire.EncodeBulkError(errInvalidTypeFor("SETMAP field").Error())
		}
		_ = d.ks.Insert(fieldName, nodeToValue(pair.Value))
	}
	return success()
}

func cmdSetWithTTL(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 3); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("SETWTTL key").Error())
	}
	seconds, err := int64FromNode(args[2])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("SETWTTL ttl").Error())
	}
	_ = d.ks.InsertWithTTL(key, nodeToValue(args[1]), time.Duration(seconds)*time.Second, false)
	return success()
}

func cmdExpire(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 2); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("EXPIRE key").Error())
	}
	deltaSeconds, err := int64FromNode(args[1])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("EXPIRE delta").Error())
	}
	_, err = d.ks.ExtendTTL(key, time.Duration(deltaSeconds)*time.Second)
	if err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	return success()
}

func cmdGetTTL(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("GETTTL key").Error())
	}
	ttl, err := d.ks.TimeToLive(key)
	if err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	return wire.EncodeInteger(int64(ttl.Seconds()))
}

func cmdDump(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("DUMP key").Error())
	}
	entry, ok := d.ks.Entry(key)
	if !ok {
		return wire.EncodeNullBulkString()
	}
	dump := fmt.Sprintf(
		"Value:%s\r\nCreated_at:%d\r\nLastaccessed:%d\r\nAccessCount:%d\r\nEntrysize:%d\r\nTtl:%d\r\nCompressed:%t",
		entry.Value.DisplayString(),
		entry.CreatedAt.Unix(),
		entry.LastAccessed.Unix(),
		entry.AccessCount,
		entry.EntrySize,
		int64(entry.TTL.Seconds()),
		entry.Compressed,
	)
	return wire.EncodeBulkString([]byte(dump))
}

func cmdIncr(d *Dispatcher, args []wire.Node) []byte {
	return adjustCounter(d, args, "INCR", 1)
}

func cmdDecr(d *Dispatcher, args []wire.Node) []byte {
	return adjustCounter(d, args, "DECR", -1)
}

func adjustCounter(d *Dispatcher, args []wire.Node, name string, sign int64) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor(name + " key").Error())
	}
	if _, err := d.ks.Increment(key, sign); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	return success()
}

func cmdRename(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 2); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	oldKey, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("RENAME old key").Error())
	}
	newKey, err := textOf(args[1])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("RENAME new key").Error())
	}
	if err := d.ks.Rename(oldKey, newKey); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	return success()
}

func cmdConfSet(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 2); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("CONFSET key").Error())
	}
	rawValue, err := textOf(args[1])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("CONFSET value").Error())
	}
	if err := d.ks.ConfigSet(key, rawValue); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	return success()
}

func cmdConfGet(d *Dispatcher, args []wire.Node) []byte {
	if err := requireArgs(args, 1); err != nil {
		return wire.EncodeBulkError(err.Error())
	}
	key, err := textOf(args[0])
	if err != nil {
		return wire.EncodeBulkError(errInvalidTypeFor("CONFGET key").Error())
	}
	s, err := d.ks.ConfigGet(key)
	if err != nil {
		if kerr, ok := err.(*keyspace.Error); ok && kerr.Kind == keyspace.ErrInvalidArgument {
			return wire.EncodeNull()
		}
		return wire.EncodeBulkError(err.Error())
	}
	return wire.EncodeBulkString([]byte(s))
}

func cmdEvictNow(d *Dispatcher, args []wire.Node) []byte {
	n := 0
	if len(args) >= 1 {
		count, err := int64FromNode(args[0])
		if err != nil {
			return wire.EncodeBulkError(errInvalidTypeFor("EVICTNOW count").Error())
		}
		n = int(count)
	}
	return wire.EncodeInteger(int64(d.ks.Evict(n)))
}

func int64FromNode(n wire.Node) (int64, error) {
	v := nodeToValue(n)
	switch v.Kind {
	case value.KindInt:
		return v.Int, nil
	case value.KindFloat:
		return int64(v.Float), nil
	default:
		return 0, errInvalidType
	}
}

func success() []byte {
	return wire.EncodeBulkString([]byte("SUCCESS"))
}
