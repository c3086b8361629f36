package value

import "github.com/volatixdb/volatix/internal/wire"

// EncodeTyped renders v using the canonical per-type wire frame:
// integers as ":...", floats as ",...", text and bytes as "$len...",
// lists as "*n...", maps as "%n...". This is the shape batch replies
// (GETLIST) embed for each entry's value, as opposed to GET's own
// always-bulk-string display rendering.
func EncodeTyped(v Value) []byte {
	switch v.Kind {
	case KindInt:
		return wire.EncodeInteger(v.Int)
	case KindFloat:
		return wire.EncodeDouble(v.Float)
	case KindBool:
		return wire.EncodeBoolean(v.Bool)
	case KindText:
		return wire.EncodeBulkString([]byte(v.Text))
	case KindBytes:
		return wire.EncodeBulkString(v.Bytes)
	case KindList:
		children := make([][]byte, len(v.List))
		for i, item := range v.List {
			children[i] = EncodeTyped(item)
		}
		return wire.EncodeArray(children)
	case KindMap:
		keys := make([][]byte, len(v.Map))
		values := make([][]byte, len(v.Map))
		for i, entry := range v.Map {
			keys[i] = wire.EncodeBulkString([]byte(entry.Key))
			values[i] = EncodeTyped(entry.Value)
		}
		return wire.EncodeMap(keys, values)
	default:
		return wire.EncodeNull()
	}
}
