package wire

import "strconv"

// The encode helpers below never fail: every reply they produce is a
// well-formed frame by construction, so callers build replies directly
// from these byte slices rather than going through an error path.

// EncodeSimpleString produces a "+..." frame. Used for short, known-safe
// acknowledgements; anything that might contain CR or LF must use
// EncodeBulkString instead.
func EncodeSimpleString(s string) []byte {
	b := make([]byte, 0, len(s)+3)
	b = append(b, byte(KindSimpleString))
	b = append(b, s...)
	return append(b, '\r', '\n')
}

// EncodeBulkString produces a "$len\r\n...\r\n" frame.
func EncodeBulkString(data []byte) []byte {
	b := make([]byte, 0, len(data)+16)
	b = append(b, byte(KindBulkString))
	b = strconv.AppendInt(b, int64(len(data)), 10)
	b = append(b, '\r', '\n')
	b = append(b, data...)
	return append(b, '\r', '\n')
}

// EncodeNullBulkString produces the "$-1\r\n" nil-bulk-string frame.
func EncodeNullBulkString() []byte {
	return []byte("$-1\r\n")
}

// EncodeNull produces the "_\r\n" explicit null frame.
func EncodeNull() []byte {
	return []byte("_\r\n")
}

// EncodeInteger produces a ":n\r\n" frame.
func EncodeInteger(n int64) []byte {
	b := make([]byte, 0, 24)
	b = append(b, byte(KindInteger))
	b = strconv.AppendInt(b, n, 10)
	return append(b, '\r', '\n')
}

// EncodeBoolean produces a "#t\r\n" or "#f\r\n" frame.
func EncodeBoolean(v bool) []byte {
	if v {
		return []byte("#t\r\n")
	}
	return []byte("#f\r\n")
}

// EncodeDouble produces a ",...\r\n" frame using Go's shortest
// round-trippable representation.
func EncodeDouble(f float64) []byte {
	b := make([]byte, 0, 32)
	b = append(b, byte(KindDouble))
	b = strconv.AppendFloat(b, f, 'g', -1, 64)
	return append(b, '\r', '\n')
}

// EncodeBulkError produces a "!len\r\n...\r\n" frame carrying a failure
// message as this system's one error reply shape.
func EncodeBulkError(msg string) []byte {
	b := make([]byte, 0, len(msg)+16)
	b = append(b, byte(KindBulkError))
	b = strconv.AppendInt(b, int64(len(msg)), 10)
	b = append(b, '\r', '\n')
	b = append(b, msg...)
	return append(b, '\r', '\n')
}

// EncodeArray wraps pre-encoded child frames in a "*n\r\n..." envelope.
// Passing a nil or empty slice of children still produces "*0\r\n";
// callers that want Null-for-empty must check len(children) themselves
// and call EncodeNull instead.
func EncodeArray(children [][]byte) []byte {
	total := 16
	for _, c := range children {
		total += len(c)
	}
	b := make([]byte, 0, total)
	b = append(b, byte(KindArray))
	b = strconv.AppendInt(b, int64(len(children)), 10)
	b = append(b, '\r', '\n')
	for _, c := range children {
		b = append(b, c...)
	}
	return b
}

// EncodeArrayOfBulkStrings renders a list of keys as an Array of
// BulkStrings, or Null if the list is empty — the shape KEYS uses for
// its key listing.
func EncodeArrayOfBulkStrings(items []string) []byte {
	if len(items) == 0 {
		return EncodeNull()
	}
	children := make([][]byte, len(items))
	for i, s := range items {
		children[i] = EncodeBulkString([]byte(s))
	}
	return EncodeArray(children)
}

// EncodeBatchEntries renders GETLIST's reply shape: an Array of 2-element
// Arrays, one per requested key, each holding the key as a BulkString and
// its pre-encoded value frame (or a null bulk string for a miss).
func EncodeBatchEntries(keys []string, values [][]byte) []byte {
	children := make([][]byte, len(keys))
	for i, k := range keys {
		v := values[i]
		if v == nil {
			v = EncodeNullBulkString()
		}
		children[i] = EncodeArray([][]byte{EncodeBulkString([]byte(k)), v})
	}
	return EncodeArray(children)
}

// EncodeMap wraps pre-encoded (key, value) frame pairs in a "%n\r\n..."
// envelope.
func EncodeMap(keys [][]byte, values [][]byte) []byte {
	total := 16
	for i := range keys {
		total += len(keys[i]) + len(values[i])
	}
	b := make([]byte, 0, total)
	b = append(b, byte(KindMap))
	b = strconv.AppendInt(b, int64(len(keys)), 10)
	b = append(b, '\r', '\n')
	for i := range keys {
		b = append(b, keys[i]...)
		b = append(b, values[i]...)
	}
	return b
}
