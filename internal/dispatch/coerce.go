package dispatch

import (
	"math"
	"strconv"
	"strings"

	"github.com/volatixdb/volatix/internal/value"
	"github.com/volatixdb/volatix/internal/wire"
)

// nodeToValue converts one parsed request node into the storage value
// it represents. Directly typed wire frames (Integer, Double, Boolean,
// Null) map straight across. Textual frames (BulkString, SimpleString,
// VerbatimString, BigNumber) go through coerceScalarText, which tries
// int64, then float64, then bool, falling back to plain text — the
// priority order a client relies on when it can only send text but
// means a number.
func nodeToValue(n wire.Node) value.Value {
	switch n.Kind {
	case wire.KindNull:
		return value.Null()
	case wire.KindInteger:
		iv, _ := strconv.ParseInt(string(n.Bytes), 10, 64)
		return value.FromInt(iv)
	case wire.KindDouble:
		return value.FromFloat(parseDoubleText(string(n.Bytes)))
	case wire.KindBoolean:
		return value.FromBool(n.Bool)
	case wire.KindBulkString, wire.KindSimpleString, wire.KindVerbatimString, wire.KindBigNumber:
		return coerceScalarText(string(n.Bytes))
	case wire.KindArray, wire.KindSet:
		items := make([]value.Value, len(n.Children))
		for i, c := range n.Children {
			items[i] = nodeToValue(c)
		}
		return value.FromList(items)
	case wire.KindMap:
		entries := make([]value.MapEntry, len(n.Pairs))
		for i, p := range n.Pairs {
			entries[i] = value.MapEntry{Key: string(p.Key.Bytes), Value: nodeToValue(p.Value)}
		}
		return value.FromMap(entries)
	default:
		return value.Null()
	}
}

func coerceScalarText(s string) value.Value {
	if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.FromInt(iv)
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		return value.FromFloat(fv)
	}
	switch strings.ToLower(s) {
	case "true":
		return value.FromBool(true)
	case "false":
		return value.FromBool(false)
	}
	return value.FromText(s)
}

func parseDoubleText(s string) float64 {
	switch strings.ToLower(s) {
	case "inf", "+inf":
		return math.Inf(1)
	case "-inf":
		return math.Inf(-1)
	case "nan", "+nan", "-nan":
		return math.NaN()
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// textOf extracts a node's string payload, failing for nodes that don't
// decode to text — used for command names and other string-only
// positional arguments.
func textOf(n wire.Node) (string, error) {
	switch n.Kind {
	case wire.KindBulkString, wire.KindSimpleString, wire.KindVerbatimString:
		return string(n.Bytes), nil
	default:
		return "", errInvalidType
	}
}

