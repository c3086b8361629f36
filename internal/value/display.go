package value

import (
	"strconv"
	"strings"
)

// DisplayString renders v the way GET and DUMP present a value: scalars
// print their natural text form, Bytes prints as a best-effort string,
// and List/Map render as bracketed, comma-joined text — e.g. SETLIST
// items a b c followed by GET items prints "[a, b, c]".
func (v Value) DisplayString() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindText:
		return v.Text
	case KindBytes:
		return string(v.Bytes)
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.DisplayString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.Map))
		for i, entry := range v.Map {
			parts[i] = entry.Key + ": " + entry.Value.DisplayString()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}
