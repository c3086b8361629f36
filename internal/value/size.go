package value

import "unsafe"

var (
	sizeofInt64   = int64(unsafe.Sizeof(int64(0)))
	sizeofFloat64 = int64(unsafe.Sizeof(float64(0)))
	sizeofBool    = int64(unsafe.Sizeof(false))
)

// SizeInBytes estimates v's footprint for the compression threshold and
// the SizeAware eviction policy. Scalars count their own storage footprint;
// Text and Bytes add their backing length; List and Map sum their
// children's sizes plus, for Map, each key's length.
func (v Value) SizeInBytes() int64 {
	switch v.Kind {
	case KindInt:
		return sizeofInt64
	case KindFloat:
		return sizeofFloat64
	case KindBool:
		return sizeofBool
	case KindText:
		return int64(len(v.Text))
	case KindBytes:
		return int64(len(v.Bytes))
	case KindList:
		var total int64
		for _, item := range v.List {
			total += item.SizeInBytes()
		}
		return total
	case KindMap:
		var total int64
		for _, entry := range v.Map {
			total += int64(len(entry.Key)) + entry.Value.SizeInBytes()
		}
		return total
	default:
		return 0
	}
}
