package keyspace

import "container/heap"

// metricHeap is a bounded max-heap of (metric, key) pairs. Keeping it
// bounded to n and evicting the current max whenever a smaller
// candidate arrives yields, in one linear pass, the n keys with the
// smallest metric values — which is exactly the eviction candidate set
// for every policy below.
type metricHeap []metricItem

type metricItem struct {
	metric int64
	key    string
}

func (h metricHeap) Len() int            { return len(h) }
func (h metricHeap) Less(i, j int) bool  { return h[i].metric > h[j].metric }
func (h metricHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *metricHeap) Push(x any)         { *h = append(*h, x.(metricItem)) }
func (h *metricHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// selectNEntries returns the n keys with the smallest metric(key) value,
// computed in a single O(size log n) pass over the keyspace. Grounded on
// the original implementation's remove_n_entries heap selection.
func selectNEntries(store map[string]*Entry, n int, metric func(key string, e *Entry) int64) []string {
	if n <= 0 || len(store) == 0 {
		return nil
	}

	h := make(metricHeap, 0, n)
	for key, entry := range store {
		m := metric(key, entry)
		if h.Len() < n {
			heap.Push(&h, metricItem{metric: m, key: key})
			continue
		}
		if m < h[0].metric {
			heap.Pop(&h)
			heap.Push(&h, metricItem{metric: m, key: key})
		}
	}

	keys := make([]string, len(h))
	for i, item := range h {
		keys[i] = item.key
	}
	return keys
}

func oldestMetric(_ string, e *Entry) int64  { return e.CreatedAt.UnixNano() }
func lruMetric(_ string, e *Entry) int64     { return e.LastAccessed.UnixNano() }
func lfuMetric(_ string, e *Entry) int64     { return int64(e.AccessCount) }
func sizeAwareMetric(_ string, e *Entry) int64 { return -e.EntrySize }

func metricFor(policy Policy) func(string, *Entry) int64 {
	switch policy {
	case PolicyLRU:
		return lruMetric
	case PolicyLFU:
		return lfuMetric
	case PolicySizeAware:
		return sizeAwareMetric
	default:
		return oldestMetric
	}
}
