package scheduler

// item is one entry in the scheduler's min-heap: a (time, seq) key plus
// the event payload. cancelled items are left in place and skipped
// lazily when popped: cancellation is best-effort, never true queue
// surgery.
type item struct {
	time      Time
	seq       uint64
	id        EventID
	evt       Event
	cancelled bool
}

// itemHeap implements container/heap.Interface over (time, seq) ordering:
// popped events are nondecreasing in time, and equal-time events fire in
// ascending seq order.
type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x interface{}) {
	*h = append(*h, x.(*item))
}

func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}
