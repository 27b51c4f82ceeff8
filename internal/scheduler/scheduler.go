package scheduler

import (
	"container/heap"
	"fmt"
)

// Scheduler owns virtual time and the event queue. It is single-threaded
// and cooperative: RunUntil pops one event at a time and dispatches it to
// completion before popping the next.
type Scheduler struct {
	queue  itemHeap
	items  map[EventID]*item
	seq    uint64
	nextID EventID
	now    Time
	stats  Stats

	havePopped  bool
	lastPopTime Time
	lastPopSeq  uint64
}

// New creates an empty Scheduler at virtual time 0.
func New() *Scheduler {
	s := &Scheduler{
		items: make(map[EventID]*item),
	}
	heap.Init(&s.queue)
	return s
}

// Now returns the scheduler's current virtual time.
func (s *Scheduler) Now() Time {
	return s.now
}

// Pending returns the number of events still queued. Processed events are
// not counted; a cancelled event stays counted until RunUntil pops and
// discards it, since cancellation is lazy.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Schedule places evt at now()+delay with a freshly assigned EventID and
// a freshly assigned seq that breaks ties in scheduling order. Scheduling
// with a negative delay is a programmer error and panics immediately,
// never surfaced as a normal error.
func (s *Scheduler) Schedule(delay Time, evt Event) EventID {
	if delay < 0 {
		panic(fmt.Sprintf("scheduler: negative delay %v is a programmer error", delay))
	}

	id := s.nextID
	s.nextID++

	it := &item{
		time: s.now + delay,
		seq:  s.seq,
		id:   id,
		evt:  evt,
	}
	s.seq++

	heap.Push(&s.queue, it)
	s.items[id] = it
	return id
}

// Cancel marks id as cancelled. The cancellation is best-effort and lazy:
// if the event has already been popped and dispatched, Cancel is a no-op.
func (s *Scheduler) Cancel(id EventID) {
	if it, ok := s.items[id]; ok {
		it.cancelled = true
		delete(s.items, id)
	}
}

// RunUntil pops events while now() <= tMax and the queue is nonempty,
// advancing now() to each event's time before dispatching it. It returns
// once the queue drains or the next event's time would exceed tMax.
func (s *Scheduler) RunUntil(tMax Time, dispatch Handler) Stats {
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.time > tMax {
			break
		}

		popped := heap.Pop(&s.queue).(*item)
		if popped.cancelled {
			s.stats.Cancelled++
			continue
		}
		delete(s.items, popped.id)

		if s.havePopped && (popped.time < s.lastPopTime ||
			(popped.time == s.lastPopTime && popped.seq < s.lastPopSeq)) {
			panic(fmt.Sprintf("scheduler: pop order regressed from (%v, %d) to (%v, %d)",
				s.lastPopTime, s.lastPopSeq, popped.time, popped.seq))
		}
		s.havePopped = true
		s.lastPopTime = popped.time
		s.lastPopSeq = popped.seq

		s.now = popped.time
		s.stats.Processed++
		dispatch(s.now, popped.id, popped.evt)
	}
	return s.stats
}

// Stats returns a snapshot of processed/cancelled counters accumulated so
// far across all RunUntil calls.
func (s *Scheduler) Stats() Stats {
	return s.stats
}
