package clock

import (
	"container/heap"
	"time"
)

type task struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type taskHeap []task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(task)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = task{}
	*h = old[:n-1]
	return t
}

// Queue is a timer queue keyed by simulation time.
// Callbacks with equal fire time run in scheduling order.
// Not safe for concurrent use; scheduled and drained from the tick loop only.
type Queue struct {
	clock Source
	tasks taskHeap
	seq   uint64
}

// NewQueue creates a queue that schedules relative delays against clock.
func NewQueue(clock Source) *Queue {
	return &Queue{clock: clock}
}

// At schedules fn to fire at absolute simulation time t.
func (q *Queue) At(t time.Duration, fn func()) {
	if fn == nil {
		return
	}
	q.seq++
	heap.Push(&q.tasks, task{at: t, seq: q.seq, fn: fn})
}

// After schedules fn to fire delay after the current simulation time.
func (q *Queue) After(delay time.Duration, fn func()) {
	q.At(q.clock.Now()+max(delay, 0), fn)
}

// Drain runs every callback due at or before now and returns how many ran.
// Callbacks that schedule new due work are drained in the same call.
func (q *Queue) Drain(now time.Duration) int {
	ran := 0
	for len(q.tasks) > 0 && q.tasks[0].at <= now {
		t := heap.Pop(&q.tasks).(task)
		t.fn()
		ran++
	}
	return ran
}

// Len returns number of pending callbacks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Next returns the fire time of the earliest pending callback.
func (q *Queue) Next() (time.Duration, bool) {
	if len(q.tasks) == 0 {
		return 0, false
	}
	return q.tasks[0].at, true
}
