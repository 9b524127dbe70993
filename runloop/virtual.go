// Package runloop provides the single-goroutine schedulers that drive a
// filter: a real run loop for hosts without one and a virtual clock for
// tests and simulations.
package runloop

import (
	"container/heap"
	"time"

	"github.com/agiangrant/scrollkit/filter"
)

// Virtual is a deterministic scheduler. Time only moves when Advance or
// RunUntilIdle is called, and callbacks run on the caller's goroutine in
// deadline order.
type Virtual struct {
	now    time.Time
	seq    uint64
	timers timerHeap
}

// NewVirtual returns a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time { return v.now }

func (v *Virtual) AfterFunc(d time.Duration, fn func()) filter.Timer {
	v.seq++
	t := &virtualTimer{when: v.now.Add(max(d, 0)), seq: v.seq, fn: fn}
	heap.Push(&v.timers, t)
	return t
}

// Advance moves the clock forward by d, running every callback that comes
// due along the way, including ones scheduled by earlier callbacks.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now.Add(d)
	for v.timers.Len() > 0 {
		next := v.timers[0]
		if next.when.After(target) {
			break
		}
		heap.Pop(&v.timers)
		if next.stopped {
			continue
		}
		v.now = next.when
		next.fired = true
		next.fn()
	}
	v.now = target
}

// RunUntilIdle runs callbacks until none remain, advancing the clock to each
// deadline in turn.
func (v *Virtual) RunUntilIdle() {
	for v.timers.Len() > 0 {
		next := heap.Pop(&v.timers).(*virtualTimer)
		if next.stopped {
			continue
		}
		if next.when.After(v.now) {
			v.now = next.when
		}
		next.fired = true
		next.fn()
	}
}

// Pending returns the number of callbacks that have not run or been stopped.
func (v *Virtual) Pending() int {
	n := 0
	for _, t := range v.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// NextDeadline returns the earliest live deadline.
func (v *Virtual) NextDeadline() (time.Time, bool) {
	var (
		best  time.Time
		found bool
	)
	for _, t := range v.timers {
		if t.stopped {
			continue
		}
		if !found || t.when.Before(best) {
			best, found = t.when, true
		}
	}
	return best, found
}

type virtualTimer struct {
	when    time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
	index   int
}

func (t *virtualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
