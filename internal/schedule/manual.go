package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a simulated clock. Callbacks only run from Advance, on the
// caller's goroutine, in deadline order (FIFO for equal deadlines).
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	nextID  uint64
	pending []*manualTimer
}

type manualTimer struct {
	m        *Manual
	id       uint64
	deadline time.Time
	fn       func()
	done     bool
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &manualTimer{m: m, id: m.nextID, deadline: m.now.Add(d), fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of armed callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, firing every callback whose deadline
// falls inside the window, including ones armed by callbacks fired during
// this call. It returns the number of callbacks fired.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	fired := 0
	for {
		m.mu.Lock()
		next := m.popDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return fired
		}
		m.now = next.deadline
		m.mu.Unlock()

		next.fn()
		fired++
	}
}

// RunUntilIdle fires callbacks until none are pending or limit callbacks ran.
// It returns the number fired.
func (m *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return fired
		}
		m.sortLocked()
		deadline := m.pending[0].deadline
		m.mu.Unlock()
		fired += m.Advance(deadline.Sub(m.Now()))
	}
	return fired
}

func (m *Manual) popDueLocked(target time.Time) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	m.sortLocked()
	head := m.pending[0]
	if head.deadline.After(target) {
		return nil
	}
	m.pending = m.pending[1:]
	head.done = true
	return head
}

func (m *Manual) sortLocked() {
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].deadline.Equal(m.pending[j].deadline) {
			return m.pending[i].id < m.pending[j].id
		}
		return m.pending[i].deadline.Before(m.pending[j].deadline)
	})
}

// Stop implements Handle.
func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, p := range t.m.pending {
		if p == t {
			t.m.pending = append(t.m.pending[:i], t.m.pending[i+1:]...)
			break
		}
	}
	return true
}
