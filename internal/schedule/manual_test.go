//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_AdvanceFiresInDeadlineOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var got []string
	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	fired := m.Advance(20 * time.Millisecond)
	assert.Equal(t, 2, fired)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, time.Unix(0, 0).Add(20*time.Millisecond), m.Now())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, m.Pending())
}

func TestManual_CallbacksArmedDuringAdvance(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	count := 0
	var tick func()
	tick = func() {
		count++
		m.AfterFunc(100*time.Millisecond, tick)
	}
	m.AfterFunc(100*time.Millisecond, tick)

	m.Advance(time.Second)
	assert.Equal(t, 10, count)
	assert.Equal(t, 1, m.Pending())
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	ran := false
	h := m.AfterFunc(time.Millisecond, func() { ran = true })

	require.True(t, h.Stop())
	require.False(t, h.Stop())
	m.Advance(time.Second)
	assert.False(t, ran)

	h2 := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	assert.False(t, h2.Stop(), "stopping a fired timer reports false")
}

func TestManual_RunUntilIdle(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var order []int
	m.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	m.AfterFunc(time.Second, func() {
		order = append(order, 1)
		m.AfterFunc(5*time.Second, func() { order = append(order, 3) })
	})

	fired := m.RunUntilIdle(10)
	assert.Equal(t, 3, fired)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, time.Unix(6, 0), m.Now())
}

func TestManual_RunUntilIdleLimit(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var loop func()
	loop = func() { m.AfterFunc(time.Millisecond, loop) }
	m.AfterFunc(time.Millisecond, loop)

	assert.Equal(t, 5, m.RunUntilIdle(5))
	assert.Equal(t, 1, m.Pending())
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	var s Scheduler = Real{}
	s.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real scheduler did not fire")
	}
}
