package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFiresInTimeOrder(t *testing.T) {
	c := NewSim()
	q := NewQueue(c)

	var got []string
	q.After(3*time.Second, func() { got = append(got, "c") })
	q.After(1*time.Second, func() { got = append(got, "a") })
	q.After(2*time.Second, func() { got = append(got, "b") })

	assert.Equal(t, 0, q.Drain(c.Advance(500*time.Millisecond)))
	assert.Equal(t, 2, q.Drain(c.Advance(1500*time.Millisecond)))
	assert.Equal(t, []string{"a", "b"}, got)

	assert.Equal(t, 1, q.Drain(c.Advance(time.Second)))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, q.Len())
}

func TestQueueEqualTimesKeepScheduleOrder(t *testing.T) {
	c := NewSim()
	q := NewQueue(c)

	var got []int
	for i := range 5 {
		q.After(time.Second, func() { got = append(got, i) })
	}
	q.Drain(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestQueueDrainRunsNewlyDueWork(t *testing.T) {
	c := NewSim()
	q := NewQueue(c)

	count := 0
	q.At(time.Second, func() {
		count++
		q.At(time.Second, func() { count++ })
		q.At(5*time.Second, func() { count++ })
	})

	ran := q.Drain(time.Second)
	assert.Equal(t, 2, ran)
	assert.Equal(t, 2, count)

	next, ok := q.Next()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, next)
}

func TestQueueNegativeDelayFiresNow(t *testing.T) {
	c := NewSim()
	c.Advance(time.Second)
	q := NewQueue(c)

	fired := false
	q.After(-time.Minute, func() { fired = true })
	q.Drain(c.Now())
	assert.True(t, fired)
}

func TestSimIgnoresNegativeAdvance(t *testing.T) {
	c := NewSim()
	c.Advance(time.Second)
	c.Advance(-time.Hour)
	assert.Equal(t, time.Second, c.Now())
}
