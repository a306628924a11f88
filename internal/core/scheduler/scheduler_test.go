package scheduler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/chainshot/internal/core/entity"
)

func handle(id uint32) entity.Handle {
	return entity.Handle{Kind: entity.KindObstacle, ID: id}
}

func TestSchedulerRunsDueEntriesInOrder(t *testing.T) {
	s := New(nil)
	var order []string
	s.After(handle(1), 0.3, func() { order = append(order, "late") })
	s.After(handle(2), 0.1, func() { order = append(order, "early") })
	s.After(handle(3), 0.2, func() { order = append(order, "middle") })

	assert.Equal(t, 0, s.Advance(0.05))
	assert.Equal(t, 2, s.Advance(0.2))
	assert.Equal(t, []string{"early", "middle"}, order)
	assert.True(t, s.Pending(handle(1)))

	assert.Equal(t, 1, s.Advance(1))
	assert.Equal(t, []string{"early", "middle", "late"}, order)
	assert.Equal(t, 0, s.Len())
	assert.InDelta(t, 1.25, s.Now(), 1e-12)
}

func TestSchedulerCancel(t *testing.T) {
	s := New(nil)
	fired := false
	s.After(handle(1), 1, func() { fired = true })

	assert.True(t, s.Cancel(handle(1)))
	assert.False(t, s.Cancel(handle(1)))
	assert.False(t, s.Pending(handle(1)))
	s.Advance(2)
	assert.False(t, fired)
}

func TestSchedulerReplacesEntryForSameKey(t *testing.T) {
	s := New(nil)
	var got []int
	s.After(handle(7), 0.5, func() { got = append(got, 1) })
	s.After(handle(7), 1.5, func() { got = append(got, 2) })
	assert.Equal(t, 1, s.Len())

	s.Advance(1)
	assert.Empty(t, got)
	s.Advance(1)
	assert.Equal(t, []int{2}, got)
}

func TestSchedulerCallbackCanReschedule(t *testing.T) {
	s := New(nil)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			s.After(handle(1), 1, tick)
		}
	}
	s.After(handle(1), 1, tick)
	for i := 0; i < 5; i++ {
		s.Advance(1)
	}
	assert.Equal(t, 3, count)
}

func TestSchedulerCallbackCanCancelOthers(t *testing.T) {
	s := New(nil)
	secondFired := false
	s.After(handle(1), 0.1, func() { s.Cancel(handle(2)) })
	s.After(handle(2), 0.2, func() { secondFired = true })
	s.Advance(1)
	assert.False(t, secondFired)
}

func TestSchedulerDegenerateInputs(t *testing.T) {
	s := New(nil)
	fired := 0
	s.After(handle(1), math.NaN(), func() { fired++ })
	s.After(handle(2), -3, func() { fired++ })
	s.After(handle(3), 1, nil)
	assert.Equal(t, 2, s.Len())

	s.Advance(math.NaN())
	assert.Equal(t, 2, fired)
	assert.Zero(t, s.Now())

	s.Advance(math.Inf(1))
	assert.Zero(t, s.Now())
}

func TestSchedulerReset(t *testing.T) {
	s := New(nil)
	s.After(handle(1), 1, func() { t.Fatal("must not fire") })
	s.After(handle(2), 2, func() { t.Fatal("must not fire") })
	s.Advance(0.5)
	s.Reset()
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Now())
	s.Advance(5)
}
