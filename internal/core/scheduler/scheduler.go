// Package scheduler runs deferred simulation work on tick boundaries.
//
// Every entry is keyed by the entity it acts on, and an entity has at most
// one pending entry. Reclaiming an entity early cancels its entry, so a
// callback never fires against a recycled entity.
package scheduler

import (
	"math"

	"github.com/zeusync/chainshot/internal/core/entity"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/pkg/sequence"
)

type timer struct {
	key entity.Handle
	fn  func()
}

// Scheduler is a cancellable timer queue driven by simulation time in
// seconds. It is not safe for concurrent use.
type Scheduler struct {
	now     float64
	queue   *sequence.PriorityQueue[timer]
	pending map[entity.Handle]*sequence.PriorityItem[timer]
	log     log.Log
}

func New(l log.Log) *Scheduler {
	return &Scheduler{
		queue:   sequence.NewPriorityQueue[timer](),
		pending: make(map[entity.Handle]*sequence.PriorityItem[timer]),
		log:     log.OrNop(l),
	}
}

// Now is the simulation time reached by the last Advance.
func (s *Scheduler) Now() float64 { return s.now }

// After schedules fn to run delay seconds from now, replacing any entry
// pending for key. Non-finite or negative delays run on the next Advance.
func (s *Scheduler) After(key entity.Handle, delay float64, fn func()) {
	if fn == nil {
		return
	}
	if !(delay > 0) || math.IsInf(delay, 0) {
		delay = 0
	}
	s.Cancel(key)
	s.pending[key] = s.queue.Enqueue(timer{key: key, fn: fn}, s.now+delay)
}

// Cancel revokes the entry pending for key and reports whether one existed.
func (s *Scheduler) Cancel(key entity.Handle) bool {
	item, ok := s.pending[key]
	if !ok {
		return false
	}
	delete(s.pending, key)
	s.queue.Remove(item)
	s.queue.Reuse(item)
	return true
}

// Pending reports whether key has a scheduled entry.
func (s *Scheduler) Pending(key entity.Handle) bool {
	_, ok := s.pending[key]
	return ok
}

// Len is the number of pending entries.
func (s *Scheduler) Len() int { return s.queue.Len() }

// Advance moves time forward by dt and runs every due entry in due order.
// Callbacks may schedule or cancel other entries. Returns how many ran.
func (s *Scheduler) Advance(dt float64) int {
	if dt > 0 && !math.IsInf(dt, 0) {
		s.now += dt
	} else if dt != 0 {
		s.log.Debug("scheduler ignored degenerate dt", log.Float64("dt", dt))
	}

	ran := 0
	for {
		due, ok := s.queue.PeekPriority()
		if !ok || due > s.now {
			return ran
		}
		item, _ := s.queue.DequeueItem()
		t := item.Value
		if s.pending[t.key] == item {
			delete(s.pending, t.key)
		}
		s.queue.Reuse(item)
		t.fn()
		ran++
	}
}

// Reset drops every pending entry and rewinds the clock.
func (s *Scheduler) Reset() {
	for key := range s.pending {
		s.Cancel(key)
	}
	s.now = 0
}
