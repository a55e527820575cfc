// Package timer provides a frame-driven set of scheduled callbacks. The owner
// advances the clock from its update loop, so every callback runs on the
// caller's goroutine.
package timer

import (
	"time"
)

// ID identifies a scheduled callback within its Set.
type ID uint64

type entry struct {
	id   ID
	at   time.Duration
	fn   func()
	held bool
}

// Set owns a group of scheduled callbacks and the clock they run against.
type Set struct {
	now       time.Duration
	next      ID
	pending   map[ID]*entry
	advancing bool
}

func NewSet() *Set {
	return &Set{pending: make(map[ID]*entry)}
}

// Now returns the elapsed time since the set was created.
func (s *Set) Now() time.Duration {
	if s == nil {
		return 0
	}
	return s.now
}

// After schedules fn to run once the clock has advanced by d. Non-positive
// delays fire on the next Advance, even when scheduled from a callback.
func (s *Set) After(d time.Duration, fn func()) ID {
	if s == nil || fn == nil {
		return 0
	}
	if s.pending == nil {
		s.pending = make(map[ID]*entry)
	}
	if d < 0 {
		d = 0
	}
	s.next++
	id := s.next
	s.pending[id] = &entry{id: id, at: s.now + d, fn: fn, held: s.advancing && d == 0}
	return id
}

// Cancel drops a pending callback. It reports whether the callback was still
// pending.
func (s *Set) Cancel(id ID) bool {
	if s == nil {
		return false
	}
	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

// Pending reports whether id is scheduled and has not fired.
func (s *Set) Pending(id ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.pending[id]
	return ok
}

// Len returns the number of pending callbacks.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pending)
}

// Advance moves the clock forward by dt and runs every callback whose
// deadline has been reached, earliest first. The clock steps to each
// deadline as it fires, so a callback scheduled by a running callback fires
// in the same Advance when its deadline falls inside it. A zero delay
// scheduled during Advance waits for the next one.
func (s *Set) Advance(dt time.Duration) {
	if s == nil {
		return
	}
	target := s.now
	if dt > 0 {
		target += dt
	}

	s.advancing = true
	defer func() {
		s.advancing = false
		for _, e := range s.pending {
			e.held = false
		}
	}()

	for {
		e := s.nextDue(target)
		if e == nil {
			break
		}
		if e.at > s.now {
			s.now = e.at
		}
		delete(s.pending, e.id)
		e.fn()
	}
	s.now = target
}

// Clear cancels every pending callback. The clock keeps its value.
func (s *Set) Clear() {
	if s == nil {
		return
	}
	clear(s.pending)
}

func (s *Set) nextDue(target time.Duration) *entry {
	var best *entry
	for _, e := range s.pending {
		if e.held || e.at > target {
			continue
		}
		if best == nil || e.at < best.at || (e.at == best.at && e.id < best.id) {
			best = e
		}
	}
	return best
}
