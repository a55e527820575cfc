// Package scene sequences the fixed, cyclic list of scenes.
package scene

import "errors"

var ErrNoScenes = errors.New("scene: sequence has no scenes")

// Descriptor names a scene and the callbacks run when it becomes active or
// stops being active. Either callback may be nil.
type Descriptor struct {
	ID      string
	Name    string
	OnEnter func()
	OnExit  func()
}

// Sequencer tracks the active scene. Transitions complete synchronously; it
// is not safe for concurrent use.
type Sequencer struct {
	scenes    []Descriptor
	active    int
	started   bool
	observers []func(prev, next int)
}

func NewSequencer(scenes ...Descriptor) (*Sequencer, error) {
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}
	copied := append([]Descriptor(nil), scenes...)
	return &Sequencer{scenes: copied}, nil
}

// Start enters the first scene. Calling it again does nothing.
func (s *Sequencer) Start() {
	if s == nil || s.started {
		return
	}
	s.started = true
	s.enter(s.active)
	s.notify(-1, s.active)
}

// Advance moves to the next scene, wrapping to the first after the last, and
// returns the new index.
func (s *Sequencer) Advance() int {
	if s == nil {
		return 0
	}
	s.moveTo((s.active + 1) % len(s.scenes))
	return s.active
}

// Select jumps to index. Out-of-range indexes are ignored and reported as
// false. Selecting the active scene is accepted but does not re-enter it.
func (s *Sequencer) Select(index int) bool {
	if s == nil || index < 0 || index >= len(s.scenes) {
		return false
	}
	if index == s.active && s.started {
		return true
	}
	s.moveTo(index)
	return true
}

// OnChange registers fn to run after every transition, once the new scene's
// enter callback has finished. prev is -1 for the initial Start.
func (s *Sequencer) OnChange(fn func(prev, next int)) {
	if s == nil || fn == nil {
		return
	}
	s.observers = append(s.observers, fn)
}

func (s *Sequencer) Index() int {
	if s == nil {
		return 0
	}
	return s.active
}

func (s *Sequencer) Active() Descriptor {
	if s == nil || len(s.scenes) == 0 {
		return Descriptor{}
	}
	return s.scenes[s.active]
}

func (s *Sequencer) Len() int {
	if s == nil {
		return 0
	}
	return len(s.scenes)
}

// Scenes returns the descriptors in sequence order.
func (s *Sequencer) Scenes() []Descriptor {
	if s == nil {
		return nil
	}
	return append([]Descriptor(nil), s.scenes...)
}

// IndexOf returns the position of the scene with the given id, or -1.
func (s *Sequencer) IndexOf(id string) int {
	if s == nil {
		return -1
	}
	for i, d := range s.scenes {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (s *Sequencer) moveTo(next int) {
	prev := s.active
	if s.started {
		if exit := s.scenes[prev].OnExit; exit != nil {
			exit()
		}
	} else {
		prev = -1
		s.started = true
	}
	s.active = next
	s.enter(next)
	s.notify(prev, next)
}

func (s *Sequencer) enter(i int) {
	if enter := s.scenes[i].OnEnter; enter != nil {
		enter()
	}
}

func (s *Sequencer) notify(prev, next int) {
	for _, fn := range s.observers {
		fn(prev, next)
	}
}
