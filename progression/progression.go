// Package progression tracks experience, the level derived from it and the
// achievements unlocked during a session.
package progression

import "slices"

// XPPerLevel is the experience needed to climb one level.
const XPPerLevel = 100

// LevelFor returns the level for a total amount of experience.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

type Achievement struct {
	ID   string
	Name string
}

// Notifier receives the notices a store emits. It is the only way state
// changes leave the store.
type Notifier interface {
	NotifyLevelUp(level int)
	NotifyAchievement(id, name string)
}

type Store struct {
	xp           int
	level        int
	achievements []Achievement
	unlocked     map[string]struct{}
	notifier     Notifier
}

// NewStore returns a store at zero experience and level one. A nil notifier
// discards notices.
func NewStore(n Notifier) *Store {
	return &Store{
		level:    1,
		unlocked: make(map[string]struct{}),
		notifier: n,
	}
}

// AddExperience adds amount and recomputes the level. Non-positive amounts
// are ignored. A single level-up notice is emitted however many levels the
// call crosses; the return value reports whether that happened.
func (s *Store) AddExperience(amount int) bool {
	if s == nil || amount <= 0 {
		return false
	}
	prev := s.level
	s.xp += amount
	s.level = LevelFor(s.xp)
	if s.level <= prev {
		return false
	}
	if s.notifier != nil {
		s.notifier.NotifyLevelUp(s.level)
	}
	return true
}

// UnlockAchievement records id the first time it is seen and emits one
// achievement notice. Later calls with the same id do nothing and return
// false.
func (s *Store) UnlockAchievement(id, name string) bool {
	if s == nil || id == "" {
		return false
	}
	if _, ok := s.unlocked[id]; ok {
		return false
	}
	if s.unlocked == nil {
		s.unlocked = make(map[string]struct{})
	}
	s.unlocked[id] = struct{}{}
	s.achievements = append(s.achievements, Achievement{ID: id, Name: name})
	if s.notifier != nil {
		s.notifier.NotifyAchievement(id, name)
	}
	return true
}

func (s *Store) Experience() int {
	if s == nil {
		return 0
	}
	return s.xp
}

func (s *Store) Level() int {
	if s == nil {
		return 1
	}
	return s.level
}

// LevelProgress is how far the current level has been filled, in [0,1).
func (s *Store) LevelProgress() float64 {
	if s == nil {
		return 0
	}
	return float64(s.xp%XPPerLevel) / XPPerLevel
}

// Achievements returns the unlocked achievements in unlock order.
func (s *Store) Achievements() []Achievement {
	if s == nil {
		return nil
	}
	return slices.Clone(s.achievements)
}

func (s *Store) Unlocked(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.unlocked[id]
	return ok
}
