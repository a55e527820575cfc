// Package ecs holds the presentation world: entities, per-kind component
// storage and the ordered list of systems that run every tick.
package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/neonfolio/ecs/component"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// RenderSystem is implemented by systems that also draw.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image)
}

// World owns entities, components, and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	events   EventQueue
	picks    *PickWorld
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return append([]System(nil), w.systems...)
}

// Update runs all systems once, then drops any events nobody drained.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		s.Update(w)
	}
	w.events.flush()
}

// Draw calls every render-capable system in update order.
func (w *World) Draw(screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, s := range w.systems {
		if rs, ok := s.(RenderSystem); ok {
			rs.Draw(w, screen)
		}
	}
}

func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Picks returns the hit-test space, creating it on first use.
func (w *World) Picks() *PickWorld {
	if w == nil {
		return nil
	}
	if w.picks == nil {
		w.picks = NewPickWorld()
	}
	return w.picks
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
