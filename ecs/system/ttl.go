package system

import (
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

// TTLSystem decrements frame-based TTL components and destroys entities when
// the TTL reaches zero. It also ages click pulses.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.PulseComponent.Kind(), func(_ ecs.Entity, p *component.Pulse) {
		p.Age++
	})

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return
			}
		}
		ecs.DestroyEntity(w, e)
	})
}

// SpawnPulse leaves an expanding ring at a screen position.
func SpawnPulse(w *ecs.World, x, y, radius float64, col [4]float32) ecs.Entity {
	const life = 30
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.PulseComponent.Kind(), &component.Pulse{
		X: x, Y: y, MaxRadius: radius, Life: life, Color: col,
	})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: life})
	return e
}
