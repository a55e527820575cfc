package system

import (
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

type GlitchSystem struct{}

func NewGlitchSystem() *GlitchSystem {
	return &GlitchSystem{}
}

func (g *GlitchSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.GlitchComponent.Kind(), func(_ ecs.Entity, gl *component.Glitch) {
		gl.Time += 1.0 / common.TPS
		if gl.Intensity > gl.Floor {
			gl.Intensity = max(gl.Floor, gl.Intensity-gl.Decay)
		}
	})
}

// KickGlitch raises the glitch intensity to at least amount.
func KickGlitch(w *ecs.World, amount float64) {
	ecs.ForEach(w, component.GlitchComponent.Kind(), func(_ ecs.Entity, gl *component.Glitch) {
		gl.Intensity = max(gl.Intensity, common.Clamp(amount, 0, 1))
	})
}

// GlitchState returns the current time and intensity for the screen pass.
func GlitchState(w *ecs.World) (t, intensity float64, ok bool) {
	ent, found := ecs.First(w, component.GlitchComponent.Kind())
	if !found {
		return 0, 0, false
	}
	gl, found := ecs.Get(w, ent, component.GlitchComponent.Kind())
	if !found {
		return 0, 0, false
	}
	return gl.Time, gl.Intensity, true
}
