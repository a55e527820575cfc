package system

import (
	"math"

	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

// MotionSystem applies the idle animations: spin about an axis and a vertical
// bob around the rest position.
type MotionSystem struct {
	ticks int
}

func NewMotionSystem() *MotionSystem {
	return &MotionSystem{}
}

func (m *MotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	m.ticks++
	dt := 1.0 / common.TPS
	t := float64(m.ticks) * dt

	ecs.ForEach2(w, component.SpinComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, spin *component.Spin, tr *component.Transform) {
		step := spin.Axis.Normalize().Scale(spin.Speed * dt)
		tr.Rotation = common.V3(
			wrapAngle(tr.Rotation.X+step.X),
			wrapAngle(tr.Rotation.Y+step.Y),
			wrapAngle(tr.Rotation.Z+step.Z),
		)
	})

	ecs.ForEach2(w, component.BobComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, bob *component.Bob, tr *component.Transform) {
		tr.Position.Y = tr.Base.Y + math.Sin(t*bob.Speed+bob.Phase)*bob.Amplitude
	})
}

func wrapAngle(a float64) float64 {
	return math.Mod(a, 2*math.Pi)
}
