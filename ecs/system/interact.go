package system

import (
	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/ecs/render"
)

const SoundClick = "click"

// InteractSystem keeps each interactable's hit circle on its projected
// position and turns clicks into interact events.
type InteractSystem struct{}

func NewInteractSystem() *InteractSystem {
	return &InteractSystem{}
}

func (s *InteractSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	proj, ok := projectorFor(w)
	if !ok {
		return
	}
	picks := w.Picks()

	ecs.ForEach2(w, component.InteractableComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, in *component.Interactable, tr *component.Transform) {
		x, y, _, visible := proj.Project(tr.Position)
		in.ScreenX, in.ScreenY, in.Visible = x, y, visible
		in.Hovered = false
		if !visible {
			picks.Remove(e)
			return
		}
		picks.Set(e, x, y, in.Radius)
	})

	inputEnt, ok := ecs.First(w, component.InputComponent.Kind())
	if !ok {
		return
	}
	input, _ := ecs.Get(w, inputEnt, component.InputComponent.Kind())

	hit, ok := picks.Pick(input.PointerX, input.PointerY)
	if !ok {
		return
	}
	in, ok := ecs.Get(w, hit, component.InteractableComponent.Kind())
	if !ok {
		return
	}
	in.Hovered = true
	if !input.Click {
		return
	}

	w.Events().Push(ecs.Event{Type: ecs.EventInteract, Entity: hit, Data: in.Item})
	col := [4]float32{0, 0.96, 1, 1}
	if mesh, ok := ecs.Get(w, hit, component.MeshComponent.Kind()); ok {
		col = [4]float32{float32(mesh.Color.R) / 255, float32(mesh.Color.G) / 255, float32(mesh.Color.B) / 255, 1}
	}
	SpawnPulse(w, in.ScreenX, in.ScreenY, in.Radius*1.6, col)
	PlaySound(w, SoundClick)
}

// projectorFor builds this frame's projector from the active camera.
func projectorFor(w *ecs.World) (render.Projector, bool) {
	cam, ok := activeCamera(w)
	if !ok {
		return render.Projector{}, false
	}
	return render.NewProjector(cam.Position, cam.LookAt, cam.Tracking, cam.FOV, common.BaseWidth, common.BaseHeight), true
}
