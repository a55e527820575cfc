package entity

import (
	"fmt"

	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
	"github.com/milk9111/neonfolio/ecs/render"
)

func NewCamera(w *ecs.World, position common.Vec3) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		Position: position,
		FOV:      render.DefaultFOV,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
