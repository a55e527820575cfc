package system

import (
	"github.com/milk9111/neonfolio/camera"
	"github.com/milk9111/neonfolio/ecs"
	"github.com/milk9111/neonfolio/ecs/component"
)

// PoseSource is anything that can report the current camera pose.
type PoseSource interface {
	Pose() camera.Pose
}

// CameraSystem copies the director's pose onto the camera entity each tick.
type CameraSystem struct {
	source PoseSource
	fov    float64
}

func NewCameraSystem(source PoseSource) *CameraSystem {
	return &CameraSystem{source: source}
}

// SetFOV overrides the field of view; zero keeps the entity's own.
func (c *CameraSystem) SetFOV(fov float64) {
	c.fov = fov
}

func (c *CameraSystem) Update(w *ecs.World) {
	if w == nil || c.source == nil {
		return
	}
	pose := c.source.Pose()
	ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, cam *component.Camera) {
		cam.Position = pose.Position
		cam.LookAt = pose.LookAt
		cam.Tracking = pose.Tracking
		if c.fov > 0 {
			cam.FOV = c.fov
		}
	})
}

// activeCamera returns the first tagged camera.
func activeCamera(w *ecs.World) (*component.Camera, bool) {
	ent, ok := ecs.First(w, component.CameraTagComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, ent, component.CameraComponent.Kind())
}
