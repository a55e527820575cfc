package component

import "github.com/milk9111/neonfolio/common"

// Camera mirrors the session's camera director into the world so render
// systems can project without reaching into the session.
type Camera struct {
	Position common.Vec3
	LookAt   common.Vec3
	Tracking bool
	FOV      float64
}

var CameraComponent = NewComponent[Camera]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
