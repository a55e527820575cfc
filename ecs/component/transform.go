package component

import "github.com/milk9111/neonfolio/common"

// Transform places an entity in world space. Base is the rest position the
// motion system offsets from; builders set it equal to Position.
type Transform struct {
	Position common.Vec3
	Base     common.Vec3
	Scale    common.Vec3
	Rotation common.Vec3
}

var TransformComponent = NewComponent[Transform]()
