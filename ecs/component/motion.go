package component

import "github.com/milk9111/neonfolio/common"

// Spin rotates an entity about Axis at Speed radians per second.
type Spin struct {
	Axis  common.Vec3
	Speed float64
}

var SpinComponent = NewComponent[Spin]()

// Bob moves an entity vertically along a sine around its base position.
type Bob struct {
	Amplitude float64
	Speed     float64
	Phase     float64
}

var BobComponent = NewComponent[Bob]()
