package component

import (
	"image/color"

	"github.com/milk9111/neonfolio/common"
)

type MeshKind string

const (
	MeshStars  MeshKind = "stars"
	MeshTorus  MeshKind = "torus"
	MeshBox    MeshKind = "box"
	MeshPanel  MeshKind = "panel"
	MeshGem    MeshKind = "gem"
	MeshSphere MeshKind = "sphere"
	MeshFloor  MeshKind = "floor"
	MeshDisc   MeshKind = "disc"
)

// Segment is one wireframe edge in mesh-local space.
type Segment struct {
	A, B common.Vec3
}

// Mesh is a wireframe shape. Edges and Points are generated once when the
// entity is built and never change afterwards.
type Mesh struct {
	Kind   MeshKind
	Color  color.NRGBA
	Edges  []Segment
	Points []common.Vec3
}

var MeshComponent = NewComponent[Mesh]()
