package ecs

import (
	"github.com/jakecoffman/cp"
)

type pickShape struct {
	shape  *cp.Shape
	x, y   float64
	radius float64
}

// PickWorld is a Chipmunk space used only for pointer hit tests. Each
// interactable owns one static circle in screen coordinates, refreshed by the
// interact system whenever its projection moves.
type PickWorld struct {
	space         *cp.Space
	shapes        map[Entity]*pickShape
	shapeToEntity map[*cp.Shape]Entity
}

func NewPickWorld() *PickWorld {
	return &PickWorld{
		space:         cp.NewSpace(),
		shapes:        make(map[Entity]*pickShape),
		shapeToEntity: make(map[*cp.Shape]Entity),
	}
}

// Set places e's hit circle. A non-positive radius removes it.
func (pw *PickWorld) Set(e Entity, x, y, radius float64) {
	if pw == nil {
		return
	}
	if radius <= 0 {
		pw.Remove(e)
		return
	}
	if cur, ok := pw.shapes[e]; ok {
		if cur.x == x && cur.y == y && cur.radius == radius {
			return
		}
		pw.Remove(e)
	}
	shape := cp.NewCircle(pw.space.StaticBody, radius, cp.Vector{X: x, Y: y})
	pw.space.AddShape(shape)
	pw.shapes[e] = &pickShape{shape: shape, x: x, y: y, radius: radius}
	pw.shapeToEntity[shape] = e
}

func (pw *PickWorld) Remove(e Entity) {
	if pw == nil {
		return
	}
	cur, ok := pw.shapes[e]
	if !ok {
		return
	}
	pw.space.RemoveShape(cur.shape)
	delete(pw.shapeToEntity, cur.shape)
	delete(pw.shapes, e)
}

// Clear drops every hit circle.
func (pw *PickWorld) Clear() {
	if pw == nil {
		return
	}
	for e := range pw.shapes {
		pw.Remove(e)
	}
}

func (pw *PickWorld) Len() int {
	if pw == nil {
		return 0
	}
	return len(pw.shapes)
}

// Pick returns the entity whose circle contains (x, y). When circles
// overlap the deepest hit wins.
func (pw *PickWorld) Pick(x, y float64) (Entity, bool) {
	if pw == nil || len(pw.shapes) == 0 {
		return 0, false
	}
	info := pw.space.PointQueryNearest(cp.Vector{X: x, Y: y}, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return 0, false
	}
	e, ok := pw.shapeToEntity[info.Shape]
	return e, ok
}
