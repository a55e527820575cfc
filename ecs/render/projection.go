// Package render holds the math between world space and the screen: camera
// projection and the wireframe geometry of each mesh kind. Drawing itself
// lives in the render system.
package render

import (
	"math"

	"github.com/milk9111/neonfolio/common"
)

const (
	DefaultFOV = 75.0
	nearPlane  = 0.1
)

// Projector is a pinhole camera fixed for one frame.
type Projector struct {
	eye           common.Vec3
	right, up, fw common.Vec3
	focal         float64
	cx, cy        float64
}

// NewProjector builds a camera at eye. With tracking it faces lookAt,
// otherwise it faces down -Z. fov is the vertical field of view in degrees.
func NewProjector(eye, lookAt common.Vec3, tracking bool, fov float64, width, height int) Projector {
	if fov <= 0 || fov >= 179 {
		fov = DefaultFOV
	}
	fw := common.V3(0, 0, -1)
	if tracking {
		if d := lookAt.Sub(eye); d.Len() > 1e-9 {
			fw = d.Normalize()
		}
	}
	worldUp := common.V3(0, 1, 0)
	if math.Abs(fw.Dot(worldUp)) > 0.999 {
		worldUp = common.V3(0, 0, -1)
	}
	right := fw.Cross(worldUp).Normalize()
	up := right.Cross(fw)

	h := float64(height)
	return Projector{
		eye:   eye,
		right: right,
		up:    up,
		fw:    fw,
		focal: (h / 2) / math.Tan(fov*math.Pi/360),
		cx:    float64(width) / 2,
		cy:    h / 2,
	}
}

// Project maps a world point to screen pixels. depth is the distance along
// the view axis; ok is false for points behind the near plane.
func (p Projector) Project(v common.Vec3) (x, y, depth float64, ok bool) {
	d := v.Sub(p.eye)
	z := d.Dot(p.fw)
	if z < nearPlane {
		return 0, 0, z, false
	}
	x = p.cx + d.Dot(p.right)/z*p.focal
	y = p.cy - d.Dot(p.up)/z*p.focal
	return x, y, z, true
}

// ScaleAt is how many pixels one world unit covers at depth.
func (p Projector) ScaleAt(depth float64) float64 {
	if depth < nearPlane {
		depth = nearPlane
	}
	return p.focal / depth
}

// ClipSegment trims a segment to the part in front of the near plane.
func (p Projector) ClipSegment(a, b common.Vec3) (common.Vec3, common.Vec3, bool) {
	za := a.Sub(p.eye).Dot(p.fw)
	zb := b.Sub(p.eye).Dot(p.fw)
	if za < nearPlane && zb < nearPlane {
		return a, b, false
	}
	if za >= nearPlane && zb >= nearPlane {
		return a, b, true
	}
	t := (nearPlane - za) / (zb - za)
	hit := common.LerpVec3(a, b, t)
	if za < nearPlane {
		return hit, b, true
	}
	return a, hit, true
}

// Apply scales, rotates (X, then Y, then Z) and translates a local point.
func Apply(local, scale, rotation, position common.Vec3) common.Vec3 {
	v := common.V3(local.X*scale.X, local.Y*scale.Y, local.Z*scale.Z)
	v = rotateX(v, rotation.X)
	v = rotateY(v, rotation.Y)
	v = rotateZ(v, rotation.Z)
	return v.Add(position)
}

func rotateX(v common.Vec3, a float64) common.Vec3 {
	if a == 0 {
		return v
	}
	s, c := math.Sincos(a)
	return common.V3(v.X, v.Y*c-v.Z*s, v.Y*s+v.Z*c)
}

func rotateY(v common.Vec3, a float64) common.Vec3 {
	if a == 0 {
		return v
	}
	s, c := math.Sincos(a)
	return common.V3(v.X*c+v.Z*s, v.Y, -v.X*s+v.Z*c)
}

func rotateZ(v common.Vec3, a float64) common.Vec3 {
	if a == 0 {
		return v
	}
	s, c := math.Sincos(a)
	return common.V3(v.X*c-v.Y*s, v.X*s+v.Y*c, v.Z)
}
