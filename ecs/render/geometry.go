package render

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/ecs/component"
)

const circleSegments = 48

// Shape carries the size parameters of a mesh from its prefab.
type Shape struct {
	Size   common.Vec3
	Count  int
	Radius float64
	Depth  float64
	Seed   uint64
}

// Build returns the local-space wireframe for kind. Unknown kinds produce an
// empty mesh.
func Build(kind component.MeshKind, s Shape) ([]component.Segment, []common.Vec3) {
	switch kind {
	case component.MeshStars:
		return nil, stars(s)
	case component.MeshTorus:
		r := orDefault(s.Radius, 1)
		tube := r * 0.08
		edges := circle(r-tube, circleSegments, planeXY)
		edges = append(edges, circle(r+tube, circleSegments, planeXY)...)
		for i := 0; i < 12; i++ {
			a := float64(i) / 12 * 2 * math.Pi
			dir := common.V3(math.Cos(a), math.Sin(a), 0)
			edges = append(edges, component.Segment{A: dir.Scale(r - tube), B: dir.Scale(r + tube)})
		}
		return edges, nil
	case component.MeshBox:
		return box(sizeOr(s.Size, common.V3(1, 1, 1))), nil
	case component.MeshPanel:
		sz := sizeOr(s.Size, common.V3(4, 3, 0))
		hx, hy := sz.X/2, sz.Y/2
		c := []common.Vec3{
			common.V3(-hx, -hy, 0), common.V3(hx, -hy, 0),
			common.V3(hx, hy, 0), common.V3(-hx, hy, 0),
		}
		edges := loop(c)
		for i := 1; i < 4; i++ {
			y := -hy + float64(i)*sz.Y/4
			edges = append(edges, component.Segment{A: common.V3(-hx*0.8, y, 0), B: common.V3(hx*0.8, y, 0)})
		}
		return edges, nil
	case component.MeshGem:
		return octahedron(orDefault(s.Radius, 1)), nil
	case component.MeshSphere:
		r := orDefault(s.Radius, 1)
		edges := circle(r, circleSegments, planeXZ)
		edges = append(edges, circle(r, circleSegments, planeXY)...)
		edges = append(edges, circle(r, circleSegments, planeYZ)...)
		for _, y := range []float64{-0.5, 0.5} {
			ring := circle(r*math.Sqrt(1-y*y), circleSegments, planeXZ)
			for i := range ring {
				ring[i].A.Y, ring[i].B.Y = y*r, y*r
			}
			edges = append(edges, ring...)
		}
		return edges, nil
	case component.MeshFloor:
		sz := sizeOr(s.Size, common.V3(20, 20, 0))
		n := s.Count
		if n <= 0 {
			n = 10
		}
		hx, hz := sz.X/2, sz.Y/2
		var edges []component.Segment
		for i := 0; i <= n; i++ {
			t := float64(i) / float64(n)
			x := -hx + t*sz.X
			z := -hz + t*sz.Y
			edges = append(edges,
				component.Segment{A: common.V3(x, 0, -hz), B: common.V3(x, 0, hz)},
				component.Segment{A: common.V3(-hx, 0, z), B: common.V3(hx, 0, z)},
			)
		}
		return edges, nil
	case component.MeshDisc:
		r := orDefault(s.Radius, 1)
		edges := circle(r, circleSegments, planeXZ)
		edges = append(edges, circle(r*0.66, circleSegments, planeXZ)...)
		edges = append(edges, circle(r*0.33, circleSegments, planeXZ)...)
		return edges, nil
	default:
		return nil, nil
	}
}

type plane int

const (
	planeXY plane = iota
	planeXZ
	planeYZ
)

func circle(r float64, n int, p plane) []component.Segment {
	pts := make([]common.Vec3, n)
	for i := range pts {
		a := float64(i) / float64(n) * 2 * math.Pi
		c, s := math.Cos(a)*r, math.Sin(a)*r
		switch p {
		case planeXZ:
			pts[i] = common.V3(c, 0, s)
		case planeYZ:
			pts[i] = common.V3(0, c, s)
		default:
			pts[i] = common.V3(c, s, 0)
		}
	}
	return loop(pts)
}

func loop(pts []common.Vec3) []component.Segment {
	out := make([]component.Segment, len(pts))
	for i := range pts {
		out[i] = component.Segment{A: pts[i], B: pts[(i+1)%len(pts)]}
	}
	return out
}

func box(size common.Vec3) []component.Segment {
	hx, hy, hz := size.X/2, size.Y/2, size.Z/2
	v := func(i int) common.Vec3 {
		x, y, z := -hx, -hy, -hz
		if i&1 != 0 {
			x = hx
		}
		if i&2 != 0 {
			y = hy
		}
		if i&4 != 0 {
			z = hz
		}
		return common.V3(x, y, z)
	}
	var out []component.Segment
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				out = append(out, component.Segment{A: v(i), B: v(i | bit)})
			}
		}
	}
	return out
}

func octahedron(r float64) []component.Segment {
	top, bottom := common.V3(0, r, 0), common.V3(0, -r, 0)
	ring := []common.Vec3{
		common.V3(r, 0, 0), common.V3(0, 0, r),
		common.V3(-r, 0, 0), common.V3(0, 0, -r),
	}
	out := loop(ring)
	for _, p := range ring {
		out = append(out, component.Segment{A: top, B: p}, component.Segment{A: bottom, B: p})
	}
	return out
}

// stars scatters Count points in a shell between Radius-Depth and Radius.
func stars(s Shape) []common.Vec3 {
	n := s.Count
	if n <= 0 {
		n = 500
	}
	outer := orDefault(s.Radius, 50)
	inner := outer - s.Depth
	if inner < 0 || s.Depth <= 0 {
		inner = outer * 0.5
	}
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	pts := make([]common.Vec3, n)
	for i := range pts {
		// Uniform direction on the sphere.
		z := rng.Float64()*2 - 1
		a := rng.Float64() * 2 * math.Pi
		rxy := math.Sqrt(1 - z*z)
		dir := common.V3(rxy*math.Cos(a), rxy*math.Sin(a), z)
		pts[i] = dir.Scale(inner + rng.Float64()*(outer-inner))
	}
	return pts
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func sizeOr(v, def common.Vec3) common.Vec3 {
	if v.X <= 0 && v.Y <= 0 && v.Z <= 0 {
		return def
	}
	return v
}
