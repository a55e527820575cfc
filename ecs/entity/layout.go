package entity

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/milk9111/neonfolio/common"
	"github.com/milk9111/neonfolio/prefabs"
)

// slot is one stamped copy of a layout entity.
type slot struct {
	Index    int
	Offset   common.Vec3
	Lift     float64
	Grounded bool
	Item     *prefabs.LayoutItemSpec
}

// expandLayout returns the slots for a layout. A nil layout is one slot with
// no offset; items cycle when there are fewer items than slots.
func expandLayout(l *prefabs.LayoutSpec) ([]*slot, error) {
	if l == nil {
		return []*slot{nil}, nil
	}

	count := l.Count
	if count <= 0 {
		count = len(l.Items)
	}
	if count <= 0 {
		return nil, fmt.Errorf("layout %q has no count and no items", l.Kind)
	}

	rng := rand.New(rand.NewPCG(l.Seed, l.Seed+1))
	out := make([]*slot, count)
	for i := range out {
		s := &slot{Index: i}
		if len(l.Items) > 0 {
			item := l.Items[i%len(l.Items)]
			s.Item = &item
		}

		switch l.Kind {
		case "grid":
			cols := l.Columns
			if cols <= 0 {
				cols = int(math.Ceil(math.Sqrt(float64(count))))
			}
			spacing := l.Spacing
			if spacing <= 0 {
				spacing = 1
			}
			center := float64(cols-1) / 2
			col, row := i%cols, i/cols
			s.Offset = common.V3((float64(col)-center)*spacing, 0, (float64(row)-center)*spacing)
			if l.Jitter > 0 {
				s.Lift = rng.Float64() * l.Jitter
				s.Grounded = true
			}
		case "ring":
			radius := l.Radius
			if radius <= 0 {
				radius = 1
			}
			a := float64(i) / float64(count) * 2 * math.Pi
			s.Offset = common.V3(math.Cos(a)*radius, 0, math.Sin(a)*radius)
		default:
			return nil, fmt.Errorf("unknown layout kind %q", l.Kind)
		}
		out[i] = s
	}
	return out, nil
}
