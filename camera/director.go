// Package camera drives cinematic camera moves between poses.
package camera

import (
	"time"

	"github.com/milk9111/neonfolio/common"
)

// Transition requests a move to Position, optionally turning to face LookAt,
// over Duration.
type Transition struct {
	Position   *common.Vec3
	LookAt     *common.Vec3
	Duration   time.Duration
	OnComplete func()
}

// Pose is the camera state the renderer reads each frame.
type Pose struct {
	Position common.Vec3
	LookAt   common.Vec3
	// Tracking reports whether the orientation follows LookAt. When false the
	// camera faces down -Z.
	Tracking bool
}

type flight struct {
	fromPos, toPos   common.Vec3
	fromLook, toLook common.Vec3
	hasLook          bool
	elapsed          time.Duration
	duration         time.Duration
	onComplete       func()
}

// Director interpolates the camera pose. Only the most recent request is
// ever in flight.
type Director struct {
	pos      common.Vec3
	look     common.Vec3
	tracking bool
	active   *flight
}

func NewDirector(position common.Vec3) *Director {
	return &Director{pos: position}
}

// Request starts a move from the current pose. Any move still in flight is
// abandoned and its completion callback will not run. A request without a
// position leaves the director idle.
func (d *Director) Request(t Transition) {
	if d == nil {
		return
	}
	if t.Position == nil {
		d.active = nil
		return
	}

	f := &flight{
		fromPos:    d.pos,
		toPos:      *t.Position,
		fromLook:   d.look,
		duration:   t.Duration,
		onComplete: t.OnComplete,
	}
	if t.LookAt != nil {
		f.hasLook = true
		f.toLook = *t.LookAt
	}
	d.tracking = f.hasLook
	d.active = f
}

// Update advances the move in flight by dt. When the move reaches its end the
// pose snaps to the target and the completion callback runs once.
func (d *Director) Update(dt time.Duration) {
	if d == nil || d.active == nil {
		return
	}
	f := d.active
	if dt > 0 {
		f.elapsed += dt
	}

	if f.elapsed >= f.duration {
		d.pos = f.toPos
		if f.hasLook {
			d.look = f.toLook
		}
		d.active = nil
		if f.onComplete != nil {
			f.onComplete()
		}
		return
	}

	k := common.EaseInOutCubic(float64(f.elapsed) / float64(f.duration))
	d.pos = common.LerpVec3(f.fromPos, f.toPos, k)
	if f.hasLook {
		d.look = common.LerpVec3(f.fromLook, f.toLook, k)
	}
}

// ClearLookAt stops orientation tracking. Tracking otherwise stays on after a
// move completes.
func (d *Director) ClearLookAt() {
	if d == nil {
		return
	}
	d.tracking = false
}

// Jump places the camera without animating and abandons any move in flight.
func (d *Director) Jump(position common.Vec3) {
	if d == nil {
		return
	}
	d.active = nil
	d.pos = position
}

func (d *Director) Busy() bool {
	return d != nil && d.active != nil
}

func (d *Director) Pose() Pose {
	if d == nil {
		return Pose{}
	}
	return Pose{Position: d.pos, LookAt: d.look, Tracking: d.tracking}
}
