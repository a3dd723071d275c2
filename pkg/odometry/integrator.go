package odometry

import (
	"math"
	"sync"
	"time"

	"github.com/quartercastle/vector"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/kinematics"
)

// Pose is a position in the odom frame (metres) and a heading in radians.
// Heading is not wrapped; it accumulates across full turns.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Integrator dead-reckons a Pose from a stream of body velocities.  Advance
// and the reset methods are safe to call from different goroutines; each one
// is applied in full before the next begins.
type Integrator struct {
	lock sync.Mutex
	state
}

type state struct {
	pose Pose

	haveBaseline bool
	lastStamp    time.Time
}

func NewIntegrator(seed Pose) *Integrator {
	return &Integrator{
		state: state{pose: seed},
	}
}

// Advance moves the pose on to stamp, assuming v was constant since the
// previous call.  The first call only records the baseline stamp.  A stamp at
// or before the previous one is a zero-length step.
func (i *Integrator) Advance(v kinematics.BodyVelocity, stamp time.Time, mode Mode) Pose {
	i.lock.Lock()
	defer i.lock.Unlock()

	var dt float64
	if i.haveBaseline {
		dt = math.Max(stamp.Sub(i.lastStamp).Seconds(), 0)
	}

	i.pose = step(i.pose, v, dt, mode)
	if !i.haveBaseline || dt > 0 {
		i.lastStamp = stamp
	}
	i.haveBaseline = true
	return i.pose
}

func step(p Pose, v kinematics.BodyVelocity, dt float64, mode Mode) Pose {
	if dt == 0 {
		return p
	}
	rotation := v.Angular * dt

	heading := p.Theta
	if mode == Midpoint {
		heading += rotation / 2
	}

	pos := vector.Vector{p.X, p.Y}.Add(
		vector.Vector{math.Cos(heading), math.Sin(heading)}.Scale(v.Linear * dt))

	return Pose{
		X:     pos[0],
		Y:     pos[1],
		Theta: p.Theta + rotation,
	}
}

func (i *Integrator) Pose() Pose {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.pose
}

// ResetToOrigin zeroes the position and keeps the heading.
func (i *Integrator) ResetToOrigin() {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.pose.X = 0
	i.pose.Y = 0
}

// ResetToPose overwrites the whole pose.
func (i *Integrator) ResetToPose(x, y, theta float64) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.pose = Pose{X: x, Y: y, Theta: theta}
}
