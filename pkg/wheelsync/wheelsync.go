// Package wheelsync pairs up the four per-wheel motor speed streams into
// samples where all four speeds share one timestamp.
package wheelsync

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/kinematics"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/motorspeed"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
)

type pending struct {
	stamp time.Time
	have  [motorspeed.NumWheels]bool
	rpm   [motorspeed.NumWheels]float64
}

func (p *pending) complete() bool {
	for _, h := range p.have {
		if !h {
			return false
		}
	}
	return true
}

// Synchronizer matches readings on exact timestamp.  It is not safe for
// concurrent use; feed it from one goroutine.
type Synchronizer struct {
	queueSize int
	// Ordered by stamp, oldest first.
	queue []*pending

	lastEmitted time.Time
	dropped     int
}

func New(queueSize int) *Synchronizer {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Synchronizer{queueSize: queueSize}
}

// Add records r and returns a sample if r completed a set of four.  Any
// incomplete sets older than the emitted one are discarded, as are readings
// at or before the last emitted stamp.
func (s *Synchronizer) Add(r motorspeed.Reading) (odometry.Sample, bool) {
	if r.Wheel >= motorspeed.NumWheels {
		return odometry.Sample{}, false
	}
	if !s.lastEmitted.IsZero() && !r.Stamp.After(s.lastEmitted) {
		s.dropped++
		return odometry.Sample{}, false
	}

	idx, found := slices.BinarySearchFunc(s.queue, r.Stamp, func(p *pending, t time.Time) int {
		return p.stamp.Compare(t)
	})
	if !found {
		s.queue = slices.Insert(s.queue, idx, &pending{stamp: r.Stamp})
		if len(s.queue) > s.queueSize {
			s.queue = slices.Delete(s.queue, 0, 1)
			s.dropped++
			idx--
			if idx < 0 {
				// The new stamp was the oldest and got evicted straight away.
				return odometry.Sample{}, false
			}
		}
	}

	p := s.queue[idx]
	p.have[r.Wheel] = true
	p.rpm[r.Wheel] = r.RPM
	if !p.complete() {
		return odometry.Sample{}, false
	}

	s.dropped += idx
	s.queue = slices.Delete(s.queue, 0, idx+1)
	s.lastEmitted = p.stamp

	return odometry.Sample{
		Stamp: p.stamp,
		Speeds: kinematics.WheelSpeeds{
			FrontLeft:  p.rpm[motorspeed.FrontLeft],
			FrontRight: p.rpm[motorspeed.FrontRight],
			RearLeft:   p.rpm[motorspeed.RearLeft],
			RearRight:  p.rpm[motorspeed.RearRight],
		},
	}, true
}

// Pending is the number of stamps still waiting for readings.
func (s *Synchronizer) Pending() int {
	return len(s.queue)
}

// Dropped counts the stamps and readings thrown away so far.
func (s *Synchronizer) Dropped() int {
	return s.dropped
}
