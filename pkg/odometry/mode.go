package odometry

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Mode picks the numerical scheme used to integrate the pose.
type Mode int32

const (
	Euler Mode = iota
	// Midpoint evaluates the position step at the heading half way through
	// the rotation, i.e. second-order Runge-Kutta.
	Midpoint
)

func (m Mode) Valid() bool {
	return m == Euler || m == Midpoint
}

// String returns the name published alongside the odometry.
func (m Mode) String() string {
	switch m {
	case Euler:
		return "euler"
	case Midpoint:
		return "rk"
	default:
		return fmt.Sprintf("unknown(%d)", int32(m))
	}
}

// ParseMode accepts the numeric form ("0", "1") or a scheme name.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "euler":
		return Euler, true
	case "rk", "midpoint", "runge-kutta":
		return Midpoint, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Mode(n).Valid() {
		return Euler, false
	}
	return Mode(n), true
}

// ModeSelector holds the active Mode.  It can be changed from any goroutine
// while updates are running.
type ModeSelector struct {
	mode atomic.Int32
}

func NewModeSelector(initial Mode) *ModeSelector {
	s := &ModeSelector{}
	s.Set(initial)
	return s
}

// Set switches to m.  Anything other than a known Mode is ignored.
func (s *ModeSelector) Set(m Mode) {
	if !m.Valid() {
		return
	}
	s.mode.Store(int32(m))
}

func (s *ModeSelector) Get() Mode {
	return Mode(s.mode.Load())
}

// Toggle flips between Euler and Midpoint and returns the new mode.
func (s *ModeSelector) Toggle() Mode {
	for {
		old := s.mode.Load()
		next := int32(Midpoint)
		if Mode(old) == Midpoint {
			next = int32(Euler)
		}
		if s.mode.CompareAndSwap(old, next) {
			return Mode(next)
		}
	}
}
