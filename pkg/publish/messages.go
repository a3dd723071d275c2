// Package publish turns estimator results into the messages downstream
// listeners consume and fans them out.
package publish

import (
	"time"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/angle"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
)

const (
	TopicTwist          = "twist_stamped"
	TopicOdometry       = "odometry"
	TopicCustomOdometry = "custom_odometry"

	FrameOdom     = "odom"
	FrameBaseLink = "base_link"
	FrameTwist    = "twist_stamped"
)

type Header struct {
	Stamp   time.Time `json:"stamp"`
	FrameID string    `json:"frame_id"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

type TwistStamped struct {
	Header Header `json:"header"`
	Twist  Twist  `json:"twist"`
}

type PoseWithHeading struct {
	Position    Vector3          `json:"position"`
	Orientation angle.Quaternion `json:"orientation"`
	// Heading is the unwrapped yaw the orientation was built from.
	Heading float64 `json:"heading"`
}

type Odometry struct {
	Header       Header          `json:"header"`
	ChildFrameID string          `json:"child_frame_id"`
	Pose         PoseWithHeading `json:"pose"`
	Twist        Twist           `json:"twist"`
}

type CustomOdometry struct {
	Odom   Odometry `json:"odom"`
	Method string   `json:"method"`
}

// Message is one thing to publish on one topic.
type Message struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

// FromResult builds the three messages published after each update.
func FromResult(r odometry.Result) []Message {
	twist := Twist{
		Linear:  Vector3{X: r.Velocity.Linear},
		Angular: Vector3{Z: r.Velocity.Angular},
	}
	odom := Odometry{
		Header:       Header{Stamp: r.Stamp, FrameID: FrameOdom},
		ChildFrameID: FrameBaseLink,
		Pose: PoseWithHeading{
			Position:    Vector3{X: r.Pose.X, Y: r.Pose.Y},
			Orientation: angle.QuaternionFromYaw(r.Pose.Theta),
			Heading:     r.Pose.Theta,
		},
		Twist: twist,
	}
	return []Message{
		{Topic: TopicTwist, Data: TwistStamped{
			Header: Header{Stamp: r.Stamp, FrameID: FrameTwist},
			Twist:  twist,
		}},
		{Topic: TopicOdometry, Data: odom},
		{Topic: TopicCustomOdometry, Data: CustomOdometry{
			Odom:   odom,
			Method: r.Mode.String(),
		}},
	}
}
