// wheelsim prints synthetic motor speed lines for a base driving a constant
// linear and angular velocity.  Pipe it into the odometry node with
// ODOM_SERIAL=- for bench testing.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/chassis"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/kinematics"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/motorspeed"
)

func main() {
	linear := flag.Float64("linear", 0.5, "forward speed, m/s")
	angular := flag.Float64("angular", 0.2, "yaw rate, rad/s")
	rate := flag.Float64("rate", 50, "samples per second")
	duration := flag.Duration("duration", 10*time.Second, "length of the run")
	noise := flag.Float64("noise", 0, "standard deviation of per-wheel RPM noise")
	realtime := flag.Bool("realtime", false, "pace output at the sample rate")
	flag.Parse()

	log.SetOutput(os.Stderr)
	if *rate <= 0 {
		log.Fatal("rate must be positive")
	}

	model := kinematics.NewModel(chassis.Default())
	speeds := model.WheelSpeedsFor(kinematics.BodyVelocity{Linear: *linear, Angular: *angular})
	log.WithFields(log.Fields{
		"linear":  *linear,
		"angular": *angular,
		"speeds":  fmt.Sprintf("%+v", speeds),
	}).Info("Simulating")

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	period := time.Duration(float64(time.Second) / *rate)
	start := time.Now()
	n := int(duration.Seconds() * *rate)
	for i := 0; i <= n; i++ {
		stamp := start.Add(time.Duration(i) * period)
		readings := []motorspeed.Reading{
			{Wheel: motorspeed.FrontLeft, RPM: speeds.FrontLeft},
			{Wheel: motorspeed.FrontRight, RPM: speeds.FrontRight},
			{Wheel: motorspeed.RearLeft, RPM: speeds.RearLeft},
			{Wheel: motorspeed.RearRight, RPM: speeds.RearRight},
		}
		// The controllers don't report in any fixed order.
		rand.Shuffle(len(readings), func(a, b int) { readings[a], readings[b] = readings[b], readings[a] })
		for _, r := range readings {
			r.Stamp = stamp
			r.RPM += rand.NormFloat64() * *noise
			fmt.Fprintln(out, motorspeed.FormatLine(r))
		}
		if *realtime {
			out.Flush()
			time.Sleep(time.Until(stamp.Add(period)))
		}
	}
}
