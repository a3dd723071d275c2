package config

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/chassis"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "odometry.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0666))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, odometry.Pose{}, cfg.Seed())
	assert.Equal(t, odometry.Euler, cfg.Mode())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
initial_pose: [1.5, -2, 0.25]
integration_method: 1
chassis:
  gear_ratio: 0.02615575
  rpm_to_rads: 0.104719755
  wheel_radius_m: 0.1575
  apparent_baseline_m: 0.9
source:
  device: /dev/ttyUSB1
  baud_rate: 57600
  queue_size: 4
listen: ":9000"
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, odometry.Pose{X: 1.5, Y: -2, Theta: 0.25}, cfg.Seed())
	assert.Equal(t, odometry.Midpoint, cfg.Mode())
	assert.Equal(t, 0.9, cfg.Chassis.ApparentBaselineM)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Source.Device)
	assert.Equal(t, 57600, cfg.Source.BaudRate)
	assert.Equal(t, 4, cfg.Source.QueueSize)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, log.DebugLevel, cfg.Level())
}

func TestPartialChassisKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "chassis:\n  apparent_baseline_m: 1.1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.1, cfg.Chassis.ApparentBaselineM)
	assert.Equal(t, chassis.GearRatio, cfg.Chassis.GearRatio)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("ODOM_SERIAL", "-")
	t.Setenv("ODOM_LISTEN", ":7777")
	cfg, err := Load(writeConfig(t, "listen: \":9000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "-", cfg.Source.Device)
	assert.Equal(t, ":7777", cfg.Listen)
}

func TestUnknownMethodFallsBackToEuler(t *testing.T) {
	cfg, err := Load(writeConfig(t, "integration_method: verlet\n"))
	require.NoError(t, err)
	assert.Equal(t, odometry.Euler, cfg.Mode())
}

func TestValidation(t *testing.T) {
	for _, body := range []string{
		"initial_pose: [1, 2]\n",
		"chassis:\n  apparent_baseline_m: 0\n",
		"source:\n  queue_size: 0\n",
		"log_level: chatty\n",
		"initial_pose: {x: 1}\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}

func TestWatchReportsModeChanges(t *testing.T) {
	path := writeConfig(t, "integration_method: euler\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lock sync.Mutex
	var seen []odometry.Mode
	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, path, 5*time.Millisecond, func(m odometry.Mode) {
			lock.Lock()
			seen = append(seen, m)
			lock.Unlock()
		})
	}()

	modes := func() []odometry.Mode {
		lock.Lock()
		defer lock.Unlock()
		return append([]odometry.Mode(nil), seen...)
	}

	// Garbage is ignored, a valid change is reported.
	require.NoError(t, ioutil.WriteFile(path, []byte("integration_method: 7\n"), 0666))
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, modes())

	require.NoError(t, ioutil.WriteFile(path, []byte("integration_method: rk\n"), 0666))
	assert.Eventually(t, func() bool { return len(modes()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []odometry.Mode{odometry.Midpoint}, modes())

	require.NoError(t, os.Remove(path))
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done
	assert.Len(t, modes(), 1)
}
