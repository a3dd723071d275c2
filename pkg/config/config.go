// Package config loads the odometry node's settings from a YAML file, with
// environment variable overrides for the deployment-specific bits.
package config

import (
	"io/ioutil"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/chassis"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
)

const DefaultPath = "/cfg/odometry.yaml"

type Source struct {
	Device    string `yaml:"device" env:"ODOM_SERIAL"`
	BaudRate  int    `yaml:"baud_rate" env:"ODOM_BAUD"`
	QueueSize int    `yaml:"queue_size"`
}

type Sounds struct {
	Reset      string `yaml:"reset"`
	ModeSwitch string `yaml:"mode_switch"`
}

type Config struct {
	// InitialPose is [x, y, theta]; empty means start at the origin.
	InitialPose       []float64 `yaml:"initial_pose"`
	IntegrationMethod string    `yaml:"integration_method"`

	Chassis chassis.Params `yaml:"chassis"`
	Source  Source         `yaml:"source"`

	Listen         string `yaml:"listen" env:"ODOM_LISTEN"`
	ScreenDevice   string `yaml:"screen_device"`
	JoystickDevice string `yaml:"joystick_device" env:"JOYSTICK_DEVICE"`
	Sounds         Sounds `yaml:"sounds"`
	LogLevel       string `yaml:"log_level" env:"ODOM_LOG_LEVEL"`
}

func Default() Config {
	return Config{
		IntegrationMethod: "euler",
		Chassis:           chassis.Default(),
		Source: Source{
			Device:    "/dev/ttyACM0",
			BaudRate:  115200,
			QueueSize: 10,
		},
		Listen:   ":8080",
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides.  A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := ioutil.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse %s", path)
		}
	} else {
		log.WithFields(log.Fields{
			"path":  path,
			"error": err,
		}).Warn("No config file, using defaults")
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse environment")
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if n := len(c.InitialPose); n != 0 && n != 3 {
		return errors.Errorf("initial_pose must be [x, y, theta], got %d values", n)
	}
	if err := c.Chassis.Validate(); err != nil {
		return err
	}
	if c.Source.QueueSize < 1 {
		return errors.Errorf("source.queue_size must be at least 1, got %d", c.Source.QueueSize)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "bad log_level")
	}
	return nil
}

// Seed returns the pose the integrator should start from.
func (c Config) Seed() odometry.Pose {
	if len(c.InitialPose) != 3 {
		return odometry.Pose{}
	}
	return odometry.Pose{
		X:     c.InitialPose[0],
		Y:     c.InitialPose[1],
		Theta: c.InitialPose[2],
	}
}

// Mode returns the configured integration mode, or Euler if it is not
// recognised.
func (c Config) Mode() odometry.Mode {
	m, ok := odometry.ParseMode(c.IntegrationMethod)
	if !ok {
		return odometry.Euler
	}
	return m
}

func (c Config) Level() log.Level {
	l, err := log.ParseLevel(strings.TrimSpace(c.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return l
}
