package config

import (
	"bytes"
	"context"
	"io/ioutil"
	"time"

	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
)

// liveSettings are the fields that may be changed while running.
type liveSettings struct {
	IntegrationMethod *string `yaml:"integration_method"`
}

// Watch polls the file at path and calls onMode whenever it changes and
// contains an integration_method.  Values that do not parse are dropped
// without comment; so is a file that fails to read or parse.
func Watch(ctx context.Context, path string, interval time.Duration, onMode func(odometry.Mode)) {
	last, _ := ioutil.ReadFile(path)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		data, err := ioutil.ReadFile(path)
		if err != nil || bytes.Equal(data, last) {
			continue
		}
		last = data

		var live liveSettings
		if err := yaml.Unmarshal(data, &live); err != nil || live.IntegrationMethod == nil {
			continue
		}
		m, ok := odometry.ParseMode(*live.IntegrationMethod)
		if !ok {
			continue
		}
		log.WithField("method", m).Info("Config changed")
		onMode(m)
	}
}
