package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/config"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/console"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/kinematics"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/motorspeed"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/publish"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/screen"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/service"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/sound"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/wheelsync"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.WithField("GOMAXPROCS", runtime.GOMAXPROCS(0)).Info("---- Odometry ----")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Bad config")
	}
	log.SetLevel(cfg.Level())

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registerSignalHandlers(cancel)

	seed := cfg.Seed()
	modes := odometry.NewModeSelector(cfg.Mode())
	integrator := odometry.NewIntegrator(seed)
	estimator := odometry.NewEstimator(kinematics.NewModel(cfg.Chassis), integrator, modes)
	log.WithFields(log.Fields{
		"seed":    seed,
		"method":  modes.Get(),
		"chassis": cfg.Chassis,
	}).Info("Estimator ready")

	broker := publish.NewBroker()
	go broker.CloseWhenDone(ctx)

	sounds := sound.New()
	defer sounds.Close()

	go config.Watch(ctx, *configPath, time.Second, modes.Set)

	if cfg.ScreenDevice != "" {
		go screen.LoopUpdatingScreen(ctx, cfg.ScreenDevice, broker.Subscribe("screen"))
	}

	if cfg.JoystickDevice != "" {
		pad := &console.Console{
			Resets:       integrator,
			Modes:        modes,
			OnReset:      func() { sounds.Play(cfg.Sounds.Reset) },
			OnModeSwitch: func(odometry.Mode) { sounds.Play(cfg.Sounds.ModeSwitch) },
		}
		go loopReadingJoystick(ctx, cfg.JoystickDevice, pad)
	}

	svc := &service.Server{
		Resets: integrator,
		Modes:  modes,
		Latest: broker,
		Stream: publish.NewRoom(broker),
		OnAck:  func(string) { sounds.Play(cfg.Sounds.Reset) },
	}
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: svc.Handler(),
	}
	go func() {
		log.WithField("addr", cfg.Listen).Info("Listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			cancel()
		}
	}()

	samples := make(chan odometry.Sample, cfg.Source.QueueSize)
	go func() {
		defer close(samples)
		syncer := wheelsync.New(cfg.Source.QueueSize)
		reader := motorspeed.NewReader(cfg.Source.Device, cfg.Source.BaudRate)
		log.WithField("device", cfg.Source.Device).Info("Reading motor speeds")
		reader.Loop(ctx, func(r motorspeed.Reading) {
			if s, ok := syncer.Add(r); ok {
				select {
				case samples <- s:
				case <-ctx.Done():
				}
			}
		})
		log.WithField("dropped", syncer.Dropped()).Info("Motor speed reader finished")
	}()

	watchdog := time.NewTicker(5 * time.Second)
	defer watchdog.Stop()
	cycles := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("Context done, shutting down")
			shutdown(httpServer)
			return
		case s, ok := <-samples:
			if !ok {
				log.Info("Input finished, shutting down")
				cancel()
				shutdown(httpServer)
				return
			}
			r := estimator.Update(s)
			broker.Publish(publish.FromResult(r)...)
			cycles++
			log.WithFields(log.Fields{
				"stamp":   r.Stamp,
				"linear":  r.Velocity.Linear,
				"angular": r.Velocity.Angular,
				"pose":    r.Pose,
				"method":  r.Mode,
			}).Debug("Odometry")
		case <-watchdog.C:
			log.WithFields(log.Fields{
				"cycles": cycles,
				"pose":   integrator.Pose(),
				"method": modes.Get(),
			}).Info("Main loop still running")
		}
	}
}

func shutdown(s *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("HTTP shutdown")
	}
}

func loopReadingJoystick(ctx context.Context, device string, pad *console.Console) {
	firstLog := true
	for ctx.Err() == nil {
		j, err := joystick.Open(device)
		if err != nil {
			if firstLog {
				log.WithError(err).Info("Waiting for joystick")
				firstLog = false
			}
			time.Sleep(1 * time.Second)
			continue
		}
		log.WithField("device", device).Info("Opened joystick")
		firstLog = true
		err = j.Loop(ctx, pad.OnJoystickEvent)
		_ = j.Close()
		if ctx.Err() == nil {
			log.WithError(err).Warn("Joystick failed")
		}
	}
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.WithField("signal", s).Info("Signal")
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
