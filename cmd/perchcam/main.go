package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"perchcam/internal/classify"
	"perchcam/internal/config"
	"perchcam/internal/hw/camera"
	"perchcam/internal/hw/gpio"
	"perchcam/internal/hw/sensor"
	"perchcam/internal/logging"
	"perchcam/internal/pipeline"
	"perchcam/internal/storage"
)

type options struct {
	TestImage string `short:"t" long:"test-image" description:"path to a test image to process instead of using the camera"`
	Config    string `short:"c" long:"config" default:"configs/default.yaml" description:"path to config file"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		logrus.WithError(err).Fatal("Loading configuration failed")
	}
	if err := logging.Init(cfg.Log); err != nil {
		logrus.WithError(err).Fatal("Initializing logging failed")
	}

	logrus.Info("Initializing perchcam device...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gpioDriver, err := gpio.NewDriver(cfg.MockGPIO)
	if err != nil {
		logrus.WithError(err).Fatal("Initializing GPIO failed")
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			logrus.WithError(err).Error("Closing GPIO driver failed")
		}
	}()

	sen, err := newSensorFromConfig(gpioDriver, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Initializing motion sensor failed")
	}
	defer func() {
		if err := sen.Close(); err != nil {
			logrus.WithError(err).Error("Closing motion sensor failed")
		}
	}()

	cam, err := newCameraFromConfig(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Initializing camera failed")
	}
	defer func() {
		if err := cam.Close(); err != nil {
			logrus.WithError(err).Error("Closing camera failed")
		}
	}()

	scorer := classify.NewHTTPScorer(cfg.Classifier.ScorerURL, cfg.ScorerTimeout())
	classifier := classify.NewCategoryClassifier(scorer, cfg.Classifier.TargetCategories, cfg.Classifier.ThumbnailPx)

	// Cloud integrations are disabled; records go to the no-op sink until
	// a real uploader is wired in.
	var sink storage.ArtifactSink = storage.NopSink{}

	pipe := pipeline.New(cam, classifier, sink, cfg.DataDir, cfg.ClipDuration())
	monitor := pipeline.NewMonitor(sen, pipe, cfg.PollInterval())

	logrus.Info("Starting perchcam device...")

	if opts.TestImage != "" {
		res, err := monitor.RunSingle(ctx, opts.TestImage)
		if err != nil {
			logrus.WithError(err).Fatal("Single-shot run failed")
		}
		logrus.WithField("detected", res.Detected).Info("Single-shot run complete")
		return
	}

	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Fatal("Monitoring loop failed")
	}
}

// newSensorFromConfig selects a motion sensor implementation based on
// configuration.
func newSensorFromConfig(driver gpio.Driver, cfg *config.Config) (sensor.Sensor, error) {
	switch cfg.Sensor.Type {
	case "pir":
		return sensor.NewPIR(driver, cfg.Sensor.Pin)
	case "simulated":
		seed := cfg.Sensor.SimSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return sensor.NewSimulated(cfg.SimInterval(), cfg.Sensor.SimProbability, seed), nil
	default:
		return nil, fmt.Errorf("unsupported sensor type: %s", cfg.Sensor.Type)
	}
}

// newCameraFromConfig selects a camera implementation based on
// configuration.
func newCameraFromConfig(cfg *config.Config) (camera.Camera, error) {
	switch cfg.Camera.Type {
	case "webcam":
		return camera.NewWebcam(cfg.Camera.Device, cfg.Camera.WidthPx, cfg.Camera.HeightPx, cfg.Camera.FPS, cfg.CameraWarmup())
	case "picam":
		return camera.NewPiCamera(cfg.Camera.WidthPx, cfg.Camera.HeightPx)
	case "mock":
		return camera.NewMockCamera(cfg.Camera.WidthPx, cfg.Camera.HeightPx, cfg.Camera.FPS), nil
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", cfg.Camera.Type)
	}
}
