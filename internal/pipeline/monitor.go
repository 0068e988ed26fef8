package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"perchcam/internal/hw/sensor"
)

// DefaultPollInterval is how often the sensor is polled in continuous
// mode.
const DefaultPollInterval = 1 * time.Second

// Monitor drives the pipeline: it either polls the motion sensor at a
// fixed cadence (continuous mode) or replays one supplied image
// (single-shot mode). Events are processed strictly one at a time; the
// loop blocks for the full pipeline run, so motion during a recording
// is dropped by design.
type Monitor struct {
	sensor       sensor.Sensor
	pipeline     *Pipeline
	pollInterval time.Duration
	now          func() time.Time
}

func NewMonitor(s sensor.Sensor, p *Pipeline, pollInterval time.Duration) *Monitor {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Monitor{
		sensor:       s,
		pipeline:     p,
		pollInterval: pollInterval,
		now:          time.Now,
	}
}

// RunSingle processes exactly one supplied image and returns. Used for
// offline validation without hardware.
func (m *Monitor) RunSingle(ctx context.Context, imagePath string) (*Result, error) {
	logrus.WithField("image", imagePath).Info("Single-shot mode")
	return m.pipeline.ProcessEvent(ctx, m.now(), imagePath)
}

// Run polls the sensor once per interval and runs each triggered event
// to completion before polling again. It runs until the context is
// cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logrus.Info("Monitoring for birds...")

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Monitoring stopped")
			return ctx.Err()
		case <-ticker.C:
			if !m.sensor.CheckMotion() {
				continue
			}
			if _, err := m.pipeline.ProcessEvent(ctx, m.now(), ""); err != nil {
				// Environmental failure: the loop cannot make progress.
				return err
			}
		}
	}
}
