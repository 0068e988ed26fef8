package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SensorConfig selects and tunes the motion sensor.
// Type selects a concrete implementation ("pir" or "simulated").
type SensorConfig struct {
	Type           string  `yaml:"type"`            // "pir" or "simulated"
	Pin            int     `yaml:"pin"`             // GPIO pin (BCM) for the PIR data line
	SimIntervalS   float64 `yaml:"sim_interval_s"`  // simulated: minimum seconds between triggers
	SimProbability float64 `yaml:"sim_probability"` // simulated: detection chance once the interval elapsed
	SimSeed        int64   `yaml:"sim_seed"`        // simulated: RNG seed (0 = time-based)
}

// CameraConfig selects and tunes the camera backend.
// Type selects a concrete implementation ("webcam", "picam" or "mock").
type CameraConfig struct {
	Type     string `yaml:"type"`      // "webcam", "picam" or "mock"
	Device   string `yaml:"device"`    // V4L2 device node for the webcam backend
	WidthPx  int    `yaml:"width_px"`  // requested frame width
	HeightPx int    `yaml:"height_px"` // requested frame height
	FPS      int    `yaml:"fps"`       // fixed target frame rate (webcam backend)
	WarmupMs int    `yaml:"warmup_ms"` // exposure settle time after open
}

// ClassifierConfig tunes the bird classifier.
type ClassifierConfig struct {
	ScorerURL        string `yaml:"scorer_url"`        // inference endpoint for the opaque scorer
	TargetCategories []int  `yaml:"target_categories"` // vocabulary indices counted as birds (empty = defaults)
	ThumbnailPx      int    `yaml:"thumbnail_px"`      // evidence thumbnail longer dimension
	TimeoutMs        int    `yaml:"timeout_ms"`        // scorer request timeout
}

// LogConfig controls process-wide logging.
type LogConfig struct {
	File  string `yaml:"file"`  // log file path; empty = console only
	Level string `yaml:"level"` // logrus level name, default "info"
}

// Config aggregates all application configuration.
type Config struct {
	DataDir        string           `yaml:"data_dir"`         // base directory for event artifacts
	PollIntervalMs int              `yaml:"poll_interval_ms"` // sensor poll cadence
	ClipDurationS  float64          `yaml:"clip_duration_s"`  // video length after a positive decision
	Sensor         SensorConfig     `yaml:"sensor"`
	Camera         CameraConfig     `yaml:"camera"`
	Classifier     ClassifierConfig `yaml:"classifier"`
	Log            LogConfig        `yaml:"log"`
	MockGPIO       bool             `yaml:"mock_gpio"` // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if cfg.Sensor.Type == "" {
		return nil, fmt.Errorf("sensor.type is required")
	}
	if cfg.Camera.Type == "" {
		return nil, fmt.Errorf("camera.type is required")
	}
	if cfg.Sensor.SimProbability < 0 || cfg.Sensor.SimProbability > 1 {
		return nil, fmt.Errorf("sensor.sim_probability must be between 0 and 1, got %.2f", cfg.Sensor.SimProbability)
	}
	if cfg.ClipDurationS < 0 {
		return nil, fmt.Errorf("clip_duration_s must be >= 0, got %.2f", cfg.ClipDurationS)
	}
	if cfg.PollIntervalMs < 0 {
		return nil, fmt.Errorf("poll_interval_ms must be >= 0, got %d", cfg.PollIntervalMs)
	}

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.PollIntervalMs == 0 {
		cfg.PollIntervalMs = 1000 // poll the sensor once per second
	}
	if cfg.ClipDurationS == 0 {
		cfg.ClipDurationS = 3
	}
	if cfg.Sensor.SimIntervalS == 0 {
		cfg.Sensor.SimIntervalS = 5
	}
	if cfg.Sensor.SimProbability == 0 {
		cfg.Sensor.SimProbability = 0.9
	}
	if cfg.Camera.Device == "" {
		cfg.Camera.Device = "/dev/video0"
	}
	if cfg.Camera.WidthPx == 0 {
		cfg.Camera.WidthPx = 1920
	}
	if cfg.Camera.HeightPx == 0 {
		cfg.Camera.HeightPx = 1080
	}
	if cfg.Camera.FPS <= 0 {
		cfg.Camera.FPS = 30
	}
	if cfg.Camera.WarmupMs == 0 {
		cfg.Camera.WarmupMs = 500
	}
	if cfg.Classifier.ThumbnailPx == 0 {
		cfg.Classifier.ThumbnailPx = 224
	}
	if cfg.Classifier.TimeoutMs == 0 {
		cfg.Classifier.TimeoutMs = 30000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

// PollInterval returns the sensor poll cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// ClipDuration returns the video clip length.
func (c *Config) ClipDuration() time.Duration {
	return time.Duration(c.ClipDurationS * float64(time.Second))
}

// SimInterval returns the simulated sensor's minimum trigger interval.
func (c *Config) SimInterval() time.Duration {
	return time.Duration(c.Sensor.SimIntervalS * float64(time.Second))
}

// CameraWarmup returns the exposure settle time after opening the camera.
func (c *Config) CameraWarmup() time.Duration {
	return time.Duration(c.Camera.WarmupMs) * time.Millisecond
}

// ScorerTimeout returns the classifier request timeout.
func (c *Config) ScorerTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutMs) * time.Millisecond
}
