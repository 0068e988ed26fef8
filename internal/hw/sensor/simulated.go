package sensor

import (
	"math/rand"
	"time"
)

const (
	defaultSimInterval    = 5 * time.Second
	defaultSimProbability = 0.9
)

// Simulated is a motion sensor for development and testing. It reports
// motion at most once per interval: once the interval has elapsed since
// the last detection, each poll detects motion with the configured
// probability. Interval and seed give tests full control over triggers.
type Simulated struct {
	interval    time.Duration
	probability float64
	rng         *rand.Rand
	lastMotion  time.Time
	now         func() time.Time
}

// NewSimulated creates a simulated sensor. Non-positive interval or an
// out-of-range probability fall back to the defaults (5s, 0.9).
func NewSimulated(interval time.Duration, probability float64, seed int64) *Simulated {
	if interval <= 0 {
		interval = defaultSimInterval
	}
	if probability <= 0 || probability > 1 {
		probability = defaultSimProbability
	}
	s := &Simulated{
		interval:    interval,
		probability: probability,
		rng:         rand.New(rand.NewSource(seed)),
		now:         time.Now,
	}
	s.lastMotion = s.now()
	return s
}

func (s *Simulated) CheckMotion() bool {
	current := s.now()
	if current.Sub(s.lastMotion) <= s.interval {
		return false
	}
	if s.rng.Float64() < s.probability {
		s.lastMotion = current
		return true
	}
	return false
}

func (s *Simulated) Close() error { return nil }
