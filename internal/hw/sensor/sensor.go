// Package sensor provides the motion sensor abstraction: a hardware PIR
// sensor read over GPIO, and a simulated sensor for development hosts.
package sensor

// Sensor is the high-level interface used by the monitoring loop.
// CheckMotion must never block or sleep; the poll cadence is owned by
// the caller. Close releases any OS-level handle and is safe to call
// even if the sensor never acquired one.
type Sensor interface {
	CheckMotion() bool
	Close() error
}
