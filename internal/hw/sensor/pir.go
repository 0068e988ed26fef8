package sensor

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"perchcam/internal/hw"
	"perchcam/internal/hw/gpio"
)

// DefaultPIRPin is the BCM pin the PIR data line is wired to.
const DefaultPIRPin = 17

// PIR reads a passive-infrared motion sensor on a GPIO input line.
// Motion is present iff the line reads logic-high.
type PIR struct {
	driver gpio.Driver
	pin    int
}

// NewPIR configures the given pin as an input and returns the sensor.
// A setup failure is an initialization error, fatal at startup.
func NewPIR(driver gpio.Driver, pin int) (*PIR, error) {
	if pin <= 0 {
		pin = DefaultPIRPin
	}
	if err := driver.SetupPin(pin, gpio.Input); err != nil {
		return nil, &hw.InitError{
			Component: "motion sensor",
			Err:       fmt.Errorf("setup PIR pin %d: %w", pin, err),
		}
	}
	return &PIR{driver: driver, pin: pin}, nil
}

func (p *PIR) CheckMotion() bool {
	level, err := p.driver.ReadPin(p.pin)
	if err != nil {
		// A glitched read is treated as "no motion"; the next poll retries.
		logrus.WithError(err).Warnf("motion sensor: read pin %d failed", p.pin)
		return false
	}
	return level == gpio.High
}

// Close releases nothing of its own: the GPIO driver owns the pin
// reservation and resets it when the driver is closed.
func (p *PIR) Close() error { return nil }
