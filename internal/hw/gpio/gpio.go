package gpio

import (
	"github.com/sirupsen/logrus"
)

// Level represents the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// PinMode indicates whether a GPIO is input or output.
type PinMode int

const (
	Input PinMode = iota
	Output
)

// Driver defines the abstract interface for controlling GPIOs.
// This allows plugging in a real Raspberry Pi implementation
// or a mock for development on PC.
type Driver interface {
	SetupPin(pin int, mode PinMode) error
	WritePin(pin int, level Level) error
	ReadPin(pin int) (Level, error)
	Close() error
}

// MockDriver is a test implementation that logs actions and serves
// scripted input levels. Used for development on PC or testing.
type MockDriver struct {
	inputs map[int]Level
}

// NewDriver creates a GPIO driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool) (Driver, error) {
	if mock {
		logrus.Info("Using MOCK GPIO driver (development mode)")
		return NewMockDriver(), nil
	}
	return NewRPiRealDriver()
}

func NewMockDriver() *MockDriver {
	return &MockDriver{inputs: make(map[int]Level)}
}

// SetInput scripts the level that subsequent ReadPin calls will return.
func (m *MockDriver) SetInput(pin int, level Level) {
	m.inputs[pin] = level
}

func (m *MockDriver) SetupPin(pin int, mode PinMode) error {
	logrus.Tracef("gpio: SetupPin pin=%d mode=%d (mock)", pin, mode)
	return nil
}

func (m *MockDriver) WritePin(pin int, level Level) error {
	logrus.Tracef("gpio: WritePin pin=%d level=%v (mock)", pin, level)
	return nil
}

func (m *MockDriver) ReadPin(pin int) (Level, error) {
	return m.inputs[pin], nil
}

func (m *MockDriver) Close() error {
	logrus.Trace("gpio: Close (mock)")
	return nil
}
