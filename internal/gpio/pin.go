// Package gpio drives actuators wired to GPIO output lines through periph.io.
package gpio

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Error definitions for GPIO setup.
var (
	ErrHostInit   = errors.New("error initializing GPIO host drivers")
	ErrUnknownPin = errors.New("unknown GPIO pin")
	ErrNoPins     = errors.New("no GPIO pins configured")
)

// Pin is an actuator on one GPIO output line. Advance drives it high, Reset drives it low.
type Pin struct {
	name     string
	out      gpio.PinOut
	logger   contracts.Logger
	failures uint64
}

// NewPin wraps an output line. It does not touch the line until the first command.
func NewPin(name string, out gpio.PinOut, logger contracts.Logger) *Pin {
	return &Pin{name: name, out: out, logger: logger}
}

// Open initializes the host drivers once and resolves every pin name through the gpioreg
// registry, e.g. "GPIO14" or "P1_8".
func Open(names []string, logger contracts.Logger) ([]*Pin, error) {
	if len(names) == 0 {
		return nil, ErrNoPins
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostInit, err)
	}

	pins := make([]*Pin, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPin, name)
		}
		logger.Info("GPIO pin resolved", logger.Field().String("pin", name), logger.Field().Int("number", p.Number()))
		pins = append(pins, NewPin(name, p, logger))
	}
	return pins, nil
}

// Advance drives the line high.
func (p *Pin) Advance() {
	p.write(gpio.High)
}

// Reset drives the line low.
func (p *Pin) Reset() {
	p.write(gpio.Low)
}

// Failures returns how many writes failed.
func (p *Pin) Failures() uint64 {
	return p.failures
}

// Name returns the pin name the actuator was opened with.
func (p *Pin) Name() string {
	return p.name
}

// Close leaves the line low.
func (p *Pin) Close() error {
	return p.out.Out(gpio.Low)
}

func (p *Pin) write(level gpio.Level) {
	if err := p.out.Out(level); err != nil {
		p.failures++
		// Only the first failure is logged; the tick loop would flood the log otherwise.
		if p.failures == 1 {
			p.logger.Error("GPIO write failed",
				p.logger.Field().String("pin", p.name),
				p.logger.Field().Error("error", err))
		}
	}
}

// Actuators converts pins to the contract slice a player expects.
func Actuators(pins []*Pin) []contracts.Actuator {
	out := make([]contracts.Actuator, len(pins))
	for i, p := range pins {
		out[i] = p
	}
	return out
}

// CloseAll drives every pin low and combines the errors.
func CloseAll(pins []*Pin) error {
	var err error
	for _, p := range pins {
		err = multierr.Append(err, p.Close())
	}
	return err
}
