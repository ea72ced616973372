// Package serialout drives actuators attached to a microcontroller over a serial line.
// Every level change is sent as one Frame; unchanged levels are not resent.
package serialout

import (
	"errors"
	"fmt"
	"io"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"go.bug.st/serial"
	"go.uber.org/multierr"
)

// Error definitions for serial setup.
var (
	ErrOpenPort  = errors.New("error opening serial port")
	ErrSlotCount = errors.New("serial link supports 1 to 256 slots")
)

// Link owns one serial port shared by up to 256 actuator slots.
type Link struct {
	name     string
	port     io.WriteCloser
	logger   contracts.Logger
	sent     []bool // Last level written per slot.
	synced   []bool // Whether sent reflects the controller's state.
	failures uint64
}

// Open opens the named serial device at the given baud rate.
func Open(name string, baud, slots int, logger contracts.Logger) (*Link, error) {
	if slots < 1 || slots > 256 {
		return nil, fmt.Errorf("%w: %d", ErrSlotCount, slots)
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenPort, name, err)
	}
	logger.Info("Serial port opened", logger.Field().String("device", name), logger.Field().Int("baud", baud))
	return NewLink(name, p, slots, logger), nil
}

// NewLink wraps an already open port.
func NewLink(name string, port io.WriteCloser, slots int, logger contracts.Logger) *Link {
	return &Link{
		name:   name,
		port:   port,
		logger: logger,
		sent:   make([]bool, slots),
		synced: make([]bool, slots),
	}
}

// Actuators returns one handle per slot.
func (l *Link) Actuators() []contracts.Actuator {
	out := make([]contracts.Actuator, len(l.sent))
	for i := range l.sent {
		out[i] = slot{link: l, id: i}
	}
	return out
}

// Failures returns how many frame writes failed.
func (l *Link) Failures() uint64 {
	return l.failures
}

// Close deasserts every slot that may still be high and closes the port.
func (l *Link) Close() error {
	var err error
	for i, high := range l.sent {
		if high || !l.synced[i] {
			if _, werr := l.port.Write(Frame{Slot: byte(i)}.Encode()); werr != nil {
				err = multierr.Append(err, werr)
			}
		}
	}
	l.logger.Info("Closing serial port", l.logger.Field().String("device", l.name))
	return multierr.Append(err, l.port.Close())
}

func (l *Link) set(id int, level bool) {
	if l.synced[id] && l.sent[id] == level {
		return
	}
	if _, err := l.port.Write(Frame{Slot: byte(id), Level: level}.Encode()); err != nil {
		l.synced[id] = false
		l.failures++
		if l.failures == 1 {
			l.logger.Error("Serial write failed",
				l.logger.Field().String("device", l.name),
				l.logger.Field().Int("slot", id),
				l.logger.Field().Error("error", err))
		}
		return
	}
	l.sent[id] = level
	l.synced[id] = true
}

type slot struct {
	link *Link
	id   int
}

func (s slot) Advance() { s.link.set(s.id, true) }
func (s slot) Reset()   { s.link.set(s.id, false) }
