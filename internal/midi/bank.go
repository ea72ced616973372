// Package midi turns actuator commands into MIDI note messages. The platform packages under it
// provide the Output a Bank writes to.
package midi

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"go.uber.org/multierr"
)

// MIDI status bytes used by the bank.
const (
	NoteOff byte = 0x80
	NoteOn  byte = 0x90
)

// Error definitions for MIDI mapping and device selection.
var (
	ErrNoMIDIDevices  = errors.New("no MIDI output devices found")
	ErrDeviceNotFound = errors.New("MIDI output device not found")
	ErrInvalidMapping = errors.New("invalid MIDI mapping")
)

// Output is an open MIDI output port.
type Output interface {
	Send(msg []byte) error
	Close() error
}

// Mapping assigns a note to every actuator.
type Mapping struct {
	Channel  uint8   // 0-15.
	Velocity uint8   // 1-127.
	Keys     []uint8 // One key per actuator, 0-127.
}

// Validate checks the mapping ranges.
func (m Mapping) Validate() error {
	if m.Channel > 15 {
		return fmt.Errorf("%w: channel %d", ErrInvalidMapping, m.Channel)
	}
	if m.Velocity == 0 || m.Velocity > 127 {
		return fmt.Errorf("%w: velocity %d", ErrInvalidMapping, m.Velocity)
	}
	if len(m.Keys) == 0 {
		return fmt.Errorf("%w: no keys", ErrInvalidMapping)
	}
	for i, k := range m.Keys {
		if k > 127 {
			return fmt.Errorf("%w: key %d for actuator %d", ErrInvalidMapping, k, i)
		}
	}
	return nil
}

// Bank holds the note state of every mapped actuator and sends only transitions: Advance on a
// silent key sends note on, Reset on a sounding key sends note off.
type Bank struct {
	out      Output
	mapping  Mapping
	logger   contracts.Logger
	on       []bool
	failures uint64
}

// NewBank maps actuators to keys on out. The mapping must be valid.
func NewBank(out Output, mapping Mapping, logger contracts.Logger) (*Bank, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	return &Bank{
		out:     out,
		mapping: mapping,
		logger:  logger,
		on:      make([]bool, len(mapping.Keys)),
	}, nil
}

// Actuators returns one handle per mapped key.
func (b *Bank) Actuators() []contracts.Actuator {
	out := make([]contracts.Actuator, len(b.on))
	for i := range b.on {
		out[i] = key{bank: b, id: i}
	}
	return out
}

// Failures returns how many sends failed.
func (b *Bank) Failures() uint64 {
	return b.failures
}

// Close releases every sounding key and closes the output.
func (b *Bank) Close() error {
	var err error
	for i, on := range b.on {
		if on {
			err = multierr.Append(err, b.out.Send(b.message(i, false)))
			b.on[i] = false
		}
	}
	return multierr.Append(err, b.out.Close())
}

func (b *Bank) set(id int, on bool) {
	if b.on[id] == on {
		return
	}
	if err := b.out.Send(b.message(id, on)); err != nil {
		b.failures++
		if b.failures == 1 {
			b.logger.Error("MIDI send failed",
				b.logger.Field().Int("actuator", id),
				b.logger.Field().Uint8("key", b.mapping.Keys[id]),
				b.logger.Field().Error("error", err))
		}
		return
	}
	b.on[id] = on
}

func (b *Bank) message(id int, on bool) []byte {
	if on {
		return []byte{NoteOn | b.mapping.Channel, b.mapping.Keys[id], b.mapping.Velocity}
	}
	return []byte{NoteOff | b.mapping.Channel, b.mapping.Keys[id], 0}
}

type key struct {
	bank *Bank
	id   int
}

func (k key) Advance() { k.bank.set(k.id, true) }
func (k key) Reset()   { k.bank.set(k.id, false) }
