//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/motorsong/internal/midi"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for CoreMIDI output handling.
var (
	ErrCreateClient     = errors.New("error creating CoreMIDI client")
	ErrCreateOutputPort = errors.New("error creating output port")
	ErrClosed           = errors.New("MIDI output closed")
)

// Output sends note messages to one CoreMIDI destination.
type Output struct {
	logger contracts.Logger
	client coremidi.Client      // CoreMIDI client owning the port.
	port   coremidi.OutputPort  // Output port packets are sent through.
	dest   coremidi.Destination // Selected destination.
	mu     sync.Mutex           // Guards closed; Send and Close may run on different goroutines.
	closed bool
}

// ListDevices returns every CoreMIDI destination.
func ListDevices(options *midi.OutputOptions) ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if len(destinations) == 0 {
		options.Logger.Warn(midi.ErrNoMIDIDevices.Error())
		return nil, midi.ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, d := range destinations {
		entity := d.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         d.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// NewOutput creates a CoreMIDI client and an output port connected to the destination chosen by
// options.Device.
func NewOutput(options *midi.OutputOptions) (midi.Output, error) {
	devices, err := ListDevices(options)
	if err != nil {
		return nil, err
	}
	index, err := midi.SelectDevice(midi.DeviceNames(devices), options.Device)
	if err != nil {
		options.Logger.Error("MIDI destination not available", options.Logger.Field().Error("error", err))
		return nil, err
	}
	destinations, err := coremidi.AllDestinations()
	if err != nil || index >= len(destinations) {
		return nil, fmt.Errorf("%w: destinations changed while opening", midi.ErrDeviceNotFound)
	}

	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateClient, err)
	}
	port, err := coremidi.NewOutputPort(client, "Output Port")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}

	options.Logger.Info("MIDI destination selected",
		options.Logger.Field().Int("deviceID", index),
		options.Logger.Field().String("deviceName", devices[index].Name))

	return &Output{
		logger: options.Logger,
		client: client,
		port:   port,
		dest:   destinations[index],
	}, nil
}

// Send writes one message as a packet with an immediate timestamp.
func (o *Output) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	packet := coremidi.NewPacket(msg, 0)
	return packet.Send(&o.port, &o.dest)
}

// Close marks the output closed. CoreMIDI releases the port with the client on process exit.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		o.logger.Info("MIDI output closed")
	}
	return nil
}
