// Package midiport opens MIDI outputs through gomidi's portable rtmidi driver. It serves every
// platform without a native driver in this module.
package midiport

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/motorsong/internal/midi"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ErrOpenOutput wraps driver failures when opening an output port.
var ErrOpenOutput = errors.New("error opening MIDI output port")

// Output sends messages through one gomidi output port.
type Output struct {
	logger contracts.Logger
	port   drivers.Out
	send   func(msg gomidi.Message) error
}

// ListDevices returns every output port known to the driver.
func ListDevices(options *midi.OutputOptions) ([]contracts.DeviceInfo, error) {
	ports := gomidi.GetOutPorts()
	if len(ports) == 0 {
		options.Logger.Warn(midi.ErrNoMIDIDevices.Error())
		return nil, midi.ErrNoMIDIDevices
	}
	devices := make([]contracts.DeviceInfo, len(ports))
	for i, p := range ports {
		devices[i] = contracts.DeviceInfo{Name: p.String(), EntityName: p.String()}
	}
	return devices, nil
}

// NewOutput opens the port chosen by options.Device.
func NewOutput(options *midi.OutputOptions) (midi.Output, error) {
	ports := gomidi.GetOutPorts()
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	index, err := midi.SelectDevice(names, options.Device)
	if err != nil {
		return nil, err
	}

	port := ports[index]
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenOutput, port.String(), err)
	}
	options.Logger.Info("MIDI output opened", options.Logger.Field().String("port", port.String()))
	return &Output{logger: options.Logger, port: port, send: send}, nil
}

// Send writes one raw message.
func (o *Output) Send(msg []byte) error {
	return o.send(gomidi.Message(msg))
}

// Close closes the port and shuts the driver down.
func (o *Output) Close() error {
	err := o.port.Close()
	gomidi.CloseDriver()
	o.logger.Info("MIDI output closed")
	return err
}
