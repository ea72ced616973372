//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/motorsong/internal/midi"
	"github.com/leandrodaf/motorsong/sdk/contracts"
)

// ErrUnavailable is returned on every platform but macOS.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

func ListDevices(options *midi.OutputOptions) ([]contracts.DeviceInfo, error) {
	options.Logger.Warn("ListDevices called on dummy CoreMIDI driver")
	return nil, ErrUnavailable
}

func NewOutput(options *midi.OutputOptions) (midi.Output, error) {
	options.Logger.Warn("NewOutput called on dummy CoreMIDI driver")
	return nil, ErrUnavailable
}
