//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/motorsong/internal/midi"
	"github.com/leandrodaf/motorsong/sdk/contracts"
)

// ErrUnavailable is returned on every platform but Windows.
var ErrUnavailable = errors.New("winmm MIDI is not available on this platform")

// ListDevices logs a warning and returns ErrUnavailable.
func ListDevices(options *midi.OutputOptions) ([]contracts.DeviceInfo, error) {
	options.Logger.Warn("ListDevices called on dummy winmm driver")
	return nil, ErrUnavailable
}

// NewOutput logs a warning and returns ErrUnavailable.
func NewOutput(options *midi.OutputOptions) (midi.Output, error) {
	options.Logger.Warn("NewOutput called on dummy winmm driver")
	return nil, ErrUnavailable
}
