//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/motorsong/internal/midi"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIOUT windows.Handle

// CALLBACK_NULL opens a device without a status callback.
const CALLBACK_NULL = 0x00000000

// Error definitions for winmm output handling.
var (
	ErrOpenDevice = errors.New("error opening MIDI output device")
	ErrShortMsg   = errors.New("error sending MIDI message")
	ErrMessage    = errors.New("MIDI short message must be 1 to 3 bytes")
)

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// Output sends short messages to one winmm output device.
type Output struct {
	logger contracts.Logger
	handle HMIDIOUT
	mu     sync.Mutex
}

// ListDevices lists the available MIDI output devices
func ListDevices(options *midi.OutputOptions) ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		options.Logger.Warn("No MIDI output devices found")
		return nil, midi.ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			options.Logger.Warn(fmt.Sprintf("Failed to get information for MIDI output %d", i))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// NewOutput opens the output chosen by options.Device.
func NewOutput(options *midi.OutputOptions) (midi.Output, error) {
	devices, err := ListDevices(options)
	if err != nil {
		return nil, err
	}
	deviceID, err := midi.SelectDevice(midi.DeviceNames(devices), options.Device)
	if err != nil {
		return nil, err
	}

	o := &Output{logger: options.Logger}
	r1, _, callErr := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&o.handle)),
		uintptr(deviceID),
		0,
		0,
		uintptr(CALLBACK_NULL),
	)
	if r1 != 0 {
		options.Logger.Error(fmt.Sprintf("Failed to open MIDI output %d: %v", deviceID, callErr))
		return nil, fmt.Errorf("%w %d: MMRESULT %d", ErrOpenDevice, deviceID, r1)
	}

	options.Logger.Info(fmt.Sprintf("MIDI output %d (%s) opened", deviceID, devices[deviceID].Name))
	return o, nil
}

// Send packs msg into a short message: status in the low byte, then the data bytes.
func (o *Output) Send(msg []byte) error {
	if len(msg) == 0 || len(msg) > 3 {
		return ErrMessage
	}
	var packed uint32
	for i, b := range msg {
		packed |= uint32(b) << (8 * i)
	}
	r1, _, _ := procMidiOutShortMsg.Call(uintptr(o.handle), uintptr(packed))
	if r1 != 0 {
		return fmt.Errorf("%w: MMRESULT %d", ErrShortMsg, r1)
	}
	return nil
}

// Close silences the device and releases the handle.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle == 0 {
		return nil
	}
	procMidiOutReset.Call(uintptr(o.handle))
	r1, _, err := procMidiOutClose.Call(uintptr(o.handle))
	if r1 != 0 {
		o.logger.Error(fmt.Sprintf("Failed to close MIDI output: %v", err))
		return err
	}
	o.handle = 0
	o.logger.Info("MIDI output closed")
	return nil
}
