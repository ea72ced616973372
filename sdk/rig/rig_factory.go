// Package rig builds the actuators and the clock a song is played on from a rig configuration.
package rig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/leandrodaf/motorsong/internal/actuator"
	"github.com/leandrodaf/motorsong/internal/audio"
	"github.com/leandrodaf/motorsong/internal/clock"
	"github.com/leandrodaf/motorsong/internal/config"
	"github.com/leandrodaf/motorsong/internal/gpio"
	"github.com/leandrodaf/motorsong/internal/midi"
	"github.com/leandrodaf/motorsong/internal/midi/mididarwin"
	"github.com/leandrodaf/motorsong/internal/midi/midiport"
	"github.com/leandrodaf/motorsong/internal/midi/midiwindows"
	"github.com/leandrodaf/motorsong/internal/serialout"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	"go.uber.org/multierr"
)

// ErrUnsupportedOS is returned when a native MIDI driver is requested on an operating system
// without one.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Rig is a set of actuators together with the clock that paces them.
type Rig struct {
	Backend   string
	Actuators []contracts.Actuator
	Clock     contracts.Clock
	Info      []contracts.ActuatorInfo

	Stubs []*actuator.Stub // Set by the stub backend.
	Synth *audio.Synth     // Set by the audio backend.

	audio   config.Audio
	closers []func() error
}

// Close releases every backend resource in reverse order of acquisition and combines the errors.
func (r *Rig) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, r.closers[i]())
	}
	r.closers = nil
	return err
}

// Flush delivers what an audio rig rendered: the WAV file and the speaker, as configured.
// It does nothing on other backends.
func (r *Rig) Flush() error {
	if r.Synth == nil {
		return nil
	}
	if r.audio.Output != "" {
		f, err := os.Create(r.audio.Output)
		if err != nil {
			return err
		}
		err = multierr.Append(r.Synth.WriteWAV(f), f.Close())
		if err != nil {
			return err
		}
	}
	if r.audio.Speaker {
		return r.Synth.PlaySpeaker()
	}
	return nil
}

// rigInitializers maps backend names to rig initializers.
var rigInitializers = map[string]func(context.Context, config.Rig, contracts.Logger) (*Rig, error){
	config.BackendStub:   newStubRig,   // Counting stubs on a virtual clock.
	config.BackendAudio:  newAudioRig,  // Synth rendering to WAV and speaker.
	config.BackendGPIO:   newGPIORig,   // periph.io output pins.
	config.BackendSerial: newSerialRig, // Framed commands over a serial line.
	config.BackendMIDI:   newMIDIRig,   // Note on/off through the platform MIDI driver.
}

// nativeMIDIDrivers maps OS names to their native MIDI output drivers.
var nativeMIDIDrivers = map[string]midi.Driver{
	"darwin":  {Name: "coremidi", ListDevices: mididarwin.ListDevices, NewOutput: mididarwin.NewOutput},
	"windows": {Name: "winmm", ListDevices: midiwindows.ListDevices, NewOutput: midiwindows.NewOutput},
}

var rtMIDIDriver = midi.Driver{Name: "rtmidi", ListDevices: midiport.ListDevices, NewOutput: midiport.NewOutput}

// New builds the rig described by cfg. Real-time backends pace playback with a monotonic clock
// bound to ctx, so cancelling ctx aborts a performance at its next tick.
//
// ctx context.Context: Bounds real-time playback.
// cfg config.Rig: A validated rig configuration.
// logger contracts.Logger: Logger handed to every backend.
//
// Returns:
//   - *Rig: The actuators, clock and descriptions; Close it when done.
//   - error: config.ErrUnknownBackend or the backend's setup error.
func New(ctx context.Context, cfg config.Rig, logger contracts.Logger) (*Rig, error) {
	initializer, exists := rigInitializers[cfg.Backend]
	if !exists {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
	r, err := initializer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	r.Backend = cfg.Backend
	logger.Info("Rig ready",
		logger.Field().String("backend", cfg.Backend),
		logger.Field().Int("actuators", len(r.Actuators)))
	return r, nil
}

// MIDIDriver selects the MIDI output driver: the platform's native one, or gomidi's rtmidi
// driver when asked for or when the platform has no native driver and none was required.
//
// name string: config.MIDIDriverNative, config.MIDIDriverRtMidi or empty.
//
// Returns:
//   - midi.Driver: The selected driver.
//   - error: ErrUnsupportedOS when the native driver was required but does not exist.
func MIDIDriver(name string) (midi.Driver, error) {
	if name == config.MIDIDriverRtMidi {
		return rtMIDIDriver, nil
	}
	if driver, exists := nativeMIDIDrivers[runtime.GOOS]; exists {
		return driver, nil
	}
	if name == config.MIDIDriverNative {
		return midi.Driver{}, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
	}
	return rtMIDIDriver, nil
}

// ListMIDIDevices lists the outputs of the driver cfg selects.
func ListMIDIDevices(cfg config.Rig, logger contracts.Logger) ([]contracts.DeviceInfo, error) {
	driver, err := MIDIDriver(cfg.MIDI.Driver)
	if err != nil {
		return nil, err
	}
	return driver.ListDevices(&midi.OutputOptions{Logger: logger, ClientName: cfg.MIDI.ClientName})
}

func newStubRig(_ context.Context, cfg config.Rig, _ contracts.Logger) (*Rig, error) {
	stubs, acts := actuator.NewStubs(cfg.Actuators)
	return &Rig{
		Actuators: acts,
		Clock:     clock.NewSim(),
		Info:      describe(config.BackendStub, cfg.Actuators, func(i int) string { return fmt.Sprintf("stub/%d", i) }),
		Stubs:     stubs,
	}, nil
}

func newAudioRig(_ context.Context, cfg config.Rig, _ contracts.Logger) (*Rig, error) {
	synth, err := audio.NewSynth(cfg.Audio.SampleRate, cfg.Actuators)
	if err != nil {
		return nil, err
	}
	return &Rig{
		Actuators: synth.Actuators(),
		Clock:     synth,
		Info:      describe(config.BackendAudio, cfg.Actuators, func(i int) string { return fmt.Sprintf("synth/%d", i) }),
		Synth:     synth,
		audio:     cfg.Audio,
	}, nil
}

func newGPIORig(ctx context.Context, cfg config.Rig, logger contracts.Logger) (*Rig, error) {
	pins, err := gpio.Open(cfg.GPIO.Pins, logger)
	if err != nil {
		return nil, err
	}
	return &Rig{
		Actuators: gpio.Actuators(pins),
		Clock:     clock.NewMonotonic(ctx),
		Info:      describe(config.BackendGPIO, len(pins), func(i int) string { return pins[i].Name() }),
		closers:   []func() error{func() error { return gpio.CloseAll(pins) }},
	}, nil
}

func newSerialRig(ctx context.Context, cfg config.Rig, logger contracts.Logger) (*Rig, error) {
	link, err := serialout.Open(cfg.Serial.Port, cfg.Serial.Baud, cfg.Actuators, logger)
	if err != nil {
		return nil, err
	}
	return &Rig{
		Actuators: link.Actuators(),
		Clock:     clock.NewMonotonic(ctx),
		Info: describe(config.BackendSerial, cfg.Actuators, func(i int) string {
			return fmt.Sprintf("%s#%d", cfg.Serial.Port, i)
		}),
		closers: []func() error{link.Close},
	}, nil
}

func newMIDIRig(ctx context.Context, cfg config.Rig, logger contracts.Logger) (*Rig, error) {
	driver, err := MIDIDriver(cfg.MIDI.Driver)
	if err != nil {
		return nil, err
	}
	out, err := driver.NewOutput(&midi.OutputOptions{
		Logger:     logger,
		ClientName: cfg.MIDI.ClientName,
		Device:     cfg.MIDI.Port,
	})
	if err != nil {
		return nil, err
	}
	bank, err := midi.NewBank(out, midi.Mapping{
		Channel:  cfg.MIDI.Channel,
		Velocity: cfg.MIDI.Velocity,
		Keys:     cfg.MIDI.Keys,
	}, logger)
	if err != nil {
		return nil, multierr.Append(err, out.Close())
	}
	return &Rig{
		Actuators: bank.Actuators(),
		Clock:     clock.NewMonotonic(ctx),
		Info: describe(config.BackendMIDI, len(cfg.MIDI.Keys), func(i int) string {
			return fmt.Sprintf("%s ch%d key%d", driver.Name, cfg.MIDI.Channel+1, cfg.MIDI.Keys[i])
		}),
		closers: []func() error{bank.Close},
	}, nil
}

func describe(backend string, n int, address func(i int) string) []contracts.ActuatorInfo {
	info := make([]contracts.ActuatorInfo, n)
	for i := range info {
		info[i] = contracts.ActuatorInfo{ID: i, Backend: backend, Address: address(i)}
	}
	return info
}
