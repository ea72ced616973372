// Package config loads the rig description: which backend drives the actuators and how.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"gopkg.in/yaml.v3"
)

// DefaultActuators is the actuator count of a rig that does not name one.
const DefaultActuators = 2

// Backend names.
const (
	BackendStub   = "stub"
	BackendAudio  = "audio"
	BackendGPIO   = "gpio"
	BackendSerial = "serial"
	BackendMIDI   = "midi"
)

// MIDI driver names.
const (
	MIDIDriverNative = "native"
	MIDIDriverRtMidi = "rtmidi"
)

// Error definitions for rig configuration.
var (
	ErrReadConfig     = errors.New("error reading config file")
	ErrParseConfig    = errors.New("error parsing config file")
	ErrUnknownBackend = errors.New("unknown backend")
	ErrActuatorCount  = errors.New("invalid actuator count")
	ErrLogLevel       = errors.New("unknown log level")
	ErrMissingField   = errors.New("missing required field")
	ErrOutOfRange     = errors.New("value out of range")
)

// Rig is the top-level configuration file.
type Rig struct {
	Backend   string  `yaml:"backend"`
	Actuators int     `yaml:"actuators"`
	LogLevel  string  `yaml:"log_level"`
	LogFile   string  `yaml:"log_file"` // Empty logs to stderr.
	Audio     Audio   `yaml:"audio"`
	GPIO      GPIO    `yaml:"gpio"`
	Serial    Serial  `yaml:"serial"`
	MIDI      MIDI    `yaml:"midi"`
	History   History `yaml:"history"`
}

// Audio configures the synth backend.
type Audio struct {
	SampleRate int    `yaml:"sample_rate"`
	Output     string `yaml:"output"`  // WAV file to write, empty for none.
	Speaker    bool   `yaml:"speaker"` // Play through the default audio device.
}

// GPIO configures the pin backend. One pin per actuator.
type GPIO struct {
	Pins []string `yaml:"pins"`
}

// Serial configures the serial frame backend.
type Serial struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// MIDI configures the note backend. One key per actuator.
type MIDI struct {
	Driver     string  `yaml:"driver"` // MIDIDriverNative, MIDIDriverRtMidi or empty for native with rtmidi fallback.
	Port       string  `yaml:"port"`
	ClientName string  `yaml:"client_name"`
	Channel    uint8   `yaml:"channel"`
	Velocity   uint8   `yaml:"velocity"`
	Keys       []uint8 `yaml:"keys"`
}

// History configures the run history database.
type History struct {
	Path string `yaml:"path"` // Empty disables history.
}

// Default returns the configuration used when no file is given.
func Default() Rig {
	return Rig{
		Backend:  BackendStub,
		LogLevel: "info",
		Audio:    Audio{SampleRate: 44_100},
		Serial:   Serial{Baud: 115_200},
		MIDI:     MIDI{ClientName: "motorsong", Velocity: 100},
	}
}

// Override adjusts a decoded configuration before it is normalized, e.g. from command line flags.
type Override func(*Rig)

// Load reads a YAML file on top of Default, applies overrides and validates the result.
// An empty path loads Default alone.
func Load(path string, overrides ...Override) (Rig, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Rig{}, fmt.Errorf("%w: %v", ErrReadConfig, err)
		}
	}
	return Parse(data, overrides...)
}

// Parse decodes YAML on top of Default, applies overrides, fills derived values and validates
// the result. Unknown keys are rejected.
func Parse(data []byte, overrides ...Override) (Rig, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Rig{}, fmt.Errorf("%w: %v", ErrParseConfig, err)
	}
	for _, override := range overrides {
		override(&cfg)
	}
	if err := cfg.Normalize(); err != nil {
		return Rig{}, err
	}
	return cfg, nil
}

// Normalize fills an unset actuator count, from gpio.pins or midi.keys when the backend has
// them and DefaultActuators otherwise, fills default MIDI keys and validates the result.
func (r *Rig) Normalize() error {
	if r.Actuators == 0 {
		switch {
		case r.Backend == BackendGPIO:
			r.Actuators = len(r.GPIO.Pins)
		case r.Backend == BackendMIDI && len(r.MIDI.Keys) > 0:
			r.Actuators = len(r.MIDI.Keys)
		default:
			r.Actuators = DefaultActuators
		}
	}
	if r.Backend == BackendMIDI && len(r.MIDI.Keys) == 0 {
		r.MIDI.Keys = DefaultKeys(r.Actuators)
	}
	return r.Validate()
}

// Validate checks the configuration without changing it.
func (r Rig) Validate() error {
	if _, ok := contracts.ParseLogLevel(r.LogLevel); !ok {
		return fmt.Errorf("%w: %q", ErrLogLevel, r.LogLevel)
	}
	if r.Actuators < 1 {
		return fmt.Errorf("%w: %d", ErrActuatorCount, r.Actuators)
	}

	switch r.Backend {
	case BackendStub:
	case BackendAudio:
		if r.Audio.SampleRate <= 0 {
			return fmt.Errorf("%w: audio.sample_rate %d", ErrOutOfRange, r.Audio.SampleRate)
		}
		if r.Audio.Output == "" && !r.Audio.Speaker {
			return fmt.Errorf("%w: audio.output or audio.speaker", ErrMissingField)
		}
	case BackendGPIO:
		if len(r.GPIO.Pins) != r.Actuators {
			return fmt.Errorf("%w: %d actuators, %d gpio.pins", ErrActuatorCount, r.Actuators, len(r.GPIO.Pins))
		}
	case BackendSerial:
		if r.Serial.Port == "" {
			return fmt.Errorf("%w: serial.port", ErrMissingField)
		}
		if r.Serial.Baud <= 0 {
			return fmt.Errorf("%w: serial.baud %d", ErrOutOfRange, r.Serial.Baud)
		}
		if r.Actuators > 256 {
			return fmt.Errorf("%w: serial supports 256 actuators, got %d", ErrActuatorCount, r.Actuators)
		}
	case BackendMIDI:
		if len(r.MIDI.Keys) != r.Actuators {
			return fmt.Errorf("%w: %d actuators, %d midi.keys", ErrActuatorCount, r.Actuators, len(r.MIDI.Keys))
		}
		switch r.MIDI.Driver {
		case "", MIDIDriverNative, MIDIDriverRtMidi:
		default:
			return fmt.Errorf("%w: midi.driver %q", ErrOutOfRange, r.MIDI.Driver)
		}
		if r.MIDI.Channel > 15 {
			return fmt.Errorf("%w: midi.channel %d", ErrOutOfRange, r.MIDI.Channel)
		}
		if r.MIDI.Velocity == 0 || r.MIDI.Velocity > 127 {
			return fmt.Errorf("%w: midi.velocity %d", ErrOutOfRange, r.MIDI.Velocity)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, r.Backend)
	}
	return nil
}

// LogLevelValue returns the parsed log level. Call after Validate.
func (r Rig) LogLevelValue() contracts.LogLevel {
	level, _ := contracts.ParseLogLevel(r.LogLevel)
	return level
}

// DefaultKeys returns n chromatic keys starting at middle C.
func DefaultKeys(n int) []uint8 {
	keys := make([]uint8, 0, n)
	for i := 0; i < n && 60+i <= 127; i++ {
		keys = append(keys, uint8(60+i))
	}
	return keys
}
