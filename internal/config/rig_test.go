package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, BackendStub, cfg.Backend)
	assert.Equal(t, DefaultActuators, cfg.Actuators)
	assert.Equal(t, contracts.InfoLevel, cfg.LogLevelValue())
	assert.Equal(t, 44_100, cfg.Audio.SampleRate)
	assert.Empty(t, cfg.History.Path)
}

func TestParseBackends(t *testing.T) {
	tests := map[string]struct {
		yaml  string
		check func(t *testing.T, cfg Rig)
	}{
		"audio": {
			yaml: "backend: audio\nactuators: 3\naudio:\n  sample_rate: 48000\n  output: out.wav\n",
			check: func(t *testing.T, cfg Rig) {
				assert.Equal(t, 3, cfg.Actuators)
				assert.Equal(t, 48_000, cfg.Audio.SampleRate)
				assert.Equal(t, "out.wav", cfg.Audio.Output)
			},
		},
		"gpio derives count from pins": {
			yaml: "backend: gpio\ngpio:\n  pins: [GPIO14, GPIO15, GPIO18]\n",
			check: func(t *testing.T, cfg Rig) {
				assert.Equal(t, 3, cfg.Actuators)
			},
		},
		"serial": {
			yaml: "backend: serial\nserial:\n  port: /dev/ttyACM0\n",
			check: func(t *testing.T, cfg Rig) {
				assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
				assert.Equal(t, 115_200, cfg.Serial.Baud)
			},
		},
		"midi default keys": {
			yaml: "backend: midi\nactuators: 4\nmidi:\n  channel: 9\n",
			check: func(t *testing.T, cfg Rig) {
				assert.Equal(t, []uint8{60, 61, 62, 63}, cfg.MIDI.Keys)
				assert.Equal(t, uint8(100), cfg.MIDI.Velocity)
				assert.Equal(t, uint8(9), cfg.MIDI.Channel)
			},
		},
		"midi count from keys": {
			yaml: "backend: midi\nmidi:\n  keys: [36, 38]\n",
			check: func(t *testing.T, cfg Rig) {
				assert.Equal(t, 2, cfg.Actuators)
			},
		},
		"history and logging": {
			yaml: "log_level: debug\nlog_file: run.log\nhistory:\n  path: runs.db\n",
			check: func(t *testing.T, cfg Rig) {
				assert.Equal(t, contracts.DebugLevel, cfg.LogLevelValue())
				assert.Equal(t, "run.log", cfg.LogFile)
				assert.Equal(t, "runs.db", cfg.History.Path)
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string]struct {
		yaml string
		want error
	}{
		"unknown backend":     {"backend: theremin\n", ErrUnknownBackend},
		"unknown field":       {"backend: stub\ntempo: 120\n", ErrParseConfig},
		"bad yaml":            {"backend: [\n", ErrParseConfig},
		"log level":           {"log_level: loud\n", ErrLogLevel},
		"negative actuators":  {"actuators: -1\n", ErrActuatorCount},
		"gpio without pins":   {"backend: gpio\n", ErrActuatorCount},
		"gpio pin mismatch":   {"backend: gpio\nactuators: 2\ngpio:\n  pins: [GPIO14]\n", ErrActuatorCount},
		"serial without port": {"backend: serial\n", ErrMissingField},
		"serial too many":     {"backend: serial\nactuators: 300\nserial:\n  port: COM3\n", ErrActuatorCount},
		"midi key mismatch":   {"backend: midi\nactuators: 3\nmidi:\n  keys: [1, 2]\n", ErrActuatorCount},
		"midi channel":        {"backend: midi\nmidi:\n  channel: 16\n", ErrOutOfRange},
		"midi velocity":       {"backend: midi\nmidi:\n  velocity: 0\n", ErrOutOfRange},
		"midi driver":         {"backend: midi\nmidi:\n  driver: alsa\n", ErrOutOfRange},
		"audio sample rate":   {"backend: audio\naudio:\n  sample_rate: 0\n  speaker: true\n", ErrOutOfRange},
		"audio nowhere to go": {"backend: audio\naudio:\n  sample_rate: 22050\n", ErrMissingField},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: audio\naudio:\n  speaker: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendAudio, cfg.Backend)
	assert.True(t, cfg.Audio.Speaker)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestOverridesApplyBeforeNormalize(t *testing.T) {
	cfg, err := Load("", func(r *Rig) {
		r.Backend = BackendMIDI
		r.MIDI.Keys = []uint8{36, 38, 42}
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Actuators, "count derived from the overridden keys")
}

func TestDefaultKeysStopAtHighestNote(t *testing.T) {
	assert.Len(t, DefaultKeys(100), 68)
}
