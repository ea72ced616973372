package midi

import (
	"errors"
	"testing"

	"github.com/leandrodaf/motorsong/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOutput struct {
	sent   [][]byte
	err    error
	closed bool
}

func (r *recordingOutput) Send(msg []byte) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, append([]byte(nil), msg...))
	return nil
}

func (r *recordingOutput) Close() error {
	r.closed = true
	return nil
}

func TestMappingValidate(t *testing.T) {
	tests := map[string]struct {
		mapping Mapping
		ok      bool
	}{
		"valid":         {Mapping{Channel: 9, Velocity: 100, Keys: []uint8{36, 38}}, true},
		"channel":       {Mapping{Channel: 16, Velocity: 100, Keys: []uint8{36}}, false},
		"zero velocity": {Mapping{Velocity: 0, Keys: []uint8{36}}, false},
		"velocity":      {Mapping{Velocity: 128, Keys: []uint8{36}}, false},
		"no keys":       {Mapping{Velocity: 100}, false},
		"key":           {Mapping{Velocity: 100, Keys: []uint8{200}}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.mapping.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidMapping)
		})
	}
}

func TestBankSendsTransitionsOnly(t *testing.T) {
	out := &recordingOutput{}
	bank, err := NewBank(out, Mapping{Channel: 2, Velocity: 90, Keys: []uint8{60, 64}}, logger.NewNopLogger())
	require.NoError(t, err)
	acts := bank.Actuators()

	acts[0].Reset()
	acts[0].Advance()
	acts[0].Advance()
	acts[1].Advance()
	acts[0].Reset()

	assert.Equal(t, [][]byte{
		{0x92, 60, 90},
		{0x92, 64, 90},
		{0x82, 60, 0},
	}, out.sent)

	out.sent = nil
	require.NoError(t, bank.Close())
	assert.Equal(t, [][]byte{{0x82, 64, 0}}, out.sent, "sounding keys are released on close")
	assert.True(t, out.closed)
}

func TestBankCountsFailures(t *testing.T) {
	out := &recordingOutput{err: errors.New("port gone")}
	bank, err := NewBank(out, Mapping{Velocity: 1, Keys: []uint8{60}}, logger.NewNopLogger())
	require.NoError(t, err)

	bank.Actuators()[0].Advance()
	bank.Actuators()[0].Advance()
	assert.Equal(t, uint64(2), bank.Failures(), "a failed note on is retried")
}

func TestSelectDevice(t *testing.T) {
	devices := []string{"IAC Driver Bus 1", "USB MIDI Interface", "usb"}

	i, err := SelectDevice(devices, "")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = SelectDevice(devices, "usb")
	require.NoError(t, err)
	assert.Equal(t, 2, i, "exact match first")

	i, err = SelectDevice(devices, "interface")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = SelectDevice(devices, "synth")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	_, err = SelectDevice(nil, "")
	assert.ErrorIs(t, err, ErrNoMIDIDevices)
}
