package rig

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/leandrodaf/motorsong/internal/clock"
	"github.com/leandrodaf/motorsong/internal/config"
	"github.com/leandrodaf/motorsong/internal/logger"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/leandrodaf/motorsong/sdk/player"
	"github.com/leandrodaf/motorsong/sdk/song"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concertA(t *testing.T) song.Graph {
	t.Helper()
	b := song.NewBuilder()
	b.Add(0, song.Tone(song.Pitch(4, 9), 100_000))
	b.Add(0, song.Note{}.AsExit())
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "theremin"
	_, err := New(context.Background(), cfg, logger.NewNopLogger())
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestStubRig(t *testing.T) {
	cfg := config.Default()
	cfg.Actuators = 3
	r, err := New(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, config.BackendStub, r.Backend)
	assert.Len(t, r.Actuators, 3)
	assert.Len(t, r.Stubs, 3)
	assert.IsType(t, &clock.Sim{}, r.Clock)
	assert.Equal(t, contracts.ActuatorInfo{ID: 2, Backend: "stub", Address: "stub/2"}, r.Info[2])

	p, err := player.New(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithClock(r.Clock),
		contracts.WithActuators(r.Backend, r.Actuators...),
	)
	require.NoError(t, err)
	res, err := p.Play("a", concertA(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(5_001), res.Ticks)
	assert.Equal(t, uint64(45), r.Stubs[0].Rising)
	assert.NoError(t, r.Flush())
}

func TestAudioRigWritesWAV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "a.wav")
	cfg, err := config.Parse([]byte("backend: audio\nactuators: 1\naudio:\n  sample_rate: 22050\n  output: " + out + "\n"))
	require.NoError(t, err)

	r, err := New(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer r.Close()
	require.NotNil(t, r.Synth)

	_, err = player.NewEngine(concertA(t), r.Actuators, r.Clock).Play()
	require.NoError(t, err)
	require.NoError(t, r.Flush())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))
}

func TestMIDIDriverSelection(t *testing.T) {
	d, err := MIDIDriver(config.MIDIDriverRtMidi)
	require.NoError(t, err)
	assert.Equal(t, "rtmidi", d.Name)

	d, err = MIDIDriver("")
	require.NoError(t, err)
	native, hasNative := nativeMIDIDrivers[runtime.GOOS]
	if hasNative {
		assert.Equal(t, native.Name, d.Name)
	} else {
		assert.Equal(t, "rtmidi", d.Name)
		_, err = MIDIDriver(config.MIDIDriverNative)
		assert.ErrorIs(t, err, ErrUnsupportedOS)
	}
}

func TestCloseCombinesErrors(t *testing.T) {
	var order []int
	r := &Rig{closers: []func() error{
		func() error { order = append(order, 1); return assert.AnError },
		func() error { order = append(order, 2); return nil },
	}}
	assert.ErrorIs(t, r.Close(), assert.AnError)
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, r.Close(), "closers run once")
}
