package player

import (
	"errors"
	"testing"

	"github.com/leandrodaf/motorsong/internal/actuator"
	"github.com/leandrodaf/motorsong/internal/clock"
	"github.com/leandrodaf/motorsong/internal/logger"
	"github.com/leandrodaf/motorsong/sdk/contracts"
	"github.com/leandrodaf/motorsong/sdk/song"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRecorder struct {
	runs []contracts.Run
	err  error
}

func (m *memoryRecorder) Record(run contracts.Run) error {
	m.runs = append(m.runs, run)
	return m.err
}

func newTestPlayer(t *testing.T, c contracts.Clock, rec contracts.Recorder, actuators int) (*Player, []*actuator.Stub) {
	t.Helper()
	stubs, acts := actuator.NewStubs(actuators)
	p, err := New(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithClock(c),
		contracts.WithActuators("stub", acts...),
		contracts.WithRecorder(rec),
	)
	require.NoError(t, err)
	return p, stubs
}

func TestNewRequiresActuators(t *testing.T) {
	_, err := New(contracts.WithLogger(logger.NewNopLogger()))
	assert.ErrorIs(t, err, ErrNoActuators)
}

func TestApplyDefaultOptions(t *testing.T) {
	_, acts := actuator.NewStubs(1)
	opts, err := applyDefaultOptions(contracts.WithActuators("", acts...))
	require.NoError(t, err)

	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.Clock)
	assert.Equal(t, contracts.InfoLevel, opts.LogLevel)
	assert.Equal(t, "custom", opts.Backend)
	assert.Nil(t, opts.Recorder)
}

func TestPlayRejectsInvalidGraph(t *testing.T) {
	rec := &memoryRecorder{}
	p, _ := newTestPlayer(t, clock.NewSim(), rec, 1)

	g := song.Graph{Notes: []song.Note{{ActuatorID: 3, Duration: 20}}, Entries: []uint32{0}}
	_, err := p.Play("broken", g)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGraph)
	assert.ErrorIs(t, err, song.ErrActuatorOutOfRange)
	assert.Empty(t, rec.runs, "nothing was played")
}

func TestPlayRecordsRun(t *testing.T) {
	rec := &memoryRecorder{}
	sim := clock.NewSim()
	p, stubs := newTestPlayer(t, sim, rec, 2)

	b := song.NewBuilder()
	b.Add(0, song.Tone(song.Pitch(4, 9), 10_000))
	b.Add(0, song.Note{}.AsExit())
	b.Add(1, song.Tone(song.Pitch(3, 9), 1_000_000).GoTo(b.Len()))
	g, err := b.Build()
	require.NoError(t, err)

	res, err := p.Play("duet", g)
	require.NoError(t, err)
	assert.Equal(t, uint64(501), res.Ticks)
	assert.Equal(t, res.Ticks, sim.Waits())
	assert.NotZero(t, stubs[1].Rising)

	require.Len(t, rec.runs, 1)
	run := rec.runs[0]
	assert.Equal(t, "duet", run.Song)
	assert.Equal(t, "stub", run.Backend)
	assert.Equal(t, uint64(501), run.Ticks)
	assert.Equal(t, res.Played, run.Played)
	assert.Equal(t, uint32(1), run.ExitNote)
	assert.Empty(t, run.Err)
	assert.False(t, run.Started.IsZero())
}

func TestPlayRecordsClockFailure(t *testing.T) {
	rec := &memoryRecorder{}
	p, _ := newTestPlayer(t, clock.NewSim().FailAfter(3), rec, 1)

	b := song.NewBuilder()
	b.Add(0, song.Tone(song.Pitch(4, 0), 1_000).GoTo(0))
	g, err := b.Build()
	require.NoError(t, err)

	res, err := p.Play("endless", g)
	assert.ErrorIs(t, err, ErrClockFailure)
	assert.Equal(t, uint64(3), res.Ticks)

	require.Len(t, rec.runs, 1)
	assert.Contains(t, rec.runs[0].Err, "clock failure")
}

func TestRecorderErrorDoesNotFailPlay(t *testing.T) {
	rec := &memoryRecorder{err: errors.New("disk full")}
	p, _ := newTestPlayer(t, clock.NewSim(), rec, 1)

	b := song.NewBuilder()
	b.Add(0, song.Note{}.AsExit())
	g, err := b.Build()
	require.NoError(t, err)

	_, err = p.Play("silence", g)
	assert.NoError(t, err)
	assert.Len(t, rec.runs, 1)
}
